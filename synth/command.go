package synth

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrNoCommand = errors.New("no command configured")

// RunCommand runs command in dir and returns its standard output.
func RunCommand(ctx context.Context, command []string, dir string, logger *logrus.Logger) ([]byte, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, ErrNoCommand
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = dir

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debugf("Running command: %s", cmd.String())
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, "failed to run %v: %s", command[0], strings.TrimSpace(stderr.String()))
	}
	if stderr.Len() > 0 {
		logger.Tracef("Command stderr: %s", stderr.String())
	}
	return stdout.Bytes(), nil
}

// expandPlaceholders substitutes {name} placeholders in every argument and reports which were used.
func expandPlaceholders(command []string, values map[string]string) ([]string, map[string]bool) {
	used := map[string]bool{}
	expanded := make([]string, len(command))
	for i, argument := range command {
		for placeholder, value := range values {
			if strings.Contains(argument, placeholder) {
				argument = strings.ReplaceAll(argument, placeholder, value)
				used[placeholder] = true
			}
		}
		expanded[i] = argument
	}
	return expanded, used
}
