package synth

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/stackshift/stack-migrator/json"
	"github.com/stackshift/stack-migrator/manifest"
	"github.com/stackshift/stack-migrator/template"
	"github.com/stackshift/stack-migrator/types"
)

const (
	PlaceholderManifest     = "{manifest}"
	PlaceholderLogicalIDMap = "{logicalIdMap}"
	PlaceholderOutput       = "{output}"

	LogicalIDMapFileName = "logical-id-map.json"
	outputFileName       = "synthesized.template.json"
)

// ISynthClient turns a manifest into a concrete template. The logical ID map (new ID to original ID)
// makes the synthesizer reuse original identities.
type ISynthClient interface {
	Synthesize(ctx context.Context, manifest *types.Manifest, logicalIDMap map[string]string) (*types.Template, error)
}

type SynthClient struct {
	Command           []string
	WorkingFolderPath string
	ManifestClient    manifest.IManifestClient
	Logger            *logrus.Logger
}

func NewSynthClient(command []string, workingFolderPath string, manifestClient manifest.IManifestClient, logger *logrus.Logger) *SynthClient {
	return &SynthClient{
		Command:           command,
		WorkingFolderPath: workingFolderPath,
		ManifestClient:    manifestClient,
		Logger:            logger,
	}
}

// Synthesize stages the manifest and logical ID map in a temporary folder and runs the configured
// command. The template is read from {output} when the command uses it, otherwise from stdout.
func (synthClient *SynthClient) Synthesize(ctx context.Context, serviceManifest *types.Manifest, logicalIDMap map[string]string) (*types.Template, error) {
	if len(synthClient.Command) == 0 {
		return nil, ErrNoCommand
	}

	stagingPath, err := os.MkdirTemp(synthClient.WorkingFolderPath, "stack-migrator-synth-")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create synthesis folder")
	}
	defer os.RemoveAll(stagingPath)

	manifestContent, err := synthClient.ManifestClient.Render(serviceManifest)
	if err != nil {
		return nil, err
	}
	manifestPath := filepath.Join(stagingPath, manifest.FileName)
	if err := os.WriteFile(manifestPath, manifestContent, 0644); err != nil {
		return nil, errors.Wrapf(err, "failed to write file: %v", manifestPath)
	}

	jsonClient := json.NewJsonClient(stagingPath, synthClient.Logger)
	if logicalIDMap == nil {
		logicalIDMap = map[string]string{}
	}
	if err := jsonClient.Export(logicalIDMap, LogicalIDMapFileName); err != nil {
		return nil, err
	}

	outputPath := filepath.Join(stagingPath, outputFileName)
	command, used := expandPlaceholders(synthClient.Command, map[string]string{
		PlaceholderManifest:     manifestPath,
		PlaceholderLogicalIDMap: filepath.Join(stagingPath, LogicalIDMapFileName),
		PlaceholderOutput:       outputPath,
	})

	synthClient.Logger.Infof("Synthesizing %d components for %s", len(serviceManifest.Components), serviceManifest.Service)
	stdout, err := RunCommand(ctx, command, stagingPath, synthClient.Logger)
	if err != nil {
		return nil, errors.Wrap(err, "synthesis failed")
	}

	content := stdout
	if used[PlaceholderOutput] {
		content, err = os.ReadFile(outputPath)
		if err != nil {
			return nil, errors.Wrapf(err, "synthesis produced no template at %v", outputPath)
		}
	}

	synthesized, err := template.Parse(content)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse synthesized template")
	}
	synthClient.Logger.Debugf("Synthesized template has %d resources", len(synthesized.ResourceOrder))
	return synthesized, nil
}
