package validator

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/stackshift/stack-migrator/synth"
	"github.com/stackshift/stack-migrator/types"
)

type IValidatorClient interface {
	Validate(ctx context.Context, manifest *types.Manifest, logicalIDMap map[string]string, original *types.Template) (*types.ValidationResult, error)
}

type ValidatorClient struct {
	SynthClient synth.ISynthClient
	Logger      *logrus.Logger
}

func NewValidatorClient(synthClient synth.ISynthClient, logger *logrus.Logger) *ValidatorClient {
	return &ValidatorClient{
		SynthClient: synthClient,
		Logger:      logger,
	}
}

// Validate re-synthesizes the manifest and diffs the result against the original template.
// HAS_CHANGES is a verdict, not an error.
func (validatorClient *ValidatorClient) Validate(ctx context.Context, manifest *types.Manifest, logicalIDMap map[string]string, original *types.Template) (*types.ValidationResult, error) {
	candidate, err := validatorClient.SynthClient.Synthesize(ctx, manifest, logicalIDMap)
	if err != nil {
		return nil, errors.Wrap(err, "failed to synthesize candidate manifest")
	}

	diff, warnings := DiffTemplates(original, candidate)
	result := &types.ValidationResult{
		Verdict:   diff.Verdict(),
		Diff:      diff,
		Errors:    []string{},
		Warnings:  warnings,
		Candidate: candidate,
	}

	for logicalID, raw := range candidate.Resources() {
		if _, ok := raw.(map[string]any); !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("synthesized resource %s is not an object", logicalID))
		}
	}

	sort.Strings(result.Errors)

	for _, warning := range warnings {
		validatorClient.Logger.Warn(warning.Message)
	}
	validatorClient.Logger.Infof("Validation verdict %s: %d added, %d removed, %d modified",
		result.Verdict, len(diff.AddedResourceIDs), len(diff.RemovedResourceIDs), len(diff.ModifiedResources))
	return result, nil
}
