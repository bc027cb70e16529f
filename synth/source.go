package synth

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/stackshift/stack-migrator/template"
	"github.com/stackshift/stack-migrator/types"
)

// SourceTemplateClient loads the original template from the output of a command, such as the
// synthesizer of the stack being migrated.
type SourceTemplateClient struct {
	Command           []string
	WorkingFolderPath string
	Logger            *logrus.Logger
}

var _ template.ITemplateClient = (*SourceTemplateClient)(nil)

func NewSourceTemplateClient(command []string, workingFolderPath string, logger *logrus.Logger) *SourceTemplateClient {
	return &SourceTemplateClient{
		Command:           command,
		WorkingFolderPath: workingFolderPath,
		Logger:            logger,
	}
}

func (sourceClient *SourceTemplateClient) Load(ctx context.Context) (*types.Template, error) {
	sourceClient.Logger.Infof("Reading template from command output")
	content, err := RunCommand(ctx, sourceClient.Command, sourceClient.WorkingFolderPath, sourceClient.Logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read template from command")
	}
	loaded, err := template.Parse(content)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load template from command")
	}
	return loaded, nil
}
