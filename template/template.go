package template

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/stackshift/stack-migrator/types"
)

type ITemplateClient interface {
	Load(ctx context.Context) (*types.Template, error)
}

type FileTemplateClient struct {
	TemplatePath string
	Logger       *logrus.Logger
}

func NewFileTemplateClient(templatePath string, logger *logrus.Logger) *FileTemplateClient {
	return &FileTemplateClient{
		TemplatePath: templatePath,
		Logger:       logger,
	}
}

func (templateClient *FileTemplateClient) Load(ctx context.Context) (*types.Template, error) {
	templateClient.Logger.Infof("Reading template: %s", templateClient.TemplatePath)

	content, err := os.ReadFile(templateClient.TemplatePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read template: %v", templateClient.TemplatePath)
	}

	template, err := Parse(content)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load template: %v", templateClient.TemplatePath)
	}
	templateClient.Logger.Debugf("Template %s has %d resources", templateClient.TemplatePath, len(template.ResourceOrder))
	return template, nil
}
