package json

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type IJsonClient interface {
	Marshal(value any) ([]byte, error)
	Export(value any, fileName string) error
	Import(fileName string, value any) error
}

type JsonClient struct {
	WorkingFolderPath string
	Logger            *logrus.Logger
}

func NewJsonClient(workingFolderPath string, logger *logrus.Logger) *JsonClient {
	return &JsonClient{
		WorkingFolderPath: workingFolderPath,
		Logger:            logger,
	}
}

// Marshal renders value as indented JSON with sorted object keys and a trailing newline.
func (jsonClient *JsonClient) Marshal(value any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return nil, errors.Wrap(err, "failed to marshal json")
	}
	return buffer.Bytes(), nil
}

func (jsonClient *JsonClient) Export(value any, fileName string) error {
	content, err := jsonClient.Marshal(value)
	if err != nil {
		return err
	}
	jsonFilePath := jsonClient.path(fileName)
	if err := os.WriteFile(jsonFilePath, content, 0644); err != nil {
		return errors.Wrapf(err, "failed to write file: %v", jsonFilePath)
	}
	jsonClient.Logger.Debugf("JSON written to %s", jsonFilePath)
	return nil
}

func (jsonClient *JsonClient) Import(fileName string, value any) error {
	jsonFilePath := jsonClient.path(fileName)

	content, err := os.ReadFile(jsonFilePath)
	if err != nil {
		return errors.Wrapf(err, "failed to open file: %v", jsonFilePath)
	}
	if err := json.Unmarshal(content, value); err != nil {
		return errors.Wrapf(err, "failed to unmarshal file: %v", jsonFilePath)
	}
	return nil
}

func (jsonClient *JsonClient) path(fileName string) string {
	if filepath.IsAbs(fileName) {
		return fileName
	}
	return filepath.Join(jsonClient.WorkingFolderPath, fileName)
}
