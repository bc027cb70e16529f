package manifest

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/stackshift/stack-migrator/types"
)

const FileName = "service.yml"

type IManifestClient interface {
	Render(manifest *types.Manifest) ([]byte, error)
	Load(path string) (*types.Manifest, error)
}

type ManifestClient struct {
	Logger *logrus.Logger
}

func NewManifestClient(logger *logrus.Logger) *ManifestClient {
	return &ManifestClient{
		Logger: logger,
	}
}

func Build(service string, owner string, profile types.ComplianceProfile, components []types.ComponentDeclaration) *types.Manifest {
	if components == nil {
		components = []types.ComponentDeclaration{}
	}
	return &types.Manifest{
		Service:             service,
		Owner:               owner,
		ComplianceFramework: profile,
		Components:          components,
	}
}

// Render encodes the manifest as YAML. yaml.v3 sorts map keys, so equal manifests render to equal bytes.
func (manifestClient *ManifestClient) Render(manifest *types.Manifest) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(2)
	if err := encoder.Encode(manifest); err != nil {
		return nil, errors.Wrap(err, "failed to render manifest")
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to render manifest")
	}
	manifestClient.Logger.Debugf("Rendered manifest for %s with %d components", manifest.Service, len(manifest.Components))
	return buffer.Bytes(), nil
}

func (manifestClient *ManifestClient) Load(path string) (*types.Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest: %v", path)
	}
	manifest := &types.Manifest{}
	if err := yaml.Unmarshal(content, manifest); err != nil {
		return nil, errors.Wrapf(err, "failed to parse manifest: %v", path)
	}
	if manifest.Service == "" {
		return nil, errors.Errorf("manifest %v has no service name", path)
	}
	if !manifest.ComplianceFramework.IsValidComplianceProfile() {
		return nil, errors.Errorf("manifest %v has unknown compliance framework %q", path, manifest.ComplianceFramework)
	}
	return manifest, nil
}
