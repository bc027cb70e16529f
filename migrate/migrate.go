package migrate

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/stackshift/stack-migrator/analyzer"
	"github.com/stackshift/stack-migrator/csv"
	"github.com/stackshift/stack-migrator/filepathparser"
	"github.com/stackshift/stack-migrator/hcl"
	"github.com/stackshift/stack-migrator/identity"
	"github.com/stackshift/stack-migrator/json"
	"github.com/stackshift/stack-migrator/manifest"
	"github.com/stackshift/stack-migrator/mapper"
	"github.com/stackshift/stack-migrator/report"
	"github.com/stackshift/stack-migrator/synth"
	"github.com/stackshift/stack-migrator/template"
	"github.com/stackshift/stack-migrator/types"
	"github.com/stackshift/stack-migrator/validator"
)

var ErrOutputOccupied = errors.New("output path already exists and is not empty")

const (
	ExitCodeClean   = 0
	ExitCodeFatal   = 1
	ExitCodePartial = 2
)

type Request struct {
	ServiceName string
	Owner       string
	Profile     types.ComplianceProfile
	OutputPath  string
}

type Outcome struct {
	OutputPath string
	Artifacts  []string
	Analysis   *types.AnalysisResult
	Mapping    *types.MappingResult
	Identity   *types.IdentityResult
	Validation *types.ValidationResult
	Issues     []types.Issue
	clean      bool
}

// Clean is true only for a NO_CHANGES verdict with zero unmappable resources.
func (outcome *Outcome) Clean() bool {
	return outcome.clean
}

func (outcome *Outcome) ExitCode() int {
	if outcome.Clean() {
		return ExitCodeClean
	}
	return ExitCodePartial
}

type IMigrationClient interface {
	Run(ctx context.Context, request Request) (*Outcome, error)
}

type MigrationClient struct {
	TemplateClient  template.ITemplateClient
	AnalyzerClient  analyzer.IAnalyzerClient
	MapperClient    mapper.IMapperClient
	PreserverClient identity.IPreserverClient
	ManifestClient  manifest.IManifestClient
	ValidatorClient validator.IValidatorClient
	JsonClient      json.IJsonClient
	HclClient       hcl.IHclClient
	IssueCsvClient  csv.IIssueCsvClient
	ReportClient    report.IReportClient
	Logger          *logrus.Logger
}

func NewMigrationClient(
	templateClient template.ITemplateClient,
	analyzerClient analyzer.IAnalyzerClient,
	mapperClient mapper.IMapperClient,
	preserverClient identity.IPreserverClient,
	manifestClient manifest.IManifestClient,
	validatorClient validator.IValidatorClient,
	jsonClient json.IJsonClient,
	hclClient hcl.IHclClient,
	issueCsvClient csv.IIssueCsvClient,
	reportClient report.IReportClient,
	logger *logrus.Logger,
) *MigrationClient {
	return &MigrationClient{
		TemplateClient:  templateClient,
		AnalyzerClient:  analyzerClient,
		MapperClient:    mapperClient,
		PreserverClient: preserverClient,
		ManifestClient:  manifestClient,
		ValidatorClient: validatorClient,
		JsonClient:      jsonClient,
		HclClient:       hclClient,
		IssueCsvClient:  issueCsvClient,
		ReportClient:    reportClient,
		Logger:          logger,
	}
}

type artifact struct {
	fileName string
	content  []byte
}

// Run executes the whole pipeline. Artifacts are written only when every stage succeeds.
func (migrationClient *MigrationClient) Run(ctx context.Context, request Request) (*Outcome, error) {
	vacant, err := filepathparser.IsVacant(request.OutputPath)
	if err != nil {
		return nil, err
	}
	if !vacant {
		return nil, errors.Wrapf(ErrOutputOccupied, "%s", request.OutputPath)
	}

	originalTemplate, err := migrationClient.TemplateClient.Load(ctx)
	if err != nil {
		return nil, err
	}

	analysis, err := migrationClient.AnalyzerClient.Analyze(originalTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to analyze template")
	}

	mapping, err := migrationClient.MapperClient.MapResources(analysis.Resources, analysis.Relationships, request.ServiceName, request.Profile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to map resources")
	}

	identityResult := migrationClient.PreserverClient.PreserveIdentities(analysis.Resources, mapping)
	serviceManifest := manifest.Build(request.ServiceName, request.Owner, request.Profile, mapping.Components)

	validation, err := migrationClient.ValidatorClient.Validate(ctx, serviceManifest, identityResult.ForwardIndex, originalTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to validate migration")
	}
	preservationIssues := migrationClient.PreserverClient.ValidatePreservation(originalTemplate, validation.Candidate, identityResult, mapping)

	issues := []types.Issue{}
	issues = append(issues, analysis.Issues...)
	issues = append(issues, mapping.Issues...)
	issues = append(issues, identityResult.Warnings...)
	issues = append(issues, validation.Warnings...)
	issues = append(issues, preservationIssues...)
	migrationClient.logIssues(issues)

	digest, err := migrationClient.templateDigest(originalTemplate)
	if err != nil {
		return nil, err
	}
	reportData := &report.ReportData{
		ServiceName:    request.ServiceName,
		Profile:        request.Profile,
		TemplateDigest: digest,
		TotalResources: len(analysis.Resources),
		Mapping:        mapping,
		Identity:       identityResult,
		Validation:     validation,
		Issues:         issues,
	}

	artifacts, err := migrationClient.renderArtifacts(serviceManifest, identityResult, mapping, reportData, issues)
	if err != nil {
		return nil, err
	}
	if err := migrationClient.writeArtifacts(request.OutputPath, artifacts); err != nil {
		return nil, err
	}

	outcome := &Outcome{
		OutputPath: request.OutputPath,
		Analysis:   analysis,
		Mapping:    mapping,
		Identity:   identityResult,
		Validation: validation,
		Issues:     issues,
		clean:      reportData.Clean(),
	}
	for _, artifact := range artifacts {
		outcome.Artifacts = append(outcome.Artifacts, artifact.fileName)
	}
	migrationClient.Logger.Infof("Migration of %s finished: verdict %s, %d unmappable resources", request.ServiceName, validation.Verdict, len(mapping.UnmappableResources))
	return outcome, nil
}

func (migrationClient *MigrationClient) renderArtifacts(serviceManifest *types.Manifest, identityResult *types.IdentityResult, mapping *types.MappingResult, reportData *report.ReportData, issues []types.Issue) ([]artifact, error) {
	manifestContent, err := migrationClient.ManifestClient.Render(serviceManifest)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render manifest")
	}
	indexContent, err := migrationClient.JsonClient.Marshal(identityResult.ForwardIndex)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render logical ID map")
	}
	patchesContent, err := migrationClient.HclClient.RenderPatches(mapping.UnmappableResources)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render escape hatches")
	}
	reportContent, err := migrationClient.ReportClient.Render(reportData)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render report")
	}

	artifacts := []artifact{
		{fileName: manifest.FileName, content: manifestContent},
		{fileName: synth.LogicalIDMapFileName, content: indexContent},
		{fileName: hcl.PatchesFileName, content: patchesContent},
		{fileName: report.FileName, content: reportContent},
	}

	followUp := types.FilterIssues(issues, types.SeverityWarning)
	if len(followUp) > 0 || len(mapping.UnmappableResources) > 0 {
		csvContent, err := migrationClient.IssueCsvClient.Render(issues, mapping.UnmappableResources)
		if err != nil {
			return nil, errors.Wrap(err, "failed to render issues")
		}
		artifacts = append(artifacts, artifact{fileName: csv.IssuesFileName, content: csvContent})
	}
	return artifacts, nil
}

// writeArtifacts fills a sibling staging folder and renames it into place.
func (migrationClient *MigrationClient) writeArtifacts(outputPath string, artifacts []artifact) error {
	parent := filepath.Dir(outputPath)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create folder: %v", parent)
	}
	stagingPath, err := os.MkdirTemp(parent, "."+filepath.Base(outputPath)+"-staging-")
	if err != nil {
		return errors.Wrap(err, "failed to create staging folder")
	}

	for _, artifact := range artifacts {
		path := filepath.Join(stagingPath, artifact.fileName)
		if err := os.WriteFile(path, artifact.content, 0o644); err != nil {
			os.RemoveAll(stagingPath)
			return errors.Wrapf(err, "failed to write artifact: %v", artifact.fileName)
		}
		migrationClient.Logger.Debugf("Staged %s (%d bytes)", artifact.fileName, len(artifact.content))
	}

	if err := os.Chmod(stagingPath, 0o755); err != nil {
		os.RemoveAll(stagingPath)
		return errors.Wrap(err, "failed to set staging folder permissions")
	}
	if err := os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
		os.RemoveAll(stagingPath)
		return errors.Wrapf(err, "failed to replace empty output folder: %v", outputPath)
	}
	if err := os.Rename(stagingPath, outputPath); err != nil {
		os.RemoveAll(stagingPath)
		return errors.Wrapf(err, "failed to move artifacts into place: %v", outputPath)
	}
	migrationClient.Logger.Infof("Wrote %d artifacts to %s", len(artifacts), outputPath)
	return nil
}

func (migrationClient *MigrationClient) templateDigest(originalTemplate *types.Template) (string, error) {
	content, err := migrationClient.JsonClient.Marshal(originalTemplate.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to digest template")
	}
	return fmt.Sprintf("%x", sha256.Sum256(content)), nil
}

func (migrationClient *MigrationClient) logIssues(issues []types.Issue) {
	migrationClient.Logger.Infof("Collected %d warnings and %d informational issues",
		len(types.FilterIssues(issues, types.SeverityWarning)), len(types.FilterIssues(issues, types.SeverityInfo)))
}
