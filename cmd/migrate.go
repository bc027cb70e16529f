/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stackshift/stack-migrator/analyzer"
	"github.com/stackshift/stack-migrator/csv"
	"github.com/stackshift/stack-migrator/filepathparser"
	"github.com/stackshift/stack-migrator/hcl"
	"github.com/stackshift/stack-migrator/identity"
	"github.com/stackshift/stack-migrator/json"
	"github.com/stackshift/stack-migrator/manifest"
	"github.com/stackshift/stack-migrator/mapper"
	"github.com/stackshift/stack-migrator/migrate"
	"github.com/stackshift/stack-migrator/report"
	"github.com/stackshift/stack-migrator/synth"
	"github.com/stackshift/stack-migrator/types"
	"github.com/stackshift/stack-migrator/validator"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert a template into a component manifest and validate the result",
	Long: `The migrate command runs the whole pipeline:

1. Reads the original template (file or source command)
2. Groups resources into components and writes service.yml
3. Computes logical-id-map.json so the new synthesis reuses every original logical ID
4. Re-synthesizes the manifest with the synth command and diffs it against the original
5. Writes patches.hcl for unmappable resources, MIGRATION_REPORT.md and issues.csv

Exit codes: 0 clean migration, 2 human follow-up required, 1 fatal error.

Examples:
  # Migrate a template file
  stack-migrator migrate --template ./cdk.out/Orders.template.json --serviceName orders \
    --synthCommand npx,stack-synth,--manifest,{manifest},--logical-id-map,{logicalIdMap} --outputPath ./migration

  # Migrate the output of a synth command under a FedRAMP High profile
  stack-migrator migrate --sourceCommand npx,cdk,synth,Orders --serviceName orders --complianceFramework fedramp-high --config ./config.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging()

		serviceName := viper.GetString("serviceName")
		if serviceName == "" {
			log.Fatal("serviceName must be set")
		}
		profile := types.ComplianceProfile(viper.GetString("complianceFramework"))
		if !profile.IsValidComplianceProfile() {
			log.Fatalf("Invalid compliance framework: %s", profile)
		}

		workingFolderPath := workingFolderPath()
		outputPath, err := filepathparser.ParsePath(viper.GetString("outputPath"))
		if err != nil {
			log.Fatalf("Error getting output path: %v", err)
		}

		manifestClient := manifest.NewManifestClient(log)

		synthClient := synth.NewSynthClient(
			viper.GetStringSlice("synthCommand"),
			workingFolderPath,
			manifestClient,
			log,
		)

		migrationClient := migrate.NewMigrationClient(
			newTemplateClient(workingFolderPath),
			analyzer.NewAnalyzerClient(log),
			mapper.NewMapperClient(mapper.NewDefaultRegistry(), typeAffinities(), log),
			identity.NewPreserverClient(log),
			manifestClient,
			validator.NewValidatorClient(synthClient, log),
			json.NewJsonClient(workingFolderPath, log),
			hcl.NewHclClient(log),
			csv.NewIssueCsvClient(log),
			report.NewReportClient(nil, log),
			log,
		)

		outcome, err := migrationClient.Run(cmd.Context(), migrate.Request{
			ServiceName: serviceName,
			Owner:       viper.GetString("owner"),
			Profile:     profile,
			OutputPath:  outputPath,
		})
		if err != nil {
			log.Fatalf("Migration failed: %v", err)
		}

		if outcome.Clean() {
			color.New(color.FgGreen, color.Bold).Printf("Clean migration: %d components, verdict %s\n", len(outcome.Mapping.Components), outcome.Validation.Verdict)
		} else {
			color.New(color.FgYellow, color.Bold).Printf("Partial migration: verdict %s, %d unmappable resources\n", outcome.Validation.Verdict, len(outcome.Mapping.UnmappableResources))
		}
		fmt.Printf("Artifacts written to %s; see %s\n", outcome.OutputPath, report.FileName)

		if exitCode := outcome.ExitCode(); exitCode != migrate.ExitCodeClean {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.PersistentFlags().String("owner", "", "Owner recorded in the generated manifest")
	viper.BindPFlag("owner", migrateCmd.PersistentFlags().Lookup("owner"))
	migrateCmd.PersistentFlags().StringP("outputPath", "o", "./migration", "Folder to write the artifacts to; must be absent or empty")
	viper.BindPFlag("outputPath", migrateCmd.PersistentFlags().Lookup("outputPath"))
}
