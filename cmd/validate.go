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

	"github.com/stackshift/stack-migrator/filepathparser"
	"github.com/stackshift/stack-migrator/json"
	"github.com/stackshift/stack-migrator/manifest"
	"github.com/stackshift/stack-migrator/migrate"
	"github.com/stackshift/stack-migrator/synth"
	"github.com/stackshift/stack-migrator/types"
	"github.com/stackshift/stack-migrator/validator"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Re-synthesize an edited manifest and diff it against the original template",
	Long: `The validate command re-runs the final stage on an existing service.yml, typically after
completing escape hatches or renaming colliding components.

Examples:
  stack-migrator validate --template ./Orders.template.json --manifest ./migration/service.yml \
    --logicalIdMap ./migration/logical-id-map.json --synthCommand npx,stack-synth,{manifest},{logicalIdMap}`,
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging()

		workingFolderPath := workingFolderPath()
		manifestPath, err := filepathparser.ParsePath(viper.GetString("manifest"))
		if err != nil {
			log.Fatalf("Error getting manifest path: %v", err)
		}
		logicalIDMapPath, err := filepathparser.ParsePath(viper.GetString("logicalIdMap"))
		if err != nil {
			log.Fatalf("Error getting logical ID map path: %v", err)
		}

		manifestClient := manifest.NewManifestClient(log)
		serviceManifest, err := manifestClient.Load(manifestPath)
		if err != nil {
			log.Fatalf("Error loading manifest: %v", err)
		}
		logicalIDMap := map[string]string{}
		if err := json.NewJsonClient(workingFolderPath, log).Import(logicalIDMapPath, &logicalIDMap); err != nil {
			log.Fatalf("Error loading logical ID map: %v", err)
		}
		originalTemplate, err := newTemplateClient(workingFolderPath).Load(cmd.Context())
		if err != nil {
			log.Fatalf("Error loading template: %v", err)
		}

		synthClient := synth.NewSynthClient(viper.GetStringSlice("synthCommand"), workingFolderPath, manifestClient, log)
		result, err := validator.NewValidatorClient(synthClient, log).Validate(cmd.Context(), serviceManifest, logicalIDMap, originalTemplate)
		if err != nil {
			log.Fatalf("Validation failed: %v", err)
		}

		printValidation(result)
		if result.Verdict != types.VerdictNoChanges {
			os.Exit(migrate.ExitCodePartial)
		}
	},
}

func printValidation(result *types.ValidationResult) {
	if result.Verdict == types.VerdictNoChanges {
		color.New(color.FgGreen, color.Bold).Printf("%s\n", result.Verdict)
	} else {
		color.New(color.FgYellow, color.Bold).Printf("%s\n", result.Verdict)
	}

	added := color.New(color.FgGreen).SprintFunc()
	removed := color.New(color.FgRed).SprintFunc()
	modified := color.New(color.FgYellow).SprintFunc()
	for _, message := range result.Errors {
		fmt.Printf("  %s %s\n", removed("error"), message)
	}
	for _, logicalID := range result.Diff.AddedResourceIDs {
		fmt.Printf("  %s %s\n", added("+"), logicalID)
	}
	for _, logicalID := range result.Diff.RemovedResourceIDs {
		fmt.Printf("  %s %s\n", removed("-"), logicalID)
	}
	for _, modifiedResource := range result.Diff.ModifiedResources {
		fmt.Printf("  %s %s\n", modified("~"), modifiedResource.LogicalID)
		for _, difference := range modifiedResource.FieldDifferences {
			fmt.Printf("      %s: %s\n", difference.Path, difference.Description)
		}
	}
	for _, warning := range result.Warnings {
		fmt.Printf("  %s %s\n", modified("warning"), warning.Message)
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.PersistentFlags().StringP("manifest", "m", "./migration/"+manifest.FileName, "Manifest to validate")
	viper.BindPFlag("manifest", validateCmd.PersistentFlags().Lookup("manifest"))
	validateCmd.PersistentFlags().StringP("logicalIdMap", "l", "./migration/"+synth.LogicalIDMapFileName, "Logical ID map applied during synthesis")
	viper.BindPFlag("logicalIdMap", validateCmd.PersistentFlags().Lookup("logicalIdMap"))
}
