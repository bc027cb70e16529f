/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stackshift/stack-migrator/analyzer"
	"github.com/stackshift/stack-migrator/identity"
	"github.com/stackshift/stack-migrator/json"
	"github.com/stackshift/stack-migrator/mapper"
	"github.com/stackshift/stack-migrator/types"
)

type analysisExport struct {
	Resources           []*types.Resource            `json:"resources"`
	Relationships       []types.Relationship         `json:"relationships"`
	Components          []types.ComponentDeclaration `json:"components"`
	IdentityMappings    []types.IdentityMapping      `json:"identityMappings"`
	UnmappableResources []types.UnmappableResource   `json:"unmappableResources"`
	Issues              []types.Issue                `json:"issues"`
}

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Show how a template would be grouped into components without synthesizing",
	Long: `The analyze command runs the analysis, mapping and identity stages only and prints
one row per original resource with its component and expected logical ID.

Examples:
  stack-migrator analyze --template ./Orders.template.json --serviceName orders
  stack-migrator analyze --template ./Orders.template.json --serviceName orders --export analysis.json`,
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging()

		profile := types.ComplianceProfile(viper.GetString("complianceFramework"))
		if !profile.IsValidComplianceProfile() {
			log.Fatalf("Invalid compliance framework: %s", profile)
		}

		workingFolderPath := workingFolderPath()
		originalTemplate, err := newTemplateClient(workingFolderPath).Load(cmd.Context())
		if err != nil {
			log.Fatalf("Error loading template: %v", err)
		}

		analysis, err := analyzer.NewAnalyzerClient(log).Analyze(originalTemplate)
		if err != nil {
			log.Fatalf("Error analyzing template: %v", err)
		}
		mapping, err := mapper.NewMapperClient(mapper.NewDefaultRegistry(), typeAffinities(), log).
			MapResources(analysis.Resources, analysis.Relationships, viper.GetString("serviceName"), profile)
		if err != nil {
			log.Fatalf("Error mapping resources: %v", err)
		}
		identityResult := identity.NewPreserverClient(log).PreserveIdentities(analysis.Resources, mapping)

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Logical ID", "Type", "Component", "Component Type", "New ID", "Strategy"})
		table.SetBorder(false)
		table.SetHeaderLine(false)
		table.SetColumnSeparator(" ")
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, identityMapping := range identityResult.Mappings {
			table.Append([]string{
				identityMapping.OriginalID,
				identityMapping.ResourceType,
				identityMapping.ComponentName,
				identityMapping.ComponentType,
				identityMapping.NewID,
				string(identityMapping.Strategy),
			})
		}
		for _, unmappable := range mapping.UnmappableResources {
			table.Append([]string{unmappable.LogicalID, unmappable.Type, "-", "unmappable", "-", "-"})
		}
		table.Render()
		fmt.Printf("\n%d components, %d unmappable resources, %d relationships\n",
			len(mapping.Components), len(mapping.UnmappableResources), len(analysis.Relationships))

		if exportFile := viper.GetString("export"); exportFile != "" {
			issues := append(append(append([]types.Issue{}, analysis.Issues...), mapping.Issues...), identityResult.Warnings...)
			err := json.NewJsonClient(workingFolderPath, log).Export(analysisExport{
				Resources:           analysis.Resources,
				Relationships:       analysis.Relationships,
				Components:          mapping.Components,
				IdentityMappings:    identityResult.Mappings,
				UnmappableResources: mapping.UnmappableResources,
				Issues:              issues,
			}, exportFile)
			if err != nil {
				log.Fatalf("Error exporting analysis: %v", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.PersistentFlags().StringP("export", "e", "", "Write the analysis as JSON to this file in the working folder")
	viper.BindPFlag("export", analyzeCmd.PersistentFlags().Lookup("export"))
}
