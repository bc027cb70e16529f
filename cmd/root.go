/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stackshift/stack-migrator/filepathparser"
	"github.com/stackshift/stack-migrator/mapper"
	"github.com/stackshift/stack-migrator/synth"
	"github.com/stackshift/stack-migrator/template"
	"github.com/stackshift/stack-migrator/types"
)

var log = logrus.New()

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stack-migrator",
	Short: "Migrate a synthesized infrastructure stack to a component manifest",
	Long: `stack-migrator converts a synthesized CloudFormation-style template into a service
manifest of higher-level components while keeping every logical ID, so that deploying the
manifest produces no infrastructure changes.

The pipeline analyzes the template, groups resources into components, computes the
logical ID map, re-synthesizes the manifest and diffs the result against the original.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.stack-migrator.yaml)")
	rootCmd.PersistentFlags().StringP("verbosity", "v", "info", "Log level (trace, debug, info, warn, error)")
	viper.BindPFlag("verbosity", rootCmd.PersistentFlags().Lookup("verbosity"))
	rootCmd.PersistentFlags().Bool("structuredLogs", false, "Write logs as JSON")
	viper.BindPFlag("structuredLogs", rootCmd.PersistentFlags().Lookup("structuredLogs"))
	rootCmd.PersistentFlags().StringP("workingFolderPath", "w", ".", "Working folder path to use")
	viper.BindPFlag("workingFolderPath", rootCmd.PersistentFlags().Lookup("workingFolderPath"))
	rootCmd.PersistentFlags().StringP("template", "t", "", "Path of the original JSON or YAML template")
	viper.BindPFlag("template", rootCmd.PersistentFlags().Lookup("template"))
	rootCmd.PersistentFlags().StringSlice("sourceCommand", []string{}, "Command printing the original template, used when no template path is set")
	viper.BindPFlag("sourceCommand", rootCmd.PersistentFlags().Lookup("sourceCommand"))
	rootCmd.PersistentFlags().StringP("serviceName", "n", "", "Service name of the generated manifest")
	viper.BindPFlag("serviceName", rootCmd.PersistentFlags().Lookup("serviceName"))
	rootCmd.PersistentFlags().StringP("complianceFramework", "f", string(types.ComplianceProfileCommercial), "Compliance profile (commercial, fedramp-moderate, fedramp-high)")
	viper.BindPFlag("complianceFramework", rootCmd.PersistentFlags().Lookup("complianceFramework"))
	rootCmd.PersistentFlags().StringSlice("synthCommand", []string{}, "Command synthesizing a manifest; supports {manifest}, {logicalIdMap} and {output}")
	viper.BindPFlag("synthCommand", rootCmd.PersistentFlags().Lookup("synthCommand"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".stack-migrator")
	}

	viper.SetEnvPrefix("STACK_MIGRATOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
}

func configureLogging() {
	logVerbosity := viper.GetString("verbosity")
	logLevel, err := logrus.ParseLevel(logVerbosity)
	if err != nil {
		log.Fatalf("Invalid log level: %s", logVerbosity)
	}
	log.SetLevel(logLevel)
	log.SetFormatter(&logrus.TextFormatter{})
	if viper.GetBool("structuredLogs") {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	for key, value := range viper.GetViper().AllSettings() {
		log.Debugf("Command Flag: %s = %v", key, value)
	}
}

func workingFolderPath() string {
	path, err := filepathparser.ParsePath(viper.GetString("workingFolderPath"))
	if err != nil {
		log.Fatalf("Error getting working folder path: %v", err)
	}
	return path
}

func newTemplateClient(workingFolderPath string) template.ITemplateClient {
	if templatePath := viper.GetString("template"); templatePath != "" {
		path, err := filepathparser.ParsePath(templatePath)
		if err != nil {
			log.Fatalf("Error getting template path: %v", err)
		}
		return template.NewFileTemplateClient(path, log)
	}

	sourceCommand := viper.GetStringSlice("sourceCommand")
	if len(sourceCommand) == 0 {
		log.Fatal("Either template or sourceCommand must be set")
	}
	return synth.NewSourceTemplateClient(sourceCommand, workingFolderPath, log)
}

func typeAffinities() []mapper.TypeAffinity {
	typeAffinities := []mapper.TypeAffinity{}
	if !viper.InConfig("typeAffinities") {
		return typeAffinities
	}

	typeAffinitiesRaw, ok := viper.Get("typeAffinities").([]any)
	if !ok {
		log.Fatal("typeAffinities must be a list")
	}
	for _, rawTypeAffinity := range typeAffinitiesRaw {
		typeAffinityMap := rawTypeAffinity.(map[string]any)
		related := []string{}
		if rawRelated, ok := typeAffinityMap["related"].([]any); ok {
			for _, relatedType := range rawRelated {
				related = append(related, relatedType.(string))
			}
		}
		typeAffinities = append(typeAffinities, mapper.TypeAffinity{
			Type:    typeAffinityMap["type"].(string),
			Related: related,
		})
	}
	return typeAffinities
}
