package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yairfalse/driftguard/internal/app"
	"github.com/yairfalse/driftguard/internal/config"
)

var (
	cfgFile     string
	application *app.App
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "driftguard",
	Short: "Configuration drift detection and compliance checks for AWS",
	Long: `driftguard watches AWS resource configuration for drift and
compliance violations.

It snapshots the live configuration of S3 buckets, DynamoDB tables, Lambda
functions, EventBridge rules, and SNS topics, compares snapshots against a
stored baseline to find structural drift, and evaluates built-in compliance
rules (SOC2, CIS-AWS, FinOps) against the current state.

Typical flow:
  driftguard baseline create --name prod   # capture the known-good state
  driftguard drift --baseline prod         # what changed since then?
  driftguard check                         # is the current state compliant?`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.driftguard/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("output", "table", "output format (table, json)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("region", "", "AWS region to scan")
	rootCmd.PersistentFlags().String("profile", "", "AWS profile to use")

	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("output.no_color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("aws.region", rootCmd.PersistentFlags().Lookup("region"))
	viper.BindPFlag("aws.profile", rootCmd.PersistentFlags().Lookup("profile"))

	rootCmd.AddCommand(newScanCommand())
	rootCmd.AddCommand(newBaselineCommand())
	rootCmd.AddCommand(newDriftCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newVersionCommand())
}

// initApp reads configuration and wires the application.
func initApp() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	application, err = app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	return nil
}
