package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yairfalse/driftguard/internal/rules"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "check",
		Short:        "Evaluate compliance rules against the current configuration",
		SilenceUsage: true,
		Long: `Check scans the current AWS configuration and evaluates the built-in
compliance rules against it: S3 versioning and lifecycle, DynamoDB billing
mode, Lambda sizing, EventBridge schedules, and SNS alert subscriptions.

Every (resource, check) pair yields exactly one finding; a failing lookup
turns into an error finding instead of aborting the scan.`,
		Example: `  # Full compliance report
  driftguard check

  # JSON findings for further processing
  driftguard check --output json

  # Fail in CI below 90% compliance
  driftguard check --min-compliance 90`,
		RunE: runCheck,
	}

	cmd.Flags().Bool("save-report", false, "store the compliance report")
	cmd.Flags().Float64("min-compliance", 0, "fail when compliance percentage is below this threshold")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	scanner, err := application.NewScanner(ctx)
	if err != nil {
		return err
	}

	current, err := scanner.Collector.Collect(ctx)
	if err != nil {
		if len(current) == 0 {
			return fmt.Errorf("scan failed: %w", err)
		}
		application.Logger().Error("some services failed to collect", err)
	}

	engine := application.NewEngine()
	findings := engine.Evaluate(ctx, current, scanner.Inspector)
	summary := rules.Summarize(findings)

	if save, _ := cmd.Flags().GetBool("save-report"); save {
		path, err := application.Store().SaveComplianceReport(summary)
		if err != nil {
			return err
		}
		application.Logger().WithField("path", path).Info("compliance report saved")
	}

	out, err := application.Renderer().FormatComplianceSummary(summary, application.Format())
	if err != nil {
		return err
	}
	cmd.OutOrStdout().Write(out)

	if minCompliance, _ := cmd.Flags().GetFloat64("min-compliance"); minCompliance > 0 && summary.CompliancePercentage < minCompliance {
		return fmt.Errorf("compliance %.1f%% is below the required %.1f%%", summary.CompliancePercentage, minCompliance)
	}
	return nil
}
