package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yairfalse/driftguard/pkg/types"
)

func newScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "scan",
		Short:        "Scan AWS for the current resource configuration",
		SilenceUsage: true,
		Long: `Scan collects the current configuration of supported AWS resources
(S3, DynamoDB, Lambda, EventBridge, SNS) and prints it as a snapshot.

Pass --baseline to also store the scan as a named baseline for later drift
comparison.`,
		Example: `  # Show what driftguard sees right now
  driftguard scan

  # Scan a specific region as JSON
  driftguard scan --region eu-west-1 --output json

  # Scan and store the result as the "prod" baseline
  driftguard scan --baseline --baseline-name prod

  # Save the raw snapshot to a file
  driftguard scan --output-file snapshot.json`,
		RunE: runScan,
	}

	cmd.Flags().StringP("output-file", "o", "", "save the snapshot JSON to a file")
	cmd.Flags().Bool("baseline", false, "store this scan as a baseline")
	cmd.Flags().String("baseline-name", "default", "name for the stored baseline")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	resources, err := collectCurrent(ctx)
	if err != nil {
		return err
	}

	outputFile, _ := cmd.Flags().GetString("output-file")
	if outputFile != "" {
		data, err := application.Renderer().FormatSnapshotList(resources, "json")
		if err != nil {
			return err
		}
		if err := os.WriteFile(outputFile, data, 0o644); err != nil {
			return fmt.Errorf("failed to write snapshot file: %w", err)
		}
	}

	if saveBaseline, _ := cmd.Flags().GetBool("baseline"); saveBaseline {
		name, _ := cmd.Flags().GetString("baseline-name")
		baseline := types.NewBaseline("aws", resources)
		if err := application.Store().SaveBaseline(name, baseline); err != nil {
			return fmt.Errorf("failed to save baseline: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Baseline %q saved (%d resources)\n", name, len(resources))
	}

	out, err := application.Renderer().FormatSnapshotList(resources, application.Format())
	if err != nil {
		return err
	}
	cmd.OutOrStdout().Write(out)
	return nil
}

// collectCurrent scans AWS and returns current snapshots keyed by resource
// id. Partial failures are logged and do not discard what was collected.
func collectCurrent(ctx context.Context) (map[string]types.ResourceSnapshot, error) {
	scanner, err := application.NewScanner(ctx)
	if err != nil {
		return nil, err
	}

	resources, err := scanner.Collector.Collect(ctx)
	if err != nil {
		if len(resources) == 0 {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		application.Logger().Error("some services failed to collect", err)
	}
	return resources, nil
}
