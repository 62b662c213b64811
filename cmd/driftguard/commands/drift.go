package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yairfalse/driftguard/internal/differ"
	dgerrors "github.com/yairfalse/driftguard/internal/errors"
)

func newDriftCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "drift",
		Short:        "Compare current AWS configuration against a baseline",
		SilenceUsage: true,
		Long: `Drift scans the current AWS configuration and compares it against a
stored baseline, reporting resources that were added, removed, or changed
and the exact configuration paths that differ.`,
		Example: `  # Compare against the "prod" baseline
  driftguard drift --baseline prod

  # Machine-readable drift report
  driftguard drift --baseline prod --output json

  # Fail in CI when anything drifted
  driftguard drift --baseline prod --fail-on-drift`,
		RunE: runDrift,
	}

	cmd.Flags().String("baseline", "default", "name of the baseline to compare against")
	cmd.Flags().Bool("save-report", false, "store the drift report")
	cmd.Flags().Bool("fail-on-drift", false, "exit with an error when drift is detected")

	return cmd
}

func runDrift(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	baselineName, _ := cmd.Flags().GetString("baseline")
	baseline, err := application.Store().LoadBaseline(baselineName)
	if err != nil {
		return err
	}

	current, err := collectCurrent(ctx)
	if err != nil {
		return err
	}

	summary, err := differ.ComputeDrift(baseline, current, application.DriftOptions())
	if err != nil {
		if errors.Is(err, differ.ErrFatalInput) {
			return dgerrors.NewFatalInputError(err.Error())
		}
		return err
	}

	if save, _ := cmd.Flags().GetBool("save-report"); save {
		path, err := application.Store().SaveDriftReport(summary)
		if err != nil {
			return err
		}
		application.Logger().WithField("path", path).Info("drift report saved")
	}

	out, err := application.Renderer().FormatDriftSummary(summary, application.Format())
	if err != nil {
		return err
	}
	cmd.OutOrStdout().Write(out)

	if failOnDrift, _ := cmd.Flags().GetBool("fail-on-drift"); failOnDrift && summary.HasDrift() {
		return fmt.Errorf("configuration drift detected: %.1f%% of resources changed", summary.DriftPercentage)
	}
	return nil
}
