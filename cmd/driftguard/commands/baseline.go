package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yairfalse/driftguard/pkg/types"
)

func newBaselineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage stored configuration baselines",
		Long: `Baselines are stored snapshots of a known-good configuration that
drift comparisons run against.`,
	}

	cmd.AddCommand(newBaselineCreateCommand())
	cmd.AddCommand(newBaselineListCommand())
	cmd.AddCommand(newBaselineShowCommand())
	cmd.AddCommand(newBaselineDeleteCommand())

	return cmd
}

func newBaselineCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "create",
		Short:        "Scan AWS and store the result as a baseline",
		SilenceUsage: true,
		Example: `  driftguard baseline create --name prod
  driftguard baseline create --name staging --region eu-west-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")

			resources, err := collectCurrent(cmd.Context())
			if err != nil {
				return err
			}

			baseline := types.NewBaseline("aws", resources)
			if err := application.Store().SaveBaseline(name, baseline); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Baseline %q saved (%d resources)\n", name, len(resources))
			return nil
		},
	}

	cmd.Flags().String("name", "", "name for the baseline")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newBaselineListCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "list",
		Short:        "List stored baselines",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := application.Store().ListBaselines()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No baselines found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Name\tSource\tCreated\tResources\n")
			fmt.Fprintf(w, "----\t------\t-------\t---------\n")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", info.Name, info.Source, info.Timestamp, info.ResourceCount)
			}
			return w.Flush()
		},
	}
}

func newBaselineShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "show <name>",
		Short:        "Show the resources of a stored baseline",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			baseline, err := application.Store().LoadBaseline(args[0])
			if err != nil {
				return err
			}

			out, err := application.Renderer().FormatSnapshotList(baseline.Resources, application.Format())
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(out)
			return nil
		},
	}
}

func newBaselineDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "delete <name>",
		Short:        "Delete a stored baseline",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.Store().DeleteBaseline(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Baseline %q deleted\n", args[0])
			return nil
		},
	}
}
