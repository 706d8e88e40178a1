package cmd

import (
	"github.com/spf13/cobra"

	"wfbench/internal/reporter"
)

func newListCmd() *cobra.Command {
	var tags []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available workflows",
		Long: `List the built-in workflows and any YAML workflows found on the
scenarios path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.registry.Filter(nil, tags)
			if err != nil {
				return err
			}
			reporter.RenderEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Only list workflows carrying one of these tags")
	return cmd
}
