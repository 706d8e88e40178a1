package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wfbench/internal/scenario"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate YAML workflow definitions",
		Long: `Parse and validate a YAML workflow file, or every .yaml/.yml file below a
directory, without running anything.

Example workflow:

  name: browse-catalog
  description: Browse products and open the first one
  tags: [smoke]
  timeout: 30s
  steps:
    - name: Browse products
      path: /products
      query: {limit: "5"}
      extract: {productId: "data.0.id"}
    - name: View product
      path: /products/{{ .productId }}
      expect: {status: 200}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			defs, err := scenario.LoadDefinitions(args[0])
			if err != nil {
				fmt.Fprintf(out, "❌ %v\n", err)
				return err
			}
			for _, def := range defs {
				fmt.Fprintf(out, "✅ %s (%d steps) %s\n", def.Name, len(def.Steps), def.Source)
			}
			return nil
		},
	}
}
