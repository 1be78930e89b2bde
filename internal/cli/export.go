package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/anemcalc/pkg/errors"
	"github.com/matzehuels/anemcalc/pkg/source"
)

// exportCommand creates the export command, which writes the usage table the
// file source can load instead of deriving it on every start.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the precomputed usage table as JSON",
		Example: `  anemcalc export -o data/recipe_usages.json
  anemcalc --data ./data export > usages.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := c.catalog(ctx)
			if err != nil {
				return err
			}
			if output == "" {
				return source.WriteUsageTable(cmd.OutOrStdout(), cat.Usage())
			}

			f, err := os.Create(output)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", output)
			}
			if err := source.WriteUsageTable(f, cat.Usage()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			loggerFromContext(ctx).Debug("usage table written", "entries", len(cat.Usage()), "path", output)
			printSuccess(cmd.OutOrStdout(), "Exported usage table")
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
