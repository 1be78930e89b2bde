package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/anemcalc/pkg/errors"
	"github.com/matzehuels/anemcalc/pkg/formula"
)

// namesCommand creates the names command.
func (c *CLI) namesCommand() *cobra.Command {
	var (
		plain bool
		kind  string
	)

	cmd := &cobra.Command{
		Use:   "names",
		Short: "List every valid component name",
		Example: `  anemcalc names
  anemcalc names --kind basic --plain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateChoice(errors.ErrCodeInvalidInput, "kind", kind, []string{"all", "composite", "basic"}); err != nil {
				return err
			}
			cat, err := c.catalog(cmd.Context())
			if err != nil {
				return err
			}

			var names []formula.Name
			switch kind {
			case "composite":
				names = cat.Composites()
			case "basic":
				names = cat.Basics()
			default:
				names = cat.Names()
			}

			out := cmd.OutOrStdout()
			if plain {
				for _, n := range names {
					fmt.Fprintln(out, n)
				}
				return nil
			}
			fmt.Fprintln(out, StyleTitle.Render(fmt.Sprintf("%d components", len(names))))
			if kind == "all" {
				printKeyValue(out, "composite", fmt.Sprint(len(cat.Composites())))
				printKeyValue(out, "basic", fmt.Sprint(len(cat.Basics())))
			}
			fmt.Fprintln(out, namesTable(cat, names))
			printNextStep(out, "Break one down", "anemcalc recipe <component>")
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print one name per line without styling")
	cmd.Flags().StringVar(&kind, "kind", "all", "which names to list: all, composite, basic")
	return cmd
}
