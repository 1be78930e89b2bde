package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/anemcalc/pkg/cache"
	"github.com/matzehuels/anemcalc/pkg/errors"
	"github.com/matzehuels/anemcalc/pkg/formula"
	"github.com/matzehuels/anemcalc/pkg/observability"
	"github.com/matzehuels/anemcalc/pkg/render"
	"github.com/matzehuels/anemcalc/pkg/render/nodelink"
	"github.com/matzehuels/anemcalc/pkg/server"
)

// Output formats of the recipe and usage commands.
const (
	formatTree = "tree"
	formatList = "list"
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

var (
	views   = []string{formatTree, formatList}
	formats = []string{formatTree, formatList, formatJSON, formatDOT, formatSVG}
)

const basicMessage = server.BasicMessage

// treeOpts holds the flags shared by the recipe and usage commands.
type treeOpts struct {
	format  string
	output  string
	rankdir string
}

func (o *treeOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "output format: tree, list, json, dot, svg (default from config, else tree)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write output to file instead of stdout")
	cmd.Flags().StringVar(&o.rankdir, "rankdir", "TB", "diagram direction for dot/svg: TB, BT, LR, RL")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(formats, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("rankdir", cobra.FixedCompletions(nodelink.Directions, cobra.ShellCompDirectiveNoFileComp))
}

func (o *treeOpts) validate(defaultView string) error {
	if o.format == "" {
		o.format = defaultView
	}
	if err := errors.ValidateChoice(errors.ErrCodeInvalidFormat, "format", o.format, formats); err != nil {
		return err
	}
	return errors.ValidateChoice(errors.ErrCodeInvalidInput, "rankdir", o.rankdir, nodelink.Directions)
}

// recipeCommand creates the recipe command.
func (c *CLI) recipeCommand() *cobra.Command {
	var opts treeOpts

	cmd := &cobra.Command{
		Use:   "recipe <component>",
		Short: "Break a component down into basic components",
		Long: `Expand a component into the full tree of its recipe, down to basic components.

The list format prints the basic components the recipe consumes with their
counts; tree shows the nested recipe.`,
		Example: `  anemcalc recipe trickster
  anemcalc recipe "kitava touched" --format list
  anemcalc recipe assassin -f svg -o assassin.svg`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(c.cfg.View); err != nil {
				return err
			}
			return c.runRecipe(cmd.Context(), cmd.OutOrStdout(), strings.Join(args, " "), opts)
		},
	}
	opts.register(cmd)
	return cmd
}

// usageCommand creates the usage command.
func (c *CLI) usageCommand() *cobra.Command {
	var opts treeOpts

	cmd := &cobra.Command{
		Use:   "usage <component>",
		Short: "Show which recipes use a component",
		Long: `Show every recipe a component takes part in, directly or through other
recipes. The list format prints the distinct consumers.`,
		Example: `  anemcalc usage deadeye
  anemcalc usage vampiric --format list`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(formatTree); err != nil {
				return err
			}
			return c.runUsage(cmd.Context(), cmd.OutOrStdout(), strings.Join(args, " "), opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func (c *CLI) runRecipe(ctx context.Context, stdout io.Writer, raw string, opts treeOpts) error {
	cat, name, err := c.resolve(ctx, raw)
	if err != nil {
		return err
	}
	tree, err := query(ctx, "recipe", name, cat.RecipeTree)
	if err != nil {
		return errors.FromFormula(err)
	}

	return c.writeOutput(stdout, opts.output, func(w io.Writer) error {
		switch opts.format {
		case formatTree:
			if tree.IsLeaf() {
				printInfo(w, "%s", basicMessage)
				return nil
			}
			_, err := fmt.Fprintln(w, render.Outline(tree, treeStyle))
			return err
		case formatList:
			return writeIngredients(w, cat, name)
		case formatJSON:
			return render.WriteJSON(w, render.NewRecipeDocument(tree))
		}
		return c.writeDiagram(ctx, w, tree, nodelink.Recipe, opts)
	})
}

func (c *CLI) runUsage(ctx context.Context, stdout io.Writer, raw string, opts treeOpts) error {
	cat, name, err := c.resolve(ctx, raw)
	if err != nil {
		return err
	}
	tree, err := query(ctx, "usage", name, cat.UsageTree)
	if err != nil {
		return errors.FromFormula(err)
	}
	consumers, err := cat.Consumers(name)
	if err != nil {
		return errors.FromFormula(err)
	}

	return c.writeOutput(stdout, opts.output, func(w io.Writer) error {
		switch opts.format {
		case formatTree, formatList:
			if tree.IsLeaf() {
				printInfo(w, "No recipe uses %s.", name)
				return nil
			}
			if opts.format == formatTree {
				_, err := fmt.Fprintln(w, render.Outline(tree, treeStyle))
				return err
			}
			fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%s is used by %d components:", name, len(consumers))))
			for _, n := range consumers {
				fmt.Fprintln(w, "  "+styleComposite.Render(string(n)))
			}
			return nil
		case formatJSON:
			return render.WriteJSON(w, render.NewUsageDocument(tree, consumers))
		}
		return c.writeDiagram(ctx, w, tree, nodelink.Usage, opts)
	})
}

// writeIngredients prints the tallied basic components of name, or the
// basic-component message.
func writeIngredients(w io.Writer, cat *formula.Catalog, name formula.Name) error {
	if cat.Graph().IsBasic(name) {
		printInfo(w, "%s", basicMessage)
		return nil
	}
	ingredients, err := cat.Ingredients(name)
	if err != nil {
		return errors.FromFormula(err)
	}
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%s needs %d basic components:", name, len(ingredients))))
	for _, line := range ingredientLines(formula.Tally(ingredients)) {
		fmt.Fprintln(w, "  "+line)
	}
	return nil
}

// writeDiagram writes DOT source, or SVG through the artifact cache.
func (c *CLI) writeDiagram(ctx context.Context, w io.Writer, tree *formula.Tree, kind nodelink.Kind, opts treeOpts) error {
	dot := nodelink.ToDOT(tree, nodelink.Options{Kind: kind, Direction: opts.rankdir})
	if opts.format == formatDOT {
		_, err := io.WriteString(w, dot)
		return err
	}

	store, err := c.newCache()
	if err != nil {
		return err
	}
	defer store.Close()

	key := cache.NewDefaultKeyer().ArtifactKey(cache.ArtifactKeyOpts{
		DataHash:  c.dataHash(),
		Kind:      string(kind),
		Component: string(tree.Name),
		Format:    formatSVG,
		Direction: opts.rankdir,
	})
	logger := loggerFromContext(ctx)

	svg, hit, err := store.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "err", err)
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
	} else {
		observability.Cache().OnCacheMiss(ctx, "artifact")
		prog := newProgress(logger)
		if svg, err = nodelink.RenderSVG(ctx, dot); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "render %s", tree.Name)
		}
		prog.debug("rendered " + string(tree.Name))
		if err := store.Set(ctx, key, svg, c.cfg.Server.CacheTTL.Duration); err != nil {
			logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(svg))
		}
	}
	_, err = w.Write(svg)
	return err
}

// writeOutput runs fn against stdout, or against the file at path.
func (c *CLI) writeOutput(stdout io.Writer, path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := fn(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	printSuccess(stdout, "Wrote output")
	printFile(stdout, path)
	return nil
}

// resolve loads the catalog and maps raw input to a canonical name.
func (c *CLI) resolve(ctx context.Context, raw string) (*formula.Catalog, formula.Name, error) {
	if err := errors.ValidateQuery(raw); err != nil {
		return nil, "", err
	}
	cat, err := c.catalog(ctx)
	if err != nil {
		return nil, "", err
	}
	name, err := cat.ResolveName(raw)
	observability.Query().OnResolve(ctx, raw, string(name), err)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeNotFound, err, "no component matches %q (run \"anemcalc names\" for the full list)", raw)
	}
	return cat, name, nil
}

// query runs a catalog lookup and reports it to the query hooks.
func query(ctx context.Context, kind string, name formula.Name, fn func(formula.Name) (*formula.Tree, error)) (*formula.Tree, error) {
	prog := newProgress(loggerFromContext(ctx))
	tree, err := fn(name)
	observability.Query().OnQuery(ctx, kind, string(name), prog.elapsed(), err)
	return tree, err
}

// completeNames completes component names for recipe and usage arguments.
func (c *CLI) completeNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cat, err := c.catalog(context.Background())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	prefix := formula.Normalize(toComplete)
	var out []string
	for _, n := range cat.Names() {
		if strings.HasPrefix(formula.Normalize(string(n)), prefix) {
			out = append(out, string(n))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
