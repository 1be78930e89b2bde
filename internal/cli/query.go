package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/anemcalc/pkg/errors"
	"github.com/matzehuels/anemcalc/pkg/formula"
	"github.com/matzehuels/anemcalc/pkg/observability"
	"github.com/matzehuels/anemcalc/pkg/render"
)

// Prompt texts of the interactive query.
const (
	msgNotFound   = "I'm sorry, that is not a valid name from the list. Please try again."
	msgBadView    = "Sorry, that is not a valid command. Please try again."
	msgAnother    = "You can request another breakdown."
	msgTreeHeader = "Here is the full breakdown to create your component:"
	msgListHeader = "Here is the full list of basic subcomponents:"
	quitWord      = "quit"
)

type queryOpts struct {
	usage bool
	view  string
}

// queryCommand creates the interactive query command.
func (c *CLI) queryCommand() *cobra.Command {
	var opts queryOpts

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Ask recipe questions interactively",
		Long: `Start an interactive prompt. Enter a component name to see its breakdown,
then choose "tree" or "list". Type "quit" to leave.

With --usage the prompt answers which recipes use a component instead.`,
		Example: `  anemcalc query
  anemcalc query --view list
  anemcalc query --usage`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.view != "" {
				if err := errors.ValidateChoice(errors.ErrCodeInvalidView, "view", opts.view, views); err != nil {
					return err
				}
			}
			ctx := cmd.Context()
			cat, err := c.catalog(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, StyleTitle.Render("Valid names:"))
			fmt.Fprintln(out, joinNames(cat.Names(), 80))
			fmt.Fprintln(out)

			p := tea.NewProgram(newQueryModel(ctx, cat, opts),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(out),
			)
			if _, err := p.Run(); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.Wrap(errors.ErrCodeInternal, err, "interactive prompt")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.usage, "usage", false, "answer which recipes use a component")
	cmd.Flags().StringVar(&opts.view, "view", "", "always answer with this view (tree or list) instead of asking")
	return cmd
}

type queryStage int

const (
	stageName queryStage = iota
	stageView
)

// queryModel is the bubbletea model of the interactive prompt. It asks for a
// component, then for a view, and prints each answer above the prompt. Tab
// accepts the suggested completion.
type queryModel struct {
	ctx   context.Context
	cat   *formula.Catalog
	opts  queryOpts
	input textinput.Model

	stage    queryStage
	name     formula.Name
	last     string
	quitting bool
}

func newQueryModel(ctx context.Context, cat *formula.Catalog, opts queryOpts) queryModel {
	ti := textinput.New()
	ti.CharLimit = 128
	ti.Width = 40
	ti.ShowSuggestions = true
	ti.Focus()

	m := queryModel{ctx: ctx, cat: cat, opts: opts, input: ti}
	m.setStage(stageName)
	return m
}

func (m *queryModel) setStage(s queryStage) {
	m.stage = s
	m.input.SetValue("")
	switch s {
	case stageName:
		m.input.Prompt = StyleHighlight.Render("component") + StyleDim.Render(` ("quit" to exit)`) + " › "
		m.input.Placeholder = "e.g. kitava touched"
		m.input.SetSuggestions(formula.Strings(m.cat.Names()))
	case stageView:
		m.input.Prompt = StyleHighlight.Render("tree or list") + " › "
		m.input.Placeholder = ""
		m.input.SetSuggestions(views)
	}
}

func (m queryModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m queryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit(strings.TrimSpace(m.input.Value()))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles one entered line.
func (m queryModel) submit(text string) (tea.Model, tea.Cmd) {
	if strings.EqualFold(text, quitWord) {
		m.quitting = true
		return m, tea.Quit
	}
	if text == "" {
		return m, nil
	}

	echo := m.input.Prompt + text
	switch m.stage {
	case stageName:
		name, err := m.resolve(text)
		if err != nil {
			return m.answer(echo, errorLine(err))
		}
		m.name = name
		if !m.opts.usage && m.cat.Graph().IsBasic(name) {
			return m.answer(echo, basicMessage, msgAnother)
		}
		if m.opts.view != "" {
			return m.answer(echo, m.breakdown(m.opts.view), msgAnother)
		}
		m.setStage(stageView)
		return m, tea.Println(echo)
	default:
		view := strings.ToLower(text)
		if view != formatTree && view != formatList {
			m.last = msgBadView
			m.input.SetValue("")
			return m, tea.Println(echo + "\n" + msgBadView + "\n")
		}
		return m.answer(echo, m.breakdown(view), msgAnother)
	}
}

// answer records the lines of a reply and prints them above the prompt.
func (m queryModel) answer(echo string, lines ...string) (tea.Model, tea.Cmd) {
	m.last = strings.Join(lines, "\n")
	m.setStage(stageName)
	return m, tea.Println(echo + "\n" + m.last + "\n")
}

func (m queryModel) resolve(text string) (formula.Name, error) {
	if err := errors.ValidateQuery(text); err != nil {
		return "", err
	}
	name, err := m.cat.ResolveName(text)
	observability.Query().OnResolve(m.ctx, text, string(name), err)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNotFound, err, "%s", msgNotFound)
	}
	return name, nil
}

// breakdown renders the answer for m.name in view.
func (m queryModel) breakdown(view string) string {
	var b strings.Builder
	if m.opts.usage {
		tree, err := query(m.ctx, "usage", m.name, m.cat.UsageTree)
		if err != nil {
			return errorLine(errors.FromFormula(err))
		}
		if tree.IsLeaf() {
			return fmt.Sprintf("No recipe uses %s.", m.name)
		}
		if view == formatTree {
			return render.Outline(tree, treeStyle)
		}
		consumers, _ := m.cat.Consumers(m.name)
		fmt.Fprintf(&b, "%s is used by:\n", m.name)
		b.WriteString(joinNames(consumers, 80))
		return b.String()
	}

	tree, err := query(m.ctx, "recipe", m.name, m.cat.RecipeTree)
	if err != nil {
		return errorLine(errors.FromFormula(err))
	}
	if view == formatTree {
		return msgTreeHeader + "\n" + render.Outline(tree, treeStyle)
	}
	b.WriteString(msgListHeader + "\n")
	for _, line := range ingredientLines(formula.Tally(formula.Flatten(tree))) {
		b.WriteString("  " + line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func errorLine(err error) string {
	if errors.Is(err, errors.ErrCodeNotFound) {
		return StyleWarning.Render(msgNotFound)
	}
	return styleIconError.Render(iconError) + " " + errors.UserMessage(err)
}

func (m queryModel) View() string {
	if m.quitting {
		return ""
	}
	return m.input.View() + "\n"
}
