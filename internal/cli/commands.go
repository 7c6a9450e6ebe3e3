package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/controller"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

func newAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "add <title...>",
		Short:   "Add a task (title can be multiple words)",
		Example: `  tada add "Buy milk"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.openCLI()
			if err != nil {
				return err
			}
			if n := ctrl.Add(strings.TrimSpace(strings.Join(args, " "))); n != nil {
				return noticeError(n)
			}
			ui.OK(a.env.Stdout, "added")
			return nil
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	var keyword string
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks, pending first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.openCLI()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("search") {
				if n := ctrl.Search(keyword); n != nil {
					return noticeError(n)
				}
			}
			a.printRows(ctrl)
			return nil
		},
	}
	cmd.Flags().StringVar(&keyword, "search", "", "Only list tasks whose title contains this keyword")
	return cmd
}

func newSearchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword...>",
		Short: "List tasks whose title contains keyword (case-insensitive)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.openCLI()
			if err != nil {
				return err
			}
			if n := ctrl.Search(strings.Join(args, " ")); n != nil {
				return noticeError(n)
			}
			a.printRows(ctrl)
			return nil
		},
	}
}

// newRowCommand builds done/toggle/rm. Rows are numbered as `tada ls`
// prints them (with the same --search) and resolve to the task id.
func newRowCommand(a *app, use, short string, op func(*controller.Controller, uuid.UUID) *controller.Notice, okMsg string) *cobra.Command {
	var keyword string
	cmd := &cobra.Command{
		Use:   use + " <row>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := strconv.Atoi(args[0])
			if err != nil {
				return codeError(ExitUsage, "%s: not a number: %s", use, args[0])
			}
			ctrl, err := a.openCLI()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("search") {
				if n := ctrl.Search(keyword); n != nil {
					return noticeError(n)
				}
			}

			task, ok := ctrl.RowAt(row - 1)
			if !ok {
				ui.Info(a.env.Stderr, "Hint: run `tada ls` to see valid rows")
				return codeError(ExitUsage, "no task at row %d (have %d)", row, len(ctrl.Rows()))
			}
			if n := op(ctrl, task.ID); n != nil {
				return noticeError(n)
			}
			ui.OK(a.env.Stdout, fmt.Sprintf("%s: %s", okMsg, task.Title))
			return nil
		},
	}
	cmd.Flags().StringVar(&keyword, "search", "", "Number rows as `tada ls --search` does")
	return cmd
}

// openCLI opens the store with the stderr logger. A malformed file is
// reported and the command goes on with an empty list.
func (a *app) openCLI() (*controller.Controller, error) {
	ctrl, startup, err := a.open(a.logger)
	if err != nil {
		return nil, err
	}
	if startup != nil {
		ui.Fail(a.env.Stderr, startup.Message+" ("+startup.Err.Error()+")")
	}
	return ctrl, nil
}

func (a *app) printRows(ctrl *controller.Controller) {
	done, pending, total := ctrl.Stats()
	t := ui.Current()

	lines := []string{ui.Header(done, pending, total)}
	if kw, ok := ctrl.Filter(); ok {
		lines = append(lines, t.Accent.Render(fmt.Sprintf("search: %q", kw)))
	}
	lines = append(lines, t.Muted.Render(ui.ProgressBar(done, total, 28)), "")
	lines = append(lines, rowLines(ctrl.Rows())...)
	lines = append(lines, "", t.Muted.Render("Tip: add with `tada add \"Buy milk\"`"))
	fmt.Fprintln(a.env.Stdout, ui.Panel(strings.Join(lines, "\n")))
}

func rowLines(rows []model.Task) []string {
	if len(rows) == 0 {
		return []string{ui.Current().Muted.Render("no tasks")}
	}
	out := make([]string, 0, len(rows))
	for i, task := range rows {
		task.Title = ui.Truncate(task.Title, 80)
		out = append(out, fmt.Sprintf("%s %s", ui.Current().Muted.Render(fmt.Sprintf("%2d.", i+1)), ui.TaskLine(task)))
	}
	return out
}

func noticeError(n *controller.Notice) error {
	code := ExitUsage
	if n.Level == controller.LevelError {
		code = ExitError
	}
	return codeError(code, "%s", n.Message)
}
