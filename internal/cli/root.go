// Package cli wires the cobra command tree. With no subcommand the
// interactive list is started; subcommands give scriptable access to the
// same operations.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/controller"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage or rejected input.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// Env is what commands need from the outside world.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
	Config config.Options

	// RunUI starts the interactive list; tests replace it.
	RunUI func(*controller.Controller, *controller.Notice) error
}

// app is the per-invocation state built in PersistentPreRunE.
type app struct {
	env    Env
	flags  config.Overrides
	cfg    *config.Config
	logger *log.Logger
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string) int {
	env := Env{Stdout: os.Stdout, Stderr: os.Stderr, RunUI: tui.Run}
	return Run(env, args)
}

// Run executes args against env and maps errors to exit codes.
func Run(env Env, args []string) int {
	root := NewRootCommand(env)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			ui.Fail(env.Stderr, ee.msg)
			return ee.code
		}
		ui.Fail(env.Stderr, err.Error())
		return ExitUsage
	}
	return ExitOK
}

// NewRootCommand builds the command tree.
func NewRootCommand(env Env) *cobra.Command {
	a := &app{env: env}

	root := &cobra.Command{
		Use:           "tada",
		Short:         "A small to-do list backed by a JSON file",
		Long:          "tada keeps a list of tasks in a JSON file and lets you add, check off, delete and search them.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runUI()
		},
	}
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.File, "file", "", "Task file (default tasks.json in the current directory)")
	pf.StringVar(&a.flags.Theme, "theme", "", "Theme: classic, neon or mono")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&a.flags.LogFile, "log-file", "", "Write logs to this file")

	root.AddCommand(
		&cobra.Command{
			Use:   "ui",
			Short: "Open the interactive list",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runUI()
			},
		},
		newAddCommand(a),
		newListCommand(a),
		newSearchCommand(a),
		newRowCommand(a, "done", "Mark the task at <row> done", (*controller.Controller).MarkDone, "marked done"),
		newRowCommand(a, "toggle", "Flip done for the task at <row>", (*controller.Controller).ToggleDone, "toggled"),
		newRowCommand(a, "rm", "Delete the task at <row>", (*controller.Controller).Delete, "removed"),
	)
	return root
}

func (a *app) setup() error {
	a.env.Config.Flags = a.flags
	cfg, err := config.Load(a.env.Config)
	if err != nil {
		return codeError(ExitUsage, "config: %s", err)
	}
	a.cfg = cfg
	ui.SetTheme(cfg.Theme)
	a.logger = logging.New(a.env.Stderr, cfg.Level())
	return nil
}

// open loads the store. A malformed file is reported and treated as empty;
// the returned notice is non-nil in that case.
func (a *app) open(logger *log.Logger) (*controller.Controller, *controller.Notice, error) {
	s, err := store.Open(a.cfg.File, logger)
	if s == nil {
		return nil, nil, codeError(ExitError, "load: %s", err)
	}
	return controller.New(s, logger), controller.LoadNotice(err), nil
}

func (a *app) runUI() error {
	logger, closer, err := logging.OpenFile(a.cfg.LogFile, a.cfg.Level())
	if err != nil {
		return codeError(ExitError, "%s", err)
	}
	defer closer.Close()

	ctrl, startup, err := a.open(logger)
	if err != nil {
		return err
	}
	if err := a.env.RunUI(ctrl, startup); err != nil {
		return codeError(ExitError, "ui: %s", err)
	}
	return nil
}
