// Package prog provides the entry point to mcfn. Each subcommand is a
// separate cobra command sharing the flags declared in flags.go.
package prog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"src.mcfn.dev/pkg/logutil"
)

var logger = logutil.GetLogger("[prog] ")

// Run parses command-line arguments and runs the selected subcommand. It
// returns the exit status of the program. An interrupt cancels long running
// subcommands such as "check --watch" and "lsp".
func Run(fds [3]*os.File, args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return RunContext(ctx, fds, args)
}

// RunContext is like Run, but uses the given context instead of one
// cancelled by an interrupt.
func RunContext(ctx context.Context, fds [3]*os.File, args []string) int {
	p := &program{fds: fds, stopProfiles: func() {}}
	root := p.command()
	root.SetArgs(args[1:])
	cmd, err := root.ExecuteContextC(ctx)
	p.stopProfiles()
	if err == nil {
		return 0
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(fds[2], msg)
	}
	var (
		usageErr badUsageError
		exitErr  exitError
	)
	switch {
	case errors.As(err, &usageErr):
		fmt.Fprint(fds[2], cmd.UsageString())
		return 2
	case errors.As(err, &exitErr):
		return exitErr.exit
	}
	return 1
}

func (p *program) command() *cobra.Command {
	root := &cobra.Command{
		Use:   "mcfn",
		Short: "Check, format and highlight Minecraft command files",
		Long: `mcfn parses files of Minecraft commands against a commands.json
grammar. The grammar is given with --schema, or looked up by game version in
the [schemas] table of the --config file.`,
		Args: badUsageArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			return BadUsage("no command given")
		},
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if p.flags.Log != "" {
				if err := logutil.SetOutputFile(p.flags.Log); err != nil {
					fmt.Fprintln(p.fds[2], err)
				}
			}
			p.stopProfiles = p.startProfiles()
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetIn(p.fds[0])
	root.SetOut(p.fds[1])
	root.SetErr(p.fds[2])
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return BadUsage(err.Error())
	})
	p.flags.register(root.PersistentFlags())

	root.AddCommand(
		p.checkCommand(),
		p.printCommand(),
		p.highlightCommand(),
		p.statsCommand(),
		p.lspCommand(),
		p.versionCommand(),
	)
	return root
}

// Wraps a positional argument validator so that its errors are reported as
// bad usage.
func badUsageArgs(f cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := f(cmd, args); err != nil {
			return BadUsage(err.Error())
		}
		return nil
	}
}

// BadUsage returns a special error that may be returned by a subcommand. It
// causes Run to print out a message, the usage information and exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that may be returned by a subcommand. It causes
// Run to exit with the given code without printing any error messages. Exit(0)
// returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }
