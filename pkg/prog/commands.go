package prog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"src.mcfn.dev/pkg/buildinfo"
	"src.mcfn.dev/pkg/highlight"
	"src.mcfn.dev/pkg/lsp"
	"src.mcfn.dev/pkg/parse"
)

type program struct {
	fds          [3]*os.File
	flags        Flags
	stopProfiles func()
}

// Builds the parser session used by the subcommands that parse files.
func (p *program) fileParser() (*parse.FileParser, error) {
	cfg, err := p.flags.parseConfig(p.fds[2])
	if err != nil {
		return nil, err
	}
	return parse.NewFileParser(cfg)
}

// Reads a source file. The name "-" reads stdin.
func (p *program) readSource(name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(p.fds[0])
		return string(data), err
	}
	data, err := os.ReadFile(name)
	return string(data), err
}

// Parses one file with a new session.
func (p *program) parseFile(name string) (*parse.FileParser, *parse.FileTree, error) {
	fp, err := p.fileParser()
	if err != nil {
		return nil, nil, err
	}
	src, err := p.readSource(name)
	if err != nil {
		return nil, nil, err
	}
	return fp, fp.Parse(src), nil
}

func (p *program) printCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "print FILE",
		Short: "Print a file in canonical form",
		Long: `Print reprints every valid command of FILE canonically. Comments,
blank lines and invalid commands are kept as they are.`,
		Args: badUsageArgs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			_, tree, err := p.parseFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(p.fds[1], parse.PrintFile(tree))
			return nil
		},
	}
}

func (p *program) highlightCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "highlight FILE",
		Short: "Print a file with syntax highlighting",
		Long:  `Highlight prints FILE with styles. Colors are only used on a terminal.`,
		Args:  badUsageArgs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			_, tree, err := p.parseFile(args[0])
			if err != nil {
				return err
			}
			var theme highlight.Theme
			if out := p.fds[1]; isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
				theme = highlight.DefaultTheme(lipgloss.NewRenderer(out))
			}
			fmt.Fprint(p.fds[1], highlight.Render(tree.Source(), highlight.Document(tree), theme))
			return nil
		},
	}
}

func (p *program) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE",
		Short: "Show node cache statistics",
		Long: `Stats parses FILE twice with the same session and shows the statistics
of the line cache and of the argument cache after each parse. The second parse
shows how much is reused.`,
		Args: badUsageArgs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			fp, tree, err := p.parseFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(p.fds[1], "lines: %d, errors: %d\n", len(tree.Lines()), len(tree.Errors()))
			fmt.Fprintf(p.fds[1], "first parse: lines %v; leaves %v\n", fp.Stats(), fp.LeafStats())
			fp.Parse(tree.Source())
			fmt.Fprintf(p.fds[1], "second parse: lines %v; leaves %v\n", fp.Stats(), fp.LeafStats())
			return nil
		},
	}
}

func (p *program) lspCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server on stdin and stdout",
		Args:  badUsageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := p.flags.parseConfig(p.fds[2])
			if err != nil {
				return err
			}
			return lsp.Serve(cmd.Context(), lsp.Transport(p.fds[0], p.fds[1]), cfg)
		},
	}
}

func (p *program) versionCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Args:  badUsageArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			if asJSON {
				return json.NewEncoder(p.fds[1]).Encode(buildinfo.Value)
			}
			fmt.Fprintln(p.fds[1], "Version:", buildinfo.Value.Version)
			fmt.Fprintln(p.fds[1], "Go version:", buildinfo.Value.GoVersion)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "show the output in JSON")
	return cmd
}
