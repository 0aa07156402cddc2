package prog

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"src.mcfn.dev/pkg/diag"
	"src.mcfn.dev/pkg/parse"
)

// A file is checked again once no event for it has arrived for this long.
const watchDebounce = 50 * time.Millisecond

func (p *program) checkCommand() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Report the errors in command files",
		Long: `Check parses each FILE and shows its errors along with the offending
source. It exits with 1 if any file has errors.

With --watch, check keeps running and checks a file again whenever it is
written.`,
		Args: badUsageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := p.fileParser()
			if err != nil {
				return err
			}
			if watch {
				return p.watch(cmd.Context(), fp, args)
			}
			bad := 0
			for _, name := range args {
				ok, err := p.check(fp, name)
				if err != nil {
					return err
				}
				if !ok {
					bad++
				}
			}
			if bad > 0 {
				return Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "check files again when they change")
	return cmd
}

// Checks one file, writing its errors to stdout. It returns whether the file
// has no errors.
func (p *program) check(fp *parse.FileParser, name string) (bool, error) {
	src, err := p.readSource(name)
	if err != nil {
		return false, err
	}
	start := time.Now()
	tree := fp.Parse(src)
	logger.Printf("checked %s in %v, line cache %v", name, time.Since(start), fp.Stats())
	showErrors(p.fds[1], name, tree)
	return tree.IsValid(), nil
}

func showErrors(w io.Writer, name string, tree *parse.FileTree) {
	errs := tree.Errors()
	for _, err := range errs {
		fmt.Fprintln(w, err.Show(name, tree.Source(), ""))
	}
	if len(errs) > 0 {
		diag.Complainf(w, "%s: %d error(s)", name, len(errs))
	}
}

// Checks the files once, then again each time one of them is written, until
// ctx is done. Directories are watched instead of files so that editors that
// replace files on save are handled.
func (p *program) watch(ctx context.Context, fp *parse.FileParser, names []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]string)
	dirs := make(map[string]bool)
	for _, name := range names {
		abs, err := filepath.Abs(name)
		if err != nil {
			return err
		}
		watched[abs] = name
		if dir := filepath.Dir(abs); !dirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}
	for _, name := range names {
		if _, err := p.check(fp, name); err != nil {
			diag.ShowError(p.fds[2], err)
		}
	}
	fmt.Fprintf(p.fds[2], "watching %d file(s)\n", len(names))

	// Timers fire on their own goroutines; checks run on this one.
	changed := make(chan string)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, ok := watched[filepath.Clean(event.Name)]
			if !ok || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Printf("%s changed (%v)", name, event.Op)
			if t, ok := timers[name]; ok {
				t.Reset(watchDebounce)
				continue
			}
			timers[name] = time.AfterFunc(watchDebounce, func() {
				select {
				case changed <- name:
				case <-ctx.Done():
				}
			})
		case name := <-changed:
			fmt.Fprintf(p.fds[1], "== %s\n", name)
			if _, err := p.check(fp, name); err != nil {
				diag.ShowError(p.fds[2], err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Println("watcher error:", err)
		}
	}
}
