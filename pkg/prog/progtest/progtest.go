// Package progtest contains utilities for running the mcfn program in tests
// and capturing its output.
package progtest

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"src.mcfn.dev/pkg/must"
	"src.mcfn.dev/pkg/parse/parsetest"
	"src.mcfn.dev/pkg/prog"
)

// Result is the outcome of a finished run.
type Result struct {
	Exit           int
	Stdout, Stderr string
}

// Process is a run of the program in the background.
type Process struct {
	stdout, stderr *buffer
	done           chan struct{}
	exit           int
}

// Run runs the program with the given stdin and arguments, and waits for it
// to finish. The program name is prepended to args.
func Run(stdin string, args ...string) Result {
	return Start(context.Background(), stdin, args...).Wait()
}

// Start runs the program in the background until it finishes or ctx is done.
//
// Stdout and stderr are read while the program runs, so the program never
// blocks on a full pipe.
func Start(ctx context.Context, stdin string, args ...string) *Process {
	r0, w0 := must.Pipe()
	r1, w1 := must.Pipe()
	r2, w2 := must.Pipe()
	p := &Process{stdout: &buffer{}, stderr: &buffer{}, done: make(chan struct{})}

	var copying sync.WaitGroup
	copying.Add(2)
	drain := func(dst *buffer, src *os.File) {
		defer copying.Done()
		io.Copy(dst, src)
		src.Close()
	}
	go drain(p.stdout, r1)
	go drain(p.stderr, r2)
	go func() {
		w0.WriteString(stdin)
		w0.Close()
	}()

	go func() {
		p.exit = prog.RunContext(ctx, [3]*os.File{r0, w1, w2}, append([]string{"mcfn"}, args...))
		w1.Close()
		w2.Close()
		copying.Wait()
		r0.Close()
		close(p.done)
	}()
	return p
}

// Wait waits for the program to finish and returns its result.
func (p *Process) Wait() Result {
	<-p.done
	return Result{p.exit, p.stdout.String(), p.stderr.String()}
}

// Stdout returns what the program has written to stdout so far.
func (p *Process) Stdout() string { return p.stdout.String() }

// Stderr returns what the program has written to stderr so far.
func (p *Process) Stderr() string { return p.stderr.String() }

type buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// WriteFile writes a file in a temporary directory of the test and returns
// its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	must.WriteFile(path, content)
	return path
}

// SchemaFile writes the grammar of [parsetest] to a temporary file and
// returns its path.
func SchemaFile(t *testing.T) string {
	t.Helper()
	return WriteFile(t, "commands.json", parsetest.CommandsJSON)
}
