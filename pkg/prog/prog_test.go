package prog_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"src.mcfn.dev/pkg/buildinfo"
	"src.mcfn.dev/pkg/must"
	"src.mcfn.dev/pkg/prog/progtest"
)

var (
	Run       = progtest.Run
	WriteFile = progtest.WriteFile
)

func TestCommonFlagHandling(t *testing.T) {
	res := Run("", "--bad-flag")
	assert.Equal(t, 2, res.Exit)
	assert.Contains(t, res.Stderr, "unknown flag: --bad-flag\nUsage:")

	res = Run("", "-h")
	assert.Equal(t, 0, res.Exit)
	assert.Contains(t, res.Stdout, "mcfn [command]")

	res = Run("")
	assert.Equal(t, 2, res.Exit)
	assert.Contains(t, res.Stderr, "no command given\nUsage:")

	res = Run("", "print")
	assert.Equal(t, 2, res.Exit)
	assert.Contains(t, res.Stderr, "accepts 1 arg(s), received 0")
}

func TestLogFlag(t *testing.T) {
	schema := progtest.SchemaFile(t)
	file := WriteFile(t, "a.mcfunction", "gamemode creative\n")
	log := filepath.Join(t.TempDir(), "log")

	res := Run("", "--log", log, "--schema", schema, "check", file)
	assert.Equal(t, 0, res.Exit)
	assert.Contains(t, must.ReadFileString(log), "[prog] checked "+file)
}

func TestCheck(t *testing.T) {
	schema := progtest.SchemaFile(t)
	good := WriteFile(t, "good.mcfunction", "# setup\ngamemode creative\n\ntime set 1d\n")
	bad := WriteFile(t, "bad.mcfunction", "gamemode creative\ngamemode creativ\n")

	res := Run("", "--schema", schema, "check", good)
	assert.Equal(t, 0, res.Exit)
	assert.Empty(t, res.Stdout)
	// The test grammar has an argument with an unknown parser.
	assert.Equal(t, "warning: unknown parser at kill targets: minecraft:entity\n", res.Stderr)

	res = Run("", "--schema", schema, "check", good, bad)
	assert.Equal(t, 1, res.Exit)
	assert.Contains(t, res.Stdout, `unknown literal "creativ", did you mean creative?`)
	assert.Contains(t, res.Stdout, bad+", line 2:")
	assert.Contains(t, res.Stdout, bad+": 1 error(s)")
	assert.NotContains(t, res.Stdout, good)

	res = Run("gamerule keepInventory yes", "--schema", schema, "check", "-")
	assert.Equal(t, 1, res.Exit)
	assert.Contains(t, res.Stdout, "-, line 1:")
}

func TestCheck_Errors(t *testing.T) {
	schema := progtest.SchemaFile(t)
	file := WriteFile(t, "a.mcfunction", "gamemode creative\n")

	res := Run("", "--schema", schema, "check", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, 1, res.Exit)
	assert.Contains(t, res.Stderr, "no such file or directory")

	res = Run("", "check", file)
	assert.Equal(t, 2, res.Exit)
	assert.Contains(t, res.Stderr, "no schema configured; use --schema")

	// A bad schema is reported, and parsing continues with an empty one.
	res = Run("", "--schema", WriteFile(t, "bad.json", `{"type": "literal"}`), "check", file)
	assert.Equal(t, 1, res.Exit)
	assert.Contains(t, res.Stderr, "warning: cannot load schema")
	assert.Contains(t, res.Stdout, "no schema loaded")
}

func TestCheck_Config(t *testing.T) {
	schema := progtest.SchemaFile(t)
	cfg := WriteFile(t, "mcfn.toml", fmt.Sprintf(`
default_version = "1.20"
comment_prefix = "//"

[schemas]
"1.20" = %q
`, schema))
	file := WriteFile(t, "a.mcfunction", "// a comment\ngamemode creative\n")

	res := Run("", "--config", cfg, "check", file)
	assert.Equal(t, 0, res.Exit)
	assert.Empty(t, res.Stdout)

	res = Run("", "--config", cfg, "--game-version", "1.20", "check", file)
	assert.Equal(t, 0, res.Exit)

	res = Run("", "--config", cfg, "--game-version", "9.9", "check", file)
	assert.Equal(t, 2, res.Exit)
	assert.Contains(t, res.Stderr, `no schema configured for version "9.9"`)
}

func TestCheck_Watch(t *testing.T) {
	schema := progtest.SchemaFile(t)
	file := WriteFile(t, "a.mcfunction", "gamemode creativ\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := progtest.Start(ctx, "", "--schema", schema, "check", "--watch", file)

	require.Eventually(t, func() bool {
		return strings.Contains(p.Stderr(), "watching 1 file(s)\n")
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, p.Stdout(), `unknown literal "creativ"`)

	require.NoError(t, os.WriteFile(file, []byte("gamemode creative\n"), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(p.Stdout(), "== "+file)
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	assert.Equal(t, 0, p.Wait().Exit)
}

func TestCheck_WatchChecksLastWrite(t *testing.T) {
	schema := progtest.SchemaFile(t)
	file := WriteFile(t, "a.mcfunction", "gamemode creative\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := progtest.Start(ctx, "", "--schema", schema, "check", "--watch", file)
	require.Eventually(t, func() bool {
		return strings.Contains(p.Stderr(), "watching 1 file(s)\n")
	}, 5*time.Second, 10*time.Millisecond)

	// Save in two writes, the first one leaving a half-written command.
	f, err := os.OpenFile(file, os.O_WRONLY|os.O_TRUNC, 0)
	require.NoError(t, err)
	_, err = f.WriteString("gamemode creativ")
	require.NoError(t, err)
	_, err = f.WriteString("e\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool {
		return strings.Contains(p.Stdout(), "== "+file)
	}, 5*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	cancel()
	res := p.Wait()
	assert.Equal(t, 0, res.Exit)
	assert.Equal(t, 1, strings.Count(res.Stdout, "== "+file))
	assert.NotContains(t, res.Stdout, "error")
}

func TestPrint(t *testing.T) {
	schema := progtest.SchemaFile(t)
	file := WriteFile(t, "a.mcfunction",
		"gamemode   creative\ntime set 1d\n# keep  me\ngamemode  creativ\nsetblock ~ ~1 ~ stone\n")

	res := Run("", "--schema", schema, "print", file)
	assert.Equal(t, 0, res.Exit)
	assert.Equal(t, "gamemode creative\ntime set 24000\n# keep  me\ngamemode  creativ\nsetblock ~ ~1 ~ minecraft:stone\n", res.Stdout)
}

func TestHighlight(t *testing.T) {
	schema := progtest.SchemaFile(t)
	src := "# c\ngamemode creative\nsay hi there\n"
	file := WriteFile(t, "a.mcfunction", src)

	// Stdout is a pipe, so no colors are used.
	res := Run("", "--schema", schema, "highlight", file)
	assert.Equal(t, 0, res.Exit)
	assert.Equal(t, src, res.Stdout)
}

func TestStats(t *testing.T) {
	schema := progtest.SchemaFile(t)
	file := WriteFile(t, "a.mcfunction", "gamemode creative\ngamerule keepInventory true\ngamemode creativ\n")

	res := Run("", "--schema", schema, "stats", file)
	assert.Equal(t, 0, res.Exit)
	assert.Contains(t, res.Stdout, "lines: 4, errors: 1\n")
	// The second parse reuses both valid lines without looking at their
	// arguments again.
	assert.Contains(t, res.Stdout,
		"first parse: lines size 2/5, hits 0, misses 3, hit rate 0.00; leaves size 1/1024, hits 0, misses 1,")
	assert.Contains(t, res.Stdout,
		"second parse: lines size 2/5, hits 2, misses 4, hit rate 0.33; leaves size 1/1024, hits 0, misses 1,")
}

func TestLSP(t *testing.T) {
	schema := progtest.SchemaFile(t)
	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`
	stdin := fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)

	res := Run(stdin, "--schema", schema, "lsp")
	assert.Equal(t, 0, res.Exit)
	assert.Contains(t, res.Stdout, `"documentFormattingProvider":true`)
}

func TestVersion(t *testing.T) {
	res := Run("", "version")
	assert.Equal(t, progtest.Result{Stdout: fmt.Sprintf(
		"Version: %s\nGo version: %s\n", buildinfo.Value.Version, buildinfo.Value.GoVersion)}, res)

	res = Run("", "version", "--json")
	var info buildinfo.Info
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &info))
	assert.Equal(t, buildinfo.Value, info)
}

func TestProfileFlags(t *testing.T) {
	dir := t.TempDir()
	cpu, allocs := filepath.Join(dir, "cpu"), filepath.Join(dir, "allocs")

	res := Run("", "--cpuprofile", cpu, "--allocsprofile", allocs, "version")
	assert.Equal(t, 0, res.Exit)
	assert.FileExists(t, cpu)
	assert.FileExists(t, allocs)

	res = Run("", "--cpuprofile", filepath.Join(dir, "no", "such", "dir"), "version")
	assert.Equal(t, 0, res.Exit)
	assert.Contains(t, res.Stderr, "Warning: cannot create CPU profile:")
}
