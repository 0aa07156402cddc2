package prog

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"src.mcfn.dev/pkg/config"
	"src.mcfn.dev/pkg/diag"
	"src.mcfn.dev/pkg/parse"
	"src.mcfn.dev/pkg/schema"
)

// Flags keeps the command-line flags shared by all subcommands.
type Flags struct {
	Log, Config, Schema, GameVersion string

	CPUProfile, AllocsProfile string
}

func (f *Flags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.Log, "log", "", "a file to write debug log to")
	fs.StringVar(&f.Config, "config", "", "path to the TOML configuration file")
	fs.StringVar(&f.Schema, "schema", "", "path to the commands.json grammar; overrides --config")
	fs.StringVar(&f.GameVersion, "game-version", "", "game version whose grammar to use from the configuration")
	fs.StringVar(&f.CPUProfile, "cpuprofile", "", "write CPU profile to file")
	fs.StringVar(&f.AllocsProfile, "allocsprofile", "", "write memory allocation profile to file")
}

// Loads the configuration and the schema selected by the flags. The returned
// parse.Config also carries the cache settings of the configuration.
func (f *Flags) parseConfig(stderr *os.File) (parse.Config, error) {
	cfg := config.Default()
	if f.Config != "" {
		var err error
		cfg, err = config.Load(f.Config)
		if err != nil {
			return parse.Config{}, err
		}
	}
	path := f.Schema
	if path == "" {
		var err error
		path, err = cfg.SchemaPath(f.GameVersion)
		if errors.Is(err, config.ErrNoSchema) {
			return parse.Config{}, BadUsage(
				fmt.Sprintf("%v; use --schema or add it to [schemas] in --config", err))
		} else if err != nil {
			return parse.Config{}, err
		}
	}
	// A schema that fails to load is empty, so every command is reported as
	// having no schema.
	s, err := schema.LoadFile(path)
	if err != nil {
		diag.Complainf(stderr, "warning: %v", err)
	} else {
		logger.Printf("loaded schema %s with %d nodes", path, s.Len())
	}
	return parse.Config{
		Schema:        s,
		CacheCapacity: cfg.CacheCapacity,
		CommentPrefix: cfg.CommentPrefix,
		WarningWriter: stderr,
	}, nil
}
