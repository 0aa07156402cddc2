// Package config loads the configuration of the mcfn programs.
//
// The configuration is a TOML file:
//
//	default_version = "1.20"
//	cache_capacity = 4096
//	comment_prefix = "#"
//
//	[schemas]
//	"1.20" = "schemas/1.20/commands.json"
//	"1.19" = "/usr/share/mcfn/1.19.json"
//
// Relative schema paths are resolved against the directory of the file.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"src.mcfn.dev/pkg/parse"
)

// Config is the process-wide configuration.
type Config struct {
	DefaultVersion string            `toml:"default_version"`
	Schemas        map[string]string `toml:"schemas"`
	CacheCapacity  int               `toml:"cache_capacity"`
	CommentPrefix  string            `toml:"comment_prefix"`

	// Directory relative schema paths are resolved against.
	dir string
}

// ErrNoSchema is returned by SchemaPath when no schema is configured for a
// version.
var ErrNoSchema = errors.New("no schema configured")

// Default returns the configuration used when there is no file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads the configuration from a TOML file. Unknown keys are errors.
func Load(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if cfg.CacheCapacity < 0 {
		return nil, fmt.Errorf("load config %s: negative cache_capacity %d", path, cfg.CacheCapacity)
	}
	cfg.dir = filepath.Dir(path)
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Schemas == nil {
		c.Schemas = make(map[string]string)
	}
	if c.CacheCapacity == 0 {
		c.CacheCapacity = parse.DefaultCacheCapacity
	}
	if c.CommentPrefix == "" {
		c.CommentPrefix = parse.DefaultCommentPrefix
	}
	if c.DefaultVersion == "" && len(c.Schemas) == 1 {
		for v := range c.Schemas {
			c.DefaultVersion = v
		}
	}
}

// Versions returns the versions that have a schema, sorted.
func (c *Config) Versions() []string {
	versions := make([]string, 0, len(c.Schemas))
	for v := range c.Schemas {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// SchemaPath returns the path of the schema for a version, or for the
// default version if version is empty.
func (c *Config) SchemaPath(version string) (string, error) {
	if version == "" {
		version = c.DefaultVersion
	}
	path, ok := c.Schemas[version]
	if !ok {
		if version == "" {
			return "", ErrNoSchema
		}
		return "", fmt.Errorf("%w for version %q", ErrNoSchema, version)
	}
	if !filepath.IsAbs(path) && c.dir != "" {
		path = filepath.Join(c.dir, path)
	}
	return path, nil
}
