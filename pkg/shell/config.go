package shell

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
	"src.lamb.sh/pkg/prog"
)

// Config is the content of rc.toml, merged with command-line flags.
type Config struct {
	MaxDepth int    `toml:"max-depth"`
	Output   string `toml:"output"`
	History  *bool  `toml:"history"`
	DB       string `toml:"db"`
}

func (c *Config) history() bool { return c.History == nil || *c.History }

// Output formats supported by -output and the output key.
var outputFormats = []string{"text", "json", "yaml"}

// LoadConfig reads a config file. Keys not recognized are reported in the
// second return value.
func LoadConfig(path string) (Config, []string, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, nil, err
	}
	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	return cfg, unknown, nil
}

// Builds the effective configuration from rc.toml and flags. Flags take
// precedence over the file.
func (p *Program) config(stderr io.Writer) (Config, error) {
	var cfg Config
	if !p.noRC {
		cfg = p.loadRC(stderr)
	}
	if p.maxDepth != 0 {
		cfg.MaxDepth = p.maxDepth
	}
	if p.output != "" {
		cfg.Output = p.output
	}
	if p.db != "" {
		cfg.DB = p.db
	}

	if cfg.Output == "" {
		cfg.Output = "text"
	} else if !validOutput(cfg.Output) {
		return cfg, prog.BadUsage(fmt.Sprintf("unknown output format %q, should be one of %s",
			cfg.Output, strings.Join(outputFormats, ", ")))
	}
	return cfg, nil
}

func (p *Program) loadRC(stderr io.Writer) Config {
	path := p.rc
	if path == "" {
		var err error
		path, err = rcPath()
		if err != nil {
			fmt.Fprintln(stderr, "Warning:", err)
			return Config{}
		}
	}
	cfg, unknown, err := LoadConfig(path)
	if err != nil {
		// A missing rc file is only worth a warning if it was given
		// explicitly.
		if p.rc != "" || !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(stderr, "Warning: cannot load rc file:", err)
		}
		return Config{}
	}
	logger.Printf("loaded config from %s: %+v", path, cfg)
	if len(unknown) > 0 {
		fmt.Fprintf(stderr, "Warning: unknown keys in %s: %s\n",
			path, strings.Join(unknown, ", "))
	}
	return cfg
}

func validOutput(s string) bool {
	for _, f := range outputFormats {
		if s == f {
			return true
		}
	}
	return false
}
