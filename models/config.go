package models

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/shibukawa/configdir"
)

const (
	EnvLogLevel = "ASSETDUMP_LOG_LEVEL"
	EnvWorkers  = "ASSETDUMP_WORKERS"
	EnvColor    = "ASSETDUMP_COLOR"

	// EnvFile is looked up in the user config directories.
	EnvFile = "assetdump.env"
)

type Config struct {
	Input   string
	Output  string
	Archive string
	Index   string

	ArchHint  string
	Workers   int
	KeepGoing bool

	Color    bool
	LogLevel string
	Verbose  bool

	Stdout io.Writer
}

// Init fills in defaults for any field left zero.
func (c *Config) Init() *Config {
	if c.ArchHint == "" {
		c.ArchHint = "any"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.Verbose {
		c.LogLevel = "DEBUG"
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	return c
}

// LoadEnv reads a .env file from the working directory and then
// assetdump.env from the user config directories. Neither overrides
// variables already present in the environment.
func LoadEnv() []string {
	var loaded []string
	if err := godotenv.Load(); err == nil {
		loaded = append(loaded, ".env")
	}
	dirs := configdir.New("lunixbochs", "assetdump")
	if folder := dirs.QueryFolderContainsFile(EnvFile); folder != nil {
		path := filepath.Join(folder.Path, EnvFile)
		if err := godotenv.Load(path); err == nil {
			loaded = append(loaded, path)
		}
	}
	return loaded
}

// DefaultConfig builds a Config from the environment. Flags are applied on top by the caller.
func DefaultConfig() *Config {
	c := &Config{
		LogLevel: os.Getenv(EnvLogLevel),
		Color:    isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv(EnvColor); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on", "always":
			c.Color = true
		case "0", "false", "no", "off", "never":
			c.Color = false
		}
	}
	return c
}
