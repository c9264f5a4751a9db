package config

import (
	"os"
	"path/filepath"

	"github.com/blockdude2/level-maker/src/internal/utils"
)

const (
	DefaultListenAddr       = ":8000"
	DefaultRootDir          = "."
	DefaultLevelsDir        = "levels"
	DefaultFilenameTemplate = "level_{{id}}.json"
	DefaultIDWidth          = 2
	DefaultMaxBodyBytes     = 10 << 20

	// FilenameTemplateID is the placeholder substituted with the zero-padded level id.
	FilenameTemplateID = "id"
)

type Config struct {
	// Server holds HTTP server settings.
	Server ServerConfig `toml:"server" yaml:"server" json:"server"`
	// Storage holds level storage settings.
	Storage StorageConfig `toml:"storage" yaml:"storage" json:"storage"`

	_absConfigFilePath string
}

type ServerConfig struct {
	// ListenAddr is the address the HTTP server binds to (default: ":8000", all interfaces).
	ListenAddr string `toml:"listen_addr" yaml:"listen_addr" json:"listen_addr" validate:"required,listen_addr"`
	// RootDir is the directory static editor files are served from. Relative paths are resolved against the config file directory (default: ".").
	RootDir string `toml:"root_dir" yaml:"root_dir" json:"root_dir" validate:"required"`
	// PrivateOnly rejects requests whose peer address is not in a private network (default: false). Forwarding headers are not trusted.
	PrivateOnly bool `toml:"private_only" yaml:"private_only" json:"private_only"`
	// MaxBodyBytes limits the size of a saved level document (default: 10 MiB).
	MaxBodyBytes int64 `toml:"max_body_bytes" yaml:"max_body_bytes" json:"max_body_bytes" validate:"min=1"`
}

type StorageConfig struct {
	// LevelsDir is the directory level files are stored in. Relative paths are resolved against root_dir (default: "levels").
	LevelsDir string `toml:"levels_dir" yaml:"levels_dir" json:"levels_dir" validate:"required"`
	// FilenameTemplate is the level file name. Available variables: {{id}} (default: "level_{{id}}.json").
	FilenameTemplate string `toml:"filename_template" yaml:"filename_template" json:"filename_template" validate:"required,filename_template"`
	// IDWidth is the minimum number of digits of {{id}}, zero-padded (default: 2).
	IDWidth int `toml:"id_width" yaml:"id_width" json:"id_width" validate:"min=1,max=10"`
	// Watch enables the levels directory watcher that reports changed and corrupt level files (default: true).
	Watch bool `toml:"watch" yaml:"watch" json:"watch"`
}

// NewDefaultConfig returns the configuration used when no config file is given.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:   DefaultListenAddr,
			RootDir:      DefaultRootDir,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		Storage: StorageConfig{
			LevelsDir:        DefaultLevelsDir,
			FilenameTemplate: DefaultFilenameTemplate,
			IDWidth:          DefaultIDWidth,
			Watch:            true,
		},
	}
}

// GetConfigFilePath returns the absolute path of the loaded config file, or
// an empty string for the default configuration.
func (c *Config) GetConfigFilePath() string {
	return c._absConfigFilePath
}

// GetBaseDir returns the directory relative paths are resolved against: the
// config file directory, or the working directory without a config file.
func (c *Config) GetBaseDir() string {
	if c._absConfigFilePath != "" {
		return filepath.Dir(c._absConfigFilePath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// GetAbsRootDir returns the absolute static root directory.
func (c *Config) GetAbsRootDir() string {
	return utils.GetAbsolutePath(c.Server.RootDir, c.GetBaseDir())
}

// GetAbsLevelsDir returns the absolute levels directory.
func (c *Config) GetAbsLevelsDir() string {
	return utils.GetAbsolutePath(c.Storage.LevelsDir, c.GetAbsRootDir())
}

// ResolvePaths rewrites root_dir and levels_dir as absolute paths so the
// config stays valid after the process changes its working directory.
func (c *Config) ResolvePaths() {
	root := c.GetAbsRootDir()
	levels := c.GetAbsLevelsDir()
	c.Server.RootDir = root
	c.Storage.LevelsDir = levels
}
