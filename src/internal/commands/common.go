package commands

import (
	"fmt"

	"github.com/blockdude2/level-maker/src/internal/config"
	"github.com/blockdude2/level-maker/src/internal/levels"
	"github.com/blockdude2/level-maker/src/internal/log"
	"github.com/blockdude2/level-maker/src/internal/utils"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	ConfigPath string
	Verbose    bool
}

// loadAndValidateConfigOrFail loads configuration from file (or the defaults
// when no file is given) and validates it.
func loadAndValidateConfigOrFail(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	return cfg, nil
}

// overrideRootDir points the configuration at a root directory given on the
// command line. Relative paths are taken from the working directory.
func overrideRootDir(cfg *config.Config, rootDir string) error {
	if rootDir == "" {
		return nil
	}
	abs, err := utils.ResolveDir(rootDir)
	if err != nil {
		return fmt.Errorf("invalid root directory: %v", err)
	}
	cfg.Server.RootDir = abs
	return nil
}

// newStore creates the level store of cfg, reporting corrupt level files as
// warnings.
func newStore(cfg *config.Config) (*levels.Store, error) {
	return levels.NewStoreFromConfig(cfg, levels.WithCorruptHandler(func(filename string, err error) {
		log.Warnf("Skipping corrupt level file %s: %v", filename, err)
	}))
}
