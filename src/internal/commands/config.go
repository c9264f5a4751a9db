package commands

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/blockdude2/level-maker/src/internal/config"
)

func CreateConfigCommand() *ConfigCommand {
	cc := &ConfigCommand{
		fs:  flag.NewFlagSet("config", flag.ExitOnError),
		out: os.Stdout,
	}

	cc.fs.StringVar(&cc.Format, "format", "toml", "Output format: toml or yaml")

	return cc
}

// ConfigCommand prints the effective configuration, defaults included.
type ConfigCommand struct {
	fs     *flag.FlagSet
	ctx    *AppContext
	cfg    *config.Config
	out    io.Writer
	Format string
}

func (c *ConfigCommand) Name() string {
	return c.fs.Name()
}

func (c *ConfigCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if c.Format != "toml" && c.Format != "yaml" {
		return fmt.Errorf("unknown format %q, expected toml or yaml", c.Format)
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	return nil
}

func (c *ConfigCommand) Run() error {
	serialize := c.cfg.SerializeConfig
	if c.Format == "yaml" {
		serialize = c.cfg.SerializeConfigYAML
	}

	buf, err := serialize()
	if err != nil {
		return fmt.Errorf("failed to serialize config: %v", err)
	}

	// both formats use # comments
	source := "built-in defaults"
	if path := c.cfg.GetConfigFilePath(); path != "" {
		source = path
	}
	if _, err := fmt.Fprintf(c.out, "# Effective configuration (from %s)\n", source); err != nil {
		return err
	}

	_, err = buf.WriteTo(c.out)
	return err
}
