package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/blockdude2/level-maker/src/internal/commands"
	"github.com/blockdude2/level-maker/src/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := &commands.AppContext{}
	var logToStderr, quiet bool

	// Define flags
	flag.StringVar(&ctx.ConfigPath, "config", "", "Path to configuration file (TOML or YAML, optional)")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&logToStderr, "stderr", false, "Write all log output to stderr")
	flag.BoolVar(&quiet, "quiet", false, "Disable log output (command output is still printed)")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Block Dude 2 Level Editor server\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  serve                   Serve the level editor and the level API\n")
		fmt.Fprintf(os.Stderr, "  list                    List stored levels\n")
		fmt.Fprintf(os.Stderr, "  check                   Verify every level file and print checksums\n")
		fmt.Fprintf(os.Stderr, "  config                  Print the effective configuration\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}
	if logToStderr {
		log.SetForceStdErr(true)
	}
	if quiet {
		log.DisableLogs()
	}

	if ctx.ConfigPath != "" {
		if _, err := os.Stat(ctx.ConfigPath); os.IsNotExist(err) {
			log.Fatalf("Configuration file not found: %s", ctx.ConfigPath)
		}
	}

	cmds := []commands.Runner{
		commands.CreateServeCommand(),
		commands.CreateListCommand(),
		commands.CreateCheckCommand(),
		commands.CreateConfigCommand(),
	}

	args := flag.Args()

	// serve is the default command
	subcommand := "serve"
	if len(args) > 0 {
		subcommand = args[0]
		args = args[1:]
	}

	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args, ctx); err != nil {
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("Failed to run command: %v", err)
			}

			os.Exit(0)
		}
	}

	flag.Usage()
	log.Fatalf("Unknown subcommand: %s", subcommand)
}
