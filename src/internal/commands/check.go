package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/blockdude2/level-maker/src/internal/config"
	"github.com/blockdude2/level-maker/src/internal/hashing"
	"github.com/blockdude2/level-maker/src/internal/levels"
)

func CreateCheckCommand() *CheckCommand {
	cc := &CheckCommand{
		fs:  flag.NewFlagSet("check", flag.ExitOnError),
		out: os.Stdout,
	}

	cc.fs.StringVar(&cc.RootDir, "root", "", "Directory with the editor files (overrides server.root_dir)")
	cc.fs.IntVar(&cc.Parallel, "parallel", runtime.NumCPU(), "Number of level files checked concurrently")

	return cc
}

type CheckCommand struct {
	fs       *flag.FlagSet
	ctx      *AppContext
	cfg      *config.Config
	store    *levels.Store
	out      io.Writer
	RootDir  string
	Parallel int
}

// checkResult is the outcome of checking a single level file.
type checkResult struct {
	filename string
	summary  levels.Summary
	checksum string
	err      error
}

func (c *CheckCommand) Name() string {
	return c.fs.Name()
}

func (c *CheckCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if c.Parallel < 1 {
		return fmt.Errorf("-parallel must be at least 1, got %d", c.Parallel)
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	if err := overrideRootDir(cfg, c.RootDir); err != nil {
		return err
	}
	c.cfg = cfg

	if c.store, err = levels.NewStoreFromConfig(cfg); err != nil {
		return err
	}

	return nil
}

func (c *CheckCommand) Run() error {
	names, err := c.store.Filenames()
	if err != nil {
		return err
	}

	results := make([]checkResult, len(names))

	var g errgroup.Group
	g.SetLimit(c.Parallel)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			results[i] = c.checkFile(name)
			return nil
		})
	}
	_ = g.Wait()

	corrupt := 0
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tID\tMD5\tSTATUS")
	for _, r := range results {
		if r.err != nil {
			corrupt++
			fmt.Fprintf(w, "%s\t-\t%s\tcorrupt: %v\n", r.filename, orDash(r.checksum), r.err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\tok\n", r.filename, r.summary.ID, r.checksum)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%d level file(s) checked in %s, %d corrupt\n", len(results), c.store.Dir(), corrupt)
	if corrupt > 0 {
		return fmt.Errorf("%d corrupt level file(s)", corrupt)
	}
	return nil
}

func (c *CheckCommand) checkFile(name string) checkResult {
	result := checkResult{filename: name}

	data, err := os.ReadFile(filepath.Join(c.store.Dir(), name))
	if err != nil {
		result.err = err
		return result
	}
	result.checksum = hashing.Sum(data)
	result.summary, result.err = levels.ParseSummary(data, name)
	return result
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
