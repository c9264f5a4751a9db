package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/blockdude2/level-maker/src/internal/config"
	"github.com/blockdude2/level-maker/src/internal/levels"
)

func CreateListCommand() *ListCommand {
	lc := &ListCommand{
		fs:  flag.NewFlagSet("list", flag.ExitOnError),
		out: os.Stdout,
	}

	lc.fs.StringVar(&lc.RootDir, "root", "", "Directory with the editor files (overrides server.root_dir)")

	return lc
}

type ListCommand struct {
	fs      *flag.FlagSet
	ctx     *AppContext
	cfg     *config.Config
	store   *levels.Store
	out     io.Writer
	RootDir string
}

func (l *ListCommand) Name() string {
	return l.fs.Name()
}

func (l *ListCommand) Init(args []string, ctx *AppContext) error {
	l.ctx = ctx

	if err := l.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	if err := overrideRootDir(cfg, l.RootDir); err != nil {
		return err
	}
	l.cfg = cfg

	if l.store, err = newStore(cfg); err != nil {
		return err
	}

	return nil
}

func (l *ListCommand) Run() error {
	summaries, err := l.store.List()
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Fprintf(l.out, "No levels in %s\n", l.store.Dir())
		return nil
	}

	w := tabwriter.NewWriter(l.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE\tFILE")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%sx%s\t%s\n", s.ID, displayValue(s.Name), s.Width, s.Height, s.Filename)
	}
	return w.Flush()
}

// displayValue prints JSON strings without quotes and anything else as is.
func displayValue(raw json.RawMessage) string {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return string(raw)
}
