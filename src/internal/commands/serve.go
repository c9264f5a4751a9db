package commands

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/blockdude2/level-maker/src/internal/components"
	"github.com/blockdude2/level-maker/src/internal/config"
	"github.com/blockdude2/level-maker/src/internal/levels"
	"github.com/blockdude2/level-maker/src/internal/log"
)

func CreateServeCommand() *ServeCommand {
	sc := &ServeCommand{
		fs: flag.NewFlagSet("serve", flag.ExitOnError),
	}

	sc.fs.StringVar(&sc.ListenAddr, "listen", "", "Address to listen on (overrides server.listen_addr)")
	sc.fs.StringVar(&sc.RootDir, "root", "", "Directory with the editor files (overrides server.root_dir)")

	return sc
}

type ServeCommand struct {
	fs         *flag.FlagSet
	cfg        *config.Config
	ctx        *AppContext
	ListenAddr string
	RootDir    string

	store     *levels.Store
	apiServer *components.APIServer
}

func (s *ServeCommand) Name() string {
	return s.fs.Name()
}

func (s *ServeCommand) Init(args []string, ctx *AppContext) error {
	s.ctx = ctx

	if err := s.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	if s.ListenAddr != "" {
		cfg.Server.ListenAddr = s.ListenAddr
	}
	if err := overrideRootDir(cfg, s.RootDir); err != nil {
		return err
	}
	if err := cfg.ValidateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %v", err)
	}
	cfg.ResolvePaths()
	s.cfg = cfg

	if s.store, err = newStore(cfg); err != nil {
		return err
	}

	return nil
}

func (s *ServeCommand) Run() error {
	if err := os.Chdir(s.cfg.Server.RootDir); err != nil {
		return fmt.Errorf("failed to enter root directory: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return s.serve(ctx)
}

// serve starts all components, blocks until ctx is done and stops them in
// reverse order. The server failing to bind is fatal; the watcher is optional.
func (s *ServeCommand) serve(ctx context.Context) error {
	s.apiServer = components.NewAPIServer(s.cfg, s.store)
	if err := s.apiServer.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %v", s.apiServer.Name(), err)
	}
	started := []components.Component{s.apiServer}

	if s.cfg.Storage.Watch {
		watcher := components.NewLevelWatcher(s.store)
		if err := watcher.Start(); err != nil {
			log.Warnf("Failed to start %s: %v", watcher.Name(), err)
		} else {
			started = append(started, watcher)
		}
	}

	s.printBanner(s.apiServer.Addr())

	<-ctx.Done()

	for i := len(started) - 1; i >= 0; i-- {
		if err := started[i].Stop(); err != nil {
			log.Errorf("Failed to stop %s: %v", started[i].Name(), err)
		}
	}
	log.Infof("Server stopped")
	return nil
}

func (s *ServeCommand) printBanner(addr net.Addr) {
	port := s.cfg.Server.ListenAddr
	if tcp, ok := addr.(*net.TCPAddr); ok {
		port = fmt.Sprintf("%d", tcp.Port)
	}

	log.Infof("Block Dude 2 Level Editor")
	log.Infof("Open http://localhost:%s in your browser", port)
	log.Infof("Levels saved to: %s", s.store.Dir())
	if s.cfg.Server.PrivateOnly {
		log.Infof("Access restricted to private subnets only")
	}
	log.Infof("Press Ctrl+C to stop")
}
