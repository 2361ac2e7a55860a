package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/scott-cotton/cli"

	"github.com/mickamy/minitable"
	"github.com/mickamy/minitable/internal/config"
	"github.com/mickamy/minitable/internal/logger"
)

//go:embed demo.yaml
var demoDataset []byte

type MainConfig struct {
	Config   string `cli:"name=config desc='YAML configuration file'"`
	Addr     string `cli:"name=addr desc='listen address (default 127.0.0.1:9753)'"`
	Data     string `cli:"name=data desc='YAML dataset loaded at startup (default: built-in demo)'"`
	Hostname string `cli:"name=hostname desc='hostname announced to clients'"`
	Idle     string `cli:"name=idle desc='close sessions idle for this long, e.g. 5m'"`

	Main *cli.Command
}

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "minitabled").
		WithSynopsis("minitabled [-config file] [-addr host:port] [-data file]").
		WithDescription("minitabled serves single-table SELECT queries over TCP.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return serve(cfg, cc, args)
		})
}

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

func serve(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: unexpected arguments %v", cli.ErrUsage, args)
	}

	conf, err := resolve(cfg)
	if err != nil {
		return err
	}
	level, _ := logger.ParseLevel(conf.LogLevel)
	logger.SetLevel(level)

	// A data_file in conf takes precedence over the embedded demo.
	opts := []minitable.Option{
		minitable.WithDataset(demoDataset),
		minitable.WithConfig(conf),
	}

	s, err := minitable.Run(opts...)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer func(s *minitable.Server) {
		_ = s.Close()
	}(s)
	fmt.Fprintf(cc.Out, "\n[+] Welcome! Starting TCP server | Listening on %s\n", s.Addr())
	fmt.Fprintf(cc.Out, "\n[~] Loaded tables %v. Waiting for clients...\n", s.Tables())

	// Wait for Ctrl+C or a fatal listener error
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)

	select {
	case <-ch:
		fmt.Fprintln(cc.Out, "shutting down...")
		return nil
	case <-s.Done():
		if err := s.Err(); err != nil {
			return fmt.Errorf("server %s logged out: %w", s.Addr(), err)
		}
		return nil
	}
}

// resolve layers flags over the config file over defaults.
func resolve(cfg *MainConfig) (*config.Config, error) {
	conf := config.Default()
	if cfg.Config != "" {
		c, err := config.Load(cfg.Config)
		if err != nil {
			return nil, err
		}
		conf = c
	}
	if cfg.Addr != "" {
		conf.Addr = cfg.Addr
	}
	if cfg.Data != "" {
		conf.DataFile = cfg.Data
	}
	if cfg.Hostname != "" {
		conf.Hostname = cfg.Hostname
	}
	if cfg.Idle != "" {
		conf.IdleTimeout = cfg.Idle
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return conf, nil
}
