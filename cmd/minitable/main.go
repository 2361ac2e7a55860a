package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/mickamy/minitable/internal/client"
	"github.com/mickamy/minitable/internal/config"
	"github.com/mickamy/minitable/internal/render"
	"github.com/mickamy/minitable/internal/wire"
)

type MainConfig struct {
	Addr     string `cli:"name=addr desc='server address (default 127.0.0.1:9753)'"`
	Size     int    `cli:"name=size desc='largest message in bytes (default 5120)'"`
	Hostname string `cli:"name=hostname desc='hostname sent in the handshake'"`
	Color    bool   `cli:"name=color desc='color output (default: when stdout is a terminal)'"`

	Main *cli.Command
}

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "minitable").
		WithSynopsis("minitable [-addr host:port] [-size n] [-hostname name] [-color]").
		WithDescription("minitable is an interactive client for minitabled. Type quit to leave.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
}

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

func run(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: unexpected arguments %v", cli.ErrUsage, args)
	}
	if cfg.Addr == "" {
		cfg.Addr = config.DefaultAddr
	}
	if cfg.Size == 0 {
		cfg.Size = wire.DefaultMaxPayload
	}
	if cfg.Size < 0 {
		return fmt.Errorf("%w: -size must be positive", cli.ErrUsage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d := &client.Driver{
		Addr:       cfg.Addr,
		BufferSize: cfg.Size,
		Hostname:   cfg.Hostname,
		In:         cc.In,
		Out:        cc.Out,
		Render:     render.New(cc.Out, cfg.colored(cc)),
	}
	return d.Run(ctx)
}

// colored honours an explicit -color and otherwise colors terminals only.
func (cfg *MainConfig) colored(cc *cli.Context) bool {
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		if opt.Value != nil {
			return cfg.Color
		}
		break
	}
	f, ok := cc.Out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}
