package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/rill-lang/rill/pkg/compiler"
	"github.com/rill-lang/rill/pkg/compiler/config"
	"github.com/rill-lang/rill/pkg/parser"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	configFlag := &cli.StringFlag{
		Name:  "config",
		Usage: "path to a rill.yaml config file",
	}

	cmd := &cli.Command{
		Name:  "rill",
		Usage: "The Rill front end",
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Parse and type-check Rill source files",
				Flags: []cli.Flag{configFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() == 0 {
						return fmt.Errorf("must provide at least one rill file as argument")
					}

					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}

					logger := slog.Default()
					if cfg.Trace {
						logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
					}

					comp, err := compiler.New(logger, cfg)
					if err != nil {
						return fmt.Errorf("failed to initialize compiler: %w", err)
					}

					for _, path := range c.Args().Slice() {
						mod, err := comp.CheckFile(ctx, path)
						if err != nil {
							return err
						}

						if typ := mod.ResultType(); typ != nil {
							fmt.Printf("%s: ok (%s)\n", path, typ)
						} else {
							fmt.Printf("%s: ok\n", path)
						}
					}

					return nil
				},
			},
			{
				Name:  "ast",
				Usage: "Dump the parse tree of a Rill source file",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("must provide exactly one rill file as argument")
					}

					path := c.Args().First()
					f, err := os.Open(path)
					if err != nil {
						return fmt.Errorf("failed to open file: %w", err)
					}
					defer f.Close()

					prog, err := parser.Parse(path, f)
					if err != nil {
						return err
					}

					fmt.Print(parser.Dump(prog))

					return nil
				},
			},
		},
	}

	err := cmd.Run(ctx, os.Args)
	if err != nil {
		if isatty.IsTerminal(os.Stderr.Fd()) {
			fmt.Fprintf(os.Stderr, "\x1b[31merror: %v\x1b[0m\n", err)
			os.Exit(1)
		}

		log.Fatal(err)
	}
}

func loadConfig(c *cli.Command) (config.Config, error) {
	path := c.String("config")
	if path == "" {
		return config.Config{}, nil
	}

	return config.Load(path)
}
