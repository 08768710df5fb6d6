package compiler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rill-lang/rill/pkg/compiler/config"
	"github.com/rill-lang/rill/pkg/parser"
)

type Compiler struct {
	logger *slog.Logger
	config config.Config
}

func New(logger *slog.Logger, cfg config.Config) (*Compiler, error) {
	err := cfg.Validate(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to validate compiler config: %w", err)
	}

	return &Compiler{
		logger: logger,
		config: cfg,
	}, nil
}

// CheckFile parses and infers one source file.
func (c *Compiler) CheckFile(ctx context.Context, path string) (*Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	defer f.Close()

	return c.CheckReader(ctx, path, f)
}

// CheckReader parses and infers a source stream.
func (c *Compiler) CheckReader(ctx context.Context, name string, r io.Reader) (*Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prog, err := parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", name, err)
	}

	return c.Infer(prog)
}
