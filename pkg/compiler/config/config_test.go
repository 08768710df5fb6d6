package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/rill-lang/rill/pkg/compiler/config"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	r := require.New(t)

	path := filepath.Join(t.TempDir(), "rill.yaml")
	r.NoError(os.WriteFile(path, []byte("max_union: 16\ntrace: true\n"), 0o644))

	cfg, err := config.Load(path)
	r.NoError(err)
	r.Equal(16, cfg.MaxUnion)
	r.True(cfg.Trace)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	r := require.New(t)

	path := filepath.Join(t.TempDir(), "rill.yaml")
	r.NoError(os.WriteFile(path, []byte("max_union: [oops\n"), 0o644))

	_, err := config.Load(path)
	r.Error(err)
}

func TestValidateDefaults(t *testing.T) {
	r := require.New(t)

	cfg := config.Config{}
	r.NoError(cfg.Validate(slogt.New(t)))
	r.Equal(config.DefaultMaxUnion, cfg.MaxUnion)
}

func TestValidateRejectsNegative(t *testing.T) {
	cfg := config.Config{MaxUnion: -1}
	require.Error(t, cfg.Validate(slogt.New(t)))
}
