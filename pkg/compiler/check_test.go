package compiler_test

import (
	"context"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/rill-lang/rill/pkg/compiler"
	"github.com/rill-lang/rill/pkg/compiler/config"
	"github.com/stretchr/testify/require"
)

func TestCheckTestdata(t *testing.T) {
	ctx := context.Background()

	dir := os.DirFS("./testdata")
	testFiles, err := fs.Glob(dir, "*.txt")
	if err != nil {
		t.Fatal(err)
	}

	for _, testFile := range testFiles {
		name := strings.Split(testFile, ".")[0]
		t.Run(name, func(t *testing.T) {
			r := require.New(t)
			logger := slogt.New(t)

			comp, err := compiler.New(logger, config.Config{})
			r.NoError(err)

			testData, err := fs.ReadFile(dir, testFile)
			r.NoError(err)

			parts := strings.SplitN(string(testData), "\n---\n", 2)
			source := parts[0]
			expected := strings.TrimSpace(parts[1])

			mod, err := comp.CheckReader(ctx, testFile, strings.NewReader(source))
			r.NoError(err)
			r.NotNil(mod.ResultType())
			r.Equal(expected, mod.ResultType().String())
		})
	}
}

func TestCheckFileMissing(t *testing.T) {
	comp, err := compiler.New(slogt.New(t), config.Config{})
	require.NoError(t, err)

	_, err = comp.CheckFile(context.Background(), "does-not-exist.rl")
	require.Error(t, err)
}
