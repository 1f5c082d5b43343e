// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ajroetker/go-fixmath/cmd/fixgen/emit"
	"github.com/ajroetker/go-fixmath/cmd/fixgen/shape"
	"github.com/ajroetker/go-fixmath/cmd/fixgen/synth"
)

func newGenerator(t *testing.T, sink emit.Sink, workers int, kinds ...shape.Kind) *Generator {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Kinds = nil
	for _, k := range kinds {
		cfg.Kinds = append(cfg.Kinds, k.String())
	}
	opts, err := cfg.SynthOptions()
	require.NoError(t, err)
	return &Generator{
		Options: opts,
		Emitter: &emit.Emitter{Package: cfg.Package, FPImport: cfg.FPImport, Sink: sink},
		Workers: workers,
		Logger:  zap.NewNop(),
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	kinds := []shape.Kind{shape.FixedPoint, shape.Int32, shape.Float64}

	seq := emit.NewMemSink()
	require.NoError(t, newGenerator(t, seq, 1, kinds...).Run(context.Background()))

	for _, workers := range []int{0, 2, 7} {
		par := emit.NewMemSink()
		require.NoError(t, newGenerator(t, par, workers, kinds...).Run(context.Background()))
		if diff := cmp.Diff(seq.Files(), par.Files()); diff != "" {
			t.Fatalf("workers=%d output differs from sequential run (-seq +par):\n%s", workers, diff)
		}
	}
}

func TestGeneratorArtifacts(t *testing.T) {
	sink := emit.NewMemSink()
	g := newGenerator(t, sink, 1, shape.FixedPoint)
	require.NoError(t, g.Run(context.Background()))

	// Bool and Uint32 come along with any configuration.
	var want []string
	for _, s := range g.Shapes() {
		want = append(want, s.ID())
	}
	assert.Contains(t, want, "fp3x3")
	assert.Contains(t, want, "bool4")
	assert.Contains(t, want, "uint2")
	want = append(want, synth.SupportID, synth.CheckedID, synth.UncheckedID,
		synth.MulFileID(shape.FixedPoint), synth.MulFileID(shape.Uint32))
	slices.Sort(want)
	assert.Equal(t, want, sink.IDs())

	_, ok := sink.Get(synth.MulFileID(shape.Bool))
	assert.False(t, ok, "no products over bool")
}

// selectiveSink fails writes of the listed IDs.
type selectiveSink struct {
	*emit.MemSink
	fail map[string]bool
}

var errRejected = errors.New("rejected")

func (s selectiveSink) Write(id string, data []byte) error {
	if s.fail[id] {
		return errRejected
	}
	return s.MemSink.Write(id, data)
}

func TestFailureIsolation(t *testing.T) {
	for _, workers := range []int{1, 4} {
		sink := selectiveSink{MemSink: emit.NewMemSink(), fail: map[string]bool{"fp4x2": true, "fp2": true}}
		g := newGenerator(t, sink, workers, shape.FixedPoint)
		err := g.Run(context.Background())
		require.Error(t, err)

		errs := multierr.Errors(err)
		require.Len(t, errs, 2)
		// Emission order: fp2 precedes fp4x2.
		assert.Contains(t, errs[0].Error(), "emit fp2")
		assert.Contains(t, errs[1].Error(), "emit fp4x2")
		for _, e := range errs {
			assert.ErrorIs(t, e, emit.ErrWrite)
			assert.ErrorIs(t, e, errRejected)
		}

		// Every other artifact is still written.
		ids := sink.IDs()
		assert.NotContains(t, ids, "fp2")
		assert.Contains(t, ids, "fp3")
		assert.Contains(t, ids, "fp4x4")
		assert.Len(t, ids, len(g.Shapes())+len(g.Shared())-2)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := emit.NewMemSink()
	err := newGenerator(t, sink, 1, shape.FixedPoint).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(dir, "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(dir, "partial.yaml")
		require.NoError(t, os.WriteFile(path, []byte("kinds: [fp, double]\nworkers: 3\nlut:\n  size: 64\n"), 0o644))
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"fp", "double"}, cfg.Kinds)
		assert.Equal(t, 3, cfg.Workers)
		assert.Equal(t, 64, cfg.LUT.Size)
		assert.Equal(t, "fixlut", cfg.LUT.Package)
		assert.Equal(t, "fixmath", cfg.Package)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("kinds: [fp\n"), 0o644))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := filepath.Join(dir, "unknown.yaml")
		require.NoError(t, os.WriteFile(path, []byte("half: true\n"), 0o644))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Kinds = []string{"fp", "half"}
	cfg.Workers = -1
	cfg.LUT.Size = 1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
	assert.Contains(t, err.Error(), `unknown kind "half"`)
}

func TestKindSetAddsRequiredKinds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Kinds = []string{"float"}
	ks, err := cfg.KindSet()
	require.NoError(t, err)
	assert.Equal(t, []shape.Kind{shape.Uint32, shape.Bool, shape.Float32}, ks.Sorted())
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	types := filepath.Join(dir, "types")
	tables := filepath.Join(dir, "tables")

	root := newRootCmd(zap.NewNop())
	root.SetArgs([]string{"all",
		"--config", filepath.Join(dir, "none.yaml"),
		"--output", types,
		"--kinds", "int",
		"--workers", "2",
		"--lut-size", "16",
		"--lut-output", tables,
	})
	require.NoError(t, root.Execute())

	for _, name := range []string{"int2.gen.go", "int4x4.gen.go", "bool3.gen.go", "support.gen.go", "checked.gen.go", "mul_int.gen.go"} {
		assert.FileExists(t, filepath.Join(types, name))
	}
	assert.NoFileExists(t, filepath.Join(types, "fp2.gen.go"))

	data, err := os.ReadFile(filepath.Join(tables, "lut.gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "package fixlut")
	assert.Contains(t, string(data), "const LUTSize = 16")
}

func TestCommandRejectsInvalidFlags(t *testing.T) {
	root := newRootCmd(zap.NewNop())
	root.SetArgs([]string{"lut", "--config", "", "--lut-size", "1", "--lut-output", t.TempDir()})
	root.SetErr(io.Discard)
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lut size must be at least 2")
}
