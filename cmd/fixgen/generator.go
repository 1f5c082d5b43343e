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
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ajroetker/go-fixmath/cmd/fixgen/emit"
	"github.com/ajroetker/go-fixmath/cmd/fixgen/ir"
	"github.com/ajroetker/go-fixmath/cmd/fixgen/lut"
	"github.com/ajroetker/go-fixmath/cmd/fixgen/shape"
	"github.com/ajroetker/go-fixmath/cmd/fixgen/synth"
	"github.com/ajroetker/go-fixmath/workerpool"
)

// Generator emits the type family.
type Generator struct {
	Options synth.Options
	Emitter *emit.Emitter
	// Workers > 1 renders shapes concurrently, 0 uses GOMAXPROCS.
	Workers int
	Logger  *zap.Logger
}

// Shapes returns the shapes in emission order.
func (g *Generator) Shapes() []shape.Shape {
	return shape.Enumerate(g.Options.Kinds.Sorted())
}

// Shared returns the artifacts that do not belong to a single shape.
func (g *Generator) Shared() []*ir.File {
	files := []*ir.File{
		synth.Support(g.Options),
		synth.BuildMode(g.Options, true),
		synth.BuildMode(g.Options, false),
	}
	for _, k := range g.Options.Kinds.Sorted() {
		if f := synth.SynthesizeMul(k); f != nil {
			files = append(files, f)
		}
	}
	return files
}

// Run emits every artifact. A failing artifact does not stop the others;
// the failures are returned together in emission order.
func (g *Generator) Run(ctx context.Context) error {
	start := time.Now()
	log := g.logger()

	var errs []error
	for _, f := range g.Shared() {
		errs = append(errs, g.emit(f))
	}

	shapes := g.Shapes()
	if g.Workers == 1 {
		errs = append(errs, g.sequential(ctx, shapes)...)
	} else {
		errs = append(errs, g.parallel(ctx, shapes)...)
	}

	err := multierr.Combine(errs...)
	log.Info("type family generated",
		zap.Int("shapes", len(shapes)),
		zap.Int("failed", len(multierr.Errors(err))),
		zap.Duration("elapsed", time.Since(start)))
	return err
}

// sequential threads one prime cursor through the shapes.
func (g *Generator) sequential(ctx context.Context, shapes []shape.Shape) []error {
	errs := make([]error, len(shapes))
	cur := shape.NewPrimeCursor(0)
	for i, s := range shapes {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			continue
		}
		u := synth.Synthesize(s, cur, g.Options)
		cur = u.Next
		errs[i] = g.emit(u.File)
	}
	return errs
}

// parallel gives every shape the cursor a sequential run would reach it
// with, so the output does not depend on scheduling.
func (g *Generator) parallel(ctx context.Context, shapes []shape.Shape) []error {
	starts := shape.StartCursors(shapes, synth.PrimesConsumed)
	pool := workerpool.New(g.Workers)
	defer pool.Close()
	g.logger().Debug("rendering shapes concurrently", zap.Int("workers", pool.NumWorkers()))
	return pool.ForEach(ctx, len(shapes), func(_ context.Context, i int) error {
		return g.emit(synth.Synthesize(shapes[i], starts[i], g.Options).File)
	})
}

func (g *Generator) emit(f *ir.File) error {
	if err := g.Emitter.Emit(f); err != nil {
		g.logger().Warn("artifact failed", zap.String("id", f.ID), zap.Error(err))
		return err
	}
	g.logger().Debug("artifact written", zap.String("file", emit.FileName(f.ID)))
	return nil
}

func (g *Generator) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

// GenerateLUT samples the lookup tables and emits them as one artifact.
func GenerateLUT(size int, e *emit.Emitter, log *zap.Logger) error {
	tables, err := lut.Generate(size, lut.FixedPoint())
	if err != nil {
		return fmt.Errorf("generate lookup tables: %w", err)
	}
	if err := e.Emit(lut.File(tables)); err != nil {
		return err
	}
	log.Info("lookup tables generated", zap.Int("tables", len(tables)), zap.Int("size", size))
	return nil
}
