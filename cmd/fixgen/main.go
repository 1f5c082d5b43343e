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

// Command fixgen generates a family of fixed-size vector and matrix types
// over fixed-point, integer, boolean and floating-point scalars, plus lookup
// tables for fixed-point transcendental functions.
//
// Usage:
//
//	fixgen types --output fixmath --kinds fp,int,bool
//	fixgen lut --lut-size 1024
//	fixgen all --config fixgen.yaml --workers 8
//
// Or via go:generate:
//
//	//go:generate go run github.com/ajroetker/go-fixmath/cmd/fixgen all
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-fixmath/cmd/fixgen/emit"
)

// app is the state shared by the commands of one invocation.
type app struct {
	configFile string
	verbose    bool

	// Flag values; they override the file only when set.
	output   string
	pkg      string
	kinds    []string
	workers  int
	lutSize  int
	lutOut   string
	checkTag string

	cfg    Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. A nil logger is built from --verbose.
func newRootCmd(logger *zap.Logger) *cobra.Command {
	a := &app{logger: logger}
	root := &cobra.Command{
		Use:   "fixgen",
		Short: "Generate fixed-size vector and matrix types and lookup tables",
		Long: `fixgen emits Go source for every vector (2..4) and matrix (2..4 x 2..4)
shape of the enabled scalar kinds, with constructors, conversions, operators,
swizzles, hashes and matrix algebra, and samples asin, sin, tan and exp into
fixed-point lookup tables.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configFile, "config", DefaultConfigFile, "YAML configuration file")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "log every artifact")
	f.StringVarP(&a.output, "output", "o", "", "type family output directory")
	f.StringVar(&a.pkg, "package", "", "type family package name")
	f.StringSliceVar(&a.kinds, "kinds", nil, "enabled kinds (fp,int,uint,bool,float,double)")
	f.IntVarP(&a.workers, "workers", "j", 1, "shapes rendered concurrently (0 = GOMAXPROCS)")
	f.IntVar(&a.lutSize, "lut-size", 0, "samples per lookup table")
	f.StringVar(&a.lutOut, "lut-output", "", "lookup table output directory")
	f.StringVar(&a.checkTag, "checked-tag", "", "build tag enabling index bounds panics")

	root.AddCommand(
		&cobra.Command{
			Use:   "types",
			Short: "Generate the vector and matrix type family",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, _ []string) error { return a.runTypes(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "lut",
			Short: "Generate the fixed-point lookup tables",
			Args:  cobra.NoArgs,
			RunE:  func(*cobra.Command, []string) error { return a.runLUT() },
		},
		&cobra.Command{
			Use:   "all",
			Short: "Generate the type family and the lookup tables",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				g, ctx := errgroup.WithContext(cmd.Context())
				g.Go(func() error { return a.runTypes(ctx) })
				g.Go(a.runLUT)
				return g.Wait()
			},
		},
	)
	return root
}

// setup builds the logger and resolves the configuration.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.logger == nil {
		config := zap.NewProductionConfig()
		if a.verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.logger = logger
	}

	cfg, err := LoadConfig(a.configFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = a.output
	}
	if flags.Changed("package") {
		cfg.Package = a.pkg
	}
	if flags.Changed("kinds") {
		cfg.Kinds = a.kinds
	}
	if flags.Changed("workers") {
		cfg.Workers = a.workers
	}
	if flags.Changed("lut-size") {
		cfg.LUT.Size = a.lutSize
	}
	if flags.Changed("lut-output") {
		cfg.LUT.Output = a.lutOut
	}
	if flags.Changed("checked-tag") {
		cfg.CheckedTag = a.checkTag
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg
	a.logger.Debug("configuration resolved",
		zap.String("output", cfg.Output),
		zap.Strings("kinds", cfg.Kinds),
		zap.Int("workers", cfg.Workers))
	return nil
}

func (a *app) runTypes(ctx context.Context) error {
	opts, err := a.cfg.SynthOptions()
	if err != nil {
		return err
	}
	sink, err := emit.NewFileSink(a.cfg.Output)
	if err != nil {
		return err
	}
	g := &Generator{
		Options: opts,
		Emitter: &emit.Emitter{Package: a.cfg.Package, FPImport: a.cfg.FPImport, Sink: sink},
		Workers: a.cfg.Workers,
		Logger:  a.logger,
	}
	return g.Run(ctx)
}

func (a *app) runLUT() error {
	sink, err := emit.NewFileSink(a.cfg.LUT.Output)
	if err != nil {
		return err
	}
	e := &emit.Emitter{Package: a.cfg.LUT.Package, FPImport: a.cfg.FPImport, Sink: sink}
	return GenerateLUT(a.cfg.LUT.Size, e, a.logger)
}
