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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/ajroetker/go-fixmath/cmd/fixgen/lut"
	"github.com/ajroetker/go-fixmath/cmd/fixgen/shape"
	"github.com/ajroetker/go-fixmath/cmd/fixgen/synth"
)

// DefaultConfigFile is read when --config is not given.
const DefaultConfigFile = "fixgen.yaml"

// Config is the generator configuration, read from YAML.
type Config struct {
	// Package is the package clause of the type-family artifacts.
	Package string `yaml:"package"`
	// Output is the directory the type-family artifacts are written to.
	Output string `yaml:"output"`
	// FPImport is the import path of the fixed-point runtime.
	FPImport string `yaml:"fp_import"`
	// CheckedTag is the build tag enabling index bounds panics.
	CheckedTag string `yaml:"checked_tag"`
	// Kinds lists the enabled base kinds by tag (fp, int, uint, bool,
	// float, double).
	Kinds []string `yaml:"kinds"`
	// Workers is the number of shapes rendered concurrently. 1 renders
	// sequentially, 0 uses GOMAXPROCS.
	Workers int `yaml:"workers"`

	LUT LUTConfig `yaml:"lut"`
}

// LUTConfig configures lookup table generation.
type LUTConfig struct {
	Size    int    `yaml:"size"`
	Package string `yaml:"package"`
	Output  string `yaml:"output"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Package:    "fixmath",
		Output:     "fixmath",
		FPImport:   "github.com/ajroetker/go-fixmath/fp",
		CheckedTag: synth.CheckedTag,
		Kinds:      lo.Map(shape.AllKinds(), func(k shape.Kind, _ int) string { return k.String() }),
		Workers:    1,
		LUT: LUTConfig{
			Size:    lut.DefaultSize,
			Package: "fixlut",
			Output:  "fixlut",
		},
	}
}

// LoadConfig reads path over the defaults. A missing file yields the
// defaults; unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every problem with c.
func (c Config) Validate() error {
	var err error
	if c.Package == "" {
		err = multierr.Append(err, errors.New("package must not be empty"))
	}
	if c.Output == "" {
		err = multierr.Append(err, errors.New("output must not be empty"))
	}
	if c.FPImport == "" {
		err = multierr.Append(err, errors.New("fp_import must not be empty"))
	}
	if len(c.Kinds) == 0 {
		err = multierr.Append(err, errors.New("at least one kind must be enabled"))
	}
	for _, tag := range c.Kinds {
		if _, perr := shape.ParseKind(tag); perr != nil {
			err = multierr.Append(err, perr)
		}
	}
	if c.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.LUT.Size < 2 {
		err = multierr.Append(err, fmt.Errorf("lut size must be at least 2, got %d", c.LUT.Size))
	}
	if c.LUT.Package == "" {
		err = multierr.Append(err, errors.New("lut package must not be empty"))
	}
	return err
}

// KindSet returns the enabled kinds. Bool and Uint32 are always enabled:
// comparisons return Bool shapes and wide hashes return Uint vectors.
func (c Config) KindSet() (shape.KindSet, error) {
	ks := shape.NewKindSet(shape.Bool, shape.Uint32)
	for _, tag := range c.Kinds {
		k, err := shape.ParseKind(tag)
		if err != nil {
			return nil, err
		}
		ks[k] = true
	}
	return ks, nil
}

// SynthOptions maps c onto synthesis options.
func (c Config) SynthOptions() (synth.Options, error) {
	ks, err := c.KindSet()
	if err != nil {
		return synth.Options{}, err
	}
	return synth.Options{Kinds: ks, CheckedTag: c.CheckedTag, Package: c.Package}, nil
}
