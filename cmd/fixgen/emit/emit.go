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

// Package emit renders IR files to formatted Go source and writes them to
// an artifact sink.
package emit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/tools/imports"

	"github.com/ajroetker/go-fixmath/cmd/fixgen/ir"
)

var (
	// ErrRender is returned when rendered source does not parse.
	ErrRender = errors.New("render failed")

	// ErrWrite is returned when the sink rejects an artifact.
	ErrWrite = errors.New("write failed")
)

// Suffix is appended to artifact IDs to form file names.
const Suffix = ".gen.go"

// FileName is the file an artifact is written to.
func FileName(id string) string { return id + Suffix }

// Sink receives rendered artifacts.
type Sink interface {
	Write(id string, data []byte) error
}

// Emitter renders and writes artifacts.
type Emitter struct {
	Package  string
	FPImport string
	Sink     Sink
}

var formatOptions = &imports.Options{
	FormatOnly: true,
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
}

// Render prints f and formats it.
func (e *Emitter) Render(f *ir.File) ([]byte, error) {
	p := &ir.Printer{Package: e.Package, FPImport: e.FPImport}
	src := p.Print(f)
	out, err := imports.Process(FileName(f.ID), src, formatOptions)
	if err != nil {
		return nil, fmt.Errorf("emit %s: %w: %v", f.ID, ErrRender, err)
	}
	return out, nil
}

// Emit renders f and writes it to the sink. A failure only concerns f.
func (e *Emitter) Emit(f *ir.File) error {
	data, err := e.Render(f)
	if err != nil {
		return err
	}
	if err := e.Sink.Write(f.ID, data); err != nil {
		return fmt.Errorf("emit %s: %w: %w", f.ID, ErrWrite, err)
	}
	return nil
}

// FileSink writes each artifact to <Dir>/<id>.gen.go, replacing any
// previous content.
type FileSink struct {
	Dir string
}

// NewFileSink creates dir if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &FileSink{Dir: dir}, nil
}

func (s *FileSink) Write(id string, data []byte) error {
	return os.WriteFile(filepath.Join(s.Dir, FileName(id)), data, 0o644)
}

// MemSink keeps artifacts in memory. It is safe for concurrent use.
type MemSink struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemSink() *MemSink { return &MemSink{files: map[string][]byte{}} }

func (s *MemSink) Write(id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = slices.Clone(data)
	return nil
}

// Get returns the artifact id.
func (s *MemSink) Get(id string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[id]
	return data, ok
}

// IDs lists the artifacts written so far, sorted.
func (s *MemSink) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.files))
	for id := range s.files {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Files returns a copy of every artifact keyed by ID.
func (s *MemSink) Files() map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]byte, len(s.files))
	for id, data := range s.files {
		out[id] = data
	}
	return out
}
