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
	"go/ast"
	"go/build"
	"go/constant"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajroetker/go-fixmath/cmd/fixgen/emit"
	"github.com/ajroetker/go-fixmath/cmd/fixgen/synth"
)

// checkModule is a throwaway module holding the generated package next to a
// copy of the fp runtime, so it builds without this module's dependencies.
const checkModule = "fixmathcheck"

func renderModule(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module "+checkModule+"\n\ngo 1.22\n"), 0o644))

	fpDir := filepath.Join(dir, "fp")
	require.NoError(t, os.MkdirAll(fpDir, 0o755))
	sources, err := filepath.Glob(filepath.Join("..", "..", "fp", "*.go"))
	require.NoError(t, err)
	for _, src := range sources {
		if strings.HasSuffix(src, "_test.go") {
			continue
		}
		data, err := os.ReadFile(src)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(fpDir, filepath.Base(src)), data, 0o644))
	}

	cfg := DefaultConfig()
	cfg.FPImport = checkModule + "/fp"
	opts, err := cfg.SynthOptions()
	require.NoError(t, err)
	sink, err := emit.NewFileSink(filepath.Join(dir, cfg.Package))
	require.NoError(t, err)
	g := &Generator{
		Options: opts,
		Emitter: &emit.Emitter{Package: cfg.Package, FPImport: cfg.FPImport, Sink: sink},
		Workers: 0,
		Logger:  zap.NewNop(),
	}
	require.NoError(t, g.Run(context.Background()))
	return dir
}

// localImporter resolves packages of the check module from already checked
// packages and everything else from GOROOT sources.
type localImporter struct {
	std   types.ImporterFrom
	local map[string]*types.Package
}

func (l localImporter) Import(path string) (*types.Package, error) {
	return l.ImportFrom(path, "", 0)
}

func (l localImporter) ImportFrom(path, dir string, mode types.ImportMode) (*types.Package, error) {
	if pkg, ok := l.local[path]; ok {
		return pkg, nil
	}
	return l.std.ImportFrom(path, dir, mode)
}

// typeCheck checks the non-test files of dir selected by tags.
func typeCheck(t *testing.T, fset *token.FileSet, imp types.Importer, dir, path string, tags []string) *types.Package {
	t.Helper()
	ctxt := build.Default
	ctxt.BuildTags = tags
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var files []*ast.File
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		ok, err := ctxt.MatchFile(dir, name)
		require.NoError(t, err)
		if !ok {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
		require.NoError(t, err)
		files = append(files, f)
	}
	require.NotEmpty(t, files)

	var errs []string
	conf := types.Config{
		Importer: imp,
		Error:    func(err error) { errs = append(errs, err.Error()) },
	}
	pkg, _ := conf.Check(path, fset, files, nil)
	require.Empty(t, errs, "type errors in %s", path)
	return pkg
}

func hasGoToolchain(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("renders and compiles the whole family")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not available")
	}
	return goBin
}

func TestGeneratedPackageTypeChecks(t *testing.T) {
	hasGoToolchain(t)
	dir := renderModule(t)

	fset := token.NewFileSet()
	std := importer.ForCompiler(fset, "source", nil).(types.ImporterFrom)
	fpPkg := typeCheck(t, fset, std, filepath.Join(dir, "fp"), checkModule+"/fp", nil)
	imp := localImporter{std: std, local: map[string]*types.Package{checkModule + "/fp": fpPkg}}

	for _, tags := range [][]string{nil, {synth.CheckedTag}} {
		checked := len(tags) > 0
		name := "unchecked"
		if checked {
			name = "checked"
		}
		t.Run(name, func(t *testing.T) {
			pkg := typeCheck(t, fset, imp, filepath.Join(dir, "fixmath"), checkModule+"/fixmath", tags)

			c, ok := pkg.Scope().Lookup("checkedBuild").(*types.Const)
			require.True(t, ok)
			assert.Equal(t, checked, constant.BoolVal(c.Val()))

			ns := pkg.Scope().Lookup(synth.NamespaceType)
			require.NotNil(t, ns)
			for _, fn := range []string{"FastInverseFp3x4", "FastInverseDouble4x4", "InverseFp3x3", "MulFp3x4Fp4", "HashWideBool2"} {
				obj, _, _ := types.LookupFieldOrMethod(ns.Type(), false, pkg, fn)
				assert.NotNil(t, obj, "%s.%s", synth.NamespaceType, fn)
			}
		})
	}
}

// accessorsTest runs inside the generated package under both build modes.
const accessorsTest = `package fixmath

import "testing"

func panicOf(f func()) (r any) {
	defer func() { r = recover() }()
	f()
	return nil
}

func checkIndexPanic(t *testing.T, r any, index, n int) {
	t.Helper()
	if !checkedBuild {
		if r != nil {
			t.Fatalf("unchecked build panicked: %v", r)
		}
		return
	}
	ie, ok := r.(*IndexError)
	if !ok || ie.Index != index || ie.Len != n {
		t.Fatalf("panic value %v, want &IndexError{Index: %d, Len: %d}", r, index, n)
	}
}

func TestAccessorsInRange(t *testing.T) {
	v := NewInt3(1, 2, 3)
	if v.At(0) != 1 || v.At(2) != 3 {
		t.Fatalf("At on %v", v)
	}
	v.SetAt(1, 9)
	if v != NewInt3(1, 9, 3) {
		t.Fatalf("SetAt(1, 9) gave %v", v)
	}
	if col := Int2x2Identity.At(1); col != NewInt2(0, 1) {
		t.Fatalf("Int2x2Identity.At(1) = %v", col)
	}
}

func TestAccessorsOutOfRange(t *testing.T) {
	v := NewInt3(1, 2, 3)
	got := int32(-1)
	checkIndexPanic(t, panicOf(func() { got = v.At(7) }), 7, 3)
	if !checkedBuild && got != 0 {
		t.Errorf("At(7) = %d, want 0", got)
	}
	checkIndexPanic(t, panicOf(func() { v.SetAt(-1, 5) }), -1, 3)
	if v != NewInt3(1, 2, 3) {
		t.Errorf("SetAt(-1, 5) changed v to %v", v)
	}

	m := Int2x2Identity
	col := NewInt2(-1, -1)
	checkIndexPanic(t, panicOf(func() { col = m.At(2) }), 2, 2)
	if !checkedBuild && col != (Int2{}) {
		t.Errorf("At(2) = %v, want zero column", col)
	}
}
`

func TestGeneratedIndexAccessors(t *testing.T) {
	goBin := hasGoToolchain(t)
	dir := renderModule(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixmath", "accessors_test.go"), []byte(accessorsTest), 0o644))

	for _, tags := range []string{"", synth.CheckedTag} {
		args := []string{"test", "-count=1"}
		if tags != "" {
			args = append(args, "-tags", tags)
		}
		args = append(args, "./fixmath")
		cmd := exec.Command(goBin, args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod", "GOTOOLCHAIN=local")
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "go %s:\n%s", strings.Join(args, " "), out)
	}
}
