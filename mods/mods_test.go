package mods

import (
	"os"
	"path/filepath"
	"testing"

	"minic/common"

	"github.com/kr/pretty"
)

func writeModFile(t *testing.T, dir, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, common.ModuleFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestInitAndLoadModule(t *testing.T) {
	dir := t.TempDir()

	if err := InitModule("calc", dir, true); err != nil {
		t.Fatal(err)
	}

	if finfo, err := os.Stat(filepath.Join(dir, "src")); err != nil || !finfo.IsDir() {
		t.Fatal("source directory was not created")
	}

	mod, prof, err := LoadModule(dir, "")
	if err != nil {
		t.Fatal(err)
	}

	if mod.Name != "calc" || mod.ModuleRoot != dir {
		t.Errorf("bad module: %# v", pretty.Formatter(mod))
	}

	if mod.SourceDirectory != filepath.Join(dir, "src") {
		t.Errorf("bad source directory %s", mod.SourceDirectory)
	}

	if !mod.ShouldCache || mod.CacheDirectory != filepath.Join(dir, ".minic") {
		t.Errorf("bad caching config: %v %s", mod.ShouldCache, mod.CacheDirectory)
	}

	want := &BuildProfile{
		Name:       "debug",
		OutputPath: filepath.Join(dir, "out", "debug"),
		Emit:       []int{EmitTokens, EmitSymbols, EmitReductions, EmitIR, EmitLIR, EmitASM, EmitLLVM},
		Registers:  7,
	}

	if diff := pretty.Diff(prof, want); len(diff) > 0 {
		t.Errorf("bad default profile: %v", diff)
	}

	_, release, err := LoadModule(dir, "release")
	if err != nil {
		t.Fatal(err)
	}

	if release.Name != "release" || !release.ShouldEmit(EmitASM) || release.ShouldEmit(EmitIR) {
		t.Errorf("bad release profile: %# v", pretty.Formatter(release))
	}

	if err := InitModule("calc", dir, false); err == nil {
		t.Error("expected reinitialization to fail")
	}
}

func TestInitModuleInvalidName(t *testing.T) {
	if err := InitModule("3calc", t.TempDir(), false); err == nil {
		t.Error("expected invalid module name to be rejected")
	}
}

func TestProfileSelection(t *testing.T) {
	dir := t.TempDir()
	writeModFile(t, dir, `
[module]
name = "m"
source = "."
minic-version = "0.1.0"
caching = false

[[module.profiles]]
name = "only"
output = "/tmp/out"
emit = ["ir", "asm,llvm", "ir"]
registers = 3
`)

	mod, prof, err := LoadModule(dir, "")
	if err != nil {
		t.Fatal(err)
	}

	if mod.SourceDirectory != dir || mod.CacheDirectory != "" {
		t.Errorf("bad module paths: %# v", pretty.Formatter(mod))
	}

	if diff := pretty.Diff(prof.Emit, []int{EmitIR, EmitASM, EmitLLVM}); len(diff) > 0 {
		t.Errorf("bad emit kinds: %v", diff)
	}

	if prof.Registers != 3 || prof.OutputPath != "/tmp/out" {
		t.Errorf("bad profile: %# v", pretty.Formatter(prof))
	}

	if _, _, err := LoadModule(dir, "missing"); err == nil {
		t.Error("expected missing profile to be rejected")
	}
}

func TestInvalidModules(t *testing.T) {
	modules := []string{
		`name = "m"`,
		`[module]
source = "src"`,
		`[module]
name = "m"
caching = true
[[module.profiles]]
name = "p"
output = "out"`,
		`[module]
name = "m"`,
		`[module]
name = "m"
[[module.profiles]]
name = "a"
output = "out"
[[module.profiles]]
name = "b"
output = "out"`,
		`[module]
name = "m"
[[module.profiles]]
name = "p"
output = "out"
emit = ["binary"]`,
		`[module]
name = "m"
[[module.profiles]]
name = "p"
output = "out"
registers = 8`,
		`[module]
name = "m"
[[module.profiles]]
name = "p"`,
	}

	for _, content := range modules {
		dir := t.TempDir()
		writeModFile(t, dir, content)

		if _, _, err := LoadModule(dir, ""); err == nil {
			t.Errorf("expected module to be rejected:\n%s", content)
		}
	}
}

func TestParseEmitKinds(t *testing.T) {
	kinds, err := ParseEmitKinds([]string{"llvm, asm", "tokens"})
	if err != nil {
		t.Fatal(err)
	}

	if diff := pretty.Diff(kinds, []int{EmitTokens, EmitASM, EmitLLVM}); len(diff) > 0 {
		t.Errorf("bad kinds: %v", diff)
	}

	if _, err := ParseEmitKinds([]string{""}); err == nil {
		t.Error("expected empty emit list to be rejected")
	}

	if diff := pretty.Diff(EmitNames(), []string{"tokens", "symbols", "reductions", "ir", "lir", "asm", "llvm"}); len(diff) > 0 {
		t.Errorf("bad emit names: %v", diff)
	}
}

func TestFindModule(t *testing.T) {
	dir := t.TempDir()
	if err := InitModule("found", dir, false); err != nil {
		t.Fatal(err)
	}

	nested := filepath.Join(dir, "src", "deeper")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	root, err := FindModule(nested)
	if err != nil {
		t.Fatal(err)
	}

	if root != dir {
		t.Errorf("found module at %s, want %s", root, dir)
	}
}
