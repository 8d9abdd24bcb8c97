package build

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"minic/asm"
	"minic/mods"

	"github.com/kr/pretty"
)

const example = `int a;
int b;
a = 3;
b = (a + 4) * 2;
return b - a;
`

func compile(t *testing.T, src string, registers int) (*Unit, error) {
	t.Helper()

	return CompileSource("example.mc", strings.NewReader(src), &mods.BuildProfile{Registers: registers})
}

func TestCompileSource(t *testing.T) {
	u, err := compile(t, example, asm.MaxRegisters)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		".text",
		"\tli t0,3\t# (MOV, a, 3)",
		"\taddi t1,t0,4\t# (ADD, $1, a, 4)",
		"\tli t2,2\t# (MOV, $4, 2)",
		"\tmul t3,t1,t2\t# (MUL, $2, $1, $4)",
		"\tmv t4,t3\t# (MOV, b, $2)",
		"\tsub t5,t4,t0\t# (SUB, $3, b, a)",
		"\tmv a0,t5\t# (RET, $3)",
	}

	if diff := pretty.Diff(u.Assembly.Lines, want); len(diff) > 0 {
		t.Errorf("emitted:\n%s", strings.Join(u.Assembly.Lines, "\n"))
	}

	if u.Name != "example" {
		t.Errorf("bad unit name %s", u.Name)
	}

	if u.Symbols.Repr() != "a\tint\nb\tint\n" {
		t.Errorf("bad symbols:\n%s", u.Symbols.Repr())
	}

	if u.IR.Len() != 6 || u.LIR.Len() != 7 {
		t.Errorf("expected 6 IR and 7 legalized instructions, got %d and %d", u.IR.Len(), u.LIR.Len())
	}
}

func TestCompileSourceErrors(t *testing.T) {
	for _, src := range []string{"int a", "a = 1;", "int a; a = 1 # 2;"} {
		if _, err := compile(t, src, asm.MaxRegisters); !stderrors.Is(err, ErrAnalysisFailed) {
			t.Errorf("%q: expected analysis failure, got %v", src, err)
		}
	}

	// every variable below is live until the return
	src := "int a; int b; a = 1; b = 2; return a + b;"
	if _, err := compile(t, src, 1); !stderrors.Is(err, asm.ErrOutOfRegisters) {
		t.Errorf("expected register exhaustion, got %v", err)
	}
}

func TestWriteOutputs(t *testing.T) {
	u, err := compile(t, example, asm.MaxRegisters)
	if err != nil {
		t.Fatal(err)
	}

	profile := &mods.BuildProfile{
		OutputPath: filepath.Join(t.TempDir(), "out"),
		Emit:       []int{mods.EmitTokens, mods.EmitSymbols, mods.EmitReductions, mods.EmitIR, mods.EmitLIR, mods.EmitASM, mods.EmitLLVM},
		Registers:  asm.MaxRegisters,
	}

	if err := u.WriteOutputs(profile); err != nil {
		t.Fatal(err)
	}

	read := func(kind int) string {
		buff, err := os.ReadFile(u.OutputPath(profile.OutputPath, kind))
		if err != nil {
			t.Fatal(err)
		}

		return string(buff)
	}

	if tokens := read(mods.EmitTokens); !strings.HasPrefix(tokens, "(int,)\n(IDENTIFIER,a)\n(;,)\n") || !strings.HasSuffix(tokens, "($,)\n") {
		t.Errorf("bad token dump:\n%s", tokens)
	}

	if symbols := read(mods.EmitSymbols); symbols != "a\tint\nb\tint\n" {
		t.Errorf("bad symbol dump:\n%s", symbols)
	}

	if reductions := read(mods.EmitReductions); !strings.HasPrefix(reductions, "decl_type -> 'int'\n") {
		t.Errorf("bad reductions dump:\n%s", reductions)
	}

	if irText := read(mods.EmitIR); !strings.HasPrefix(irText, "(MOV, a, 3)\n(ADD, $1, a, 4)\n(MUL, $2, $1, 2)\n") {
		t.Errorf("bad IR dump:\n%s", irText)
	}

	if lir := read(mods.EmitLIR); !strings.Contains(lir, "(MOV, $4, 2)\n(MUL, $2, $1, $4)\n") {
		t.Errorf("bad legalized IR dump:\n%s", lir)
	}

	if asmText := read(mods.EmitASM); !strings.HasPrefix(asmText, ".text\n\tli t0,3\t# (MOV, a, 3)\n") {
		t.Errorf("bad assembly:\n%s", asmText)
	}

	if llvm := read(mods.EmitLLVM); !strings.Contains(llvm, "define i32 @main()") {
		t.Errorf("bad LLVM IR:\n%s", llvm)
	}
}

func TestCompileModule(t *testing.T) {
	dir := t.TempDir()
	if err := mods.InitModule("calc", dir, true); err != nil {
		t.Fatal(err)
	}

	sources := map[string]string{
		"first.mc":  example,
		"second.mc": "return 1 + 2 * 3;",
		"notes.txt": "not a source file",
	}

	for name, src := range sources {
		if err := os.WriteFile(filepath.Join(dir, "src", name), []byte(src), 0644); err != nil {
			t.Fatal(err)
		}
	}

	mod, profile, err := mods.LoadModule(dir, "release")
	if err != nil {
		t.Fatal(err)
	}

	c := NewCompiler(mod, profile)
	if !c.Compile() {
		t.Fatal("compilation failed")
	}

	if len(c.Units()) != 2 || c.Units()[0].Name != "first" || c.Units()[1].Name != "second" {
		t.Fatalf("bad units: %v", len(c.Units()))
	}

	for _, name := range []string{"first.s", "second.s"} {
		if _, err := os.Stat(filepath.Join(dir, "out", "release", name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "out", "release", "first.ir")); err == nil {
		t.Error("release profile should only emit assembly")
	}
}

func TestCompileModuleErrors(t *testing.T) {
	dir := t.TempDir()
	if err := mods.InitModule("broken", dir, false); err != nil {
		t.Fatal(err)
	}

	mod, profile, err := mods.LoadModule(dir, "")
	if err != nil {
		t.Fatal(err)
	}

	// no source files
	if NewCompiler(mod, profile).Compile() {
		t.Error("expected module without sources to fail")
	}

	if err := os.WriteFile(filepath.Join(dir, "src", "bad.mc"), []byte("a = ;"), 0644); err != nil {
		t.Fatal(err)
	}

	if NewCompiler(mod, profile).Compile() {
		t.Error("expected module with syntax errors to fail")
	}
}
