package build

import (
	"io"
	"path/filepath"
	"strings"

	"minic/asm"
	"minic/generate"
	"minic/ir"
	"minic/logging"
	"minic/lower"
	"minic/mods"
	"minic/sem"
	"minic/syntax"
	"minic/walk"

	llir "github.com/llir/llvm/ir"
	"tlog.app/go/errors"
)

// ErrAnalysisFailed is returned when a source file has compile errors.  The
// errors themselves have already been logged.
var ErrAnalysisFailed = errors.New("analysis failed")

// Unit is a single source file and everything the compiler produces from it
type Unit struct {
	// Name is the name of the file without its extension: all output files
	// are named after it
	Name string

	// Path is the path to the source file
	Path string

	lctx *logging.LogContext

	Tokens     []*syntax.Token
	Symbols    *sem.SymbolTable
	Reductions *walk.ReductionRecorder

	// IR is the program as generated from the source
	IR *ir.Program

	// LIR is the legalized program
	LIR *ir.Program

	Assembly *asm.Assembly
	LLVM     *llir.Module
}

// newUnit creates a new unit for the source file at `path`
func newUnit(path string) *Unit {
	return &Unit{
		Name:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:    path,
		lctx:    &logging.LogContext{FilePath: path},
		Symbols: sem.NewSymbolTable(),
	}
}

// analyze scans and parses the source read by `sc`, checking it and
// generating its IR.  It returns false if the source has any errors.
func (u *Unit) analyze(ptable *syntax.ParsingTable, sc *syntax.Scanner) bool {
	tokens, ok := syntax.Tokenize(sc)
	if !ok {
		return false
	}
	u.Tokens = tokens

	sa := walk.NewSemanticAnalyzer(u.Symbols, u.lctx)
	irg := walk.NewIRGenerator(u.lctx)
	u.Reductions = &walk.ReductionRecorder{}

	p := syntax.NewParser(ptable, syntax.NewTokenList(tokens), u.lctx)
	p.RegisterObserver(sa)
	p.RegisterObserver(irg)
	p.RegisterObserver(u.Reductions)

	if !p.Parse() || sa.ErrorCount() > 0 || irg.ErrorCount() > 0 {
		return false
	}

	u.IR = irg.Program()
	return true
}

// lower legalizes the unit's IR and generates its LLVM module
func (u *Unit) lower() {
	u.LIR = lower.Legalize(u.IR)
	u.LLVM = generate.NewGenerator(u.Name).Generate(u.IR)
}

// allocate allocates registers for the legalized IR and emits its assembly
func (u *Unit) allocate(registers int) error {
	assembly, err := asm.NewGenerator(registers).Generate(u.LIR)
	if err != nil {
		return errors.Wrap(err, "%s", u.Path)
	}

	u.Assembly = assembly
	return nil
}

// CompileSource compiles the source read from `src` in memory.  `path` is
// used to name the unit and to display errors.  Compile errors are logged and
// reported as `ErrAnalysisFailed`; backend errors are returned.
func CompileSource(path string, src io.Reader, profile *mods.BuildProfile) (*Unit, error) {
	ptable, err := syntax.LoadMinicTable("")
	if err != nil {
		return nil, errors.Wrap(err, "parsing table")
	}

	u := newUnit(path)
	if !u.analyze(ptable, syntax.NewScannerFromReader(src, u.lctx)) {
		return nil, ErrAnalysisFailed
	}

	u.lower()

	if err := u.allocate(profile.Registers); err != nil {
		return nil, err
	}

	return u, nil
}
