package build

import (
	"os"
	"path/filepath"
	"strings"

	"minic/generate"
	"minic/mods"

	"tlog.app/go/errors"
)

// outputExtensions is the file extension of each output kind
var outputExtensions = map[int]string{
	mods.EmitTokens:     ".tokens",
	mods.EmitSymbols:    ".symbols",
	mods.EmitReductions: ".reductions",
	mods.EmitIR:         ".ir",
	mods.EmitLIR:        ".lir",
	mods.EmitASM:        ".s",
	mods.EmitLLVM:       ".ll",
}

// OutputPath returns the path of the file the unit writes output kind `kind`
// to within the directory `dir`
func (u *Unit) OutputPath(dir string, kind int) string {
	return filepath.Join(dir, u.Name+outputExtensions[kind])
}

// WriteOutputs writes every output kind selected by `profile` to the
// profile's output directory
func (u *Unit) WriteOutputs(profile *mods.BuildProfile) error {
	if err := os.MkdirAll(profile.OutputPath, 0755); err != nil {
		return errors.Wrap(err, "output directory")
	}

	for _, kind := range profile.Emit {
		path := u.OutputPath(profile.OutputPath, kind)

		var err error
		switch kind {
		case mods.EmitTokens:
			err = writeText(path, u.tokenDump())
		case mods.EmitSymbols:
			err = writeText(path, u.Symbols.Repr())
		case mods.EmitReductions:
			err = writeText(path, u.Reductions.Repr())
		case mods.EmitIR:
			err = writeText(path, u.IR.Repr())
		case mods.EmitLIR:
			err = writeText(path, u.LIR.Repr())
		case mods.EmitASM:
			err = u.Assembly.Dump(path)
		case mods.EmitLLVM:
			err = generate.Dump(u.LLVM, path)
		}

		if err != nil {
			return errors.Wrap(err, "writing %s", path)
		}
	}

	return nil
}

// tokenDump returns the token dump of the unit: one token per line
func (u *Unit) tokenDump() string {
	sb := strings.Builder{}

	for _, tok := range u.Tokens {
		sb.WriteString(tok.Repr())
		sb.WriteRune('\n')
	}

	return sb.String()
}

// writeText overwrites the file at `path` with `text`
func writeText(path, text string) error {
	return os.WriteFile(path, []byte(text), 0644)
}
