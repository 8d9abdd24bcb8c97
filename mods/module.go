package mods

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"tlog.app/go/errors"
)

// MinicModule represents a module: a directory of minic source files and the
// configuration used to build them.
type MinicModule struct {
	// Name is the name of the module
	Name string

	// ModuleRoot is the path to the root directory of the current module
	ModuleRoot string

	// SourceDirectory is the absolute path to the directory containing the
	// module's source files
	SourceDirectory string

	// ShouldCache indicates whether or not the parsing table should be cached
	// between builds of this module
	ShouldCache bool

	// CacheDirectory is the absolute path to the module's cache directory
	CacheDirectory string
}

// BuildProfile represents the profile that compiler will use to build -- it is
// returned from `LoadModule`.
type BuildProfile struct {
	// Name is the name of the profile
	Name string

	// OutputPath is the path to the directory the compiler writes its output
	// files to
	OutputPath string

	// Emit is the list of output kinds the compiler should produce.  These
	// are enumerated values (prefixed `Emit`) in order of definition.
	Emit []int

	// Registers is the number of registers available to the allocator
	Registers int
}

// ShouldEmit returns whether the profile produces the output kind `kind`
func (bp *BuildProfile) ShouldEmit(kind int) bool {
	return lo.Contains(bp.Emit, kind)
}

// Available Output Kinds
const (
	EmitTokens     = iota // Token dump
	EmitSymbols           // Symbol table dump
	EmitReductions        // Rules reduced by the parser
	EmitIR                // IR as generated
	EmitLIR               // Legalized IR
	EmitASM               // Assembly
	EmitLLVM              // LLVM IR
)

// emitNames maps TOML emit names to enumerated output kinds
var emitNames = map[string]int{
	"tokens":     EmitTokens,
	"symbols":    EmitSymbols,
	"reductions": EmitReductions,
	"ir":         EmitIR,
	"lir":        EmitLIR,
	"asm":        EmitASM,
	"llvm":       EmitLLVM,
}

// EmitNames returns the names of all the output kinds
func EmitNames() []string {
	names := lo.Keys(emitNames)
	sort.Slice(names, func(i, j int) bool {
		return emitNames[names[i]] < emitNames[names[j]]
	})

	return names
}

// ParseEmitKinds converts a list of emit names into a sorted list of output
// kinds with duplicates removed.  Names may also be comma separated.
func ParseEmitKinds(names []string) ([]int, error) {
	var kinds []int

	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			kind, ok := emitNames[part]
			if !ok {
				return nil, errors.New("%s is not a valid output kind", part)
			}

			kinds = append(kinds, kind)
		}
	}

	if len(kinds) == 0 {
		return nil, errors.New("at least one output kind must be specified")
	}

	kinds = lo.Uniq(kinds)
	sort.Ints(kinds)
	return kinds, nil
}

// IsValidIdentifier returns whether or not a given string would be a valid
// identifier (module name, profile name, etc.)
func IsValidIdentifier(idstr string) bool {
	if idstr == "" {
		return false
	}

	if idstr[0] == '_' || ('a' <= idstr[0] && idstr[0] <= 'z') || ('A' <= idstr[0] && idstr[0] <= 'Z') {
		for _, c := range idstr[1:] {
			if c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
				continue
			}

			return false
		}

		return true
	}

	return false
}
