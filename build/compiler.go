package build

import (
	"minic/logging"
	"minic/mods"
	"minic/syntax"
)

// Compiler is the data structure responsible for maintaining all high-level
// state of the minic compiler while it builds a module
type Compiler struct {
	// rootMod is the module being built
	rootMod *mods.MinicModule

	// buildProfile is the profile that is being used to build the module
	buildProfile *mods.BuildProfile

	// parsingTable is the shared parsing table used by all instances of the
	// minic LALR(1) parser
	parsingTable *syntax.ParsingTable

	// units are the source files of the module in order of file name
	units []*Unit
}

// NewCompiler creates a new compiler for a given module and build profile
func NewCompiler(rootMod *mods.MinicModule, buildProfile *mods.BuildProfile) *Compiler {
	return &Compiler{
		rootMod:      rootMod,
		buildProfile: buildProfile,
	}
}

// Units returns the compiled units of the module
func (c *Compiler) Units() []*Unit {
	return c.units
}

// Compile runs the full compilation algorithm on the module and build profile.
// It handles all compilation errors appropriately and returns whether or not
// compilation succeeded.
func (c *Compiler) Compile() bool {
	logging.LogCompileHeader(c.rootMod.Name, c.buildProfile.Name)

	ok := c.compile()

	logging.LogCompilationFinished()
	return ok
}

// compile runs each phase of compilation in order stopping at the first phase
// that fails
func (c *Compiler) compile() bool {
	logging.LogBeginPhase("Analyzing")
	if !c.Analyze() {
		logging.LogEndPhase(false)
		return false
	}
	logging.LogEndPhase(true)

	logging.LogBeginPhase("Legalizing")
	for _, u := range c.units {
		u.lower()
	}
	logging.LogEndPhase(true)

	logging.LogBeginPhase("Allocating")
	for _, u := range c.units {
		if err := u.allocate(c.buildProfile.Registers); err != nil {
			logging.LogEndPhase(false)
			logging.LogStdError("Backend", err)
			return false
		}
	}
	logging.LogEndPhase(true)

	logging.LogBeginPhase("Writing")
	for _, u := range c.units {
		if err := u.WriteOutputs(c.buildProfile); err != nil {
			logging.LogEndPhase(false)
			logging.LogStdError("Output", err)
			return false
		}
	}
	logging.LogEndPhase(true)

	return true
}

// Analyze runs just the analysis portion of the compilation algorithm: every
// source file of the module is scanned, parsed and checked.  It returns a
// boolean indicating whether or not analysis was successful.
func (c *Compiler) Analyze() bool {
	cacheDir := ""
	if c.rootMod.ShouldCache {
		cacheDir = c.rootMod.CacheDirectory
	}

	ptable, err := syntax.LoadMinicTable(cacheDir)
	if err != nil {
		logging.LogConfigError("Grammar", "error building parsing table: "+err.Error())
		return false
	}
	c.parsingTable = ptable

	return c.initUnits(c.rootMod.SourceDirectory)
}
