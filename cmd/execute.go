package cmd

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"

	"minic/asm"
	"minic/build"
	"minic/common"
	"minic/logging"
	"minic/mods"

	"github.com/ComedicChimera/olive"
	"tlog.app/go/errors"
)

// Execute runs the main `minic` application
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("minic", "minic is a compiler for the minic language", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")
	cli.AddFlag("trace", "tr", "trace the decisions of the parser and the backend")

	buildCmd := cli.AddSubcommand("build", "compile a module", true)
	buildCmd.AddPrimaryArg("module-path", "the path to the module to build", true)
	buildCmd.AddStringArg("profile", "p", "the name of the profile to build", false)

	compileCmd := cli.AddSubcommand("compile", "compile a single source file", true)
	compileCmd.AddPrimaryArg("file-path", "the path to the source file", true)
	compileCmd.AddStringArg("output", "o", "the directory to write output files to", false)
	compileCmd.AddStringArg("emit", "e", "the comma separated output kinds to produce", false)
	compileCmd.AddStringArg("registers", "r", "the number of registers available to the allocator", false)

	modCmd := cli.AddSubcommand("mod", "manage modules", true)
	modInitCmd := modCmd.AddSubcommand("init", "initialize a module", true)
	modInitCmd.AddFlag("caching", "ch", "indicate whether the parsing table should be cached for this module")
	modInitCmd.AddPrimaryArg("module-path", "the path to the module directory", true)

	cli.AddSubcommand("version", "print the minic version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		os.Exit(1)
	}

	loglevel := result.Arguments["loglevel"].(string)
	trace := result.HasFlag("trace")

	// process the inputed command line
	ok := true
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		ok = execBuildCommand(subResult, loglevel, trace)
	case "compile":
		ok = execCompileCommand(subResult, loglevel, trace)
	case "mod":
		ok = execModCommand(subResult)
	case "version":
		logging.PrintInfoMessage("minic Version", common.MinicVersion)
	}

	if !ok {
		os.Exit(1)
	}
}

// initLogging initializes the logger for a compilation rooted at `buildPath`
func initLogging(buildPath, loglevel string, trace bool) {
	logging.Initialize(buildPath, loglevel)

	if trace {
		logging.EnableTrace()
	}
}

// stringArg returns the value of an optional string argument
func stringArg(result *olive.ArgParseResult, name string) (string, bool) {
	if argVal, ok := result.Arguments[name]; ok {
		return argVal.(string), true
	}

	return "", false
}

// execBuildCommand executes the build subcommand and handles all errors
func execBuildCommand(result *olive.ArgParseResult, loglevel string, trace bool) bool {
	// extract CLI data
	moduleRelPath, _ := result.PrimaryArg()

	modulePath, err := mods.FindModule(moduleRelPath)
	if err != nil {
		logging.PrintErrorMessage("Path Error", err)
		return false
	}

	selectedProfile, _ := stringArg(result, "profile")

	// initialize the logger before loading so module warnings are collected
	initLogging(modulePath, loglevel, trace)

	// attempt to load the module
	mod, buildProfile, err := mods.LoadModule(modulePath, selectedProfile)
	if err != nil {
		logging.PrintErrorMessage("Module Load Error", err)
		return false
	}

	// build the module
	c := build.NewCompiler(mod, buildProfile)
	return c.Compile()
}

// execCompileCommand executes the compile subcommand: the file is compiled on
// its own using a profile built from the command line arguments
func execCompileCommand(result *olive.ArgParseResult, loglevel string, trace bool) bool {
	fileRelPath, _ := result.PrimaryArg()

	filePath, err := filepath.Abs(fileRelPath)
	if err != nil {
		logging.PrintErrorMessage("Path Error", err)
		return false
	}

	profile, err := compileProfile(result, filepath.Dir(filePath))
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		return false
	}

	initLogging(filepath.Dir(filePath), loglevel, trace)
	logging.LogCompileHeader(filepath.Base(filePath), profile.Name)

	f, err := os.Open(filePath)
	if err != nil {
		logging.PrintErrorMessage("File Error", err)
		return false
	}
	defer f.Close()

	u, err := build.CompileSource(filePath, f, profile)
	if err == nil {
		err = u.WriteOutputs(profile)
	}

	if err != nil && !stderrors.Is(err, build.ErrAnalysisFailed) {
		logging.LogStdError("Compile", err)
	}

	logging.LogCompilationFinished()
	return err == nil && logging.ShouldProceed()
}

// compileProfile creates the build profile used by the compile subcommand.
// Output defaults to the directory of the source file and to assembly.
func compileProfile(result *olive.ArgParseResult, fileDir string) (*mods.BuildProfile, error) {
	profile := &mods.BuildProfile{
		Name:       "compile",
		OutputPath: fileDir,
		Emit:       []int{mods.EmitASM},
		Registers:  asm.MaxRegisters,
	}

	if output, ok := stringArg(result, "output"); ok {
		outputPath, err := filepath.Abs(output)
		if err != nil {
			return nil, err
		}

		profile.OutputPath = outputPath
	}

	if emit, ok := stringArg(result, "emit"); ok {
		kinds, err := mods.ParseEmitKinds([]string{emit})
		if err != nil {
			return nil, err
		}

		profile.Emit = kinds
	}

	if registers, ok := stringArg(result, "registers"); ok {
		n, err := strconv.Atoi(registers)
		if err != nil || n < 1 || n > asm.MaxRegisters {
			return nil, errors.New("register count must be an integer between 1 and %d", asm.MaxRegisters)
		}

		profile.Registers = n
	}

	return profile, nil
}

// execModCommand executes the `mod` subcommand and its subcommands.  It handles
// all errors related to this command
func execModCommand(result *olive.ArgParseResult) bool {
	subcmdName, subResult, _ := result.Subcommand()

	switch subcmdName {
	case "init":
		moduleRelPath, _ := subResult.PrimaryArg()

		modulePath, err := filepath.Abs(moduleRelPath)
		if err != nil {
			logging.PrintErrorMessage("Path Error", err)
			return false
		}

		if err := os.MkdirAll(modulePath, 0755); err != nil {
			logging.PrintErrorMessage("Module Init Error", err)
			return false
		}

		if err := mods.InitModule(filepath.Base(modulePath), modulePath, subResult.HasFlag("caching")); err != nil {
			logging.PrintErrorMessage("Module Init Error", err)
			return false
		}

		logging.PrintInfoMessage("Module Created", modulePath)
	}

	return true
}
