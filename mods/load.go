package mods

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"minic/asm"
	"minic/common"
	"minic/logging"

	"github.com/pelletier/go-toml"
	"tlog.app/go/errors"
)

// tomlModuleFile represents the module file as it is encoded in TOML
type tomlModuleFile struct {
	Module *tomlModule `toml:"module"`
}

// tomlModule represents a minic module as it is encoded in TOML
type tomlModule struct {
	Name           string         `toml:"name"`
	Source         string         `toml:"source"`
	Version        string         `toml:"minic-version"`
	ShouldCache    bool           `toml:"caching"`
	CacheDirectory string         `toml:"cache-directory,omitempty"`
	BuildProfiles  []*tomlProfile `toml:"profiles"`
}

// tomlProfile represents a profile as it encoded in TOML
type tomlProfile struct {
	Name        string   `toml:"name"`
	OutputPath  string   `toml:"output"`
	Emit        []string `toml:"emit"`
	Registers   int      `toml:"registers,omitempty"`
	DefaultProf bool     `toml:"default"` // in absence of a selected profile, choose this profile
}

// LoadModule loads and validates a module as well as determining the correct
// profile.  `path` is the path to the module directory.  `selectedProfile` can
// be empty if there is no profile selected.  This function returns the
// deserialized module and the selected profile.  All paths in the returned
// module and profile are absolute.
func LoadModule(path, selectedProfile string) (*MinicModule, *BuildProfile, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, err
	}

	// open file
	f, err := os.Open(filepath.Join(path, common.ModuleFileName))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	// unmarshal the contents
	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}

	tmf := &tomlModuleFile{}
	if err := toml.Unmarshal(buff, tmf); err != nil {
		return nil, nil, errors.Wrap(err, "module file")
	}

	if tmf.Module == nil {
		return nil, nil, errors.New("missing [module] table in module file at %s", path)
	}

	// minicMod is the final, extracted module that is returned
	minicMod := &MinicModule{
		// module root is the directory enclosing the module file
		ModuleRoot: path,
	}

	// ensure that the base module is valid
	if err := validateModule(minicMod, tmf.Module); err != nil {
		return nil, nil, err
	}

	// select and validate an appropriate build profile
	profile, err := selectProfile(tmf.Module, selectedProfile)
	if err != nil {
		return nil, nil, err
	}
	profile.OutputPath = resolvePath(path, profile.OutputPath)

	// move all the relevant TOML module attributes over to the minic module
	minicMod.Name = tmf.Module.Name
	minicMod.SourceDirectory = resolvePath(path, tmf.Module.Source)
	minicMod.ShouldCache = tmf.Module.ShouldCache
	if minicMod.ShouldCache {
		minicMod.CacheDirectory = resolvePath(path, tmf.Module.CacheDirectory)
	}

	return minicMod, profile, nil
}

// resolvePath makes a module-relative path absolute
func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(root, path)
}

// validateModule checks that the top level module contents are valid
func validateModule(mmod *MinicModule, mod *tomlModule) error {
	if mod.Name == "" {
		return errors.New("missing module name for module at %s", mmod.ModuleRoot)
	}

	if !IsValidIdentifier(mod.Name) {
		return errors.New("module name must be a valid identifier")
	}

	if mod.ShouldCache && mod.CacheDirectory == "" {
		return errors.New("a cache directory must be specified in module %s since caching is enabled", mod.Name)
	}

	if mod.Version != common.MinicVersion {
		logging.LogBuildWarning(
			"module",
			fmt.Sprintf("version of module `%s` (v%s) does not match current minic version (v%s)", mod.Name, mod.Version, common.MinicVersion),
		)
	}

	return nil
}

// selectProfile selects a build profile: the profile named `selectedProfile`
// if one is given, otherwise the default profile.  A module with only one
// profile uses it by default.
func selectProfile(mod *tomlModule, selectedProfile string) (*BuildProfile, error) {
	if len(mod.BuildProfiles) == 0 {
		return nil, errors.New("module %s must provide at least one build profile", mod.Name)
	}

	if selectedProfile != "" {
		for _, prof := range mod.BuildProfiles {
			if prof.Name == selectedProfile {
				convProf, err := convertProfile(prof)
				if err != nil {
					return nil, errors.Wrap(err, "module %s", mod.Name)
				}

				// found profile; exit
				return convProf, nil
			}
		}

		return nil, errors.New("module `%s` has no profile `%s`", mod.Name, selectedProfile)
	}

	var defaultProf *tomlProfile
	for _, prof := range mod.BuildProfiles {
		if prof.DefaultProf {
			if defaultProf != nil {
				logging.LogBuildWarning(
					"module",
					fmt.Sprintf("multiple default profiles for module `%s` detected; building with profile `%s`", mod.Name, defaultProf.Name),
				)
				break
			}

			defaultProf = prof
		}
	}

	if defaultProf == nil {
		if len(mod.BuildProfiles) > 1 {
			return nil, errors.New("module `%s` does not specify a default profile; `--profile` argument is required", mod.Name)
		}

		defaultProf = mod.BuildProfiles[0]
	}

	convProf, err := convertProfile(defaultProf)
	if err != nil {
		return nil, errors.Wrap(err, "module %s", mod.Name)
	}

	return convProf, nil
}

// convertProfile converts a TOML build profile into a `*BuildProfile`
func convertProfile(tprof *tomlProfile) (*BuildProfile, error) {
	if tprof.Name == "" {
		return nil, errors.New("profile must specify a name")
	}

	if tprof.OutputPath == "" {
		return nil, errors.New("profile %s must specify an output path", tprof.Name)
	}

	newProfile := &BuildProfile{
		Name:       tprof.Name,
		OutputPath: tprof.OutputPath,
		Registers:  tprof.Registers,
	}

	if len(tprof.Emit) == 0 {
		newProfile.Emit = []int{EmitASM}
	} else {
		emit, err := ParseEmitKinds(tprof.Emit)
		if err != nil {
			return nil, errors.Wrap(err, "profile %s", tprof.Name)
		}

		newProfile.Emit = emit
	}

	if newProfile.Registers == 0 {
		newProfile.Registers = asm.MaxRegisters
	} else if newProfile.Registers < 1 || newProfile.Registers > asm.MaxRegisters {
		return nil, errors.New("profile %s: register count must be between 1 and %d", tprof.Name, asm.MaxRegisters)
	}

	return newProfile, nil
}
