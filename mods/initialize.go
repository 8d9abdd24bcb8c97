package mods

import (
	"os"
	"path/filepath"

	"minic/asm"
	"minic/common"

	"github.com/pelletier/go-toml"
	"tlog.app/go/errors"
)

// InitModule creates a new module with the given name at the given path.  The
// module's sources live in `src` and it gets two profiles: `debug` (the
// default, emitting every intermediate form) and `release` (assembly only).
func InitModule(name, path string, enableCaching bool) error {
	// convert the module directory to the path to module file
	modFilePath := filepath.Join(path, common.ModuleFileName)

	// check to see if a module already exists
	_, err := os.Stat(modFilePath)
	if err == nil {
		return errors.New("module file already exists")
	}

	if !os.IsNotExist(err) {
		return errors.Wrap(err, "module file error")
	}

	// validate module name
	if !IsValidIdentifier(name) {
		return errors.New("module name must be a valid identifier")
	}

	// create module
	mod := &tomlModule{
		Name:    name,
		Source:  "src",
		Version: common.MinicVersion,
		BuildProfiles: []*tomlProfile{
			newInitProfile(true),
			newInitProfile(false),
		},
	}

	if enableCaching {
		mod.CacheDirectory = ".minic"
		mod.ShouldCache = true
	}

	if err := os.MkdirAll(filepath.Join(path, mod.Source), 0755); err != nil {
		return errors.Wrap(err, "error creating source directory")
	}

	// encode and save module to file
	f, err := os.Create(modFilePath)
	if err != nil {
		return errors.Wrap(err, "error creating module file")
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(&tomlModuleFile{Module: mod}); err != nil {
		return errors.Wrap(err, "error encoding TOML")
	}

	return nil
}

// newInitProfile creates a new initial profile for a module
func newInitProfile(debug bool) *tomlProfile {
	if debug {
		return &tomlProfile{
			Name:        "debug",
			OutputPath:  filepath.Join("out", "debug"),
			Emit:        EmitNames(),
			Registers:   asm.MaxRegisters,
			DefaultProf: true,
		}
	}

	return &tomlProfile{
		Name:       "release",
		OutputPath: filepath.Join("out", "release"),
		Emit:       []string{"asm"},
		Registers:  asm.MaxRegisters,
	}
}
