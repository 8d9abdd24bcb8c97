package mods

import (
	"os"
	"path/filepath"

	"minic/common"

	"github.com/pelletier/go-toml"
	"tlog.app/go/errors"
)

// FindModule searches `path` and then each of its parent directories for a
// module and returns the path to the root of the first module found
func FindModule(path string) (string, error) {
	abspath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	for {
		if checkPath(abspath) {
			return abspath, nil
		}

		parent := filepath.Dir(abspath)
		if parent == abspath {
			return "", errors.New("no module found at or above %s", path)
		}

		abspath = parent
	}
}

// checkPath checks to see if a potential module path is valid -- accepts the
// path to the module root not the path to the module file
func checkPath(abspath string) bool {
	// convert the abs path into a path to the module file
	mfPath := filepath.Join(abspath, common.ModuleFileName)

	// check to see if we can open the module file
	finfo, err := os.Stat(mfPath)
	if err != nil || finfo.IsDir() {
		return false
	}

	// only the module name is checked here so we don't do the full unmarshal.
	// A file that isn't a module is skipped rather than reported since the
	// user didn't explicitly specify that this path was a module.
	tree, err := toml.LoadFile(mfPath)
	if err != nil {
		return false
	}

	if tree.Has("module.name") {
		_, ok := tree.Get("module.name").(string)
		return ok
	}

	return false
}
