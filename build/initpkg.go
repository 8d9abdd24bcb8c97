package build

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"minic/common"
	"minic/logging"
	"minic/syntax"
)

// initUnits loads and analyzes all the minic files in the source directory
// concurrently.  The units that analyze successfully are stored in order of
// file name.  It returns a boolean flag indicating success or failure.
func (c *Compiler) initUnits(abspath string) bool {
	// validate source path
	finfo, err := os.Stat(abspath)
	if err != nil {
		logging.LogConfigError("Module", fmt.Sprintf("unable to load sources at %s: %s", abspath, err.Error()))
		return false
	}

	if !finfo.IsDir() {
		logging.LogConfigError("Module", "the source path of a module must be directory not a file")
		return false
	}

	finfos, err := ioutil.ReadDir(abspath)
	if err != nil {
		logging.LogConfigError("Module", fmt.Sprintf("error walking directory %s: %s", abspath, err.Error()))
		return false
	}

	uchan := make(chan *Unit)
	ucount := 0
	for _, finfo := range finfos {
		// we only want to compile minic files (not directories or other files)
		if !finfo.IsDir() && filepath.Ext(finfo.Name()) == common.SrcFileExtension {
			go c.initUnit(uchan, filepath.Join(abspath, finfo.Name()))
			ucount++
		}
	}

	if ucount == 0 {
		logging.LogConfigError("Module", "unable to build a module that contains no minic source files")
		return false
	}

	for i := 0; i < ucount; i++ {
		if u := <-uchan; u != nil {
			c.units = append(c.units, u)
		}
	}

	sort.Slice(c.units, func(i, j int) bool {
		return c.units[i].Name < c.units[j].Name
	})

	return len(c.units) == ucount
}

// initUnit attempts to load and analyze a file concurrently.  It takes in a
// channel to write to if the file is analyzed successfully as well as a path to
// the file.  Note that if the file fails to analyze, an appropriate error will
// be logged and `nil` will be written to the channel.
func (c *Compiler) initUnit(uchan chan *Unit, fpath string) {
	u := newUnit(fpath)

	// create the scanner for the file
	if sc, ok := syntax.NewScanner(fpath, u.lctx); ok {
		defer sc.Close()

		if u.analyze(c.parsingTable, sc) {
			uchan <- u
			return
		}
	}

	// if we reach this point, we know initialization failed so we just write
	// `nil` to the channel
	uchan <- nil
}
