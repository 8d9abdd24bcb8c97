package asm

import (
	"bufio"
	"io"
	"os"
)

// Assembly is the emitted assembly text: an ordered list of lines starting
// with the `.text` directive.
type Assembly struct {
	Lines []string
}

// NewAssembly creates a new assembly holding only the `.text` directive.
func NewAssembly() *Assembly {
	return &Assembly{Lines: []string{".text"}}
}

// Add appends a line.
func (a *Assembly) Add(line string) {
	a.Lines = append(a.Lines, line)
}

// WriteTo writes every line followed by a newline to `w`.
func (a *Assembly) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)

	var n int64
	for _, line := range a.Lines {
		written, err := bw.WriteString(line + "\n")
		n += int64(written)

		if err != nil {
			return n, err
		}
	}

	return n, bw.Flush()
}

// Dump writes the assembly to the file at `path`, replacing its contents.
func (a *Assembly) Dump(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = a.WriteTo(f)
	return err
}
