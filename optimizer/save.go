package optimizer

import (
	"io"

	"github.com/tasforge/tasforge/script"
)

// Save serializes the finalized script, prefix plus edited body, to its
// text form. Serialization is read-only: a failure never leaves the
// session modified.
func (e *Editor) Save(w io.Writer) error {
	full := &script.Script{Lines: make([]script.Line, 0, len(e.prefix.Lines)+len(e.body.Lines))}
	full.Lines = append(full.Lines, e.prefix.Lines...)
	full.Lines = append(full.Lines, e.body.Lines...)
	return full.Write(w)
}
