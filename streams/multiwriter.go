package streams

import (
	"io"

	"github.com/stephens2424/writerset"
)

// Multiwriter is a small fan-out io.Writer set: the synchronous
// adapter (§4.4) uses one when a caller wants both the decoded bytes
// and a side logging tap, without the decoder itself knowing how many
// consumers are listening.
type Multiwriter struct {
	set *writerset.Set
}

// NewMultiwriter returns an empty fan-out set.
func NewMultiwriter() *Multiwriter {
	return &Multiwriter{set: writerset.New()}
}

// Write fans p out to every writer currently registered via Add.
func (m *Multiwriter) Write(p []byte) (int, error) {
	return m.set.Write(p)
}

// Add registers w to receive every future Write, returning a function
// that removes it again.
func (m *Multiwriter) Add(w io.Writer) func() {
	return m.set.Add(w)
}
