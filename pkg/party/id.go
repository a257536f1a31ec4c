package party

import (
	"io"
)

// ID represents a unique identifier for a participant in the protocol.
//
// You should think of this as a string, and use it as a key in maps.
// IDs are used to index incoming messages, and are written to the session
// transcript, so every participant must agree on them.
type ID string

// WriteTo implements io.WriterTo interface.
func (id ID) WriteTo(w io.Writer) (int64, error) {
	if id == "" {
		return 0, io.ErrUnexpectedEOF
	}
	n, err := w.Write([]byte(id))
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (ID) Domain() string {
	return "ID"
}
