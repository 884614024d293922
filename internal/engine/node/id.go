package node

import (
	"strconv"
	"sync/atomic"
)

// ID identifies a node. IDs are allocated from a process-wide counter and
// never reused.
type ID uint64

var idCounter atomic.Uint64

func nextID() ID {
	return ID(idCounter.Add(1))
}

// String returns the decimal form of the id.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}
