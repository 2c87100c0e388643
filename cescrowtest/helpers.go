/*
Package cescrowtest provides mocks and helpers shared by the tests of all
packages.
*/
package cescrowtest

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/iov-one/cescrow"
)

// NewCondition returns a random condition, unique for every call.
func NewCondition() cescrow.Condition {
	data := make([]byte, 16)
	if _, err := rand.Read(data); err != nil {
		panic(err)
	}
	return cescrow.NewCondition("test", "random", data)
}

// NewAddress returns the address of a new random condition.
func NewAddress() cescrow.Address {
	return NewCondition().Address()
}

// SequenceID returns the 8 byte big endian encoding of given value, as
// used by orm sequences.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
