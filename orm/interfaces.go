/*
Package orm provides an easy to use db wrapper.

State space is broken into prefixed sections called buckets.

  * Each bucket contains only one type of object.
  * It has a primary index, and may possess secondary indexes (1:1 or 1:N).
  * Easy queries for one and iteration.

Extensions should use ModelBucket, which hides the Object wrapping and
works directly with models.
*/
package orm

import (
	"github.com/iov-one/cescrow"
)

// Object is what is stored in the bucket. Key is joined with the prefix to
// set the full key, Value is the data stored.
type Object interface {
	Keyed
	Cloneable
	// Validate returns error if the object is not in a valid state to
	// save to the db (eg. field missing, out of range, ...)
	Validate() error
	Value() Model
}

// Keyed is anything that can identify itself.
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable will create a new object that can be loaded into.
type Cloneable interface {
	Clone() Object
}

// Model is implemented by any entity that can be stored in a bucket.
type Model interface {
	cescrow.Persistent
	Validate() error
	Copy() Model
}
