package cescrow

import (
	"reflect"
	"regexp"

	"github.com/iov-one/cescrow/errors"
)

// Msg is message for the blockchain to take an action (make a state
// transition). It is just the request, and must be validated by the
// Handlers. All authentication information is in the wrapping Tx.
type Msg interface {
	Persistent

	// Path returns the message path. This is used by the Router to
	// locate the proper Handler. Msg should be created alongside the
	// Handler that corresponds to them.
	//
	// Must be alphanumeric [0-9A-Za-z_\-/]+
	Path() string

	// Validate performs a sanity checks on this message. It returns an
	// error if at least one test does not pass and message is
	// considered invalid.
	Validate() error
}

// Marshaller is anything that can be represented in binary.
//
// Marshal may validate the data before serializing it and unless you
// previously validated the struct, errors should be expected.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal.
//
// This is separated from Marshaller, as this almost always requires a
// pointer, and functions that only need to marshal bytes can use the
// Marshaller interface to access non-pointers.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx represent the data sent from the user to the chain. It includes the
// actual message, along with information needed to authenticate the
// sender (cryptographic signatures).
//
// Each application defines its own tx type, which embeds all the
// decorators it wishes to use.
type Tx interface {
	Persistent

	// GetMsg returns the action we wish to communicate.
	GetMsg() (Msg, error)
}

// TxDecoder can parse bytes into a Tx.
type TxDecoder func(txBytes []byte) (Tx, error)

// IsValidPath reports whether given message path is well formed.
var IsValidPath = regexp.MustCompile(`^[0-9A-Za-z_\-/]+$`).MatchString

// GetPath returns the path of the message, or (missing) if no message.
func GetPath(tx Tx) string {
	if tx == nil {
		return "(missing)"
	}
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg extracts the message represented by given transaction into given
// destination. Before returning, the message is validated.
//
// Destination must be a pointer to the same type as the message held by
// the transaction.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.ErrMsg.New("no message")
	}

	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.ErrHuman.Newf("destination must be a non nil pointer, got %T", destination)
	}
	src := reflect.ValueOf(msg)
	if src.Type() != dst.Type() {
		return errors.ErrType.Newf("want %T message, got %T", destination, msg)
	}
	dst.Elem().Set(src.Elem())

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}
