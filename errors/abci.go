package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessABCICode declares an ABCI response use 0 to signal that the
	// processing was successful and no error is returned.
	SuccessABCICode uint32 = 0

	// Errors that do not carry an ABCI code are reported under the
	// internal code with a generic message.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the ABCI error information as consumed by the
// tendermint client. Returned code and log message should be used as an
// ABCI response.
//
// Errors without an ABCI code are considered internal. Unless running in
// debug mode their message is replaced with a generic "internal error" and
// panics are redacted the same way.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}

	code := abciCode(err)
	if debug {
		return code, fmt.Sprintf("%+v", err)
	}
	if code == internalABCICode || code == ErrPanic.code {
		return internalABCICode, internalABCILog
	}
	return code, err.Error()
}

// Redact replaces internal errors and panics with a generic error
// instance. This is a no-operation when running in debug mode.
func Redact(err error, debug bool) error {
	if debug || errIsNil(err) {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the ABCI code of the first error in the cause chain
// that provides one.
func abciCode(err error) uint32 {
	if errIsNil(err) {
		return SuccessABCICode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalABCICode
		}
	}
}
