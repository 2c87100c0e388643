package escrow

import "github.com/iov-one/cescrow/errors"

// x/escrow reserves 1001 ~ 1009.
var (
	ErrInvalidTokenAccount = errors.Register(1001, "invalid token account")
	ErrInvalidInitializer  = errors.Register(1002, "invalid initializer")
	ErrInvalidMint         = errors.Register(1003, "invalid mint")
	ErrProofInvalid        = errors.Register(1004, "invalid transfer proof")
	ErrAuthorityMismatch   = errors.Register(1005, "authority mismatch")
	ErrInvalidAmount       = errors.Register(1006, "invalid amount")
)
