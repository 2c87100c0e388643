package ctoken

import "github.com/iov-one/cescrow/errors"

// x/ctoken reserves 1030 ~ 1039.
var (
	ErrMintMismatch = errors.Register(1030, "mint mismatch")
	ErrSelfTransfer = errors.Register(1031, "source and destination are the same account")
)
