package ctoken

import (
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// RegisterCodec registers the messages of this package.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&CreateAccountMsg{}, "ctoken/create_account", nil)
	c.RegisterConcrete(&ApplyPendingMsg{}, "ctoken/apply_pending", nil)
}

func init() {
	RegisterCodec(cdc)
}
