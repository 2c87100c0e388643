package sigs

import (
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// RegisterCodec registers the messages of this package.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&BumpSequenceMsg{}, "sigs/bump_sequence", nil)
}

func init() {
	RegisterCodec(cdc)
}
