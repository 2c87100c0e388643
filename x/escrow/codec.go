package escrow

import (
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// RegisterCodec registers the messages of this package.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&InitializeMsg{}, "escrow/initialize", nil)
	c.RegisterConcrete(&ExchangeMsg{}, "escrow/exchange", nil)
	c.RegisterConcrete(&CancelMsg{}, "escrow/cancel", nil)
}

func init() {
	RegisterCodec(cdc)
}
