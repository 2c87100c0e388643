package app

import (
	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/x/ctoken"
	"github.com/iov-one/cescrow/x/escrow"
	"github.com/iov-one/cescrow/x/sigs"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// RegisterCodec registers every message this application routes.
func RegisterCodec(c *amino.Codec) {
	c.RegisterInterface((*cescrow.Msg)(nil), nil)
	sigs.RegisterCodec(c)
	ctoken.RegisterCodec(c)
	escrow.RegisterCodec(c)
}

func init() {
	RegisterCodec(cdc)
}
