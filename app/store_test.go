package app

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/cescrowtest"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/orm"
	"github.com/iov-one/cescrow/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

// pathDecoder uses the raw transaction bytes as the message path.
func pathDecoder(raw []byte) (cescrow.Tx, error) {
	if string(raw) == "panic" {
		panic("cannot decode")
	}
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "empty tx")
	}
	return &cescrowtest.Tx{Msg: &cescrowtest.Msg{RoutePath: string(raw)}}, nil
}

func newTestApp(t *testing.T, commit cescrow.CommitKVStore, h cescrow.Handler) BaseApp {
	t.Helper()
	qr := cescrow.NewQueryRouter()
	orm.RegisterRawQuery(qr)
	s := NewStoreApp("cescrow-test", commit, qr, context.Background()).
		WithInit(dummyInit{})
	return NewBaseApp(s, pathDecoder, h, false)
}

func TestBaseAppLifecycle(t *testing.T) {
	commit := iavl.NewCommitStore("", "test")
	defer commit.Close()

	writer := &cescrowtest.Handler{
		Write: &cescrow.Model{Key: []byte("k"), Value: []byte("v")},
	}
	r := NewRouter()
	r.Handle(&cescrowtest.Msg{RoutePath: "write"}, writer)
	r.Handle(&cescrowtest.Msg{RoutePath: "fail"}, &cescrowtest.Handler{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrUnauthorized,
	})

	app := newTestApp(t, commit, r)
	assert.Equal(t, "", app.GetChainID())

	app.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain-1",
		AppStateBytes: []byte(`{"dummy": "secret"}`),
	})
	assert.Equal(t, "test-chain-1", app.GetChainID())
	assert.Panics(t, func() {
		app.InitChain(abci.RequestInitChain{
			ChainId:       "test-chain-2",
			AppStateBytes: []byte(`{}`),
		})
	})

	now := time.Now()
	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, Time: now}})
	height, _ := cescrow.GetHeight(app.BlockContext())
	assert.Equal(t, int64(1), height)
	blockTime, ok := cescrow.BlockTime(app.BlockContext())
	require.True(t, ok)
	assert.True(t, now.Equal(blockTime))
	assert.Equal(t, "test-chain-1", cescrow.GetChainID(app.BlockContext()))

	chk := app.CheckTx([]byte("write"))
	assert.Equal(t, uint32(0), chk.Code, chk.Log)
	dres := app.DeliverTx([]byte("write"))
	assert.Equal(t, uint32(0), dres.Code, dres.Log)
	assert.Equal(t, 1, writer.DeliverCallCount())

	dres = app.DeliverTx([]byte("fail"))
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), dres.Code)
	dres = app.DeliverTx([]byte("missing"))
	assert.Equal(t, errors.ErrUnknownMsg.ABCICode(), dres.Code)
	dres = app.DeliverTx(nil)
	assert.Equal(t, errors.ErrInput.ABCICode(), dres.Code)
	chk = app.CheckTx([]byte("panic"))
	assert.NotEqual(t, uint32(0), chk.Code)

	// Nothing is visible to queries before the block is committed.
	q := app.Query(abci.RequestQuery{Path: "/", Data: []byte("k")})
	require.Equal(t, uint32(0), q.Code, q.Log)
	models := queryModels(t, q)
	assert.Empty(t, models)

	app.EndBlock(abci.RequestEndBlock{Height: 1})
	cres := app.Commit()
	assert.NotEmpty(t, cres.Data)

	info := app.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, cres.Data, info.LastBlockAppHash)
	assert.Equal(t, "cescrow-test", info.Data)

	q = app.Query(abci.RequestQuery{Path: "/", Data: []byte("k")})
	require.Equal(t, uint32(0), q.Code, q.Log)
	assert.Equal(t, int64(1), q.Height)
	models = queryModels(t, q)
	require.Len(t, models, 1)
	assert.Equal(t, []byte("v"), models[0].Value)

	q = app.Query(abci.RequestQuery{Path: "/?prefix", Data: []byte("dum")})
	require.Equal(t, uint32(0), q.Code, q.Log)
	models = queryModels(t, q)
	require.Len(t, models, 1)
	assert.Equal(t, []byte("secret"), models[0].Value)

	q = app.Query(abci.RequestQuery{Path: "/nothing", Data: []byte("k")})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), q.Code)
	q = app.Query(abci.RequestQuery{Path: "/", Data: []byte("k"), Height: 7})
	assert.Equal(t, errors.ErrInput.ABCICode(), q.Code)

	// A restarted application recovers the chain id and height.
	restarted := newTestApp(t, commit, r)
	assert.Equal(t, "test-chain-1", restarted.GetChainID())
	height, _ = cescrow.GetHeight(restarted.BlockContext())
	assert.Equal(t, int64(1), height)
}

func TestInitChainErrors(t *testing.T) {
	cases := map[string]abci.RequestInitChain{
		"missing app state": {ChainId: "test-chain-1"},
		"invalid json":      {ChainId: "test-chain-1", AppStateBytes: []byte(`{`)},
		"invalid chain id":  {ChainId: "bad", AppStateBytes: []byte(`{}`)},
		"failing init":      {ChainId: "test-chain-1", AppStateBytes: []byte(`{"dummy": 1}`)},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			app := newTestApp(t, iavl.NewCommitStore("", "test"), NewRouter())
			assert.Panics(t, func() { app.InitChain(req) })
		})
	}
}

func TestSplitPath(t *testing.T) {
	cases := map[string][2]string{
		"/":                 {"/", ""},
		"/escrows?prefix":   {"/escrows", "prefix"},
		"/escrows/deposit?": {"/escrows/deposit", ""},
		"/a?b?c":            {"/a", "b?c"},
	}
	for in, want := range cases {
		path, mod := splitPath(in)
		assert.Equal(t, want[0], path, in)
		assert.Equal(t, want[1], mod, in)
	}
}

func queryModels(t *testing.T, q abci.ResponseQuery) []cescrow.Model {
	t.Helper()
	var keys, values ResultSet
	require.NoError(t, keys.Unmarshal(q.Key))
	require.NoError(t, values.Unmarshal(q.Value))
	models, err := JoinResults(&keys, &values)
	require.NoError(t, err)
	return models
}
