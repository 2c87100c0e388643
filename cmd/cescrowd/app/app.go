/*
Package app links together all the various components to construct the
cescrowd application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/app"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/orm"
	"github.com/iov-one/cescrow/store/iavl"
	"github.com/iov-one/cescrow/x"
	"github.com/iov-one/cescrow/x/ctoken"
	"github.com/iov-one/cescrow/x/escrow"
	"github.com/iov-one/cescrow/x/sigs"
	"github.com/iov-one/cescrow/x/utils"
	"github.com/iov-one/cescrow/x/zkproof"
	"github.com/prometheus/client_golang/prometheus"
)

// Name is returned by abci Info.
const Name = "cescrowd"

// Authenticator returns the typical authentication, just using public
// key signatures.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery.
func Chain(reg prometheus.Registerer) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewMetrics(reg),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment the nonce even if the
		// message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to the ledger and escrow handlers.
// The ledger controller is shared, the escrow moves tokens through it.
func Router(authFn x.Authenticator, verifier zkproof.Verifier) *app.Router {
	r := app.NewRouter()
	ledger := ctoken.NewController()
	sigs.RegisterRoutes(r, authFn)
	ctoken.RegisterRoutes(r, authFn, ledger)
	escrow.RegisterRoutes(r, authFn, ledger, verifier)
	return r
}

// QueryRouter returns a default query router, allowing access to
// "/escrows", "/ctoken/accounts", "/ctoken/mints", "/auth" and "/".
func QueryRouter() cescrow.QueryRouter {
	r := cescrow.NewQueryRouter()
	r.RegisterAll(
		escrow.RegisterQuery,
		ctoken.RegisterQuery,
		sigs.RegisterQuery,
		orm.RegisterRawQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator chain.
// This can be passed into BaseApp.
func Stack(verifier zkproof.Verifier, reg prometheus.Registerer) cescrow.Handler {
	authFn := Authenticator()
	return Chain(reg).WithHandler(Router(authFn, verifier))
}

// Initializers returns the genesis initializers of all extensions.
func Initializers() cescrow.Initializer {
	return app.ChainInitializers(
		&escrow.Initializer{},
		&ctoken.Initializer{},
	)
}

// Application constructs a basic ABCI application with the given
// arguments. If you are not sure what to use for the Handler, just use
// Stack().
func Application(name string, h cescrow.Handler,
	tx cescrow.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background()).
		WithInit(Initializers())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists the data
// to the named path. An empty path keeps the state in memory.
func CommitKVStore(dbPath string) (cescrow.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewCommitStore("", Name), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
