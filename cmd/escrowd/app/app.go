/*
Package escrowd links together all the various components
to construct the escrowd app.
*/
package escrowd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/app"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/store/iavl"
	"github.com/settle-labs/settle/x"
	"github.com/settle-labs/settle/x/escrow"
	"github.com/settle-labs/settle/x/sigs"
	"github.com/settle-labs/settle/x/token"
	"github.com/settle-labs/settle/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is reported by the ABCI Info call.
const Name = "escrowd"

// Authenticator returns the authentication used by the token controller.
// Escrow grants the state address while it moves funds out of a vault.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, escrow.Authenticate{})
}

// Chain returns a chain of decorators, to handle recovery, logging,
// metrics, authentication and atomicity.
func Chain(metrics *utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		metrics,
		sigs.NewDecorator(),
		// on DeliverTx, a failed message leaves no trace but the
		// incremented signer sequence
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to the token and escrow handlers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	control := token.NewController(authFn)
	token.RegisterRoutes(r, authFn, control)
	escrow.RegisterRoutes(r, authFn, control)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/auth", "/holdings", "/assets" and "/escrows"
func QueryRouter() settle.QueryRouter {
	r := settle.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		token.RegisterQuery,
		escrow.RegisterQuery,
	)
	return r
}

// Stack wires up the router with the decorator chain. Metrics are
// registered with reg. This can be passed into BaseApp.
func Stack(reg prometheus.Registerer) settle.Handler {
	authFn := Authenticator()
	var metrics *utils.Metrics
	if reg != nil {
		metrics = utils.NewMetrics(reg)
	}
	return Chain(metrics).WithHandler(Router(authFn))
}

// Initializers loads the genesis app_state.
func Initializers() settle.Initializer {
	return app.ChainInitializers(token.Initializer{})
}

// Application constructs an ABCI application persisting its state to
// dbPath. An empty path keeps everything in memory.
func Application(h settle.Handler, dbPath string, logger log.Logger, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(Name, kv, QueryRouter(), context.Background())
	store.WithInit(Initializers()).WithLogger(logger)
	return app.NewBaseApp(store, TxDecoder, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (settle.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
