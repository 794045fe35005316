package escrowd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mr-tron/base58"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/coin"
	"github.com/settle-labs/settle/crypto"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// DefaultTicker is the native asset of a freshly initialized chain.
	DefaultTicker = "NAT"

	defaultReserve uint64 = 1
	genesisAmount  uint64 = 1000000000
)

// GenesisState is the app_state understood by the initializers.
type GenesisState struct {
	Conf     map[string]interface{} `json:"conf"`
	Assets   []token.Asset          `json:"assets"`
	Holdings []token.GenesisHolding `json:"holdings"`
}

// GenInitOptions produces the app_state of a chain with a single rich
// account, to use for dev mode. Arguments are the native ticker and the
// owner address. Without an address a key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := DefaultTicker
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", ticker)
		}
	}

	var owner settle.Address
	if len(args) > 1 {
		addr, err := settle.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		owner = addr
	} else {
		key := GenerateKey()
		owner = key.Address
		out, err := json.MarshalIndent(key, "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		fmt.Println(string(out))
	}

	state := GenesisState{
		Conf: map[string]interface{}{
			"token": token.Configuration{
				NativeTicker:   ticker,
				AccountReserve: defaultReserve,
			},
		},
		Assets: []token.Asset{
			{Ticker: ticker, Name: "native"},
		},
		Holdings: []token.GenesisHolding{
			{Owner: owner, Coins: []coin.Coin{coin.NewCoin(genesisAmount, ticker)}},
		},
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "escrowd.db")
	}
	return Application(Stack(prometheus.DefaultRegisterer), dbPath, logger, debug)
}

// Key is the printable form of a generated key.
type Key struct {
	Address settle.Address `json:"address"`
	Seed    string         `json:"seed"`
}

// GenerateKey creates a new ed25519 key. The seed is base58 encoded and
// can be loaded again with ParseKey.
func GenerateKey() *Key {
	priv := crypto.GenPrivateKey()
	return &Key{
		Address: priv.Address(),
		Seed:    base58.Encode(priv.Seed()),
	}
}

// ParseKey restores the private key from its base58 seed.
func ParseKey(seed string) (*crypto.PrivateKey, error) {
	raw, err := base58.Decode(seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "seed: %s", err)
	}
	return crypto.PrivateKeyFromRawSeed(raw)
}
