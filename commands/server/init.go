package server

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/settle-labs/settle/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagChainID = "chain_id"
	flagForce   = "f"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// GenesisPath is where the genesis file of a node is stored.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

type initArgs struct {
	chainID string
	force   bool
	rest    []string
}

func parseInitArgs(args []string) (initArgs, error) {
	var res initArgs
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.StringVar(&res.chainID, flagChainID, "", "chain id used when the genesis file is created (default random)")
	initFlags.BoolVar(&res.force, flagForce, false, "overwrite an existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return res, errors.Wrap(errors.ErrInput, err.Error())
	}
	res.rest = initFlags.Args()
	return res, nil
}

// InitCmd adds the app_state produced by gen to the genesis file in home.
// A genesis file created by tendermint is extended in place. When none
// exists a minimal one holding only the chain id is written.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	opts, err := parseInitArgs(args)
	if err != nil {
		return err
	}

	genFile := GenesisPath(home)
	doc, err := loadGenesisDoc(genFile)
	if err != nil {
		return err
	}
	if doc == nil {
		chainID := opts.chainID
		if chainID == "" {
			chainID = fmt.Sprintf("settle-%s", cmn.RandStr(6))
		}
		raw, err := json.Marshal(chainID)
		if err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		doc = GenesisDoc{"chain_id": raw}
		logger.Info("Creating genesis file", "path", genFile, "chain_id", chainID)
	}

	if state, ok := doc["app_state"]; ok && len(state) > 0 && string(state) != "null" && !opts.force {
		return errors.Wrapf(errors.ErrState, "app_state already set in %s", genFile)
	}

	appState, err := gen(opts.rest)
	if err != nil {
		return err
	}
	doc["app_state"] = appState
	if err := writeGenesisDoc(genFile, doc); err != nil {
		return err
	}
	logger.Info("Wrote app_state", "path", genFile)
	return nil
}

// loadGenesisDoc returns nil when the file does not exist.
func loadGenesisDoc(filename string) (GenesisDoc, error) {
	bz, err := ioutil.ReadFile(filename)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "genesis file: %s", err)
	}
	return doc, nil
}

func writeGenesisDoc(filename string, doc GenesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(filename, out, 0600); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
