package escrowd

import (
	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/crypto"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/x/escrow"
	"github.com/settle-labs/settle/x/sigs"
	"github.com/settle-labs/settle/x/token"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

func init() {
	cdc.RegisterInterface((*settle.Msg)(nil), nil)
	token.RegisterCodec(cdc)
	escrow.RegisterCodec(cdc)
}

// Tx carries exactly one message together with the signatures
// authorizing it.
type Tx struct {
	Msg        settle.Msg          `json:"msg"`
	Signatures []sigs.StdSignature `json:"signatures"`
}

// make sure tx fulfills all interfaces
var _ settle.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx wraps the message in an unsigned transaction.
func NewTx(msg settle.Msg) *Tx {
	return &Tx{Msg: msg}
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (settle.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

func (tx *Tx) GetMsg() (settle.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "transaction message")
	}
	return tx.Msg, nil
}

func (tx *Tx) GetSignatures() []sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// the sign bytes should only come from the data itself, not
	// previous signatures
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

// Sign appends the signature of given key for the next sequence of that
// signer.
func (tx *Tx) Sign(signer *crypto.PrivateKey, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return errors.Wrap(err, "sign")
	}
	tx.Signatures = append(tx.Signatures, *sig)
	return nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
