package sigs

import (
	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/crypto"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is the greatest sequence a javascript client can
// represent without losing precision (2^53 - 1).
const maxSequenceValue = (1 << 53) - 1

// UserData is the replay protection state of a single signer.
type UserData struct {
	PublicKey crypto.PublicKey `json:"public_key"`
	Sequence  int64            `json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

// Validate ensures the sequence is in range and the key is present.
func (u *UserData) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "PublicKey", u.PublicKey.Validate())
	if u.Sequence < 0 || u.Sequence > maxSequenceValue {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	}
	return errs
}

func (u *UserData) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, u)
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData by the signer address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName),
	}
}

// GetOrCreate returns the stored user of the key, or a new one starting
// at sequence zero. A new user is not saved.
func (b Bucket) GetOrCreate(db settle.ReadOnlyKVStore, pubkey crypto.PublicKey) (*UserData, error) {
	var user UserData
	switch err := b.One(db, pubkey.Address(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{PublicKey: pubkey}, nil
	default:
		return nil, err
	}
}

// Save stores the user under its address.
func (b Bucket) Save(db settle.KVStore, user *UserData) error {
	return b.Put(db, user.PublicKey.Address(), user)
}

// RegisterQuery will register this bucket as "/auth"
func RegisterQuery(qr settle.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// NextNonce returns the sequence value that must be used when signing the
// next transaction by given signer. Counting starts with zero.
func NextNonce(db settle.ReadOnlyKVStore, signer settle.Address) (int64, error) {
	var user UserData
	switch err := NewBucket().One(db, signer, &user); {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "bucket")
	}
}
