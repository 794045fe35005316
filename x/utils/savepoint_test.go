package utils

import (
	"context"
	"testing"

	"github.com/settle-labs/settle"
	"github.com/settle-labs/settle/errors"
	"github.com/settle-labs/settle/settletest"
	"github.com/settle-labs/settle/store"
)

func TestSavepoint(t *testing.T) {
	// always written before calling the decorator
	ok, ov := []byte("demo"), []byte("data")
	// written by the handler
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}

	cases := map[string]struct {
		save    Savepoint
		handler settle.Handler
		check   bool
		wantErr *errors.Error
		written [][]byte
		missing [][]byte
	}{
		"savepoint disabled keeps partial writes": {
			save:    NewSavepoint(),
			handler: settletest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrAmount},
			check:   true,
			wantErr: errors.ErrAmount,
			written: [][]byte{ok, nk},
		},
		"check savepoint rolls back": {
			save:    NewSavepoint().OnCheck(),
			handler: settletest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrAmount},
			check:   true,
			wantErr: errors.ErrAmount,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"deliver savepoint rolls back": {
			save:    NewSavepoint().OnDeliver(),
			handler: settletest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrAmount},
			wantErr: errors.ErrAmount,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"both activations are kept": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			handler: settletest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrAmount},
			wantErr: errors.ErrAmount,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"check savepoint does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: settletest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrAmount},
			wantErr: errors.ErrAmount,
			written: [][]byte{ok, nk},
		},
		"success is written": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: settletest.WriteHandler{Key: nk, Value: nv},
			written: [][]byte{ok, nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			if err := kv.Set(ok, ov); err != nil {
				t.Fatalf("set: %s", err)
			}

			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, kv, nil, tc.handler)
			} else {
				_, err = tc.save.Deliver(ctx, kv, nil, tc.handler)
			}
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}

			for _, k := range tc.written {
				if has, _ := kv.Has(k); !has {
					t.Errorf("key %x not found", k)
				}
			}
			for _, k := range tc.missing {
				if has, _ := kv.Has(k); has {
					t.Errorf("key %x must not be present", k)
				}
			}
		})
	}
}
