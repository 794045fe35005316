package orm

import (
	"github.com/settle-labs/settle"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	settle.Persistent
	Validate() error
}
