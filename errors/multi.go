package errors

import (
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no non-nil error is provided, nil is returned.
// If only one non-nil error is provided, it is returned unchanged.
func Append(errs ...error) error {
	var flat []error
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(*multiErr); ok {
			flat = append(flat, m.errs...)
			continue
		}
		flat = append(flat, e)
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return &multiErr{errs: flat}
	}
}

type unpacker interface {
	Unpack() []error
}

// multiErr is a collection of errors. The first error decides about the
// ABCI code of the whole group.
type multiErr struct {
	errs []error
}

func (m *multiErr) Error() string {
	msgs := make([]string, len(m.errs))
	for i, e := range m.errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unpack returns all errors of this group.
func (m *multiErr) Unpack() []error {
	return m.errs
}

// ABCICode returns the code of the first error in the group.
func (m *multiErr) ABCICode() uint32 {
	return abciCode(m.errs[0])
}
