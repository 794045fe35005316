package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches err to the named message or model field. Nested fields
// use dot notation, for example Offered.Ticker. A nil err gives nil.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: fieldName, desc: description}
}

// AppendField adds the field error, if any, to errorsOrNil.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (err *fieldError) Error() string {
	msg := fmt.Sprintf("field %q: ", err.field)
	if err.desc != "" {
		msg += err.desc + ": "
	}
	return msg + err.parent.Error()
}

func (err *fieldError) Cause() error {
	return err.parent
}

func (err *fieldError) Field() string {
	return err.field
}

type fielder interface {
	Field() string
}

// FieldErrors collects the errors attached to fieldName anywhere in err,
// including inside error groups.
func FieldErrors(err error, fieldName string) []error {
	if isNilErr(err) {
		return nil
	}
	switch e := err.(type) {
	case fielder:
		if e.Field() == fieldName {
			return []error{err}
		}
	case unpacker:
		var res []error
		for _, inner := range e.Unpack() {
			res = append(res, FieldErrors(inner, fieldName)...)
		}
		return res
	}
	if c, ok := err.(causer); ok {
		return FieldErrors(c.Cause(), fieldName)
	}
	return nil
}
