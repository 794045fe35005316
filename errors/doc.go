/*
Package errors implements the error taxonomy of the settle ledger.

Every failure returned by a handler wraps one of the root errors declared in
this package (or registered by an extension using Register). The root error
decides the ABCI code a client receives, so clients can tell an authorization
failure from a missing escrow or from an insufficient balance without parsing
the log message.

Create errors at the point of failure with Wrap or Wrapf so that a stack trace
is attached. Compare errors using the root error:

	if errors.ErrNotFound.Is(err) {
		...
	}

Formatting with %+v prints the stack trace of the innermost wrap.
*/
package errors
