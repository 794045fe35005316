// Package settletest provides test doubles for the interfaces of the
// settle package: authenticators, transactions, messages, handlers and
// decorators, as well as deterministic keys.
package settletest
