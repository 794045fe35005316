/*
Package settle defines the interfaces shared by every part of the escrow
ledger: storage, transactions, messages, handlers and decorators. It also
contains helpers to work with the request context and to translate handler
results into ABCI responses.

Extensions (the x/ packages) are built only on these interfaces, so the same
escrow logic runs against an in-memory store in tests and against the
versioned iavl store in the node.
*/
package settle
