/*
Package app contains the glue to build an ABCI application: a message
Router, a chain of Decorators wrapping it, and StoreApp and BaseApp which
maintain the check and deliver caches over a committed store.
*/
package app
