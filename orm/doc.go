/*
Package orm provides an easy to use db wrapper.

State space is broken into prefixed sections called buckets. Each bucket
contains only one type of model, stored under "<bucket name>:<key>". A
bucket can be registered with a QueryRouter so that its content is
available to clients via ABCI queries.
*/
package orm
