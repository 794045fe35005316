/*
Package utils provides the decorators that every settle application stacks
in front of its router: panic recovery, logging, prometheus metrics,
savepoints and action tagging.
*/
package utils
