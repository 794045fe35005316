/*
Package sigs provides basic authentication middleware to verify the
signatures on the transaction, and maintain nonces for replay protection.

Every account that ever signed a transaction has a UserData entry holding
its public key and the sequence expected on its next signature.
*/
package sigs
