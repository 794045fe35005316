/*
Package escrow implements a trustless swap of two assets between two
parties.

The initializer deposits the offered amount into a vault holding and names
the taker together with the amount of the requested asset it accepts in
return. The taker settles the swap with a single exchange transaction, or
the initializer cancels it and takes the deposit back.

Both the escrow record and its vault live at addresses derived from the
initializer (see the pda package), so an initializer can have only one
pending swap. The vault is controlled by the record address, which no
private key can sign for. Only this package can grant that authority and it
does so only while settling or cancelling.

A swap that was settled or cancelled leaves no record behind. Exchange and
cancel exclude each other because both require the record to exist.
*/
package escrow
