/*
Package token implements custody of fungible assets.

Balances live in holdings. A holding stores an amount of a single asset and
names the authority allowed to move funds out of it. The authority is
either a key holder or an address derived by a program, in which case only
that program can grant it.

Every owner has one associated holding per asset, at an address derived
from the owner and the ticker. Creating a holding or any other record
charges a reserve in the native asset. The reserve is kept by the reserve
pool and refunded when the record is closed, so the total supply of every
asset is conserved by all operations except minting at genesis.
*/
package token
