/*
Package escrow implements an atomic swap of confidential balances.

An initializer offers the whole available balance of one of its token
accounts (the deposit account) in exchange for an encrypted amount of
another asset. On initialize, the authority over the deposit account is
delegated to an address derived from the program identity, so that
nobody, the initializer included, can withdraw from it while the offer
is open.

A taker settles the offer with exchange: after its transfer proof is
verified, the deposit balance moves to the taker and the expected amount
moves from the taker to the initializer, then the authority returns to
the initializer. The initializer can instead cancel the offer, which
only returns the authority.

Every transition is executed inside a single cache wrap of the store. It
is written when all steps succeed and discarded otherwise, so no partial
swap is ever observable.
*/
package escrow
