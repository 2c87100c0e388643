/*
Package sigs provides the authentication middleware: it verifies the
ed25519 signatures on a transaction, maintains a sequence per signer for
replay protection and exposes the signers through an Authenticator.
*/
package sigs
