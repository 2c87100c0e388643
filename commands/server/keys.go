package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/iov-one/cescrow"
	"github.com/iov-one/cescrow/errors"
	"github.com/iov-one/cescrow/x/sigs"
	"github.com/spf13/cobra"
	"github.com/stellar/go/exp/crypto/derivation"
	"golang.org/x/crypto/ed25519"
)

const (
	flagSeed = "seed"
	flagPath = "path"

	// DefaultDerivationPath is the SLIP-10 path used for signing keys.
	DefaultDerivationPath = "m/44'/234'/0'"
)

// KeyInfo is the printable form of a derived signing key.
type KeyInfo struct {
	Address cescrow.Address `json:"address"`
	Bech32  string          `json:"bech32"`
	Pubkey  string          `json:"pub_key"`
	Secret  string          `json:"secret"`
	Path    string          `json:"path"`
}

// KeysCmd derives an ed25519 signing key from a hex seed. A random seed
// is generated when none is given.
func KeysCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Derive a signing key and print its address",
	}
	seed := cmd.Flags().String(flagSeed, "", "hex encoded seed, random if empty")
	path := cmd.Flags().String(flagPath, DefaultDerivationPath, "SLIP-10 derivation path")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		raw := *seed
		if raw == "" {
			buf := make([]byte, 64)
			if _, err := rand.Read(buf); err != nil {
				return errors.Wrap(errors.ErrInput, err.Error())
			}
			raw = hex.EncodeToString(buf)
			fmt.Fprintf(out, "seed: %s\n", raw)
		}
		key, err := DeriveKey(raw, *path)
		if err != nil {
			return err
		}
		info, err := NewKeyInfo(key, *path)
		if err != nil {
			return err
		}
		enc, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		_, err = fmt.Fprintln(out, string(enc))
		return err
	}
	return cmd
}

// DeriveKey derives the private key at given path from a hex encoded
// seed. An empty path uses the seed directly as the ed25519 seed.
func DeriveKey(hexSeed, path string) (ed25519.PrivateKey, error) {
	seed, err := hex.DecodeString(hexSeed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "seed: %s", err)
	}
	if path == "" {
		if len(seed) != ed25519.SeedSize {
			return nil, errors.Wrapf(errors.ErrInput, "seed of %d bytes", len(seed))
		}
		return ed25519.NewKeyFromSeed(seed), nil
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derivation path %q: %s", path, err)
	}
	return ed25519.NewKeyFromSeed(k.Key), nil
}

// NewKeyInfo describes the signer behind given key.
func NewKeyInfo(key ed25519.PrivateKey, path string) (*KeyInfo, error) {
	pub := key.Public().(ed25519.PublicKey)
	addr := sigs.KeyCondition(pub).Address()
	b32, err := addr.Bech32String()
	if err != nil {
		return nil, err
	}
	return &KeyInfo{
		Address: addr,
		Bech32:  b32,
		Pubkey:  hex.EncodeToString(pub),
		Secret:  hex.EncodeToString(key),
		Path:    path,
	}, nil
}
