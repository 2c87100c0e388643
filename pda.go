package cescrow

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/cescrow/errors"
)

const (
	// MaxSeeds is the maximum number of seeds a program address can be
	// derived from, bump included.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	// pdaExtension and pdaType are the sections of a program derived
	// condition.
	pdaExtension = "pda"
	pdaType      = "sha256"
)

var pdaMarker = []byte("ProgramDerivedAddress")

// CreateProgramAddress derives a condition that is controlled by the
// program identified by given address. The digest of the seeds is
// rejected when it is a valid ed25519 point, so that no private key can
// ever sign for the derived condition.
//
// The function is pure, the same input always yields the same result.
func CreateProgramAddress(seeds [][]byte, program Address) (Condition, error) {
	if err := validateSeeds(seeds, program); err != nil {
		return nil, err
	}
	digest := programDigest(seeds, program)
	if isOnCurve(digest) {
		return nil, errors.ErrInput.New("derived address on curve")
	}
	return NewCondition(pdaExtension, pdaType, digest), nil
}

// FindProgramAddress searches for the first bump seed, starting with 255
// and going down, for which CreateProgramAddress succeeds when the bump is
// appended to the seeds. It returns the derived condition and the bump.
func FindProgramAddress(seeds [][]byte, program Address) (Condition, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	withBump[len(seeds)] = []byte{0}
	if err := validateSeeds(withBump, program); err != nil {
		return nil, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		digest := programDigest(withBump, program)
		if !isOnCurve(digest) {
			return NewCondition(pdaExtension, pdaType, digest), uint8(bump), nil
		}
	}
	return nil, 0, errors.ErrState.New("no viable bump seed")
}

// IsProgramAddress returns true if given condition was created by the
// program address derivation.
func IsProgramAddress(c Condition) bool {
	ext, typ, _, err := c.Parse()
	return err == nil && ext == pdaExtension && typ == pdaType
}

func validateSeeds(seeds [][]byte, program Address) error {
	if len(seeds) > MaxSeeds {
		return errors.ErrInput.Newf("too many seeds: %d", len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.ErrInput.Newf("seed %d too long", i)
		}
	}
	if err := program.Validate(); err != nil {
		return errors.Wrap(err, "program")
	}
	return nil
}

func programDigest(seeds [][]byte, program Address) []byte {
	h := sha256.New()
	for _, s := range seeds {
		_, _ = h.Write(s)
	}
	_, _ = h.Write(program)
	_, _ = h.Write(pdaMarker)
	return h.Sum(nil)
}

func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
