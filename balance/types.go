package balance

// Decryptable is an authenticated-encryption balance the owner decrypts locally.
type Decryptable struct {
	raw [DecryptableSize]byte
}

var _ Ciphertext = Decryptable{}

// DecodeDecryptable parses bz as a Decryptable ciphertext.
func DecodeDecryptable(bz []byte) (Decryptable, error) {
	var c Decryptable
	if err := checkWidth(KindDecryptable, bz); err != nil {
		return c, err
	}
	copy(c.raw[:], bz)
	return c, nil
}

// Kind returns KindDecryptable.
func (Decryptable) Kind() Kind {
	return KindDecryptable
}

// Bytes returns a copy of the raw ciphertext.
func (c Decryptable) Bytes() []byte {
	return append([]byte(nil), c.raw[:]...)
}

// IsZero returns true if all bytes are zero, which is never a valid
// ciphertext.
func (c Decryptable) IsZero() bool {
	return isZero(c.raw[:])
}

// Equals compares the raw bytes.
func (c Decryptable) Equals(o Decryptable) bool {
	return c.raw == o.raw
}

// MarshalAmino returns the raw bytes as the amino representation.
func (c Decryptable) MarshalAmino() ([]byte, error) {
	return c.Bytes(), nil
}

// UnmarshalAmino loads the raw bytes, enforcing the width.
func (c *Decryptable) UnmarshalAmino(bz []byte) error {
	v, err := DecodeDecryptable(bz)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MarshalJSON encodes the ciphertext as a hex string.
func (c Decryptable) MarshalJSON() ([]byte, error) {
	return marshalHex(c.raw[:])
}

// UnmarshalJSON decodes a hex string, enforcing the width.
func (c *Decryptable) UnmarshalJSON(raw []byte) error {
	bz, err := unmarshalHex(raw)
	if err != nil {
		return err
	}
	return c.UnmarshalAmino(bz)
}

// Encrypted is a twisted ElGamal ciphertext: a 32 byte commitment followed by a
// 32 byte decryption handle.
type Encrypted struct {
	raw [EncryptedSize]byte
}

var _ Ciphertext = Encrypted{}

// DecodeEncrypted parses bz as a Encrypted ciphertext.
func DecodeEncrypted(bz []byte) (Encrypted, error) {
	var c Encrypted
	if err := checkWidth(KindEncrypted, bz); err != nil {
		return c, err
	}
	copy(c.raw[:], bz)
	return c, nil
}

// Kind returns KindEncrypted.
func (Encrypted) Kind() Kind {
	return KindEncrypted
}

// Bytes returns a copy of the raw ciphertext.
func (c Encrypted) Bytes() []byte {
	return append([]byte(nil), c.raw[:]...)
}

// IsZero returns true if all bytes are zero, which is never a valid
// ciphertext.
func (c Encrypted) IsZero() bool {
	return isZero(c.raw[:])
}

// Equals compares the raw bytes.
func (c Encrypted) Equals(o Encrypted) bool {
	return c.raw == o.raw
}

// MarshalAmino returns the raw bytes as the amino representation.
func (c Encrypted) MarshalAmino() ([]byte, error) {
	return c.Bytes(), nil
}

// UnmarshalAmino loads the raw bytes, enforcing the width.
func (c *Encrypted) UnmarshalAmino(bz []byte) error {
	v, err := DecodeEncrypted(bz)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MarshalJSON encodes the ciphertext as a hex string.
func (c Encrypted) MarshalJSON() ([]byte, error) {
	return marshalHex(c.raw[:])
}

// UnmarshalJSON decodes a hex string, enforcing the width.
func (c *Encrypted) UnmarshalJSON(raw []byte) error {
	bz, err := unmarshalHex(raw)
	if err != nil {
		return err
	}
	return c.UnmarshalAmino(bz)
}

// TransferProof is the opaque zero-knowledge proof payload of a confidential
// transfer.
type TransferProof struct {
	raw [TransferProofSize]byte
}

var _ Ciphertext = TransferProof{}

// DecodeTransferProof parses bz as a TransferProof ciphertext.
func DecodeTransferProof(bz []byte) (TransferProof, error) {
	var c TransferProof
	if err := checkWidth(KindTransferProof, bz); err != nil {
		return c, err
	}
	copy(c.raw[:], bz)
	return c, nil
}

// Kind returns KindTransferProof.
func (TransferProof) Kind() Kind {
	return KindTransferProof
}

// Bytes returns a copy of the raw ciphertext.
func (c TransferProof) Bytes() []byte {
	return append([]byte(nil), c.raw[:]...)
}

// IsZero returns true if all bytes are zero, which is never a valid
// ciphertext.
func (c TransferProof) IsZero() bool {
	return isZero(c.raw[:])
}

// Equals compares the raw bytes.
func (c TransferProof) Equals(o TransferProof) bool {
	return c.raw == o.raw
}

// MarshalAmino returns the raw bytes as the amino representation.
func (c TransferProof) MarshalAmino() ([]byte, error) {
	return c.Bytes(), nil
}

// UnmarshalAmino loads the raw bytes, enforcing the width.
func (c *TransferProof) UnmarshalAmino(bz []byte) error {
	v, err := DecodeTransferProof(bz)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MarshalJSON encodes the ciphertext as a hex string.
func (c TransferProof) MarshalJSON() ([]byte, error) {
	return marshalHex(c.raw[:])
}

// UnmarshalJSON decodes a hex string, enforcing the width.
func (c *TransferProof) UnmarshalJSON(raw []byte) error {
	bz, err := unmarshalHex(raw)
	if err != nil {
		return err
	}
	return c.UnmarshalAmino(bz)
}
