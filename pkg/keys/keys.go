// Package keys implements the secp256k1 key and signature primitives used to
// author and verify Quill events: 32-byte x-only public keys, 32-byte private
// scalars and 64-byte BIP-340 Schnorr signatures.
//
// Private key material never appears in formatted output. PrivateKey redacts
// itself through String, GoString and slog; raw bytes are only reachable via
// the explicit Bytes and Hex accessors.
package keys

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	// ErrInvalidPrivateKey reports private key material that is malformed or
	// outside the valid secp256k1 scalar range.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrInvalidPublicKey reports public key material of the wrong shape.
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrInvalidSignature reports signature material of the wrong shape.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrSign reports a failure to produce a signature.
	ErrSign = errors.New("signing failed")
)

// secp256k1 group order, big-endian. Private scalars must be in [1, order).
var curveOrder = [32]byte{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe,
	0xba, 0xae, 0xdc, 0xe6, 0xaf, 0x48, 0xa0, 0x3b,
	0xbf, 0xd2, 0x5e, 0x8c, 0xd0, 0x36, 0x41, 0x41,
}

// PublicKey is a 32-byte x-only secp256k1 public key.
type PublicKey [32]byte

// Hex returns the lowercase hex form used on the wire.
func (pk PublicKey) Hex() string {
	return hex.EncodeToString(pk[:])
}

func (pk PublicKey) String() string {
	return pk.Hex()
}

// ParsePublicKey decodes a 64-character lowercase hex public key.
func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey
	if err := decodeExactHex(pk[:], s); err != nil {
		return PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return pk, nil
}

// PublicKeyFromBytes copies a raw 32-byte x-only public key.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != len(pk) {
		return PublicKey{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPublicKey, len(pk), len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

// Signature is a 64-byte BIP-340 Schnorr signature.
type Signature [64]byte

// Hex returns the lowercase hex form used on the wire.
func (sig Signature) Hex() string {
	return hex.EncodeToString(sig[:])
}

func (sig Signature) String() string {
	return sig.Hex()
}

// ParseSignature decodes a 128-character lowercase hex signature.
func ParseSignature(s string) (Signature, error) {
	var sig Signature
	if err := decodeExactHex(sig[:], s); err != nil {
		return Signature{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return sig, nil
}

// SignatureFromBytes copies a raw 64-byte signature.
func SignatureFromBytes(b []byte) (Signature, error) {
	var sig Signature
	if len(b) != len(sig) {
		return Signature{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, len(sig), len(b))
	}
	copy(sig[:], b)
	return sig, nil
}

// PrivateKey is a 32-byte secp256k1 scalar. The zero value is not a usable
// key; construct one via ParsePrivateKey, PrivateKeyFromBytes or NewKeypair.
type PrivateKey struct {
	d [32]byte
}

// ParsePrivateKey decodes a 64-character lowercase hex private key and
// checks that it is a valid scalar.
func ParsePrivateKey(s string) (PrivateKey, error) {
	var sk PrivateKey
	if err := decodeExactHex(sk.d[:], s); err != nil {
		return PrivateKey{}, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	if err := validateScalar(sk.d); err != nil {
		return PrivateKey{}, err
	}
	return sk, nil
}

// PrivateKeyFromBytes copies a raw 32-byte scalar and checks its range.
func PrivateKeyFromBytes(b []byte) (PrivateKey, error) {
	var sk PrivateKey
	if len(b) != len(sk.d) {
		return PrivateKey{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPrivateKey, len(sk.d), len(b))
	}
	copy(sk.d[:], b)
	if err := validateScalar(sk.d); err != nil {
		return PrivateKey{}, err
	}
	return sk, nil
}

// Bytes returns a copy of the raw scalar. Callers own the copy.
func (sk PrivateKey) Bytes() []byte {
	b := sk.d
	return b[:]
}

// Hex returns the lowercase hex form of the scalar. Use only for explicit
// export paths; formatted output goes through String, which redacts.
func (sk PrivateKey) Hex() string {
	return hex.EncodeToString(sk.d[:])
}

// IsZero reports whether the key is the unusable zero value.
func (sk PrivateKey) IsZero() bool {
	return sk.d == [32]byte{}
}

func (sk PrivateKey) String() string {
	return "PrivateKey(redacted)"
}

// GoString keeps %#v output redacted.
func (sk PrivateKey) GoString() string {
	return sk.String()
}

// LogValue keeps slog output redacted.
func (sk PrivateKey) LogValue() slog.Value {
	return slog.StringValue("redacted")
}

func validateScalar(d [32]byte) error {
	if d == [32]byte{} {
		return fmt.Errorf("%w: zero scalar", ErrInvalidPrivateKey)
	}
	if bytes.Compare(d[:], curveOrder[:]) >= 0 {
		return fmt.Errorf("%w: scalar outside group order", ErrInvalidPrivateKey)
	}
	return nil
}

// decodeExactHex fills dst from lowercase hex of exactly the right length.
func decodeExactHex(dst []byte, s string) error {
	if len(s) != hex.EncodedLen(len(dst)) {
		return fmt.Errorf("expected %d hex characters, got %d", hex.EncodedLen(len(dst)), len(s))
	}
	if strings.ToLower(s) != s {
		return errors.New("hex must be lowercase")
	}
	_, err := hex.Decode(dst, []byte(s))
	return err
}
