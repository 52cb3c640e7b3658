// Package keystore implements password-based private key encryption in the
// ncryptsec format: the password is NFKC-normalized, a symmetric key is
// derived with scrypt (r=8, p=1) and the private key is sealed with
// XChaCha20-Poly1305. The key security byte rides along as associated data,
// so it is tamper-evident but readable without the password's key.
package keystore

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/text/unicode/norm"

	"github.com/Mindburn-Labs/quill/pkg/keys"
	"github.com/Mindburn-Labs/quill/pkg/observability"
)

const (
	prefix  = "ncryptsec"
	version = 0x02

	// DefaultLogN is the scrypt work factor exponent used when none is
	// given: 2^16 iterations.
	DefaultLogN uint8 = 16

	saltSize    = 16
	payloadSize = 2 + saltSize + chacha20poly1305.NonceSizeX + 1 + 32 + chacha20poly1305.Overhead
)

var (
	// ErrMalformed reports input that is not an ncryptsec payload.
	ErrMalformed = errors.New("malformed ncryptsec payload")

	// ErrDecrypt reports a payload that does not open, usually a wrong
	// password or tampered ciphertext.
	ErrDecrypt = errors.New("decryption failed")
)

// KeySecurity records how the key has been handled, as defined by the
// format. It is carried in the clear and authenticated.
type KeySecurity byte

const (
	// KeySecurityInsecure marks a key known to have been handled insecurely.
	KeySecurityInsecure KeySecurity = 0x00
	// KeySecuritySecure marks a key not known to have been handled insecurely.
	KeySecuritySecure KeySecurity = 0x01
	// KeySecurityUnknown marks a key whose handling is not tracked.
	KeySecurityUnknown KeySecurity = 0x02
)

// Encrypt seals a private key under a password and returns the ncryptsec
// string. A zero logN selects DefaultLogN. The password may be any Unicode
// string; equivalent normalization forms decrypt each other's output.
func Encrypt(sk keys.PrivateKey, password string, logN uint8, security KeySecurity) (code string, err error) {
	done := observability.Track("keystore.encrypt")
	defer func() { done(err) }()

	if sk.IsZero() {
		return "", fmt.Errorf("%w: zero private key", keys.ErrInvalidPrivateKey)
	}
	if logN == 0 {
		logN = DefaultLogN
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("keystore: reading salt: %w", err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("keystore: reading nonce: %w", err)
	}

	aead, err := deriveAEAD(password, salt, logN)
	if err != nil {
		return "", err
	}

	payload := make([]byte, 0, payloadSize)
	payload = append(payload, version, logN)
	payload = append(payload, salt...)
	payload = append(payload, nonce...)
	payload = append(payload, byte(security))
	payload = aead.Seal(payload, nonce, sk.Bytes(), []byte{byte(security)})

	converted, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("keystore: %w", err)
	}
	return bech32.Encode(prefix, converted)
}

// Decrypt opens an ncryptsec string with a password, returning the private
// key and its recorded security level. Wrong passwords and tampered
// payloads fail with ErrDecrypt.
func Decrypt(code, password string) (sk keys.PrivateKey, security KeySecurity, err error) {
	done := observability.Track("keystore.decrypt")
	defer func() { done(err) }()

	hrp, data5, err := bech32.DecodeNoLimit(code)
	if err != nil {
		return keys.PrivateKey{}, 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if hrp != prefix {
		return keys.PrivateKey{}, 0, fmt.Errorf("%w: prefix %q", ErrMalformed, hrp)
	}
	payload, err := bech32.ConvertBits(data5, 5, 8, false)
	if err != nil {
		return keys.PrivateKey{}, 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(payload) != payloadSize {
		return keys.PrivateKey{}, 0, fmt.Errorf("%w: %d byte payload", ErrMalformed, len(payload))
	}
	if payload[0] != version {
		return keys.PrivateKey{}, 0, fmt.Errorf("%w: unsupported version 0x%02x", ErrMalformed, payload[0])
	}

	logN := payload[1]
	salt := payload[2 : 2+saltSize]
	nonce := payload[2+saltSize : 2+saltSize+chacha20poly1305.NonceSizeX]
	ksb := payload[2+saltSize+chacha20poly1305.NonceSizeX]
	box := payload[2+saltSize+chacha20poly1305.NonceSizeX+1:]

	aead, err := deriveAEAD(password, salt, logN)
	if err != nil {
		return keys.PrivateKey{}, 0, err
	}
	plain, err := aead.Open(nil, nonce, box, []byte{ksb})
	if err != nil {
		return keys.PrivateKey{}, 0, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	sk, err = keys.PrivateKeyFromBytes(plain)
	if err != nil {
		return keys.PrivateKey{}, 0, err
	}
	return sk, KeySecurity(ksb), nil
}

func deriveAEAD(password string, salt []byte, logN uint8) (cipher.AEAD, error) {
	normalized := norm.NFKC.Bytes([]byte(password))
	key, err := scrypt.Key(normalized, salt, 1<<logN, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("keystore: deriving key: %w", err)
	}
	return chacha20poly1305.NewX(key)
}
