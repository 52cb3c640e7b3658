package keystore

import (
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/Mindburn-Labs/quill/pkg/keys"
)

// Low work factor to keep the suite fast; the factor is carried in the
// payload, so round-trips are unaffected.
const testLogN uint8 = 4

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	kp, err := keys.NewKeypair()
	require.NoError(t, err)
	sk := kp.PrivateKey()

	code, err := Encrypt(sk, "correct horse battery staple", testLogN, KeySecuritySecure)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "ncryptsec1"), "got %q", code)

	back, security, err := Decrypt(code, "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, sk.Hex(), back.Hex())
	assert.Equal(t, KeySecuritySecure, security)
}

func TestDecrypt_WrongPassword(t *testing.T) {
	kp, err := keys.NewKeypair()
	require.NoError(t, err)

	code, err := Encrypt(kp.PrivateKey(), "right", testLogN, KeySecurityUnknown)
	require.NoError(t, err)

	_, _, err = Decrypt(code, "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestDecrypt_TamperedPayload(t *testing.T) {
	kp, err := keys.NewKeypair()
	require.NoError(t, err)

	code, err := Encrypt(kp.PrivateKey(), "password", testLogN, KeySecurityInsecure)
	require.NoError(t, err)

	// Re-encode with one payload byte flipped. The checksum stays valid, so
	// only the AEAD can catch it.
	tampered, err := flipPayloadByte(code, payloadSize-1)
	require.NoError(t, err)

	_, _, err = Decrypt(tampered, "password")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestDecrypt_SecurityByteAuthenticated(t *testing.T) {
	kp, err := keys.NewKeypair()
	require.NoError(t, err)

	code, err := Encrypt(kp.PrivateKey(), "password", testLogN, KeySecurityInsecure)
	require.NoError(t, err)

	// Upgrading the security byte must break the associated data check.
	upgraded, err := flipPayloadByte(code, 2+saltSize+chacha20poly1305.NonceSizeX)
	require.NoError(t, err)

	_, _, err = Decrypt(upgraded, "password")
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestDecrypt_Malformed(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"not bech32", "ncryptsec1 nope"},
		{"wrong prefix", "npub180cvv07tjdrrgpa0j7j7tmnyl2yr6yr7l8j4s3evf6u64th6gkwsyjh6w6"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Decrypt(tc.input, "password")
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}

	t.Run("truncated payload", func(t *testing.T) {
		short := encodeRaw(t, []byte{version, 1, 2, 3})
		_, _, err := Decrypt(short, "password")
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("unsupported version", func(t *testing.T) {
		raw := make([]byte, payloadSize)
		raw[0] = 0x01
		_, _, err := Decrypt(encodeRaw(t, raw), "password")
		assert.ErrorIs(t, err, ErrMalformed)
	})
}

func TestEncrypt_PasswordNormalization(t *testing.T) {
	kp, err := keys.NewKeypair()
	require.NoError(t, err)

	// "é" as a precomposed code point and as "e" + combining acute; NFKC
	// makes them the same password.
	composed := "café"
	decomposed := "café"
	require.NotEqual(t, composed, decomposed)

	code, err := Encrypt(kp.PrivateKey(), composed, testLogN, KeySecurityUnknown)
	require.NoError(t, err)

	back, _, err := Decrypt(code, decomposed)
	require.NoError(t, err)
	assert.Equal(t, kp.PrivateKey().Hex(), back.Hex())
}

func TestEncrypt_DefaultsAndGuards(t *testing.T) {
	var zero keys.PrivateKey
	_, err := Encrypt(zero, "password", testLogN, KeySecurityUnknown)
	assert.ErrorIs(t, err, keys.ErrInvalidPrivateKey)

	// Distinct salts and nonces make ciphertexts differ run to run.
	kp, err := keys.NewKeypair()
	require.NoError(t, err)
	a, err := Encrypt(kp.PrivateKey(), "password", testLogN, KeySecurityUnknown)
	require.NoError(t, err)
	b, err := Encrypt(kp.PrivateKey(), "password", testLogN, KeySecurityUnknown)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestKeySecurity_RoundTrips(t *testing.T) {
	kp, err := keys.NewKeypair()
	require.NoError(t, err)

	for _, security := range []KeySecurity{KeySecurityInsecure, KeySecuritySecure, KeySecurityUnknown} {
		code, err := Encrypt(kp.PrivateKey(), "pw", testLogN, security)
		require.NoError(t, err)
		_, got, err := Decrypt(code, "pw")
		require.NoError(t, err)
		assert.Equal(t, security, got)
	}
}

// flipPayloadByte decodes code, XORs the payload byte at index and encodes
// the result with a fresh checksum.
func flipPayloadByte(code string, index int) (string, error) {
	hrp, data5, err := bech32.DecodeNoLimit(code)
	if err != nil {
		return "", err
	}
	payload, err := bech32.ConvertBits(data5, 5, 8, false)
	if err != nil {
		return "", err
	}
	payload[index] ^= 0x01
	converted, err := bech32.ConvertBits(payload[:payloadSize], 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, converted)
}

func encodeRaw(t *testing.T, payload []byte) string {
	t.Helper()
	converted, err := bech32.ConvertBits(payload, 8, 5, true)
	require.NoError(t, err)
	code, err := bech32.Encode(prefix, converted)
	require.NoError(t, err)
	return code
}
