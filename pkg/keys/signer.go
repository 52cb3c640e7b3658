package keys

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// Signer signs 32-byte digests on behalf of a single key. Keypair is the
// in-process implementation; remote or hardware-backed signers satisfy the
// same contract.
type Signer interface {
	Sign(digest [32]byte) (Signature, error)
	PublicKey() PublicKey
}

// Keypair holds a private scalar together with its derived x-only public key.
type Keypair struct {
	sk PrivateKey
	pk PublicKey
}

var _ Signer = (*Keypair)(nil)

// NewKeypair generates a fresh random keypair.
func NewKeypair() (*Keypair, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("key generation failed: %w", err)
	}
	sk, err := PrivateKeyFromBytes(priv.Serialize())
	if err != nil {
		return nil, err
	}
	return &Keypair{sk: sk, pk: derivePublicKey(sk)}, nil
}

// KeypairFromPrivateKey derives the public key for an existing scalar.
func KeypairFromPrivateKey(sk PrivateKey) (*Keypair, error) {
	if err := validateScalar(sk.d); err != nil {
		return nil, err
	}
	return &Keypair{sk: sk, pk: derivePublicKey(sk)}, nil
}

// KeypairFromHex parses a lowercase hex private key and derives its keypair.
func KeypairFromHex(s string) (*Keypair, error) {
	sk, err := ParsePrivateKey(s)
	if err != nil {
		return nil, err
	}
	return KeypairFromPrivateKey(sk)
}

// PublicKey returns the derived x-only public key.
func (kp *Keypair) PublicKey() PublicKey {
	return kp.pk
}

// PrivateKey returns the private scalar.
func (kp *Keypair) PrivateKey() PrivateKey {
	return kp.sk
}

// Sign produces a BIP-340 Schnorr signature over a 32-byte digest.
func (kp *Keypair) Sign(digest [32]byte) (Signature, error) {
	return Sign(kp.sk, digest)
}

// Sign produces a BIP-340 Schnorr signature over a 32-byte digest with the
// given private key.
func Sign(sk PrivateKey, digest [32]byte) (Signature, error) {
	if err := validateScalar(sk.d); err != nil {
		return Signature{}, err
	}
	priv, _ := btcec.PrivKeyFromBytes(sk.d[:])
	sig, err := schnorr.Sign(priv, digest[:])
	if err != nil {
		return Signature{}, fmt.Errorf("%w: %v", ErrSign, err)
	}
	return SignatureFromBytes(sig.Serialize())
}

// Verify reports whether sig is a valid BIP-340 signature over digest by pk.
// Malformed keys or signatures verify as false rather than erroring.
func Verify(pk PublicKey, digest [32]byte, sig Signature) bool {
	pub, err := schnorr.ParsePubKey(pk[:])
	if err != nil {
		return false
	}
	parsed, err := schnorr.ParseSignature(sig[:])
	if err != nil {
		return false
	}
	return parsed.Verify(digest[:], pub)
}

func derivePublicKey(sk PrivateKey) PublicKey {
	_, pub := btcec.PrivKeyFromBytes(sk.d[:])
	var pk PublicKey
	copy(pk[:], schnorr.SerializePubKey(pub))
	return pk
}
