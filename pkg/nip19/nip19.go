// Package nip19 encodes and decodes bech32 shareable identifiers: bare keys
// and event ids (npub, nsec, note) and TLV-composed pointers carrying relay
// hints (nevent, nprofile, naddr).
package nip19

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/Mindburn-Labs/quill/pkg/event"
	"github.com/Mindburn-Labs/quill/pkg/keys"
	"github.com/Mindburn-Labs/quill/pkg/observability"
)

const (
	prefixPublicKey  = "npub"
	prefixPrivateKey = "nsec"
	prefixNote       = "note"
	prefixEvent      = "nevent"
	prefixProfile    = "nprofile"
	prefixEntity     = "naddr"
)

var (
	// ErrEncode reports a payload that cannot be represented, such as a TLV
	// value over 255 bytes.
	ErrEncode = errors.New("cannot encode identifier")

	// ErrMalformed reports an identifier that does not decode: bad bech32,
	// truncated TLV or a missing required record.
	ErrMalformed = errors.New("malformed identifier")

	// ErrBadURL reports a relay hint that is not a parseable URL with a host.
	ErrBadURL = errors.New("bad relay url")

	// ErrInvalidScheme reports a relay hint whose scheme is not ws or wss.
	ErrInvalidScheme = errors.New("invalid relay url scheme")
)

// EncodePublicKey renders a bare npub identifier.
func EncodePublicKey(pk keys.PublicKey) (string, error) {
	return encode(prefixPublicKey, pk[:])
}

// EncodePrivateKey renders a bare nsec identifier. Handle the result like
// the key itself.
func EncodePrivateKey(sk keys.PrivateKey) (string, error) {
	return encode(prefixPrivateKey, sk.Bytes())
}

// EncodeNote renders a bare note identifier for an event id.
func EncodeNote(id event.ID) (string, error) {
	return encode(prefixNote, id[:])
}

// Decode parses any identifier this package encodes. The returned value is
// keys.PublicKey for npub, keys.PrivateKey for nsec, event.ID for note,
// EventPointer for nevent, ProfilePointer for nprofile and EntityPointer
// for naddr.
func Decode(s string) (prefix string, value any, err error) {
	done := observability.Track("nip19.decode")
	defer func() { done(err) }()

	hrp, data5, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	data, err := bech32.ConvertBits(data5, 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var decoded any
	switch hrp {
	case prefixPublicKey:
		decoded, err = exact32(data, keys.PublicKeyFromBytes)
	case prefixPrivateKey:
		decoded, err = exact32(data, keys.PrivateKeyFromBytes)
	case prefixNote:
		decoded, err = exact32(data, event.IDFromBytes)
	case prefixEvent:
		decoded, err = decodeEventPointer(data)
	case prefixProfile:
		decoded, err = decodeProfilePointer(data)
	case prefixEntity:
		decoded, err = decodeEntityPointer(data)
	default:
		return hrp, nil, fmt.Errorf("%w: unknown prefix %q", ErrMalformed, hrp)
	}
	if err != nil {
		return hrp, nil, err
	}
	return hrp, decoded, nil
}

func exact32[T any](data []byte, from func([]byte) (T, error)) (T, error) {
	var zero T
	if len(data) < 32 {
		return zero, fmt.Errorf("%w: expected 32 byte payload, got %d", ErrMalformed, len(data))
	}
	v, err := from(data[:32])
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return v, nil
}

func encode(hrp string, data []byte) (string, error) {
	converted, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}
	s, err := bech32.Encode(hrp, converted)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return s, nil
}
