package nip19

import (
	"encoding/binary"
	"fmt"
	"net/url"

	"github.com/Mindburn-Labs/quill/pkg/event"
	"github.com/Mindburn-Labs/quill/pkg/keys"
	"github.com/Mindburn-Labs/quill/pkg/observability"
)

// TLV record types. Records appear in a fixed order on encode: special
// first, then relays in caller order, then author, then kind. Unknown types
// are skipped on decode.
const (
	tlvSpecial = 0
	tlvRelay   = 1
	tlvAuthor  = 2
	tlvKind    = 3
)

// EventPointer names an event, optionally with relay hints and the author
// and kind needed to find or verify it.
type EventPointer struct {
	ID     event.ID
	Relays []string
	Author *keys.PublicKey
	Kind   *event.Kind
}

// ProfilePointer names a key with relay hints.
type ProfilePointer struct {
	PublicKey keys.PublicKey
	Relays    []string
}

// EntityPointer names an addressable event by coordinate with relay hints.
type EntityPointer struct {
	PublicKey  keys.PublicKey
	Kind       event.Kind
	Identifier string
	Relays     []string
}

// EncodeEvent renders a nevent identifier. Every relay hint must be a
// parseable ws or wss URL.
func EncodeEvent(p EventPointer) (_ string, err error) {
	done := observability.Track("nip19.encode")
	defer func() { done(err) }()

	if err := validateRelayURLs(p.Relays); err != nil {
		return "", err
	}
	buf := appendTLV(nil, tlvSpecial, p.ID[:])
	for _, r := range p.Relays {
		buf = appendTLV(buf, tlvRelay, []byte(r))
	}
	if p.Author != nil {
		buf = appendTLV(buf, tlvAuthor, p.Author[:])
	}
	if p.Kind != nil {
		var k [4]byte
		binary.BigEndian.PutUint32(k[:], uint32(*p.Kind))
		buf = appendTLV(buf, tlvKind, k[:])
	}
	return encode(prefixEvent, buf)
}

// EncodeProfile renders a nprofile identifier.
func EncodeProfile(p ProfilePointer) (_ string, err error) {
	done := observability.Track("nip19.encode")
	defer func() { done(err) }()

	if err := validateRelayURLs(p.Relays); err != nil {
		return "", err
	}
	buf := appendTLV(nil, tlvSpecial, p.PublicKey[:])
	for _, r := range p.Relays {
		buf = appendTLV(buf, tlvRelay, []byte(r))
	}
	return encode(prefixProfile, buf)
}

// EncodeEntity renders a naddr identifier. Author and kind are always
// carried; the identifier may be empty.
func EncodeEntity(p EntityPointer) (_ string, err error) {
	done := observability.Track("nip19.encode")
	defer func() { done(err) }()

	if err := validateRelayURLs(p.Relays); err != nil {
		return "", err
	}
	if len(p.Identifier) > 255 {
		return "", fmt.Errorf("%w: identifier over 255 bytes", ErrEncode)
	}
	buf := appendTLV(nil, tlvSpecial, []byte(p.Identifier))
	for _, r := range p.Relays {
		buf = appendTLV(buf, tlvRelay, []byte(r))
	}
	buf = appendTLV(buf, tlvAuthor, p.PublicKey[:])
	var k [4]byte
	binary.BigEndian.PutUint32(k[:], uint32(p.Kind))
	buf = appendTLV(buf, tlvKind, k[:])
	return encode(prefixEntity, buf)
}

// FromEvent builds the nevent identifier for an event. Author and kind are
// carried unless excluded; relays are optional hints.
func FromEvent(e event.Event, relays []string, excludeAuthor, excludeKind bool) (string, error) {
	p := EventPointer{ID: e.ID(), Relays: relays}
	if !excludeAuthor {
		pk := e.PubKey()
		p.Author = &pk
	}
	if !excludeKind {
		k := e.Kind()
		p.Kind = &k
	}
	return EncodeEvent(p)
}

type tlvRecord struct {
	typ   byte
	value []byte
}

func appendTLV(buf []byte, typ byte, value []byte) []byte {
	buf = append(buf, typ, byte(len(value)))
	return append(buf, value...)
}

func parseTLV(data []byte) ([]tlvRecord, error) {
	var records []tlvRecord
	for len(data) > 0 {
		if len(data) < 2 {
			return nil, fmt.Errorf("%w: truncated TLV header", ErrMalformed)
		}
		length := int(data[1])
		if len(data) < 2+length {
			return nil, fmt.Errorf("%w: TLV value shorter than its length", ErrMalformed)
		}
		records = append(records, tlvRecord{typ: data[0], value: data[2 : 2+length]})
		data = data[2+length:]
	}
	return records, nil
}

func decodeEventPointer(data []byte) (EventPointer, error) {
	records, err := parseTLV(data)
	if err != nil {
		return EventPointer{}, err
	}
	var p EventPointer
	seenSpecial := false
	for _, r := range records {
		switch r.typ {
		case tlvSpecial:
			id, err := event.IDFromBytes(r.value)
			if err != nil {
				return EventPointer{}, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			p.ID = id
			seenSpecial = true
		case tlvRelay:
			p.Relays = append(p.Relays, string(r.value))
		case tlvAuthor:
			pk, err := keys.PublicKeyFromBytes(r.value)
			if err != nil {
				return EventPointer{}, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			p.Author = &pk
		case tlvKind:
			if len(r.value) != 4 {
				return EventPointer{}, fmt.Errorf("%w: kind record must be 4 bytes", ErrMalformed)
			}
			k := event.Kind(binary.BigEndian.Uint32(r.value))
			p.Kind = &k
		}
	}
	if !seenSpecial {
		return EventPointer{}, fmt.Errorf("%w: missing event id record", ErrMalformed)
	}
	return p, nil
}

func decodeProfilePointer(data []byte) (ProfilePointer, error) {
	records, err := parseTLV(data)
	if err != nil {
		return ProfilePointer{}, err
	}
	var p ProfilePointer
	seenSpecial := false
	for _, r := range records {
		switch r.typ {
		case tlvSpecial:
			pk, err := keys.PublicKeyFromBytes(r.value)
			if err != nil {
				return ProfilePointer{}, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			p.PublicKey = pk
			seenSpecial = true
		case tlvRelay:
			p.Relays = append(p.Relays, string(r.value))
		}
	}
	if !seenSpecial {
		return ProfilePointer{}, fmt.Errorf("%w: missing public key record", ErrMalformed)
	}
	return p, nil
}

func decodeEntityPointer(data []byte) (EntityPointer, error) {
	records, err := parseTLV(data)
	if err != nil {
		return EntityPointer{}, err
	}
	var p EntityPointer
	seenSpecial, seenAuthor, seenKind := false, false, false
	for _, r := range records {
		switch r.typ {
		case tlvSpecial:
			p.Identifier = string(r.value)
			seenSpecial = true
		case tlvRelay:
			p.Relays = append(p.Relays, string(r.value))
		case tlvAuthor:
			pk, err := keys.PublicKeyFromBytes(r.value)
			if err != nil {
				return EntityPointer{}, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			p.PublicKey = pk
			seenAuthor = true
		case tlvKind:
			if len(r.value) != 4 {
				return EntityPointer{}, fmt.Errorf("%w: kind record must be 4 bytes", ErrMalformed)
			}
			p.Kind = event.Kind(binary.BigEndian.Uint32(r.value))
			seenKind = true
		}
	}
	if !seenSpecial || !seenAuthor || !seenKind {
		return EntityPointer{}, fmt.Errorf("%w: entity needs identifier, author and kind records", ErrMalformed)
	}
	return p, nil
}

func validateRelayURLs(relays []string) error {
	for _, r := range relays {
		if err := validateRelayURL(r); err != nil {
			return err
		}
	}
	return nil
}

func validateRelayURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("relay url %q: %w", s, ErrBadURL)
	}
	if u.Scheme == "" {
		return fmt.Errorf("relay url %q: missing scheme: %w", s, ErrBadURL)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("relay url %q: scheme %q: %w", s, u.Scheme, ErrInvalidScheme)
	}
	if u.Host == "" {
		return fmt.Errorf("relay url %q: missing host: %w", s, ErrBadURL)
	}
	if len(s) > 255 {
		return fmt.Errorf("relay url %q over 255 bytes: %w", s, ErrEncode)
	}
	return nil
}
