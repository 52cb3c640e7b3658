package event

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Mindburn-Labs/quill/pkg/keys"
)

// ErrInvalidCoordinate reports a coordinate string that does not parse.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate addresses a replaceable or addressable event as
// "kind:pubkey:identifier". The pubkey and identifier parts are carried as
// found; only the kind is parsed.
type Coordinate struct {
	Kind       Kind
	PubKey     string
	Identifier string
}

// ParseCoordinate splits a "kind:pubkey:identifier" string. The kind must be
// a non-negative integer. Identifiers may themselves contain ":"; only the
// first two separators split.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return Coordinate{}, fmt.Errorf("coordinate %q: %w", s, ErrInvalidCoordinate)
	}
	kind, err := strconv.Atoi(parts[0])
	if err != nil || kind < 0 {
		return Coordinate{}, fmt.Errorf("coordinate %q: bad kind: %w", s, ErrInvalidCoordinate)
	}
	return Coordinate{Kind: Kind(kind), PubKey: parts[1], Identifier: parts[2]}, nil
}

// String renders the "kind:pubkey:identifier" form.
func (c Coordinate) String() string {
	return strconv.Itoa(int(c.Kind)) + ":" + c.PubKey + ":" + c.Identifier
}

// Coordinate returns the event's own address. Meaningful for replaceable and
// addressable kinds; addressable kinds take the first "d" tag value as
// identifier.
func (e Event) Coordinate() Coordinate {
	c := Coordinate{Kind: e.kind, PubKey: e.pubkey.Hex()}
	if e.kind.IsAddressable() {
		c.Identifier, _ = e.tags.FirstValue("d")
	}
	return c
}

// ReferencedEventCoordinates returns the coordinates of the event's "a"
// tags. Extraction is lossy: tag values that do not parse are skipped.
func (e Event) ReferencedEventCoordinates() []Coordinate {
	var out []Coordinate
	for _, t := range e.tags {
		if t.Name() != "a" || len(t) < 2 {
			continue
		}
		c, err := ParseCoordinate(t[1])
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ReferencedEventIDs returns the ids of the event's "e" tags, skipping
// values that do not parse.
func (e Event) ReferencedEventIDs() []ID {
	var out []ID
	for _, t := range e.tags {
		if t.Name() != "e" || len(t) < 2 {
			continue
		}
		id, err := ParseID(t[1])
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// ReferencedPubkeys returns the keys of the event's "p" tags, skipping
// values that do not parse.
func (e Event) ReferencedPubkeys() []keys.PublicKey {
	var out []keys.PublicKey
	for _, t := range e.tags {
		if t.Name() != "p" || len(t) < 2 {
			continue
		}
		pk, err := keys.ParsePublicKey(t[1])
		if err != nil {
			continue
		}
		out = append(out, pk)
	}
	return out
}
