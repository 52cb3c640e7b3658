package event

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Mindburn-Labs/quill/pkg/keys"
)

var (
	// ErrIDMismatch reports an event whose id is not the digest of its
	// canonical serialization.
	ErrIDMismatch = errors.New("event id mismatch")

	// ErrSignatureInvalid reports a signature that does not verify against
	// the event's id and author key.
	ErrSignatureInvalid = errors.New("event signature invalid")
)

// Event is one protocol event. Values are immutable: accessors copy mutable
// state out, constructors copy it in. An event without a signature is a
// rumor; Signed distinguishes the two.
type Event struct {
	id        ID
	pubkey    keys.PublicKey
	createdAt Timestamp
	kind      Kind
	tags      Tags
	content   string
	sig       *keys.Signature
}

// NewRumor assembles an unsigned event, deriving the id from the canonical
// serialization of the remaining fields.
func NewRumor(pubkey keys.PublicKey, createdAt Timestamp, kind Kind, tags Tags, content string) Event {
	tags = tags.clone()
	return Event{
		id:        ComputeID(pubkey, createdAt, kind, tags, content),
		pubkey:    pubkey,
		createdAt: createdAt,
		kind:      kind,
		tags:      tags,
		content:   content,
	}
}

// Sign assembles a signed event: the id is derived from the canonical
// serialization and signed by signer, whose key becomes the author.
func Sign(signer keys.Signer, createdAt Timestamp, kind Kind, tags Tags, content string) (Event, error) {
	ev := NewRumor(signer.PublicKey(), createdAt, kind, tags, content)
	sig, err := signer.Sign([32]byte(ev.id))
	if err != nil {
		return Event{}, fmt.Errorf("signing event %s: %w", ev.id, err)
	}
	ev.sig = &sig
	return ev, nil
}

// NewTrusted assembles an event from all seven wire fields as given, without
// recomputing the id or checking the signature. For fields from an already
// verified source; Validate proves consistency after the fact.
func NewTrusted(id ID, pubkey keys.PublicKey, createdAt Timestamp, kind Kind, tags Tags, content string, sig *keys.Signature) Event {
	ev := Event{
		id:        id,
		pubkey:    pubkey,
		createdAt: createdAt,
		kind:      kind,
		tags:      tags.clone(),
		content:   content,
	}
	if sig != nil {
		s := *sig
		ev.sig = &s
	}
	return ev
}

// ID returns the event id.
func (e Event) ID() ID { return e.id }

// PubKey returns the author's public key.
func (e Event) PubKey() keys.PublicKey { return e.pubkey }

// CreatedAt returns the creation time.
func (e Event) CreatedAt() Timestamp { return e.createdAt }

// Kind returns the event kind.
func (e Event) Kind() Kind { return e.kind }

// Content returns the content string.
func (e Event) Content() string { return e.content }

// Tags returns a copy of the tag collection. Mutating it does not affect
// the event.
func (e Event) Tags() Tags { return e.tags.clone() }

// Signature returns the signature when the event is signed.
func (e Event) Signature() (keys.Signature, bool) {
	if e.sig == nil {
		return keys.Signature{}, false
	}
	return *e.sig, true
}

// Signed reports whether the event carries a signature.
func (e Event) Signed() bool { return e.sig != nil }

// Rumor returns the event with its signature stripped. The id and all other
// fields are unchanged.
func (e Event) Rumor() Event {
	e.sig = nil
	return e
}

// Serialize renders the event's canonical form.
func (e Event) Serialize() []byte {
	return Serialize(e.pubkey, e.createdAt, e.kind, e.tags, e.content)
}

// CheckID reports whether the id matches the canonical serialization.
func (e Event) CheckID() bool {
	return e.id == ComputeID(e.pubkey, e.createdAt, e.kind, e.tags, e.content)
}

// Validate checks that the id is the digest of the canonical serialization
// and, for signed events, that the signature verifies against id and author.
func (e Event) Validate() error {
	if want := ComputeID(e.pubkey, e.createdAt, e.kind, e.tags, e.content); e.id != want {
		return fmt.Errorf("event %s: canonical id is %s: %w", e.id, want, ErrIDMismatch)
	}
	if e.sig != nil && !keys.Verify(e.pubkey, [32]byte(e.id), *e.sig) {
		return fmt.Errorf("event %s: %w", e.id, ErrSignatureInvalid)
	}
	return nil
}

// Equal reports structural equality of all fields, including presence and
// value of the signature.
func (e Event) Equal(other Event) bool {
	if e.id != other.id || e.pubkey != other.pubkey || e.createdAt != other.createdAt ||
		e.kind != other.kind || e.content != other.content {
		return false
	}
	if (e.sig == nil) != (other.sig == nil) {
		return false
	}
	if e.sig != nil && *e.sig != *other.sig {
		return false
	}
	return e.tags.Equal(other.tags)
}

// String renders the wire JSON form.
func (e Event) String() string {
	b, err := json.Marshal(e)
	if err != nil {
		return "event:" + e.id.Hex()
	}
	return string(b)
}
