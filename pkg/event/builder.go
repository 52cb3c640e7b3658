package event

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Mindburn-Labs/quill/pkg/keys"
)

// ErrTagIndexOutOfRange reports a tag insertion position outside
// [0, len(tags)].
var ErrTagIndexOutOfRange = errors.New("tag index out of range")

// Builder accumulates event fields and finalizes them into an immutable
// value. The type parameter is the finalized representation, so
// kind-specific wrappers share one implementation. The kind is fixed at
// construction; creation time defaults to the clock at finalize unless set
// explicitly. Builders are not safe for concurrent use.
type Builder[E any] struct {
	kind      Kind
	createdAt *Timestamp
	content   string
	tags      Tags
	wrap      func(Event) E
	now       func() Timestamp
}

// New starts a builder for kind whose finalize operations return the
// representation produced by wrap.
func New[E any](kind Kind, wrap func(Event) E) *Builder[E] {
	return &Builder[E]{kind: kind, wrap: wrap, now: Now}
}

// NewEvent starts a builder finalizing to a plain Event.
func NewEvent(kind Kind) *Builder[Event] {
	return New(kind, func(e Event) Event { return e })
}

// Kind returns the kind the builder was created for.
func (b *Builder[E]) Kind() Kind {
	return b.kind
}

// TagCount returns the number of accumulated tags.
func (b *Builder[E]) TagCount() int {
	return len(b.tags)
}

// WithClock overrides the time source consulted when no explicit creation
// time is set. Tests use this to pin timestamps.
func (b *Builder[E]) WithClock(now func() Timestamp) *Builder[E] {
	if now != nil {
		b.now = now
	}
	return b
}

// CreatedAt pins the creation time.
func (b *Builder[E]) CreatedAt(at Timestamp) *Builder[E] {
	b.createdAt = &at
	return b
}

// ClearCreatedAt reverts to the clock at finalize.
func (b *Builder[E]) ClearCreatedAt() *Builder[E] {
	b.createdAt = nil
	return b
}

// Content replaces the content string.
func (b *Builder[E]) Content(content string) *Builder[E] {
	b.content = content
	return b
}

// AppendTags adds tags at the end, preserving their relative order.
func (b *Builder[E]) AppendTags(tags ...Tag) *Builder[E] {
	for _, t := range tags {
		b.tags = append(b.tags, t.clone())
	}
	return b
}

// InsertTags adds tags at position at, preserving their relative order.
// Positions outside [0, TagCount()] fail with ErrTagIndexOutOfRange and
// leave the builder unchanged.
func (b *Builder[E]) InsertTags(at int, tags ...Tag) (*Builder[E], error) {
	if at < 0 || at > len(b.tags) {
		return b, fmt.Errorf("insert at %d with %d tags: %w", at, len(b.tags), ErrTagIndexOutOfRange)
	}
	cloned := make([]Tag, len(tags))
	for i, t := range tags {
		cloned[i] = t.clone()
	}
	b.tags = slices.Insert(b.tags, at, cloned...)
	return b, nil
}

// Build finalizes into an unsigned rumor authored by pubkey. The builder
// remains usable afterwards.
func (b *Builder[E]) Build(pubkey keys.PublicKey) E {
	return b.wrap(NewRumor(pubkey, b.timestamp(), b.kind, b.tags, b.content))
}

// Sign finalizes into a signed event authored by the signer's key.
func (b *Builder[E]) Sign(signer keys.Signer) (E, error) {
	ev, err := Sign(signer, b.timestamp(), b.kind, b.tags, b.content)
	if err != nil {
		var zero E
		return zero, err
	}
	return b.wrap(ev), nil
}

func (b *Builder[E]) timestamp() Timestamp {
	if b.createdAt != nil {
		return *b.createdAt
	}
	if b.now != nil {
		return b.now()
	}
	return Now()
}
