package event

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/Mindburn-Labs/quill/pkg/keys"
)

// Tag vocabulary helpers. Builder methods append protocol-shaped tags;
// Event methods read them back. None of these change the finalize contract.

// ContentWarning marks the content as sensitive, optionally with a reason.
func (b *Builder[E]) ContentWarning(reason string) *Builder[E] {
	if reason == "" {
		return b.AppendTags(Tag{"content-warning"})
	}
	return b.AppendTags(Tag{"content-warning", reason})
}

// ContentWarning returns the first content warning's reason, "" when the
// warning carries none.
func (e Event) ContentWarning() (string, bool) {
	t, ok := e.tags.First("content-warning")
	if !ok {
		return "", false
	}
	return t.Value(), true
}

// Expiration marks the event as ignorable after at.
func (b *Builder[E]) Expiration(at Timestamp) *Builder[E] {
	return b.AppendTags(Tag{"expiration", strconv.FormatInt(int64(at), 10)})
}

// Expiration returns the first expiration time. Values that do not parse as
// integers read as absent.
func (e Event) Expiration() (Timestamp, bool) {
	v, ok := e.tags.FirstValue("expiration")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return Timestamp(n), true
}

// Alt attaches a plain-text summary for clients that cannot render the kind.
func (b *Builder[E]) Alt(summary string) *Builder[E] {
	return b.AppendTags(Tag{"alt", summary})
}

// Alt returns the first alt summary.
func (e Event) Alt() (string, bool) {
	return e.tags.FirstValue("alt")
}

// Subject attaches a subject line.
func (b *Builder[E]) Subject(subject string) *Builder[E] {
	return b.AppendTags(Tag{"subject", subject})
}

// Subject returns the first subject line.
func (e Event) Subject() (string, bool) {
	return e.tags.FirstValue("subject")
}

// Label attaches a namespaced label: an "L" tag naming the namespace and an
// "l" tag carrying the value under it.
func (b *Builder[E]) Label(namespace, value string) *Builder[E] {
	return b.AppendTags(Tag{"L", namespace}, Tag{"l", value, namespace})
}

// Labels returns every label value under namespace, in tag order.
func (e Event) Labels(namespace string) []string {
	var out []string
	for _, t := range e.tags {
		if t.Name() == "l" && len(t) >= 3 && t[2] == namespace {
			out = append(out, t[1])
		}
	}
	return out
}

// ReferenceEvent adds an "e" tag pointing at another event.
func (b *Builder[E]) ReferenceEvent(id ID) *Builder[E] {
	return b.AppendTags(Tag{"e", id.Hex()})
}

// ReferencePubkey adds a "p" tag mentioning a key.
func (b *Builder[E]) ReferencePubkey(pk keys.PublicKey) *Builder[E] {
	return b.AppendTags(Tag{"p", pk.Hex()})
}

// ReferenceCoordinate adds an "a" tag pointing at a replaceable or
// addressable event.
func (b *Builder[E]) ReferenceCoordinate(c Coordinate) *Builder[E] {
	return b.AppendTags(Tag{"a", c.String()})
}

// Identifier sets the "d" tag that addresses the event within its kind,
// replacing an existing one so at most one is carried.
func (b *Builder[E]) Identifier(identifier string) *Builder[E] {
	for i, t := range b.tags {
		if t.Name() == "d" {
			b.tags[i] = Tag{"d", identifier}
			return b
		}
	}
	return b.AppendTags(Tag{"d", identifier})
}

// EnsureIdentifier appends a "d" tag with a fresh UUID when none is present.
func (b *Builder[E]) EnsureIdentifier() *Builder[E] {
	for _, t := range b.tags {
		if t.Name() == "d" {
			return b
		}
	}
	return b.AppendTags(Tag{"d", uuid.NewString()})
}

// Identifier returns the first "d" tag value.
func (e Event) Identifier() (string, bool) {
	return e.tags.FirstValue("d")
}
