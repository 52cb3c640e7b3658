package event

import (
	"encoding/json"
	"fmt"

	"github.com/Mindburn-Labs/quill/pkg/keys"
)

// wireEvent mirrors the wire object with pointer fields so absent and
// present-but-zero can be told apart during decoding.
type wireEvent struct {
	ID        *string `json:"id"`
	PubKey    *string `json:"pubkey"`
	CreatedAt *int64  `json:"created_at"`
	Kind      *int    `json:"kind"`
	Tags      *Tags   `json:"tags"`
	Content   *string `json:"content"`
	Sig       *string `json:"sig"`
}

// MarshalJSON renders the wire object. Rumors omit the sig member; nil tag
// collections render as [].
func (e Event) MarshalJSON() ([]byte, error) {
	tags := e.tags
	if tags == nil {
		tags = Tags{}
	}
	var sig *string
	if e.sig != nil {
		s := e.sig.Hex()
		sig = &s
	}
	return json.Marshal(struct {
		ID        string  `json:"id"`
		PubKey    string  `json:"pubkey"`
		CreatedAt int64   `json:"created_at"`
		Kind      int     `json:"kind"`
		Tags      Tags    `json:"tags"`
		Content   string  `json:"content"`
		Sig       *string `json:"sig,omitempty"`
	}{
		ID:        e.id.Hex(),
		PubKey:    e.pubkey.Hex(),
		CreatedAt: int64(e.createdAt),
		Kind:      int(e.kind),
		Tags:      tags,
		Content:   e.content,
		Sig:       sig,
	})
}

// UnmarshalJSON decodes the wire object. All members except sig are
// required; unknown members are ignored. Decoding performs no id or
// signature verification; call Validate for that.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	for _, f := range []struct {
		name    string
		present bool
	}{
		{"id", w.ID != nil},
		{"pubkey", w.PubKey != nil},
		{"created_at", w.CreatedAt != nil},
		{"kind", w.Kind != nil},
		{"tags", w.Tags != nil},
		{"content", w.Content != nil},
	} {
		if !f.present {
			return fmt.Errorf("event: missing field %q", f.name)
		}
	}

	id, err := ParseID(*w.ID)
	if err != nil {
		return fmt.Errorf("event: id: %w", err)
	}
	pubkey, err := keys.ParsePublicKey(*w.PubKey)
	if err != nil {
		return fmt.Errorf("event: pubkey: %w", err)
	}
	decoded := Event{
		id:        id,
		pubkey:    pubkey,
		createdAt: Timestamp(*w.CreatedAt),
		kind:      Kind(*w.Kind),
		tags:      *w.Tags,
		content:   *w.Content,
	}
	if w.Sig != nil {
		sig, err := keys.ParseSignature(*w.Sig)
		if err != nil {
			return fmt.Errorf("event: sig: %w", err)
		}
		decoded.sig = &sig
	}
	*e = decoded
	return nil
}
