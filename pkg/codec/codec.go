// Package codec is the wire-JSON boundary for events. Decoding enforces
// UTF-8 and the wire shape, optionally backed by a compiled JSON Schema for
// trust-boundary callers. Decoding never verifies ids or signatures; callers
// holding untrusted input follow a decode with Event.Validate.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Mindburn-Labs/quill/pkg/event"
	"github.com/Mindburn-Labs/quill/pkg/keys"
	"github.com/Mindburn-Labs/quill/pkg/observability"
)

// ErrDecode reports wire input that cannot become an event: malformed JSON,
// non-UTF-8 bytes, missing required fields, bad hex widths, or a strict
// schema violation.
var ErrDecode = errors.New("cannot decode event")

const eventSchemaURL = "https://quill.schemas.local/event.schema.json"

// eventSchema is the wire shape in JSON Schema draft 2020-12. It constrains
// known fields and leaves unknown fields open, matching the lenient decoder.
// created_at carries no lower bound; pre-epoch timestamps are legal.
const eventSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://quill.schemas.local/event.schema.json",
  "title": "Event",
  "type": "object",
  "required": ["id", "pubkey", "created_at", "kind", "tags", "content"],
  "properties": {
    "id": {"type": "string", "pattern": "^[0-9a-f]{64}$"},
    "pubkey": {"type": "string", "pattern": "^[0-9a-f]{64}$"},
    "created_at": {"type": "integer"},
    "kind": {"type": "integer", "minimum": 0, "maximum": 65535},
    "tags": {
      "type": "array",
      "items": {"type": "array", "items": {"type": "string"}}
    },
    "content": {"type": "string"},
    "sig": {"type": "string", "pattern": "^[0-9a-f]{128}$"}
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(eventSchemaURL, strings.NewReader(eventSchema)); err != nil {
			schemaErr = fmt.Errorf("codec: load event schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(eventSchemaURL)
	})
	return compiledSchema, schemaErr
}

// Decoder decodes wire JSON into events.
type Decoder struct {
	strict bool
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithStrictSchema makes the decoder validate input against the event JSON
// Schema before unmarshalling. The strict shape additionally bounds kind to
// 0..65535 and rejects rumors carrying a malformed sig field.
func WithStrictSchema() Option {
	return func(d *Decoder) { d.strict = true }
}

// NewDecoder returns a decoder. Without options it accepts anything the
// event wire format accepts.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode parses wire JSON into an Event. The sig field is optional; its
// absence yields a rumor. No id or signature verification happens here.
func (d *Decoder) Decode(data []byte) (_ event.Event, err error) {
	done := observability.Track("codec.decode")
	defer func() { done(err) }()

	// 1. Reject byte sequences that are not UTF-8 before touching JSON.
	if !utf8.Valid(data) {
		return event.Event{}, fmt.Errorf("%w: input is not valid UTF-8", ErrDecode)
	}

	// 2. Strict mode validates the decoded value against the schema.
	if d.strict {
		if err := validateSchema(data); err != nil {
			return event.Event{}, err
		}
	}

	// 3. Unmarshal through the event wire shape.
	var e event.Event
	if err := json.Unmarshal(data, &e); err != nil {
		return event.Event{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return e, nil
}

// Decode parses wire JSON with the default lenient decoder.
func Decode(data []byte) (event.Event, error) {
	return NewDecoder().Decode(data)
}

// ValidateSchema checks wire JSON against the event schema without
// constructing an event.
func ValidateSchema(data []byte) error {
	if !utf8.Valid(data) {
		return fmt.Errorf("%w: input is not valid UTF-8", ErrDecode)
	}
	return validateSchema(data)
}

func validateSchema(data []byte) error {
	schema, err := compiled()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// Encode emits the wire JSON for an event. Rumors omit the sig field.
func Encode(e event.Event) (_ []byte, err error) {
	done := observability.Track("codec.encode")
	defer func() { done(err) }()

	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("codec: encode event: %w", err)
	}
	return b, nil
}

// SignRumor builds and signs an event from rumor JSON. Only created_at,
// kind, tags and content are read; any id, pubkey or sig in the input is
// discarded and recomputed from the private key.
func SignRumor(data []byte, sk keys.PrivateKey) (_ event.Event, err error) {
	done := observability.Track("codec.sign_rumor")
	defer func() { done(err) }()

	if !utf8.Valid(data) {
		return event.Event{}, fmt.Errorf("%w: input is not valid UTF-8", ErrDecode)
	}

	var aux struct {
		CreatedAt *event.Timestamp `json:"created_at"`
		Kind      *event.Kind      `json:"kind"`
		Tags      *event.Tags      `json:"tags"`
		Content   *string          `json:"content"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return event.Event{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	for _, f := range []struct {
		name    string
		present bool
	}{
		{"created_at", aux.CreatedAt != nil},
		{"kind", aux.Kind != nil},
		{"tags", aux.Tags != nil},
		{"content", aux.Content != nil},
	} {
		if !f.present {
			return event.Event{}, fmt.Errorf("%w: missing field %q", ErrDecode, f.name)
		}
	}

	kp, err := keys.KeypairFromPrivateKey(sk)
	if err != nil {
		return event.Event{}, fmt.Errorf("codec: sign rumor: %w", err)
	}
	return event.Sign(kp, *aux.CreatedAt, *aux.Kind, *aux.Tags, *aux.Content)
}
