package event

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/Mindburn-Labs/quill/pkg/keys"
)

// Serialize renders the canonical form an event id commits to:
//
//	[0,"<pubkey hex>",<created_at>,<kind>,<tags>,"<content>"]
//
// No whitespace, fields in exactly this order. Strings escape the quote,
// backslash and the control characters with two-character sequences (\n \"
// \\ \r \t \b \f); remaining control characters below 0x20 become \u00xx
// with lowercase hex; everything else is emitted verbatim. Equal field
// values always produce equal bytes, so the derived id is stable across
// processes and platforms.
func Serialize(pubkey keys.PublicKey, createdAt Timestamp, kind Kind, tags Tags, content string) []byte {
	buf := make([]byte, 0, 128+len(content))
	buf = append(buf, `[0,"`...)
	buf = hex.AppendEncode(buf, pubkey[:])
	buf = append(buf, `",`...)
	buf = strconv.AppendInt(buf, int64(createdAt), 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(kind), 10)
	buf = append(buf, ',')
	buf = appendTags(buf, tags)
	buf = append(buf, ',')
	buf = appendEscaped(buf, content)
	return append(buf, ']')
}

// ComputeID derives the event id: the SHA-256 digest of the canonical form.
func ComputeID(pubkey keys.PublicKey, createdAt Timestamp, kind Kind, tags Tags, content string) ID {
	return ID(sha256.Sum256(Serialize(pubkey, createdAt, kind, tags, content)))
}

func appendTags(buf []byte, tags Tags) []byte {
	buf = append(buf, '[')
	for i, tag := range tags {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '[')
		for j, s := range tag {
			if j > 0 {
				buf = append(buf, ',')
			}
			buf = appendEscaped(buf, s)
		}
		buf = append(buf, ']')
	}
	return append(buf, ']')
}

const lowerhex = "0123456789abcdef"

func appendEscaped(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"':
			buf = append(buf, '\\', '"')
		case c == '\\':
			buf = append(buf, '\\', '\\')
		case c == '\n':
			buf = append(buf, '\\', 'n')
		case c == '\r':
			buf = append(buf, '\\', 'r')
		case c == '\t':
			buf = append(buf, '\\', 't')
		case c == '\b':
			buf = append(buf, '\\', 'b')
		case c == '\f':
			buf = append(buf, '\\', 'f')
		case c < 0x20:
			buf = append(buf, '\\', 'u', '0', '0', lowerhex[c>>4], lowerhex[c&0x0f])
		default:
			buf = append(buf, c)
		}
	}
	return append(buf, '"')
}
