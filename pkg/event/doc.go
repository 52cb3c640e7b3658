// Package event implements the protocol event model: tags, kinds, canonical
// serialization, id computation and the signed/unsigned event lifecycle.
//
// An event's id is the SHA-256 digest of its canonical serialization
// [0, pubkey, created_at, kind, tags, content]; its signature is a BIP-340
// Schnorr signature over that id. Event values are immutable once
// constructed. The three construction paths differ in what they establish:
//
//   - NewRumor computes the id from the fields and leaves the event unsigned.
//   - Sign computes the id and signs it with a keys.Signer.
//   - NewTrusted takes all seven wire fields as-is; Validate re-derives the
//     id and checks the signature when consistency must be proven.
//
// Builder assembles events fluently and supports kind-specific wrappers
// through its type parameter.
package event
