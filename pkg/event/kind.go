package event

// Kind classifies an event's semantics. The protocol assigns meaning per
// number; this package only distinguishes the storage classes below.
type Kind int

const (
	KindProfileMetadata   Kind = 0
	KindTextNote          Kind = 1
	KindFollowList        Kind = 3
	KindEventDeletion     Kind = 5
	KindRepost            Kind = 6
	KindReaction          Kind = 7
	KindRelayListMetadata Kind = 10002
	KindLongFormContent   Kind = 30023
)

// IsRegular reports whether events of this kind are stored individually.
func (k Kind) IsRegular() bool {
	return 1000 <= k && k < 10000 || 4 <= k && k < 45 || k == 1 || k == 2
}

// IsReplaceable reports whether a newer event of the same kind and author
// supersedes older ones.
func (k Kind) IsReplaceable() bool {
	return k == 0 || k == 3 || 10000 <= k && k < 20000
}

// IsEphemeral reports whether events of this kind are relayed but not stored.
func (k Kind) IsEphemeral() bool {
	return 20000 <= k && k < 30000
}

// IsAddressable reports whether events of this kind are replaced per
// (kind, author, "d" tag identifier) coordinate.
func (k Kind) IsAddressable() bool {
	return 30000 <= k && k < 40000
}
