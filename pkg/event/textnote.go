package event

// TextNote is a kind-1 event: short plain-text user content.
type TextNote struct {
	Event
}

// NewTextNote starts a builder for a kind-1 note with the given content.
func NewTextNote(content string) *Builder[TextNote] {
	return New(KindTextNote, func(e Event) TextNote { return TextNote{e} }).Content(content)
}
