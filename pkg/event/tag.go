package event

import "slices"

// Tag is one event tag: a name followed by zero or more values.
type Tag []string

// Name returns the tag's first element, or "" for an empty tag.
func (t Tag) Name() string {
	if len(t) == 0 {
		return ""
	}
	return t[0]
}

// Value returns the tag's second element, or "" when the tag has none.
func (t Tag) Value() string {
	if len(t) < 2 {
		return ""
	}
	return t[1]
}

// Equal reports element-wise equality.
func (t Tag) Equal(other Tag) bool {
	return slices.Equal(t, other)
}

func (t Tag) clone() Tag {
	if t == nil {
		return nil
	}
	return slices.Clone(t)
}

// Tags is an ordered tag collection. Order is significant: it feeds the
// canonical serialization and therefore the event id.
type Tags []Tag

// All returns every tag named name, in collection order.
func (ts Tags) All(name string) Tags {
	var out Tags
	for _, t := range ts {
		if t.Name() == name {
			out = append(out, t.clone())
		}
	}
	return out
}

// First returns the first tag named name.
func (ts Tags) First(name string) (Tag, bool) {
	for _, t := range ts {
		if t.Name() == name {
			return t.clone(), true
		}
	}
	return nil, false
}

// FirstValue returns the value of the first tag named name that carries one.
func (ts Tags) FirstValue(name string) (string, bool) {
	for _, t := range ts {
		if t.Name() == name && len(t) >= 2 {
			return t[1], true
		}
	}
	return "", false
}

// Values returns the value of every tag named name that carries one.
func (ts Tags) Values(name string) []string {
	var out []string
	for _, t := range ts {
		if t.Name() == name && len(t) >= 2 {
			out = append(out, t[1])
		}
	}
	return out
}

// Equal reports element-wise equality of both collections.
func (ts Tags) Equal(other Tags) bool {
	if len(ts) != len(other) {
		return false
	}
	for i := range ts {
		if !ts[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

func (ts Tags) clone() Tags {
	if ts == nil {
		return nil
	}
	out := make(Tags, len(ts))
	for i, t := range ts {
		out[i] = t.clone()
	}
	return out
}
