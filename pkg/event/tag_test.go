package event

import "testing"

func TestTags_Queries(t *testing.T) {
	tags := Tags{
		{"e", "first"},
		{"p", "author"},
		{"e", "second", "wss://relay.example.com"},
		{"t"},
		{"t", "topic"},
	}

	all := tags.All("e")
	if len(all) != 2 || all[0].Value() != "first" || all[1].Value() != "second" {
		t.Errorf("All(e) = %v", all)
	}

	first, ok := tags.First("e")
	if !ok || first.Value() != "first" {
		t.Errorf("First(e) = %v, %v", first, ok)
	}

	// FirstValue skips valueless tags.
	v, ok := tags.FirstValue("t")
	if !ok || v != "topic" {
		t.Errorf("FirstValue(t) = %q, %v", v, ok)
	}

	values := tags.Values("e")
	if len(values) != 2 || values[0] != "first" || values[1] != "second" {
		t.Errorf("Values(e) = %v", values)
	}

	if _, ok := tags.First("missing"); ok {
		t.Error("First found a missing tag")
	}
	if _, ok := tags.FirstValue("missing"); ok {
		t.Error("FirstValue found a missing tag")
	}
	if got := tags.All("missing"); len(got) != 0 {
		t.Errorf("All(missing) = %v", got)
	}
}

func TestTag_NameAndValue(t *testing.T) {
	if (Tag{}).Name() != "" || (Tag{}).Value() != "" {
		t.Error("empty tag must read as empty name and value")
	}
	tag := Tag{"e"}
	if tag.Name() != "e" || tag.Value() != "" {
		t.Errorf("single element tag: name=%q value=%q", tag.Name(), tag.Value())
	}
}

func TestTags_QueriesReturnCopies(t *testing.T) {
	tags := Tags{{"e", "original"}}

	got, ok := tags.First("e")
	if !ok {
		t.Fatal("First(e) missing")
	}
	got[1] = "mutated"
	if tags[0][1] != "original" {
		t.Error("First leaked a mutable reference")
	}

	all := tags.All("e")
	all[0][1] = "mutated"
	if tags[0][1] != "original" {
		t.Error("All leaked a mutable reference")
	}
}

func TestTags_Equal(t *testing.T) {
	a := Tags{{"e", "x"}, {"p", "y"}}
	b := Tags{{"e", "x"}, {"p", "y"}}
	if !a.Equal(b) {
		t.Error("identical collections not equal")
	}
	if a.Equal(Tags{{"p", "y"}, {"e", "x"}}) {
		t.Error("order must matter")
	}
	if a.Equal(b[:1]) {
		t.Error("length must matter")
	}
	if (Tags{{"e"}}).Equal(Tags{{"e", ""}}) {
		t.Error("arity must matter")
	}
}
