package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindClassification(t *testing.T) {
	// Fencepost values on both sides of every NIP-01 range boundary.
	cases := []struct {
		kind        Kind
		regular     bool
		replaceable bool
		ephemeral   bool
		addressable bool
	}{
		{kind: -1},
		{kind: 0, replaceable: true},
		{kind: 1, regular: true},
		{kind: 2, regular: true},
		{kind: 3, replaceable: true},
		{kind: 4, regular: true},
		{kind: 44, regular: true},
		{kind: 45},
		{kind: 999},
		{kind: 1000, regular: true},
		{kind: 9999, regular: true},
		{kind: 10000, replaceable: true},
		{kind: 19999, replaceable: true},
		{kind: 20000, ephemeral: true},
		{kind: 29999, ephemeral: true},
		{kind: 30000, addressable: true},
		{kind: 39999, addressable: true},
		{kind: 40000},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.regular, tc.kind.IsRegular(), "IsRegular(%d)", int(tc.kind))
		assert.Equal(t, tc.replaceable, tc.kind.IsReplaceable(), "IsReplaceable(%d)", int(tc.kind))
		assert.Equal(t, tc.ephemeral, tc.kind.IsEphemeral(), "IsEphemeral(%d)", int(tc.kind))
		assert.Equal(t, tc.addressable, tc.kind.IsAddressable(), "IsAddressable(%d)", int(tc.kind))
	}
}

func TestKindConstants(t *testing.T) {
	assert.True(t, KindProfileMetadata.IsReplaceable())
	assert.True(t, KindFollowList.IsReplaceable())
	assert.True(t, KindRelayListMetadata.IsReplaceable())
	assert.True(t, KindTextNote.IsRegular())
	assert.True(t, KindEventDeletion.IsRegular())
	assert.True(t, KindRepost.IsRegular())
	assert.True(t, KindReaction.IsRegular())
	assert.True(t, KindLongFormContent.IsAddressable())
}
