package event

import (
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mindburn-Labs/quill/pkg/keys"
)

func TestEventLifecycle(t *testing.T) {
	kp, err := keys.NewKeypair()
	require.NoError(t, err)

	ev, err := Sign(kp, 1700000000, KindTextNote, Tags{{"t", "greetings"}}, "hello world")
	require.NoError(t, err)

	assert.True(t, ev.Signed())
	assert.True(t, ev.CheckID())
	assert.Equal(t, kp.PublicKey(), ev.PubKey())
	assert.Equal(t, Timestamp(1700000000), ev.CreatedAt())
	assert.Equal(t, KindTextNote, ev.Kind())
	assert.Equal(t, "hello world", ev.Content())
	require.NoError(t, ev.Validate())

	sig, ok := ev.Signature()
	require.True(t, ok)
	assert.True(t, keys.Verify(kp.PublicKey(), [32]byte(ev.ID()), sig))
}

func TestNewRumor_SelfConsistent(t *testing.T) {
	ev := NewRumor(keys.PublicKey{}, 0, 1, nil, "hello")

	assert.False(t, ev.Signed())
	assert.True(t, ev.CheckID())
	require.NoError(t, ev.Validate())

	_, ok := ev.Signature()
	assert.False(t, ok)

	want := ID(sha256.Sum256(ev.Serialize()))
	assert.Equal(t, want, ev.ID())
}

func TestRumor_StripsOnlySignature(t *testing.T) {
	kp, err := keys.NewKeypair()
	require.NoError(t, err)

	signed, err := Sign(kp, 100, KindReaction, Tags{{"e", "abc"}}, "+")
	require.NoError(t, err)

	rumor := signed.Rumor()
	assert.False(t, rumor.Signed())
	assert.Equal(t, signed.ID(), rumor.ID())
	assert.Equal(t, signed.Content(), rumor.Content())
	assert.Equal(t, signed.Tags(), rumor.Tags())
	require.NoError(t, rumor.Validate())

	// Source event keeps its signature.
	assert.True(t, signed.Signed())
}

func TestNewTrusted_ValidateCatchesTampering(t *testing.T) {
	kp, err := keys.NewKeypair()
	require.NoError(t, err)

	signed, err := Sign(kp, 200, KindTextNote, Tags{{"t", "x"}}, "original")
	require.NoError(t, err)
	sig, ok := signed.Signature()
	require.True(t, ok)

	t.Run("consistent fields pass", func(t *testing.T) {
		ev := NewTrusted(signed.ID(), signed.PubKey(), signed.CreatedAt(), signed.Kind(), signed.Tags(), signed.Content(), &sig)
		require.NoError(t, ev.Validate())
		assert.True(t, ev.Equal(signed))
	})

	t.Run("tampered content fails id check", func(t *testing.T) {
		ev := NewTrusted(signed.ID(), signed.PubKey(), signed.CreatedAt(), signed.Kind(), signed.Tags(), "tampered", &sig)
		err := ev.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIDMismatch)
	})

	t.Run("foreign signature fails", func(t *testing.T) {
		other, err := keys.NewKeypair()
		require.NoError(t, err)
		otherSig, err := other.Sign([32]byte(signed.ID()))
		require.NoError(t, err)

		ev := NewTrusted(signed.ID(), signed.PubKey(), signed.CreatedAt(), signed.Kind(), signed.Tags(), signed.Content(), &otherSig)
		err = ev.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("rumor with foreign id fails", func(t *testing.T) {
		ev := NewTrusted(ID{1, 2, 3}, signed.PubKey(), signed.CreatedAt(), signed.Kind(), signed.Tags(), signed.Content(), nil)
		assert.ErrorIs(t, ev.Validate(), ErrIDMismatch)
		assert.False(t, ev.CheckID())
	})
}

func TestEvent_Equal(t *testing.T) {
	kp, err := keys.NewKeypair()
	require.NoError(t, err)

	signed, err := Sign(kp, 300, 1, Tags{{"t", "a"}}, "content")
	require.NoError(t, err)
	sig, ok := signed.Signature()
	require.True(t, ok)

	same := NewTrusted(signed.ID(), signed.PubKey(), signed.CreatedAt(), signed.Kind(), signed.Tags(), signed.Content(), &sig)
	assert.True(t, signed.Equal(same))
	assert.True(t, same.Equal(signed))

	assert.False(t, signed.Equal(signed.Rumor()), "signature presence is part of equality")
	assert.True(t, signed.Rumor().Equal(same.Rumor()))

	different, err := Sign(kp, 300, 1, Tags{{"t", "b"}}, "content")
	require.NoError(t, err)
	assert.False(t, signed.Equal(different))
}

func TestEvent_Immutability(t *testing.T) {
	source := Tags{{"t", "original"}}
	ev := NewRumor(keys.PublicKey{}, 1, 1, source, "body")
	id := ev.ID()

	// Mutating the constructor argument afterwards changes nothing.
	source[0][1] = "mutated"
	assert.Equal(t, id, ev.ID())
	assert.True(t, ev.CheckID())
	tags := ev.Tags()
	assert.Equal(t, "original", tags[0][1])

	// Mutating an accessor result changes nothing either.
	tags[0][1] = "mutated again"
	again := ev.Tags()
	assert.Equal(t, "original", again[0][1])
	require.NoError(t, ev.Validate())
}

type failingSigner struct {
	pk  keys.PublicKey
	err error
}

func (f failingSigner) Sign([32]byte) (keys.Signature, error) { return keys.Signature{}, f.err }
func (f failingSigner) PublicKey() keys.PublicKey             { return f.pk }

func TestSign_PropagatesSignerError(t *testing.T) {
	cause := errors.New("hsm unavailable")
	_, err := Sign(failingSigner{err: cause}, 1, 1, nil, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestEvent_StringIsWireJSON(t *testing.T) {
	ev := NewRumor(keys.PublicKey{}, 0, 1, nil, "hello")
	s := ev.String()
	assert.Contains(t, s, `"content":"hello"`)
	assert.Contains(t, s, `"id":"`+ev.ID().Hex()+`"`)
	assert.NotContains(t, s, `"sig"`)
}
