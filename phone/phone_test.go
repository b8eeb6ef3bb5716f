package phone

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	require.Equal(t, []Phone{AA}, Clean([]Phone{"AA1"}))

	raw := []Phone{"K0", "UH1", "T0", "ER2"}
	got := Clean(raw)
	require.Equal(t, []Phone{K, UH, T, ER}, got)
	// input is not mutated
	assert.Equal(t, []Phone{"K0", "UH1", "T0", "ER2"}, raw)
}

func TestCleanIdempotent(t *testing.T) {
	seq := []Phone{B, IH, D}
	once := Clean(seq)
	require.Equal(t, seq, once)
	require.Equal(t, once, Clean(once))
	require.Empty(t, Clean(nil))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate([]Phone{K, UH, T}))
	require.NoError(t, Validate(nil))

	err := Validate([]Phone{K, "QX", T})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownPhone))
	var upe *UnknownPhoneError
	require.True(t, errors.As(err, &upe))
	assert.Equal(t, Phone("QX"), upe.Phone)
	assert.Equal(t, 1, upe.Position)

	// stress digits must be stripped before validation
	require.ErrorIs(t, Validate([]Phone{"AA1"}), ErrUnknownPhone)
	require.ErrorIs(t, Validate([]Phone{Start, K}), ErrSentinel)
}

func TestAlphabet(t *testing.T) {
	all := All()
	assert.Len(t, all, 39)
	for _, p := range all {
		assert.True(t, IsKnown(p), "%s should be known", p)
	}
	assert.True(t, IsVowel(EY))
	assert.False(t, IsVowel(T))
	assert.False(t, IsKnown(Start))
	assert.True(t, IsSentinel(Stop))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "buh", Join([]Phone{B, UH}))
	assert.Equal(t, "", Join(nil))
}
