package lexicon

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randolang/randolang/phone"
)

func TestPhonesToWord(t *testing.T) {
	tests := []struct {
		phones []phone.Phone
		want   []string
	}{
		{ph(phone.B, phone.IH, phone.D), sp("bid")},
		{ph(letterC, phone.R, phone.IY, phone.EY, phone.T), sp("create", "creeate")},
		{
			ph(phone.AH, phone.N, phone.G, phone.R, phone.EY, phone.T, phone.F, phone.AH, phone.L),
			sp("ungrateful", "ungraitful"),
		},
	}
	for _, tt := range tests {
		got, err := PhonesToWord(tt.phones)
		require.NoError(t, err)
		assert.Contains(t, tt.want, got, "phones %v", tt.phones)
	}
}

func TestPhonesToWordUnknownPhone(t *testing.T) {
	_, err := PhonesToWord([]phone.Phone{phone.B, "AA1", phone.D})
	require.Error(t, err)
	var upe *phone.UnknownPhoneError
	require.True(t, errors.As(err, &upe))
	assert.Equal(t, phone.Phone("AA1"), upe.Phone)
	assert.Equal(t, 1, upe.Position)

	_, err = PhonesToWord([]phone.Phone{phone.Start})
	require.ErrorIs(t, err, phone.ErrUnknownPhone)
}

func TestEveryPhoneSpells(t *testing.T) {
	for _, p := range phone.All() {
		got, err := PhonesToWord([]phone.Phone{p})
		require.NoError(t, err, "phone %s", p)
		assert.NotEmpty(t, got, "phone %s", p)

		// with neighbours on both sides, exercising medial rules
		got, err = PhonesToWord([]phone.Phone{phone.S, p, phone.T, phone.AH})
		require.NoError(t, err, "phone %s", p)
		assert.NotEmpty(t, got)
	}
	got, err := PhonesToWord(nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestSpellingCandidates(t *testing.T) {
	phones := ph(phone.AH, phone.N, phone.G, phone.R, phone.EY, phone.T, phone.F, phone.AH, phone.L)
	cands, err := SpellingCandidates(phones, 0)
	require.NoError(t, err)
	require.NotEmpty(t, cands)
	first, err := PhonesToWord(phones)
	require.NoError(t, err)
	assert.Equal(t, first, cands[0])
	assert.Contains(t, cands, "ungrateful")
	assert.Contains(t, cands, "ungraitful")

	limited, err := SpellingCandidates(phones, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{first}, limited)

	// a word with many ambiguous phones stays within the limit
	long := ph(phone.IY, phone.AH, phone.IY, phone.AH, phone.IY, phone.AH, phone.UW)
	cands, err = SpellingCandidates(long, 5)
	require.NoError(t, err)
	assert.Len(t, cands, 5)

	seen := make(map[string]bool)
	for _, c := range cands {
		assert.False(t, seen[c], "duplicate candidate %q", c)
		seen[c] = true
	}
}

func TestSpellingDeterministic(t *testing.T) {
	phones := ph(phone.K, phone.R, phone.IY, phone.EY, phone.T)
	a, err := SpellingCandidates(phones, 0)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		b, err := SpellingCandidates(phones, 0)
		require.NoError(t, err)
		require.Equal(t, a, b)
	}
}

// spellingFixture holds CMUdict entries the decoder spells exactly, followed
// by four it is known to miss.
const spellingFixture = `A  AH0
ABLE  EY1 B AH0 L
ALL  AO1 L
ALSO  AO1 L S OW0
BACK  B AE1 K
BID  B IH1 D
BOOKS  B UH1 K S
BOTH  B OW1 TH
BOX  B AA1 K S
BRING  B R IH1 NG
CALL  K AO1 L
CAR  K AA1 R
CAT  K AE1 T
CATCH  K AE1 CH
COLD  K OW1 L D
CREATE  K R IY0 EY1 T
DAY  D EY1
DAYS  D EY1 Z
EDGE  EH1 JH
EVER  EH1 V ER0
FACE  F EY1 S
FAMOUS  F EY1 M AH0 S
FELT  F EH1 L T
FIVE  F AY1 V
FOR  F AO1 R
GIVE  G IH1 V
GO  G OW1
GOOD  G UH1 D
GRATEFUL  G R EY1 T F AH0 L
HAVE  HH AE1 V
HE  HH IY1
HER  HH ER1
HOME  HH OW1 M
HOPELESS  HH OW1 P L AH0 S
HOW  HH AW1
IDEA  AY0 D IY1 AH0
KEEP  K IY1 P
KINDNESS  K AY1 N D N AH0 S
KIT  K IH1 T
LATE  L EY1 T
LATELY  L EY1 T L IY0
LINE  L AY1 N
LONG  L AO1 NG
LOOK  L UH1 K
MADE  M EY1 D
MOMENT  M OW1 M AH0 N T
MOST  M OW1 S T
MY  M AY1
NATION  N EY1 SH AH0 N
NEED  N IY1 D
NEXT  N EH1 K S T
NICE  N AY1 S
OLD  OW1 L D
OPEN  OW1 P AH0 N
OUT  AW1 T
PAGE  P EY1 JH
PLACE  P L EY1 S
QUEEN  K W IY1 N
QUITE  K W AY1 T
SEEM  S IY1 M
SEVEN  S EH1 V AH0 N
SHALL  SH AE1 L
SHAPE  SH EY1 P
SIX  S IH1 K S
SLEEP  S L IY1 P
SMALL  S M AO1 L
SOON  S UW1 N
SOUND  S AW1 N D
STATE  S T EY1 T
STATEMENT  S T EY1 T M AH0 N T
STILL  S T IH1 L
TABLE  T EY1 B AH0 L
TAKE  T EY1 K
TAKES  T EY1 K S
THANK  TH AE1 NG K
THE  DH AH0
THEM  DH EH1 M
THINK  TH IH1 NG K
THING  TH IH1 NG
THIS  DH IH1 S
THOSE  DH OW1 Z
TIME  T AY1 M
UNDER  AH1 N D ER0
VERY  V EH1 R IY0
VISION  V IH1 ZH AH0 N
WELL  W EH1 L
WHEN  HH W EH1 N
WIFE  W AY1 F
WILL  W IH1 L
WITH  W IH1 DH
WORLD  W ER1 L D
YES  Y EH1 S
HAPPY  HH AE1 P IY0
LITTLE  L IH1 T AH0 L
LOVE  L AH1 V
WHICH  W IH1 CH
`

func TestEvaluateSpellingFixture(t *testing.T) {
	d, err := Load(strings.NewReader(spellingFixture))
	require.NoError(t, err)

	r := EvaluateSpelling(d.Entries(), 0)
	assert.Equal(t, d.Len(), r.Total)
	assert.Equal(t, 0, r.Errors)
	assert.Equal(t, r.Total-4, r.Correct)

	missed := make([]string, len(r.Misses))
	for i, m := range r.Misses {
		missed[i] = m.Word
	}
	assert.Equal(t, []string{"happy", "little", "love", "which"}, missed)
	assert.Equal(t, "litle", r.Misses[1].Got)
	assert.Equal(t, 1, r.Misses[1].Distance)
	assert.InDelta(t, float64(r.Total-4)/float64(r.Total), r.Accuracy(), 1e-12)
}

func TestEvaluateSpellingErrors(t *testing.T) {
	r := EvaluateSpelling([]Entry{{Word: "x", Phones: []phone.Phone{"QQ1"}}}, 0)
	assert.Equal(t, 1, r.Total)
	assert.Equal(t, 1, r.Errors)
	assert.Equal(t, 0.0, r.Accuracy())
	assert.Equal(t, 0.0, SpellingReport{}.Accuracy())
}

// testdata/common.dict holds the CMUdict entries of frequent English words,
// pronunciation variants included. The counts are the decoder's current
// score on it and move only when the spelling table changes.
const (
	commonEntries  = 269
	commonCorrect  = 173
	commonAccepted = 203
)

func TestSpellingCommonWords(t *testing.T) {
	d, err := LoadFile("testdata/common.dict")
	require.NoError(t, err)

	r := EvaluateSpelling(d.Entries(), 0)
	assert.Equal(t, commonEntries, r.Total)
	assert.Equal(t, 0, r.Errors)
	assert.GreaterOrEqual(t, r.Correct, commonCorrect)
	assert.GreaterOrEqual(t, r.Accepted, commonAccepted)

	missed := make(map[string]SpellingMiss, len(r.Misses))
	for _, m := range r.Misses {
		missed[m.Word] = m
	}
	for _, w := range []string{"and", "was", "tree", "three", "see", "he", "up", "eat", "saw", "do"} {
		assert.NotContains(t, missed, w)
	}
	// a homophone can only be accepted
	require.Contains(t, missed, "sea")
	assert.Equal(t, "see", missed["sea"].Got)
	assert.True(t, missed["sea"].Accepted)
}

// TestSpellingCorpusAccuracy reports decoder accuracy against a full
// pronunciation dictionary, optionally filtered by a vocabulary text. It runs
// only when RANDOLANG_CMUDICT points at the dictionary, and enforces
// RANDOLANG_MIN_CORRECT when that is set.
func TestSpellingCorpusAccuracy(t *testing.T) {
	dictPath := os.Getenv("RANDOLANG_CMUDICT")
	if dictPath == "" {
		t.Skip("RANDOLANG_CMUDICT not set")
	}
	d, err := LoadFile(dictPath)
	require.NoError(t, err)
	entries := d.Entries()
	if vocabPath := os.Getenv("RANDOLANG_VOCAB"); vocabPath != "" {
		vocab, err := LoadVocabularyFile(vocabPath)
		require.NoError(t, err)
		entries = Filter(entries, vocab)
	}

	r := EvaluateSpelling(entries, 0)
	t.Logf("correct %d/%d (%.1f%%), accepted %d, errors %d",
		r.Correct, r.Total, 100*r.Accuracy(), r.Accepted, r.Errors)
	assert.Equal(t, 0, r.Errors)
	if s := os.Getenv("RANDOLANG_MIN_CORRECT"); s != "" {
		minCorrect, err := strconv.Atoi(s)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r.Correct, minCorrect)
	}
}
