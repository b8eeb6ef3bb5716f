package lexicon

import (
	"github.com/randolang/randolang/phone"
)

// SpellingMiss is an entry the decoder did not spell exactly.
type SpellingMiss struct {
	Word     string
	Got      string
	Phones   []phone.Phone
	Distance int  // letter edit distance between Word and Got
	Accepted bool // Word is among the ranked candidates
}

// SpellingReport summarises decoder fidelity over dictionary entries.
type SpellingReport struct {
	Total    int
	Correct  int // first candidate equals the word
	Accepted int // word is among the candidates
	Errors   int // entries with phones the decoder cannot spell
	Misses   []SpellingMiss
}

// Accuracy returns Correct/Total.
func (r SpellingReport) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// EvaluateSpelling spells the cleaned phones of every entry and compares the
// result with the entry's word.
func EvaluateSpelling(entries []Entry, limit int) SpellingReport {
	var r SpellingReport
	for _, e := range entries {
		r.Total++
		cleaned := phone.Clean(e.Phones)
		cands, err := SpellingCandidates(cleaned, limit)
		if err != nil {
			r.Errors++
			continue
		}
		accepted := false
		for _, c := range cands {
			if c == e.Word {
				accepted = true
				break
			}
		}
		if accepted {
			r.Accepted++
		}
		if cands[0] == e.Word {
			r.Correct++
			continue
		}
		r.Misses = append(r.Misses, SpellingMiss{
			Word:     e.Word,
			Got:      cands[0],
			Phones:   cleaned,
			Distance: SpellingDistance(e.Word, cands[0]),
			Accepted: accepted,
		})
	}
	return r
}
