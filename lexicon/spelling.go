package lexicon

import (
	"sort"
	"strings"

	"github.com/randolang/randolang/phone"
)

// DefaultCandidates caps SpellingCandidates when no limit is given.
const DefaultCandidates = 16

// condition restricts a rule matching seq[i:j] to a phonetic context.
type condition func(seq []phone.Phone, i, j int) bool

// spellingRule maps a phone pattern to its spellings, most likely first.
type spellingRule struct {
	phones    []phone.Phone
	when      condition // nil matches anywhere
	spellings []string
}

// ph and sp are shorthands to keep the table readable.
func ph(ps ...phone.Phone) []phone.Phone { return ps }
func sp(ss ...string) []string          { return ss }

// letterC is accepted as a phone spelled "c". Some hand-written sequences use
// it in place of K.
const letterC phone.Phone = "C"

func initial(_ []phone.Phone, i, _ int) bool { return i == 0 }
func final(seq []phone.Phone, _, j int) bool { return j == len(seq) }

func beforeVowel(seq []phone.Phone, _, j int) bool {
	return j < len(seq) && phone.IsVowel(seq[j])
}

// openSyllable: the match is followed by one consonant and then a vowel.
func openSyllable(seq []phone.Phone, _, j int) bool {
	return j+1 < len(seq) && !phone.IsVowel(seq[j]) && phone.IsVowel(seq[j+1])
}

func beforeFront(seq []phone.Phone, _, j int) bool {
	if j >= len(seq) {
		return false
	}
	switch seq[j] {
	case phone.IY, phone.IH, phone.EH, phone.EY, phone.AY:
		return true
	}
	return false
}

func monosyllable(seq []phone.Phone, _, _ int) bool {
	n := 0
	for _, p := range seq {
		if phone.IsVowel(p) {
			n++
		}
	}
	return n == 1
}

func after(set ...phone.Phone) condition {
	return func(seq []phone.Phone, i, _ int) bool {
		if i == 0 {
			return false
		}
		for _, p := range set {
			if seq[i-1] == p {
				return true
			}
		}
		return false
	}
}

func not(c condition) condition {
	return func(seq []phone.Phone, i, j int) bool { return !c(seq, i, j) }
}

func all(conds ...condition) condition {
	return func(seq []phone.Phone, i, j int) bool {
		for _, c := range conds {
			if !c(seq, i, j) {
				return false
			}
		}
		return true
	}
}

// Word endings that keep a silent e on the preceding syllable:
// grate-ful, late-ly, like-ness, state-ment, use-less, take-s.
var silentESuffixes = [][]phone.Phone{
	ph(phone.S),
	ph(phone.Z),
	ph(phone.F, phone.AH, phone.L),
	ph(phone.L, phone.IY),
	ph(phone.N, phone.AH, phone.S),
	ph(phone.M, phone.AH, phone.N, phone.T),
	ph(phone.L, phone.AH, phone.S),
}

// silentE: the match ends the word or is followed only by a suffix above.
func silentE(seq []phone.Phone, _, j int) bool {
	if j == len(seq) {
		return true
	}
	rest := seq[j:]
	for _, suf := range silentESuffixes {
		if len(rest) == len(suf) && equalPhones(rest, suf) {
			return true
		}
	}
	return false
}

func equalPhones(a, b []phone.Phone) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var (
	shortVowels = []phone.Phone{phone.AE, phone.EH, phone.IH, phone.AA, phone.AH}
	doubleL     = []phone.Phone{phone.AE, phone.EH, phone.IH}
	leConsonant = []phone.Phone{phone.B, phone.P, phone.D, phone.T, phone.G, phone.K, phone.Z}
	// he, me, we, be, she, the, ye
	shortEOnsets = []phone.Phone{phone.HH, phone.M, phone.W, phone.B, phone.SH, phone.DH, phone.Y}
)

// spellingTable lists phone-to-letter correspondences. Longer patterns are
// tried before shorter ones; among patterns of equal length the first whose
// condition holds wins. Every phone has an unconditional single-phone rule.
var spellingTable = []spellingRule{
	// Endings
	{ph(phone.SH, phone.AH, phone.N), final, sp("tion", "sion")},
	{ph(phone.ZH, phone.AH, phone.N), final, sp("sion")},
	{ph(phone.F, phone.AH, phone.L), final, sp("ful")},
	{ph(phone.N, phone.AH, phone.S), final, sp("ness")},
	{ph(phone.L, phone.AH, phone.S), final, sp("less")},
	{ph(phone.M, phone.AH, phone.N, phone.T), final, sp("ment")},
	{ph(phone.AH, phone.N, phone.T), all(final, not(monosyllable)), sp("ent", "ant")},
	{ph(phone.AH, phone.N, phone.S), all(final, not(monosyllable)), sp("ence", "ance")},

	// Consonant clusters
	{ph(phone.K, phone.W), nil, sp("qu")},
	{ph(phone.K, phone.S), all(final, after(shortVowels...)), sp("x", "cks")},
	{ph(phone.K, phone.S), final, sp("ks")},
	{ph(phone.K, phone.S), nil, sp("x")},
	{ph(phone.HH, phone.W), nil, sp("wh")},
	{ph(phone.NG, phone.K), nil, sp("nk")},
	{ph(phone.Y, phone.UW), initial, sp("you", "u")},
	{ph(phone.Y, phone.UW), final, sp("ew", "ue")},
	{ph(phone.Y, phone.UW), nil, sp("u", "ew")},

	// Vowel + consonant
	{ph(phone.AA, phone.R), nil, sp("ar")},
	{ph(phone.AO, phone.R), nil, sp("or", "oor")},
	{ph(phone.AO, phone.L), final, sp("all")},
	{ph(phone.AO, phone.L), nil, sp("al")},
	{ph(phone.AH, phone.N), all(initial, monosyllable), sp("an", "un")},
	{ph(phone.AH, phone.N), initial, sp("un", "an")},
	{ph(phone.AH, phone.N), all(final, not(monosyllable)), sp("en", "an", "on")},
	{ph(phone.AH, phone.S), all(final, not(monosyllable)), sp("ous", "us")},
	{ph(phone.AH, phone.L), all(final, not(monosyllable), after(leConsonant...)), sp("le", "al")},
	{ph(phone.AH, phone.L), all(final, not(monosyllable)), sp("al", "le")},
	{ph(phone.EH, phone.R), final, sp("ere", "air")},
	{ph(phone.EY, phone.Z), final, sp("ays")},
	{ph(phone.W, phone.ER), nil, sp("wor", "wer")},
	{ph(phone.W, phone.AA), nil, sp("wa", "wo")},

	// Vowels
	{ph(phone.AA), nil, sp("o", "a")},
	{ph(phone.AE), nil, sp("a")},
	{ph(phone.AH), all(initial, monosyllable, not(final)), sp("u", "a")},
	{ph(phone.AH), initial, sp("a", "u")},
	{ph(phone.AH), all(final, monosyllable), sp("e", "a")},
	{ph(phone.AH), final, sp("a", "e")},
	{ph(phone.AH), nil, sp("u", "e", "o", "a")},
	{ph(phone.AO), final, sp("aw", "o")},
	{ph(phone.AO), nil, sp("o", "au", "aw")},
	{ph(phone.AW), final, sp("ow")},
	{ph(phone.AW), nil, sp("ou", "ow")},
	{ph(phone.AY), final, sp("y", "ie")},
	{ph(phone.AY), nil, sp("i", "igh")},
	{ph(phone.EH), nil, sp("e", "ea")},
	{ph(phone.ER), nil, sp("er", "ur", "ir")},
	{ph(phone.EY), final, sp("ay", "ey")},
	{ph(phone.EY), beforeVowel, sp("a")},
	{ph(phone.EY), openSyllable, sp("a", "ai")},
	{ph(phone.EY), nil, sp("ai", "a")},
	{ph(phone.IH), nil, sp("i")},
	{ph(phone.IY), all(final, monosyllable, after(shortEOnsets...)), sp("e", "ee")},
	{ph(phone.IY), all(final, monosyllable), sp("ee", "e", "ea")},
	{ph(phone.IY), final, sp("y", "ey", "ie")},
	{ph(phone.IY), beforeVowel, sp("e")},
	{ph(phone.IY), all(initial, monosyllable), sp("ea", "e")},
	{ph(phone.IY), initial, sp("e", "ea")},
	{ph(phone.IY), nil, sp("ee", "ea", "e")},
	{ph(phone.OW), final, sp("o", "ow")},
	{ph(phone.OW), nil, sp("o", "oa")},
	{ph(phone.OY), final, sp("oy")},
	{ph(phone.OY), nil, sp("oi")},
	{ph(phone.UH), nil, sp("oo", "u")},
	{ph(phone.UW), all(final, after(phone.T, phone.D)), sp("o", "oo")},
	{ph(phone.UW), nil, sp("oo", "ew", "o")},

	// Consonants
	{ph(phone.B), nil, sp("b")},
	{ph(phone.CH), all(final, after(shortVowels...)), sp("tch", "ch")},
	{ph(phone.CH), nil, sp("ch")},
	{ph(phone.D), nil, sp("d")},
	{ph(phone.DH), nil, sp("th")},
	{ph(phone.F), nil, sp("f", "ph")},
	{ph(phone.G), nil, sp("g")},
	{ph(phone.HH), nil, sp("h")},
	{ph(phone.JH), all(final, after(shortVowels...)), sp("dge")},
	{ph(phone.JH), final, sp("ge")},
	{ph(phone.JH), nil, sp("j", "g")},
	{ph(phone.K), all(final, after(shortVowels...)), sp("ck", "k")},
	{ph(phone.K), final, sp("k")},
	{ph(phone.K), beforeFront, sp("k")},
	{ph(phone.K), nil, sp("c", "k")},
	{ph(letterC), nil, sp("c")},
	{ph(phone.L), all(final, after(doubleL...)), sp("ll", "l")},
	{ph(phone.L), nil, sp("l")},
	{ph(phone.M), nil, sp("m")},
	{ph(phone.N), nil, sp("n")},
	{ph(phone.NG), nil, sp("ng")},
	{ph(phone.P), nil, sp("p")},
	{ph(phone.R), nil, sp("r")},
	{ph(phone.S), nil, sp("s", "c")},
	{ph(phone.SH), nil, sp("sh")},
	{ph(phone.T), nil, sp("t")},
	{ph(phone.TH), nil, sp("th")},
	{ph(phone.V), final, sp("ve")},
	{ph(phone.V), nil, sp("v")},
	{ph(phone.W), nil, sp("w")},
	{ph(phone.Y), nil, sp("y")},
	{ph(phone.Z), final, sp("s", "z")},
	{ph(phone.Z), initial, sp("z")},
	{ph(phone.Z), nil, sp("s", "z")},
	{ph(phone.ZH), nil, sp("s")},
}

// Long vowels closed by one consonant and a silent e: late, kite, home.
var silentEVowels = []struct {
	vowel     phone.Phone
	letter    string
	alternate string
}{
	{phone.EY, "a", "ai"},
	{phone.AY, "i", "igh"},
	{phone.OW, "o", "oa"},
}

var silentEConsonants = []struct {
	consonant phone.Phone
	letters   string
}{
	{phone.B, "b"}, {phone.D, "d"}, {phone.F, "f"}, {phone.JH, "g"},
	{phone.K, "k"}, {phone.L, "l"}, {phone.M, "m"}, {phone.N, "n"},
	{phone.P, "p"}, {phone.S, "c"}, {phone.T, "t"}, {phone.V, "v"},
	{phone.Z, "s"},
}

// rulesByFirst indexes the table by the first phone of each pattern, longest
// patterns first. Built at init time from spellingTable.
var rulesByFirst map[phone.Phone][]spellingRule

func init() {
	rules := make([]spellingRule, 0, len(spellingTable)+len(silentEVowels)*len(silentEConsonants))
	for _, v := range silentEVowels {
		for _, c := range silentEConsonants {
			if v.vowel == phone.EY && c.consonant == phone.Z {
				continue // days, ways
			}
			letters := c.letters
			if v.vowel == phone.OW && c.consonant == phone.S {
				letters = "s" // close, dose
			}
			rules = append(rules, spellingRule{
				phones:    ph(v.vowel, c.consonant),
				when:      silentE,
				spellings: sp(v.letter+letters+"e", v.alternate+letters),
			})
		}
	}
	rules = append(rules, spellingTable...)

	rulesByFirst = make(map[phone.Phone][]spellingRule)
	for _, r := range rules {
		rulesByFirst[r.phones[0]] = append(rulesByFirst[r.phones[0]], r)
	}
	for _, rs := range rulesByFirst {
		sort.SliceStable(rs, func(i, j int) bool { return len(rs[i].phones) > len(rs[j].phones) })
	}
}

// match returns the rule applying at seq[i:] and the end of its match.
func match(seq []phone.Phone, i int) (spellingRule, int, bool) {
	for _, r := range rulesByFirst[seq[i]] {
		j := i + len(r.phones)
		if j > len(seq) || !equalPhones(seq[i:j], r.phones) {
			continue
		}
		if r.when == nil || r.when(seq, i, j) {
			return r, j, true
		}
	}
	return spellingRule{}, 0, false
}

// segments splits phones into matched rules and returns their spellings.
func segments(phones []phone.Phone) ([][]string, error) {
	var segs [][]string
	for i := 0; i < len(phones); {
		r, j, ok := match(phones, i)
		if !ok {
			return nil, &phone.UnknownPhoneError{Phone: phones[i], Position: i}
		}
		segs = append(segs, r.spellings)
		i = j
	}
	return segs, nil
}

// PhonesToWord spells a cleaned phone sequence, taking the preferred
// spelling of every matched pattern. The result is deterministic.
func PhonesToWord(phones []phone.Phone) (string, error) {
	segs, err := segments(phones)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, s := range segs {
		sb.WriteString(s[0])
	}
	return sb.String(), nil
}

// SpellingCandidates returns up to limit distinct spellings of phones in
// preference order. The first candidate equals PhonesToWord's result.
func SpellingCandidates(phones []phone.Phone, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultCandidates
	}
	segs, err := segments(phones)
	if err != nil {
		return nil, err
	}

	var out []string
	seen := make(map[string]bool)
	var rec func(k int, prefix string)
	rec = func(k int, prefix string) {
		if k == len(segs) {
			if !seen[prefix] {
				seen[prefix] = true
				out = append(out, prefix)
			}
			return
		}
		for _, s := range segs[k] {
			if len(out) >= limit {
				return
			}
			rec(k+1, prefix+s)
		}
	}
	rec(0, "")
	return out, nil
}
