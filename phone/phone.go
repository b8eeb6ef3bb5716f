package phone

import (
	"errors"
	"fmt"
	"strings"
)

// Phone represents an ARPAbet phone as used by CMUdict.
// Raw dictionary phones may carry a stress digit suffix (e.g. "AA1").
type Phone string

const (
	// Sentinels padding a sequence in transitions. Not part of the alphabet.
	Start Phone = "START"
	Stop  Phone = "STOP"

	// Vowels
	AA Phone = "AA" // odd
	AE Phone = "AE" // at
	AH Phone = "AH" // hut
	AO Phone = "AO" // ought
	AW Phone = "AW" // cow
	AY Phone = "AY" // hide
	EH Phone = "EH" // ed
	ER Phone = "ER" // hurt
	EY Phone = "EY" // ate
	IH Phone = "IH" // it
	IY Phone = "IY" // eat
	OW Phone = "OW" // oat
	OY Phone = "OY" // toy
	UH Phone = "UH" // hood
	UW Phone = "UW" // two

	// Stops
	B Phone = "B"
	D Phone = "D"
	G Phone = "G"
	K Phone = "K"
	P Phone = "P"
	T Phone = "T"

	// Affricates
	CH Phone = "CH"
	JH Phone = "JH"

	// Fricatives
	DH Phone = "DH" // thee
	F  Phone = "F"
	HH Phone = "HH"
	S  Phone = "S"
	SH Phone = "SH"
	TH Phone = "TH" // theta
	V  Phone = "V"
	Z  Phone = "Z"
	ZH Phone = "ZH" // seizure

	// Nasals
	M  Phone = "M"
	N  Phone = "N"
	NG Phone = "NG"

	// Liquids and semivowels
	L Phone = "L"
	R Phone = "R"
	W Phone = "W"
	Y Phone = "Y"
)

var (
	ErrUnknownPhone = errors.New("phone: unknown phone")
	ErrSentinel     = errors.New("phone: sentinel in sequence")
)

// UnknownPhoneError reports a token outside the alphabet.
type UnknownPhoneError struct {
	Phone    Phone
	Position int
}

func (e *UnknownPhoneError) Error() string {
	return fmt.Sprintf("phone: unknown phone %q at position %d", string(e.Phone), e.Position)
}

func (e *UnknownPhoneError) Unwrap() error { return ErrUnknownPhone }

var vowels = []Phone{AA, AE, AH, AO, AW, AY, EH, ER, EY, IH, IY, OW, OY, UH, UW}

var consonants = []Phone{
	B, D, G, K, P, T,
	CH, JH,
	DH, F, HH, S, SH, TH, V, Z, ZH,
	M, N, NG,
	L, R, W, Y,
}

var (
	vowelSet = make(map[Phone]bool)
	known    = make(map[Phone]bool)
)

func init() {
	for _, p := range vowels {
		vowelSet[p] = true
		known[p] = true
	}
	for _, p := range consonants {
		known[p] = true
	}
}

// All returns the complete ARPAbet phone set, vowels first.
func All() []Phone {
	all := make([]Phone, 0, len(vowels)+len(consonants))
	all = append(all, vowels...)
	return append(all, consonants...)
}

// IsKnown reports whether p is an unmarked phone of the alphabet.
func IsKnown(p Phone) bool { return known[p] }

// IsVowel reports whether p is an unmarked vowel phone.
func IsVowel(p Phone) bool { return vowelSet[p] }

// IsSentinel reports whether p is START or STOP.
func IsSentinel(p Phone) bool { return p == Start || p == Stop }

// Strip removes a trailing stress digit run from p.
func Strip(p Phone) Phone {
	return Phone(strings.TrimRight(string(p), "0123456789"))
}

// Clean returns a copy of raw with stress markers removed from every phone.
// The input slice is left untouched.
func Clean(raw []Phone) []Phone {
	cleaned := make([]Phone, len(raw))
	for i, p := range raw {
		cleaned[i] = Strip(p)
	}
	return cleaned
}

// Validate checks that seq is a well-formed training sequence: every phone is
// a known unmarked phone and no sentinel appears.
func Validate(seq []Phone) error {
	for i, p := range seq {
		if IsSentinel(p) {
			return fmt.Errorf("position %d: %w", i, ErrSentinel)
		}
		if !known[p] {
			return &UnknownPhoneError{Phone: p, Position: i}
		}
	}
	return nil
}

// Parse converts whitespace-separated fields to phones without cleaning them.
func Parse(fields []string) []Phone {
	phones := make([]Phone, len(fields))
	for i, f := range fields {
		phones[i] = Phone(f)
	}
	return phones
}

// Join concatenates phones lower-cased, e.g. [B UH] -> "buh".
func Join(seq []Phone) string {
	var sb strings.Builder
	for _, p := range seq {
		sb.WriteString(strings.ToLower(string(p)))
	}
	return sb.String()
}
