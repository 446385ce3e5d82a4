package translit

import "github.com/japaniel/polytonic/pkg/glyph"

// State is the letter currently open for diacritic composition. The
// concrete types carry only the diacritic fields their letters admit: a
// sigma has no breathing field and a short vowel's accent type has no
// circumflex value.
//
// All variants are comparable values and may be compared with ==.
type State interface {
	// Render returns the glyph for the state, "" for Rest.
	Render() string
	isState()
}

// Rest means no letter is open. It is the initial state.
type Rest struct{}

// Consonant is one of the fifteen consonants that take no diacritics and
// have no final form (everything but rho and sigma).
type Consonant struct {
	Letter glyph.Letter
	Case   glyph.Case
}

// Sigma renders medially while open and switches to its final form when the
// word ends.
type Sigma struct {
	Case glyph.Case
}

// Rho carries a breathing, but the default key bindings never change it.
type Rho struct {
	Case      glyph.Case
	Breathing glyph.Breathing
}

// ShortVowel is epsilon or omicron: no circumflex, no subscript, no diaeresis.
type ShortVowel struct {
	Letter    glyph.Letter
	Case      glyph.Case
	Breathing glyph.Breathing
	Accent    glyph.ShortAccent
}

// LongVowel is alpha, eta or omega, which may carry an iota subscript.
type LongVowel struct {
	Letter    glyph.Letter
	Case      glyph.Case
	Breathing glyph.Breathing
	Accent    glyph.Accent
	Subscript glyph.Subscript
}

// DiaeresisVowel is iota or ypsilon, which may carry a diaeresis.
type DiaeresisVowel struct {
	Letter    glyph.Letter
	Case      glyph.Case
	Breathing glyph.Breathing
	Accent    glyph.Accent
	Diaeresis glyph.Diaeresis
}

func (Rest) isState()           {}
func (Consonant) isState()      {}
func (Sigma) isState()          {}
func (Rho) isState()            {}
func (ShortVowel) isState()     {}
func (LongVowel) isState()      {}
func (DiaeresisVowel) isState() {}

func (Rest) Render() string { return "" }

func (s Consonant) Render() string { return glyph.Consonant(s.Letter, s.Case) }

func (s Sigma) Render() string { return glyph.Consonant(glyph.Sigma, s.Case) }

// Final returns the word-final rendering.
func (s Sigma) Final() string { return glyph.FinalSigma(s.Case) }

func (s Rho) Render() string { return glyph.RhoGlyph(s.Case, s.Breathing) }

func (s ShortVowel) Render() string {
	return glyph.ShortVowelGlyph(s.Letter, s.Case, s.Breathing, s.Accent)
}

func (s LongVowel) Render() string {
	return glyph.LongVowelGlyph(s.Letter, s.Case, s.Breathing, s.Accent, s.Subscript)
}

func (s DiaeresisVowel) Render() string {
	return glyph.DiaeresisVowelGlyph(s.Letter, s.Case, s.Breathing, s.Accent, s.Diaeresis)
}

// Render returns the glyph for s, "" for Rest or nil.
func Render(s State) string {
	if s == nil {
		return ""
	}
	return s.Render()
}

// IsRest reports whether s is the rest state. A nil State counts as rest.
func IsRest(s State) bool {
	if s == nil {
		return true
	}
	_, ok := s.(Rest)
	return ok
}

// isVowel reports whether s is one of the seven vowel shapes.
func isVowel(s State) bool {
	switch s.(type) {
	case ShortVowel, LongVowel, DiaeresisVowel:
		return true
	}
	return false
}

// newLetter creates the fresh descriptor for l with every diacritic cleared.
func newLetter(l glyph.Letter, c glyph.Case) State {
	switch glyph.ShapeOf(l) {
	case glyph.ShortVowel:
		return ShortVowel{Letter: l, Case: c}
	case glyph.LongVowel:
		return LongVowel{Letter: l, Case: c}
	case glyph.DiaeresisVowel:
		return DiaeresisVowel{Letter: l, Case: c}
	case glyph.RhoShape:
		return Rho{Case: c}
	case glyph.SigmaShape:
		return Sigma{Case: c}
	}
	return Consonant{Letter: l, Case: c}
}
