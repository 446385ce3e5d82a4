package translit

import "github.com/japaniel/polytonic/pkg/glyph"

// Mark is a diacritic that a toggle key flips on the open letter.
type Mark uint8

const (
	NoMark Mark = iota
	SmoothMark
	RoughMark
	GraveMark
	AcuteMark
	CircumflexMark
	SubscriptMark
	DiaeresisMark
)

// Key bindings. Letter keys are listed in glyph.Letter order; upper case
// selects the capital.
const (
	letterKeys    = "abgdezhqiklmnxoprstyfcjw"
	diacriticKeys = ")(\\/=|\""
)

type keyInfo struct {
	letter glyph.Letter
	cas    glyph.Case
	isLet  bool
	mark   Mark
}

var keymap [256]keyInfo

func init() {
	for i := 0; i < len(letterKeys); i++ {
		l := glyph.Letter(i)
		small := letterKeys[i]
		keymap[small] = keyInfo{letter: l, cas: glyph.Small, isLet: true}
		keymap[small-'a'+'A'] = keyInfo{letter: l, cas: glyph.Capital, isLet: true}
	}
	for i := 0; i < len(diacriticKeys); i++ {
		keymap[diacriticKeys[i]] = keyInfo{mark: Mark(i + 1)}
	}
}

// IsLetterKey reports whether b starts a new letter.
func IsLetterKey(b byte) bool { return keymap[b].isLet }

// IsDiacriticKey reports whether b toggles a diacritic.
func IsDiacriticKey(b byte) bool { return keymap[b].mark != NoMark }

// MarkOf returns the diacritic toggled by b, or NoMark.
func MarkOf(b byte) Mark { return keymap[b].mark }

// LetterOf returns the letter and case b starts. ok is false when b is not a
// letter key.
func LetterOf(b byte) (l glyph.Letter, c glyph.Case, ok bool) {
	k := keymap[b]
	return k.letter, k.cas, k.isLet
}

// KeyFor returns the input byte that starts l in case c.
func KeyFor(l glyph.Letter, c glyph.Case) byte {
	k := letterKeys[l]
	if c == glyph.Capital {
		k = k - 'a' + 'A'
	}
	return k
}
