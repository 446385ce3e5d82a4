// Package glyph maps fully resolved Greek letter descriptors to their
// polytonic Unicode renderings. It is pure data: every lookup is total over
// the values it accepts and never allocates.
package glyph

// Case selects the capital or small form of a letter.
type Case uint8

const (
	Small Case = iota
	Capital
)

// Breathing is the spiritus mark placed on an initial vowel (or rho).
type Breathing uint8

const (
	NoBreathing Breathing = iota
	Smooth
	Rough
)

// Accent is the pitch accent. Short vowels never take Circumflex.
type Accent uint8

const (
	NoAccent Accent = iota
	Grave
	Acute
	Circumflex
)

// ShortAccent is the accent of epsilon and omicron, which have no
// circumflex form.
type ShortAccent uint8

const (
	NoShortAccent ShortAccent = iota
	ShortGrave
	ShortAcute
)

// Accent widens a to the general accent type.
func (a ShortAccent) Accent() Accent {
	switch a {
	case ShortGrave:
		return Grave
	case ShortAcute:
		return Acute
	}
	return NoAccent
}

// ShortAccentOf narrows a. It reports false for Circumflex.
func ShortAccentOf(a Accent) (ShortAccent, bool) {
	switch a {
	case NoAccent:
		return NoShortAccent, true
	case Grave:
		return ShortGrave, true
	case Acute:
		return ShortAcute, true
	}
	return NoShortAccent, false
}

// Subscript marks an iota subscript (alpha, eta, omega only).
type Subscript uint8

const (
	NoSubscript Subscript = iota
	IotaSubscript
)

// Diaeresis marks a diaeresis (iota, ypsilon only).
type Diaeresis uint8

const (
	NoDiaeresis Diaeresis = iota
	WithDiaeresis
)

// Letter identifies one of the 24 letters of the Greek alphabet.
type Letter uint8

const (
	Alpha Letter = iota
	Beta
	Gamma
	Delta
	Epsilon
	Zeta
	Eta
	Theta
	Iota
	Kappa
	Lambda
	Mu
	Nu
	Xi
	Omicron
	Pi
	Rho
	Sigma
	Tau
	Ypsilon
	Phi
	Chi
	Psi
	Omega

	numLetters
)

var letterNames = [numLetters]string{
	"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta",
	"iota", "kappa", "lambda", "mu", "nu", "xi", "omicron", "pi",
	"rho", "sigma", "tau", "ypsilon", "phi", "chi", "psi", "omega",
}

func (l Letter) String() string {
	if l >= numLetters {
		return "invalid"
	}
	return letterNames[l]
}

// Letters returns all 24 letters in alphabetical order.
func Letters() []Letter {
	out := make([]Letter, 0, numLetters)
	for l := Alpha; l < numLetters; l++ {
		out = append(out, l)
	}
	return out
}

// Shape describes which diacritic dimensions a letter carries.
type Shape uint8

const (
	// Plain consonants carry only Case.
	Plain Shape = iota
	// ShortVowel: epsilon, omicron. Breathing and Accent without circumflex.
	ShortVowel
	// LongVowel: alpha, eta, omega. Breathing, Accent and Subscript.
	LongVowel
	// DiaeresisVowel: iota, ypsilon. Breathing, Accent and Diaeresis.
	DiaeresisVowel
	// RhoShape carries Case and Breathing.
	RhoShape
	// SigmaShape carries Case and has a word-final form.
	SigmaShape
)

// ShapeOf reports the diacritic shape of l.
func ShapeOf(l Letter) Shape {
	switch l {
	case Epsilon, Omicron:
		return ShortVowel
	case Alpha, Eta, Omega:
		return LongVowel
	case Iota, Ypsilon:
		return DiaeresisVowel
	case Rho:
		return RhoShape
	case Sigma:
		return SigmaShape
	}
	return Plain
}

// IsVowel reports whether l is one of the seven vowels.
func IsVowel(l Letter) bool {
	switch ShapeOf(l) {
	case ShortVowel, LongVowel, DiaeresisVowel:
		return true
	}
	return false
}

// Koronis is the crasis mark.
const Koronis = "\u1fbd"

// vowelIndex is the flat table offset: 4 accents per breathing, 12 entries
// per mark state.
func vowelIndex(b Breathing, a Accent, mark bool) int {
	idx := int(b)*4 + int(a)
	if mark {
		idx += 12
	}
	return idx
}

// Consonant returns the rendering of a plain consonant or the medial sigma.
// It returns "" for vowels and rho, which have their own lookups.
func Consonant(l Letter, c Case) string {
	if l >= numLetters {
		return ""
	}
	return consonants[l][c&1]
}

// FinalSigma returns the word-final sigma. The capital form has no distinct
// final glyph.
func FinalSigma(c Case) string {
	if c == Capital {
		return "\u03a3"
	}
	return "\u03c2"
}

// RhoGlyph returns rho with the given breathing.
func RhoGlyph(c Case, b Breathing) string {
	switch {
	case c == Small && b == Rough:
		return "\u1fe5"
	case c == Small && b == Smooth:
		return "\u1fe4"
	case c == Small:
		return "\u03c1"
	case b == Rough:
		return "\u1fec"
	}
	return "\u03a1"
}

// ShortVowelGlyph renders epsilon or omicron.
func ShortVowelGlyph(l Letter, c Case, b Breathing, a ShortAccent) string {
	t := vowelTable(l, ShortVowel)
	if t == nil {
		return ""
	}
	return t[c&1][vowelIndex(b, a.Accent(), false)]
}

// LongVowelGlyph renders alpha, eta or omega.
func LongVowelGlyph(l Letter, c Case, b Breathing, a Accent, s Subscript) string {
	t := vowelTable(l, LongVowel)
	if t == nil {
		return ""
	}
	return t[c&1][vowelIndex(b, a, s == IotaSubscript)]
}

// DiaeresisVowelGlyph renders iota or ypsilon. Some combinations have no
// precomposed code point and render as a multi-rune sequence.
func DiaeresisVowelGlyph(l Letter, c Case, b Breathing, a Accent, d Diaeresis) string {
	t := vowelTable(l, DiaeresisVowel)
	if t == nil {
		return ""
	}
	return t[c&1][vowelIndex(b, a, d == WithDiaeresis)]
}

func vowelTable(l Letter, want Shape) *[2][]string {
	if l >= numLetters || ShapeOf(l) != want {
		return nil
	}
	return vowels[l]
}
