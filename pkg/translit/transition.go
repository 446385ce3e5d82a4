package translit

import "github.com/japaniel/polytonic/pkg/glyph"

// Transition computes the state after key b. A letter key always opens a
// fresh letter, a diacritic key toggles its mark on the open letter, and
// any other byte returns Rest. Transition is total and never fails.
func Transition(s State, b byte) State {
	return transition(s, b, false)
}

func transition(s State, b byte, rhoBreathing bool) State {
	if s == nil {
		s = Rest{}
	}
	k := keymap[b]
	if k.isLet {
		return newLetter(k.letter, k.cas)
	}
	if k.mark != NoMark {
		return Toggle(s, k.mark, rhoBreathing)
	}
	return Rest{}
}

// Toggle flips mark m on s. States without the targeted field are returned
// unchanged. Pressing the same mark twice restores the original value; a
// different mark in the same dimension overwrites it. rhoBreathing lets the
// breathing marks reach rho, which they otherwise leave alone.
func Toggle(s State, m Mark, rhoBreathing bool) State {
	switch m {
	case SmoothMark:
		return toggleBreathing(s, glyph.Smooth, rhoBreathing)
	case RoughMark:
		return toggleBreathing(s, glyph.Rough, rhoBreathing)
	case GraveMark:
		return toggleAccent(s, glyph.Grave)
	case AcuteMark:
		return toggleAccent(s, glyph.Acute)
	case CircumflexMark:
		return toggleAccent(s, glyph.Circumflex)
	case SubscriptMark:
		if v, ok := s.(LongVowel); ok {
			v.Subscript ^= glyph.IotaSubscript
			return v
		}
	case DiaeresisMark:
		if v, ok := s.(DiaeresisVowel); ok {
			v.Diaeresis ^= glyph.WithDiaeresis
			return v
		}
	}
	return s
}

func flipBreathing(cur, b glyph.Breathing) glyph.Breathing {
	if cur == b {
		return glyph.NoBreathing
	}
	return b
}

func flipAccent(cur, a glyph.Accent) glyph.Accent {
	if cur == a {
		return glyph.NoAccent
	}
	return a
}

func toggleBreathing(s State, b glyph.Breathing, rhoBreathing bool) State {
	switch v := s.(type) {
	case ShortVowel:
		v.Breathing = flipBreathing(v.Breathing, b)
		return v
	case LongVowel:
		v.Breathing = flipBreathing(v.Breathing, b)
		return v
	case DiaeresisVowel:
		v.Breathing = flipBreathing(v.Breathing, b)
		return v
	case Rho:
		if rhoBreathing {
			v.Breathing = flipBreathing(v.Breathing, b)
			return v
		}
	}
	return s
}

func toggleAccent(s State, a glyph.Accent) State {
	switch v := s.(type) {
	case ShortVowel:
		if _, ok := glyph.ShortAccentOf(a); !ok {
			return s
		}
		v.Accent, _ = glyph.ShortAccentOf(flipAccent(v.Accent.Accent(), a))
		return v
	case LongVowel:
		v.Accent = flipAccent(v.Accent, a)
		return v
	case DiaeresisVowel:
		v.Accent = flipAccent(v.Accent, a)
		return v
	}
	return s
}
