package translit

// Edit is a change to the tail of an output buffer: drop Delete bytes from
// the end, then append Insert. Delete is a byte count, never a rune count,
// because several glyphs are multi-rune sequences.
type Edit struct {
	Delete int
	Insert string
}

// IsZero reports whether e leaves the buffer unchanged.
func (e Edit) IsZero() bool { return e.Delete == 0 && e.Insert == "" }

// Apply performs e on *buf in place. Delete is clamped to the buffer length.
func (e Edit) Apply(buf *[]byte) {
	b := *buf
	d := e.Delete
	if d > len(b) {
		d = len(b)
	}
	*buf = append(b[:len(b)-d], e.Insert...)
}

// Then returns the edit equivalent to applying e followed by next.
func (e Edit) Then(next Edit) Edit {
	if next.Delete == 0 {
		return Edit{Delete: e.Delete, Insert: e.Insert + next.Insert}
	}
	if next.Delete <= len(e.Insert) {
		return Edit{Delete: e.Delete, Insert: e.Insert[:len(e.Insert)-next.Delete] + next.Insert}
	}
	return Edit{Delete: e.Delete + next.Delete - len(e.Insert), Insert: next.Insert}
}

// Rewrite decides how the buffer changes when key b moves the machine from
// old to next. It does not include the pass-through of unrecognized keys,
// which is the driver's job.
func Rewrite(old, next State, b byte) Edit {
	return rewrite(old, next, b, false)
}

// Apply rewrites *buf for the step old -> next on key b.
func Apply(old, next State, b byte, buf *[]byte) {
	Rewrite(old, next, b).Apply(buf)
}

func rewrite(old, next State, b byte, rhoBreathing bool) Edit {
	if next == nil {
		next = Rest{}
	}
	diacritic := IsDiacriticKey(b)

	switch o := old.(type) {
	case nil, Rest:
		return Edit{Insert: next.Render()}
	case Sigma:
		if IsRest(next) {
			// The word ended; the sigma already in the buffer takes its final form.
			return Edit{Delete: len(o.Render()), Insert: o.Final()}
		}
		if diacritic {
			return Edit{}
		}
		return Edit{Insert: next.Render()}
	case Rho:
		if diacritic {
			if rhoBreathing {
				return Edit{Delete: len(o.Render()), Insert: next.Render()}
			}
			return Edit{}
		}
		return Edit{Insert: next.Render()}
	}

	if isVowel(old) {
		if diacritic {
			return Edit{Delete: len(old.Render()), Insert: next.Render()}
		}
		return Edit{Insert: next.Render()}
	}

	// Plain consonants ignore diacritic keys.
	if diacritic {
		return Edit{}
	}
	return Edit{Insert: next.Render()}
}
