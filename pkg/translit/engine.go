// Package translit turns Beta-code keystrokes into polytonic Greek one byte
// at a time. Only the glyph of the letter still open for diacritics is ever
// rewritten; everything before it is final, except that an open sigma takes
// its final form once the word ends.
package translit

import (
	"github.com/japaniel/polytonic/pkg/glyph"
)

// Options adjusts the engine away from the standard key bindings. The zero
// value is the standard behavior.
type Options struct {
	// Koronis renders an apostrophe typed at rest as U+1FBD instead of
	// passing it through.
	Koronis bool
	// RhoBreathing lets the breathing keys toggle on rho. Off by default,
	// rho's breathing is inert.
	RhoBreathing bool
	// FinalSigmaAtEOF gives a trailing sigma its final form when the input
	// ends. Without it only a following non-letter byte ends the word.
	FinalSigmaAtEOF bool
}

// Engine owns the open letter and the output buffer for one input stream.
// It is not safe for concurrent use; each stream gets its own Engine. The
// zero value is an engine with default options.
type Engine struct {
	opts  Options
	state State
	buf   []byte
}

// NewEngine returns an engine in the rest state with an empty buffer.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts, state: Rest{}}
}

// Options returns the options the engine was created with.
func (e *Engine) Options() Options { return e.opts }

// State returns the open letter, or Rest.
func (e *Engine) State() State {
	if e.state == nil {
		return Rest{}
	}
	return e.state
}

// Pending returns the byte length of the open glyph at the end of the
// buffer. Those bytes may still be rewritten.
func (e *Engine) Pending() int { return len(e.State().Render()) }

// Feed consumes one keystroke and returns the edit it made to the buffer.
func (e *Engine) Feed(b byte) Edit {
	next := transition(e.state, b, e.opts.RhoBreathing)
	ed := rewrite(e.state, next, b, e.opts.RhoBreathing)
	if IsRest(next) {
		ed = ed.Then(Edit{Insert: e.passthrough(b)})
	}
	ed.Apply(&e.buf)
	e.state = next
	return ed
}

func (e *Engine) passthrough(b byte) string {
	if b == '\'' && e.opts.Koronis {
		return glyph.Koronis
	}
	return string([]byte{b})
}

// Write feeds every byte of p. It never returns an error.
func (e *Engine) Write(p []byte) (int, error) {
	for _, b := range p {
		e.Feed(b)
	}
	return len(p), nil
}

// WriteString is Write for strings.
func (e *Engine) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		e.Feed(s[i])
	}
	return len(s), nil
}

// EndWord closes the open letter as if a word boundary had been typed,
// without emitting the boundary. An open sigma takes its final form.
func (e *Engine) EndWord() Edit {
	ed := rewrite(e.state, Rest{}, 0, e.opts.RhoBreathing)
	if _, ok := e.state.(Sigma); !ok {
		// Only sigma changes on a word end; the others would append "".
		ed = Edit{}
	}
	ed.Apply(&e.buf)
	e.state = Rest{}
	return ed
}

// Close ends the input. With FinalSigmaAtEOF it finalizes a trailing sigma,
// otherwise it only returns the engine to rest.
func (e *Engine) Close() Edit {
	if e.opts.FinalSigmaAtEOF {
		return e.EndWord()
	}
	e.state = Rest{}
	return Edit{}
}

// String returns the rendered text so far.
func (e *Engine) String() string { return string(e.buf) }

// Bytes returns a copy of the rendered text so far.
func (e *Engine) Bytes() []byte {
	out := make([]byte, len(e.buf))
	copy(out, e.buf)
	return out
}

// Len returns the byte length of the rendered text.
func (e *Engine) Len() int { return len(e.buf) }

// Reset empties the buffer and returns to rest. Options are kept.
func (e *Engine) Reset() {
	e.buf = e.buf[:0]
	e.state = Rest{}
}

// Compact drops the committed text, keeping only the open glyph. Callers
// that mirror the buffer from the returned edits use it to bound memory.
func (e *Engine) Compact() {
	e.discard(len(e.buf) - e.Pending())
}

// discard drops the first n bytes of the buffer. They must not overlap the
// pending glyph.
func (e *Engine) discard(n int) {
	if n <= 0 {
		return
	}
	e.buf = append(e.buf[:0], e.buf[n:]...)
}

// Transliterate converts a whole string with default options. Bytes
// that are neither letter nor diacritic keys pass through unchanged. A
// trailing sigma stays medial because no byte ended the word.
func Transliterate(s string) string {
	return TransliterateWith(s, Options{})
}

// TransliterateWith converts s using opts.
func TransliterateWith(s string, opts Options) string {
	e := NewEngine(opts)
	e.WriteString(s)
	e.Close()
	return e.String()
}
