package translit

import (
	"golang.org/x/text/transform"
)

// Transformer adapts an Engine to transform.Transformer so Beta code can be
// converted on the fly by transform.NewReader and friends. The open glyph is
// held back until it can no longer change.
type Transformer struct {
	e *Engine
}

var _ transform.Transformer = (*Transformer)(nil)

// NewTransformer returns a Transformer using opts.
func NewTransformer(opts Options) *Transformer {
	return &Transformer{e: NewEngine(opts)}
}

// Transform implements transform.Transformer.
func (t *Transformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for {
		n, short := t.drain(dst[nDst:], false)
		nDst += n
		if short {
			return nDst, nSrc, transform.ErrShortDst
		}
		if nSrc == len(src) {
			break
		}
		t.e.Feed(src[nSrc])
		nSrc++
	}
	if !atEOF {
		return nDst, nSrc, nil
	}
	t.e.Close()
	n, short := t.drain(dst[nDst:], true)
	nDst += n
	if short {
		return nDst, nSrc, transform.ErrShortDst
	}
	return nDst, nSrc, nil
}

// drain copies committed output into dst. With all set the pending glyph
// is included too. short reports that dst filled before everything fit.
func (t *Transformer) drain(dst []byte, all bool) (n int, short bool) {
	ready := t.e.Len()
	if !all {
		ready -= t.e.Pending()
	}
	n = copy(dst, t.e.buf[:ready])
	t.e.discard(n)
	return n, n < ready
}

// Reset implements transform.Transformer.
func (t *Transformer) Reset() { t.e.Reset() }
