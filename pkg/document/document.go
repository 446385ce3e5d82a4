package document

import (
	"strings"

	"github.com/japaniel/polytonic/pkg/translit"
)

// Version returns the current version of the package.
func Version() string { return "0.2.0" }

// Line is one converted line of a document.
type Line struct {
	Index int
	Latin string // Beta code as typed, including the trailing newline if any
	Greek string
}

// Document is a converted text.
type Document struct {
	Title string
	Lines []Line
}

// Greek returns the full converted text.
func (d Document) Greek() string {
	var b strings.Builder
	for _, l := range d.Lines {
		b.WriteString(l.Greek)
	}
	return b.String()
}

// Convert splits text into lines and converts each with opts. Every line
// gets a fresh engine, so nothing carries across a line break.
func Convert(text string, opts translit.Options) Document {
	var doc Document
	for i, l := range SplitLines(text) {
		doc.Lines = append(doc.Lines, Line{
			Index: i,
			Latin: l,
			Greek: translit.TransliterateWith(l, opts),
		})
	}
	return doc
}

// SplitLines splits text after every newline, keeping the newline with its
// line so that a sigma ending a line takes its final form.
func SplitLines(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
	return lines
}

// Words returns the Beta-code words in latin: runs that start with a letter
// key and continue through letter and diacritic keys.
func Words(latin string) []string {
	var words []string
	start := -1
	for i := 0; i < len(latin); i++ {
		b := latin[i]
		switch {
		case translit.IsLetterKey(b):
			if start < 0 {
				start = i
			}
		case translit.IsDiacriticKey(b) && start >= 0:
		default:
			if start >= 0 {
				words = append(words, latin[start:i])
				start = -1
			}
		}
	}
	if start >= 0 {
		words = append(words, latin[start:])
	}
	return words
}

// WordForm renders a single Beta-code word as it appears at the end of a
// word, with a trailing sigma in final form.
func WordForm(word string) string {
	return translit.TransliterateWith(word, translit.Options{FinalSigmaAtEOF: true})
}
