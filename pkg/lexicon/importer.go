package lexicon

import (
	"database/sql"

	"github.com/japaniel/polytonic/pkg/db"
	"github.com/japaniel/polytonic/pkg/logging"
)

// Importer fills in missing glosses for stored words.
type Importer struct {
	conn  *sql.DB
	index *Index
}

// NewImporter creates an importer backed by index.
func NewImporter(conn *sql.DB, index *Index) *Importer {
	return &Importer{conn: conn, index: index}
}

// ProcessUpdates looks up every word without a gloss and stores the gloss
// when the lexicon has one. It returns the number of words updated.
func (im *Importer) ProcessUpdates() (int, error) {
	// Read everything first; the connection may be limited to one.
	words, err := db.WordsWithoutGloss(im.conn)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, w := range words {
		gloss := im.index.Gloss(w.Greek)
		if gloss == "" {
			continue
		}
		if err := db.UpdateWordGloss(im.conn, w.ID, gloss); err != nil {
			logging.Warn("failed to update gloss", "word_id", w.ID, "error", err)
			continue
		}
		updated++
	}
	logging.Debug("lexicon updates applied", "candidates", len(words), "updated", updated)
	return updated, nil
}
