package db

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zeebo/blake3"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// isUniqueConstraintErr returns true when the error indicates a unique/constraint violation
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique") || strings.Contains(s, "constraint failed")
}

// Checksum returns the hex BLAKE3 digest identifying a source text.
func Checksum(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// CreateOrGetSource returns the id of the source with the given checksum,
// inserting it when missing.
func CreateOrGetSource(db DBExecutor, sourceType, title, author, url, checksum, meta string) (int64, error) {
	trimmedSourceType := strings.TrimSpace(sourceType)
	if trimmedSourceType == "" {
		return 0, fmt.Errorf("sourceType must be non-empty")
	}
	if checksum == "" {
		return 0, fmt.Errorf("checksum must be non-empty")
	}

	const maxRetries = 3

	var id int64
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := db.QueryRow(`SELECT id FROM sources WHERE checksum = ?`, checksum).Scan(&id)
		if err == nil {
			return id, nil
		}
		if err != sql.ErrNoRows {
			return 0, err
		}

		res, err := db.Exec(
			`INSERT INTO sources (source_type, title, author, url, checksum, meta) VALUES (?, ?, ?, ?, ?, ?)`,
			trimmedSourceType, title, author, url, checksum, meta,
		)
		if err != nil {
			// Another writer inserted the same checksum first; select it.
			if isUniqueConstraintErr(err) {
				continue
			}
			return 0, err
		}
		return res.LastInsertId()
	}

	return 0, fmt.Errorf("could not create or get source after %d retries", maxRetries)
}

// GetSource loads a source by id.
func GetSource(db DBExecutor, id int64) (Source, error) {
	var s Source
	var title, author, url, meta sql.NullString
	var added sql.NullTime
	err := db.QueryRow(`SELECT id, source_type, title, author, url, checksum, meta, last_processed_line, added_at FROM sources WHERE id = ?`, id).
		Scan(&s.ID, &s.SourceType, &title, &author, &url, &s.Checksum, &meta, &s.LastProcessedLine, &added)
	if err == sql.ErrNoRows {
		return Source{}, fmt.Errorf("source %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Source{}, err
	}
	s.Title, s.Author, s.URL, s.Meta = title.String, author.String, url.String, meta.String
	if added.Valid {
		s.AddedAt = added.Time
	}
	return s, nil
}

// SaveLine stores the converted line idx of a source, replacing an earlier
// conversion of the same line.
func SaveLine(db DBExecutor, sourceID int64, idx int, latin, greek string) (int64, error) {
	if sourceID <= 0 {
		return 0, fmt.Errorf("sourceID must be positive")
	}
	var id int64
	err := db.QueryRow(`INSERT INTO lines (source_id, idx, latin, greek) VALUES (?, ?, ?, ?)
	ON CONFLICT(source_id, idx) DO UPDATE SET latin = excluded.latin, greek = excluded.greek
	RETURNING id`, sourceID, idx, latin, greek).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert line %d: %w", idx, err)
	}
	return id, nil
}

// GetLines returns the stored lines of a source in order.
func GetLines(db DBExecutor, sourceID int64) ([]Line, error) {
	rows, err := db.Query(`SELECT id, source_id, idx, latin, greek FROM lines WHERE source_id = ? ORDER BY idx`, sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.SourceID, &l.Index, &l.Latin, &l.Greek); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CreateOrGetWord returns the id of the word rendered as greek, inserting it
// when missing. Different key orders that render the same glyphs share a row.
func CreateOrGetWord(db DBExecutor, latin, greek string) (int64, error) {
	trimmed := strings.TrimSpace(greek)
	if trimmed == "" {
		return 0, fmt.Errorf("word must be non-empty")
	}

	var id int64
	query := `INSERT INTO words (latin, greek) VALUES (?, ?)
			  ON CONFLICT(greek) DO UPDATE SET greek = excluded.greek
			  RETURNING id`
	if err := db.QueryRow(query, latin, trimmed).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert word: %w", err)
	}
	return id, nil
}

// LinkWordToSource links the word and source, adding incrementAmount to the
// occurrence count. lineID is the line the word was last seen in, 0 for none.
func LinkWordToSource(db DBExecutor, wordID, sourceID, lineID int64, incrementAmount int) error {
	if wordID <= 0 {
		return fmt.Errorf("wordID must be positive")
	}
	if sourceID <= 0 {
		return fmt.Errorf("sourceID must be positive")
	}
	if incrementAmount < 1 {
		return fmt.Errorf("incrementAmount must be positive, got %d", incrementAmount)
	}

	_, err := db.Exec(`INSERT INTO word_sources (word_id, source_id, context_line_id, occurrence_count, first_seen_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(word_id, source_id) DO UPDATE SET
	  occurrence_count = word_sources.occurrence_count + excluded.occurrence_count,
	  context_line_id = COALESCE(excluded.context_line_id, word_sources.context_line_id)`,
		wordID, sourceID, nullableInt64(lineID), incrementAmount, time.Now())
	return err
}

// nullableInt64 returns nil for 0 (meaning no line) else the value.
func nullableInt64(v int64) interface{} {
	if v == 0 {
		return nil
	}
	return v
}

// OccurrenceCount returns how often a word was seen in a source.
func OccurrenceCount(db DBExecutor, wordID, sourceID int64) (int, error) {
	var n int
	err := db.QueryRow(`SELECT occurrence_count FROM word_sources WHERE word_id = ? AND source_id = ?`, wordID, sourceID).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return n, err
}

// UpdateWordGloss sets the gloss of a word.
func UpdateWordGloss(db DBExecutor, wordID int64, gloss string) error {
	if wordID <= 0 {
		return fmt.Errorf("wordID must be positive")
	}
	_, err := db.Exec(`UPDATE words SET gloss = ? WHERE id = ?`, gloss, wordID)
	return err
}

func scanWords(rows *sql.Rows) ([]Word, error) {
	defer rows.Close()
	var out []Word
	for rows.Next() {
		var w Word
		var gloss sql.NullString
		if err := rows.Scan(&w.ID, &w.Latin, &w.Greek, &gloss); err != nil {
			return nil, err
		}
		if gloss.Valid {
			w.Gloss = gloss.String
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetWordsBySource returns words associated with a given source id.
func GetWordsBySource(db DBExecutor, sourceID int64) ([]Word, error) {
	rows, err := db.Query(`SELECT w.id, w.latin, w.greek, w.gloss FROM words w JOIN word_sources ws ON ws.word_id = w.id WHERE ws.source_id = ? ORDER BY w.id`, sourceID)
	if err != nil {
		return nil, err
	}
	return scanWords(rows)
}

// WordsWithoutGloss returns every word whose gloss is still empty.
func WordsWithoutGloss(db DBExecutor) ([]Word, error) {
	rows, err := db.Query(`SELECT id, latin, greek, gloss FROM words WHERE gloss IS NULL OR gloss = '' ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return scanWords(rows)
}

// GetSourceProgress returns the last processed line index for a source, -1
// when nothing was processed yet.
func GetSourceProgress(db DBExecutor, sourceID int64) (int, error) {
	var index int
	err := db.QueryRow("SELECT last_processed_line FROM sources WHERE id = ?", sourceID).Scan(&index)
	if err == sql.ErrNoRows {
		return -1, fmt.Errorf("source %d: %w", sourceID, ErrNotFound)
	}
	if err != nil {
		return -1, err
	}
	return index, nil
}

// UpdateSourceProgress updates the last processed line index.
func UpdateSourceProgress(db DBExecutor, sourceID int64, index int) error {
	_, err := db.Exec("UPDATE sources SET last_processed_line = ? WHERE id = ?", index, sourceID)
	return err
}
