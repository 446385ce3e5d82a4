package db

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	if err := InitDB(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestChecksumStable(t *testing.T) {
	a := Checksum("mh=nin a)/eide")
	if a != Checksum("mh=nin a)/eide") {
		t.Fatalf("checksum not deterministic")
	}
	if a == Checksum("mh=nin a)/eide.") {
		t.Fatalf("different texts share a checksum")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestCreateOrGetWord(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	id1, err := CreateOrGetWord(db, "a)/eide", "ἄειδε")
	if err != nil {
		t.Fatalf("create word: %v", err)
	}
	// Breathing typed after the accent renders the same word.
	id2, err := CreateOrGetWord(db, "a/)eide", "ἄειδε")
	if err != nil {
		t.Fatalf("get word: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected same id, got %d and %d", id1, id2)
	}
	if _, err := CreateOrGetWord(db, "", "  "); err == nil {
		t.Fatalf("expected error for empty word")
	}
}

func TestCreateOrGetSource(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	sum := Checksum("qea\\")
	id1, err := CreateOrGetSource(db, "text", "Iliad", "Homer", "", sum, "")
	if err != nil {
		t.Fatalf("create source: %v", err)
	}
	id2, err := CreateOrGetSource(db, "text", "Other title", "", "", sum, "")
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected same source id, got %d and %d", id1, id2)
	}
	src, err := GetSource(db, id1)
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	if src.Title != "Iliad" || src.LastProcessedLine != -1 {
		t.Fatalf("unexpected source %+v", src)
	}
	if _, err := GetSource(db, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := CreateOrGetSource(db, " ", "", "", "", sum, ""); err == nil {
		t.Fatalf("expected error for empty source type")
	}
}

func TestSaveAndGetLines(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	sID, err := CreateOrGetSource(db, "text", "", "", "", Checksum("x"), "")
	if err != nil {
		t.Fatalf("create source: %v", err)
	}
	if _, err := SaveLine(db, sID, 1, "qea\\", "θεὰ"); err != nil {
		t.Fatalf("save line: %v", err)
	}
	first, err := SaveLine(db, sID, 0, "mh=nin", "μῆνιν")
	if err != nil {
		t.Fatalf("save line: %v", err)
	}
	again, err := SaveLine(db, sID, 0, "mh=nin ", "μῆνιν ")
	if err != nil {
		t.Fatalf("resave line: %v", err)
	}
	if first != again {
		t.Fatalf("expected upsert to keep id %d, got %d", first, again)
	}
	lines, err := GetLines(db, sID)
	if err != nil {
		t.Fatalf("get lines: %v", err)
	}
	if len(lines) != 2 || lines[0].Greek != "μῆνιν " || lines[1].Index != 1 {
		t.Fatalf("unexpected lines %+v", lines)
	}
}

func TestLinkAndQuery(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	wID, err := CreateOrGetWord(db, "qea\\", "θεὰ")
	if err != nil {
		t.Fatalf("create word: %v", err)
	}
	sID, err := CreateOrGetSource(db, "text", "", "", "", Checksum("b"), "")
	if err != nil {
		t.Fatalf("create source: %v", err)
	}
	lineID, err := SaveLine(db, sID, 0, "qea\\", "θεὰ")
	if err != nil {
		t.Fatalf("save line: %v", err)
	}
	if err := LinkWordToSource(db, wID, sID, lineID, 1); err != nil {
		t.Fatalf("link: %v", err)
	}
	// Link again to test occurrence_count increment via upsert
	if err := LinkWordToSource(db, wID, sID, 0, 2); err != nil {
		t.Fatalf("link 2: %v", err)
	}
	cnt, err := OccurrenceCount(db, wID, sID)
	if err != nil {
		t.Fatalf("query count: %v", err)
	}
	if cnt != 3 {
		t.Fatalf("expected occurrence_count=3, got %d", cnt)
	}
	var ctxLine sql.NullInt64
	if err := db.QueryRow(`SELECT context_line_id FROM word_sources WHERE word_id = ?`, wID).Scan(&ctxLine); err != nil {
		t.Fatalf("query context: %v", err)
	}
	if !ctxLine.Valid || ctxLine.Int64 != lineID {
		t.Fatalf("context line lost: %+v", ctxLine)
	}

	words, err := GetWordsBySource(db, sID)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(words) != 1 || words[0].Greek != "θεὰ" {
		t.Fatalf("unexpected words %+v", words)
	}

	if err := LinkWordToSource(db, wID, sID, 0, 0); err == nil {
		t.Fatalf("expected error for zero increment")
	}
}

func TestGlossUpdates(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	w1, _ := CreateOrGetWord(db, "qea\\", "θεὰ")
	w2, _ := CreateOrGetWord(db, "mh=nin", "μῆνιν")
	if err := UpdateWordGloss(db, w1, "goddess"); err != nil {
		t.Fatalf("update gloss: %v", err)
	}
	missing, err := WordsWithoutGloss(db)
	if err != nil {
		t.Fatalf("words without gloss: %v", err)
	}
	if len(missing) != 1 || missing[0].ID != w2 {
		t.Fatalf("unexpected missing %+v", missing)
	}
}

func TestProgress(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	sID, _ := CreateOrGetSource(db, "text", "", "", "", Checksum("p"), "")
	p, err := GetSourceProgress(db, sID)
	if err != nil || p != -1 {
		t.Fatalf("initial progress = %d, %v", p, err)
	}
	if err := UpdateSourceProgress(db, sID, 4); err != nil {
		t.Fatalf("update: %v", err)
	}
	if p, _ := GetSourceProgress(db, sID); p != 4 {
		t.Fatalf("progress = %d, want 4", p)
	}
	if _, err := GetSourceProgress(db, 12345); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateOrGetSourceConcurrency(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	const n = 8
	sum := Checksum("concurrent")
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		go func() {
			id, err := CreateOrGetSource(db, "text", "Title", "Author", "", sum, "")
			if err != nil {
				t.Errorf("create or get source: %v", err)
				ids <- 0
				return
			}
			ids <- id
		}()
	}
	var first int64
	for i := 0; i < n; i++ {
		id := <-ids
		if id == 0 {
			t.Fatalf("error in goroutine")
		}
		if i == 0 {
			first = id
		}
		if id != first {
			t.Fatalf("expected same id, got %d and %d", first, id)
		}
	}
	var cnt int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sources WHERE checksum = ?`, sum).Scan(&cnt); err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("expected 1 source row, got %d", cnt)
	}
}
