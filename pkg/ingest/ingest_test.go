package ingest

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"

	"github.com/japaniel/polytonic/pkg/db"
	"github.com/japaniel/polytonic/pkg/document"
	"github.com/japaniel/polytonic/pkg/lexicon"
	"github.com/japaniel/polytonic/pkg/translit"
	_ "github.com/mattn/go-sqlite3"
)

const iliad = "mh=nin a)/eide qea\\ Phlhi\"a/dew A)cilh=os\n" +
	"oy)lome/nhn, h(\\ myri/' A)caioi=s a)/lge' e)/qhke,\n"

func setupDB(t *testing.T) *sql.DB {
	conn, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	return conn
}

func newSource(t *testing.T, conn *sql.DB, text string) int64 {
	t.Helper()
	id, err := db.CreateOrGetSource(conn, "test", "Iliad", "Homer", "", db.Checksum(text), "")
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestIngestStoresLinesAndWords(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	sourceID := newSource(t, conn, iliad)

	lex := lexicon.NewIndex([]lexicon.Entry{{Word: "mh=nis", Gloss: "wrath"}, {Word: "mh=nin", Gloss: "wrath (acc.)"}})
	ingester := NewIngester(conn, lex)
	ingester.BatchSize = 1

	var mu sync.Mutex
	var progress []int
	ingester.OnProgress = func(current, total int) {
		mu.Lock()
		progress = append(progress, current)
		mu.Unlock()
	}

	res, err := ingester.Ingest(context.Background(), sourceID, document.SplitLines(iliad))
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	// 5 words on the first line, 6 on the second.
	if res.Links != 11 {
		t.Errorf("expected 11 linked occurrences, got %d", res.Links)
	}
	if res.Lines != 2 {
		t.Errorf("expected 2 stored lines, got %d", res.Lines)
	}

	lines, err := db.GetLines(conn, sourceID)
	if err != nil {
		t.Fatalf("GetLines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	want := translit.Transliterate(iliad)
	if got := lines[0].Greek + lines[1].Greek; got != want {
		t.Errorf("stored greek = %q, want %q", got, want)
	}

	words, err := db.GetWordsBySource(conn, sourceID)
	if err != nil {
		t.Fatalf("GetWordsBySource: %v", err)
	}
	var found bool
	for _, w := range words {
		if w.Greek == "μῆνιν" {
			found = true
			if w.Gloss != "wrath (acc.)" {
				t.Errorf("gloss = %q", w.Gloss)
			}
		}
		if strings.ContainsRune(w.Greek, 'σ') && strings.HasSuffix(w.Greek, "σ") {
			t.Errorf("word form %q ends in medial sigma", w.Greek)
		}
	}
	if !found {
		t.Errorf("μῆνιν not stored, got %+v", words)
	}

	progressIdx, err := db.GetSourceProgress(conn, sourceID)
	if err != nil {
		t.Fatal(err)
	}
	if progressIdx != 1 {
		t.Errorf("expected progress 1, got %d", progressIdx)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(progress) == 0 || progress[len(progress)-1] != 2 {
		t.Errorf("unexpected progress reports %v", progress)
	}
}

func TestIngestCountsRepeatedWords(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	text := "lo/gos lo/gos\nlo/gos\n"
	sourceID := newSource(t, conn, text)

	if _, err := NewIngester(conn, nil).Ingest(context.Background(), sourceID, document.SplitLines(text)); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	words, err := db.GetWordsBySource(conn, sourceID)
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 1 {
		t.Fatalf("expected 1 distinct word, got %+v", words)
	}
	n, err := db.OccurrenceCount(conn, words[0].ID, sourceID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 occurrences, got %d", n)
	}
}

func TestIngestResume(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	lines := make([]string, 10)
	for i := range lines {
		lines[i] = "qea/\n"
	}
	sourceID := newSource(t, conn, strings.Join(lines, ""))

	// Lines 0 through 4 count as done.
	if err := db.UpdateSourceProgress(conn, sourceID, 4); err != nil {
		t.Fatal(err)
	}

	ingester := NewIngester(conn, nil)
	ingester.BatchSize = 2

	res, err := ingester.Ingest(context.Background(), sourceID, lines)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	// Only the lines after the checkpoint are reported.
	if res != (Result{Lines: 5, Links: 5}) {
		t.Errorf("Expected 5 lines and 5 links, got %+v", res)
	}

	// Nothing is left on a second run.
	res, err = ingester.Ingest(context.Background(), sourceID, lines)
	if err != nil || res != (Result{}) {
		t.Errorf("second run: %+v err %v", res, err)
	}
}

func TestIngestContextCancel(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	sourceID := newSource(t, conn, "cancel")

	lines := make([]string, 100)
	for i := range lines {
		lines[i] = "a)nh/r\n"
	}

	ingester := NewIngester(conn, nil)
	ingester.BatchSize = 10

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := ingester.Ingest(ctx, sourceID, lines)
	if res != (Result{}) {
		t.Errorf("Expected nothing stored with cancelled context, got %+v", res)
	}
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled error, got %v", err)
	}
}

func TestIngestCountsOnlyCommittedLines(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	lines := make([]string, 6)
	for i := range lines {
		lines[i] = "qea\\ qea/\n"
	}
	sourceID := newSource(t, conn, strings.Join(lines, ""))

	// Every line from index 3 on fails inside its batch.
	if _, err := conn.Exec(`CREATE TRIGGER reject_late_lines BEFORE INSERT ON lines
		WHEN NEW.idx >= 3 BEGIN SELECT RAISE(ABORT, 'line rejected'); END`); err != nil {
		t.Fatal(err)
	}

	ingester := NewIngester(conn, nil)
	ingester.BatchSize = 1
	ingester.Workers = 1

	res, err := ingester.Ingest(context.Background(), sourceID, lines)
	if err == nil || !strings.Contains(err.Error(), "line rejected") {
		t.Fatalf("expected the rejected batch error, got %v", err)
	}
	// Two links per stored line; the rolled back lines add nothing.
	if res != (Result{Lines: 3, Links: 6}) {
		t.Errorf("got %+v, want 3 lines and 6 links", res)
	}
	stored, err := db.GetLines(conn, sourceID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != res.Lines {
		t.Errorf("database holds %d lines, result reports %d", len(stored), res.Lines)
	}
}

func TestIngestUnknownSource(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	if _, err := NewIngester(conn, nil).Ingest(context.Background(), 42, []string{"a\n"}); err == nil {
		t.Fatalf("expected error for unknown source")
	}
}

func TestProcessLineUsesOptions(t *testing.T) {
	ig := NewIngester(nil, nil)
	ig.Options = translit.Options{Koronis: true}
	res := ig.processLine(3, "ta)/lla t'\n")
	if res.Index != 3 {
		t.Errorf("index = %d", res.Index)
	}
	if res.Greek != "τἄλλα τ᾽\n" {
		t.Errorf("greek = %q", res.Greek)
	}
	if len(res.Words) != 2 || res.Words[1].Greek != "τ" {
		t.Errorf("words = %+v", res.Words)
	}
}
