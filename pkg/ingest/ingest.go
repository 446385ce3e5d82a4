// Package ingest converts Beta-code sources line by line and stores the
// lines, their word forms and the word occurrence counts.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/japaniel/polytonic/pkg/db"
	"github.com/japaniel/polytonic/pkg/document"
	"github.com/japaniel/polytonic/pkg/lexicon"
	"github.com/japaniel/polytonic/pkg/translit"
)

// WorkerPoolInterface abstracts the worker pool so tests can inject failing implementations.
type WorkerPoolInterface interface {
	Start(ctx context.Context)
	Submit(Job) error
	// SubmitCtx attempts to enqueue a job but returns promptly if ctx is canceled.
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// Ingester handles the ingestion of converted lines into the database.
type Ingester struct {
	DB *sql.DB
	// Lexicon supplies glosses for new words. nil means no glosses.
	Lexicon   *lexicon.Index
	BatchSize int
	// Options configure the conversion of each line.
	Options translit.Options
	// Logger is used for informational messages (e.g. resume status). nil means no logging.
	Logger *slog.Logger
	// OnProgress is called periodically with the number of processed lines and total lines.
	OnProgress func(current, total int)

	Workers int

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface
}

// NewIngester creates a new Ingester.
func NewIngester(conn *sql.DB, lex *lexicon.Index) *Ingester {
	return &Ingester{
		DB:        conn,
		Lexicon:   lex,
		BatchSize: 50,
		Workers:   4,
	}
}

// wordData is one distinct word form of a line.
type wordData struct {
	Latin string
	Greek string
	Gloss string
	Count int
}

// processedLine is a converted line waiting to be written.
type processedLine struct {
	Index int
	Latin string
	Greek string
	Words []wordData
}

// Result counts what one Ingest call committed.
type Result struct {
	// Lines is the number of lines stored, excluding lines skipped on resume.
	Lines int
	// Links is the number of word occurrences linked.
	Links int
}

func (ig *Ingester) logf(msg string, args ...any) {
	if ig.Logger != nil {
		ig.Logger.Info(msg, args...)
	}
}

// Ingest converts lines and saves them using concurrent workers and batched
// writes. Lines are written in order and each commit records the progress,
// so a later call with the same sourceID resumes after the last stored
// line. The Result counts only lines whose batch committed, also when an
// error is returned.
func (ig *Ingester) Ingest(ctx context.Context, sourceID int64, lines []string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	lastProcessed, err := db.GetSourceProgress(ig.DB, sourceID)
	if err != nil {
		return Result{}, fmt.Errorf("read progress: %w", err)
	}
	if lastProcessed >= 0 {
		ig.logf("resuming ingestion", "source_id", sourceID, "line", lastProcessed+1)
	}

	total := len(lines)
	startIdx := lastProcessed + 1
	if startIdx >= total {
		return Result{}, nil
	}

	workers := ig.Workers
	if workers <= 0 {
		workers = 1
	}
	batchSize := ig.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	var wp WorkerPoolInterface
	if ig.PoolFactory != nil {
		wp = ig.PoolFactory(workers, workers*2)
	} else {
		wp = NewWorkerPool(workers, workers*2)
	}
	resultCh := make(chan processedLine, workers*2)
	doneCh := make(chan error, 1)

	// Updated by the batch writer once a line's batch has committed.
	var storedLines, totalLinks int64

	bw := NewBatchWriter(ig.DB, batchSize, 100*time.Millisecond)
	var batchErr error
	var batchErrMu sync.Mutex
	bw.OnError = func(e error) {
		batchErrMu.Lock()
		if batchErr == nil {
			batchErr = e
		}
		batchErrMu.Unlock()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wp.Start(ctx)

	// The consumer reorders results and submits them to the batch writer.
	go func() {
		defer close(doneCh)
		buffer := make(map[int]processedLine)
		nextIdx := startIdx

		drain := func() error {
			for {
				item, ok := buffer[nextIdx]
				if !ok {
					return nil
				}
				delete(buffer, nextIdx)
				links := int64(item.links())
				committed := func() {
					atomic.AddInt64(&storedLines, 1)
					atomic.AddInt64(&totalLinks, links)
				}
				if err := bw.SubmitCommitted(ig.writeLine(sourceID, item), committed); err != nil {
					return err
				}
				if ig.OnProgress != nil && (nextIdx+1)%batchSize == 0 {
					ig.OnProgress(nextIdx+1, total)
				}
				nextIdx++
			}
		}

		for {
			select {
			case <-ctx.Done():
				doneCh <- ctx.Err()
				return
			case res, ok := <-resultCh:
				if !ok {
					if ig.OnProgress != nil && nextIdx == total {
						ig.OnProgress(total, total)
					}
					doneCh <- nil
					return
				}
				buffer[res.Index] = res
				if err := drain(); err != nil {
					cancel()
					doneCh <- err
					return
				}
			}
		}
	}()

	var submitErr error
Loop:
	for i := startIdx; i < total; i++ {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		idx, line := i, lines[i]
		job := func(ctx context.Context) error {
			res := ig.processLine(idx, line)
			select {
			case resultCh <- res:
			case <-ctx.Done():
			}
			return nil
		}

		if err := wp.SubmitCtx(ctx, job); err != nil {
			if err == ctx.Err() || err == ErrPoolClosed {
				break Loop
			}
			submitErr = err
			cancel()
			break Loop
		}
	}

	// All workers are gone once Close returns, so nothing sends on resultCh.
	wp.Close()
	close(resultCh)

	consumerErr := <-doneCh
	if err := bw.Close(); err != nil && consumerErr == nil {
		consumerErr = err
	}

	batchErrMu.Lock()
	if batchErr != nil && consumerErr == nil {
		consumerErr = batchErr
	}
	batchErrMu.Unlock()
	if consumerErr == nil && ctx.Err() != nil {
		// Canceled by the caller before every line was queued.
		consumerErr = ctx.Err()
	}

	res := Result{
		Lines: int(atomic.LoadInt64(&storedLines)),
		Links: int(atomic.LoadInt64(&totalLinks)),
	}
	if submitErr != nil {
		return res, fmt.Errorf("submit line: %w", submitErr)
	}
	return res, consumerErr
}

// writeLine returns the batched write for one line: the line itself, its
// words and links, and the progress checkpoint.
func (ig *Ingester) writeLine(sourceID int64, item processedLine) WriteFunc {
	return func(ctx context.Context, tx *sql.Tx) error {
		lineID, err := db.SaveLine(tx, sourceID, item.Index, item.Latin, item.Greek)
		if err != nil {
			return err
		}
		for _, w := range item.Words {
			wordID, err := db.CreateOrGetWord(tx, w.Latin, w.Greek)
			if err != nil {
				return fmt.Errorf("failed to persist word %s: %w", w.Latin, err)
			}
			if w.Gloss != "" {
				if err := db.UpdateWordGloss(tx, wordID, w.Gloss); err != nil {
					return fmt.Errorf("failed to gloss word %d: %w", wordID, err)
				}
			}
			if err := db.LinkWordToSource(tx, wordID, sourceID, lineID, w.Count); err != nil {
				return fmt.Errorf("failed to link word %d: %w", wordID, err)
			}
		}
		if err := db.UpdateSourceProgress(tx, sourceID, item.Index); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}
		return nil
	}
}

// links is the number of word occurrences in the line.
func (p processedLine) links() int {
	n := 0
	for _, w := range p.Words {
		n += w.Count
	}
	return n
}

// processLine converts one line and counts its distinct word forms.
func (ig *Ingester) processLine(index int, line string) processedLine {
	counts := make(map[string]int)
	var words []wordData
	for _, latin := range document.Words(line) {
		greek := document.WordForm(latin)
		if _, seen := counts[greek]; !seen {
			words = append(words, wordData{Latin: latin, Greek: greek})
		}
		counts[greek]++
	}
	for i := range words {
		words[i].Count = counts[words[i].Greek]
		if ig.Lexicon != nil {
			words[i].Gloss = ig.Lexicon.Gloss(words[i].Greek)
		}
	}
	return processedLine{
		Index: index,
		Latin: line,
		Greek: translit.TransliterateWith(line, ig.Options),
		Words: words,
	}
}
