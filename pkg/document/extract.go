package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/go-shiori/go-readability"
)

// ErrEmptyInput is returned when a source yields no text to convert.
var ErrEmptyInput = errors.New("no text found")

// Article is text pulled out of a web page or XML edition.
type Article struct {
	Title    string
	Byline   string
	SiteName string
	Text     string
}

// maxBodySize bounds fetched pages.
const maxBodySize = 10 * 1024 * 1024

// Fetch downloads rawURL with a browser-like request and returns the body.
func Fetch(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) polytonic/"+Version())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	if resp.ContentLength > maxBodySize {
		return nil, fmt.Errorf("content-length %d exceeds limit of %d bytes", resp.ContentLength, maxBodySize)
	}

	// Read one byte past the limit to tell a full body from a truncated one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("response body exceeded maximum size limit of %d bytes", maxBodySize)
	}
	return body, nil
}

// ExtractHTML pulls the main text out of an HTML page.
func ExtractHTML(r io.Reader, pageURL *url.URL) (Article, error) {
	article, err := readability.FromReader(r, pageURL)
	if err != nil {
		return Article{}, fmt.Errorf("extract article: %w", err)
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return Article{}, ErrEmptyInput
	}
	return Article{
		Title:    article.Title,
		Byline:   article.Byline,
		SiteName: article.SiteName,
		Text:     text,
	}, nil
}

// ExtractTEI pulls verse lines and paragraphs out of a TEI edition. Each
// <l> or <p> under <text> becomes one line.
func ExtractTEI(r io.Reader) (Article, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return Article{}, fmt.Errorf("parse xml: %w", err)
	}

	var a Article
	if n, err := xmlquery.Query(doc, "//*[local-name()='teiHeader']//*[local-name()='title']"); err == nil && n != nil {
		a.Title = strings.TrimSpace(n.InnerText())
	}
	if n, err := xmlquery.Query(doc, "//*[local-name()='teiHeader']//*[local-name()='author']"); err == nil && n != nil {
		a.Byline = strings.TrimSpace(n.InnerText())
	}

	nodes, err := xmlquery.QueryAll(doc, "//*[local-name()='text']//*[local-name()='l' or local-name()='p']")
	if err != nil {
		return Article{}, fmt.Errorf("query text: %w", err)
	}
	var buf bytes.Buffer
	for _, n := range nodes {
		line := strings.Join(strings.Fields(n.InnerText()), " ")
		if line == "" {
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if buf.Len() == 0 {
		return Article{}, ErrEmptyInput
	}
	a.Text = buf.String()
	return a, nil
}
