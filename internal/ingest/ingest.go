// Package ingest loads the two pipeline inputs: a resume record from a JSON
// file and a job description from a text file or a URL.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/resume-tailor/internal/schema"
	"github.com/jonathan/resume-tailor/internal/types"
)

// DefaultTimeout is the HTTP request timeout for job posting fetches.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies fetches made on behalf of the CLI.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeTailor/1.0)"

// Error represents a failure to load or parse an input.
type Error struct {
	Source  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ingest error for %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("ingest error for %s: %s", e.Source, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// binaryExtensions lists document formats that need dedicated parsers. They
// are rejected up front instead of being fed to the model as raw bytes.
var binaryExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".odt":  true,
	".rtf":  true,
}

// LoadResume reads a resume JSON file and structurally validates it.
func LoadResume(path string) (*types.ResumeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Source: path, Message: "failed to read resume file", Cause: err}
	}

	if err := schema.Check(data, schema.KindResume); err != nil {
		return nil, &Error{Source: path, Message: "resume does not match expected structure", Cause: err}
	}

	var record types.ResumeRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, &Error{Source: path, Message: "failed to parse resume JSON", Cause: err}
	}
	return &record, nil
}

// JobFromFile reads a plain-text job description from disk. Binary document
// formats are rejected with a hint to convert them first.
func JobFromFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if binaryExtensions[ext] {
		return "", &Error{
			Source:  path,
			Message: fmt.Sprintf("%s files are not supported, convert the posting to plain text first", ext),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &Error{Source: path, Message: "failed to read job description file", Cause: err}
	}
	if bytes.ContainsRune(data, 0) {
		return "", &Error{Source: path, Message: "file looks binary, expected plain text"}
	}

	text := CleanText(string(data))
	if text == "" {
		return "", &Error{Source: path, Message: "job description file is empty"}
	}
	return text, nil
}

// FetchOptions configures job posting fetches.
type FetchOptions struct {
	Timeout   time.Duration
	UserAgent string
}

// JobFromURL downloads a job posting page and extracts its main text.
func JobFromURL(ctx context.Context, rawURL string, opts *FetchOptions) (string, error) {
	if opts == nil {
		opts = &FetchOptions{}
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &Error{Source: rawURL, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &Error{Source: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", &Error{Source: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{Source: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Source: rawURL, Message: "failed to read response body", Cause: err}
	}

	text, err := extractMainText(string(body))
	if err != nil {
		return "", &Error{Source: rawURL, Message: "failed to extract page text", Cause: err}
	}
	if text == "" {
		return "", &Error{Source: rawURL, Message: "page contained no readable text"}
	}
	return text, nil
}

// jobContentSelectors are tried in order before falling back to <body>.
var jobContentSelectors = []string{
	".job-description",
	".job-content",
	"#job-description",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
	".content",
	"#content",
}

// extractMainText parses HTML, strips navigation and script noise, and
// returns the text of the most specific matching content container.
func extractMainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .ads, .sidebar, .cookie-banner, .popup").Remove()

	var content *goquery.Selection
	for _, selector := range jobContentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	return CleanText(content.Text()), nil
}

var multiSpace = regexp.MustCompile(`[ \t]+`)
var excessiveBlankLines = regexp.MustCompile(`\n\n\n+`)

// CleanText normalizes line endings and whitespace while keeping the line
// structure of the posting intact.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = multiSpace.ReplaceAllString(line, " ")
		cleaned = append(cleaned, line)
	}

	result := strings.Join(cleaned, "\n")
	result = excessiveBlankLines.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}
