// Package loader reads and writes the on-disk task forest.
//
// Each task is one markdown file with a yaml frontmatter block followed by a
// free-text body, stored under a lifecycle bucket directory. The loader
// reads the whole forest once per command invocation; there is no caching
// between invocations. Files that fail to read or parse are collected as
// ParseFailures and folded into the validation stream instead of aborting
// the run.
package loader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/t-hobson/trellis/internal/errors"
	"github.com/t-hobson/trellis/internal/task"
	"gopkg.in/yaml.v3"
)

// Buckets are the lifecycle directories, in load order. Load order is the
// canonical document order for streaming validation and event emission.
var Buckets = []string{"ideas", "backlog", "current", "done", "archive"}

// BucketForStatus returns the bucket a document with the given status
// belongs in. Used by repair to move misfiled documents.
func BucketForStatus(s task.Status) string {
	switch s {
	case task.StatusIdea:
		return "ideas"
	case task.StatusReady:
		return "backlog"
	case task.StatusInProgress:
		return "current"
	case task.StatusDone:
		return "done"
	case task.StatusCanceled:
		return "archive"
	default:
		return "backlog"
	}
}

// Entry is one scanned file in canonical order. Exactly one of Doc and
// Failure is set. The validation stream consumes entries so parse failures
// keep their position between successfully parsed neighbors.
type Entry struct {
	File    string
	Bucket  string
	Doc     *task.Document
	Failure *task.ParseFailure
}

// Result is the outcome of loading a task directory: the successfully
// parsed documents in canonical order, plus per-file failures, plus the
// merged per-file entry list preserving scan order.
type Result struct {
	// Docs are the parsed documents, ordered by bucket then filename.
	Docs []*task.Document

	// Failures records files that could not be read or parsed.
	Failures []task.ParseFailure

	// Entries merges Docs and Failures in scan order.
	Entries []Entry
}

// Load reads every task document under root's bucket directories.
// Missing buckets are skipped; only *.md files are considered. A file that
// fails to read or parse becomes a ParseFailure, never an error return —
// the only error condition is root itself being unusable.
func Load(root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("task directory: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.ErrNotTaskDir
	}

	res := &Result{}
	for _, bucket := range Buckets {
		dir := filepath.Join(root, bucket)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			res.Failures = append(res.Failures, task.ParseFailure{
				File:   dir,
				Reason: err.Error(),
			})
			continue
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)

		for _, name := range names {
			path := filepath.Join(dir, name)
			doc, err := LoadFile(path, bucket)
			if err != nil {
				failure := task.ParseFailure{
					File:   path,
					Reason: err.Error(),
				}
				res.Failures = append(res.Failures, failure)
				res.Entries = append(res.Entries, Entry{File: path, Bucket: bucket, Failure: &failure})
				continue
			}
			res.Docs = append(res.Docs, doc)
			res.Entries = append(res.Entries, Entry{File: path, Bucket: bucket, Doc: doc})
		}
	}

	return res, nil
}

// LoadFile reads and parses a single task document.
func LoadFile(path, bucket string) (*task.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewLoadError(path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.NewLoadError(path, err)
	}
	doc.Path = path
	doc.Bucket = bucket
	return doc, nil
}

const frontmatterFence = "---"

// Parse splits raw file content into frontmatter metadata and body.
// The document must start with a "---" fence on its own line; the body is
// everything after the closing fence, with one leading blank line trimmed.
func Parse(data []byte) (*task.Document, error) {
	text := string(data)
	lines := strings.SplitAfter(text, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r\n") != frontmatterFence {
		return nil, errors.ErrMissingFrontmatter
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r\n") == frontmatterFence {
			closing = i
			break
		}
	}
	if closing < 0 {
		return nil, errors.ErrUnterminatedFrontmatter
	}

	meta := strings.Join(lines[1:closing], "")
	body := strings.Join(lines[closing+1:], "")
	body = strings.TrimPrefix(body, "\n")

	var t task.Task
	if err := yaml.Unmarshal([]byte(meta), &t); err != nil {
		return nil, fmt.Errorf("frontmatter: %w", err)
	}

	return &task.Document{Task: t, Body: body}, nil
}

// Serialize renders a document back to its on-disk form. Output is
// deterministic: frontmatter keys follow struct field order, the body is
// separated from the closing fence by one blank line, and the file ends
// with exactly one trailing newline.
func Serialize(doc *task.Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(frontmatterFence + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc.Task); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}

	buf.WriteString(frontmatterFence + "\n")

	body := strings.TrimRight(doc.Body, "\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// Write serializes the document and writes it to its Path.
func Write(doc *task.Document) error {
	data, err := Serialize(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(doc.Path, data, 0644); err != nil {
		return errors.NewLoadError(doc.Path, err)
	}
	return nil
}
