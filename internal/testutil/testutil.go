// Package testutil provides helpers for building temporary task directories
// in tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/t-hobson/trellis/internal/loader"
	"github.com/t-hobson/trellis/internal/task"
	"gopkg.in/yaml.v3"
)

// TaskDoc describes one task file to create. Zero-value fields are omitted
// from the frontmatter so defaults apply.
type TaskDoc struct {
	ID        string
	Title     string
	Kind      task.Kind
	Status    task.Status
	Priority  task.Priority
	Size      task.Size
	Executor  task.ExecutorTier
	Isolation task.Isolation
	Children  []string
	DependsOn []string
	Touches   []string
	Blocked   string
	Body      string

	// Filename overrides the canonical <id>.md name, for misnaming tests.
	Filename string
	// Bucket overrides the bucket derived from Status, for misfiling tests.
	Bucket string
}

// SetupTaskDir creates a temp directory with all bucket directories and the
// given documents, returning its path.
func SetupTaskDir(t *testing.T, docs ...TaskDoc) string {
	t.Helper()
	root := t.TempDir()
	for _, bucket := range loader.Buckets {
		if err := os.MkdirAll(filepath.Join(root, bucket), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", bucket, err)
		}
	}
	for _, doc := range docs {
		WriteTask(t, root, doc)
	}
	return root
}

// WriteTask renders one document and writes it into the task directory.
func WriteTask(t *testing.T, root string, doc TaskDoc) string {
	t.Helper()

	bucket := doc.Bucket
	if bucket == "" {
		bucket = loader.BucketForStatus(task.Status(statusOr(doc)))
	}
	name := doc.Filename
	if name == "" {
		name = doc.ID + ".md"
	}

	path := filepath.Join(root, bucket, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(Render(t, doc)), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Render produces the on-disk form of a TaskDoc. The body defaults to
// whatever sections the status requires, so fixtures validate cleanly
// unless a test says otherwise.
func Render(t *testing.T, doc TaskDoc) string {
	t.Helper()

	meta := map[string]any{
		"id":     doc.ID,
		"title":  titleOr(doc),
		"kind":   kindOr(doc),
		"status": statusOr(doc),
	}
	if doc.Priority != "" {
		meta["priority"] = string(doc.Priority)
	}
	if doc.Size != "" {
		meta["size"] = string(doc.Size)
	}
	if doc.Executor != "" {
		meta["executor"] = string(doc.Executor)
	}
	if doc.Isolation != "" {
		meta["isolation"] = string(doc.Isolation)
	}
	if len(doc.Children) > 0 {
		meta["children"] = doc.Children
	}
	if len(doc.DependsOn) > 0 {
		meta["depends_on"] = doc.DependsOn
	}
	if len(doc.Touches) > 0 {
		meta["touches"] = doc.Touches
	}
	if doc.Blocked != "" {
		meta["blocked_reason"] = doc.Blocked
	}

	encoded, err := yaml.Marshal(meta)
	if err != nil {
		t.Fatalf("marshal frontmatter: %v", err)
	}

	body := doc.Body
	if body == "" {
		body = defaultBody(task.Status(statusOr(doc)))
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(encoded)
	b.WriteString("---\n")
	if body != "" {
		b.WriteString("\n" + strings.TrimRight(body, "\n") + "\n")
	}
	return b.String()
}

func titleOr(doc TaskDoc) string {
	if doc.Title != "" {
		return doc.Title
	}
	return fmt.Sprintf("Task %s", doc.ID)
}

func kindOr(doc TaskDoc) string {
	if doc.Kind != "" {
		return string(doc.Kind)
	}
	return string(task.KindTask)
}

func statusOr(doc TaskDoc) string {
	if doc.Status != "" {
		return string(doc.Status)
	}
	return string(task.StatusReady)
}

func defaultBody(status task.Status) string {
	switch {
	case status == task.StatusDone:
		return "## Acceptance\n\nMet.\n\n## Outcome\n\nShipped.\n"
	case status.IsActive():
		return "## Acceptance\n\nDefined.\n"
	default:
		return "Notes.\n"
	}
}
