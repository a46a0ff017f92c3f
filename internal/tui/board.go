// Package tui implements the read-only board browser: the loaded forest
// grouped by lifecycle bucket, with a detail pane for the selected task.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/t-hobson/trellis/internal/task"
	"github.com/t-hobson/trellis/internal/util"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))
	bucketStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#60A5FA"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9FAFB")).Background(lipgloss.Color("#1F2937"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	blockStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// row is one selectable line: either a bucket header or a document.
type row struct {
	bucket string
	doc    *task.Document
}

// Model is the bubbletea model for the board.
type Model struct {
	rows   []row
	cursor int
	detail viewport.Model
	width  int
	height int
	ready  bool
}

// NewModel builds the board over the loaded documents, which must already be
// in bucket order.
func NewModel(docs []*task.Document) Model {
	m := Model{}
	bucket := ""
	for _, doc := range docs {
		if doc.Bucket != bucket {
			bucket = doc.Bucket
			m.rows = append(m.rows, row{bucket: bucket})
		}
		m.rows = append(m.rows, row{doc: doc})
	}
	m.cursor = m.firstDoc(0)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail = viewport.New(msg.Width/2-2, msg.Height-4)
		m.ready = true
		m.syncDetail()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "j", "down":
			m.cursor = m.nextDoc(m.cursor)
			m.syncDetail()
		case "k", "up":
			m.cursor = m.prevDoc(m.cursor)
			m.syncDetail()
		case "g":
			m.cursor = m.firstDoc(0)
			m.syncDetail()
		case "ctrl+d":
			m.detail.HalfPageDown()
		case "ctrl+u":
			m.detail.HalfPageUp()
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	if len(m.rows) == 0 {
		return mutedStyle.Render("no tasks found") + "\n" + helpStyle.Render("q quit")
	}

	left := m.renderList()
	right := m.detail.View()
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.width/2).Render(left),
		right,
	)
	return headerStyle.Render("trellis board") + "\n" + body + "\n" +
		helpStyle.Render("j/k move · ctrl+d/u scroll detail · q quit")
}

// renderList draws the bucket-grouped task list with the cursor row
// highlighted.
func (m Model) renderList() string {
	var b strings.Builder
	visible := m.height - 4
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}

	for i := start; i < len(m.rows) && i-start < visible; i++ {
		r := m.rows[i]
		if r.bucket != "" {
			b.WriteString(bucketStyle.Render(r.bucket+"/") + "\n")
			continue
		}
		line := fmt.Sprintf("  %-22s %s", util.TruncateString(r.doc.ID(), 22), r.doc.Task.Status)
		if r.doc.Task.IsBlocked() {
			line += blockStyle.Render(" ⊘")
		}
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// syncDetail fills the detail pane with the selected document.
func (m *Model) syncDetail() {
	if !m.ready || m.cursor < 0 || m.cursor >= len(m.rows) || m.rows[m.cursor].doc == nil {
		return
	}
	doc := m.rows[m.cursor].doc
	t := &doc.Task

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", headerStyle.Render(t.Title), mutedStyle.Render(doc.Path))
	fmt.Fprintf(&b, "kind: %s   status: %s   priority: %s\n", t.Kind, t.Status, t.EffectivePriority())
	fmt.Fprintf(&b, "size: %s   executor: %s   isolation: %s\n", t.EffectiveSize(), t.EffectiveExecutor(), t.EffectiveIsolation())
	if t.IsBlocked() {
		fmt.Fprintf(&b, "%s\n", blockStyle.Render("blocked: "+t.BlockedReason))
	}
	if len(t.DependsOn) > 0 {
		fmt.Fprintf(&b, "depends on: %s\n", strings.Join(t.DependsOn, ", "))
	}
	if len(t.Touches) > 0 {
		fmt.Fprintf(&b, "touches: %s\n", strings.Join(t.Touches, ", "))
	}
	b.WriteString("\n" + doc.Body)
	m.detail.SetContent(b.String())
	m.detail.GotoTop()
}

// firstDoc returns the index of the first document row at or after i.
func (m Model) firstDoc(i int) int {
	for ; i < len(m.rows); i++ {
		if m.rows[i].doc != nil {
			return i
		}
	}
	return 0
}

// nextDoc returns the next document row after i, or i when none follows.
func (m Model) nextDoc(i int) int {
	for j := i + 1; j < len(m.rows); j++ {
		if m.rows[j].doc != nil {
			return j
		}
	}
	return i
}

// prevDoc returns the previous document row before i, or i when none precedes.
func (m Model) prevDoc(i int) int {
	for j := i - 1; j >= 0; j-- {
		if m.rows[j].doc != nil {
			return j
		}
	}
	return i
}

// Run starts the board over the loaded documents.
func Run(docs []*task.Document) error {
	_, err := tea.NewProgram(NewModel(docs), tea.WithAltScreen()).Run()
	return err
}
