package dispatch

import (
	"testing"
	"time"

	"github.com/t-hobson/trellis/internal/hierarchy"
	"github.com/t-hobson/trellis/internal/task"
)

func ready(id string, mut ...func(*task.Task)) *task.Document {
	d := &task.Document{
		Task: task.Task{
			ID:     id,
			Title:  id,
			Kind:   task.KindTask,
			Status: task.StatusReady,
		},
		Path:   "backlog/" + id + ".md",
		Bucket: "backlog",
	}
	for _, m := range mut {
		m(&d.Task)
	}
	return d
}

func selectFrom(opts Options, docs ...*task.Document) *Result {
	return Select(docs, hierarchy.Build(docs), opts)
}

func ids(cands []Candidate) []string {
	var out []string
	for _, c := range cands {
		out = append(out, c.Doc.ID())
	}
	return out
}

func TestEligibilityGate(t *testing.T) {
	inProgress := ready("busy", func(tk *task.Task) { tk.Status = task.StatusInProgress })
	idea := ready("maybe", func(tk *task.Task) { tk.Status = task.StatusIdea })
	blocked := ready("stuck", func(tk *task.Task) { tk.BlockedReason = "waiting on api keys" })
	plain := ready("go")

	res := selectFrom(Options{}, inProgress, idea, blocked, plain)
	if got := ids(res.Candidates); len(got) != 1 || got[0] != "go" {
		t.Errorf("candidates = %v, want [go]", got)
	}

	res = selectFrom(Options{IdeaAsReady: true, IncludeBlocked: true}, inProgress, idea, blocked, plain)
	if got := ids(res.Candidates); len(got) != 3 {
		t.Errorf("candidates = %v, want idea and blocked admitted", got)
	}
}

func TestDependencyGating(t *testing.T) {
	// Favored on every criterion, but its prerequisite is not done.
	gated := ready("gated", func(tk *task.Task) {
		tk.Priority = task.PriorityUrgent
		tk.Size = task.SizeXS
		tk.DependsOn = []string{"prereq"}
	})
	prereq := ready("prereq", func(tk *task.Task) { tk.Status = task.StatusInProgress })
	other := ready("other")

	res := selectFrom(Options{}, gated, prereq, other)
	for _, id := range ids(res.Candidates) {
		if id == "gated" {
			t.Fatal("task with incomplete prerequisite must not be eligible")
		}
	}

	// Dangling dependencies gate too.
	ghost := ready("ghosted", func(tk *task.Task) { tk.DependsOn = []string{"nope"} })
	res = selectFrom(Options{}, ghost, other)
	if got := ids(res.Candidates); len(got) != 1 || got[0] != "other" {
		t.Errorf("candidates = %v, want [other]", got)
	}

	// Once the prerequisite is done, the gate opens.
	prereq.Task.Status = task.StatusDone
	res = selectFrom(Options{}, gated, prereq, other)
	if got := ids(res.Candidates); len(got) != 2 || got[0] != "gated" {
		t.Errorf("candidates = %v, want gated first", got)
	}
}

func TestConflictAwareSelection(t *testing.T) {
	t1 := ready("t1", func(tk *task.Task) {
		tk.Priority = task.PriorityUrgent
		tk.Touches = []string{"a.ts"}
	})
	t2 := ready("t2", func(tk *task.Task) {
		tk.Priority = task.PriorityHigh
		tk.Touches = []string{"a.ts", "b.ts"}
	})
	t3 := ready("t3", func(tk *task.Task) {
		tk.Priority = task.PriorityMedium
		tk.Touches = []string{"c.ts"}
	})

	res := selectFrom(Options{Parallel: 2}, t1, t2, t3)
	if got := ids(res.Selected); len(got) != 2 || got[0] != "t1" || got[1] != "t3" {
		t.Fatalf("selected = %v, want [t1 t3]", got)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Doc.ID() != "t2" {
		t.Fatalf("skipped = %+v, want t2", res.Skipped)
	}
	if cw := res.Skipped[0].ConflictsWith; len(cw) != 1 || cw[0] != "t1" {
		t.Errorf("conflicts = %v, want [t1]", cw)
	}
}

func TestGlobOverlap(t *testing.T) {
	tests := []struct {
		a, b    []string
		overlap bool
	}{
		{[]string{"a.ts"}, []string{"a.ts"}, true},
		{[]string{"src/*.go"}, []string{"src/main.go"}, true},
		{[]string{"src/main.go"}, []string{"src/*.go"}, true},
		{[]string{"a.ts"}, []string{"b.ts"}, false},
		{[]string{"src/*.go"}, []string{"docs/readme.md"}, false},
		{nil, []string{"a.ts"}, false},
		{[]string{"[bad"}, []string{"x"}, false},
	}
	for _, tt := range tests {
		if got := globsOverlap(tt.a, tt.b); got != tt.overlap {
			t.Errorf("globsOverlap(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.overlap)
		}
	}
}

func TestPlainTopNWithoutConflictFiltering(t *testing.T) {
	t1 := ready("t1", func(tk *task.Task) {
		tk.Priority = task.PriorityUrgent
		tk.Touches = []string{"a.ts"}
	})
	t2 := ready("t2", func(tk *task.Task) {
		tk.Priority = task.PriorityHigh
		tk.Touches = []string{"a.ts"}
	})

	res := selectFrom(Options{Count: 2}, t1, t2)
	if got := ids(res.Selected); len(got) != 2 {
		t.Errorf("selected = %v, want both despite overlapping globs", got)
	}
	if len(res.Skipped) != 0 {
		t.Errorf("skipped = %+v, want none", res.Skipped)
	}
}

func TestDeclaredSiblingOrderWins(t *testing.T) {
	parent := &task.Document{
		Task: task.Task{
			ID:       "par",
			Title:    "par",
			Kind:     task.KindStory,
			Status:   task.StatusInProgress,
			Children: []string{"c", "a", "b"},
		},
		Path: "current/par.md", Bucket: "current",
	}
	// Metadata favors a, then b, then c; declared order must still win.
	a := ready("a", func(tk *task.Task) { tk.Priority = task.PriorityUrgent })
	b := ready("b", func(tk *task.Task) { tk.Priority = task.PriorityHigh })
	c := ready("c", func(tk *task.Task) { tk.Priority = task.PriorityNone })

	res := selectFrom(Options{}, parent, a, b, c)
	if got := ids(res.Candidates); len(got) != 3 || got[0] != "c" || got[1] != "a" || got[2] != "b" {
		t.Errorf("candidates = %v, want declared order [c a b]", got)
	}
}

func TestEpicInFlightPreferred(t *testing.T) {
	epic := &task.Document{
		Task: task.Task{ID: "big", Title: "big", Kind: task.KindEpic,
			Status: task.StatusInProgress, Children: []string{"started", "fresh-a"}},
		Path: "current/big.md", Bucket: "current",
	}
	started := ready("started", func(tk *task.Task) { tk.Status = task.StatusInProgress })
	inEpic := ready("fresh-a")
	loose := ready("fresh-b")

	res := selectFrom(Options{}, epic, started, inEpic, loose)
	if got := ids(res.Candidates); len(got) != 2 || got[0] != "fresh-a" {
		t.Errorf("candidates = %v, want fresh-a (in-flight epic) first", got)
	}
}

func TestExecutorPreferenceDominates(t *testing.T) {
	deep := ready("deep-work", func(tk *task.Task) {
		tk.Executor = task.ExecutorDeep
		tk.Priority = task.PriorityUrgent
	})
	fast := ready("fast-work", func(tk *task.Task) {
		tk.Executor = task.ExecutorFast
		tk.Priority = task.PriorityNone
	})

	res := selectFrom(Options{Executor: task.ExecutorFast}, deep, fast)
	if got := ids(res.Candidates); got[0] != "fast-work" {
		t.Errorf("candidates = %v, want tier match ahead of priority", got)
	}

	// Without a preference, priority decides.
	res = selectFrom(Options{}, deep, fast)
	if got := ids(res.Candidates); got[0] != "deep-work" {
		t.Errorf("candidates = %v, want priority order", got)
	}
}

func TestIsolationDampensSmallPriorityGap(t *testing.T) {
	// One priority step apart, full isolation range apart the other way:
	// the isolated task floats above the marginally hotter shared one.
	hotShared := ready("hot-shared", func(tk *task.Task) {
		tk.Priority = task.PriorityMedium
		tk.Isolation = task.IsolationShared
	})
	coolIsolated := ready("cool-isolated", func(tk *task.Task) {
		tk.Priority = task.PriorityLow
		tk.Isolation = task.IsolationIsolated
	})

	res := selectFrom(Options{}, hotShared, coolIsolated)
	if got := ids(res.Candidates); got[0] != "cool-isolated" {
		t.Errorf("candidates = %v, want isolation to dampen the one-step priority edge", got)
	}

	// A two-step priority gap is not dampened.
	hotShared.Task.Priority = task.PriorityHigh
	res = selectFrom(Options{}, hotShared, coolIsolated)
	if got := ids(res.Candidates); got[0] != "hot-shared" {
		t.Errorf("candidates = %v, want priority to hold across a wide gap", got)
	}
}

func TestSizeAndKindOrdering(t *testing.T) {
	small := ready("small", func(tk *task.Task) { tk.Size = task.SizeXS })
	large := ready("large", func(tk *task.Task) { tk.Size = task.SizeXL })
	story := ready("a-story", func(tk *task.Task) { tk.Kind = task.KindStory; tk.Size = task.SizeXS })

	res := selectFrom(Options{}, large, story, small)
	got := ids(res.Candidates)
	want := []string{"small", "a-story", "large"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidates = %v, want %v", got, want)
		}
	}
}

func TestComparatorDeterminism(t *testing.T) {
	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mk := func(id, title string) *task.Document {
		return ready(id, func(tk *task.Task) {
			tk.Title = title
			tk.UpdatedAt = stamp
		})
	}
	docs := []*task.Document{
		mk("zeta", "same"), mk("alpha", "same"), mk("mid", "another"),
	}

	first := ids(selectFrom(Options{}, docs...).Candidates)
	second := ids(selectFrom(Options{}, docs...).Candidates)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sort not deterministic: %v vs %v", first, second)
		}
	}
	// Title then id break the tie.
	want := []string{"mid", "alpha", "zeta"}
	for i := range want {
		if first[i] != want[i] {
			t.Fatalf("candidates = %v, want %v", first, want)
		}
	}
}

func TestStalenessOlderWins(t *testing.T) {
	older := ready("older", func(tk *task.Task) {
		tk.UpdatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	})
	newer := ready("newer", func(tk *task.Task) {
		tk.UpdatedAt = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		tk.LastActivityAt = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	})

	res := selectFrom(Options{}, newer, older)
	if got := ids(res.Candidates); got[0] != "older" {
		t.Errorf("candidates = %v, want older first", got)
	}
}

func TestRootEpicResolution(t *testing.T) {
	epic := &task.Document{Task: task.Task{ID: "e", Title: "e", Kind: task.KindEpic,
		Status: task.StatusReady, Children: []string{"s"}}, Path: "backlog/e.md"}
	story := &task.Document{Task: task.Task{ID: "s", Title: "s", Kind: task.KindStory,
		Status: task.StatusReady, Children: []string{"t"}}, Path: "backlog/s.md"}
	leaf := ready("t", func(tk *task.Task) { tk.Status = task.StatusInProgress })
	orphan := ready("solo")

	docs := []*task.Document{epic, story, leaf, orphan}
	ctx := NewContext(docs, hierarchy.Build(docs))

	if got := ctx.RootEpic("t"); got != "e" {
		t.Errorf("RootEpic(t) = %q, want e", got)
	}
	if got := ctx.RootEpic("e"); got != "e" {
		t.Errorf("RootEpic(e) = %q, want e", got)
	}
	if got := ctx.RootEpic("solo"); got != "" {
		t.Errorf("RootEpic(solo) = %q, want empty", got)
	}
	if !ctx.EpicInFlight("s") {
		t.Error("epic with in-progress leaf should be in flight")
	}
	if ctx.EpicInFlight("solo") {
		t.Error("orphan cannot be in flight")
	}
}
