package dispatch

import (
	"sort"

	"github.com/t-hobson/trellis/internal/hierarchy"
	"github.com/t-hobson/trellis/internal/task"
)

// Options configures one selection run.
type Options struct {
	// Count is the number of candidates returned when no parallel packing
	// is requested. Zero or negative means all candidates.
	Count int

	// Parallel, when positive, requests a conflict-free set of at most this
	// many tasks.
	Parallel int

	// Executor is an optional preferred executor tier. When set, tier
	// distance becomes the highest-precedence ranking criterion.
	Executor task.ExecutorTier

	// IncludeBlocked admits tasks carrying a blocked reason.
	IncludeBlocked bool

	// IdeaAsReady additionally treats idea-state tasks as dispatchable,
	// for promotion flows that pull work forward out of the ideas bucket.
	IdeaAsReady bool
}

// Candidate is one eligible task with its score breakdown.
type Candidate struct {
	Doc   *task.Document `json:"-"`
	Score ScoreBreakdown `json:"score"`
}

// Skipped records a candidate passed over during conflict packing, with the
// ids of the already-accepted tasks it collided with.
type Skipped struct {
	Doc           *task.Document
	ConflictsWith []string
}

// Result is the full outcome of one selection run.
type Result struct {
	// Candidates is every eligible task in rank order.
	Candidates []Candidate

	// Selected is the chosen subset, in rank order.
	Selected []Candidate

	// Skipped lists candidates dropped by conflict packing. Empty when no
	// parallel count was requested.
	Skipped []Skipped
}

// Select filters eligible tasks, ranks them, and picks the dispatch set.
//
// With a parallel count the packer walks the ranked list greedily, accepting
// a candidate only when its touch globs do not overlap any already-accepted
// candidate's. The packing is deliberately greedy, not optimal: it never
// revisits a skipped task to free capacity, so tie-break semantics stay
// stable for callers. Without a parallel count the top Count candidates are
// returned unfiltered.
func Select(docs []*task.Document, idx *hierarchy.Index, opts Options) *Result {
	ctx := NewContext(docs, idx)

	res := &Result{}
	for _, doc := range docs {
		if !eligible(doc, idx, opts) {
			continue
		}
		res.Candidates = append(res.Candidates, Candidate{
			Doc:   doc,
			Score: scoreOf(doc, ctx, opts.Executor),
		})
	}

	sort.SliceStable(res.Candidates, func(i, j int) bool {
		return compare(&res.Candidates[i], &res.Candidates[j], ctx, opts.Executor) < 0
	})

	if opts.Parallel > 0 {
		res.Selected, res.Skipped = pack(res.Candidates, opts.Parallel)
		return res
	}

	n := opts.Count
	if n <= 0 || n > len(res.Candidates) {
		n = len(res.Candidates)
	}
	res.Selected = res.Candidates[:n]
	return res
}

// eligible applies the dispatch gate: allowed ready state, not blocked
// (unless admitted), and every dependency resolved to an existing done task.
func eligible(doc *task.Document, idx *hierarchy.Index, opts Options) bool {
	switch doc.Task.Status {
	case task.StatusReady:
	case task.StatusIdea:
		if !opts.IdeaAsReady {
			return false
		}
	default:
		return false
	}

	if doc.Task.IsBlocked() && !opts.IncludeBlocked {
		return false
	}

	for _, dep := range doc.Task.DependsOn {
		prereq := idx.Get(dep)
		if prereq == nil || !prereq.Task.IsDone() {
			return false
		}
	}
	return true
}

// pack greedily accepts ranked candidates whose touch globs do not overlap
// any already-accepted candidate, stopping after limit acceptances.
func pack(ranked []Candidate, limit int) (selected []Candidate, skipped []Skipped) {
	for _, cand := range ranked {
		if len(selected) >= limit {
			break
		}

		var conflicts []string
		for _, accepted := range selected {
			if globsOverlap(cand.Doc.Task.Touches, accepted.Doc.Task.Touches) {
				conflicts = append(conflicts, accepted.Doc.ID())
			}
		}
		if len(conflicts) > 0 {
			skipped = append(skipped, Skipped{Doc: cand.Doc, ConflictsWith: conflicts})
			continue
		}
		selected = append(selected, cand)
	}
	return selected, skipped
}
