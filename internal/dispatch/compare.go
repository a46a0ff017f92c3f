package dispatch

import (
	"time"

	"github.com/t-hobson/trellis/internal/task"
)

// ScoreBreakdown records every ranked criterion for one candidate so the
// presentation layer can explain why a task was ordered where it was.
type ScoreBreakdown struct {
	// Priority is the priority rank; higher is more urgent.
	Priority int `json:"priority"`

	// EpicInFlight is true when the task's root epic already has
	// in-progress work. Finishing started epics beats starting new ones.
	EpicInFlight bool `json:"epic_in_flight"`

	// Size is the effort rank; smaller is preferred.
	Size int `json:"size"`

	// Kind is the dispatch rank of the task's kind; plain tasks rank
	// before stories before epics.
	Kind int `json:"kind"`

	// Executor is the raw executor tier index.
	Executor int `json:"executor"`

	// ExecutorDistance is the tier distance from the caller's preferred
	// executor, or 0 when no preference was supplied.
	ExecutorDistance int `json:"executor_distance"`

	// Ambiguity is the ambiguity rank; clearer is preferred.
	Ambiguity int `json:"ambiguity"`

	// Isolation is the isolation rank; more isolated is preferred.
	Isolation int `json:"isolation"`

	// Staleness is the timestamp used for the age tie-break; older wins.
	Staleness time.Time `json:"staleness"`
}

// scoreOf computes the breakdown for one document. An empty preferred tier
// leaves every distance at zero, neutralizing the executor-distance steps.
func scoreOf(doc *task.Document, ctx *Context, preferred task.ExecutorTier) ScoreBreakdown {
	t := &doc.Task
	s := ScoreBreakdown{
		Priority:     t.EffectivePriority().Rank(),
		EpicInFlight: ctx.EpicInFlight(t.ID),
		Size:         t.EffectiveSize().Rank(),
		Kind:         t.Kind.DispatchRank(),
		Executor:     t.EffectiveExecutor().Rank(),
		Ambiguity:    t.EffectiveAmbiguity().Rank(),
		Isolation:    t.EffectiveIsolation().Rank(),
		Staleness:    t.Staleness(),
	}
	if preferred != "" {
		s.ExecutorDistance = t.EffectiveExecutor().Distance(preferred)
	}
	return s
}

// Isolation may outvote priority only when the priority gap is minimal and
// the isolation gap spans the full shared-to-isolated range.
const (
	dampenPriorityGap  = 1
	dampenIsolationGap = 2
)

// compare orders two candidates; negative means a ranks before b.
//
// Declared sibling order overrides every heuristic: when both tasks sit
// under the same explicit parent, the parent's children ordering decides
// outright. Otherwise the criteria apply in fixed precedence, with one
// dampening rule on priority: a one-step priority edge loses to a
// full-range isolation edge pointing the other way, so widely isolated
// work floats past marginally hotter but entangled work.
func compare(a, b *Candidate, ctx *Context, preferred task.ExecutorTier) int {
	if parent, ok := ctx.Index().SameDeclaredParent(a.Doc.ID(), b.Doc.ID()); ok {
		pa, aok := ctx.Index().Order(parent, a.Doc.ID())
		pb, bok := ctx.Index().Order(parent, b.Doc.ID())
		if aok && bok && pa != pb {
			return pa - pb
		}
	}

	if preferred != "" {
		if d := a.Score.ExecutorDistance - b.Score.ExecutorDistance; d != 0 {
			return d
		}
	}

	prioGap := a.Score.Priority - b.Score.Priority
	isoGap := a.Score.Isolation - b.Score.Isolation
	if prioGap != 0 {
		if abs(prioGap) <= dampenPriorityGap && opposed(prioGap, isoGap) && abs(isoGap) >= dampenIsolationGap {
			return -isoGap
		}
		return -prioGap
	}

	if a.Score.EpicInFlight != b.Score.EpicInFlight {
		if a.Score.EpicInFlight {
			return -1
		}
		return 1
	}
	if d := a.Score.Size - b.Score.Size; d != 0 {
		return d
	}
	if d := a.Score.Kind - b.Score.Kind; d != 0 {
		return d
	}
	if isoGap != 0 {
		return -isoGap
	}
	if d := a.Score.ExecutorDistance - b.Score.ExecutorDistance; d != 0 {
		return d
	}
	if d := a.Score.Executor - b.Score.Executor; d != 0 {
		return d
	}
	if d := a.Score.Ambiguity - b.Score.Ambiguity; d != 0 {
		return d
	}

	if !a.Score.Staleness.Equal(b.Score.Staleness) {
		if a.Score.Staleness.Before(b.Score.Staleness) {
			return -1
		}
		return 1
	}
	if a.Doc.Task.Title != b.Doc.Task.Title {
		if a.Doc.Task.Title < b.Doc.Task.Title {
			return -1
		}
		return 1
	}
	if a.Doc.ID() < b.Doc.ID() {
		return -1
	}
	if a.Doc.ID() > b.Doc.ID() {
		return 1
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// opposed reports whether two gaps point in opposite directions.
func opposed(a, b int) bool {
	return (a > 0 && b < 0) || (a < 0 && b > 0)
}
