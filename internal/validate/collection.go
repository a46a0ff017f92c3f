package validate

import (
	"fmt"

	"github.com/t-hobson/trellis/internal/hierarchy"
	"github.com/t-hobson/trellis/internal/task"
)

// maxDepth is the deepest allowed hierarchy: epic → story → task.
const maxDepth = 3

// CheckCollection applies all cross-document rules over the successfully
// parsed subset and returns findings grouped by file path. The hierarchy
// index may be partially malformed (cycles, double claims); every walk in
// here is bounded and cycle-safe.
func CheckCollection(docs []*task.Document, idx *hierarchy.Index) map[string][]Issue {
	findings := make(map[string][]Issue)
	add := func(doc *task.Document, is Issue) {
		findings[doc.Path] = append(findings[doc.Path], is)
	}

	checkDuplicateIDs(docs, add)
	checkReferences(docs, idx, add)
	checkHierarchy(docs, idx, add)
	checkDoneParents(docs, idx, add)
	checkConsistencyHeuristics(docs, idx, add)

	return findings
}

// checkDuplicateIDs reports every document whose id was already taken by an
// earlier document in load order.
func checkDuplicateIDs(docs []*task.Document, add func(*task.Document, Issue)) {
	firstByID := make(map[string]*task.Document, len(docs))
	for _, doc := range docs {
		id := doc.ID()
		if id == "" {
			continue
		}
		if first, ok := firstByID[id]; ok {
			add(doc, Issue{
				Severity: SeverityError,
				Message:  fmt.Sprintf("duplicate id: already used by %s", first.Path),
				TaskID:   id,
				Field:    "id",
			})
			continue
		}
		firstByID[id] = doc
	}
}

// checkReferences verifies every depends_on and blocks entry resolves to an
// existing id, and that no task references itself.
func checkReferences(docs []*task.Document, idx *hierarchy.Index, add func(*task.Document, Issue)) {
	for _, doc := range docs {
		for _, field := range []struct {
			name string
			ids  []string
		}{
			{"depends_on", doc.Task.DependsOn},
			{"blocks", doc.Task.Blocks},
		} {
			for _, ref := range field.ids {
				if ref == doc.ID() {
					add(doc, Issue{
						Severity:   SeverityError,
						Message:    fmt.Sprintf("task references itself in %s", field.name),
						TaskID:     doc.ID(),
						Field:      field.name,
						RelatedIDs: []string{ref},
					})
					continue
				}
				if idx.Get(ref) == nil {
					add(doc, Issue{
						Severity:   SeverityError,
						Message:    fmt.Sprintf("%s references unknown task %q", field.name, ref),
						TaskID:     doc.ID(),
						Field:      field.name,
						RelatedIDs: []string{ref},
					})
				}
			}
		}

		for _, childID := range doc.Task.Children {
			if childID == doc.ID() {
				add(doc, Issue{
					Severity:   SeverityError,
					Message:    "task lists itself as a child",
					TaskID:     doc.ID(),
					Field:      "children",
					RelatedIDs: []string{childID},
				})
				continue
			}
			if idx.Get(childID) == nil {
				add(doc, Issue{
					Severity:   SeverityError,
					Message:    fmt.Sprintf("children references unknown task %q", childID),
					TaskID:     doc.ID(),
					Field:      "children",
					RelatedIDs: []string{childID},
				})
			}
		}
	}
}

// checkHierarchy walks ancestors from every node, failing on cycles and on
// chains deeper than the three-level bound. Double-claimed children are
// surfaced as warnings; the builder already resolved them first-claim-wins.
func checkHierarchy(docs []*task.Document, idx *hierarchy.Index, add func(*task.Document, Issue)) {
	for _, doc := range docs {
		id := doc.ID()
		if id == "" {
			continue
		}
		chain, truncated := idx.Ancestors(id)

		if truncated && hasRepeat(id, chain) {
			add(doc, Issue{
				Severity:   SeverityError,
				Message:    "hierarchy cycle detected walking ancestors",
				TaskID:     id,
				Field:      "children",
				RelatedIDs: chain,
			})
			continue
		}
		if len(chain) > maxDepth-1 {
			add(doc, Issue{
				Severity:   SeverityError,
				Message:    fmt.Sprintf("hierarchy depth exceeds %d levels", maxDepth),
				TaskID:     id,
				Field:      "children",
				RelatedIDs: chain,
			})
		}
	}

	for _, dup := range idx.DuplicateClaims() {
		claimant := idx.Get(dup.ClaimantID)
		if claimant == nil {
			continue
		}
		add(claimant, Issue{
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("child %q is already owned by %q; this claim was ignored", dup.ChildID, dup.OwnerID),
			TaskID:     dup.ClaimantID,
			Field:      "children",
			RelatedIDs: []string{dup.ChildID, dup.OwnerID},
		})
	}
}

// hasRepeat reports whether the ancestor chain revisits an id (including
// the starting node), which distinguishes a cycle from a plain depth
// violation.
func hasRepeat(start string, chain []string) bool {
	seen := map[string]bool{start: true}
	for _, id := range chain {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}

// checkDoneParents enforces the invariant that a done parent implies every
// descendant is done. This is a hard error.
func checkDoneParents(docs []*task.Document, idx *hierarchy.Index, add func(*task.Document, Issue)) {
	for _, doc := range docs {
		if doc.Task.Status != task.StatusDone || !doc.Task.HasChildren() {
			continue
		}
		var undone []string
		walkDescendants(idx, doc.ID(), make(map[string]bool), func(child *task.Document) {
			if child.Task.Status != task.StatusDone {
				undone = append(undone, child.ID())
			}
		})
		if len(undone) > 0 {
			add(doc, Issue{
				Severity:   SeverityError,
				Message:    fmt.Sprintf("done parent has %d descendant(s) not done", len(undone)),
				TaskID:     doc.ID(),
				Field:      "status",
				RelatedIDs: undone,
			})
		}
	}
}

// checkConsistencyHeuristics emits the warning-level anomaly checks: parents
// whose lifecycle state disagrees with their children's, and children whose
// kind does not sit one level below their parent's.
func checkConsistencyHeuristics(docs []*task.Document, idx *hierarchy.Index, add func(*task.Document, Issue)) {
	for _, doc := range docs {
		if !doc.Task.HasChildren() {
			continue
		}

		var started []string // children done or in-progress under an idea parent
		var active []string  // children still active under a canceled parent
		for _, child := range idx.Children(doc.ID()) {
			switch doc.Task.Status {
			case task.StatusIdea:
				if child.Task.Status == task.StatusDone || child.Task.Status == task.StatusInProgress {
					started = append(started, child.ID())
				}
			case task.StatusCanceled:
				if child.Task.Status.IsActive() {
					active = append(active, child.ID())
				}
			}

			if doc.Task.Kind.IsValid() && child.Task.Kind.IsValid() &&
				child.Task.Kind.Depth() != doc.Task.Kind.Depth()+1 {
				add(doc, Issue{
					Severity:   SeverityWarning,
					Message:    fmt.Sprintf("%s %q owns %s %q; expected a child one level down", doc.Task.Kind, doc.ID(), child.Task.Kind, child.ID()),
					TaskID:     doc.ID(),
					Field:      "children",
					RelatedIDs: []string{child.ID()},
				})
			}
		}

		if len(started) > 0 {
			add(doc, Issue{
				Severity:   SeverityWarning,
				Message:    "idea-state parent has children already started or finished",
				TaskID:     doc.ID(),
				Field:      "status",
				RelatedIDs: started,
			})
		}
		if len(active) > 0 {
			add(doc, Issue{
				Severity:   SeverityWarning,
				Message:    "canceled parent has children still active",
				TaskID:     doc.ID(),
				Field:      "status",
				RelatedIDs: active,
			})
		}
	}
}

// walkDescendants visits every descendant of the given id. The visited set
// makes the walk terminate even on a malformed index containing cycles.
func walkDescendants(idx *hierarchy.Index, id string, visited map[string]bool, fn func(*task.Document)) {
	if visited[id] {
		return
	}
	visited[id] = true
	for _, child := range idx.Children(id) {
		fn(child)
		walkDescendants(idx, child.ID(), visited, fn)
	}
}
