// Package hierarchy derives the parent/child structure of the task forest.
//
// Parent relationships are never stored on a child: a task's parent is
// whichever other task lists it in its ordered children array. This package
// rebuilds that relationship as explicit maps in a single pass over the
// document set. Building is pure and side-effect free, and deliberately does
// not reject malformed input — cycle and depth violations are detected
// downstream by the validation engine, which must be able to run over a
// partially malformed index.
package hierarchy

import "github.com/t-hobson/trellis/internal/task"

// DuplicateClaim records a child id listed by more than one parent.
// The first-seen parent keeps the claim; later claims are dropped at build
// time and surfaced as a validation warning.
type DuplicateClaim struct {
	// ChildID is the contested child.
	ChildID string

	// OwnerID is the parent whose claim won (first seen).
	OwnerID string

	// ClaimantID is the parent whose claim was dropped.
	ClaimantID string
}

// Index is the derived hierarchy of one document set.
//
// An Index is immutable once built and safe to share read-only across all
// validation and ranking operations within one invocation. It is rebuilt
// from scratch on every invocation; there is no caching across runs.
type Index struct {
	parentByID   map[string]string
	childrenByID map[string][]*task.Document
	orderIndex   map[string]map[string]int
	byID         map[string]*task.Document
	duplicates   []DuplicateClaim
}

// Build constructs the hierarchy index from the full document set.
//
// For every task with a non-empty children array, each listed child that
// exists and has not already been claimed by another parent is recorded
// together with its declared position. A child's second claim elsewhere is
// ignored (first claim wins) and recorded as a DuplicateClaim. References
// to ids that do not exist are skipped here; dangling-reference errors are
// the validation engine's concern.
func Build(docs []*task.Document) *Index {
	idx := &Index{
		parentByID:   make(map[string]string),
		childrenByID: make(map[string][]*task.Document),
		orderIndex:   make(map[string]map[string]int),
		byID:         make(map[string]*task.Document, len(docs)),
	}

	for _, doc := range docs {
		id := doc.ID()
		if id == "" {
			continue
		}
		// First document wins on duplicate ids; duplicate-id errors are
		// reported by cross-document validation.
		if _, ok := idx.byID[id]; !ok {
			idx.byID[id] = doc
		}
	}

	for _, doc := range docs {
		parentID := doc.ID()
		if parentID == "" || !doc.Task.HasChildren() {
			continue
		}
		for pos, childID := range doc.Task.Children {
			child, ok := idx.byID[childID]
			if !ok {
				continue
			}
			if owner, claimed := idx.parentByID[childID]; claimed {
				if owner != parentID {
					idx.duplicates = append(idx.duplicates, DuplicateClaim{
						ChildID:    childID,
						OwnerID:    owner,
						ClaimantID: parentID,
					})
				}
				continue
			}
			idx.parentByID[childID] = parentID
			idx.childrenByID[parentID] = append(idx.childrenByID[parentID], child)
			if idx.orderIndex[parentID] == nil {
				idx.orderIndex[parentID] = make(map[string]int)
			}
			idx.orderIndex[parentID][childID] = pos
		}
	}

	return idx
}

// Parent returns the parent id of the given task, if it has one.
func (x *Index) Parent(id string) (string, bool) {
	p, ok := x.parentByID[id]
	return p, ok
}

// Children returns the child documents of the given parent in declared order.
func (x *Index) Children(parentID string) []*task.Document {
	return x.childrenByID[parentID]
}

// Order returns the declared position of child under parent, if recorded.
func (x *Index) Order(parentID, childID string) (int, bool) {
	m, ok := x.orderIndex[parentID]
	if !ok {
		return 0, false
	}
	pos, ok := m[childID]
	return pos, ok
}

// SameDeclaredParent reports whether two tasks share an explicit parent that
// declares an ordering, returning the shared parent id when they do.
func (x *Index) SameDeclaredParent(a, b string) (string, bool) {
	pa, ok := x.parentByID[a]
	if !ok {
		return "", false
	}
	pb, ok := x.parentByID[b]
	if !ok || pa != pb {
		return "", false
	}
	return pa, true
}

// Get returns the document with the given id, or nil if absent.
// When the set contains duplicate ids, the first-loaded document wins.
func (x *Index) Get(id string) *task.Document {
	return x.byID[id]
}

// DuplicateClaims returns the child claims dropped during the build, in
// encounter order.
func (x *Index) DuplicateClaims() []DuplicateClaim {
	return x.duplicates
}

// maxAncestorWalk bounds ancestor walks so cycles in a malformed index can
// never hang a caller. The hierarchy allows at most 3 levels; one extra step
// lets the walker observe the violation.
const maxAncestorWalk = 4

// Ancestors returns the chain of ancestor ids of the given task, nearest
// first. The walk is bounded and cycle-safe: it stops after maxAncestorWalk
// steps or upon revisiting an id, returning truncated=true in either case.
func (x *Index) Ancestors(id string) (chain []string, truncated bool) {
	seen := map[string]bool{id: true}
	current := id
	for range maxAncestorWalk {
		parent, ok := x.parentByID[current]
		if !ok {
			return chain, false
		}
		if seen[parent] {
			return append(chain, parent), true
		}
		seen[parent] = true
		chain = append(chain, parent)
		current = parent
	}
	return chain, true
}
