// Package dispatch ranks ready tasks and selects conflict-free sets for
// parallel execution.
//
// Ranking happens over a Context: a derived, read-only snapshot built once
// per invocation from the document set and hierarchy index. Nothing in this
// package caches across invocations or mutates a document.
package dispatch

import (
	"github.com/t-hobson/trellis/internal/hierarchy"
	"github.com/t-hobson/trellis/internal/task"
)

// Context precomputes the per-task facts ranking needs: each task's root
// epic and the set of epics with in-flight work. Immutable once built.
type Context struct {
	idx        *hierarchy.Index
	rootEpicOf map[string]string
	inFlight   map[string]bool
}

// NewContext builds the ranking context for one invocation.
func NewContext(docs []*task.Document, idx *hierarchy.Index) *Context {
	c := &Context{
		idx:        idx,
		rootEpicOf: make(map[string]string, len(docs)),
		inFlight:   make(map[string]bool),
	}

	for _, doc := range docs {
		c.rootEpicOf[doc.ID()] = resolveRootEpic(idx, doc)
	}
	for _, doc := range docs {
		if doc.Task.Status != task.StatusInProgress {
			continue
		}
		if root := c.rootEpicOf[doc.ID()]; root != "" {
			c.inFlight[root] = true
		}
	}
	return c
}

// resolveRootEpic finds the top-most epic above a document, or the document
// itself when it is an epic with no epic above it. The ancestor walk is
// bounded and cycle-safe, so a malformed hierarchy degrades to a shorter
// chain instead of hanging.
func resolveRootEpic(idx *hierarchy.Index, doc *task.Document) string {
	root := ""
	if doc.Task.Kind == task.KindEpic {
		root = doc.ID()
	}
	chain, _ := idx.Ancestors(doc.ID())
	for _, ancestor := range chain {
		if anc := idx.Get(ancestor); anc != nil && anc.Task.Kind == task.KindEpic {
			// Chain is nearest-first; the last epic seen is the top-most.
			root = ancestor
		}
	}
	return root
}

// Index returns the hierarchy index this context was built over.
func (c *Context) Index() *hierarchy.Index {
	return c.idx
}

// RootEpic returns the root epic id of the given task, or "" if it has none.
func (c *Context) RootEpic(id string) string {
	return c.rootEpicOf[id]
}

// EpicInFlight reports whether the task's root epic has at least one
// in-progress descendant.
func (c *Context) EpicInFlight(id string) bool {
	root := c.rootEpicOf[id]
	return root != "" && c.inFlight[root]
}
