// Package task defines the core data types for the Trellis task forest.
//
// A task is one work item document: structured frontmatter metadata plus a
// free-text markdown body. Tasks form a strict three-level hierarchy
// (epic → story → task) expressed purely through each parent's ordered
// children list; children never store a back-reference.
//
// This package contains pure data types and ordered enums with no I/O.
// Parsing and serialization live in internal/loader; hierarchy derivation
// lives in internal/hierarchy.
package task

import "time"

// -----------------------------------------------------------------------------
// Kind
// -----------------------------------------------------------------------------

// Kind represents the hierarchy level of a task document.
//
// Kinds form a strict depth-3 hierarchy: an epic may own stories, a story
// may own tasks, and a plain task owns nothing.
type Kind string

const (
	// KindEpic is the top hierarchy level. Epics own stories.
	KindEpic Kind = "epic"

	// KindStory is the middle hierarchy level. Stories own tasks.
	KindStory Kind = "story"

	// KindTask is the leaf hierarchy level. Tasks own nothing.
	KindTask Kind = "task"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid returns true if this is a recognized kind value.
func (k Kind) IsValid() bool {
	switch k {
	case KindEpic, KindStory, KindTask:
		return true
	default:
		return false
	}
}

// Depth returns the hierarchy depth of this kind: epic=1, story=2, task=3.
// Unknown kinds return 0.
func (k Kind) Depth() int {
	switch k {
	case KindEpic:
		return 1
	case KindStory:
		return 2
	case KindTask:
		return 3
	default:
		return 0
	}
}

// CanOwnChildren returns true if documents of this kind may declare children.
func (k Kind) CanOwnChildren() bool {
	return k == KindEpic || k == KindStory
}

// DispatchRank returns the dispatch ordering index for this kind.
// Plain tasks rank before stories, which rank before epics.
func (k Kind) DispatchRank() int {
	switch k {
	case KindTask:
		return 0
	case KindStory:
		return 1
	case KindEpic:
		return 2
	default:
		return 3
	}
}

// -----------------------------------------------------------------------------
// Status
// -----------------------------------------------------------------------------

// Status represents the lifecycle state of a task.
//
// Transitions between states are unconditionally permitted; structural
// invariants (such as a done parent requiring done descendants) are
// enforced by the validation engine, not by a transition table.
type Status string

const (
	// StatusIdea is an unrefined item not yet ready for work.
	StatusIdea Status = "idea"

	// StatusReady is a refined item eligible for dispatch.
	StatusReady Status = "ready"

	// StatusInProgress is an item currently being worked.
	StatusInProgress Status = "in-progress"

	// StatusDone is a completed item.
	StatusDone Status = "done"

	// StatusCanceled is an abandoned item.
	StatusCanceled Status = "canceled"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if this is a recognized status value.
func (s Status) IsValid() bool {
	switch s {
	case StatusIdea, StatusReady, StatusInProgress, StatusDone, StatusCanceled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if this status represents a final state.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// IsActive returns true for states that represent live, undone work.
func (s Status) IsActive() bool {
	return s == StatusReady || s == StatusInProgress
}

// -----------------------------------------------------------------------------
// Priority
// -----------------------------------------------------------------------------

// Priority represents the importance of a task, ordered none < low < medium
// < high < urgent.
type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// DefaultPriority is used when a document omits the priority field.
const DefaultPriority = PriorityNone

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// IsValid returns true if this is a recognized priority value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// Rank returns the ordering index for this priority (higher = more urgent).
// Unknown values rank as none.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// -----------------------------------------------------------------------------
// Dispatch metadata enums
// -----------------------------------------------------------------------------

// Size is the estimated effort of a task, ordered xs < s < m < l < xl.
// Smaller tasks are preferred by the dispatch comparator.
type Size string

const (
	SizeXS Size = "xs"
	SizeS  Size = "s"
	SizeM  Size = "m"
	SizeL  Size = "l"
	SizeXL Size = "xl"
)

// DefaultSize is used when a document omits the size field.
const DefaultSize = SizeM

// String returns the string representation of the size.
func (s Size) String() string {
	return string(s)
}

// IsValid returns true if this is a recognized size value.
func (s Size) IsValid() bool {
	switch s {
	case SizeXS, SizeS, SizeM, SizeL, SizeXL:
		return true
	default:
		return false
	}
}

// Rank returns the ordering index for this size (smaller = lower).
// Unknown values rank as the default, m.
func (s Size) Rank() int {
	switch s {
	case SizeXS:
		return 0
	case SizeS:
		return 1
	case SizeM:
		return 2
	case SizeL:
		return 3
	case SizeXL:
		return 4
	default:
		return 2
	}
}

// Ambiguity is how well-defined a task is, ordered low < medium < high.
// Lower ambiguity is preferred for automated dispatch.
type Ambiguity string

const (
	AmbiguityLow    Ambiguity = "low"
	AmbiguityMedium Ambiguity = "medium"
	AmbiguityHigh   Ambiguity = "high"
)

// DefaultAmbiguity is used when a document omits the ambiguity field.
const DefaultAmbiguity = AmbiguityMedium

// String returns the string representation of the ambiguity.
func (a Ambiguity) String() string {
	return string(a)
}

// IsValid returns true if this is a recognized ambiguity value.
func (a Ambiguity) IsValid() bool {
	switch a {
	case AmbiguityLow, AmbiguityMedium, AmbiguityHigh:
		return true
	default:
		return false
	}
}

// Rank returns the ordering index for this ambiguity (lower = clearer).
// Unknown values rank as the default, medium.
func (a Ambiguity) Rank() int {
	switch a {
	case AmbiguityLow:
		return 0
	case AmbiguityMedium:
		return 1
	case AmbiguityHigh:
		return 2
	default:
		return 1
	}
}

// ExecutorTier is the class of executor a task is suited for, ordered
// fast < standard < deep.
type ExecutorTier string

const (
	ExecutorFast     ExecutorTier = "fast"
	ExecutorStandard ExecutorTier = "standard"
	ExecutorDeep     ExecutorTier = "deep"
)

// DefaultExecutorTier is used when a document omits the executor field.
const DefaultExecutorTier = ExecutorStandard

// String returns the string representation of the executor tier.
func (e ExecutorTier) String() string {
	return string(e)
}

// IsValid returns true if this is a recognized executor tier value.
func (e ExecutorTier) IsValid() bool {
	switch e {
	case ExecutorFast, ExecutorStandard, ExecutorDeep:
		return true
	default:
		return false
	}
}

// Rank returns the ordering index for this tier. Unknown values rank as
// the default, standard.
func (e ExecutorTier) Rank() int {
	switch e {
	case ExecutorFast:
		return 0
	case ExecutorStandard:
		return 1
	case ExecutorDeep:
		return 2
	default:
		return 1
	}
}

// Distance returns the absolute tier distance between two executor tiers.
func (e ExecutorTier) Distance(other ExecutorTier) int {
	d := e.Rank() - other.Rank()
	if d < 0 {
		d = -d
	}
	return d
}

// Isolation is how separable a task's work is from the rest of the
// codebase, ordered shared < scoped < isolated. More isolated work is
// preferred for parallel dispatch.
type Isolation string

const (
	IsolationShared   Isolation = "shared"
	IsolationScoped   Isolation = "scoped"
	IsolationIsolated Isolation = "isolated"
)

// DefaultIsolation is used when a document omits the isolation field.
const DefaultIsolation = IsolationScoped

// String returns the string representation of the isolation scope.
func (i Isolation) String() string {
	return string(i)
}

// IsValid returns true if this is a recognized isolation value.
func (i Isolation) IsValid() bool {
	switch i {
	case IsolationShared, IsolationScoped, IsolationIsolated:
		return true
	default:
		return false
	}
}

// Rank returns the ordering index for this isolation (higher = more
// isolated). Unknown values rank as the default, scoped.
func (i Isolation) Rank() int {
	switch i {
	case IsolationShared:
		return 0
	case IsolationScoped:
		return 1
	case IsolationIsolated:
		return 2
	default:
		return 1
	}
}

// -----------------------------------------------------------------------------
// Task and Document
// -----------------------------------------------------------------------------

// Task is the structured metadata of one work item document.
//
// The Children field is the sole owner of parent/child ordering: a task's
// parent is derived from being listed in exactly one other task's Children.
// Never read a parent relationship from the task itself; use the derived
// hierarchy index instead.
type Task struct {
	// ID uniquely identifies this task. Immutable lowercase hyphenated slug.
	ID string `yaml:"id"`

	// Title is the human-readable name of the task.
	Title string `yaml:"title"`

	// Kind is the hierarchy level: epic, story, or task.
	Kind Kind `yaml:"kind"`

	// Status is the lifecycle state.
	Status Status `yaml:"status"`

	// Priority is the importance of the task. Defaults to none.
	Priority Priority `yaml:"priority,omitempty"`

	// Size is the estimated effort. Defaults to m.
	Size Size `yaml:"size,omitempty"`

	// Ambiguity is how well-defined the task is. Defaults to medium.
	Ambiguity Ambiguity `yaml:"ambiguity,omitempty"`

	// Executor is the executor tier the task is suited for. Defaults to standard.
	Executor ExecutorTier `yaml:"executor,omitempty"`

	// Isolation is how separable the work is. Defaults to scoped.
	Isolation Isolation `yaml:"isolation,omitempty"`

	// Children is the ordered list of child task IDs. Only meaningful on
	// epics and stories; the order here is author-declared and wins over
	// every dispatch heuristic when ranking siblings.
	Children []string `yaml:"children,omitempty"`

	// DependsOn lists prerequisite task IDs. A task is not dispatchable
	// until every entry resolves to an existing task in status done.
	DependsOn []string `yaml:"depends_on,omitempty"`

	// Blocks lists task IDs this task blocks. Informational; validated for
	// reference integrity only.
	Blocks []string `yaml:"blocks,omitempty"`

	// BlockedReason is an optional free-text note on why the task is blocked.
	// A non-empty value excludes the task from dispatch unless the caller
	// opts into blocked tasks.
	BlockedReason string `yaml:"blocked_reason,omitempty"`

	// Touches lists file-path globs the task is expected to modify.
	// Used for conflict detection between tasks proposed for parallel
	// execution.
	Touches []string `yaml:"touches,omitempty"`

	// UpdatedAt is when the document metadata last changed.
	UpdatedAt time.Time `yaml:"updated_at,omitempty"`

	// LastActivityAt is when any activity (including body edits) last
	// happened. Used as the staleness tie-break: older wins.
	LastActivityAt time.Time `yaml:"last_activity_at,omitempty"`
}

// IsBlocked returns true if the task carries a blocked reason.
func (t *Task) IsBlocked() bool {
	return t.BlockedReason != ""
}

// IsDone returns true if the task is in the done state.
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// HasChildren returns true if the task declares any children.
func (t *Task) HasChildren() bool {
	return len(t.Children) > 0
}

// EffectivePriority returns the priority, substituting the default for an
// empty field.
func (t *Task) EffectivePriority() Priority {
	if t.Priority == "" {
		return DefaultPriority
	}
	return t.Priority
}

// EffectiveSize returns the size, substituting the default for an empty field.
func (t *Task) EffectiveSize() Size {
	if t.Size == "" {
		return DefaultSize
	}
	return t.Size
}

// EffectiveAmbiguity returns the ambiguity, substituting the default for an
// empty field.
func (t *Task) EffectiveAmbiguity() Ambiguity {
	if t.Ambiguity == "" {
		return DefaultAmbiguity
	}
	return t.Ambiguity
}

// EffectiveExecutor returns the executor tier, substituting the default for
// an empty field.
func (t *Task) EffectiveExecutor() ExecutorTier {
	if t.Executor == "" {
		return DefaultExecutorTier
	}
	return t.Executor
}

// EffectiveIsolation returns the isolation, substituting the default for an
// empty field.
func (t *Task) EffectiveIsolation() Isolation {
	if t.Isolation == "" {
		return DefaultIsolation
	}
	return t.Isolation
}

// Staleness returns the timestamp used for the age tie-break: LastActivityAt
// when set, otherwise UpdatedAt.
func (t *Task) Staleness() time.Time {
	if !t.LastActivityAt.IsZero() {
		return t.LastActivityAt
	}
	return t.UpdatedAt
}

// Document is one parsed task file: metadata, markdown body, and where it
// came from.
type Document struct {
	// Task is the frontmatter metadata.
	Task Task

	// Body is the markdown content below the frontmatter.
	Body string

	// Path is the file path the document was loaded from.
	Path string

	// Bucket is the lifecycle directory the file lives under
	// (e.g. "backlog", "current", "done").
	Bucket string
}

// ID is a convenience accessor for the task's identifier.
func (d *Document) ID() string {
	return d.Task.ID
}

// ParseFailure records a file that could not be loaded or parsed.
// Failures are folded into the validation event stream rather than
// aborting a run.
type ParseFailure struct {
	// File is the path of the unparseable file.
	File string

	// Reason is a human-readable description of what went wrong.
	Reason string
}
