package prophet

import (
	"fmt"
	"strings"
	"time"
)

// DefaultFields lists the account columns weighted by default, in layout order.
var DefaultFields = []string{
	"Accountname",
	"Branche",
	"Mitarbeiter",
	"Bundesland (Rechnungsanschrift)",
	"Potential Unternehmen",
	"Non-STST-Postings 3-MR",
	"Website",
}

const (
	// DefaultWeight is the weight given to a field when none is configured (100%).
	DefaultWeight = 100.0
	// DefaultEps is the default DBSCAN neighbourhood radius.
	DefaultEps = 0.5
	// DefaultMinSamples is the default DBSCAN core point population.
	DefaultMinSamples = 5
)

// FieldWeight assigns a percentage weight to one text column.
type FieldWeight struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// DefaultFieldWeights returns DefaultFields with DefaultWeight each.
func DefaultFieldWeights() []FieldWeight {
	out := make([]FieldWeight, len(DefaultFields))
	for i, name := range DefaultFields {
		out[i] = FieldWeight{Name: name, Weight: DefaultWeight}
	}
	return out
}

// Label is the cluster assignment of a single row. The zero value is an outlier.
type Label struct {
	id    int
	valid bool
}

// Outlier returns the label of a row that belongs to no cluster.
func Outlier() Label { return Label{} }

// Cluster returns the label of a row that belongs to cluster id.
func Cluster(id int) Label { return Label{id: id, valid: true} }

// ClusterID reports the cluster id and whether the row is clustered at all.
func (l Label) ClusterID() (int, bool) { return l.id, l.valid }

// IsOutlier reports whether the row belongs to no cluster.
func (l Label) IsOutlier() bool { return !l.valid }

func (l Label) String() string {
	if !l.valid {
		return "outlier"
	}
	return fmt.Sprintf("cluster %d", l.id)
}

// State is a pipeline run state.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateVectorizing
	StateClustering
	StatePredicting
	StateSelecting
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateValidating:
		return "Validating"
	case StateVectorizing:
		return "Vectorizing"
	case StateClustering:
		return "Clustering"
	case StatePredicting:
		return "Predicting"
	case StateSelecting:
		return "Selecting"
	case StateCompleted:
		return "Completed"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transition happens within the run.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Progress is a single milestone reported while a run executes.
type Progress struct {
	Percent int
	Stage   string
	State   State
}

// ProgressFunc receives progress milestones. Implementations must not block for long.
type ProgressFunc func(Progress)

// Event is emitted by Service.Start. Exactly one of the fields is set.
type Event struct {
	Progress *Progress
	Outcome  *Outcome
	Err      error
}

// Done reports whether the event is the final one of a run.
func (e Event) Done() bool {
	return e.Outcome != nil || e.Err != nil
}

// FieldSummary describes how one field was vectorized.
type FieldSummary struct {
	Name       string
	Weight     float64
	Vocabulary int
}

// Result is the in-memory outcome of Execute.
type Result struct {
	Table           *Table
	ReferenceLabels []Label
	CandidateLabels []Label
	Clusters        []int
	CorePoints      int
	Fields          []FieldSummary
}

// Outcome is the result of a Service run including the written output file.
type Outcome struct {
	RunID      string
	OutputPath string
	Result     *Result
	Elapsed    time.Duration
}

// Summary renders a one-line description of the outcome.
func (o *Outcome) Summary() string {
	if o == nil || o.Result == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d clusters, %d potential customers", len(o.Result.Clusters), o.Result.Table.Len())
	if o.OutputPath != "" {
		fmt.Fprintf(&b, " -> %s", o.OutputPath)
	}
	return b.String()
}
