package prophet

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Progress stage descriptions.
const (
	StageValidating = "Validating Configuration"
	StageTransform  = "Transforming Data Column: "
	StageClustering = "Clustering Customer Records"
	StagePredicting = "Predicting Potential Customers"
	StageSelecting  = "Selecting Potential Customers"
	StageCompleted  = "Process Completed."
)

// Request is the in-memory input of one pipeline run.
type Request struct {
	Reference *Table
	Candidate *Table
	Fields    []FieldWeight
	Params    Params
}

// Validate checks tables, weights, parameters and that every weighted field
// exists in both tables.
func (r Request) Validate() error {
	if r.Reference == nil || r.Candidate == nil {
		return errMissingInput
	}
	if err := validateFields(r.Fields); err != nil {
		return err
	}
	if err := r.Params.Validate(); err != nil {
		return err
	}
	if missing := missingColumns(r.Reference.Header, r.Fields); len(missing) > 0 {
		return configErrorf("reference table has no column %s", quoteList(missing))
	}
	if missing := missingColumns(r.Candidate.Header, r.Fields); len(missing) > 0 {
		return configErrorf("candidate table has no column %s", quoteList(missing))
	}
	for _, f := range r.Fields {
		refCol, candCol := columnName(r.Reference.Header, f.Name), columnName(r.Candidate.Header, f.Name)
		if !strings.EqualFold(refCol, candCol) {
			return configErrorf("field %q is column %q in the reference table but %q in the candidate table", f.Name, refCol, candCol)
		}
	}
	return nil
}

func validateFields(fields []FieldWeight) error {
	if len(fields) == 0 {
		return configErrorf("no fields to compare")
	}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return configErrorf("field name must not be empty")
		}
		if _, dup := seen[name]; dup {
			return configErrorf("field %q is listed twice", name)
		}
		seen[name] = struct{}{}
		if math.IsNaN(f.Weight) || math.IsInf(f.Weight, 0) || f.Weight < 0 {
			return configErrorf("weight for %q must be a non-negative number, got %v", name, f.Weight)
		}
	}
	return nil
}

// Execute runs vectorization, clustering, prediction and selection over the
// request tables. It reports progress up to the selection stage; callers
// report completion once they have consumed the result.
func Execute(ctx context.Context, req Request, progress ProgressFunc) (*Result, error) {
	report := func(pct int, state State, stage string) {
		if progress != nil {
			progress(Progress{Percent: pct, Stage: stage, State: state})
		}
	}

	report(0, StateValidating, StageValidating)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fields, err := vectorizeFields(ctx, req, report)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &StageError{Stage: StateVectorizing, Err: err}
	}
	refParts := make([]Matrix, len(fields))
	candParts := make([]Matrix, len(fields))
	summaries := make([]FieldSummary, len(fields))
	for i, f := range fields {
		if f.Reference.Cols() != f.Candidate.Cols() {
			return nil, &StageError{Stage: StateVectorizing, Err: fmt.Errorf("field %q: %d reference columns, %d candidate columns", f.Field.Name, f.Reference.Cols(), f.Candidate.Cols())}
		}
		refParts[i] = f.Reference
		candParts[i] = f.Candidate
		summaries[i] = FieldSummary{Name: f.Field.Name, Weight: f.Field.Weight, Vocabulary: f.Vocabulary}
	}
	xRef, err := HStack(refParts...)
	if err != nil {
		return nil, &StageError{Stage: StateVectorizing, Err: err}
	}
	xCand, err := HStack(candParts...)
	if err != nil {
		return nil, &StageError{Stage: StateVectorizing, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report(60, StateClustering, StageClustering)
	var model *Model
	err = guard(func() error {
		var ferr error
		model, ferr = FitDBSCAN(ctx, xRef, req.Params)
		return ferr
	})
	if err != nil {
		return nil, &StageError{Stage: StateClustering, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report(80, StatePredicting, StagePredicting)
	var labels []Label
	err = guard(func() error {
		var perr error
		labels, perr = model.Predict(ctx, xCand)
		return perr
	})
	if err != nil {
		return nil, &StageError{Stage: StatePredicting, Err: err}
	}

	report(90, StateSelecting, StageSelecting)
	selected, err := Select(req.Candidate, labels, model.KnownClusters())
	if err != nil {
		return nil, &StageError{Stage: StateSelecting, Err: err}
	}

	return &Result{
		Table:           selected,
		ReferenceLabels: model.Labels(),
		CandidateLabels: labels,
		Clusters:        model.Clusters(),
		CorePoints:      model.CoreCount(),
		Fields:          summaries,
	}, nil
}

// vectorizeFields embeds every field, concurrently when Params.Workers allows.
// Results are stored by field index so the layout does not depend on scheduling.
func vectorizeFields(ctx context.Context, req Request, report func(int, State, string)) ([]FieldMatrices, error) {
	n := len(req.Fields)
	out := make([]FieldMatrices, n)
	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(req.Params.workers())
	for i, field := range req.Fields {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return guard(func() error {
				refValues, err := req.Reference.Column(field.Name)
				if err != nil {
					return err
				}
				candValues, err := req.Candidate.Column(field.Name)
				if err != nil {
					return err
				}
				out[i] = VectorizeField(field, refValues, candValues)

				mu.Lock()
				done++
				report(50*done/n, StateVectorizing, StageTransform+field.Name)
				mu.Unlock()
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// guard converts a panic inside fn into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
