package prophet

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Job is a validated run request that still refers to files on disk.
type Job struct {
	ReferencePath string
	CandidatePath string
	OutputDir     string
	Fields        []FieldWeight
	Params        Params
}

// Validate checks that both inputs are set and the weights and parameters are usable.
func (j Job) Validate() error {
	if strings.TrimSpace(j.ReferencePath) == "" || strings.TrimSpace(j.CandidatePath) == "" {
		return errMissingInput
	}
	if err := validateFields(j.Fields); err != nil {
		return err
	}
	return j.Params.Validate()
}

// RawWeight is an unparsed weight entered for one field.
type RawWeight struct {
	Field string
	Value string
}

// RawSettings holds form values as typed by a user.
type RawSettings struct {
	ReferencePath string
	CandidatePath string
	OutputDir     string
	Weights       []RawWeight
	Eps           string
	MinSamples    string
	Metric        string
	Workers       int
}

// ParseSettings converts raw form values into a Job. Missing files yield
// errMissingInput and unparsable or out-of-range numbers errInvalidNumber.
func ParseSettings(raw RawSettings) (Job, error) {
	ref := strings.TrimSpace(raw.ReferencePath)
	cand := strings.TrimSpace(raw.CandidatePath)
	if ref == "" || cand == "" {
		return Job{}, errMissingInput
	}

	fields := make([]FieldWeight, 0, len(raw.Weights))
	for _, w := range raw.Weights {
		value, err := parseNumber(w.Value)
		if err != nil || value < 0 {
			return Job{}, fmt.Errorf("%w: weight for %q: %q", errInvalidNumber, w.Field, w.Value)
		}
		fields = append(fields, FieldWeight{Name: strings.TrimSpace(w.Field), Weight: value})
	}

	eps, err := parseNumber(raw.Eps)
	if err != nil || eps <= 0 {
		return Job{}, fmt.Errorf("%w: eps: %q", errInvalidNumber, raw.Eps)
	}
	minSamples, err := strconv.Atoi(strings.TrimSpace(raw.MinSamples))
	if err != nil || minSamples < 1 {
		return Job{}, fmt.Errorf("%w: min_samples: %q", errInvalidNumber, raw.MinSamples)
	}
	metric, err := ParseMetric(raw.Metric)
	if err != nil {
		return Job{}, err
	}

	outDir := strings.TrimSpace(raw.OutputDir)
	if outDir == "" {
		outDir = "."
	}
	job := Job{
		ReferencePath: ref,
		CandidatePath: cand,
		OutputDir:     outDir,
		Fields:        fields,
		Params:        Params{Eps: eps, MinSamples: minSamples, Metric: metric, Workers: raw.Workers},
	}
	if err := job.Validate(); err != nil {
		return Job{}, err
	}
	return job, nil
}

// parseNumber accepts finite decimals with either '.' or ',' as separator.
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, errors.New("empty number")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("number out of range")
	}
	return v, nil
}
