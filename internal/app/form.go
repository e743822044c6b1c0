package app

import (
	"strconv"

	"yashubustudio/profitprophet/prophet"
)

// previewLimit bounds the rows shown in the result table.
const previewLimit = 500

// formValues is the text currently entered in the main form.
type formValues struct {
	Reference  string
	Candidate  string
	OutputDir  string
	Weights    []string
	Eps        string
	MinSamples string
	Metric     string
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// initialValues prefills the form from cfg.
func initialValues(cfg prophet.Config) formValues {
	v := formValues{
		Reference:  cfg.ReferencePath,
		Candidate:  cfg.CandidatePath,
		OutputDir:  cfg.OutputDir,
		Weights:    make([]string, len(cfg.Fields)),
		Eps:        formatNumber(cfg.Eps),
		MinSamples: strconv.Itoa(cfg.MinSamples),
		Metric:     cfg.Metric,
	}
	for i, f := range cfg.Fields {
		v.Weights[i] = formatNumber(f.Weight)
	}
	return v
}

// rawSettings pairs the entered weights with the configured field names.
func rawSettings(fields []prophet.FieldWeight, v formValues, workers int) prophet.RawSettings {
	raw := prophet.RawSettings{
		ReferencePath: v.Reference,
		CandidatePath: v.Candidate,
		OutputDir:     v.OutputDir,
		Weights:       make([]prophet.RawWeight, len(fields)),
		Eps:           v.Eps,
		MinSamples:    v.MinSamples,
		Metric:        v.Metric,
		Workers:       workers,
	}
	for i, f := range fields {
		value := ""
		if i < len(v.Weights) {
			value = v.Weights[i]
		}
		raw.Weights[i] = prophet.RawWeight{Field: f.Name, Value: value}
	}
	return raw
}

// applyJob stores the parsed job back into cfg so it is persisted.
func applyJob(cfg prophet.Config, job prophet.Job) prophet.Config {
	cfg.ReferencePath = job.ReferencePath
	cfg.CandidatePath = job.CandidatePath
	cfg.OutputDir = job.OutputDir
	cfg.Fields = append([]prophet.FieldWeight(nil), job.Fields...)
	cfg.Eps = job.Params.Eps
	cfg.MinSamples = job.Params.MinSamples
	cfg.Metric = prophet.MetricName(job.Params.Metric)
	return cfg
}

// previewData returns header plus at most limit rows of t.
func previewData(t *prophet.Table, limit int) [][]string {
	if t == nil {
		return nil
	}
	n := t.Len()
	if n > limit {
		n = limit
	}
	data := make([][]string, 0, n+1)
	data = append(data, t.Header)
	data = append(data, t.Rows[:n]...)
	return data
}

func truncateText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}
