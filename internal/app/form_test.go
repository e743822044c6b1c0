package app

import (
	"testing"

	"github.com/hupe1980/vecgo/distance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/profitprophet/prophet"
)

func TestInitialValues(t *testing.T) {
	cfg := prophet.DefaultConfig()
	cfg.Fields[1].Weight = 12.5

	v := initialValues(cfg)
	assert.Equal(t, "0.5", v.Eps)
	assert.Equal(t, "5", v.MinSamples)
	assert.Equal(t, "euclidean", v.Metric)
	require.Len(t, v.Weights, len(prophet.DefaultFields))
	assert.Equal(t, "100", v.Weights[0])
	assert.Equal(t, "12.5", v.Weights[1])
}

func TestRawSettingsRoundTrip(t *testing.T) {
	cfg := prophet.DefaultConfig()
	v := initialValues(cfg)
	v.Reference = "customers.csv"
	v.Candidate = "leads.csv"
	v.Weights[0] = "0"
	v.Metric = "cosine"

	job, err := prophet.ParseSettings(rawSettings(cfg.Fields, v, 2))
	require.NoError(t, err)
	assert.Equal(t, 0.0, job.Fields[0].Weight)
	assert.Equal(t, distance.MetricCosine, job.Params.Metric)
	assert.Equal(t, 2, job.Params.Workers)

	updated := applyJob(cfg, job)
	assert.Equal(t, "customers.csv", updated.ReferencePath)
	assert.Equal(t, "cosine", updated.Metric)
	assert.Equal(t, 0.0, updated.Fields[0].Weight)
	assert.Equal(t, 100.0, cfg.Fields[0].Weight, "applyJob must not alias the original fields")
}

func TestRawSettingsMissingWeight(t *testing.T) {
	fields := []prophet.FieldWeight{{Name: "Branche"}, {Name: "Website"}}
	raw := rawSettings(fields, formValues{Weights: []string{"100"}}, 0)

	require.Len(t, raw.Weights, 2)
	assert.Equal(t, "", raw.Weights[1].Value)
}

func TestPreviewData(t *testing.T) {
	tbl := prophet.NewTable([]string{"A"}, [][]string{{"1"}, {"2"}, {"3"}})

	data := previewData(tbl, 2)
	assert.Equal(t, [][]string{{"A"}, {"1"}, {"2"}}, data)
	assert.Nil(t, previewData(nil, 2))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "abc", truncateText("abc", 3))
	assert.Equal(t, "Mü…", truncateText("Müller", 2))
}
