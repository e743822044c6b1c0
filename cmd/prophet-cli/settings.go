package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"yashubustudio/profitprophet/prophet"
)

// parseWeightFlags turns "Field=Value" pairs into raw weights, keeping order.
// The last '=' separates name and value so field names may contain '='.
func parseWeightFlags(values []string) ([]prophet.RawWeight, error) {
	out := make([]prophet.RawWeight, 0, len(values))
	for _, item := range values {
		idx := strings.LastIndex(item, "=")
		if idx <= 0 {
			return nil, fmt.Errorf("%w: weight %q must look like Field=Value", prophet.ErrConfig, item)
		}
		out = append(out, prophet.RawWeight{
			Field: strings.TrimSpace(item[:idx]),
			Value: strings.TrimSpace(item[idx+1:]),
		})
	}
	return out, nil
}

// rawWeights resolves the field weights: --weight flags first, then the
// config file's fields list, then the standard fields.
func rawWeights(v *viper.Viper) ([]prophet.RawWeight, error) {
	if flags := v.GetStringSlice("weight"); len(flags) > 0 {
		return parseWeightFlags(flags)
	}
	var fields []prophet.FieldWeight
	if v.IsSet("fields") {
		if err := v.UnmarshalKey("fields", &fields); err != nil {
			return nil, fmt.Errorf("%w: fields: %w", prophet.ErrConfig, err)
		}
	}
	if len(fields) == 0 {
		fields = prophet.DefaultFieldWeights()
	}
	out := make([]prophet.RawWeight, len(fields))
	for i, f := range fields {
		out[i] = prophet.RawWeight{Field: f.Name, Value: strconv.FormatFloat(f.Weight, 'f', -1, 64)}
	}
	return out, nil
}

// rawSettings collects flag, environment and config file values.
func rawSettings(v *viper.Viper) (prophet.RawSettings, error) {
	weights, err := rawWeights(v)
	if err != nil {
		return prophet.RawSettings{}, err
	}
	return prophet.RawSettings{
		ReferencePath: v.GetString("reference"),
		CandidatePath: v.GetString("candidate"),
		OutputDir:     v.GetString("output-dir"),
		Weights:       weights,
		Eps:           v.GetString("eps"),
		MinSamples:    v.GetString("min-samples"),
		Metric:        v.GetString("metric"),
		Workers:       v.GetInt("workers"),
	}, nil
}

func fieldNames(weights []prophet.RawWeight) []string {
	names := make([]string, len(weights))
	for i, w := range weights {
		names[i] = w.Field
	}
	return names
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return level, fmt.Errorf("%w: log level %q", prophet.ErrConfig, s)
	}
	return level, nil
}
