package frame

import (
	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/framestat/pkg/columnar"
	"github.com/ajitpratap0/framestat/pkg/errors"
)

// Quartile levels reported by Describe.
var describeQuantiles = []float64{0.25, 0.5, 0.75}

// ColumnSummary describes one column. Statistics are only set for numeric
// columns with at least one row.
type ColumnSummary struct {
	Name   string              `json:"name"`
	Kind   string              `json:"kind"`
	Count  int                 `json:"count"`
	Mean   *columnar.DataValue `json:"mean,omitempty"`
	StdDev *columnar.DataValue `json:"stddev,omitempty"`
	Median *columnar.DataValue `json:"median,omitempty"`
	Q25    *columnar.DataValue `json:"q25,omitempty"`
	Q50    *columnar.DataValue `json:"q50,omitempty"`
	Q75    *columnar.DataValue `json:"q75,omitempty"`
}

// Describe summarizes every column in order. Mean, median and stddev go
// through the statistics cache.
func (df *DataFrame) Describe() ([]ColumnSummary, error) {
	summaries := make([]ColumnSummary, 0, len(df.columns))
	seen := make(map[string]bool, len(df.columns))

	for _, col := range df.columns {
		s := ColumnSummary{
			Name:  col.Name(),
			Kind:  col.Kind().String(),
			Count: col.Len(),
		}
		// A repeated name resolves to its first column everywhere else, so
		// only the first one gets statistics.
		describable := col.Kind().Numeric() && col.Len() > 0 && !seen[col.Name()]
		seen[col.Name()] = true
		if !describable {
			summaries = append(summaries, s)
			continue
		}

		var err error
		if s.Mean, err = valueOrErr(df.Mean(col.Name())); err != nil {
			return nil, err
		}
		if s.StdDev, err = valueOrErr(df.StdDev(col.Name())); err != nil {
			return nil, err
		}
		if s.Median, err = valueOrErr(df.Median(col.Name())); err != nil {
			return nil, err
		}
		quartiles := []**columnar.DataValue{&s.Q25, &s.Q50, &s.Q75}
		for i, q := range describeQuantiles {
			if *quartiles[i], err = valueOrErr(df.Quantile(col.Name(), q)); err != nil {
				return nil, err
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func valueOrErr(v columnar.DataValue, err error) (*columnar.DataValue, error) {
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// MarshalSummary encodes summaries as indented JSON.
func MarshalSummary(summaries []ColumnSummary) ([]byte, error) {
	data, err := gojson.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode summary")
	}
	return data, nil
}
