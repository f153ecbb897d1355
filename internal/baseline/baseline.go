// Package baseline compares a run against a previously saved JSON report.
package baseline

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/torosent/searchbench/internal/metrics"
)

// ErrInvalidBaseline is returned when the previous report cannot be used.
var ErrInvalidBaseline = errors.New("invalid baseline report")

// Delta compares the mean time of one algorithm at one width.
type Delta struct {
	Algorithm string  `json:"algorithm" yaml:"algorithm"`
	Width     int     `json:"width" yaml:"width"`
	Current   int64   `json:"current_ns" yaml:"current_ns"`
	Baseline  int64   `json:"baseline_ns" yaml:"baseline_ns"`
	Ratio     float64 `json:"ratio" yaml:"ratio"` // current / baseline; 0 when the baseline mean is 0
}

// Regressed reports whether the current mean exceeds the baseline by more
// than tolerance (0.1 means 10%).
func (d Delta) Regressed(tolerance float64) bool {
	return d.Ratio > 1+tolerance
}

// Load reads a previous report from path.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read baseline %s: %w", path, err)
	}
	return data, nil
}

// Compare matches every algorithm and width present in both current and
// previous. previous is either a full JSON report, whose statistics live
// under "stats", or bare statistics. Deltas follow the order of current.
func Compare(current metrics.Stats, previous []byte) ([]Delta, error) {
	if !gjson.ValidBytes(previous) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidBaseline)
	}

	root := gjson.ParseBytes(previous)
	algorithms := root.Get("stats.algorithms")
	if !algorithms.Exists() {
		algorithms = root.Get("algorithms")
	}
	if !algorithms.IsArray() {
		return nil, fmt.Errorf("%w: no algorithms array", ErrInvalidBaseline)
	}

	previousMeans := make(map[string]map[int]int64)
	algorithms.ForEach(func(_, alg gjson.Result) bool {
		name := alg.Get("name").String()
		if name == "" {
			return true
		}
		byWidth := make(map[int]int64)
		alg.Get("points").ForEach(func(_, point gjson.Result) bool {
			width := point.Get("width")
			mean := point.Get("mean_ns")
			if width.Exists() && mean.Exists() {
				byWidth[int(width.Int())] = mean.Int()
			}
			return true
		})
		previousMeans[name] = byWidth
		return true
	})

	var deltas []Delta
	for _, alg := range current.Algorithms {
		byWidth, ok := previousMeans[alg.Name]
		if !ok {
			continue
		}
		for _, point := range alg.Points {
			base, ok := byWidth[point.Width]
			if !ok {
				continue
			}
			delta := Delta{
				Algorithm: alg.Name,
				Width:     point.Width,
				Current:   point.MeanNs,
				Baseline:  base,
			}
			if base > 0 {
				delta.Ratio = float64(point.MeanNs) / float64(base)
			}
			deltas = append(deltas, delta)
		}
	}
	return deltas, nil
}
