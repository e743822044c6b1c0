package prophet

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/vecgo/distance"
	"golang.org/x/sync/errgroup"
)

// Params configures the density clusterer.
type Params struct {
	Eps        float64
	MinSamples int
	// Metric is distance.MetricL2 (Euclidean) or distance.MetricCosine.
	Metric distance.Metric
	// Workers bounds the goroutines used per stage; 0 means GOMAXPROCS.
	Workers int
}

// DefaultParams returns the default clustering parameters.
func DefaultParams() Params {
	return Params{Eps: DefaultEps, MinSamples: DefaultMinSamples, Metric: distance.MetricL2}
}

// Validate rejects parameters DBSCAN cannot run with.
func (p Params) Validate() error {
	if math.IsNaN(p.Eps) || math.IsInf(p.Eps, 0) || p.Eps <= 0 {
		return configErrorf("eps must be a positive number, got %v", p.Eps)
	}
	if p.MinSamples <= 0 {
		return configErrorf("min_samples must be a positive integer, got %d", p.MinSamples)
	}
	if p.Metric != distance.MetricL2 && p.Metric != distance.MetricCosine {
		return configErrorf("unsupported metric %v", p.Metric)
	}
	if p.Workers < 0 {
		return configErrorf("workers must not be negative, got %d", p.Workers)
	}
	return nil
}

func (p Params) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// ParseMetric maps a metric name to a distance.Metric.
func ParseMetric(name string) (distance.Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "euclidean", "l2":
		return distance.MetricL2, nil
	case "cosine":
		return distance.MetricCosine, nil
	default:
		return 0, configErrorf("unknown metric %q (want euclidean or cosine)", name)
	}
}

// MetricName returns the configuration name of m.
func MetricName(m distance.Metric) string {
	if m == distance.MetricCosine {
		return "cosine"
	}
	return "euclidean"
}

// Model is a DBSCAN fit over reference rows.
type Model struct {
	params   Params
	points   Matrix
	norms    []float64
	labels   []Label
	core     *roaring.Bitmap
	clusters []int
}

// FitDBSCAN clusters the rows of x. A row's neighbourhood contains every row
// (itself included) within Eps; rows with at least MinSamples neighbours are
// core points. Clusters are grown in row order so labels are deterministic.
func FitDBSCAN(ctx context.Context, x Matrix, p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m := &Model{
		params: p,
		points: x,
		norms:  make([]float64, x.Rows()),
		core:   roaring.New(),
	}
	for i := range m.norms {
		m.norms[i] = rowNorm(x.rows[i])
	}

	n := x.Rows()
	neighbours := make([]*roaring.Bitmap, n)
	err := forEachChunk(ctx, n, p.workers(), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			nb := roaring.New()
			for j := 0; j < n; j++ {
				if m.within(x.rows[i], m.norms[i], j) {
					nb.Add(uint32(j))
				}
			}
			neighbours[i] = nb
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i, nb := range neighbours {
		if nb.GetCardinality() >= uint64(p.MinSamples) {
			m.core.Add(uint32(i))
		}
	}

	raw := make([]int, n)
	for i := range raw {
		raw[i] = -1
	}
	next := 0
	var stack []uint32
	for i := 0; i < n; i++ {
		if raw[i] != -1 || !m.core.Contains(uint32(i)) {
			continue
		}
		cur := uint32(i)
		for {
			if raw[cur] == -1 {
				raw[cur] = next
				if m.core.Contains(cur) {
					it := neighbours[cur].Iterator()
					for it.HasNext() {
						q := it.Next()
						if raw[q] == -1 {
							stack = append(stack, q)
						}
					}
				}
			}
			if len(stack) == 0 {
				break
			}
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		}
		m.clusters = append(m.clusters, next)
		next++
	}

	m.labels = make([]Label, n)
	for i, l := range raw {
		if l >= 0 {
			m.labels[i] = Cluster(l)
		}
	}
	return m, nil
}

// Labels returns one label per reference row.
func (m *Model) Labels() []Label {
	out := make([]Label, len(m.labels))
	copy(out, m.labels)
	return out
}

// Clusters returns the ids of the clusters found, ascending.
func (m *Model) Clusters() []int {
	out := make([]int, len(m.clusters))
	copy(out, m.clusters)
	return out
}

// KnownClusters returns the cluster ids as a set.
func (m *Model) KnownClusters() map[int]struct{} {
	out := make(map[int]struct{}, len(m.clusters))
	for _, id := range m.clusters {
		out[id] = struct{}{}
	}
	return out
}

// CoreCount returns the number of core points.
func (m *Model) CoreCount() int {
	return int(m.core.GetCardinality())
}

// Predict assigns each row of y to the cluster of its nearest core point
// within Eps, or Outlier when no core point is that close. Ties go to the
// lowest reference row.
func (m *Model) Predict(ctx context.Context, y Matrix) ([]Label, error) {
	if y.Cols() != m.points.Cols() {
		return nil, fmt.Errorf("predict: candidate matrix has %d columns, model has %d", y.Cols(), m.points.Cols())
	}
	out := make([]Label, y.Rows())
	if m.core.IsEmpty() {
		return out, nil
	}
	cores := m.core.ToArray()
	err := forEachChunk(ctx, y.Rows(), m.params.workers(), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			row := y.rows[i]
			norm := rowNorm(row)
			best := math.Inf(1)
			for _, c := range cores {
				d, ok := m.distance(row, norm, int(c))
				if !ok || d >= best {
					continue
				}
				best = d
				out[i] = m.labels[c]
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Model) within(row []Entry, norm float64, j int) bool {
	_, ok := m.distance(row, norm, j)
	return ok
}

// distance returns the distance from row to reference point j and whether it
// lies within Eps.
func (m *Model) distance(row []Entry, norm float64, j int) (float64, bool) {
	if m.params.Metric == distance.MetricCosine {
		d := cosineDistance(row, m.points.rows[j], norm, m.norms[j])
		return d, d <= m.params.Eps
	}
	// Reverse triangle inequality: |‖a‖-‖b‖| <= ‖a-b‖.
	if math.Abs(norm-m.norms[j]) > m.params.Eps {
		return 0, false
	}
	d := euclidean(row, m.points.rows[j])
	return d, d <= m.params.Eps
}

// forEachChunk splits [0, n) into ranges and runs fn on up to workers goroutines.
func forEachChunk(ctx context.Context, n, workers int, fn func(lo, hi int) error) error {
	if n == 0 {
		return nil
	}
	if workers <= 1 {
		return fn(0, n)
	}
	chunk := (n + workers*4 - 1) / (workers * 4)
	if chunk < 32 {
		chunk = 32
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(lo, hi)
		})
	}
	return g.Wait()
}
