package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/clinic-sim/sim"
)

// WaitBucketLabels names the wait-time bins, aligned with waitBucketDividers.
var WaitBucketLabels = []string{"0-5", "5-10", "10-15", "15-20", "20-30", "30-60", "60+"}

// Bins are [lo, hi): a 5-minute wait falls in "5-10".
var waitBucketDividers = []float64{0, 5, 10, 15, 20, 30, 60, math.Inf(1)}

// Distribution holds wait-time histograms for both stages.
type Distribution struct {
	Labels         []string `json:"labels"`
	ConsultCounts  []int    `json:"consultCounts"`
	DispenseCounts []int    `json:"dispenseCounts"`
}

// Distribute buckets consult and dispense waits independently. Each count slice
// sums to the number of records. An empty run yields all-zero counts and sim.ErrEmptyRun.
func Distribute(run *sim.RunResult) (Distribution, error) {
	dist := Distribution{
		Labels:         slices.Clone(WaitBucketLabels),
		ConsultCounts:  make([]int, len(WaitBucketLabels)),
		DispenseCounts: make([]int, len(WaitBucketLabels)),
	}
	if run.Empty() {
		return dist, sim.ErrEmptyRun
	}
	c := collect(run)
	dist.ConsultCounts = BucketWaits(c.waitConsult)
	dist.DispenseCounts = BucketWaits(c.waitDispense)
	return dist, nil
}

// BucketWaits counts non-negative waits into the fixed wait bins.
func BucketWaits(waits []float64) []int {
	sorted := make([]float64, len(waits))
	for i, w := range waits {
		sorted[i] = max(w, 0) // stat.Histogram panics below the lowest divider
	}
	slices.Sort(sorted)
	hist := stat.Histogram(nil, waitBucketDividers, sorted, nil)

	counts := make([]int, len(hist))
	for i, v := range hist {
		counts[i] = int(v)
	}
	return counts
}
