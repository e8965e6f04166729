package colour

import (
	"fmt"
	"image"
	"sort"
)

const (
	// DefaultColourCount is the histogram size requested when the caller
	// does not specify one.
	DefaultColourCount = 512

	// MaxColourCount bounds the extractor's target count.
	MaxColourCount = 4096

	// MergeThreshold is the minimum working-space distance between any two
	// histogram entries. Centroids closer than this are merged, summing
	// their weights.
	MergeThreshold = 5.0

	maxIterations  = 32
	convergenceEps = 0.05
)

// Extractor reduces the pixel population of an image to a weighted histogram
// of representative colours using deterministic weighted k-means clustering
// in the working colour space.
type Extractor struct {
	maxIterations int
	convergence   float64
	merge         float64
}

// NewExtractor creates an Extractor with default settings.
func NewExtractor() *Extractor {
	return &Extractor{
		maxIterations: maxIterations,
		convergence:   convergenceEps,
		merge:         MergeThreshold,
	}
}

// Extract clusters all pixel colours of img into at most count representative
// colours. The result is ordered by weight descending, weights sum to the
// pixel count of img, and no two entries are closer than MergeThreshold.
//
// Repeated calls on the same image produce identical histograms: centroid
// seeding is derived from frequency order, never from a random source.
func (e *Extractor) Extract(img image.Image, count int) (Histogram, error) {
	if count < 1 || count > MaxColourCount {
		return nil, fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidCount, count, MaxColourCount)
	}
	if img == nil {
		return nil, fmt.Errorf("image: %w", ErrEmptyInput)
	}

	points := collectPixels(img)
	if len(points) == 0 {
		return nil, fmt.Errorf("image has no pixels: %w", ErrEmptyInput)
	}

	var clusters []WeightedColour
	if len(points) <= count {
		clusters = points
	} else {
		clusters = e.cluster(points, count)
	}

	hist := e.mergeNearDuplicates(clusters)
	hist.sortByWeight()
	return hist, nil
}

// collectPixels deduplicates the image's pixels into weighted working-space
// points, ordered by frequency descending (ties by hex) so every later stage
// sees a deterministic sequence.
func collectPixels(img image.Image) []WeightedColour {
	bounds := img.Bounds()
	counts := make(map[RGB]float64)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			rgb := RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
			counts[rgb]++
		}
	}

	keys := make([]RGB, 0, len(counts))
	for rgb := range counts {
		keys = append(keys, rgb)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i].Hex() < keys[j].Hex()
	})

	points := make([]WeightedColour, len(keys))
	for i, rgb := range keys {
		points[i] = WeightedColour{Colour: ToWorking(rgb), Weight: counts[rgb]}
	}
	return points
}

// cluster runs weighted k-means over the deduplicated points and returns one
// weighted colour per non-empty cluster.
func (e *Extractor) cluster(points []WeightedColour, k int) []WeightedColour {
	centroids := seedCentroids(points, k)
	assignments := make([]int, len(points))

	for iter := 0; iter < e.maxIterations; iter++ {
		for i, p := range points {
			assignments[i] = nearestCentroid(p.Colour, centroids)
		}

		next := recomputeCentroids(points, assignments, centroids)

		moved := 0.0
		for i := range centroids {
			if d := Distance(centroids[i], next[i]); d > moved {
				moved = d
			}
		}
		centroids = next
		if moved < e.convergence {
			break
		}
	}

	// Final assignment against the converged centroids, then fold each
	// cluster into a single weighted colour.
	weights := make([]float64, len(centroids))
	for _, p := range points {
		weights[nearestCentroid(p.Colour, centroids)] += p.Weight
	}

	clusters := make([]WeightedColour, 0, len(centroids))
	for i, c := range centroids {
		if weights[i] > 0 {
			clusters = append(clusters, WeightedColour{Colour: c, Weight: weights[i]})
		}
	}
	return clusters
}

// seedCentroids picks k initial centroids deterministically: the most
// frequent colour first, then repeatedly the point with the largest
// weight-scaled squared distance to its nearest chosen centroid. This is the
// k-means++ spreading rule with the sampling step replaced by an argmax, so
// identical inputs always seed identically.
func seedCentroids(points []WeightedColour, k int) []Colour {
	centroids := make([]Colour, 0, k)
	centroids = append(centroids, points[0].Colour)

	minDistSq := make([]float64, len(points))
	for i, p := range points {
		d := Distance(p.Colour, centroids[0])
		minDistSq[i] = d * d
	}

	for len(centroids) < k {
		best, bestScore := -1, 0.0
		for i, p := range points {
			score := p.Weight * minDistSq[i]
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			// All remaining points coincide with chosen centroids.
			break
		}
		centroids = append(centroids, points[best].Colour)
		for i, p := range points {
			d := Distance(p.Colour, points[best].Colour)
			if dsq := d * d; dsq < minDistSq[i] {
				minDistSq[i] = dsq
			}
		}
	}
	return centroids
}

// nearestCentroid returns the index of the centroid closest to c.
// Ties resolve to the lowest index.
func nearestCentroid(c Colour, centroids []Colour) int {
	nearest, minDist := 0, Distance(c, centroids[0])
	for i := 1; i < len(centroids); i++ {
		if d := Distance(c, centroids[i]); d < minDist {
			nearest, minDist = i, d
		}
	}
	return nearest
}

// recomputeCentroids accumulates per-cluster weighted sums into a fresh slice
// and returns the weighted means. Clusters that received no points keep their
// previous centroid.
func recomputeCentroids(points []WeightedColour, assignments []int, prev []Colour) []Colour {
	type accumulator struct {
		l, u, v, weight float64
	}
	acc := make([]accumulator, len(prev))
	for i, p := range points {
		a := &acc[assignments[i]]
		a.l += p.Colour.L * p.Weight
		a.u += p.Colour.U * p.Weight
		a.v += p.Colour.V * p.Weight
		a.weight += p.Weight
	}

	next := make([]Colour, len(prev))
	for i, a := range acc {
		if a.weight > 0 {
			next[i] = Colour{L: a.l / a.weight, U: a.u / a.weight, V: a.v / a.weight}
		} else {
			next[i] = prev[i]
		}
	}
	return next
}

// mergeNearDuplicates folds clusters whose centroids are within the merge
// threshold of a heavier cluster into that cluster, summing weights. The
// surviving entries are pairwise at least MergeThreshold apart.
func (e *Extractor) mergeNearDuplicates(clusters []WeightedColour) Histogram {
	ordered := make([]WeightedColour, len(clusters))
	copy(ordered, clusters)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].less(ordered[j]) })

	merged := make(Histogram, 0, len(ordered))
	for _, c := range ordered {
		absorbed := false
		for i := range merged {
			if Distance(c.Colour, merged[i].Colour) < e.merge {
				merged[i].Weight += c.Weight
				absorbed = true
				break
			}
		}
		if !absorbed {
			merged = append(merged, c)
		}
	}
	return merged
}
