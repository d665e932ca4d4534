package analysis

import (
	"math"
	"math/rand"
	"sort"
)

// eulerMascheroni is used in the average unsuccessful-search path length
// of a binary tree, the normalizing constant of isolation scoring.
const eulerMascheroni = 0.5772156649015329

// IsolationForest is a partitioning-based anomaly detector. Each tree
// isolates points by recursive random splits; points that isolate in
// fewer splits score closer to 1.
type IsolationForest struct {
	trees      []*isoNode
	numTrees   int
	sampleSize int
	rng        *rand.Rand
}

type isoNode struct {
	feature int
	split   float64
	left    *isoNode
	right   *isoNode
	size    int // leaf population; interior nodes keep 0
	leaf    bool
}

// NewIsolationForest creates a forest with the given tree count, subsample
// size, and deterministic seed.
func NewIsolationForest(numTrees, sampleSize int, seed int64) *IsolationForest {
	return &IsolationForest{
		numTrees:   numTrees,
		sampleSize: sampleSize,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Fit builds the forest on the given samples (rows x features).
func (f *IsolationForest) Fit(data [][]float64) {
	n := len(data)
	if n == 0 {
		f.trees = nil
		return
	}

	sample := f.sampleSize
	if sample > n {
		sample = n
	}
	maxDepth := int(math.Ceil(math.Log2(float64(sample))))
	if maxDepth < 1 {
		maxDepth = 1
	}

	f.trees = make([]*isoNode, f.numTrees)
	for t := 0; t < f.numTrees; t++ {
		subsample := f.subsample(data, sample)
		f.trees[t] = f.buildTree(subsample, 0, maxDepth)
	}
}

// subsample draws rows without replacement.
func (f *IsolationForest) subsample(data [][]float64, size int) [][]float64 {
	perm := f.rng.Perm(len(data))
	out := make([][]float64, size)
	for i := 0; i < size; i++ {
		out[i] = data[perm[i]]
	}
	return out
}

func (f *IsolationForest) buildTree(data [][]float64, depth, maxDepth int) *isoNode {
	if len(data) <= 1 || depth >= maxDepth {
		return &isoNode{leaf: true, size: len(data)}
	}

	features := len(data[0])
	// Only features with spread can split; a constant subsample is a leaf.
	splittable := make([]int, 0, features)
	for j := 0; j < features; j++ {
		lo, hi := data[0][j], data[0][j]
		for _, row := range data[1:] {
			if row[j] < lo {
				lo = row[j]
			}
			if row[j] > hi {
				hi = row[j]
			}
		}
		if hi > lo {
			splittable = append(splittable, j)
		}
	}
	if len(splittable) == 0 {
		return &isoNode{leaf: true, size: len(data)}
	}

	feature := splittable[f.rng.Intn(len(splittable))]
	lo, hi := data[0][feature], data[0][feature]
	for _, row := range data[1:] {
		if row[feature] < lo {
			lo = row[feature]
		}
		if row[feature] > hi {
			hi = row[feature]
		}
	}
	split := lo + f.rng.Float64()*(hi-lo)

	var left, right [][]float64
	for _, row := range data {
		if row[feature] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &isoNode{leaf: true, size: len(data)}
	}

	return &isoNode{
		feature: feature,
		split:   split,
		left:    f.buildTree(left, depth+1, maxDepth),
		right:   f.buildTree(right, depth+1, maxDepth),
	}
}

// Scores returns the anomaly score of every sample in (0, 1); higher
// means more anomalous.
func (f *IsolationForest) Scores(data [][]float64) []float64 {
	scores := make([]float64, len(data))
	if len(f.trees) == 0 {
		return scores
	}

	sample := f.sampleSize
	if sample > len(data) {
		sample = len(data)
	}
	norm := avgPathLength(sample)
	if norm == 0 {
		norm = 1
	}

	for i, row := range data {
		var total float64
		for _, tree := range f.trees {
			total += pathLength(tree, row, 0)
		}
		mean := total / float64(len(f.trees))
		scores[i] = math.Pow(2, -mean/norm)
	}
	return scores
}

func pathLength(node *isoNode, row []float64, depth float64) float64 {
	if node.leaf {
		return depth + avgPathLength(node.size)
	}
	if row[node.feature] < node.split {
		return pathLength(node.left, row, depth+1)
	}
	return pathLength(node.right, row, depth+1)
}

// avgPathLength is c(n): the average path length of an unsuccessful
// search in a binary search tree of n nodes.
func avgPathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		fn := float64(n)
		return 2*(math.Log(fn-1)+eulerMascheroni) - 2*(fn-1)/fn
	}
}

// LocalOutlierFactorScores computes the LOF score of every sample: the
// ratio of each point's local density to the density of its k nearest
// neighbours. Scores near 1 are inliers; materially larger scores mark
// local outliers. k is capped at n-1.
func LocalOutlierFactorScores(data [][]float64, k int) []float64 {
	n := len(data)
	scores := make([]float64, n)
	if n < 2 {
		return scores
	}
	if k > n-1 {
		k = n - 1
	}
	if k < 1 {
		k = 1
	}

	// Pairwise distances and k-nearest neighbours, ties broken by index.
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := euclidean(data[i], data[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	neighbors := make([][]int, n)
	kDist := make([]float64, n)
	for i := 0; i < n; i++ {
		order := make([]int, 0, n-1)
		for j := 0; j < n; j++ {
			if j != i {
				order = append(order, j)
			}
		}
		sort.SliceStable(order, func(a, b int) bool { return dist[i][order[a]] < dist[i][order[b]] })
		neighbors[i] = order[:k]
		kDist[i] = dist[i][order[k-1]]
	}

	// Local reachability density. Coincident points give a zero
	// reachability sum; their density is treated as effectively infinite.
	const inf = math.MaxFloat64
	lrd := make([]float64, n)
	for i := 0; i < n; i++ {
		var reachSum float64
		for _, j := range neighbors[i] {
			reachSum += math.Max(kDist[j], dist[i][j])
		}
		if reachSum == 0 {
			lrd[i] = inf
		} else {
			lrd[i] = float64(k) / reachSum
		}
	}

	for i := 0; i < n; i++ {
		var ratioSum float64
		for _, j := range neighbors[i] {
			if lrd[i] >= inf {
				ratioSum++
				continue
			}
			ratioSum += lrd[j] / lrd[i]
		}
		scores[i] = ratioSum / float64(k)
	}
	return scores
}

func euclidean(a, b []float64) float64 {
	var ss float64
	for i := range a {
		d := a[i] - b[i]
		ss += d * d
	}
	return math.Sqrt(ss)
}
