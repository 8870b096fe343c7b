package model

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// Forest is a frozen random-forest artifact exported by the offline training
// pipeline. Trees are stored as flat parallel arrays (scikit-learn layout):
// node i splits on FeatureIndex[i] at Threshold[i], descending to Left[i] or
// Right[i]; leaves carry FeatureIndex -1 and the positive-class fraction in
// Value[i].
//
// A Forest is immutable after decoding and safe for concurrent Predict calls.
type Forest struct {
	Version      string   `msgpack:"version"`
	TrainedAt    string   `msgpack:"trained_at"`
	FeatureNames []string `msgpack:"feature_names"`
	Trees        []Tree   `msgpack:"trees"`
}

// Tree is a single decision tree in flat-array form
type Tree struct {
	FeatureIndex []int     `msgpack:"feature_index"` // -1 marks a leaf
	Threshold    []float64 `msgpack:"threshold"`
	Left         []int     `msgpack:"left"`
	Right        []int     `msgpack:"right"`
	Value        []float64 `msgpack:"value"` // leaf probability of the positive class
}

// LoadForest reads and decodes a msgpack forest artifact from disk
func LoadForest(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	var forest Forest
	if err := msgpack.Unmarshal(data, &forest); err != nil {
		return nil, fmt.Errorf("%w: failed to decode artifact %s: %v", ErrModelUnavailable, path, err)
	}

	if err := forest.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	return &forest, nil
}

func (f *Forest) validate() error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("artifact contains no trees")
	}
	if len(f.FeatureNames) == 0 {
		return fmt.Errorf("artifact contains no feature names")
	}
	for i, t := range f.Trees {
		n := len(t.FeatureIndex)
		if n == 0 {
			return fmt.Errorf("tree %d is empty", i)
		}
		if len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n || len(t.Value) != n {
			return fmt.Errorf("tree %d has inconsistent array lengths", i)
		}
	}
	return nil
}

// Predict averages the positive-class probability across all trees.
// Features missing from the map score as zero, matching the training
// pipeline's fill_value for absent columns.
func (f *Forest) Predict(features map[string]float64) (float64, error) {
	// Resolve the named map into the trained column order once
	row := make([]float64, len(f.FeatureNames))
	for i, name := range f.FeatureNames {
		row[i] = features[name]
	}

	var sum float64
	for i := range f.Trees {
		p, err := f.Trees[i].traverse(row)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += p
	}

	return sum / float64(len(f.Trees)), nil
}

// Name implements Predictor
func (f *Forest) Name() string {
	if f.Version != "" {
		return "forest/" + f.Version
	}
	return "forest"
}

// traverse walks the tree from the root to a leaf for one feature row
func (t *Tree) traverse(row []float64) (float64, error) {
	node := 0
	// Bounded by node count; a longer walk means a malformed (cyclic) tree
	for steps := 0; steps <= len(t.FeatureIndex); steps++ {
		fi := t.FeatureIndex[node]
		if fi < 0 {
			return t.Value[node], nil
		}
		if fi >= len(row) {
			return 0, fmt.Errorf("node %d references feature %d beyond row width %d", node, fi, len(row))
		}

		next := t.Left[node]
		if row[fi] > t.Threshold[node] {
			next = t.Right[node]
		}
		if next < 0 || next >= len(t.FeatureIndex) {
			return 0, fmt.Errorf("node %d has child %d out of range", node, next)
		}
		node = next
	}
	return 0, fmt.Errorf("traversal exceeded node count, tree is cyclic")
}
