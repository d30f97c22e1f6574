package model

import (
	"fmt"
	"math"
	"strconv"
)

// Artifact kinds reported in Info.
const (
	KindXGBoost  = "xgboost"
	KindLogistic = "logistic"
)

// tree is one regression tree in XGBoost's array layout. Node 0 is the root;
// a node is a leaf when left[n] == -1, and its leaf value is cond[n].
type tree struct {
	left        []int
	right       []int
	split       []int
	cond        []float32
	defaultLeft []bool
}

// leaf walks x down the tree. Comparisons are done in float32 like the
// XGBoost predictor, so thresholds learned on float32 data split identically.
func (t *tree) leaf(x []float64) float32 {
	n := 0
	for t.left[n] != -1 {
		f := x[t.split[n]]
		switch {
		case math.IsNaN(f):
			if t.defaultLeft[n] {
				n = t.left[n]
			} else {
				n = t.right[n]
			}
		case float32(f) < t.cond[n]:
			n = t.left[n]
		default:
			n = t.right[n]
		}
	}
	return t.cond[n]
}

// ensemble is a binary:logistic gradient-boosted tree model.
type ensemble struct {
	trees      []tree
	baseMargin float64
	features   int
}

func (e *ensemble) numFeatures() int {
	return e.features
}

func (e *ensemble) positive(row []float64) float64 {
	margin := e.baseMargin
	for i := range e.trees {
		margin += float64(e.trees[i].leaf(row))
	}
	return sigmoid(margin)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func buildEnsemble(l *xgbLearner) (*ensemble, error) {
	switch l.Objective.Name {
	case "binary:logistic", "reg:logistic":
	default:
		return nil, fmt.Errorf("objective %q is not a binary logistic objective", l.Objective.Name)
	}
	if l.GradientBooster.Name != "" && l.GradientBooster.Name != "gbtree" {
		return nil, fmt.Errorf("booster %q is not supported", l.GradientBooster.Name)
	}

	nf, err := strconv.Atoi(l.LearnerModelParam.NumFeature)
	if err != nil || nf <= 0 {
		return nil, fmt.Errorf("invalid num_feature %q", l.LearnerModelParam.NumFeature)
	}

	base := 0.5
	if l.LearnerModelParam.BaseScore != "" {
		base, err = parseScalar(l.LearnerModelParam.BaseScore)
		if err != nil {
			return nil, fmt.Errorf("invalid base_score %q: %w", l.LearnerModelParam.BaseScore, err)
		}
	}
	if base <= 0 || base >= 1 {
		return nil, fmt.Errorf("base_score %v outside (0,1)", base)
	}

	src := l.GradientBooster.Model.Trees
	if len(src) == 0 {
		return nil, fmt.Errorf("model has no trees")
	}
	e := &ensemble{
		trees:      make([]tree, len(src)),
		baseMargin: math.Log(base / (1 - base)),
		features:   nf,
	}
	for i := range src {
		t, err := buildTree(&src[i], nf)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		e.trees[i] = t
	}
	return e, nil
}

// buildTree validates the arrays so that leaf() can never index out of
// range or loop: every child id is greater than its parent.
func buildTree(src *xgbTree, numFeatures int) (tree, error) {
	n := len(src.LeftChildren)
	if n == 0 {
		return tree{}, fmt.Errorf("empty tree")
	}
	if len(src.RightChildren) != n || len(src.SplitIndices) != n || len(src.SplitConditions) != n {
		return tree{}, fmt.Errorf("node arrays differ in length")
	}
	defaultLeft := []bool(src.DefaultLeft)
	if defaultLeft == nil {
		defaultLeft = make([]bool, n)
	}
	if len(defaultLeft) != n {
		return tree{}, fmt.Errorf("default_left has %d entries, want %d", len(defaultLeft), n)
	}

	t := tree{
		left:        src.LeftChildren,
		right:       src.RightChildren,
		split:       src.SplitIndices,
		cond:        make([]float32, n),
		defaultLeft: defaultLeft,
	}
	for i := 0; i < n; i++ {
		t.cond[i] = float32(src.SplitConditions[i])
		if t.left[i] == -1 {
			if t.right[i] != -1 {
				return tree{}, fmt.Errorf("node %d: leaf with a right child", i)
			}
			continue
		}
		if t.left[i] <= i || t.left[i] >= n || t.right[i] <= i || t.right[i] >= n {
			return tree{}, fmt.Errorf("node %d: child out of range", i)
		}
		if t.split[i] < 0 || t.split[i] >= numFeatures {
			return tree{}, fmt.Errorf("node %d: split feature %d out of range", i, t.split[i])
		}
	}
	return t, nil
}
