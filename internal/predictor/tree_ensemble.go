package predictor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/storecast/internal/common"
	"github.com/Veraticus/storecast/internal/schema"
)

// TreeNode is one node of a flat regression tree. Node 0 is the root.
type TreeNode struct {
	Feature   string  `json:"feature,omitempty"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Leaf      float64 `json:"leaf"`
	IsLeaf    bool    `json:"is_leaf"`
}

type compiledNode struct {
	TreeNode
	column int
}

// TreeEnsemble sums the leaves of boosted regression trees on top of a base score.
// A row goes left when its value is strictly below the threshold.
type TreeEnsemble struct {
	features
	trees     [][]compiledNode
	baseScore float64
}

type treeArtifact struct {
	Kind         string       `json:"kind"`
	FeatureNames []string     `json:"feature_names"`
	Trees        [][]TreeNode `json:"trees"`
	BaseScore    float64      `json:"base_score"`
}

// NewTreeEnsemble validates the trees and compiles feature names to column positions.
func NewTreeEnsemble(featureNames []string, baseScore float64, trees [][]TreeNode) (*TreeEnsemble, error) {
	s, err := schema.New(featureNames)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidModel, err)
	}

	compiled := make([][]compiledNode, len(trees))
	for t, nodes := range trees {
		if len(nodes) == 0 {
			return nil, fmt.Errorf("%w: tree %d is empty", common.ErrInvalidModel, t)
		}
		compiled[t] = make([]compiledNode, len(nodes))
		for i, n := range nodes {
			c := compiledNode{TreeNode: n, column: -1}
			if !n.IsLeaf {
				c.column = s.Position(n.Feature)
				if c.column < 0 {
					return nil, fmt.Errorf("%w: tree %d node %d splits on unknown feature %q",
						common.ErrInvalidModel, t, i, n.Feature)
				}
				// Children must point forward so evaluation always terminates.
				if n.Left <= i || n.Right <= i || n.Left >= len(nodes) || n.Right >= len(nodes) {
					return nil, fmt.Errorf("%w: tree %d node %d has invalid children", common.ErrInvalidModel, t, i)
				}
			}
			compiled[t][i] = c
		}
	}

	return &TreeEnsemble{
		features:  features{names: s.Columns()},
		trees:     compiled,
		baseScore: baseScore,
	}, nil
}

func parseTreeEnsemble(payload []byte) (*TreeEnsemble, error) {
	var a treeArtifact
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidModel, err)
	}
	return NewTreeEnsemble(a.FeatureNames, a.BaseScore, a.Trees)
}

// Predict implements Model.
func (m *TreeEnsemble) Predict(ctx context.Context, row schema.EncodedRow) (float64, error) {
	if err := m.check(ctx, row); err != nil {
		return 0, err
	}
	sum := m.baseScore
	for _, nodes := range m.trees {
		sum += evalTree(nodes, row.Values)
	}
	return sum, nil
}

func evalTree(nodes []compiledNode, values []float64) float64 {
	i := 0
	for !nodes[i].IsLeaf {
		if values[nodes[i].column] < nodes[i].Threshold {
			i = nodes[i].Left
		} else {
			i = nodes[i].Right
		}
	}
	return nodes[i].Leaf
}
