// Package nnet runs the embedding plus feed-forward network over feature groups
package nnet

import (
	"fmt"

	"github.com/viterin/vek/vek32"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"langid/internal/core/features"
)

// Activation is applied element-wise after a layer's affine step
type Activation string

const (
	Identity Activation = "identity"
	ReLU     Activation = "relu"
)

// EmbeddingTable is a dense Rows x Dim row-major matrix
type EmbeddingTable struct {
	Rows int       `msgpack:"rows"`
	Dim  int       `msgpack:"dim"`
	Data []float32 `msgpack:"data"`
}

// Row returns row i without copying
func (t EmbeddingTable) Row(i int) []float32 {
	return t.Data[i*t.Dim : (i+1)*t.Dim]
}

// Layer computes act(W x + b) with W stored Out x In row-major
type Layer struct {
	In         int        `msgpack:"in"`
	Out        int        `msgpack:"out"`
	Weights    []float32  `msgpack:"weights"`
	Bias       []float32  `msgpack:"bias"`
	Activation Activation `msgpack:"activation"`
}

// Network is read-only after New and safe for concurrent use
type Network struct {
	tables []EmbeddingTable
	layers []Layer
	width  int // concatenated embedding width
}

// New validates every dimension and returns a network. The last layer must
// be linear; its output is the logit vector
func New(tables []EmbeddingTable, layers []Layer) (*Network, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("nnet: no embedding tables")
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("nnet: no layers")
	}

	width := 0
	for i, t := range tables {
		if t.Rows <= 0 || t.Dim <= 0 {
			return nil, fmt.Errorf("nnet: table %d has shape %dx%d", i, t.Rows, t.Dim)
		}
		if len(t.Data) != t.Rows*t.Dim {
			return nil, fmt.Errorf("nnet: table %d has %d values, want %d", i, len(t.Data), t.Rows*t.Dim)
		}
		width += t.Dim
	}

	in := width
	for i, l := range layers {
		if l.In != in {
			return nil, fmt.Errorf("nnet: layer %d takes %d inputs, previous width is %d", i, l.In, in)
		}
		if l.Out <= 0 {
			return nil, fmt.Errorf("nnet: layer %d has %d outputs", i, l.Out)
		}
		if len(l.Weights) != l.In*l.Out {
			return nil, fmt.Errorf("nnet: layer %d has %d weights, want %d", i, len(l.Weights), l.In*l.Out)
		}
		if len(l.Bias) != l.Out {
			return nil, fmt.Errorf("nnet: layer %d has %d biases, want %d", i, len(l.Bias), l.Out)
		}
		switch l.Activation {
		case Identity, ReLU:
		default:
			return nil, fmt.Errorf("nnet: layer %d has unknown activation %q", i, l.Activation)
		}
		in = l.Out
	}
	if last := layers[len(layers)-1]; last.Activation != Identity {
		return nil, fmt.Errorf("nnet: output layer must be %s, got %s", Identity, last.Activation)
	}

	return &Network{tables: tables, layers: layers, width: width}, nil
}

// Outputs is the width of the logit vector
func (n *Network) Outputs() int { return n.layers[len(n.layers)-1].Out }

// Tables is the number of feature groups the network expects
func (n *Network) Tables() int { return len(n.tables) }

// Infer returns the logits for one span's feature groups. Groups map to
// tables by position
func (n *Network) Infer(groups []features.Group) ([]float32, error) {
	if len(groups) != len(n.tables) {
		return nil, fmt.Errorf("nnet: got %d feature groups, want %d", len(groups), len(n.tables))
	}

	x := make([]float32, n.width)
	off := 0
	for i, g := range groups {
		t := n.tables[i]
		if err := embed(x[off:off+t.Dim], t, g.Features); err != nil {
			return nil, fmt.Errorf("nnet: group %d: %w", i, err)
		}
		off += t.Dim
	}

	for _, l := range n.layers {
		x = apply(l, x)
	}
	return x, nil
}

// embed accumulates the weighted sum of the rows named by fs into dst
func embed(dst []float32, t EmbeddingTable, fs []features.Feature) error {
	for _, f := range fs {
		if int(f.Bucket) >= t.Rows {
			return fmt.Errorf("bucket %d out of range [0,%d)", f.Bucket, t.Rows)
		}
		if f.Weight == 0 {
			continue
		}
		vek32.Add_Inplace(dst, vek32.MulNumber(t.Row(int(f.Bucket)), f.Weight))
	}
	return nil
}

func apply(l Layer, x []float32) []float32 {
	y := make([]float32, l.Out)
	copy(y, l.Bias)
	blas32.Gemv(
		blas.NoTrans,
		1,
		blas32.General{Rows: l.Out, Cols: l.In, Stride: l.In, Data: l.Weights},
		blas32.Vector{N: l.In, Inc: 1, Data: x},
		1,
		blas32.Vector{N: l.Out, Inc: 1, Data: y},
	)
	if l.Activation == ReLU {
		for i, v := range y {
			if v < 0 {
				y[i] = 0
			}
		}
	}
	return y
}
