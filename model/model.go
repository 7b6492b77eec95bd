// Package model supplies the demonstration model: a small linear softmax
// classifier trained with mini-batch SGD, plus synthetic dataset loading.
package model

import (
	"math"
	"math/rand"

	"github.com/rodneyosodo/flock/pkg/params"
)

// Model is a multinomial logistic regression over dense features. Weights
// are kept as float64 internally and exchanged as float32 tensors.
type Model struct {
	features int
	classes  int
	lr       float64
	w        []float64 // classes x features, row-major
	b        []float64 // classes
}

// New is the model factory. Initialization is deterministic given the
// seed, so the coordinator and every client can construct compatible
// models independently.
func New(features, classes int, lr float64, seed int64) *Model {
	rng := rand.New(rand.NewSource(seed))
	m := &Model{
		features: features,
		classes:  classes,
		lr:       lr,
		w:        make([]float64, classes*features),
		b:        make([]float64, classes),
	}
	scale := 1 / math.Sqrt(float64(features))
	for i := range m.w {
		m.w[i] = rng.NormFloat64() * scale
	}

	return m
}

// Parameters returns a copy of the current weights as a ParameterSet.
func (m *Model) Parameters() params.ParameterSet {
	w := make([]float32, len(m.w))
	for i, v := range m.w {
		w[i] = float32(v)
	}
	b := make([]float32, len(m.b))
	for i, v := range m.b {
		b[i] = float32(v)
	}

	return params.ParameterSet{Tensors: []params.Tensor{
		{Shape: []int{m.classes, m.features}, Data: w},
		{Shape: []int{m.classes}, Data: b},
	}}
}

// SetParameters overwrites the model weights wholesale.
func (m *Model) SetParameters(p params.ParameterSet) error {
	if err := m.Parameters().Compatible(p); err != nil {
		return err
	}
	for i, v := range p.Tensors[0].Data {
		m.w[i] = float64(v)
	}
	for i, v := range p.Tensors[1].Data {
		m.b[i] = float64(v)
	}

	return nil
}

// Train runs the given number of epochs of mini-batch SGD over the
// examples and returns how many examples were used.
func (m *Model) Train(examples []Example, epochs, batchSize int) int {
	if len(examples) == 0 || epochs <= 0 {
		return 0
	}
	if batchSize <= 0 {
		batchSize = 32
	}

	for range epochs {
		for start := 0; start < len(examples); start += batchSize {
			end := min(start+batchSize, len(examples))
			m.step(examples[start:end])
		}
	}

	return len(examples) * epochs
}

// Evaluate scores the examples, returning average cross-entropy loss and
// accuracy.
func (m *Model) Evaluate(examples []Example) (loss, accuracy float64) {
	if len(examples) == 0 {
		return 0, 0
	}

	var correct int
	for _, ex := range examples {
		probs := m.forward(ex.Features)
		loss += -math.Log(math.Max(probs[ex.Label], 1e-12))
		if argmax(probs) == ex.Label {
			correct++
		}
	}

	return loss / float64(len(examples)), float64(correct) / float64(len(examples))
}

func (m *Model) forward(x []float64) []float64 {
	logits := make([]float64, m.classes)
	for c := range m.classes {
		sum := m.b[c]
		row := m.w[c*m.features : (c+1)*m.features]
		for j, v := range x {
			sum += row[j] * v
		}
		logits[c] = sum
	}

	return softmax(logits)
}

func (m *Model) step(batch []Example) {
	gw := make([]float64, len(m.w))
	gb := make([]float64, len(m.b))
	for _, ex := range batch {
		probs := m.forward(ex.Features)
		for c := range m.classes {
			g := probs[c]
			if c == ex.Label {
				g -= 1
			}
			gb[c] += g
			row := gw[c*m.features : (c+1)*m.features]
			for j, v := range ex.Features {
				row[j] += g * v
			}
		}
	}

	scale := m.lr / float64(len(batch))
	for i := range m.w {
		m.w[i] -= scale * gw[i]
	}
	for i := range m.b {
		m.b[i] -= scale * gb[i]
	}
}

func softmax(logits []float64) []float64 {
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}

	var sum float64
	out := make([]float64, len(logits))
	for i, v := range logits {
		out[i] = math.Exp(v - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}

	return out
}

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}

	return best
}
