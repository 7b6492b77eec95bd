// Package params holds the model parameter container exchanged between the
// coordinator and client agents: an ordered sequence of numeric tensors.
package params

import (
	"errors"
	"fmt"
)

var (
	ErrShapeMismatch = errors.New("tensor shape does not match data length")
	ErrIncompatible  = errors.New("parameter sets have incompatible layouts")
)

// Tensor is a single weight array with its logical shape. Data is stored
// flattened in row-major order.
type Tensor struct {
	Shape []int     `json:"shape" cbor:"1,keyasint"`
	Data  []float32 `json:"data"  cbor:"2,keyasint"`
}

// Numel returns the number of elements the shape describes.
func (t Tensor) Numel() int {
	if len(t.Shape) == 0 {
		return len(t.Data)
	}
	n := 1
	for _, d := range t.Shape {
		n *= d
	}

	return n
}

// ParameterSet is one full model's trainable weights. Layout (tensor count
// and shapes) is fixed for the lifetime of a training session.
type ParameterSet struct {
	Tensors []Tensor `json:"tensors" cbor:"1,keyasint"`
}

// New builds a ParameterSet from flattened tensors, validating that each
// shape matches its data length.
func New(tensors ...Tensor) (ParameterSet, error) {
	for i, t := range tensors {
		if t.Numel() != len(t.Data) {
			return ParameterSet{}, fmt.Errorf("tensor %d: %w", i, ErrShapeMismatch)
		}
	}

	return ParameterSet{Tensors: tensors}, nil
}

// Clone returns a deep copy. Parameter sets are handed across the transport
// with copy semantics, never shared mutation.
func (p ParameterSet) Clone() ParameterSet {
	tensors := make([]Tensor, len(p.Tensors))
	for i, t := range p.Tensors {
		shape := make([]int, len(t.Shape))
		copy(shape, t.Shape)
		data := make([]float32, len(t.Data))
		copy(data, t.Data)
		tensors[i] = Tensor{Shape: shape, Data: data}
	}

	return ParameterSet{Tensors: tensors}
}

// Empty reports whether the set carries no tensors.
func (p ParameterSet) Empty() bool {
	return len(p.Tensors) == 0
}

// Compatible checks that o has the same tensor count and shapes as p.
func (p ParameterSet) Compatible(o ParameterSet) error {
	if len(p.Tensors) != len(o.Tensors) {
		return fmt.Errorf("%w: %d vs %d tensors", ErrIncompatible, len(p.Tensors), len(o.Tensors))
	}
	for i := range p.Tensors {
		if len(p.Tensors[i].Data) != len(o.Tensors[i].Data) {
			return fmt.Errorf("%w: tensor %d has %d vs %d elements", ErrIncompatible, i, len(p.Tensors[i].Data), len(o.Tensors[i].Data))
		}
	}

	return nil
}

// ByteSize returns the raw payload size of the weights: four bytes per
// float32 element, shapes excluded. This is the figure reported in the
// up_bytes/down_bytes transfer metrics.
func (p ParameterSet) ByteSize() uint64 {
	var n uint64
	for _, t := range p.Tensors {
		n += uint64(len(t.Data)) * 4
	}

	return n
}
