package params_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodneyosodo/flock/pkg/params"
)

func TestNew(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc    string
		tensors []params.Tensor
		err     error
	}{
		{
			desc: "valid tensors",
			tensors: []params.Tensor{
				{Shape: []int{2, 3}, Data: make([]float32, 6)},
				{Shape: []int{3}, Data: make([]float32, 3)},
			},
		},
		{
			desc:    "no tensors",
			tensors: nil,
		},
		{
			desc: "shape does not match data",
			tensors: []params.Tensor{
				{Shape: []int{2, 3}, Data: make([]float32, 5)},
			},
			err: params.ErrShapeMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			_, err := params.New(tc.tensors...)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)

				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestByteSize(t *testing.T) {
	t.Parallel()

	p, err := params.New(
		params.Tensor{Shape: []int{10}, Data: make([]float32, 10)},
		params.Tensor{Shape: []int{4, 5}, Data: make([]float32, 20)},
	)
	require.NoError(t, err)

	assert.Equal(t, uint64(120), p.ByteSize())
	assert.Equal(t, uint64(0), params.ParameterSet{}.ByteSize())
}

func TestClone(t *testing.T) {
	t.Parallel()

	p, err := params.New(params.Tensor{Shape: []int{3}, Data: []float32{1, 2, 3}})
	require.NoError(t, err)

	c := p.Clone()
	c.Tensors[0].Data[0] = 99
	c.Tensors[0].Shape[0] = 7

	assert.Equal(t, float32(1), p.Tensors[0].Data[0])
	assert.Equal(t, 3, p.Tensors[0].Shape[0])
}

func TestCompatible(t *testing.T) {
	t.Parallel()

	a, err := params.New(
		params.Tensor{Shape: []int{2, 2}, Data: make([]float32, 4)},
		params.Tensor{Shape: []int{2}, Data: make([]float32, 2)},
	)
	require.NoError(t, err)

	b := a.Clone()
	assert.NoError(t, a.Compatible(b))

	short, err := params.New(params.Tensor{Shape: []int{2, 2}, Data: make([]float32, 4)})
	require.NoError(t, err)
	assert.ErrorIs(t, a.Compatible(short), params.ErrIncompatible)

	wide, err := params.New(
		params.Tensor{Shape: []int{2, 3}, Data: make([]float32, 6)},
		params.Tensor{Shape: []int{2}, Data: make([]float32, 2)},
	)
	require.NoError(t, err)
	assert.ErrorIs(t, a.Compatible(wide), params.ErrIncompatible)
}

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	p, err := params.New(
		params.Tensor{Shape: []int{2, 2}, Data: []float32{0.5, -1.25, 3, 0}},
		params.Tensor{Shape: []int{2}, Data: []float32{1e-3, 42}},
	)
	require.NoError(t, err)

	s, err := params.EncodeString(p)
	require.NoError(t, err)

	got, err := params.DecodeString(s)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestDecodeStringInvalid(t *testing.T) {
	t.Parallel()

	_, err := params.DecodeString("not base64!!")
	assert.Error(t, err)

	_, err = params.DecodeString("aGVsbG8=")
	assert.Error(t, err)
}
