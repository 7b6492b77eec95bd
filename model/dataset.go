package model

import (
	"math"
	"math/rand"
)

// Example is one labeled sample.
type Example struct {
	Features []float64
	Label    int
}

// Dataset is one client's private partition: a training split and a local
// holdout used for evaluation.
type Dataset struct {
	Train    []Example
	Test     []Example
	Features int
	Classes  int
}

// LoadPartition generates a deterministic synthetic classification dataset
// for one client. Samples are Gaussian blobs around per-class centers; the
// centers depend only on the seed, so all partitions are drawn from the
// same underlying distribution while each client sees its own samples.
func LoadPartition(seed int64, partition, numExamples, features, classes int, testFraction float64) Dataset {
	centers := classCenters(seed, features, classes)

	rng := rand.New(rand.NewSource(seed + int64(partition)*7919))
	examples := make([]Example, numExamples)
	for i := range examples {
		label := rng.Intn(classes)
		x := make([]float64, features)
		for j := range x {
			x[j] = centers[label][j] + rng.NormFloat64()*0.5
		}
		examples[i] = Example{Features: x, Label: label}
	}

	split := numExamples - int(math.Round(float64(numExamples)*testFraction))
	if split < 1 {
		split = 1
	}
	if split > numExamples {
		split = numExamples
	}

	return Dataset{
		Train:    examples[:split],
		Test:     examples[split:],
		Features: features,
		Classes:  classes,
	}
}

func classCenters(seed int64, features, classes int) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	centers := make([][]float64, classes)
	for c := range centers {
		centers[c] = make([]float64, features)
		for j := range centers[c] {
			centers[c][j] = rng.NormFloat64() * 2
		}
	}

	return centers
}
