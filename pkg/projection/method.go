// Package projection collapses one axis of a volume with a statistical reduction
// (max, mean, median or variance) so a 3D stack can be drawn on as a 2D image.
package projection

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"draw3droi/internal/models"
)

// Method is one of the reductions a projection can apply.
// Reduce may reorder samples in place.
type Method interface {
	String() string
	OutputType(in models.SampleType) models.SampleType
	Reduce(samples []float64) float64
}

type (
	noneMethod     struct{}
	maxMethod      struct{}
	meanMethod     struct{}
	medianMethod   struct{}
	varianceMethod struct{}
)

var (
	// None shows the volume without reduction; the projector is bypassed
	None Method = noneMethod{}
	// Max keeps the brightest sample and the input's sample type
	Max Method = maxMethod{}
	// Mean averages the samples
	Mean Method = meanMethod{}
	// Median takes the middle sample, averaging the two middles for even counts
	Median Method = medianMethod{}
	// Variance is the sample variance (n-1 denominator)
	Variance Method = varianceMethod{}
)

// Methods lists every method in menu order
var Methods = []Method{None, Max, Mean, Median, Variance}

// ParseMethod resolves a method by its name, case-insensitively
func ParseMethod(name string) (Method, error) {
	for _, m := range Methods {
		if strings.EqualFold(m.String(), strings.TrimSpace(name)) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("unknown projection method %q", name)
}

func (noneMethod) String() string                                    { return "none" }
func (noneMethod) OutputType(in models.SampleType) models.SampleType { return in }
func (noneMethod) Reduce([]float64) float64 {
	panic("projection: None has no reduction")
}

func (maxMethod) String() string                                    { return "max" }
func (maxMethod) OutputType(in models.SampleType) models.SampleType { return in }
func (maxMethod) Reduce(samples []float64) float64 {
	return floats.Max(samples)
}

// The remaining reductions produce Float32 whatever the input type.

func (meanMethod) String() string                                 { return "mean" }
func (meanMethod) OutputType(models.SampleType) models.SampleType { return models.Float32 }
func (meanMethod) Reduce(samples []float64) float64 {
	return stat.Mean(samples, nil)
}

func (medianMethod) String() string                                 { return "median" }
func (medianMethod) OutputType(models.SampleType) models.SampleType { return models.Float32 }
func (medianMethod) Reduce(samples []float64) float64 {
	return median(samples)
}

func (varianceMethod) String() string                                 { return "variance" }
func (varianceMethod) OutputType(models.SampleType) models.SampleType { return models.Float32 }
func (varianceMethod) Reduce(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	return stat.Variance(samples, nil)
}

// median sorts values in place and returns the middle value
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sort.Float64s(values)
	if n%2 == 0 {
		return (values[n/2-1] + values[n/2]) / 2
	}
	return values[n/2]
}
