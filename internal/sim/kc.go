package sim

import (
	"sort"

	"github.com/blck04/irrigation-model/internal/models"
)

// KcCurve maps a day after planting to a crop coefficient. The zero curve
// (no samples) uses the built-in piecewise maize curve; a curve built from
// samples holds each sample value until the next sample day and falls back to
// the built-in curve for days before the first sample. The built-in curve
// interpolates through the development stage; a sampled curve is step/hold
// only.
type KcCurve struct {
	samples []models.KcPoint // sorted by day, all days >= 0
}

// DefaultKcCurve returns the built-in maize curve.
func DefaultKcCurve() *KcCurve {
	return &KcCurve{}
}

// KcCurveFromSamples builds a step/hold curve from measured samples. Samples
// with negative days are dropped. Passing no usable samples is equivalent to
// DefaultKcCurve.
func KcCurveFromSamples(points []models.KcPoint) *KcCurve {
	samples := make([]models.KcPoint, 0, len(points))
	for _, p := range points {
		if p.Day < 0 {
			continue
		}
		samples = append(samples, p)
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].Day < samples[j].Day })
	return &KcCurve{samples: samples}
}

// Kc returns the crop coefficient for a day after planting.
func (c *KcCurve) Kc(day int) float64 {
	// Largest sample day <= query day wins.
	i := sort.Search(len(c.samples), func(i int) bool { return c.samples[i].Day > day })
	if i > 0 {
		return c.samples[i-1].Kc
	}
	return defaultKc(day)
}

// defaultKc is the piecewise maize coefficient curve: initial stage, linear
// development, mid season, then the late-season value held to harvest.
func defaultKc(day int) float64 {
	switch {
	case day <= 25:
		return 0.3
	case day <= 50:
		return 0.3 + (1.15-0.3)*float64(day-25)/25
	case day <= 90:
		return 1.15
	default:
		return 0.8
	}
}
