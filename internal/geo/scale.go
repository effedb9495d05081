package geo

// Scale is the linear value→bucket mapping behind the choropleth
// colors.
type Scale struct {
	Min float64
	Max float64
}

// NewScale computes the value range for a color scale. A degenerate
// range (all values equal, or a single value) widens the upper bound
// by 1 so the scale is never zero-width.
func NewScale(values []float64) (Scale, bool) {
	if len(values) == 0 {
		return Scale{}, false
	}
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if minV == maxV {
		maxV = minV + 1
	}
	return Scale{Min: minV, Max: maxV}, true
}

// Bucket maps v onto [0, buckets), clamping out-of-range values.
func (s Scale) Bucket(v float64, buckets int) int {
	if buckets <= 1 {
		return 0
	}
	t := (v - s.Min) / (s.Max - s.Min)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	b := int(t * float64(buckets))
	if b >= buckets {
		b = buckets - 1
	}
	return b
}
