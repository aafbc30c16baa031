package creature

// RegionDefinition is a named, contiguous range of points sharing one opacity.
// StartPointIndex and EndPointIndex are both inclusive, as engines report them.
type RegionDefinition struct {
	Name            string
	StartPointIndex uint32
	EndPointIndex   uint32
	OpacityPercent  float32 // 0..100
}

// span returns the region as a half-open point range clamped to [0, pointCount).
func (r RegionDefinition) span(pointCount int) (start, end int) {
	start = int(r.StartPointIndex)
	end = int(r.EndPointIndex) + 1
	if end > pointCount {
		end = pointCount
	}
	if start > end {
		start = end
	}
	return start, end
}

// Opacity returns the normalized opacity clamped to [0, 1].
func (r RegionDefinition) Opacity() float32 {
	// Division keeps whole percentages exact (20 -> float32(0.2)).
	v := r.OpacityPercent / 100
	switch {
	case v != v: // NaN
		return 1
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// PaintRegions writes each region's opacity into all four color channels of the
// points it covers. Regions are applied in slice order and a later region
// overwrites an earlier one wherever their ranges share points. Points no
// region covers keep their previous color.
func PaintRegions(colors []float32, regions []RegionDefinition) {
	pointCount := len(colors) / 4
	for _, r := range regions {
		value := r.Opacity()
		start, end := r.span(pointCount)
		for p := start; p < end; p++ {
			c := colors[4*p : 4*p+4]
			c[0], c[1], c[2], c[3] = value, value, value, value
		}
	}
}
