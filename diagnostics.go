package canopy

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// distanceLog collects reference distances of forest stencil pixels during
// a scan. It is only allocated when debug logging is enabled.
type distanceLog struct {
	d []float64
}

func (l *distanceLog) add(dist int) {
	l.d = append(l.d, float64(dist))
}

// log emits one debug record summarizing the scan.
func (l *distanceLog) log(res Result, threshold int) {
	attrs := []any{
		"bounds", res.Bounds,
		"total", res.Total,
		"labeled", res.Labeled,
		"off", res.Off,
		"accuracy", res.Accuracy(),
		"valid", res.Valid,
		"threshold", threshold,
	}
	if len(l.d) > 0 {
		mean, std := stat.MeanStdDev(l.d, nil)
		attrs = append(attrs,
			"forest_pixels", len(l.d),
			"dist_min", floats.Min(l.d),
			"dist_max", floats.Max(l.d),
			"dist_mean", mean,
			"dist_stddev", std,
		)
	}
	Logger().Debug("canopy: mask scan", attrs...)
}
