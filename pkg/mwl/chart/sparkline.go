package chart

import "strings"

var blocks = []rune("▁▂▃▄▅▆▇█")

// Resample reduces values to at most width points by averaging buckets.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return append([]float64(nil), values...)
	}
	out := make([]float64, width)
	n := len(values)
	for i := 0; i < width; i++ {
		start := i * n / width
		end := (i + 1) * n / width
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// Sparkline renders values as a row of block characters at most width wide.
func Sparkline(values []float64, width int) string {
	pts := Resample(values, width)
	if len(pts) == 0 {
		return ""
	}
	lo, hi := MinMax(pts)
	var b strings.Builder
	for _, v := range pts {
		idx := len(blocks) / 2
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(blocks)-1))
		}
		b.WriteRune(blocks[idx])
	}
	return b.String()
}
