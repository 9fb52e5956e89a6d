// Package sequence provides dynamic-gesture classification over
// variable-length sequences of feature vectors, using Dynamic Time Warping
// nearest-neighbor matching.
package sequence

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ayusman/mudra/internal/classify"
)

// defaultBandFraction sizes the Sakoe-Chiba band relative to the longer
// sequence; minBandWidth is its floor.
const (
	defaultBandFraction = 0.1
	minBandWidth        = 5
)

// BandWidth returns the default Sakoe-Chiba band width for two sequence
// lengths.
func BandWidth(lenA, lenB int) int {
	longest := lenA
	if lenB > longest {
		longest = lenB
	}
	w := int(defaultBandFraction * float64(longest))
	if w < minBandWidth {
		w = minBandWidth
	}
	return w
}

// Distance computes the Dynamic Time Warping cost between two sequences
// under a Sakoe-Chiba band constraint. A non-positive window selects the
// default band width. Frames matched across the two sequences must share
// one feature dimension.
func Distance(a, b [][]float64, window int) (float64, error) {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return 0, fmt.Errorf("%w: empty sequence", classify.ErrInvalidInput)
	}

	if window <= 0 {
		window = BandWidth(n, m)
	}
	// The band must cover the length difference or the corner cell is
	// unreachable.
	if diff := abs(n - m); window < diff {
		window = diff
	}

	// (n+1) x (m+1) cost table, infinity everywhere except the origin.
	dtw := make([][]float64, n+1)
	for i := range dtw {
		dtw[i] = make([]float64, m+1)
		for j := range dtw[i] {
			dtw[i][j] = math.Inf(1)
		}
	}
	dtw[0][0] = 0

	for i := 1; i <= n; i++ {
		lo := i - window
		if lo < 1 {
			lo = 1
		}
		hi := i + window
		if hi > m {
			hi = m
		}
		for j := lo; j <= hi; j++ {
			if len(a[i-1]) != len(b[j-1]) {
				return 0, fmt.Errorf("%w: frame dimensions %d and %d", classify.ErrInvalidInput, len(a[i-1]), len(b[j-1]))
			}
			cost := floats.Distance(a[i-1], b[j-1], 2)
			dtw[i][j] = cost + min3(dtw[i-1][j], dtw[i][j-1], dtw[i-1][j-1])
		}
	}

	return dtw[n][m], nil
}

// Resample linearly interpolates a sequence to exactly targetLength frames.
// Collapsing a multi-frame sequence to a single frame keeps the first frame.
// A preprocessing utility; Distance handles unequal lengths on its own.
func Resample(seq [][]float64, targetLength int) [][]float64 {
	if len(seq) == 0 {
		return nil
	}
	if len(seq) == 1 || targetLength <= 1 {
		frame := make([]float64, len(seq[0]))
		copy(frame, seq[0])
		return [][]float64{frame}
	}

	result := make([][]float64, targetLength)
	for i := 0; i < targetLength; i++ {
		// Map index i to a position in the original sequence
		t := float64(i) / float64(targetLength-1)
		pos := t * float64(len(seq)-1)

		idx := int(pos)
		if idx >= len(seq)-1 {
			idx = len(seq) - 2
		}
		frac := pos - float64(idx)

		f1 := seq[idx]
		f2 := seq[idx+1]
		frame := make([]float64, len(f1))
		for j := range frame {
			frame[j] = f1[j] + frac*(f2[j]-f1[j])
		}
		result[i] = frame
	}

	return result
}

func min3(a, b, c float64) float64 {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
