// Package analysis provides frequency-domain analysis of recorded
// trajectories and metric histories.
package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of a real series whose
// length is a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("analysis: fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum is the magnitude of the positive-frequency half of the
// transform. The input is detrended and truncated to a power of two, so
// any series length is accepted.
func PowerSpectrum(data []float64) []float64 {
	trimmed := detrend(truncatePow2(data))
	if len(trimmed) < 2 {
		return nil
	}

	fft := FFT(trimmed)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// DominantFrequency returns the strongest nonzero frequency in a series
// sampled every dt, in cycles per unit time. Returns 0 for series too
// short to analyze.
func DominantFrequency(data []float64, dt float64) float64 {
	n := len(truncatePow2(data))
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0
	}

	// Skip the DC bin.
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return float64(best) / (float64(n) * dt)
}

func truncatePow2(data []float64) []float64 {
	n := 1
	for n*2 <= len(data) {
		n *= 2
	}
	if len(data) == 0 {
		return nil
	}
	return data[:n]
}

func detrend(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - mean
	}
	return out
}
