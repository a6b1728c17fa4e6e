package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/swing/internal/dynamo"
)

// Spectrum is the one-sided magnitude spectrum of one coordinate of a
// recorded run. Bin k has a frequency of k/N cycles per step.
type Spectrum struct {
	N         int
	Magnitude []float64
}

// NewSpectrum projects the states onto axis, removes the mean, applies a
// Hann window and transforms. Non-finite states are skipped. It returns nil
// for fewer than four samples.
func NewSpectrum(states []dynamo.State, axis Axis) *Spectrum {
	samples := make([]float64, 0, len(states))
	for _, s := range states {
		if s.IsValid() {
			samples = append(samples, axis(s))
		}
	}
	n := len(samples)
	if n < 4 {
		return nil
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)
	for i := range samples {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		samples[i] = (samples[i] - mean) * window
	}

	bins := fft.FFTReal(samples)
	mag := make([]float64, n/2+1)
	for k := range mag {
		mag[k] = cmplx.Abs(bins[k]) / float64(n)
	}
	return &Spectrum{N: n, Magnitude: mag}
}

// Frequency returns bin k's frequency in cycles per step.
func (s *Spectrum) Frequency(k int) float64 {
	return float64(k) / float64(s.N)
}

// Peak returns the strongest bin, ignoring DC. It returns 0 when the
// spectrum is flat.
func (s *Spectrum) Peak() int {
	best, peak := 0.0, 0
	for k := 1; k < len(s.Magnitude); k++ {
		if s.Magnitude[k] > best {
			best, peak = s.Magnitude[k], k
		}
	}
	return peak
}

// DominantPeriod returns the period of the strongest oscillation in steps,
// or 0 if there is none.
func (s *Spectrum) DominantPeriod() float64 {
	if s == nil {
		return 0
	}
	k := s.Peak()
	if k == 0 {
		return 0
	}
	return float64(s.N) / float64(k)
}
