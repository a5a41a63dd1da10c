package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// ErrTooShort is returned when a series is too short to analyse.
var ErrTooShort = errors.New("analysis: series too short")

// PowerSpectrum returns |X_k|^2 for k = 0..n/2 of the mean-removed,
// Hann-windowed samples. Bin k is k/(n*dt) Hz.
func PowerSpectrum(samples []float64) []float64 {
	n := len(samples)
	if n == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range samples {
		w := 1.0
		if n > 1 {
			w = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		}
		windowed[i] = (v - mean) * w
	}

	spectrum := fft.FFTReal(windowed)
	ps := make([]float64, n/2+1)
	for i := range ps {
		m := cmplx.Abs(spectrum[i])
		ps[i] = m * m
	}
	return ps
}

// DominantPeriod estimates the period of the strongest oscillation in
// samples taken every dt seconds. The peak bin is refined by fitting a
// parabola to the log power of its neighbours.
func DominantPeriod(samples []float64, dt float64) (float64, error) {
	if len(samples) < 8 {
		return 0, ErrTooShort
	}
	ps := PowerSpectrum(samples)

	peak := 1
	for k := 2; k < len(ps)-1; k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return math.Inf(1), nil
	}

	bin := float64(peak)
	a, b, c := ps[peak-1], ps[peak], ps[peak+1]
	if a > 0 && c > 0 {
		la, lb, lc := math.Log(a), math.Log(b), math.Log(c)
		if den := la - 2*lb + lc; den != 0 {
			bin += 0.5 * (la - lc) / den
		}
	}
	return float64(len(samples)) * dt / bin, nil
}

// Crossings counts sign changes in samples, ignoring exact zeros.
func Crossings(samples []float64) int {
	n := 0
	prev := 0.0
	for _, v := range samples {
		if prev*v < 0 {
			n++
		}
		if v != 0 {
			prev = v
		}
	}
	return n
}
