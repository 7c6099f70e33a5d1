package analysis

import (
	"math"
	"testing"
)

func TestFFTConstantSignal(t *testing.T) {
	data := []float64{1, 1, 1, 1}
	result := FFT(data)

	// All energy in the DC bin.
	if math.Abs(real(result[0])-4.0) > 1e-10 {
		t.Errorf("expected DC component 4.0, got %f", real(result[0]))
	}
	for i := 1; i < len(result); i++ {
		if math.Abs(real(result[i])) > 1e-10 || math.Abs(imag(result[i])) > 1e-10 {
			t.Errorf("bin %d should be zero, got %v", i, result[i])
		}
	}
}

func TestPadPow2(t *testing.T) {
	padded := PadPow2([]float64{1, 2, 3, 4, 5})
	if len(padded) != 8 {
		t.Errorf("expected length 8, got %d", len(padded))
	}
	if padded[4] != 5 || padded[5] != 0 {
		t.Error("padding should preserve data and zero-fill the tail")
	}
}

func TestDominantFrequency(t *testing.T) {
	// 4 Hz sine sampled at 100 Hz for 2.56 s (256 samples, power of 2).
	dt := 0.01
	n := 256
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 4.0 * float64(i) * dt)
	}

	freq, power := DominantFrequency(data, dt)
	if power <= 0 {
		t.Fatal("expected non-zero spectral power")
	}
	if math.Abs(freq-4.0) > 0.5 {
		t.Errorf("expected dominant frequency near 4 Hz, got %f", freq)
	}
}

func TestDominantFrequencyShortSignal(t *testing.T) {
	freq, power := DominantFrequency([]float64{1, 2}, 0.01)
	if freq != 0 || power != 0 {
		t.Errorf("short signal should report 0, 0; got %f, %f", freq, power)
	}
}
