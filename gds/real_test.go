package gds

import (
	"math"
	"testing"
)

func TestDoubleGDSRoundTripExactZero(t *testing.T) {
	b := DoubleToGDS(0)
	if got := GDSToDouble(b); got != 0 {
		t.Fatalf("0 round trip = %v, want 0", got)
	}
}

func TestDoubleGDSRoundTripPrecision(t *testing.T) {
	values := []float64{
		1, -1, 0.5, 0.1, -0.1, 2, 100000, -100000,
		1.0 / 3.0, 1e30, 1e-30, 123456.789, -987654.321,
	}
	for _, d := range values {
		b := DoubleToGDS(d)
		got := GDSToDouble(b)
		ulp := math.Nextafter(d, math.Inf(1)) - d
		if ulp < 0 {
			ulp = -ulp
		}
		tol := ulp * 8
		if tol == 0 {
			tol = 1e-12
		}
		if diff := math.Abs(got - d); diff > tol {
			t.Errorf("DoubleToGDS(%v) -> GDSToDouble = %v, diff %v exceeds tolerance %v", d, got, diff, tol)
		}
	}
}

func TestDoubleGDSOverflowNormalisation(t *testing.T) {
	// 0.0625 * 16^64 is the documented boundary value that does not
	// round-trip exactly; it must be renormalised to just under 16^63
	// rather than silently overflowing the 7-bit biased exponent.
	d := 0.0625 * math.Pow(16, 64)
	b := DoubleToGDS(d)
	got := GDSToDouble(b)
	upperBound := math.Pow(16, 63)
	if got >= upperBound {
		t.Fatalf("boundary value re-encoded as %v, want < 16^63 (%v)", got, upperBound)
	}
	if got <= 0 {
		t.Fatalf("boundary value re-encoded as non-positive %v", got)
	}
}
