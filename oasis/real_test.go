package oasis

import (
	"bytes"
	"math"
	"testing"
)

func TestRealRoundTripForms(t *testing.T) {
	cases := []Real{
		{Kind: RealPosInt, Num: 42},
		{Kind: RealNegInt, Num: 42},
		{Kind: RealPosReciprocal, Num: 8},
		{Kind: RealNegReciprocal, Num: 8},
		{Kind: RealPosRatio, Num: 3, Den: 7},
		{Kind: RealNegRatio, Num: 3, Den: 7},
		{Kind: RealFloat32, F32: 3.5},
		{Kind: RealFloat64, F64: 2.71828},
	}
	for _, r := range cases {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		if err := WriteReal(w, r); err != nil {
			t.Fatalf("WriteReal(%+v): %v", r, err)
		}
		w.Flush()
		got, err := ReadReal(NewReader(bytes.NewReader(buf.Bytes())))
		if err != nil {
			t.Fatalf("ReadReal(%+v): %v", r, err)
		}
		if got != r {
			t.Errorf("round trip %+v: got %+v", r, got)
		}
	}
}

func TestRealValue(t *testing.T) {
	cases := []struct {
		r    Real
		want float64
	}{
		{Real{Kind: RealPosInt, Num: 4}, 4},
		{Real{Kind: RealNegInt, Num: 4}, -4},
		{Real{Kind: RealPosReciprocal, Num: 4}, 0.25},
		{Real{Kind: RealNegReciprocal, Num: 4}, -0.25},
		{Real{Kind: RealPosRatio, Num: 1, Den: 4}, 0.25},
		{Real{Kind: RealNegRatio, Num: 1, Den: 4}, -0.25},
	}
	for _, c := range cases {
		if got := c.r.Value(); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("%+v.Value() = %v, want %v", c.r, got, c.want)
		}
	}
}

func TestRealFromFloat64(t *testing.T) {
	r := RealFromFloat64(1.5)
	if r.Kind != RealFloat64 || r.Value() != 1.5 {
		t.Errorf("RealFromFloat64(1.5) = %+v", r)
	}
}
