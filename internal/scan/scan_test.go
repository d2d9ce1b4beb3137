package scan

import (
	"math"
	"testing"
)

func TestScanRanges(t *testing.T) {
	t.Parallel()
	s := NewScanner(42)
	byBrand := map[string]Model{}
	for _, m := range Catalogue {
		byBrand[m.Brand+"/"+m.Model] = m
	}

	detected := 0
	const runs = 5000
	for i := 0; i < runs; i++ {
		d := s.Scan()
		if !d.Detected {
			if d.Brand != "" || d.Confidence != 0 {
				t.Fatalf("undetected scan carries data: %+v", d)
			}
			continue
		}
		detected++
		m, ok := byBrand[d.Brand+"/"+d.Model]
		if !ok {
			t.Fatalf("unknown detection %s %s", d.Brand, d.Model)
		}
		if d.Confidence < MinConfidence || d.Confidence > MaxConfidence {
			t.Fatalf("confidence = %d", d.Confidence)
		}
		if d.EstimatedPrice < m.MinPrice || d.EstimatedPrice > m.MaxPrice {
			t.Fatalf("price %d outside [%d, %d]", d.EstimatedPrice, m.MinPrice, m.MaxPrice)
		}
	}

	rate := float64(detected) / runs
	if math.Abs(rate-DetectionRate) > 0.05 {
		t.Fatalf("detection rate = %.3f, want about %.1f", rate, DetectionRate)
	}
}

func TestSeededScannerIsDeterministic(t *testing.T) {
	t.Parallel()
	a, b := NewScanner(7), NewScanner(7)
	for i := 0; i < 50; i++ {
		if da, db := a.Scan(), b.Scan(); da != db {
			t.Fatalf("run %d: %+v != %+v", i, da, db)
		}
	}
}

func TestTrendScoreRange(t *testing.T) {
	t.Parallel()
	s := NewScanner(3)
	for i := 0; i < 1000; i++ {
		if v := s.TrendScore(); v < 50 || v > 99 {
			t.Fatalf("trend score = %d", v)
		}
	}
}
