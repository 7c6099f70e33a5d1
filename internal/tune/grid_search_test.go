package tune

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestSpan(t *testing.T) {
	vals := Span(0, 10, 5)
	expected := []float64{0, 2.5, 5, 7.5, 10}

	if len(vals) != len(expected) {
		t.Fatalf("expected %d values, got %d", len(expected), len(vals))
	}
	for i := range vals {
		if math.Abs(vals[i]-expected[i]) > 1e-12 {
			t.Errorf("span[%d]: expected %f, got %f", i, expected[i], vals[i])
		}
	}

	if got := Span(3, 9, 1); len(got) != 1 || got[0] != 3 {
		t.Errorf("n=1 should return just lo, got %v", got)
	}
}

func TestSearchFindsMinimum(t *testing.T) {
	gs := NewGridSearch(
		[]string{"kp", "ki"},
		[][]float64{Span(0, 4, 5), Span(0, 2, 3)},
	)

	// Minimum at kp=2, ki=1.
	best, score, err := gs.Search(context.Background(), func(p map[string]float64) (float64, error) {
		dkp := p["kp"] - 2.0
		dki := p["ki"] - 1.0
		return dkp*dkp + dki*dki, nil
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if best["kp"] != 2.0 || best["ki"] != 1.0 {
		t.Errorf("expected kp=2 ki=1, got %v", best)
	}
	if score != 0 {
		t.Errorf("expected score 0, got %f", score)
	}
}

func TestSearchSkipsFailedEvaluations(t *testing.T) {
	gs := NewGridSearch([]string{"kp"}, [][]float64{{1, 2, 3}})

	best, _, err := gs.Search(context.Background(), func(p map[string]float64) (float64, error) {
		if p["kp"] == 2 {
			return 0, errors.New("unstable")
		}
		return p["kp"], nil
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	// kp=2 would have scored best but errored out.
	if best["kp"] != 1 {
		t.Errorf("expected kp=1, got %v", best)
	}
}

func TestSearchCancellation(t *testing.T) {
	gs := NewGridSearch([]string{"kp"}, [][]float64{Span(0, 1, 100)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := gs.Search(ctx, func(p map[string]float64) (float64, error) {
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
