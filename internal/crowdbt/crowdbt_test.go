package crowdbt

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestUpdate_SingleVote(t *testing.T) {
	rel, winner, loser, err := Update(20, 12.2, 4.2, 1.0, 3.11, 0.65)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := struct {
		alpha, beta, muW, sigmaSqW, muL, sigmaSqL float64
	}{
		alpha:    20.29342378562617,
		beta:     12.144888310192417,
		muW:      4.28143039999674,
		sigmaSqW: 0.9529174440716865,
		muL:      3.057070240002119,
		sigmaSqL: 0.6301076201202875,
	}

	const tol = 1e-6
	if !almostEqual(rel.Alpha, want.alpha, tol) {
		t.Errorf("alpha' = %v, want %v", rel.Alpha, want.alpha)
	}
	if !almostEqual(rel.Beta, want.beta, tol) {
		t.Errorf("beta' = %v, want %v", rel.Beta, want.beta)
	}
	if !almostEqual(winner.Mu, want.muW, tol) {
		t.Errorf("muW' = %v, want %v", winner.Mu, want.muW)
	}
	if !almostEqual(winner.SigmaSq, want.sigmaSqW, tol) {
		t.Errorf("sigmaSqW' = %v, want %v", winner.SigmaSq, want.sigmaSqW)
	}
	if !almostEqual(loser.Mu, want.muL, tol) {
		t.Errorf("muL' = %v, want %v", loser.Mu, want.muL)
	}
	if !almostEqual(loser.SigmaSq, want.sigmaSqL, tol) {
		t.Errorf("sigmaSqL' = %v, want %v", loser.SigmaSq, want.sigmaSqL)
	}
}

func TestUpdate_NonFinitePropagatesUnchanged(t *testing.T) {
	rel, winner, loser, err := Update(math.NaN(), 1, 0, 1, 0, 1)
	if err != ErrNonFinite {
		t.Fatalf("expected ErrNonFinite, got %v", err)
	}
	if !math.IsNaN(rel.Alpha) {
		t.Errorf("expected alpha to be passed through unchanged (NaN), got %v", rel.Alpha)
	}
	if winner.Mu != 0 || loser.Mu != 0 {
		t.Errorf("expected posteriors unchanged on numeric error")
	}
}

func TestKLNormal_Identity(t *testing.T) {
	if got := KLNormal(1.5, 2.0, 1.5, 2.0); got != 0 {
		t.Errorf("KLNormal(x,x) = %v, want 0", got)
	}
}

func TestKLBeta_Identity(t *testing.T) {
	got := KLBeta(10, 1, 10, 1)
	if !almostEqual(got, 0, 1e-9) {
		t.Errorf("KLBeta(x,x) = %v, want 0", got)
	}
}

func TestExpectedInformationGain_NonNegative(t *testing.T) {
	cases := []struct {
		alpha, beta, muA, sigmaSqA, muB, sigmaSqB float64
	}{
		{10, 1, 0, 1, 0, 1},
		{20, 12.2, 4.2, 1.0, 3.11, 0.65},
		{5, 5, -2, 0.5, 2, 0.5},
	}
	for _, c := range cases {
		got, err := ExpectedInformationGain(c.alpha, c.beta, c.muA, c.sigmaSqA, c.muB, c.sigmaSqB)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got < 0 {
			t.Errorf("eig(%+v) = %v, want >= 0", c, got)
		}
	}
}

func TestExpectedInformationGain_NonFinite(t *testing.T) {
	_, err := ExpectedInformationGain(math.Inf(1), 1, 0, 1, 0, 1)
	if err != ErrNonFinite {
		t.Fatalf("expected ErrNonFinite, got %v", err)
	}
}
