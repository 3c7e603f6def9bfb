// Package crowdbt implements the Crowd-BT pairwise comparison model: an
// online Bayesian update of per-project skill posteriors and per-judge
// reliability posteriors from "winner beats loser" observations, plus the
// expected-information-gain scoring used to pick the most informative next
// comparison.
//
// Every function here is pure: no I/O, no shared state, no randomness.
// Callers (internal/vote, internal/selector) own persistence and scoring
// policy; this package only does the numerics.
package crowdbt

import (
	"errors"
	"math"
)

// Model constants, matched to spec: GAMMA weights the Beta-KL term of EIG,
// KAPPA floors posterior variance so it never collapses to zero, the priors
// seed new projects/judges, and EPSILON is the selector's exploration rate
// (exported here since it's part of the same tuning surface as the rest of
// these constants, even though internal/selector is the only consumer).
const (
	Gamma        = 0.1
	Kappa        = 1e-4
	MuPrior      = 0.0
	SigmaSqPrior = 1.0
	AlphaPrior   = 10.0
	BetaPrior    = 1.0
	Epsilon      = 0.25
)

// ErrNonFinite is returned by Update and ExpectedInformationGain when any
// input is NaN or +/-Inf. Per spec §4.1/§7, the caller must treat this as a
// Numeric error and leave the posterior store untouched.
var ErrNonFinite = errors.New("crowdbt: non-finite input")

// Posterior is a project's skill belief: a Gaussian with mean Mu and
// variance SigmaSq.
type Posterior struct {
	Mu      float64
	SigmaSq float64
}

// Reliability is a judge's annotator-reliability belief: a Beta(Alpha,Beta).
type Reliability struct {
	Alpha float64
	Beta  float64
}

func allFinite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func clampVariance(v float64) float64 {
	if v < Kappa {
		return Kappa
	}
	return v
}

func clampPositive(v float64) float64 {
	if v <= 0 {
		return Kappa
	}
	return v
}

// Update performs one online Crowd-BT step for the observation "winner
// beats loser", given the judge's current reliability (alpha, beta) and
// the winner/loser skill posteriors. It returns the updated reliability and
// both updated posteriors.
func Update(alpha, beta, muW, sigmaSqW, muL, sigmaSqL float64) (Reliability, Posterior, Posterior, error) {
	if !allFinite(alpha, beta, muW, sigmaSqW, muL, sigmaSqL) {
		return Reliability{Alpha: alpha, Beta: beta},
			Posterior{Mu: muW, SigmaSq: sigmaSqW},
			Posterior{Mu: muL, SigmaSq: sigmaSqL},
			ErrNonFinite
	}

	ew := math.Exp(muW)
	el := math.Exp(muL)

	c1, _ := annotatorWeights(ew, el, sigmaSqW, sigmaSqL)
	c2 := 1 - c1
	c := (c1*alpha + c2*beta) / (alpha + beta)

	ea1 := alpha + 1
	ea2 := alpha + 2
	abSum := alpha + beta

	ePi := (c1*ea1*alpha + c2*alpha*beta) / (c * (abSum + 1) * abSum)
	ePi2 := (c1*ea2*ea1*alpha + c2*ea1*alpha*beta) / (c * (abSum + 2) * (abSum + 1) * abSum)
	variance := ePi2 - ePi*ePi

	alphaPrime := (ePi - ePi2) * ePi / variance
	betaPrime := (ePi - ePi2) * (1 - ePi) / variance

	m := alpha*ew/(alpha*ew+beta*el) - ew/(ew+el)
	muWPrime := muW + sigmaSqW*m
	muLPrime := muL - sigmaSqL*m

	mPrime := (alpha*ew*beta*el)/math.Pow(alpha*ew+beta*el, 2) - (ew*el)/math.Pow(ew+el, 2)
	sigmaSqWPrime := sigmaSqW * math.Max(1+sigmaSqW*mPrime, Kappa)
	sigmaSqLPrime := sigmaSqL * math.Max(1+sigmaSqL*mPrime, Kappa)

	reliability := Reliability{Alpha: clampPositive(alphaPrime), Beta: clampPositive(betaPrime)}
	winner := Posterior{Mu: muWPrime, SigmaSq: clampVariance(sigmaSqWPrime)}
	loser := Posterior{Mu: muLPrime, SigmaSq: clampVariance(sigmaSqLPrime)}

	if !allFinite(reliability.Alpha, reliability.Beta, winner.Mu, winner.SigmaSq, loser.Mu, loser.SigmaSq) {
		return Reliability{Alpha: alpha, Beta: beta},
			Posterior{Mu: muW, SigmaSq: sigmaSqW},
			Posterior{Mu: muL, SigmaSq: sigmaSqL},
			ErrNonFinite
	}

	return reliability, winner, loser, nil
}

// annotatorWeights computes c1 (probability mass assigned to "winner truly
// stronger") used both by Update's annotator-posterior step and by EIG's
// outcome-probability weighting.
func annotatorWeights(ew, el, sigmaSqW, sigmaSqL float64) (c1, c2 float64) {
	sum := ew + el
	c1 = ew/sum + 0.5*(sigmaSqW+sigmaSqL)*ew*el*(el-ew)/math.Pow(sum, 3)
	c2 = 1 - c1
	return c1, c2
}

// KLNormal is the KL divergence KL(N(mu1,sigmaSq1) || N(mu2,sigmaSq2)).
func KLNormal(mu1, sigmaSq1, mu2, sigmaSq2 float64) float64 {
	ratio := sigmaSq1 / sigmaSq2
	left := (mu1 - mu2) * (mu1 - mu2) / (2 * sigmaSq2)
	right := (ratio - 1 - math.Log(ratio)) / 2
	return left + right
}

// KLBeta is the KL divergence KL(Beta(alpha1,beta1) || Beta(alpha2,beta2)).
func KLBeta(alpha1, beta1, alpha2, beta2 float64) float64 {
	lnTerm := lnBeta(alpha2, beta2) - lnBeta(alpha1, beta1)
	aTerm := (alpha1 - alpha2) * digamma(alpha1)
	bTerm := (beta1 - beta2) * digamma(beta1)
	abTerm := (alpha2 - alpha1 + beta2 - beta1) * digamma(alpha1+beta1)
	return lnTerm + aTerm + bTerm + abTerm
}

// lnBeta is ln(B(a,b)) via the log-gamma function.
func lnBeta(a, b float64) float64 {
	lgA, _ := math.Lgamma(a)
	lgB, _ := math.Lgamma(b)
	lgAB, _ := math.Lgamma(a + b)
	return lgA + lgB - lgAB
}

// ExpectedInformationGain computes the expected information gain of next
// showing a judge (with reliability alpha, beta) projects A and B (with
// skill posteriors a, b): the probability-weighted sum, over "A wins" and
// "B wins", of the KL divergence between the resulting posteriors and the
// priors they'd have replaced.
func ExpectedInformationGain(alpha, beta, muA, sigmaSqA, muB, sigmaSqB float64) (float64, error) {
	if !allFinite(alpha, beta, muA, sigmaSqA, muB, sigmaSqB) {
		return 0, ErrNonFinite
	}

	ew := math.Exp(muA)
	el := math.Exp(muB)
	pAWins, _ := annotatorWeights(ew, el, sigmaSqA, sigmaSqB)
	pBWins := 1 - pAWins

	relAWins, aWinsA, aWinsB, err := Update(alpha, beta, muA, sigmaSqA, muB, sigmaSqB)
	if err != nil {
		return 0, err
	}
	klAWins := KLNormal(aWinsA.Mu, aWinsA.SigmaSq, muA, sigmaSqA) +
		KLNormal(aWinsB.Mu, aWinsB.SigmaSq, muB, sigmaSqB) +
		Gamma*KLBeta(relAWins.Alpha, relAWins.Beta, alpha, beta)

	relBWins, bWinsB, bWinsA, err := Update(alpha, beta, muB, sigmaSqB, muA, sigmaSqA)
	if err != nil {
		return 0, err
	}
	klBWins := KLNormal(bWinsA.Mu, bWinsA.SigmaSq, muA, sigmaSqA) +
		KLNormal(bWinsB.Mu, bWinsB.SigmaSq, muB, sigmaSqB) +
		Gamma*KLBeta(relBWins.Alpha, relBWins.Beta, alpha, beta)

	return pAWins*klAWins + pBWins*klBWins, nil
}
