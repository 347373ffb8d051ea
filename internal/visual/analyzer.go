// Package visual provides the photo-analysis capability of the pipeline.
// The Analyzer implementation is chosen at construction time; the stub
// analyzer ships by default and emits deterministic pseudo-geometric scores
// so the rest of the pipeline behaves identically with or without a real
// vision backend.
package visual

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/propsignal/leadmarket/internal/logger"
	"github.com/propsignal/leadmarket/internal/models"
)

// Analyzer scores listing photos for visual distress.
type Analyzer interface {
	// AnalyzePhotos fetches and scores the given photo URLs. Unreachable
	// photos are skipped, not retried; an empty or fully skipped input
	// yields the zero-valued analysis, never an error.
	AnalyzePhotos(ctx context.Context, photoURLs []string) (models.VisualAnalysis, error)

	// Diagnostics reports backend identity and tuning for health endpoints.
	Diagnostics() map[string]interface{}
}

// Stub scoring parameters, chosen to reproduce the value ranges of the
// original research backend's fallback mode.
const (
	stubSeed           = 42
	stubLandmarkCount  = 32
	highCurvatureLimit = 0.7

	highCurvatureWeight = 10.0
	irregularityWeight  = 20.0
	complexityDivisor   = 10.0
	complexityCap       = 5.0
	maxVisualScore      = 100.0
)

// StubAnalyzer is a deterministic stand-in for a real vision backend.
// Scores depend only on the photo index, so repeated analyses of the same
// property are stable.
type StubAnalyzer struct {
	client    *http.Client
	maxPhotos int
	log       *logger.Logger
}

// NewStubAnalyzer creates a stub analyzer. fetchTimeout bounds each photo
// download; maxPhotos caps how many photos per property are analyzed.
func NewStubAnalyzer(fetchTimeout time.Duration, maxPhotos int, log *logger.Logger) *StubAnalyzer {
	return &StubAnalyzer{
		client:    &http.Client{Timeout: fetchTimeout},
		maxPhotos: maxPhotos,
		log:       log,
	}
}

// AnalyzePhotos downloads up to maxPhotos photos and emits deterministic
// per-photo scores plus an aggregate. Download failures skip that photo.
func (a *StubAnalyzer) AnalyzePhotos(ctx context.Context, photoURLs []string) (models.VisualAnalysis, error) {
	if len(photoURLs) == 0 {
		return models.VisualAnalysis{}, nil
	}

	urls := photoURLs
	if len(urls) > a.maxPhotos {
		urls = urls[:a.maxPhotos]
	}

	var analyses []models.PhotoAnalysis
	var allCurvatures []float64

	for index, url := range urls {
		if !a.fetchPhoto(ctx, url) {
			continue
		}

		curvatures := stubCurvatures(index)
		allCurvatures = append(allCurvatures, curvatures...)

		analyses = append(analyses, models.PhotoAnalysis{
			PhotoIndex:           index,
			LandmarkCount:        stubLandmarkCount,
			HighCurvatureRegions: countAbove(curvatures, highCurvatureLimit),
			IrregularGeometry:    stddev(curvatures),
			VisualComplexity:     stubLandmarkCount,
		})
	}

	return models.VisualAnalysis{
		PhotoAnalyses:      analyses,
		OverallVisualScore: overallScore(analyses),
		GeometricSummary:   summarize(allCurvatures),
	}, nil
}

// Diagnostics identifies the stub backend.
func (a *StubAnalyzer) Diagnostics() map[string]interface{} {
	return map[string]interface{}{
		"status": "stubbed",
		"heads":  4,
		"layers": 2,
	}
}

// fetchPhoto confirms the photo is reachable within the timeout.
// Failures are logged at debug and the photo is skipped.
func (a *StubAnalyzer) fetchPhoto(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		a.log.Debug("Skipping photo with invalid URL", map[string]interface{}{
			"url": url,
		})
		return false
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Debug("Skipping unreachable photo", map[string]interface{}{
			"url": url,
		})
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.log.Debug("Skipping photo with error status", map[string]interface{}{
			"url":    url,
			"status": resp.StatusCode,
		})
		return false
	}

	// Drain so the connection can be reused; the bytes themselves are not
	// inspected by the stub.
	_, _ = io.Copy(io.Discard, resp.Body)
	return true
}

// overallScore averages the weighted per-photo distress contributions,
// capped at maxVisualScore.
func overallScore(analyses []models.PhotoAnalysis) float64 {
	if len(analyses) == 0 {
		return 0
	}

	var total float64
	for _, item := range analyses {
		total += float64(item.HighCurvatureRegions)*highCurvatureWeight +
			item.IrregularGeometry*irregularityWeight +
			math.Min(float64(item.VisualComplexity)/complexityDivisor, complexityCap)
	}

	return math.Min(total/float64(len(analyses)), maxVisualScore)
}

// summarize computes curvature statistics across all analyzed photos.
// Geometric complexity is the variance plus the sample count, so more
// photos always read as more complex.
func summarize(curvatures []float64) models.GeometricSummary {
	if len(curvatures) == 0 {
		return models.GeometricSummary{}
	}

	variance := stddev(curvatures)
	variance *= variance

	maxCurv := curvatures[0]
	var sum float64
	for _, c := range curvatures {
		sum += c
		if c > maxCurv {
			maxCurv = c
		}
	}

	return models.GeometricSummary{
		AvgCurvature:        sum / float64(len(curvatures)),
		MaxCurvature:        maxCurv,
		CurvatureVariance:   variance,
		GeometricComplexity: variance + float64(len(curvatures)),
	}
}

// stubCurvatures generates the deterministic curvature sequence for a photo.
func stubCurvatures(photoIndex int) []float64 {
	rng := newStubRand(stubSeed + uint64(photoIndex))
	curvatures := make([]float64, stubLandmarkCount)
	for i := range curvatures {
		// Spread values over [0, 1.4) so some exceed the high-curvature cutoff.
		curvatures[i] = rng.float() * 1.4
	}
	return curvatures
}

func countAbove(values []float64, limit float64) int {
	count := 0
	for _, v := range values {
		if v > limit {
			count++
		}
	}
	return count
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}

// stubRand is a small xorshift64* generator so stub output does not depend
// on the process-global math/rand state.
type stubRand struct {
	state uint64
}

func newStubRand(seed uint64) *stubRand {
	if seed == 0 {
		seed = 1
	}
	return &stubRand{state: seed}
}

func (r *stubRand) next() uint64 {
	r.state ^= r.state >> 12
	r.state ^= r.state << 25
	r.state ^= r.state >> 27
	return r.state * 0x2545F4914F6CDD1D
}

// float returns a value in [0, 1).
func (r *stubRand) float() float64 {
	return float64(r.next()>>11) / float64(1<<53)
}
