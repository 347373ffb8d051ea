package visual

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propsignal/leadmarket/internal/logger"
)

func newTestAnalyzer() *StubAnalyzer {
	return NewStubAnalyzer(2*time.Second, 3, logger.Nop())
}

func TestAnalyzePhotos_NoPhotos(t *testing.T) {
	analyzer := newTestAnalyzer()

	result, err := analyzer.AnalyzePhotos(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, result.PhotoAnalyses)
	assert.Equal(t, 0.0, result.OverallVisualScore)
	assert.Equal(t, 0.0, result.GeometricSummary.GeometricComplexity)
}

func TestAnalyzePhotos_Deterministic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	analyzer := newTestAnalyzer()
	urls := []string{server.URL + "/a.jpg", server.URL + "/b.jpg"}

	first, err := analyzer.AnalyzePhotos(context.Background(), urls)
	require.NoError(t, err)
	second, err := analyzer.AnalyzePhotos(context.Background(), urls)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first.PhotoAnalyses, 2)
	assert.Greater(t, first.OverallVisualScore, 0.0)
	assert.LessOrEqual(t, first.OverallVisualScore, 100.0)
	// Two photos of 32 landmarks each contribute 64 samples to complexity.
	assert.Greater(t, first.GeometricSummary.GeometricComplexity, 64.0)
}

func TestAnalyzePhotos_SkipsFailedFetches(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path == "/broken.jpg" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	analyzer := newTestAnalyzer()
	urls := []string{server.URL + "/ok.jpg", server.URL + "/broken.jpg"}

	result, err := analyzer.AnalyzePhotos(context.Background(), urls)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, result.PhotoAnalyses, 1)
	assert.Equal(t, 0, result.PhotoAnalyses[0].PhotoIndex)
}

func TestAnalyzePhotos_AllFetchesFail(t *testing.T) {
	analyzer := NewStubAnalyzer(200*time.Millisecond, 3, logger.Nop())

	// Nothing is listening on this address.
	result, err := analyzer.AnalyzePhotos(context.Background(), []string{"http://127.0.0.1:1/x.jpg"})

	require.NoError(t, err)
	assert.Empty(t, result.PhotoAnalyses)
	assert.Equal(t, 0.0, result.OverallVisualScore)
}

func TestAnalyzePhotos_CapsPhotoCount(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	analyzer := newTestAnalyzer()
	urls := []string{
		server.URL + "/1.jpg",
		server.URL + "/2.jpg",
		server.URL + "/3.jpg",
		server.URL + "/4.jpg",
		server.URL + "/5.jpg",
	}

	result, err := analyzer.AnalyzePhotos(context.Background(), urls)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, result.PhotoAnalyses, 3)
}

func TestDiagnostics(t *testing.T) {
	analyzer := newTestAnalyzer()

	diag := analyzer.Diagnostics()

	assert.Equal(t, "stubbed", diag["status"])
}
