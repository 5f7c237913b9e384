// internal/engine/similarity/batch.go
package similarity

import (
	"context"
	"runtime"
	"sync"
	"time"

	"talentmatch-workers/internal/common/logger"
)

// Provider is the external embedding collaborator. Embed must be
// deterministic for identical text within a model version.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Dimensions() int
	ModelID() string
}

// BatchEmbedder fans embedding calls out under a concurrency cap while
// watching process heap growth. If the heap grows past the configured
// threshold between windows, the remaining items are processed sequentially.
// A failed or timed-out item is substituted with a zero vector of the
// provider's dimensionality so downstream arithmetic never sees a ragged
// structure.
type BatchEmbedder struct {
	provider       Provider
	maxConcurrency int
	memThreshold   uint64
	timeout        time.Duration
	logger         logger.Logger
}

// NewBatchEmbedder creates a BatchEmbedder. memThresholdMB bounds acceptable
// heap growth per batch before falling back to sequential processing.
func NewBatchEmbedder(provider Provider, maxConcurrency, memThresholdMB int, timeout time.Duration, log logger.Logger) *BatchEmbedder {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	if memThresholdMB < 1 {
		memThresholdMB = 512
	}
	return &BatchEmbedder{
		provider:       provider,
		maxConcurrency: maxConcurrency,
		memThreshold:   uint64(memThresholdMB) * 1024 * 1024,
		timeout:        timeout,
		logger:         log,
	}
}

// EmbedAll returns one vector per input text, in input order. It never
// returns an error: per-item failures are logged and replaced with zero
// vectors.
func (b *BatchEmbedder) EmbedAll(ctx context.Context, texts []string) [][]float64 {
	vectors := make([][]float64, len(texts))
	if len(texts) == 0 {
		return vectors
	}

	var baseline runtime.MemStats
	runtime.ReadMemStats(&baseline)

	sequential := false
	for start := 0; start < len(texts); start += b.maxConcurrency {
		end := start + b.maxConcurrency
		if end > len(texts) {
			end = len(texts)
		}

		if sequential {
			for i := start; i < end; i++ {
				vectors[i] = b.embedOne(ctx, texts[i])
			}
			continue
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				vectors[i] = b.embedOne(ctx, texts[i])
			}(i)
		}
		wg.Wait()

		var now runtime.MemStats
		runtime.ReadMemStats(&now)
		if now.HeapAlloc > baseline.HeapAlloc && now.HeapAlloc-baseline.HeapAlloc > b.memThreshold {
			sequential = true
			b.logger.Warn("embedding batch heap growth exceeded threshold, falling back to sequential", map[string]interface{}{
				"heapGrowthBytes": now.HeapAlloc - baseline.HeapAlloc,
				"thresholdBytes":  b.memThreshold,
				"remaining":       len(texts) - end,
			})
		}
	}

	return vectors
}

func (b *BatchEmbedder) embedOne(ctx context.Context, text string) []float64 {
	callCtx := ctx
	if b.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	vec, err := b.provider.Embed(callCtx, text)
	if err != nil {
		b.logger.Warn("embedding call failed, substituting zero vector", map[string]interface{}{
			"model": b.provider.ModelID(),
			"error": err.Error(),
		})
		return make([]float64, b.provider.Dimensions())
	}
	if len(vec) != b.provider.Dimensions() {
		b.logger.Warn("embedding dimensionality mismatch, substituting zero vector", map[string]interface{}{
			"model":    b.provider.ModelID(),
			"expected": b.provider.Dimensions(),
			"got":      len(vec),
		})
		return make([]float64, b.provider.Dimensions())
	}
	return vec
}
