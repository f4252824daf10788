package service

import (
	"context"
	"sync"

	"github.com/BaSui01/videoflow/types"

	"golang.org/x/sync/semaphore"
	"go.uber.org/zap"
)

// BatchRequest is one entry in a batch submission.
type BatchRequest struct {
	Raw            map[string]any `json:"raw"`
	Channel        string         `json:"channel"`
	Quality        types.QualityTier `json:"quality"`
	PreferProvider string         `json:"prefer_provider,omitempty"`
	Options        map[string]any `json:"options,omitempty"`
}

// GenerateBatch submits many Generate calls under a counting semaphore
// bounding simultaneous in-flight calls to maxConcurrent. Results are
// gathered by index, so the output order always equals the input order
// regardless of completion order. A non-positive maxConcurrent falls
// back to the service default.
func (s *Service) GenerateBatch(ctx context.Context, reqs []BatchRequest, maxConcurrent int) []*types.GenerationResult {
	limit := int64(maxConcurrent)
	if limit <= 0 {
		limit = s.maxConcurrent
	}

	s.collector.ObserveBatchSize(len(reqs))
	s.logger.Info("batch submitted",
		zap.Int("requests", len(reqs)),
		zap.Int64("max_concurrent", limit))

	sem := semaphore.NewWeighted(limit)
	results := make([]*types.GenerationResult, len(reqs))

	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req BatchRequest) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i] = s.failure(types.ErrOrchestrationFault, "",
					"batch aborted before dispatch: "+err.Error(), req.Channel)
				return
			}
			defer sem.Release(1)
			results[i] = s.Generate(ctx, req.Raw, req.Channel, req.Quality, req.PreferProvider, req.Options)
		}(i, req)
	}
	wg.Wait()

	return results
}
