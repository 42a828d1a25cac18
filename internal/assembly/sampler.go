package assembly

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/examforge/examforge-admin/internal/bank"
)

// PageFetcher is the slice of the bank client the sampler needs.
type PageFetcher interface {
	FetchPage(ctx context.Context, sel bank.Selector, page, pageSize int) (bank.Page, error)
}

const defaultPageSize = 50

// Sampler draws a duplicate-free, uniformly shuffled subset of the bank.
type Sampler struct {
	Bank     PageFetcher
	PageSize int        // defaults to defaultPageSize
	Rand     *rand.Rand // injectable for deterministic tests; nil = time-seeded
}

func NewSampler(fetcher PageFetcher) *Sampler {
	return &Sampler{Bank: fetcher}
}

// Sample returns exactly req.TargetCount distinct questions, classified by
// historical reuse, or fails explicitly when the bank cannot supply that
// many. Sampling is without replacement: no two results share an id.
func (s *Sampler) Sample(ctx context.Context, req SamplingRequest) ([]SampledQuestion, error) {
	if req.TargetCount < 1 {
		return nil, fmt.Errorf("%w: target count %d", ErrInvalidRequest, req.TargetCount)
	}
	if req.ModuleID == "" {
		return nil, fmt.Errorf("%w: module id required", ErrInvalidRequest)
	}

	pool, err := s.fetchPool(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(pool) < req.TargetCount {
		return nil, &InsufficientQuestionsError{Available: len(pool), Requested: req.TargetCount}
	}

	s.shuffle(pool)

	out := make([]SampledQuestion, 0, req.TargetCount)
	for _, q := range pool[:req.TargetCount] {
		u := Classify(q.UsedCount)
		out = append(out, SampledQuestion{
			Question:         q,
			RepeatCount:      u.RepeatCount,
			ProjectedUsage:   u.ProjectedUsage,
			RepetitionStatus: u.RepetitionStatus,
		})
	}
	return out, nil
}

// fetchPool pages through the bank until it holds poolMultiplier×target
// distinct candidates or the bank has no more. Returns whatever it reached;
// the caller decides whether that is enough for the target.
func (s *Sampler) fetchPool(ctx context.Context, req SamplingRequest) ([]bank.Question, error) {
	want := req.TargetCount * ProfileFor(req.ModuleID).PoolMultiplier
	pageSize := s.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	var pool []bank.Question
	seen := map[string]bool{}
	sel := req.selector()

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pg, err := s.Bank.FetchPage(ctx, sel, page, pageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		before := len(pool)
		for _, q := range pg.Items {
			if q.ID == "" || seen[q.ID] {
				continue
			}
			seen[q.ID] = true
			pool = append(pool, q)
		}
		// A page that adds no new ids means the bank is repeating itself;
		// stop rather than trust has_more forever.
		if len(pool) >= want || !pg.HasMore || len(pool) == before {
			return pool, nil
		}
	}
}

// shuffle is an unbiased Fisher–Yates pass; every permutation of the pool is
// equally likely, so the first N elements are a uniform draw.
func (s *Sampler) shuffle(pool []bank.Question) {
	r := s.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	for i := len(pool) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
}
