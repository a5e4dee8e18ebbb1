package evaluation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lawrag/lawrag/internal/logging"
	"github.com/lawrag/lawrag/internal/rag"
	"github.com/lawrag/lawrag/internal/retrieval"
)

// SmokeTag marks dataset queries included in the fast pre-flight subset.
const SmokeTag = "smoke_test"

// smokeRecallFloor is the minimum average recall the smoke subset must
// reach before a full run is worth the backend load.
const smokeRecallFloor = 0.6

// Evaluator runs a retrieval strategy over a labeled query set and computes
// ranking metrics. It holds no per-query state: results and metric records
// are created fresh for each query and discarded after aggregation.
type Evaluator struct {
	// strategy is the retrieval variant under evaluation.
	strategy retrieval.Strategy

	// topK caps every retrieval result length.
	topK int

	// metrics, when non-nil, receives Prometheus observations per query.
	metrics *Metrics
}

// New constructs an Evaluator for the given strategy and top-k.
func New(strategy retrieval.Strategy, topK int) (*Evaluator, error) {
	if strategy == nil {
		return nil, fmt.Errorf("evaluation: strategy must not be nil")
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", retrieval.ErrInvalidArgument, topK)
	}
	return &Evaluator{strategy: strategy, topK: topK}, nil
}

// WithMetrics attaches a Prometheus metrics sink. Returns the evaluator for
// construction chaining.
func (e *Evaluator) WithMetrics(m *Metrics) *Evaluator {
	e.metrics = m
	return e
}

// RunRetrieval is a thin pass-through to the strategy.
func (e *Evaluator) RunRetrieval(ctx context.Context, query string) ([]rag.Passage, error) {
	return e.strategy.Retrieve(ctx, query, e.topK)
}

// CalculateMetrics scores one retrieval result against the expected article
// ids. It is a pure function of its inputs — calling it twice on the same
// pair yields identical records.
//
// A passage whose article id cannot be resolved fails the whole call with
// retrieval.ErrMalformedPassage: that is an indexing bug upstream, and
// silently scoring around it would mask wrong metrics.
func (e *Evaluator) CalculateMetrics(result []rag.Passage, expectedIDs []string) (QueryMetrics, error) {
	perPassage := make([]string, 0, len(result))
	for _, p := range result {
		id, err := e.strategy.ArticleID(p)
		if err != nil {
			return QueryMetrics{}, fmt.Errorf("evaluation: extracting article id: %w", err)
		}
		perPassage = append(perPassage, id)
	}

	expected := idSet(expectedIDs)
	ordered := uniqueOrdered(perPassage)
	rank := FirstHitRank(ordered, expected)

	return QueryMetrics{
		Precision:        PrecisionAt(perPassage, expected),
		Recall:           RecallAt(perPassage, expected),
		FoundRank:        rank,
		ReciprocalRank:   ReciprocalRankAt(ordered, expected, e.topK),
		AveragePrecision: AveragePrecisionAt(ordered, expected, e.topK),
		RetrievedIDs:     ordered,
	}, nil
}

// EvaluateDataset runs the strategy over every labeled query and aggregates.
//
// Per-query retrieval failures (backend unavailable, invalid query) are
// scored zero and the run continues — one bad query never aborts a run.
// A malformed passage aborts immediately with the offending query id.
func (e *Evaluator) EvaluateDataset(ctx context.Context, queries []LabeledQuery) (*Result, error) {
	log := logging.FromContext(ctx)

	res := &Result{
		PerQuery: make([]QueryMetrics, 0, len(queries)),
	}

	var totalRecall, totalPrecision, totalAP, totalRR float64

	for i, q := range queries {
		start := time.Now()
		passages, err := e.RunRetrieval(ctx, q.Question)
		if err != nil {
			if errors.Is(err, retrieval.ErrMalformedPassage) {
				return nil, fmt.Errorf("evaluation: query %s: %w", q.ID, err)
			}
			log.Warn("evaluation: retrieval failed, scoring zero",
				slog.String("query_id", q.ID),
				slog.String("error", err.Error()),
			)
			e.observe(outcomeError, time.Since(start))
			res.PerQuery = append(res.PerQuery, QueryMetrics{QueryID: q.ID, RetrievalFailed: true})
			res.FailedCases = append(res.FailedCases, failedCase(q, QueryMetrics{}))
			continue
		}

		qm, err := e.CalculateMetrics(passages, q.ExpectedArticleIDs)
		if err != nil {
			// Malformed passage — abort with the query identified.
			return nil, fmt.Errorf("evaluation: query %s: %w", q.ID, err)
		}
		qm.QueryID = q.ID

		totalRecall += qm.Recall
		totalPrecision += qm.Precision
		totalAP += qm.AveragePrecision
		totalRR += qm.ReciprocalRank

		if qm.Recall < 1.0 {
			res.FailedCases = append(res.FailedCases, failedCase(q, qm))
			e.observe(outcomeMiss, time.Since(start))
		} else {
			e.observe(outcomeHit, time.Since(start))
		}
		res.PerQuery = append(res.PerQuery, qm)

		if (i+1)%10 == 0 {
			log.Info("evaluation: progress",
				slog.Int("processed", i+1),
				slog.Int("total", len(queries)),
			)
		}
	}

	n := len(queries)
	res.Summary = Summary{
		QueryCount: n,
		TopK:       e.topK,
	}
	if n > 0 {
		res.Summary.MeanRecall = totalRecall / float64(n)
		res.Summary.MeanPrecision = totalPrecision / float64(n)
		res.Summary.MAP = totalAP / float64(n)
		res.Summary.MRR = totalRR / float64(n)
	}

	return res, nil
}

// RunSmokeTest evaluates only the smoke-tagged subset and reports whether
// its average recall clears the floor. An empty subset passes with a
// warning so datasets without smoke annotations still run.
func (e *Evaluator) RunSmokeTest(ctx context.Context, queries []LabeledQuery) (bool, error) {
	log := logging.FromContext(ctx)

	var subset []LabeledQuery
	for _, q := range queries {
		if q.HasTag(SmokeTag) {
			subset = append(subset, q)
		}
	}
	if len(subset) == 0 {
		log.Warn("evaluation: no smoke test queries found in dataset")
		return true, nil
	}

	res, err := e.EvaluateDataset(ctx, subset)
	if err != nil {
		return false, err
	}

	log.Info("evaluation: smoke test complete",
		slog.Int("queries", len(subset)),
		slog.Float64("mean_recall", res.Summary.MeanRecall),
	)
	return res.Summary.MeanRecall >= smokeRecallFloor, nil
}

// failedCase builds the review record for a query that missed.
func failedCase(q LabeledQuery, qm QueryMetrics) FailedCase {
	return FailedCase{
		ID:                q.ID,
		Question:          q.Question,
		Recall:            qm.Recall,
		ExpectedIDs:       q.ExpectedArticleIDs,
		RetrievedIDs:      qm.RetrievedIDs,
		SupportingContext: q.SupportingContext,
		Reasoning:         q.Reasoning,
	}
}

// observe records one query outcome when a metrics sink is attached.
func (e *Evaluator) observe(outcome string, d time.Duration) {
	if e.metrics == nil {
		return
	}
	e.metrics.queriesTotal.WithLabelValues(outcome).Inc()
	e.metrics.retrievalDuration.Observe(d.Seconds())
}
