// Package evaluation drives a retrieval strategy over a labeled query set
// and computes ranking-quality metrics. It depends only on the Strategy
// capability set, never on a concrete variant, so naive and parent-child
// retrieval are measured by identical code.
package evaluation

// LabeledQuery is one record of the ground-truth dataset: a natural-language
// question and the article identifier(s) a correct retrieval must surface.
// Loaded from an external dataset and never mutated.
type LabeledQuery struct {
	// ID uniquely identifies the query within the dataset.
	ID string `json:"id"`

	// Question is the free-text query submitted to the strategy.
	Question string `json:"question"`

	// ExpectedArticleIDs lists the acceptable ground-truth article ids.
	// Most queries carry exactly one.
	ExpectedArticleIDs []string `json:"reference_articles_id"`

	// Tags carries dataset annotations. The "smoke_test" tag selects a
	// query into the fast pre-flight subset.
	Tags []string `json:"tags,omitempty"`

	// SupportingContext is the annotator's quoted statute text (report-only).
	SupportingContext string `json:"supporting_context,omitempty"`

	// Reasoning is the annotator's explanation (report-only).
	Reasoning string `json:"reasoning,omitempty"`
}

// HasTag reports whether the query carries the given dataset tag.
func (q LabeledQuery) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// QueryMetrics holds the per-query ranking metrics. Derived once by
// CalculateMetrics and never mutated afterwards.
type QueryMetrics struct {
	// QueryID identifies the labeled query these metrics belong to.
	QueryID string `json:"query_id"`

	// Precision is the fraction of returned passages whose article id is
	// in the expected set. Duplicates count individually, so a naive
	// result filled by one relevant article scores 1.0.
	Precision float64 `json:"precision"`

	// Recall is the fraction of expected article ids found anywhere in
	// the result.
	Recall float64 `json:"recall"`

	// FoundRank is the 1-based rank of the first relevant passage, or 0
	// when no passage hit.
	FoundRank int `json:"found_rank"`

	// ReciprocalRank is 1/FoundRank, or 0 on a miss.
	ReciprocalRank float64 `json:"reciprocal_rank"`

	// AveragePrecision is AP@k over the ordered unique retrieved ids.
	// Equals ReciprocalRank whenever the query has one expected id.
	AveragePrecision float64 `json:"average_precision"`

	// RetrievedIDs are the ordered unique article ids extracted from the
	// result, for failure review.
	RetrievedIDs []string `json:"retrieved_ids"`

	// RetrievalFailed marks a query whose retrieval step failed and was
	// scored zero (backend unavailable, invalid query).
	RetrievalFailed bool `json:"retrieval_failed,omitempty"`
}

// Summary aggregates metrics across one evaluation run. Every field is the
// arithmetic mean of the per-query value.
type Summary struct {
	// QueryCount is the number of labeled queries evaluated, including
	// zero-scored retrieval failures.
	QueryCount int `json:"query_count"`

	// TopK is the result length cap the run was configured with.
	TopK int `json:"top_k"`

	// MeanRecall is the mean recall@k across queries.
	MeanRecall float64 `json:"mean_recall"`

	// MeanPrecision is the mean precision@k across queries.
	MeanPrecision float64 `json:"mean_precision"`

	// MAP is the mean average precision at k.
	MAP float64 `json:"map"`

	// MRR is the mean reciprocal rank at k.
	MRR float64 `json:"mrr"`
}

// FailedCase records a query whose recall fell below 1.0, kept for manual
// review in reports.
type FailedCase struct {
	// ID is the labeled query id.
	ID string `json:"id"`

	// Question is the query text.
	Question string `json:"question"`

	// Recall is the achieved recall for the query.
	Recall float64 `json:"recall"`

	// ExpectedIDs are the ground-truth article ids.
	ExpectedIDs []string `json:"gt"`

	// RetrievedIDs are the article ids the strategy actually surfaced.
	RetrievedIDs []string `json:"retrieved"`

	// SupportingContext echoes the annotator's context for review.
	SupportingContext string `json:"supporting_context,omitempty"`

	// Reasoning echoes the annotator's reasoning for review.
	Reasoning string `json:"reasoning,omitempty"`
}

// Result is the full outcome of one evaluation run: a metric record per
// query plus the aggregate.
type Result struct {
	// PerQuery holds one QueryMetrics per labeled query, in dataset order.
	PerQuery []QueryMetrics `json:"per_query"`

	// Summary is the run-level aggregate.
	Summary Summary `json:"summary"`

	// FailedCases lists queries with recall < 1.0, in dataset order.
	FailedCases []FailedCase `json:"failed_cases"`
}
