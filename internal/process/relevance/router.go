package relevance

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/brandpulse/sentiment-pipeline/internal/core/domain"
	"github.com/brandpulse/sentiment-pipeline/internal/platform/observability"
)

// autoAcceptRelevanceScore is the synthetic relevance score stamped onto
// items that bypass the semantic model.
const autoAcceptRelevanceScore = 9.0

// Observer receives routing decisions for telemetry. All callbacks are
// optional and must not affect the routing outcome.
type Observer struct {
	OnReject      func(item domain.Item, reason string)
	OnAutoAccept  func(item domain.Item, confidence float64, reason string)
	OnNeedsReview func(item domain.Item, confidence float64, reason string)
}

// Router partitions candidate items into rejected, auto-accepted, and
// needs-semantic-review buckets using the heuristic scorer.
type Router struct {
	scorer       *Scorer
	threshold    float64
	productToken string
	observer     Observer
	logger       *zerolog.Logger
}

func NewRouter(scorer *Scorer, threshold float64, productToken string, logger *zerolog.Logger) *Router {
	return &Router{
		scorer:       scorer,
		threshold:    threshold,
		productToken: strings.ToLower(productToken),
		logger:       logger,
	}
}

// SetObserver installs telemetry callbacks. Call before Route.
func (r *Router) SetObserver(obs Observer) {
	r.observer = obs
}

// Route scores every item and assigns it to exactly one bucket. Bucket
// contents keep input order.
func (r *Router) Route(items []domain.Item) domain.RoutingOutcome {
	outcome := domain.RoutingOutcome{}

	for _, item := range items {
		score := r.scorer.Score(item)

		switch {
		case !score.Accept:
			outcome.Rejected = append(outcome.Rejected, domain.RoutedItem{Item: item, Confidence: score.Confidence, Reason: score.Reason})
			observability.ItemsRouted.WithLabelValues(observability.BucketRejected).Inc()

			if r.observer.OnReject != nil {
				r.observer.OnReject(item, score.Reason)
			}
		case score.Confidence >= r.threshold:
			outcome.AutoAccepted = append(outcome.AutoAccepted, domain.RoutedItem{Item: item, Confidence: score.Confidence, Reason: score.Reason})
			observability.ItemsRouted.WithLabelValues(observability.BucketAutoAccepted).Inc()

			if r.observer.OnAutoAccept != nil {
				r.observer.OnAutoAccept(item, score.Confidence, score.Reason)
			}
		default:
			outcome.NeedsReview = append(outcome.NeedsReview, item)
			observability.ItemsRouted.WithLabelValues(observability.BucketNeedsReview).Inc()

			if r.observer.OnNeedsReview != nil {
				r.observer.OnNeedsReview(item, score.Confidence, score.Reason)
			}
		}
	}

	return outcome
}

// AutoAcceptMetadata builds the synthetic filter record for an item that
// bypassed the semantic model on heuristic confidence.
func (r *Router) AutoAcceptMetadata(item domain.Item, filterReason string) domain.FilterMetadata {
	content := strings.ToLower(item.Text())

	return domain.FilterMetadata{
		IsRelevant:         true,
		MentionsBrand:      true,
		MentionsProduct:    r.productToken != "" && strings.Contains(content, r.productToken),
		RelevanceScore:     autoAcceptRelevanceScore,
		RawModelResponse:   "Auto-accepted by filter: " + filterReason,
		FilterAutoAccepted: true,
	}
}
