package trust

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richxcame/storefront/pkg/common"
	"github.com/richxcame/storefront/pkg/config"
	"github.com/richxcame/storefront/pkg/logger"
	"github.com/richxcame/storefront/pkg/pagination"
	"github.com/richxcame/storefront/pkg/resilience"
)

const (
	historyPreviewLimit = 10
	recentReturnsLimit  = 5

	suspiciousGenKey    = "trust:suspicious:gen"
	suspiciousKeyFormat = "trust:suspicious:%s:%s:%d:%d"
)

// Accepts E.164 and national formats (leading zero included).
var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// Cache is the subset of the redis client the service needs. A nil cache
// disables caching without changing behavior.
type Cache interface {
	GetString(ctx context.Context, key string) (string, error)
	SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Service is the trust score engine: it applies order outcomes to customer
// scores and serves the admin views over them.
type Service struct {
	repo  RepositoryInterface
	cache Cache
	cfg   config.TrustConfig
	retry resilience.RetryConfig
}

// NewService creates a new trust service
func NewService(repo RepositoryInterface, cache Cache, cfg config.TrustConfig) *Service {
	retry := resilience.DefaultRetryConfig()
	retry.RetryableChecker = common.IsRetryable
	return &Service{repo: repo, cache: cache, cfg: cfg, retry: retry}
}

// NormalizePhone strips separators and validates the result. Scores are
// keyed by the normalized form so the same customer never splits into
// multiple records over formatting.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch r {
		case ' ', '-', '(', ')', '.':
			continue
		default:
			b.WriteRune(r)
		}
	}
	phone := b.String()
	if !phonePattern.MatchString(phone) {
		return "", common.NewBadRequestError(fmt.Sprintf("invalid phone number %q", raw), nil)
	}
	return phone, nil
}

func (s *Service) deltaFor(kind EventKind) int {
	switch kind {
	case EventOrderFulfilled:
		return s.cfg.FulfilledDelta
	case EventOrderCancelledOrReturned:
		return s.cfg.ReturnDelta
	default:
		return 0
	}
}

// HandleEvent applies one order outcome to the customer's score. Applying
// the same (order, kind) pair twice is a no-op returning the current
// record. Transient store failures are retried; business errors are not.
func (s *Service) HandleEvent(ctx context.Context, event *ScoreEvent) (*CustomerScore, error) {
	if event == nil {
		return nil, common.NewBadRequestError("event is required", nil)
	}
	if !event.Kind.Valid() {
		return nil, common.NewBadRequestError(fmt.Sprintf("unknown event kind %q", event.Kind), nil)
	}
	phone, err := NormalizePhone(event.Phone)
	if err != nil {
		return nil, err
	}

	normalized := *event
	normalized.Phone = phone
	delta := s.deltaFor(event.Kind)

	var applied bool
	result, err := resilience.Retry(ctx, s.retry, func(ctx context.Context) (interface{}, error) {
		score, wasApplied, err := s.repo.ApplyEvent(ctx, &normalized, delta)
		if err != nil {
			return nil, err
		}
		applied = wasApplied
		return score, nil
	})
	if err != nil {
		return nil, err
	}
	score := result.(*CustomerScore)

	if applied {
		logger.WithContext(ctx).Info("score event applied",
			zap.String("phone", phone),
			zap.String("event", string(event.Kind)),
			zap.Int("delta", delta),
			zap.Int("trust_score", score.TrustScore),
			zap.String("status", string(score.Status)))
		s.invalidateSuspiciousCache(ctx)
	}

	return score, nil
}

// GetScore returns the customer's score and the newest ledger entries. A
// phone with no history gets the default record.
func (s *Service) GetScore(ctx context.Context, rawPhone string) (*ScoreDetails, error) {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}

	score, err := s.repo.GetOrCreateScore(ctx, phone, "")
	if err != nil {
		return nil, err
	}

	history, _, err := s.repo.ListHistory(ctx, phone, historyPreviewLimit, 0)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []*HistoryEntry{}
	}

	return &ScoreDetails{Score: score, History: history}, nil
}

// GetHistory returns the customer's full ledger, newest first.
func (s *Service) GetHistory(ctx context.Context, rawPhone string, params pagination.Params) ([]*HistoryEntry, int64, error) {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return nil, 0, err
	}

	entries, total, err := s.repo.ListHistory(ctx, phone, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	if entries == nil {
		entries = []*HistoryEntry{}
	}
	return entries, total, nil
}

// ListSuspicious returns customers whose tier is at least as severe as
// minTier, worst score first, each enriched with their recent returns.
// An unrecognized tier is rejected rather than widened.
func (s *Service) ListSuspicious(ctx context.Context, minTier string, params pagination.Params) ([]*SuspiciousCustomer, int64, error) {
	tier, err := ParseTier(minTier)
	if err != nil {
		return nil, 0, err
	}

	type cachedView struct {
		Customers []*SuspiciousCustomer `json:"customers"`
		Total     int64                 `json:"total"`
	}

	cacheKey := fmt.Sprintf(suspiciousKeyFormat, s.cacheGeneration(ctx), tier, params.Limit, params.Offset)
	if s.cacheEnabled() {
		if raw, err := s.cache.GetString(ctx, cacheKey); err == nil && raw != "" {
			var view cachedView
			if err := json.Unmarshal([]byte(raw), &view); err == nil {
				return view.Customers, view.Total, nil
			}
		}
	}

	scores, total, err := s.repo.ListByStatuses(ctx, TiersAtOrBelow(tier), params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}

	customers := make([]*SuspiciousCustomer, 0, len(scores))
	for _, score := range scores {
		returns, err := s.repo.ListRecentReturns(ctx, score.Phone, recentReturnsLimit)
		if err != nil {
			return nil, 0, err
		}
		if returns == nil {
			returns = []*HistoryEntry{}
		}
		customers = append(customers, &SuspiciousCustomer{
			CustomerScore: score,
			RecentReturns: returns,
		})
	}

	if s.cacheEnabled() {
		if raw, err := json.Marshal(cachedView{Customers: customers, Total: total}); err == nil {
			ttl := time.Duration(s.cfg.CacheTTL) * time.Second
			if err := s.cache.SetWithExpiration(ctx, cacheKey, string(raw), ttl); err != nil {
				logger.WithContext(ctx).Warn("failed to cache suspicious view", zap.Error(err))
			}
		}
	}

	return customers, total, nil
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.cfg.CacheTTL > 0
}

// cacheGeneration namespaces suspicious-view cache keys. Rotating the
// generation on applied events orphans stale entries, which then age out
// via their TTL.
func (s *Service) cacheGeneration(ctx context.Context) string {
	if !s.cacheEnabled() {
		return "0"
	}
	gen, err := s.cache.GetString(ctx, suspiciousGenKey)
	if err != nil || gen == "" {
		return "0"
	}
	return gen
}

func (s *Service) invalidateSuspiciousCache(ctx context.Context) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.SetWithExpiration(ctx, suspiciousGenKey, uuid.NewString(), 0); err != nil {
		logger.WithContext(ctx).Warn("failed to invalidate suspicious view cache", zap.Error(err))
	}
}
