package service

import (
	"context"
	"log/slog"
	"time"

	domainauth "github.com/target/shopfront-ui-api/internal/domain/auth"
	"github.com/target/shopfront-ui-api/internal/domain/model"
	apperrors "github.com/target/shopfront-ui-api/internal/errors"
	"github.com/target/shopfront-ui-api/internal/ports"
)

const (
	titleCacheKeyPrefix    = "customer:title:"
	defaultTitleTTL        = 15 * time.Minute
	defaultSelectableLimit = 25
)

// CustomerContextServiceOptions groups dependencies for CustomerContextService.
type CustomerContextServiceOptions struct {
	Directory ports.CustomerDirectory
	Cache     ports.CacheRepository
	TitleTTL  time.Duration
	Logger    *slog.Logger
}

// CustomerContextService provides display data around the active-customer
// flow: titles for the accounts a user may select and the search used by the
// impersonation picker. It never participates in authorization decisions;
// the resolver in the domain package owns those.
type CustomerContextService struct {
	directory ports.CustomerDirectory
	cache     ports.CacheRepository
	titleTTL  time.Duration
	logger    *slog.Logger
}

// NewCustomerContextService constructs a new CustomerContextService.
func NewCustomerContextService(opts CustomerContextServiceOptions) *CustomerContextService {
	ttl := opts.TitleTTL
	if ttl <= 0 {
		ttl = defaultTitleTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomerContextService{
		directory: opts.Directory,
		cache:     opts.Cache,
		titleTTL:  ttl,
		logger:    logger,
	}
}

// Title returns the display title for a customer id, served from cache when
// possible. A backend failure degrades to the raw id so listing screens stay
// usable during backend outages.
func (s *CustomerContextService) Title(ctx context.Context, customerID string) string {
	if customerID == "" {
		return ""
	}

	key := titleCacheKeyPrefix + customerID
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil && len(cached) > 0 {
			return string(cached)
		}
	}

	title, err := s.directory.Title(ctx, customerID)
	if err != nil {
		s.logger.WarnContext(ctx, "customer title lookup failed",
			"customer_id", customerID, "err", err)
		return customerID
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, []byte(title), s.titleTTL); err != nil {
			s.logger.WarnContext(ctx, "customer title cache write failed",
				"customer_id", customerID, "err", err)
		}
	}
	return title
}

// InvalidateTitle drops the cached title for a customer id.
func (s *CustomerContextService) InvalidateTitle(ctx context.Context, customerID string) {
	if s.cache == nil || customerID == "" {
		return
	}
	if _, err := s.cache.Delete(ctx, titleCacheKeyPrefix+customerID); err != nil {
		s.logger.WarnContext(ctx, "customer title cache invalidation failed",
			"customer_id", customerID, "err", err)
	}
}

// ListSelectable returns the customer accounts the identity may select,
// with display titles. Only meaningful for the customer role; privileged
// identities pick via Search instead.
func (s *CustomerContextService) ListSelectable(ctx context.Context, identity domainauth.Identity) []model.CustomerSummary {
	if identity.Role != domainauth.RoleCustomer {
		return []model.CustomerSummary{}
	}

	summaries := make([]model.CustomerSummary, 0, len(identity.CustomerIDs))
	for _, id := range identity.CustomerIDs {
		summaries = append(summaries, model.CustomerSummary{
			ID:    id,
			Title: s.Title(ctx, id),
		})
	}
	return summaries
}

// Search finds customers for the impersonation picker. Restricted to
// privileged identities; a customer can never enumerate other accounts.
func (s *CustomerContextService) Search(ctx context.Context, identity domainauth.Identity, query string, limit int) ([]model.CustomerSummary, error) {
	if !identity.Role.IsPrivileged() {
		return nil, apperrors.Forbidden("customer search requires an admin role")
	}
	if limit <= 0 {
		limit = defaultSelectableLimit
	}

	results, err := s.directory.Search(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "customer search failed")
	}
	if results == nil {
		results = []model.CustomerSummary{}
	}
	return results, nil
}
