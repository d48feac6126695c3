package query

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/foodgram/internal/recipe/domain"
)

// ShoppingReportQuery represents the query to aggregate the actor's cart
type ShoppingReportQuery struct {
	Actor domain.Actor
}

// ShoppingReportHandler handles shopping report query
type ShoppingReportHandler struct {
	repo domain.ShoppingRepository
	now  func() time.Time
}

// NewShoppingReportHandler creates a new shopping report handler
func NewShoppingReportHandler(repo domain.ShoppingRepository) *ShoppingReportHandler {
	return &ShoppingReportHandler{repo: repo, now: time.Now}
}

// Handle aggregates every ingredient across the recipes in the actor's cart
func (h *ShoppingReportHandler) Handle(ctx context.Context, query ShoppingReportQuery) (*domain.ShoppingReport, error) {
	if query.Actor.IsAnonymous() {
		return nil, domain.Unauthenticated()
	}

	totals, err := h.repo.ShoppingTotals(ctx, query.Actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to build shopping report: %w", err)
	}
	return domain.BuildShoppingReport(query.Actor.Username, h.now(), totals), nil
}
