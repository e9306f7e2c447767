package service

import (
	"context"
	"fmt"

	"alphabot/internal/domain"
	"alphabot/internal/index"
	"alphabot/internal/request"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Listings is the venue table of one base asset.
type Listings struct {
	Ticker    domain.Ticker    `json:"ticker"`
	Quotes    []domain.Listing `json:"quotes"`
	Exchanges int              `json:"exchanges"`
}

type ListingService struct {
	tracer trace.Tracer
	index  *index.Index
}

func NewListingService(tracer trace.Tracer, idx *index.Index) *ListingService {
	return &ListingService{tracer: tracer, index: idx}
}

// Listings groups every loaded venue listing the ticker's base by quote.
func (s *ListingService) Listings(ctx context.Context, h *request.Handler) (*Listings, error) {
	_, span := s.tracer.Start(ctx, "listing-service.listings")
	defer span.End()

	if h.Current() == nil {
		return nil, fmt.Errorf("listings: no platform selected")
	}
	snapshot, err := s.index.Current()
	if err != nil {
		return nil, err
	}
	ticker := h.Ticker()
	quotes, venues := snapshot.GetListings(ticker)
	span.SetAttributes(
		attribute.String("listing.base", ticker.Base),
		attribute.Int("listing.exchanges", venues),
	)
	if venues == 0 {
		return nil, fmt.Errorf("no listings for %s", ticker.Name)
	}
	return &Listings{Ticker: ticker, Quotes: quotes, Exchanges: venues}, nil
}
