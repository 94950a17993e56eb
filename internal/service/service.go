package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"promo-offer-api/internal/cache"
	"promo-offer-api/internal/classify"
	"promo-offer-api/internal/database"
	"promo-offer-api/internal/events"
	"promo-offer-api/internal/features"
	"promo-offer-api/internal/models"
	"promo-offer-api/internal/payload"
	"promo-offer-api/internal/tracing"
)

// Service provides the business logic for the offer API: extracting
// offers from raw payloads and answering highest-discount queries.
type Service struct {
	db     *database.DB
	cache  cache.Cache
	events *events.Manager
	flags  *features.Manager
}

// NewService creates a service with an in-memory cache, events
// disabled, and all extraction regions enabled.
func NewService(db *database.DB) *Service {
	flags := features.NewManager()
	flags.RegisterDefaults()
	return &Service{
		db:     db,
		cache:  cache.NewInMemoryCache(),
		events: events.NewManager(false),
		flags:  flags,
	}
}

// NewServiceWithOptions creates a service with explicit collaborators.
func NewServiceWithOptions(db *database.DB, c cache.Cache, ev *events.Manager, flags *features.Manager) *Service {
	return &Service{db: db, cache: c, events: ev, flags: flags}
}

// SaveOffers extracts offers from an already-decoded payload tree and
// persists the ones whose titles have not been seen before. The
// payload's shape is untrusted: missing regions simply contribute no
// offers. A store failure aborts the operation; the counts accumulated
// before the failing write are still returned.
func (s *Service) SaveOffers(ctx context.Context, doc interface{}) (models.SaveOffersResponse, error) {
	ctx, span := tracing.GetTracer().StartSpan(ctx, "service.SaveOffers")
	defer span.End()

	extracted := s.extractOffers(doc)

	var resp models.SaveOffersResponse
	for _, offer := range extracted {
		resp.NoOfOffersIdentified++

		existing, err := s.db.FindByTitle(ctx, offer.Title)
		if err != nil {
			return resp, fmt.Errorf("failed to check for duplicate offer: %w", err)
		}
		if existing != nil {
			continue
		}

		if err := s.db.InsertOffer(ctx, offer); err != nil {
			return resp, fmt.Errorf("failed to save offer: %w", err)
		}
		resp.NoOfNewOffersCreated++
		s.events.PublishOfferCreated(ctx, offer)
	}

	// Any new offer can change a cached query answer.
	if resp.NoOfNewOffersCreated > 0 && s.flags.IsEnabled(features.FeatureQueryCache) {
		if err := s.cache.Clear(ctx); err != nil {
			_ = err // cache invalidation is best-effort
		}
	}

	span.SetAttributes(
		attribute.Int("offers.identified", resp.NoOfOffersIdentified),
		attribute.Int("offers.created", resp.NoOfNewOffersCreated),
	)
	s.events.PublishOffersSaved(ctx, resp.NoOfOffersIdentified, resp.NoOfNewOffersCreated)

	return resp, nil
}

// extractOffers walks the three payload regions that can carry offer
// text and classifies every fragment it finds.
func (s *Service) extractOffers(doc interface{}) []models.Offer {
	var extracted []models.Offer

	if s.flags.IsEnabled(features.FeaturePromotionMessages) {
		for _, msg := range payload.CollectStrings(doc, "promotionMessage") {
			extracted = append(extracted, classify.ParsePromotionMessage(msg))
		}
	}

	if s.flags.IsEnabled(features.FeatureNoCostEMI) {
		emiList := payload.Array(payload.At(doc, "pricingData", "noCostEmi"))
		for _, item := range emiList {
			if desc := payload.String(item, "description"); desc != "" {
				extracted = append(extracted, classify.ParseSpecialOffer(desc, models.CategoryNoCostEMI))
			}
		}
	}

	if s.flags.IsEnabled(features.FeatureWidgets) {
		widgets := payload.Array(payload.At(doc, "widgets"))
		for _, widget := range widgets {
			title := strings.ToLower(payload.String(widget, "title"))
			if strings.Contains(title, "emi") || strings.Contains(title, "pay later") {
				msg := payload.String(widget, "message")
				extracted = append(extracted, classify.ParseSpecialOffer(msg, models.CategoryDeferredPayment))
			}
		}
	}

	return extracted
}

// HighestDiscount returns the best discount any stored offer grants
// for the amount, bank, and instrument. Bank and instrument match
// case-insensitively; no match means a discount of 0, not an error.
func (s *Service) HighestDiscount(ctx context.Context, amountToPay int, bankName, paymentInstrument string) (models.HighestDiscountResponse, error) {
	ctx, span := tracing.GetTracer().StartSpan(ctx, "service.HighestDiscount")
	defer span.End()

	useCache := s.flags.IsEnabled(features.FeatureQueryCache)
	key := cache.QueryKey(amountToPay, bankName, paymentInstrument)

	if useCache {
		var cached models.HighestDiscountResponse
		if err := cache.GetJSON(ctx, s.cache, key, &cached); err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		}
	}

	offers, err := s.db.FindByBankAndInstrument(ctx, bankName, paymentInstrument)
	if err != nil {
		return models.HighestDiscountResponse{}, fmt.Errorf("failed to load offers: %w", err)
	}

	var resp models.HighestDiscountResponse
	for _, offer := range offers {
		if discount := classify.EvaluateDiscount(offer, amountToPay); discount > resp.HighestDiscount {
			resp.HighestDiscount = discount
		}
	}

	if useCache {
		if err := cache.SetJSON(ctx, s.cache, key, resp, cache.QueryTTL); err != nil {
			_ = err // cache population is best-effort
		}
	}

	span.SetAttributes(attribute.Int("discount.highest", resp.HighestDiscount))
	s.events.PublishDiscountQueried(ctx, amountToPay, bankName, paymentInstrument, resp.HighestDiscount)

	return resp, nil
}
