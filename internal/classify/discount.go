package classify

import "promo-offer-api/internal/models"

// Fallback discounts for offers that carry no parsed rule. These are
// the fixed values the category is worth when evaluated.
const (
	noCostEMIDiscount = 500
	cashbackDiscount  = 300
)

// EvaluateDiscount computes the monetary discount an offer grants on
// the given amount.
//
//   - FLAT: the stored value, independent of the amount.
//   - PERCENTAGE: floor(amount * value / 100), capped by MaxDiscount
//     when a cap was extracted (MaxDiscount > 0).
//   - NONE and unrecognized types: the category fallback, or 0.
//
// The result is never negative. It may exceed the amount for bad
// source data; callers treat that as a data-quality issue, not an
// error.
func EvaluateDiscount(offer models.Offer, amountToPay int) int {
	switch offer.DiscountType {
	case models.DiscountFlat:
		return max(offer.DiscountValue, 0)
	case models.DiscountPercentage:
		discount := amountToPay * offer.DiscountValue / 100
		if offer.MaxDiscount > 0 && discount > offer.MaxDiscount {
			discount = offer.MaxDiscount
		}
		return max(discount, 0)
	default:
		switch offer.OfferCategory {
		case models.CategoryNoCostEMI:
			return noCostEMIDiscount
		case models.CategoryCashback:
			return cashbackDiscount
		}
		return 0
	}
}
