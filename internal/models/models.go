package models

import "time"

// DiscountType is the pricing formula category of an offer.
type DiscountType string

const (
	DiscountFlat       DiscountType = "FLAT"
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountNone       DiscountType = "NONE"
)

// OfferCategory is the marketing context an offer was extracted from.
// It drives the fallback discount when no explicit rule was parsed.
type OfferCategory string

const (
	CategoryDiscount        OfferCategory = "DISCOUNT"
	CategoryNoCostEMI       OfferCategory = "NO_COST_EMI"
	CategoryDeferredPayment OfferCategory = "DEFERRED_PAYMENT"
	CategoryCashback        OfferCategory = "CASHBACK"
)

// Unknown is the value of BankName or PaymentInstrument when the
// detector found no vocabulary match in the source text.
const Unknown = "UNKNOWN"

// Offer is a normalized discount rule derived from a free-text
// promotional fragment. Offers are immutable once stored; Title is the
// de-duplication key.
type Offer struct {
	OfferID           string       `json:"offerId"`
	Title             string       `json:"title"`
	BankName          string       `json:"bankName"`
	PaymentInstrument string       `json:"paymentInstrument"`
	DiscountType      DiscountType `json:"discountType"`
	DiscountValue     int          `json:"discountValue"`
	// MaxDiscount caps percentage discounts; 0 means uncapped.
	MaxDiscount   int           `json:"maxDiscount,omitempty"`
	OfferCategory OfferCategory `json:"offerCategory"`
	ValidTill     time.Time     `json:"validTill"`
}

// SaveOffersResponse reports the outcome of ingesting a payload.
type SaveOffersResponse struct {
	NoOfOffersIdentified int `json:"noOfOffersIdentified"`
	NoOfNewOffersCreated int `json:"noOfNewOffersCreated"`
}

// HighestDiscountResponse is the answer to a best-discount query.
type HighestDiscountResponse struct {
	HighestDiscount int `json:"highestDiscount"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
