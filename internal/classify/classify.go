// Package classify turns free-text promotional fragments into
// normalized Offer records using fixed keyword and regex heuristics,
// and evaluates the resulting discount rules against an amount.
//
// The heuristics are deliberately best-effort: a fragment that matches
// no pattern still yields a valid offer with type NONE and UNKNOWN
// bank/instrument rather than an error, since the source payload's
// wording is untrusted and variable.
package classify

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"promo-offer-api/internal/models"
)

var (
	flatValueRe  = regexp.MustCompile(`Flat ₹?(\d+)`)
	percentageRe = regexp.MustCompile(`(\d+)%`)
	maxCapRe     = regexp.MustCompile(`up to ₹?(\d+)`)
)

// offerValidityMonths is how long a freshly extracted offer is
// considered valid. Nothing enforces expiry yet; the field is
// informational.
const offerValidityMonths = 1

func newOfferID() string {
	return "OFFER_" + uuid.New().String()
}

// firstInt returns the first capture group of the first match as an
// integer, or 0 when the pattern does not occur. Later occurrences are
// ignored; promotional strings routinely repeat their numbers.
func firstInt(re *regexp.Regexp, text string) int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// ParsePromotionMessage classifies a generic promotional string into a
// DISCOUNT-category offer. "Flat ₹N" wins over a percentage when both
// appear; a percentage may carry an "up to ₹N" cap.
func ParsePromotionMessage(text string) models.Offer {
	offer := models.Offer{
		OfferID:           newOfferID(),
		Title:             text,
		BankName:          DetectBank(text),
		PaymentInstrument: DetectInstrument(text),
		OfferCategory:     models.CategoryDiscount,
		ValidTill:         time.Now().AddDate(0, offerValidityMonths, 0),
	}

	switch {
	case strings.Contains(strings.ToLower(text), "flat"):
		offer.DiscountType = models.DiscountFlat
		offer.DiscountValue = firstInt(flatValueRe, text)
	case strings.Contains(text, "%"):
		offer.DiscountType = models.DiscountPercentage
		offer.DiscountValue = firstInt(percentageRe, text)
		offer.MaxDiscount = firstInt(maxCapRe, text)
	default:
		offer.DiscountType = models.DiscountNone
	}

	return offer
}

// ParseSpecialOffer classifies a message whose category is already
// known from its position in the payload (EMI lists, pay-later
// widgets). No discount rule is parsed; the category fallback applies
// at evaluation time.
func ParseSpecialOffer(text string, category models.OfferCategory) models.Offer {
	return models.Offer{
		OfferID:           newOfferID(),
		Title:             text,
		BankName:          DetectBank(text),
		PaymentInstrument: DetectInstrument(text),
		DiscountType:      models.DiscountNone,
		OfferCategory:     category,
		ValidTill:         time.Now().AddDate(0, offerValidityMonths, 0),
	}
}
