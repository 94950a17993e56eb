package classify

import (
	"testing"

	"promo-offer-api/internal/models"
)

func TestEvaluateDiscount_FlatIsAmountIndependent(t *testing.T) {
	offer := models.Offer{DiscountType: models.DiscountFlat, DiscountValue: 100}

	for _, amount := range []int{0, 1, 99, 10000} {
		if got := EvaluateDiscount(offer, amount); got != 100 {
			t.Errorf("Expected 100 at amount %d, got %d", amount, got)
		}
	}
}

func TestEvaluateDiscount_FlatUnsetValue(t *testing.T) {
	offer := models.Offer{DiscountType: models.DiscountFlat}
	if got := EvaluateDiscount(offer, 1000); got != 0 {
		t.Errorf("Expected 0 for unset flat value, got %d", got)
	}
}

func TestEvaluateDiscount_PercentageCapped(t *testing.T) {
	offer := models.Offer{
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		MaxDiscount:   50,
	}
	if got := EvaluateDiscount(offer, 1000); got != 50 {
		t.Errorf("Expected capped 50, got %d", got)
	}
}

func TestEvaluateDiscount_PercentageUncapped(t *testing.T) {
	offer := models.Offer{
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
	}
	if got := EvaluateDiscount(offer, 1000); got != 100 {
		t.Errorf("Expected 100, got %d", got)
	}
}

func TestEvaluateDiscount_PercentageFloors(t *testing.T) {
	offer := models.Offer{
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
	}
	// 10% of 105 is 10.5; integer division floors
	if got := EvaluateDiscount(offer, 105); got != 10 {
		t.Errorf("Expected floored 10, got %d", got)
	}
}

func TestEvaluateDiscount_CategoryFallbacks(t *testing.T) {
	tests := []struct {
		category models.OfferCategory
		want     int
	}{
		{models.CategoryNoCostEMI, 500},
		{models.CategoryCashback, 300},
		{models.CategoryDiscount, 0},
		{models.CategoryDeferredPayment, 0},
	}

	for _, tt := range tests {
		offer := models.Offer{DiscountType: models.DiscountNone, OfferCategory: tt.category}
		if got := EvaluateDiscount(offer, 12345); got != tt.want {
			t.Errorf("Category %s: expected %d, got %d", tt.category, tt.want, got)
		}
	}
}

func TestEvaluateDiscount_UnknownTypeFallsBack(t *testing.T) {
	offer := models.Offer{
		DiscountType:  models.DiscountType("MYSTERY"),
		OfferCategory: models.CategoryNoCostEMI,
	}
	if got := EvaluateDiscount(offer, 1000); got != 500 {
		t.Errorf("Expected fallback 500 for unknown type, got %d", got)
	}
}
