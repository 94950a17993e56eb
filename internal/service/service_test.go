package service

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"promo-offer-api/internal/database"
	"promo-offer-api/internal/features"
)

func setupTestDB(t *testing.T) (*database.DB, func()) {
	dbPath := "./test_" + time.Now().Format("20060102150405.000000000") + ".db"
	db, err := database.NewDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

func decodeDoc(t *testing.T, raw string) interface{} {
	t.Helper()
	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("Failed to decode test payload: %v", err)
	}
	return doc
}

const samplePayload = `{
	"paymentOptions": [
		{
			"card": {
				"offers": [
					{"promotionMessage": "Flat ₹500 off on HDFC Credit Card"},
					{"promotionMessage": "10% off up to ₹150 on SBI UPI"}
				]
			}
		}
	],
	"pricingData": {
		"noCostEmi": [
			{"description": "No cost EMI available on ICICI Credit Cards"},
			{"description": ""}
		]
	},
	"widgets": [
		{"title": "Pay Later options", "message": "Buy now, pay next month with HDFC"},
		{"title": "Recommended for you", "message": "unrelated widget"}
	]
}`

func TestSaveOffers_ExtractsAllRegions(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewService(db)
	ctx := context.Background()

	resp, err := svc.SaveOffers(ctx, decodeDoc(t, samplePayload))
	if err != nil {
		t.Fatalf("Failed to save offers: %v", err)
	}

	// 2 promotion messages + 1 non-empty EMI description + 1 pay-later widget
	if resp.NoOfOffersIdentified != 4 {
		t.Errorf("Expected 4 identified, got %d", resp.NoOfOffersIdentified)
	}
	if resp.NoOfNewOffersCreated != 4 {
		t.Errorf("Expected 4 created, got %d", resp.NoOfNewOffersCreated)
	}

	count, err := db.CountOffers(ctx)
	if err != nil {
		t.Fatalf("Failed to count offers: %v", err)
	}
	if count != 4 {
		t.Errorf("Expected 4 stored offers, got %d", count)
	}
}

func TestSaveOffers_IdempotentByTitle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewService(db)
	ctx := context.Background()

	first, err := svc.SaveOffers(ctx, decodeDoc(t, samplePayload))
	if err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if first.NoOfNewOffersCreated != 4 {
		t.Fatalf("Expected 4 created on first save, got %d", first.NoOfNewOffersCreated)
	}

	second, err := svc.SaveOffers(ctx, decodeDoc(t, samplePayload))
	if err != nil {
		t.Fatalf("Second save failed: %v", err)
	}
	if second.NoOfOffersIdentified != 4 {
		t.Errorf("Expected 4 identified on second save, got %d", second.NoOfOffersIdentified)
	}
	if second.NoOfNewOffersCreated != 0 {
		t.Errorf("Expected 0 created on second save, got %d", second.NoOfNewOffersCreated)
	}
}

func TestSaveOffers_EmptyDocument(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewService(db)

	for _, raw := range []string{`{}`, `{"items": [1, 2, 3]}`, `[]`} {
		resp, err := svc.SaveOffers(context.Background(), decodeDoc(t, raw))
		if err != nil {
			t.Fatalf("Save failed for %s: %v", raw, err)
		}
		if resp.NoOfOffersIdentified != 0 || resp.NoOfNewOffersCreated != 0 {
			t.Errorf("Expected zero counts for %s, got %+v", raw, resp)
		}
	}
}

func TestSaveOffers_WidgetTitleFilter(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewService(db)

	doc := decodeDoc(t, `{
		"widgets": [
			{"title": "No Cost EMI plans", "message": "EMI on AXIS Credit Cards"},
			{"title": "PAY LATER", "message": "Defer your payment"},
			{"title": "Top deals", "message": "should be ignored"}
		]
	}`)

	resp, err := svc.SaveOffers(context.Background(), doc)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if resp.NoOfOffersIdentified != 2 {
		t.Errorf("Expected 2 identified, got %d", resp.NoOfOffersIdentified)
	}
}

func TestSaveOffers_DisabledRegionsAreSkipped(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	flags := features.NewManager()
	flags.RegisterDefaults()
	flags.Disable(features.FeatureNoCostEMI)
	flags.Disable(features.FeatureWidgets)

	svc := NewService(db)
	svc.flags = flags

	resp, err := svc.SaveOffers(context.Background(), decodeDoc(t, samplePayload))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if resp.NoOfOffersIdentified != 2 {
		t.Errorf("Expected only the 2 promotion messages, got %d", resp.NoOfOffersIdentified)
	}
}

func TestHighestDiscount_PicksMaximum(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewService(db)
	ctx := context.Background()

	doc := decodeDoc(t, `{
		"offers": [
			{"promotionMessage": "Flat ₹100 off on HDFC Credit Card"},
			{"promotionMessage": "Flat ₹250 off on HDFC Credit Card purchases"}
		]
	}`)
	if _, err := svc.SaveOffers(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	resp, err := svc.HighestDiscount(ctx, 1000, "HDFC", "CREDIT")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if resp.HighestDiscount != 250 {
		t.Errorf("Expected 250, got %d", resp.HighestDiscount)
	}
}

func TestHighestDiscount_CaseInsensitiveMatch(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewService(db)
	ctx := context.Background()

	doc := decodeDoc(t, `{"promotionMessage": "Flat ₹300 off on KOTAK Debit Card"}`)
	if _, err := svc.SaveOffers(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	resp, err := svc.HighestDiscount(ctx, 2000, "kotak", "debit")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if resp.HighestDiscount != 300 {
		t.Errorf("Expected 300, got %d", resp.HighestDiscount)
	}
}

func TestHighestDiscount_PercentageCappedAgainstAmount(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewService(db)
	ctx := context.Background()

	doc := decodeDoc(t, `{"promotionMessage": "10% off up to ₹150 on SBI UPI"}`)
	if _, err := svc.SaveOffers(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	capped, err := svc.HighestDiscount(ctx, 5000, "SBI", "UPI")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if capped.HighestDiscount != 150 {
		t.Errorf("Expected capped 150, got %d", capped.HighestDiscount)
	}

	small, err := svc.HighestDiscount(ctx, 500, "SBI", "UPI")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if small.HighestDiscount != 50 {
		t.Errorf("Expected 50 for small amount, got %d", small.HighestDiscount)
	}
}

func TestHighestDiscount_NoCostEMIFallback(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewService(db)
	ctx := context.Background()

	doc := decodeDoc(t, `{
		"pricingData": {
			"noCostEmi": [{"description": "No cost EMI available on ICICI Credit Cards"}]
		}
	}`)
	if _, err := svc.SaveOffers(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	resp, err := svc.HighestDiscount(ctx, 9999, "ICICI", "CREDIT")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if resp.HighestDiscount != 500 {
		t.Errorf("Expected NO_COST_EMI fallback 500, got %d", resp.HighestDiscount)
	}
}

func TestHighestDiscount_NoMatches(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewService(db)

	resp, err := svc.HighestDiscount(context.Background(), 1000, "HDFC", "CREDIT")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if resp.HighestDiscount != 0 {
		t.Errorf("Expected 0 for no matches, got %d", resp.HighestDiscount)
	}
}

func TestHighestDiscount_CacheInvalidatedOnSave(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewService(db)
	ctx := context.Background()

	doc := decodeDoc(t, `{"promotionMessage": "Flat ₹100 off on HDFC Credit Card"}`)
	if _, err := svc.SaveOffers(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	first, err := svc.HighestDiscount(ctx, 1000, "HDFC", "CREDIT")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if first.HighestDiscount != 100 {
		t.Fatalf("Expected 100, got %d", first.HighestDiscount)
	}

	// A better offer arrives; the cached answer must not survive it.
	better := decodeDoc(t, `{"promotionMessage": "Flat ₹400 off on HDFC Credit Card today"}`)
	if _, err := svc.SaveOffers(ctx, better); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second, err := svc.HighestDiscount(ctx, 1000, "HDFC", "CREDIT")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if second.HighestDiscount != 400 {
		t.Errorf("Expected 400 after new offer, got %d", second.HighestDiscount)
	}
}
