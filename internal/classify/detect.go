package classify

import (
	"strings"

	"promo-offer-api/internal/models"
)

// Vocabularies are ordered slices, not sets: when a text mentions more
// than one token the earliest entry wins, which keeps detection
// deterministic. Instruments are ordered most-specific first so that
// "EMI" does not shadow the other instruments.
var knownBanks = []string{
	"HDFC", "AXIS", "IDFC", "ICICI", "SBI", "KOTAK", "BOB", "PNB",
	"HSBC", "YES", "BAJAJ", "AU", "RBL", "FEDERAL", "INDUSIND",
}

var knownInstruments = []string{
	"CREDIT", "DEBIT", "UPI", "NETBANKING", "WALLET", "EMI_OPTIONS", "EMI",
}

// DetectBank returns the first known bank code contained in the text
// (case-insensitive), or UNKNOWN.
func DetectBank(text string) string {
	upper := strings.ToUpper(text)
	for _, bank := range knownBanks {
		if strings.Contains(upper, bank) {
			return bank
		}
	}
	return models.Unknown
}

// DetectInstrument returns the first known payment-instrument code
// contained in the text (case-insensitive). Any leftover mention of
// EMI maps to EMI_OPTIONS; otherwise UNKNOWN.
func DetectInstrument(text string) string {
	upper := strings.ToUpper(text)
	for _, instrument := range knownInstruments {
		if strings.Contains(upper, instrument) {
			return instrument
		}
	}

	if strings.Contains(upper, "EMI") {
		return "EMI_OPTIONS"
	}
	return models.Unknown
}
