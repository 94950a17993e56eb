package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"promo-offer-api/internal/models"
)

// DB wraps the database connection and provides methods for data access.
type DB struct {
	conn *sql.DB
}

// NewDB creates a new database connection and initializes the schema.
func NewDB(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables if they don't exist. The
// unique index on title backs the de-duplication contract: an offer
// whose exact title was already stored is never stored again.
func (db *DB) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS offers (
			offer_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			bank_name TEXT NOT NULL,
			payment_instrument TEXT NOT NULL,
			discount_type TEXT NOT NULL,
			discount_value INTEGER NOT NULL DEFAULT 0,
			max_discount INTEGER NOT NULL DEFAULT 0,
			offer_category TEXT NOT NULL,
			valid_till TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_offers_title ON offers(title)`,
		`CREATE INDEX IF NOT EXISTS idx_offers_bank ON offers(bank_name)`,
		`CREATE INDEX IF NOT EXISTS idx_offers_instrument ON offers(payment_instrument)`,
	}

	for _, query := range queries {
		if _, err := db.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}

	return nil
}

// InsertOffer stores a new offer. It fails if another offer with the
// same title already exists; callers check FindByTitle first, the
// unique index is the backstop for concurrent saves.
func (db *DB) InsertOffer(ctx context.Context, offer models.Offer) error {
	query := `INSERT INTO offers (
		offer_id, title, bank_name, payment_instrument,
		discount_type, discount_value, max_discount, offer_category, valid_till
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(
		ctx,
		query,
		offer.OfferID,
		offer.Title,
		offer.BankName,
		offer.PaymentInstrument,
		string(offer.DiscountType),
		offer.DiscountValue,
		offer.MaxDiscount,
		string(offer.OfferCategory),
		offer.ValidTill.Format(time.RFC3339),
	)

	if err != nil {
		return fmt.Errorf("failed to insert offer: %w", err)
	}

	return nil
}

// FindByTitle returns the stored offer with this exact title, or nil
// when no such offer exists.
func (db *DB) FindByTitle(ctx context.Context, title string) (*models.Offer, error) {
	query := `SELECT offer_id, title, bank_name, payment_instrument,
		discount_type, discount_value, max_discount, offer_category, valid_till
		FROM offers WHERE title = ?`

	row := db.conn.QueryRowContext(ctx, query, title)

	offer, err := scanOffer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query offer by title: %w", err)
	}

	return &offer, nil
}

// FindByBankAndInstrument returns all offers matching the bank and
// payment instrument, compared case-insensitively.
func (db *DB) FindByBankAndInstrument(ctx context.Context, bankName, paymentInstrument string) ([]models.Offer, error) {
	query := `SELECT offer_id, title, bank_name, payment_instrument,
		discount_type, discount_value, max_discount, offer_category, valid_till
		FROM offers
		WHERE bank_name = ? COLLATE NOCASE
		AND payment_instrument = ? COLLATE NOCASE`

	rows, err := db.conn.QueryContext(ctx, query, bankName, paymentInstrument)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	var offers []models.Offer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, offer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offers: %w", err)
	}

	return offers, nil
}

// CountOffers returns the total number of stored offers.
func (db *DB) CountOffers(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM offers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count offers: %w", err)
	}
	return count, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOffer(s scanner) (models.Offer, error) {
	var offer models.Offer
	var discountType, offerCategory, validTillStr string

	err := s.Scan(
		&offer.OfferID,
		&offer.Title,
		&offer.BankName,
		&offer.PaymentInstrument,
		&discountType,
		&offer.DiscountValue,
		&offer.MaxDiscount,
		&offerCategory,
		&validTillStr,
	)
	if err != nil {
		return models.Offer{}, err
	}

	offer.DiscountType = models.DiscountType(discountType)
	offer.OfferCategory = models.OfferCategory(offerCategory)

	offer.ValidTill, err = time.Parse(time.RFC3339, validTillStr)
	if err != nil {
		return models.Offer{}, fmt.Errorf("failed to parse valid_till: %w", err)
	}

	return offer, nil
}
