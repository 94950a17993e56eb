package events

import (
	"context"
	"sync"
	"time"

	"promo-offer-api/internal/models"
)

// EventType represents the type of event.
type EventType string

const (
	// EventOffersSaved is emitted after a payload has been processed
	EventOffersSaved EventType = "offers.saved"
	// EventOfferCreated is emitted for each newly persisted offer
	EventOfferCreated EventType = "offer.created"
	// EventDiscountQueried is emitted when a highest-discount query completes
	EventDiscountQueried EventType = "discount.queried"
)

// Event represents an event in the system.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      interface{}
}

// OffersSavedData contains data for payload-processed events.
type OffersSavedData struct {
	Identified int
	Created    int
}

// OfferCreatedData contains data for offer created events.
type OfferCreatedData struct {
	Offer models.Offer
}

// DiscountQueriedData contains data for discount query events.
type DiscountQueriedData struct {
	AmountToPay       int
	BankName          string
	PaymentInstrument string
	HighestDiscount   int
	QueriedAt         time.Time
}

// Handler is a function that handles events.
type Handler func(ctx context.Context, event Event) error

// Manager manages event handlers and event publishing.
type Manager struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	enabled  bool
}

// NewManager creates a new event manager.
func NewManager(enabled bool) *Manager {
	return &Manager{
		handlers: make(map[EventType][]Handler),
		enabled:  enabled,
	}
}

// Subscribe subscribes a handler to a specific event type.
func (m *Manager) Subscribe(eventType EventType, handler Handler) {
	if !m.enabled {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlers[eventType] = append(m.handlers[eventType], handler)
}

// Publish publishes an event to all subscribed handlers.
func (m *Manager) Publish(ctx context.Context, eventType EventType, data interface{}) {
	if !m.enabled {
		return
	}

	m.mu.RLock()
	handlers := m.handlers[eventType]
	m.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}

	// Execute handlers asynchronously to avoid blocking the request
	for _, handler := range handlers {
		go func(h Handler) {
			if err := h(ctx, event); err != nil {
				_ = err
			}
		}(handler)
	}
}

// PublishOffersSaved publishes a payload-processed event.
func (m *Manager) PublishOffersSaved(ctx context.Context, identified, created int) {
	m.Publish(ctx, EventOffersSaved, OffersSavedData{
		Identified: identified,
		Created:    created,
	})
}

// PublishOfferCreated publishes an offer created event.
func (m *Manager) PublishOfferCreated(ctx context.Context, offer models.Offer) {
	m.Publish(ctx, EventOfferCreated, OfferCreatedData{Offer: offer})
}

// PublishDiscountQueried publishes a discount query event.
func (m *Manager) PublishDiscountQueried(ctx context.Context, amountToPay int, bankName, paymentInstrument string, highestDiscount int) {
	m.Publish(ctx, EventDiscountQueried, DiscountQueriedData{
		AmountToPay:       amountToPay,
		BankName:          bankName,
		PaymentInstrument: paymentInstrument,
		HighestDiscount:   highestDiscount,
		QueriedAt:         time.Now(),
	})
}

// Shutdown shuts down the event manager.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.enabled = false
	m.handlers = make(map[EventType][]Handler)
}
