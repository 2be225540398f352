// Package events внутрипроцессная шина событий бронирований
// Подписчики (например, внешний нотификатор) получают события синхронно
package events

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	EventBookingCreated       = "booking_created"
	EventBookingStatusChanged = "booking_status_changed"
)

// BookingEventPayload снимок бронирования для подписчиков
type BookingEventPayload struct {
	BookingID      int64     `json:"bookingId"`
	TenantID       int64     `json:"tenantId"`
	Date           string    `json:"date"`
	SessionID      string    `json:"sessionId"`
	ServiceID      string    `json:"serviceId"`
	PostalCode     string    `json:"postalCode"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	CustomerName   string    `json:"customerName,omitempty"`
	CustomerEmail  string    `json:"customerEmail,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// Event событие шины
type Event struct {
	ID        string
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Decode разбирает payload события
func (e *Event) Decode(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler обработчик события
type EventHandler func(event *Event) error

// EventBus pub/sub внутри процесса
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe регистрирует обработчик для типа события
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish вызывает всех подписчиков типа события
// Ошибка одного обработчика не мешает остальным, все ошибки возвращаются вместе
func (b *EventBus) Publish(event *Event) error {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishJSON сериализует payload и публикует событие. Для nil шины ничего не делает
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	event, err := NewJSONEvent(eventType, payload)
	if err != nil {
		return err
	}

	return b.Publish(&event)
}

// NewJSONEvent собирает событие с JSON payload
func NewJSONEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{ID: uuid.NewString(), Type: eventType, Payload: raw, CreatedAt: time.Now()}, nil
}
