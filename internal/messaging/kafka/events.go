package kafka

import (
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/ecom/internal/domain"
)

// TopicOrderEvents — топик событий заказов.
const TopicOrderEvents = "ecom.order.events"

// EventType определяет тип события.
type EventType string

const (
	// EventTypeOrderPlaced — заказ успешно оформлен.
	EventTypeOrderPlaced EventType = "order.placed"
)

// OrderPlacedItem — позиция заказа в событии.
type OrderPlacedItem struct {
	ProductID  int64 `json:"product_id"`
	Qty        int32 `json:"qty"`
	PriceMinor int64 `json:"price_minor"`
}

// OrderPlacedEvent публикуется после успешного коммита транзакции оформления.
type OrderPlacedEvent struct {
	EventID    string            `json:"event_id"`
	EventType  EventType         `json:"event_type"`
	OrderID    int64             `json:"order_id"`
	CustomerID int64             `json:"customer_id"`
	TotalMinor int64             `json:"total_minor"`
	Items      []OrderPlacedItem `json:"items"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NewOrderPlacedEvent строит событие из оформленного заказа.
func NewOrderPlacedEvent(order domain.Order) *OrderPlacedEvent {
	items := make([]OrderPlacedItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderPlacedItem{
			ProductID:  item.ProductID,
			Qty:        item.Qty,
			PriceMinor: item.PriceMinor,
		})
	}

	return &OrderPlacedEvent{
		EventID:    uuid.NewString(),
		EventType:  EventTypeOrderPlaced,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		TotalMinor: order.TotalMinor,
		Items:      items,
		Timestamp:  time.Now().UTC(),
	}
}
