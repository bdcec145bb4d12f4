package kafka

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ecom/internal/domain"
)

func TestNewOrderPlacedEvent(t *testing.T) {
	order := domain.Order{
		ID:         7,
		CustomerID: 1,
		TotalMinor: 100000,
		Items: []domain.OrderItem{
			{ProductID: 1, ProductName: "Phone", Qty: 2, PriceMinor: 50000},
		},
	}

	event := NewOrderPlacedEvent(order)

	assert.Equal(t, EventTypeOrderPlaced, event.EventType)
	assert.Equal(t, int64(7), event.OrderID)
	assert.Equal(t, int64(1), event.CustomerID)
	assert.Equal(t, int64(100000), event.TotalMinor)
	require.Len(t, event.Items, 1)
	assert.Equal(t, int32(2), event.Items[0].Qty)
	assert.False(t, event.Timestamp.IsZero())

	_, err := uuid.Parse(event.EventID)
	require.NoError(t, err, "event id must be a valid uuid")

	// У каждого события свой идентификатор.
	assert.NotEqual(t, event.EventID, NewOrderPlacedEvent(order).EventID)
}
