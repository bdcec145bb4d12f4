package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ecom/internal/domain"
	"github.com/vladislavdragonenkov/ecom/internal/storage/memory"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRepoMetrics_RecordOp(t *testing.T) {
	m := newRepoMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordOp("place_order", "ok", 10*time.Millisecond)
	m.RecordOp("place_order", "ok", 20*time.Millisecond)
	m.RecordOp("place_order", "insufficient_stock", 5*time.Millisecond)

	assert.Equal(t, 2.0, counterValue(t, m.ops.WithLabelValues("place_order", "ok")))
	assert.Equal(t, 1.0, counterValue(t, m.ops.WithLabelValues("place_order", "insufficient_stock")))
}

func TestRepoMetrics_DuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := newRepoMetricsWithRegisterer(registry)
	second := newRepoMetricsWithRegisterer(registry)

	// Повторная регистрация возвращает уже существующие коллекторы.
	first.RecordOrderPlaced()
	second.RecordOrderPlaced()
	assert.Equal(t, 2.0, counterValue(t, first.ordersPlaced))
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "ok", resultLabel(nil))
	assert.Equal(t, "not_found", resultLabel(domain.ErrProductNotFound))
	assert.Equal(t, "insufficient_stock", resultLabel(domain.ErrInsufficientStock))
	assert.Equal(t, "storage_failure", resultLabel(domain.ErrStorageFailure))
	assert.Equal(t, "invalid", resultLabel(domain.ErrQtyInvalid))
}

func TestInstrumentRepository_CountsPlacedOrders(t *testing.T) {
	m := newRepoMetricsWithRegisterer(prometheus.NewRegistry())
	repo := InstrumentRepository(memory.NewOrderRepository(), m)

	alice, err := repo.CreateCustomer(domain.Customer{
		Name: "Alice", Email: "alice@example.com", PasswordHash: "x",
	})
	require.NoError(t, err)
	phone, err := repo.CreateProduct(domain.Product{
		Name: "Phone", PriceMinor: 50000, StockQuantity: 20,
	})
	require.NoError(t, err)

	_, err = repo.PlaceOrder(alice.ID, []domain.OrderLine{{ProductID: phone.ID, Qty: 2}}, "123 Main St")
	require.NoError(t, err)

	_, err = repo.PlaceOrder(alice.ID, []domain.OrderLine{{ProductID: phone.ID, Qty: 100}}, "123 Main St")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 1.0, counterValue(t, m.ordersPlaced))
	assert.Equal(t, 1.0, counterValue(t, m.ops.WithLabelValues("place_order", "ok")))
	assert.Equal(t, 1.0, counterValue(t, m.ops.WithLabelValues("place_order", "insufficient_stock")))
}
