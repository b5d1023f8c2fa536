package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/dgaraz/fulfillment/internal/domain/errors"
	"github.com/dgaraz/fulfillment/internal/domain/model"
)

func newMockStorage(t *testing.T) (*Storage, pgxmockv3.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger}
	return storage, mock
}

func expectSchema(mock pgxmockv3.PgxPoolIface) {
	for _, stmt := range []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS inventory",
		"CREATE INDEX IF NOT EXISTS idx_orders_status",
	} {
		mock.ExpectExec(stmt).WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	}
}

func TestInitSchema(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	expectSchema(mock)
	if err := storage.initSchema(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitSchemaError(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS orders").WillReturnError(errors.New("boom"))
	if err := storage.initSchema(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestInventoryReserve(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		defer mock.Close()

		mock.ExpectExec("UPDATE inventory").
			WithArgs("tomato", 5).
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))

		if err := storage.Inventory().Reserve(context.Background(), "tomato", 5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("insufficient stock", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		defer mock.Close()

		mock.ExpectExec("UPDATE inventory").
			WithArgs("tomato", 50).
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
		mock.ExpectQuery("SELECT ingredient, quantity, reserved_quantity").
			WithArgs("tomato").
			WillReturnRows(inventoryRows("tomato", 15, 0))

		err := storage.Inventory().Reserve(context.Background(), "tomato", 50)
		if !errors.Is(err, domainErrors.ErrInsufficientStock) {
			t.Fatalf("expected insufficient stock, got %v", err)
		}
	})

	t.Run("unknown ingredient", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		defer mock.Close()

		mock.ExpectExec("UPDATE inventory").
			WithArgs("saffron", 1).
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
		mock.ExpectQuery("SELECT ingredient, quantity, reserved_quantity").
			WithArgs("saffron").
			WillReturnError(noRowsErr())

		err := storage.Inventory().Reserve(context.Background(), "saffron", 1)
		if !errors.Is(err, domainErrors.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("non-positive amount", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		defer mock.Close()

		err := storage.Inventory().Reserve(context.Background(), "tomato", 0)
		if !errors.Is(err, domainErrors.ErrInvalidQuantity) {
			t.Fatalf("expected invalid quantity, got %v", err)
		}
	})
}

func TestInventoryConsume(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		defer mock.Close()

		mock.ExpectExec("UPDATE inventory").
			WithArgs("tomato", 5).
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))

		if err := storage.Inventory().Consume(context.Background(), "tomato", 5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("over consumption", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		defer mock.Close()

		mock.ExpectExec("UPDATE inventory").
			WithArgs("tomato", 9).
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
		mock.ExpectQuery("SELECT ingredient, quantity, reserved_quantity").
			WithArgs("tomato").
			WillReturnRows(inventoryRows("tomato", 15, 5))

		err := storage.Inventory().Consume(context.Background(), "tomato", 9)
		if !errors.Is(err, domainErrors.ErrOverConsumption) {
			t.Fatalf("expected over consumption, got %v", err)
		}
	})
}

func TestInventoryAddStockAndRelease(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO inventory").
		WithArgs("basil", 4, defaultUnit).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE inventory").
		WithArgs("basil", 2).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))

	inv := storage.Inventory()
	if err := inv.AddStock(context.Background(), "basil", 4); err != nil {
		t.Fatalf("unexpected add stock error: %v", err)
	}
	if err := inv.Release(context.Background(), "basil", 2); err != nil {
		t.Fatalf("unexpected release error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInventoryInitializeSkipsExisting(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	records := model.DefaultInventory()
	for _, rec := range records {
		mock.ExpectExec("INSERT INTO inventory").
			WithArgs(rec.Ingredient, rec.Quantity, rec.Unit).
			WillReturnResult(pgxmockv3.NewResult("INSERT", 0))
	}

	if err := storage.Inventory().Initialize(context.Background(), records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInventoryGet(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT ingredient, quantity, reserved_quantity").
		WithArgs("cheese").
		WillReturnRows(inventoryRows("cheese", 12, 3))

	rec, err := storage.Inventory().Get(context.Background(), "cheese")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.AvailableQuantity() != 9 {
		t.Fatalf("expected available 9, got %d", rec.AvailableQuantity())
	}
}

func TestOrderCreateAndGet(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	now := time.Now()
	order := &model.Order{
		ID:           "11111111-2222-3333-4444-555555555555",
		Number:       "ORD-11111111",
		Status:       model.OrderStatusPending,
		Quantity:     2,
		CustomerName: "Guest",
	}

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(order.ID, order.Number, order.Status, order.Quantity, order.CustomerName, order.TotalAmount).
		WillReturnRows(pgxmockv3.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	if err := storage.Orders().Create(context.Background(), order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id=").
		WithArgs(order.ID).
		WillReturnRows(orderRows(order.ID, order.Number, string(order.Status), now))

	got, err := storage.Orders().GetByID(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Number != order.Number {
		t.Fatalf("expected number %s, got %s", order.Number, got.Number)
	}
	if got.RequiredIngredients["tomato"] != 6 {
		t.Fatalf("expected stored ingredients to unmarshal, got %v", got.RequiredIngredients)
	}
}

func TestOrderGetNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id=").
		WithArgs("missing").
		WillReturnError(noRowsErr())

	if _, err := storage.Orders().GetByID(context.Background(), "missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOrderUpdateDoesNotWriteStatus(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	order := &model.Order{
		ID:                  "id-1",
		Status:              model.OrderStatusProcessing,
		SelectedRecipes:     []model.Recipe{{ID: "1", Name: "Margherita Pizza"}},
		RequiredIngredients: map[string]int{"tomato": 3},
		TotalAmount:         4.5,
	}

	// Status stays with the compare-and-set update; a long reservation pass
	// must not write a stale status back over a concurrently advanced one.
	mock.ExpectExec("UPDATE orders SET\\s+selected_recipes").
		WithArgs(order.ID, pgxmockv3.AnyArg(), pgxmockv3.AnyArg(), order.TotalAmount, pgxmockv3.AnyArg()).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))

	if err := storage.Orders().Update(context.Background(), order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderUpdateStatus(t *testing.T) {
	t.Run("applies while expected status holds", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		defer mock.Close()

		mock.ExpectExec("UPDATE orders SET status").
			WithArgs("id-1", model.OrderStatusPending, model.OrderStatusProcessing).
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))

		err := storage.Orders().UpdateStatus(context.Background(), "id-1", model.OrderStatusPending, model.OrderStatusProcessing)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("stale callback", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		defer mock.Close()

		now := time.Now()
		mock.ExpectExec("UPDATE orders SET status").
			WithArgs("id-1", model.OrderStatusPending, model.OrderStatusProcessing).
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
		mock.ExpectQuery("SELECT (.+) FROM orders WHERE id=").
			WithArgs("id-1").
			WillReturnRows(orderRows("id-1", "ORD-1", string(model.OrderStatusReady), now))

		err := storage.Orders().UpdateStatus(context.Background(), "id-1", model.OrderStatusPending, model.OrderStatusProcessing)
		if !errors.Is(err, domainErrors.ErrInvalidTransition) {
			t.Fatalf("expected invalid transition, got %v", err)
		}
	})
}

func TestOrderListByStatus(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM orders WHERE status=").
		WithArgs(model.OrderStatusWaitingMarketplace).
		WillReturnRows(orderRows("id-1", "ORD-1", string(model.OrderStatusWaitingMarketplace), now))

	orders, err := storage.Orders().ListByStatus(context.Background(), model.OrderStatusWaitingMarketplace)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != "id-1" {
		t.Fatalf("unexpected orders: %+v", orders)
	}
}

func inventoryRows(ingredient string, quantity, reserved int) *pgxmockv3.Rows {
	return pgxmockv3.NewRows([]string{"ingredient", "quantity", "reserved_quantity", "unit", "updated_at"}).
		AddRow(ingredient, quantity, reserved, "kg", time.Now())
}

func orderRows(id, number, status string, ts time.Time) *pgxmockv3.Rows {
	return pgxmockv3.NewRows([]string{
		"id", "order_number", "status", "quantity", "customer_name",
		"selected_recipes", "required_ingredients", "total_amount",
		"estimated_completion_at", "created_at", "updated_at",
	}).AddRow(id, number, model.OrderStatus(status), 2, "Guest",
		[]byte(`[{"name":"Margherita Pizza","ingredients":{"tomato":3}}]`),
		[]byte(`{"tomato":6}`), 0.0, nil, ts, ts)
}

func noRowsErr() error {
	return pgx.ErrNoRows
}
