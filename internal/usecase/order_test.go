package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	domainErrors "github.com/dgaraz/fulfillment/internal/domain/errors"
	"github.com/dgaraz/fulfillment/internal/domain/model"
	testhelpers "github.com/dgaraz/fulfillment/internal/test"
)

func TestOrderUseCaseCreate(t *testing.T) {
	repo := testhelpers.NewOrderRepositoryStub()
	uc := NewOrderUseCase(repo)

	order, err := uc.Create(context.Background(), 3, "Alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	if order.Quantity != 3 || order.CustomerName != "Alice" {
		t.Fatalf("unexpected order fields: %+v", order)
	}
	if !strings.HasPrefix(order.Number, "ORD-") || len(order.Number) != 12 {
		t.Fatalf("unexpected order number %q", order.Number)
	}
	if order.Number != strings.ToUpper(order.Number) {
		t.Fatalf("order number must be upper case, got %q", order.Number)
	}
	if _, err := repo.GetByID(context.Background(), order.ID); err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
}

func TestOrderUseCaseCreateDefaultsCustomerName(t *testing.T) {
	uc := NewOrderUseCase(testhelpers.NewOrderRepositoryStub())

	order, err := uc.Create(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.CustomerName != "Guest" {
		t.Fatalf("expected Guest default, got %q", order.CustomerName)
	}
}

func TestOrderUseCaseCreateRejectsInvalidQuantity(t *testing.T) {
	repo := testhelpers.NewOrderRepositoryStub()
	repo.CreateFn = func(context.Context, *model.Order) error {
		t.Fatal("create should not be called for invalid quantity")
		return nil
	}
	uc := NewOrderUseCase(repo)

	for _, quantity := range []int{0, -1, 101} {
		if _, err := uc.Create(context.Background(), quantity, "Bob"); !errors.Is(err, domainErrors.ErrInvalidQuantity) {
			t.Fatalf("quantity %d: expected invalid quantity error, got %v", quantity, err)
		}
	}
}

func TestOrderUseCaseListByStatusRejectsUnknownStatus(t *testing.T) {
	uc := NewOrderUseCase(testhelpers.NewOrderRepositoryStub())

	if _, err := uc.ListByStatus(context.Background(), "cooking"); !errors.Is(err, domainErrors.ErrInvalidStatus) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
}

func TestOrderUseCaseListByStatus(t *testing.T) {
	repo := testhelpers.NewOrderRepositoryStub()
	uc := NewOrderUseCase(repo)

	ready, err := uc.Create(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ready.Status = model.OrderStatusReady
	if err := repo.UpdateStatus(context.Background(), ready.ID, model.OrderStatusPending, model.OrderStatusReady); err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if _, err := uc.Create(context.Background(), 1, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	orders, err := uc.ListByStatus(context.Background(), model.OrderStatusReady)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != ready.ID {
		t.Fatalf("unexpected filtered orders: %+v", orders)
	}
}
