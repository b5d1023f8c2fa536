package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/dgaraz/fulfillment/internal/domain/errors"
	"github.com/dgaraz/fulfillment/internal/domain/model"
	"github.com/dgaraz/fulfillment/internal/domain/repository"
)

// dbPool is the subset of pgxpool.Pool used by the storage, narrow enough to
// be replaced by pgxmock in tests.
type dbPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   dbPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type inventoryRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping verifies database connectivity.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Inventory() repository.InventoryRepository {
	return &inventoryRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            order_number TEXT UNIQUE NOT NULL,
            status TEXT NOT NULL,
            quantity INTEGER NOT NULL,
            customer_name TEXT NOT NULL,
            selected_recipes JSONB,
            required_ingredients JSONB,
            total_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
            estimated_completion_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS inventory (
            ingredient TEXT PRIMARY KEY,
            quantity INTEGER NOT NULL CHECK (quantity >= 0),
            reserved_quantity INTEGER NOT NULL DEFAULT 0
                CHECK (reserved_quantity >= 0 AND reserved_quantity <= quantity),
            unit TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	const query = `INSERT INTO orders (id, order_number, status, quantity, customer_name, total_amount)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at`

	err := r.storage.pool.QueryRow(ctx, query,
		order.ID, order.Number, order.Status, order.Quantity, order.CustomerName, order.TotalAmount,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("order %s: %w", order.Number, domainErrors.ErrAlreadyExists)
		}
		return err
	}
	return nil
}

const orderColumns = `id, order_number, status, quantity, customer_name,
        selected_recipes, required_ingredients, total_amount, estimated_completion_at,
        created_at, updated_at`

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	row := r.storage.pool.QueryRow(ctx, query, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepository) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status=$1 ORDER BY created_at`
	rows, err := r.storage.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	const query = `UPDATE orders SET
            selected_recipes=$2, required_ingredients=$3,
            total_amount=$4, estimated_completion_at=$5, updated_at=NOW()
        WHERE id=$1`

	recipes, ingredients, err := marshalOrderJSON(order)
	if err != nil {
		return err
	}

	tag, err := r.storage.pool.Exec(ctx, query,
		order.ID, recipes, ingredients, order.TotalAmount, order.EstimatedCompletionAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, expected, next model.OrderStatus) error {
	const query = `UPDATE orders SET status=$3, updated_at=NOW() WHERE id=$1 AND status=$2`

	tag, err := r.storage.pool.Exec(ctx, query, id, expected, next)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		// Order exists but its status moved on while this callback was in flight.
		return domainErrors.ErrInvalidTransition
	}
	return nil
}

func marshalOrderJSON(order *model.Order) ([]byte, []byte, error) {
	var recipes, ingredients []byte
	var err error
	if order.SelectedRecipes != nil {
		if recipes, err = json.Marshal(order.SelectedRecipes); err != nil {
			return nil, nil, fmt.Errorf("marshal recipes: %w", err)
		}
	}
	if order.RequiredIngredients != nil {
		if ingredients, err = json.Marshal(order.RequiredIngredients); err != nil {
			return nil, nil, fmt.Errorf("marshal ingredients: %w", err)
		}
	}
	return recipes, ingredients, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		order       model.Order
		recipes     []byte
		ingredients []byte
	)
	err := row.Scan(&order.ID, &order.Number, &order.Status, &order.Quantity,
		&order.CustomerName, &recipes, &ingredients, &order.TotalAmount,
		&order.EstimatedCompletionAt, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(recipes) > 0 {
		if err := json.Unmarshal(recipes, &order.SelectedRecipes); err != nil {
			return nil, fmt.Errorf("unmarshal recipes: %w", err)
		}
	}
	if len(ingredients) > 0 {
		if err := json.Unmarshal(ingredients, &order.RequiredIngredients); err != nil {
			return nil, fmt.Errorf("unmarshal ingredients: %w", err)
		}
	}
	return &order, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// --- InventoryRepository implementation ---

const defaultUnit = "kg"

func (r *inventoryRepository) Get(ctx context.Context, ingredient string) (*model.InventoryRecord, error) {
	const query = `SELECT ingredient, quantity, reserved_quantity, unit, updated_at
        FROM inventory WHERE ingredient=$1`

	var rec model.InventoryRecord
	err := r.storage.pool.QueryRow(ctx, query, ingredient).
		Scan(&rec.Ingredient, &rec.Quantity, &rec.ReservedQuantity, &rec.Unit, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *inventoryRepository) List(ctx context.Context) ([]model.InventoryRecord, error) {
	const query = `SELECT ingredient, quantity, reserved_quantity, unit, updated_at
        FROM inventory ORDER BY ingredient`

	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.InventoryRecord
	for rows.Next() {
		var rec model.InventoryRecord
		if err := rows.Scan(&rec.Ingredient, &rec.Quantity, &rec.ReservedQuantity, &rec.Unit, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Reserve holds stock with a single conditional update so that the
// availability invariant is checked and applied atomically per record.
func (r *inventoryRepository) Reserve(ctx context.Context, ingredient string, amount int) error {
	if amount <= 0 {
		return domainErrors.ErrInvalidQuantity
	}

	const query = `UPDATE inventory
        SET reserved_quantity = reserved_quantity + $2, updated_at = NOW()
        WHERE ingredient = $1 AND quantity - reserved_quantity >= $2`

	tag, err := r.storage.pool.Exec(ctx, query, ingredient, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.Get(ctx, ingredient); err != nil {
			return err
		}
		return fmt.Errorf("reserve %d of %s: %w", amount, ingredient, domainErrors.ErrInsufficientStock)
	}
	return nil
}

func (r *inventoryRepository) Release(ctx context.Context, ingredient string, amount int) error {
	if amount <= 0 {
		return domainErrors.ErrInvalidQuantity
	}

	const query = `UPDATE inventory
        SET reserved_quantity = GREATEST(reserved_quantity - $2, 0), updated_at = NOW()
        WHERE ingredient = $1`

	tag, err := r.storage.pool.Exec(ctx, query, ingredient, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *inventoryRepository) Consume(ctx context.Context, ingredient string, amount int) error {
	if amount <= 0 {
		return domainErrors.ErrInvalidQuantity
	}

	const query = `UPDATE inventory
        SET quantity = quantity - $2, reserved_quantity = reserved_quantity - $2, updated_at = NOW()
        WHERE ingredient = $1 AND reserved_quantity >= $2`

	tag, err := r.storage.pool.Exec(ctx, query, ingredient, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.Get(ctx, ingredient); err != nil {
			return err
		}
		return fmt.Errorf("consume %d of %s: %w", amount, ingredient, domainErrors.ErrOverConsumption)
	}
	return nil
}

func (r *inventoryRepository) AddStock(ctx context.Context, ingredient string, amount int) error {
	if amount <= 0 {
		return domainErrors.ErrInvalidQuantity
	}

	const query = `INSERT INTO inventory (ingredient, quantity, reserved_quantity, unit)
        VALUES ($1, $2, 0, $3)
        ON CONFLICT (ingredient)
        DO UPDATE SET quantity = inventory.quantity + EXCLUDED.quantity, updated_at = NOW()`

	_, err := r.storage.pool.Exec(ctx, query, ingredient, amount, defaultUnit)
	return err
}

func (r *inventoryRepository) Initialize(ctx context.Context, records []model.InventoryRecord) error {
	const query = `INSERT INTO inventory (ingredient, quantity, reserved_quantity, unit)
        VALUES ($1, $2, 0, $3)
        ON CONFLICT (ingredient) DO NOTHING`

	start := time.Now()
	for _, rec := range records {
		unit := rec.Unit
		if unit == "" {
			unit = defaultUnit
		}
		if _, err := r.storage.pool.Exec(ctx, query, rec.Ingredient, rec.Quantity, unit); err != nil {
			return fmt.Errorf("initialize %s: %w", rec.Ingredient, err)
		}
	}
	r.storage.logger.Info("inventory initialized",
		slog.Int("items", len(records)),
		slog.Duration("took", time.Since(start)),
	)
	return nil
}
