package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infotechmar-dot/godsnbees-boxnow-backend/internal/models"
)

const uniqueViolationCode = "23505"

const createOrdersTable = `
CREATE TABLE IF NOT EXISTS orders (
	order_number TEXT PRIMARY KEY,
	status       TEXT NOT NULL,
	payload      JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
)`

// PGStore persists orders in PostgreSQL. The full order document lives
// in a JSONB column; updates take a row lock so concurrent patches to
// the same order serialize instead of clobbering each other.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, createOrdersTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create orders table: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

func (s *PGStore) Close() {
	s.pool.Close()
}

func (s *PGStore) Create(ctx context.Context, order *models.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO orders (order_number, status, payload, created_at) VALUES ($1, $2, $3, $4)`,
		order.OrderNumber, order.Status, payload, order.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrExists
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, orderNumber string) (*models.Order, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM orders WHERE order_number = $1`, orderNumber,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}
	return decodeOrder(payload)
}

func (s *PGStore) Update(ctx context.Context, orderNumber string, patch Patch) (*models.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback(ctx)

	var payload []byte
	err = tx.QueryRow(ctx,
		`SELECT payload FROM orders WHERE order_number = $1 FOR UPDATE`, orderNumber,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock order: %w", err)
	}

	order, err := decodeOrder(payload)
	if err != nil {
		return nil, err
	}
	patch.apply(order)

	updated, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE orders SET status = $2, payload = $3 WHERE order_number = $1`,
		orderNumber, order.Status, updated,
	); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return order, nil
}

func decodeOrder(payload []byte) (*models.Order, error) {
	var order models.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &order, nil
}
