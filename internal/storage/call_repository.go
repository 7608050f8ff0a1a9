package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/sentiment-service/internal/model"
)

// CallRepository records upstream completion calls.
type CallRepository interface {
	Create(ctx context.Context, call *model.UpstreamCall) error
	CountBySymbol(ctx context.Context, symbol string) (int64, error)
	CountByOutcome(ctx context.Context, outcome model.Outcome) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]model.UpstreamCall, error)
}

type sqliteCallRepository struct {
	db *sqlx.DB
}

// NewCallRepository creates a SQLite-backed CallRepository.
func NewCallRepository(db *sqlx.DB) CallRepository {
	return &sqliteCallRepository{db: db}
}

func (r *sqliteCallRepository) Create(ctx context.Context, call *model.UpstreamCall) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO upstream_calls (symbol, provider, model, outcome, status_code, error, duration_ms)
		VALUES (:symbol, :provider, :model, :outcome, :status_code, :error, :duration_ms)
	`, call)
	if err != nil {
		return fmt.Errorf("creating upstream call record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	call.ID = id
	return nil
}

func (r *sqliteCallRepository) CountBySymbol(ctx context.Context, symbol string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM upstream_calls WHERE symbol = ?", symbol)
	return count, err
}

func (r *sqliteCallRepository) CountByOutcome(ctx context.Context, outcome model.Outcome) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM upstream_calls WHERE outcome = ?", outcome)
	return count, err
}

func (r *sqliteCallRepository) ListRecent(ctx context.Context, limit int) ([]model.UpstreamCall, error) {
	var calls []model.UpstreamCall
	err := r.db.SelectContext(ctx, &calls,
		"SELECT * FROM upstream_calls ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing upstream calls: %w", err)
	}
	return calls, nil
}

// NopCallRepository discards every record. It is used when no database is configured.
type NopCallRepository struct{}

func (NopCallRepository) Create(context.Context, *model.UpstreamCall) error { return nil }

func (NopCallRepository) CountBySymbol(context.Context, string) (int64, error) { return 0, nil }

func (NopCallRepository) CountByOutcome(context.Context, model.Outcome) (int64, error) {
	return 0, nil
}

func (NopCallRepository) ListRecent(context.Context, int) ([]model.UpstreamCall, error) {
	return nil, nil
}
