package postgres

import (
	"context"
	"errors"
	"fmt"

	"trivia-game-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BankSource loads raw CSV bank text from Postgres. Validation happens in
// the bank repository, on the same path as player uploads.
type BankSource struct {
	pool *pgxpool.Pool
}

func NewBankSource(pool *pgxpool.Pool) *BankSource {
	return &BankSource{pool: pool}
}

func (s *BankSource) LoadCSV(ctx context.Context, bankID string) (string, error) {
	var csv string
	err := s.pool.QueryRow(ctx, `SELECT csv_data FROM question_banks WHERE id=$1`, bankID).Scan(&csv)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrBankNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load bank: %w", err)
	}
	return csv, nil
}
