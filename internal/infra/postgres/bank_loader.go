package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"level-quiz-game/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BankLoader loads a question bank stored as JSONB in Postgres.
type BankLoader struct {
	pool   *pgxpool.Pool
	bankID string
}

func NewBankLoader(pool *pgxpool.Pool, bankID string) *BankLoader {
	return &BankLoader{pool: pool, bankID: bankID}
}

func (l *BankLoader) LoadBank(ctx context.Context) (domain.QuestionBank, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_banks WHERE id=$1`, l.bankID).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	var bank domain.QuestionBank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("unmarshal question bank: %w", err)
	}
	if err := bank.Validate(); err != nil {
		return nil, fmt.Errorf("validate question bank: %w", err)
	}
	return bank, nil
}
