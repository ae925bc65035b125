package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
)

// timestampLayout is fixed-width so created_at sorts chronologically as text.
const timestampLayout = "2006-01-02 15:04:05.000000000"

// CommitRepository provides data access methods for the commit_attempt and commit_result tables.
// It journals every commit of the selection together with its per-ticker outcome.
type CommitRepository struct {
	db *sql.DB
}

// NewCommitRepository creates a new CommitRepository with the provided database connection.
func NewCommitRepository(db *sql.DB) *CommitRepository {
	return &CommitRepository{db: db}
}

// RecordCommit stores an attempt and all its results in one transaction.
func (r *CommitRepository) RecordCommit(ctx context.Context, record model.CommitRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	succeeded, failed := 0, 0
	for _, res := range record.Results {
		if res.Status == model.CommitSucceeded {
			succeeded++
		} else {
			failed++
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO commit_attempt (id, created_at, succeeded, failed)
		VALUES (?, ?, ?, ?)
	`, record.ID, record.CreatedAt.UTC().Format(timestampLayout), succeeded, failed)
	if err != nil {
		return fmt.Errorf("failed to insert commit attempt: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO commit_result (id, attempt_id, ticker, shares, reference_price, status, reason, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare commit result insert: %w", err)
	}
	defer stmt.Close()

	for _, res := range record.Results {
		var price sql.NullString
		if res.ReferencePrice.Valid {
			price = sql.NullString{String: res.ReferencePrice.Decimal.String(), Valid: true}
		}
		_, err := stmt.ExecContext(ctx, res.ID, record.ID, res.Ticker, res.Shares, price, string(res.Status), res.Reason, res.Message)
		if err != nil {
			return fmt.Errorf("failed to insert commit result for %s: %w", res.Ticker, err)
		}
	}

	return tx.Commit()
}

// ListCommits returns the most recent attempts, newest first, with their results.
// A limit of 0 or less returns every attempt.
func (r *CommitRepository) ListCommits(ctx context.Context, limit int) ([]model.CommitRecord, error) {
	query := `
		SELECT id, created_at
		FROM commit_attempt
		ORDER BY created_at DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query commit_attempt table: %w", err)
	}
	defer rows.Close()

	records := []model.CommitRecord{}
	for rows.Next() {
		var rec model.CommitRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan commit_attempt results: %w", err)
		}
		rec.CreatedAt, err = time.Parse(timestampLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commit_attempt table: %w", err)
	}

	for i := range records {
		results, err := r.getResults(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Results = results
	}

	return records, nil
}

// GetCommit returns one attempt by ID, or apperrors.ErrCommitNotFound.
func (r *CommitRepository) GetCommit(ctx context.Context, id string) (model.CommitRecord, error) {
	var rec model.CommitRecord
	var createdAt string

	err := r.db.QueryRowContext(ctx, `
		SELECT id, created_at
		FROM commit_attempt
		WHERE id = ?
	`, id).Scan(&rec.ID, &createdAt)
	if err == sql.ErrNoRows {
		return model.CommitRecord{}, apperrors.ErrCommitNotFound
	}
	if err != nil {
		return model.CommitRecord{}, fmt.Errorf("failed to query commit attempt: %w", err)
	}

	rec.CreatedAt, err = time.Parse(timestampLayout, createdAt)
	if err != nil {
		return model.CommitRecord{}, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}

	rec.Results, err = r.getResults(ctx, rec.ID)
	if err != nil {
		return model.CommitRecord{}, err
	}
	return rec, nil
}

func (r *CommitRepository) getResults(ctx context.Context, attemptID string) ([]model.CommitResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, ticker, shares, reference_price, status, reason, message
		FROM commit_result
		WHERE attempt_id = ?
		ORDER BY ticker ASC
	`, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to query commit_result table: %w", err)
	}
	defer rows.Close()

	results := []model.CommitResult{}
	for rows.Next() {
		var res model.CommitResult
		var price, reason, message sql.NullString
		var status string

		if err := rows.Scan(&res.ID, &res.Ticker, &res.Shares, &price, &status, &reason, &message); err != nil {
			return nil, fmt.Errorf("failed to scan commit_result results: %w", err)
		}

		if price.Valid {
			d, err := decimal.NewFromString(price.String)
			if err != nil {
				return nil, fmt.Errorf("invalid reference price %q: %w", price.String, err)
			}
			res.ReferencePrice = decimal.NewNullDecimal(d)
		}
		res.Status = model.CommitStatus(status)
		res.Reason = reason.String
		res.Message = message.String

		results = append(results, res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commit_result table: %w", err)
	}

	return results, nil
}
