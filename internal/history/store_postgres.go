// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

// PostgreSQL implementation of the history data access contract.

package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhanle/photolens/pkg/uuid"
)

// PostgresRepository implements the Repository interface using pgx.
//
// The table carries two identifiers per row: the physical primary key and the
// opaque record ID exposed to callers. Only the latter ever leaves this file.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the history Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Capacity returns the relational-mode record limit.
func (repository *PostgresRepository) Capacity() int { return ServerCapacity }

/*
List retrieves the user's records, newest first, truncated to limit.

Parameters:
  - context: context.Context
  - userID: string
  - limit: int

Returns:
  - []Record: Hydrated records in reverse-chronological order
  - error: Query failures
*/
func (repository *PostgresRepository) List(context context.Context, userID string, limit int) ([]Record, error) {
	const query = `
		SELECT recordid, userid, imagedata, analysisimage, result, createdat
		FROM core.history
		WHERE userid = $1
		ORDER BY createdat DESC
		LIMIT $2`

	rows, err := repository.pool.Query(context, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_history_repo_list_failed: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var record Record
		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.ImageData,
			&record.AnalysisImage,
			&record.Result,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_history_repo_scan_failed: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_history_repo_rows_failed: %w", err)
	}

	return records, nil
}

/*
Insert persists a new record row.

Description: Mints a fresh physical row key; the record's opaque ID is set by
the caller and stored in its own uniquely indexed column.

Parameters:
  - context: context.Context
  - record: *Record

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Insert(context context.Context, record *Record) error {
	const query = `
		INSERT INTO core.history (
			id, userid, recordid, imagedata, analysisimage, result, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		uuid.New(),
		record.UserID,
		record.ID,
		record.ImageData,
		record.AnalysisImage,
		record.Result,
		record.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_history_repo_insert_failed: %w", err)
	}

	return nil
}

/*
Delete removes the record when it belongs to the user.

Description: The ownership predicate is part of the statement, so a non-owned
ID simply matches zero rows. Zero rows affected is success.

Parameters:
  - context: context.Context
  - userID: string
  - recordID: string

Returns:
  - error: Deletion failures
*/
func (repository *PostgresRepository) Delete(context context.Context, userID, recordID string) error {
	const query = "DELETE FROM core.history WHERE userid = $1 AND recordid = $2"
	_, err := repository.pool.Exec(context, query, userID, recordID)
	if err != nil {
		return fmt.Errorf("postgres_history_repo_delete_failed: %w", err)
	}
	return nil
}

/*
SweepExpired deletes every record of the user older than maxAge.

Parameters:
  - context: context.Context
  - userID: string
  - maxAge: time.Duration

Returns:
  - int: Number of rows removed
  - error: Deletion failures
*/
func (repository *PostgresRepository) SweepExpired(context context.Context, userID string, maxAge time.Duration) (int, error) {
	const query = "DELETE FROM core.history WHERE userid = $1 AND createdat < $2"

	cutoff := time.Now().Add(-maxAge)
	tag, err := repository.pool.Exec(context, query, userID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("postgres_history_repo_sweep_failed: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

/*
Count returns the user's current record count.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - int: Current count
  - error: Query failures
*/
func (repository *PostgresRepository) Count(context context.Context, userID string) (int, error) {
	const query = "SELECT COUNT(*) FROM core.history WHERE userid = $1"

	var count int
	if err := repository.pool.QueryRow(context, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_history_repo_count_failed: %w", err)
	}

	return count, nil
}
