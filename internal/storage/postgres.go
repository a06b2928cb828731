package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swipehire/interview-engine/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 25 // default
	}

	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 5 // default
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// CreateRecord inserts a finalized candidate record. A second insert
// for the same session replaces the earlier attempt's record.
func (r *PostgresRepository) CreateRecord(ctx context.Context, rec *models.CandidateRecord) error {
	stagesJSON, err := json.Marshal(rec.Stages)
	if err != nil {
		return fmt.Errorf("failed to marshal stages: %w", err)
	}

	query := `
		INSERT INTO candidate_records (id, session_id, created_at, name, email, phone, score, recommendation, summary, stages, resume_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (session_id) DO UPDATE
		SET score = EXCLUDED.score,
		    recommendation = EXCLUDED.recommendation,
		    summary = EXCLUDED.summary,
		    stages = EXCLUDED.stages
	`

	_, err = r.pool.Exec(ctx, query,
		rec.ID,
		rec.SessionID,
		rec.CreatedAt,
		rec.Profile.Name,
		rec.Profile.Email,
		rec.Profile.Phone,
		rec.Score,
		string(rec.Recommendation),
		rec.Summary,
		stagesJSON,
		rec.ResumeText,
	)

	if err != nil {
		return fmt.Errorf("failed to create candidate record: %w", err)
	}

	return nil
}

// GetRecord retrieves a candidate record by ID
func (r *PostgresRepository) GetRecord(ctx context.Context, id string) (*models.CandidateRecord, error) {
	query := `
		SELECT id, session_id, created_at, name, email, phone, score, recommendation, summary, stages, resume_text
		FROM candidate_records
		WHERE id = $1
	`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get candidate record: %w", err)
	}

	return rec, nil
}

// ListRecords lists candidate records sorted by score (desc), newest
// first within a score — the dashboard's roster order.
func (r *PostgresRepository) ListRecords(ctx context.Context, filters models.RosterFilters) ([]*models.CandidateRecord, error) {
	query := `
		SELECT id, session_id, created_at, name, email, phone, score, recommendation, summary, stages, resume_text
		FROM candidate_records
		WHERE ($1 = '' OR recommendation = $1)
		  AND score >= $2
		ORDER BY score DESC, created_at DESC
		LIMIT $3 OFFSET $4
	`

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, query,
		string(filters.Recommendation),
		filters.MinScore,
		limit,
		filters.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate records: %w", err)
	}
	defer rows.Close()

	var records []*models.CandidateRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// DeleteRecord removes a candidate record by ID
func (r *PostgresRepository) DeleteRecord(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM candidate_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete candidate record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.CandidateRecord, error) {
	var rec models.CandidateRecord
	var recommendation string
	var stagesJSON []byte

	err := row.Scan(
		&rec.ID,
		&rec.SessionID,
		&rec.CreatedAt,
		&rec.Profile.Name,
		&rec.Profile.Email,
		&rec.Profile.Phone,
		&rec.Score,
		&recommendation,
		&rec.Summary,
		&stagesJSON,
		&rec.ResumeText,
	)
	if err != nil {
		return nil, err
	}

	rec.Recommendation = models.Recommendation(recommendation)
	if err := json.Unmarshal(stagesJSON, &rec.Stages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stages: %w", err)
	}

	return &rec, nil
}

// GetClientByApiKey retrieves an API client by its key
func (r *PostgresRepository) GetClientByApiKey(ctx context.Context, apiKey string) (*models.ApiClient, error) {
	query := `
		SELECT id, name, api_key, is_active, created_at, last_used_at, permissions, metadata
		FROM api_clients
		WHERE api_key = $1
	`

	var c models.ApiClient
	var lastUsedAt *time.Time
	var metadataJSON []byte

	err := r.pool.QueryRow(ctx, query, apiKey).Scan(
		&c.ID,
		&c.Name,
		&c.ApiKey,
		&c.IsActive,
		&c.CreatedAt,
		&lastUsedAt,
		&c.Permissions,
		&metadataJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get api client: %w", err)
	}

	c.LastUsedAt = lastUsedAt
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &c.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal client metadata: %w", err)
		}
	}

	return &c, nil
}

// UpdateClientLastUsed stamps the client's last_used_at
func (r *PostgresRepository) UpdateClientLastUsed(ctx context.Context, apiKey string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE api_clients SET last_used_at = NOW() WHERE api_key = $1`,
		apiKey,
	)
	return err
}
