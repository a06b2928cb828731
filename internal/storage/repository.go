package storage

import (
	"context"

	"github.com/swipehire/interview-engine/internal/models"
)

// Repository defines the interface for roster and API-client persistence
type Repository interface {
	// Candidate roster (finalized interviews)
	CreateRecord(ctx context.Context, rec *models.CandidateRecord) error
	GetRecord(ctx context.Context, id string) (*models.CandidateRecord, error)
	ListRecords(ctx context.Context, filters models.RosterFilters) ([]*models.CandidateRecord, error)
	DeleteRecord(ctx context.Context, id string) error

	// API Clients
	GetClientByApiKey(ctx context.Context, apiKey string) (*models.ApiClient, error)
	UpdateClientLastUsed(ctx context.Context, apiKey string) error

	// Health
	Ping(ctx context.Context) error
	Close() error
}
