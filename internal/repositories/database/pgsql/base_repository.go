// Package pgsql implements the ProjectDataProvider port on PostgreSQL via
// pgx. The provider is read-only: mutations belong to the CRUD services that
// feed the store, and any mutation there requires a full snapshot reload.
package pgsql

import (
	portsrepo "github.com/JawdatSaleh/ContractorPro-sub000/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides the shared connection pool.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// PgxProjectDataProvider implements ports.ProjectDataProvider using pgxpool.
// Its query methods are spread across the files of this package by entity.
type PgxProjectDataProvider struct {
	BaseRepository
}

// NewPgxProjectDataProvider creates a provider over the given pool.
func NewPgxProjectDataProvider(pool *pgxpool.Pool) *PgxProjectDataProvider {
	return &PgxProjectDataProvider{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProjectDataProvider = (*PgxProjectDataProvider)(nil)
