package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/apperrors"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/models"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// GetProject retrieves a single project by id.
func (r *PgxProjectDataProvider) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	var m models.Project
	err := r.Pool.QueryRow(ctx, `
		SELECT project_id, name, currency_code, start_date, end_date, bac, vat_rate
		FROM projects
		WHERE project_id = $1`,
		projectID,
	).Scan(&m.ProjectID, &m.Name, &m.CurrencyCode, &m.StartDate, &m.EndDate, &m.BAC, &m.VATRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", projectID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query project: %w", err)
	}
	project := mapping.ToDomainProject(m)
	return &project, nil
}

// ListPhases retrieves all phases of a project in WBS order.
func (r *PgxProjectDataProvider) ListPhases(ctx context.Context, projectID string) ([]domain.Phase, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT phase_id, project_id, wbs_code, name, planned_start, planned_end,
		       planned_percent, actual_percent, bac
		FROM phases
		WHERE project_id = $1
		ORDER BY wbs_code`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query phases: %w", err)
	}
	defer rows.Close()

	var phases []domain.Phase
	for rows.Next() {
		var m models.Phase
		if err := rows.Scan(&m.PhaseID, &m.ProjectID, &m.WBSCode, &m.Name,
			&m.PlannedStart, &m.PlannedEnd, &m.PlannedPercent, &m.ActualPercent, &m.BAC); err != nil {
			return nil, fmt.Errorf("failed to scan phase: %w", err)
		}
		phases = append(phases, mapping.ToDomainPhase(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating phases: %w", err)
	}
	return phases, nil
}

// ListChangeOrders retrieves all change orders of a project in approval order.
func (r *PgxProjectDataProvider) ListChangeOrders(ctx context.Context, projectID string) ([]domain.ChangeOrder, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT change_order_id, project_id, title, amount, approved_on
		FROM change_orders
		WHERE project_id = $1
		ORDER BY approved_on`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query change orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.ChangeOrder
	for rows.Next() {
		var m models.ChangeOrder
		if err := rows.Scan(&m.ChangeOrderID, &m.ProjectID, &m.Title, &m.Amount, &m.ApprovedOn); err != nil {
			return nil, fmt.Errorf("failed to scan change order: %w", err)
		}
		orders = append(orders, mapping.ToDomainChangeOrder(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating change orders: %w", err)
	}
	return orders, nil
}
