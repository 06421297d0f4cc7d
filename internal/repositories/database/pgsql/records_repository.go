package pgsql

import (
	"context"
	"fmt"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/models"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/utils/mapping"
)

// ListExpenses retrieves all actual-cost entries of a project.
func (r *PgxProjectDataProvider) ListExpenses(ctx context.Context, projectID string) ([]domain.Expense, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT expense_id, project_id, phase_id, contract_id, cost_code, description,
		       amount, currency_code, tax_rate, expense_date
		FROM expenses
		WHERE project_id = $1
		ORDER BY expense_date`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		var m models.Expense
		if err := rows.Scan(&m.ExpenseID, &m.ProjectID, &m.PhaseID, &m.ContractID,
			&m.CostCode, &m.Description, &m.Amount, &m.CurrencyCode, &m.TaxRate, &m.Date); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, mapping.ToDomainExpense(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating expenses: %w", err)
	}
	return expenses, nil
}

// ListClientInvoices retrieves all client invoices of a project.
func (r *PgxProjectDataProvider) ListClientInvoices(ctx context.Context, projectID string) ([]domain.ClientInvoice, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT invoice_id, project_id, number, amount, currency_code, due_date,
		       status, collected_amount
		FROM client_invoices
		WHERE project_id = $1
		ORDER BY due_date`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query client invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.ClientInvoice
	for rows.Next() {
		var m models.ClientInvoice
		if err := rows.Scan(&m.InvoiceID, &m.ProjectID, &m.Number, &m.Amount,
			&m.CurrencyCode, &m.DueDate, &m.Status, &m.CollectedAmount); err != nil {
			return nil, fmt.Errorf("failed to scan client invoice: %w", err)
		}
		invoices = append(invoices, mapping.ToDomainClientInvoice(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating client invoices: %w", err)
	}
	return invoices, nil
}

// ListContractorPayments retrieves all contractor payments of a project.
func (r *PgxProjectDataProvider) ListContractorPayments(ctx context.Context, projectID string) ([]domain.ContractorPayment, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT payment_id, project_id, contractor_name, amount, currency_code,
		       retention, paid_on
		FROM contractor_payments
		WHERE project_id = $1
		ORDER BY paid_on`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query contractor payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.ContractorPayment
	for rows.Next() {
		var m models.ContractorPayment
		if err := rows.Scan(&m.PaymentID, &m.ProjectID, &m.ContractorName, &m.Amount,
			&m.CurrencyCode, &m.Retention, &m.PaidOn); err != nil {
			return nil, fmt.Errorf("failed to scan contractor payment: %w", err)
		}
		payments = append(payments, mapping.ToDomainContractorPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating contractor payments: %w", err)
	}
	return payments, nil
}

// ListDailyReports retrieves all daily site reports of a project.
func (r *PgxProjectDataProvider) ListDailyReports(ctx context.Context, projectID string) ([]domain.DailyReport, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT report_id, project_id, report_date, actual_percent, labor_hours
		FROM daily_reports
		WHERE project_id = $1
		ORDER BY report_date`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.DailyReport
	for rows.Next() {
		var m models.DailyReport
		if err := rows.Scan(&m.ReportID, &m.ProjectID, &m.Date, &m.ActualPercent, &m.LaborHours); err != nil {
			return nil, fmt.Errorf("failed to scan daily report: %w", err)
		}
		reports = append(reports, mapping.ToDomainDailyReport(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating daily reports: %w", err)
	}
	return reports, nil
}
