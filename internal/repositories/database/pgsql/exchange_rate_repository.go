package pgsql

import (
	"context"
	"fmt"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/models"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/utils/mapping"
)

// ListExchangeRates retrieves every known exchange rate. Deduplication of
// pairs (latest effective date wins) is the rate cache's concern, so all
// rows are returned as-is.
func (r *PgxProjectDataProvider) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT from_currency_code, to_currency_code, rate, date_effective
		FROM exchange_rates
		ORDER BY date_effective`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.ExchangeRate
	for rows.Next() {
		var m models.ExchangeRate
		if err := rows.Scan(&m.FromCurrencyCode, &m.ToCurrencyCode, &m.Rate, &m.DateEffective); err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate: %w", err)
		}
		rates = append(rates, mapping.ToDomainExchangeRate(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating exchange rates: %w", err)
	}
	return rates, nil
}
