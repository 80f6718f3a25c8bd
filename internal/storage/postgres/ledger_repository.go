package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

type ledgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository создаёт PostgreSQL-реализацию LedgerRepository.
func NewLedgerRepository(store *Store) domain.LedgerRepository {
	return &ledgerRepository{db: store.DB()}
}

func (r *ledgerRepository) Append(record domain.SaleRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.SoldAt.IsZero() {
		record.SoldAt = time.Now().UTC()
	}
	if errs := record.ValidateInvariants(); len(errs) > 0 {
		return errs[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sales_ledger (
			id, product_code, product_name, qty, unit_price_minor, total_minor,
			kind, clerk, customer, sold_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		record.ID, record.ProductCode, record.ProductName, record.Qty,
		record.UnitPriceMinor, record.TotalMinor, string(record.Kind),
		record.Clerk, record.Customer, record.SoldAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert sale record: %w", err)
	}

	return nil
}

func (r *ledgerRepository) List() ([]domain.SaleRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_code, product_name, qty, unit_price_minor, total_minor,
		       kind, clerk, customer, sold_at
		FROM sales_ledger
		ORDER BY sold_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list sale records: %w", err)
	}
	return scanSaleRecords(rows)
}

func (r *ledgerRepository) ListBetween(from, to time.Time) ([]domain.SaleRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_code, product_name, qty, unit_price_minor, total_minor,
		       kind, clerk, customer, sold_at
		FROM sales_ledger
		WHERE sold_at >= $1 AND sold_at < $2
		ORDER BY sold_at, id
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list sale records between: %w", err)
	}
	return scanSaleRecords(rows)
}

func scanSaleRecords(rows *sql.Rows) ([]domain.SaleRecord, error) {
	defer rows.Close()

	var records []domain.SaleRecord
	for rows.Next() {
		var (
			record domain.SaleRecord
			kind   string
		)
		if err := rows.Scan(
			&record.ID, &record.ProductCode, &record.ProductName, &record.Qty,
			&record.UnitPriceMinor, &record.TotalMinor, &kind,
			&record.Clerk, &record.Customer, &record.SoldAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale record: %w", err)
		}
		record.Kind = domain.SaleKind(kind)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale records: %w", err)
	}

	return records, nil
}

var _ domain.LedgerRepository = (*ledgerRepository)(nil)
