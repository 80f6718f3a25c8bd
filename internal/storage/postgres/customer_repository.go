package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository создаёт PostgreSQL-реализацию CustomerRepository.
// История клиента хранится отдельной таблицей и перезаписывается целиком
// при Save, повторяя семантику in-memory реализации.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{db: store.DB()}
}

func (r *customerRepository) Create(customer domain.Customer) error {
	name := strings.TrimSpace(customer.Name)
	if name == "" {
		return domain.ErrCustomerNameRequired
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (name, display_name, version, created_at, updated_at)
		VALUES ($1,$2,0,$3,$3)
	`, domain.NormalizeName(name), name, now)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert customer: %w", err)
	}

	return nil
}

func (r *customerRepository) Get(name string) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var customer domain.Customer
	err := r.db.QueryRowContext(ctx, `
		SELECT display_name, version, created_at, updated_at
		FROM customers
		WHERE name = $1
	`, domain.NormalizeName(name)).Scan(
		&customer.Name, &customer.Version, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}

	history, err := r.loadHistory(ctx, domain.NormalizeName(name))
	if err != nil {
		return domain.Customer{}, err
	}
	customer.History = history

	return customer, nil
}

func (r *customerRepository) List() ([]domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT name, display_name, version, created_at, updated_at
		FROM customers
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	var keys []string
	for rows.Next() {
		var (
			customer domain.Customer
			key      string
		)
		if err := rows.Scan(&key, &customer.Name, &customer.Version, &customer.CreatedAt, &customer.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, customer)
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}

	for i := range customers {
		history, err := r.loadHistory(ctx, keys[i])
		if err != nil {
			return nil, err
		}
		customers[i].History = history
	}

	return customers, nil
}

func (r *customerRepository) Save(customer domain.Customer) error {
	name := strings.TrimSpace(customer.Name)
	if name == "" {
		return domain.ErrCustomerNameRequired
	}
	key := domain.NormalizeName(name)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save customer tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var res sql.Result
	res, err = tx.ExecContext(ctx, `
		UPDATE customers
		SET display_name = $2,
		    version = version + 1,
		    updated_at = $3
		WHERE name = $1 AND version = $4
	`, key, name, time.Now().UTC(), customer.Version)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}

	var affected int64
	affected, err = res.RowsAffected()
	if err != nil {
		return fmt.Errorf("customer rows affected: %w", err)
	}
	if affected == 0 {
		var exists bool
		if scanErr := tx.QueryRowContext(ctx, `
			SELECT TRUE FROM customers WHERE name = $1
		`, key).Scan(&exists); scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				err = domain.ErrCustomerNotFound
				return err
			}
			err = fmt.Errorf("check customer exists: %w", scanErr)
			return err
		}
		err = domain.ErrVersionConflict
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM customer_history WHERE customer_name = $1`, key); err != nil {
		return fmt.Errorf("clear customer history: %w", err)
	}

	for _, entry := range customer.History {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO customer_history (
				customer_name, sale_id, product_name, qty, total_minor, kind, recorded_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
			key, entry.SaleID, entry.ProductName, entry.Qty,
			entry.TotalMinor, string(entry.Kind), entry.RecordedAt,
		); err != nil {
			return fmt.Errorf("insert history entry: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save customer: %w", err)
	}

	return nil
}

func (r *customerRepository) loadHistory(ctx context.Context, key string) ([]domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sale_id, product_name, qty, total_minor, kind, recorded_at
		FROM customer_history
		WHERE customer_name = $1
		ORDER BY id
	`, key)
	if err != nil {
		return nil, fmt.Errorf("load customer history: %w", err)
	}
	defer rows.Close()

	var history []domain.HistoryEntry
	for rows.Next() {
		var (
			entry domain.HistoryEntry
			kind  string
		)
		if err := rows.Scan(&entry.SaleID, &entry.ProductName, &entry.Qty, &entry.TotalMinor, &kind, &entry.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entry.Kind = domain.SaleKind(kind)
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer history: %w", err)
	}

	return history, nil
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
