package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
// Последовательные коды товаров назначает BIGSERIAL.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Create(product domain.Product) (domain.Product, error) {
	if errs := product.ValidateInvariants(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.Version = 0

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (
			name, name_normalized, quantity, price_minor, low_stock_threshold,
			version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING code
	`,
		product.Name, domain.NormalizeName(product.Name), product.Quantity,
		product.PriceMinor, product.LowStockThreshold,
		product.Version, product.CreatedAt, product.UpdatedAt,
	).Scan(&product.Code)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Product{}, domain.ErrAlreadyExists
		}
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return product, nil
}

func (r *productRepository) Get(code int64) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT code, name, quantity, price_minor, low_stock_threshold, version, created_at, updated_at
		FROM products
		WHERE code = $1
	`, code))
}

func (r *productRepository) GetByName(name string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT code, name, quantity, price_minor, low_stock_threshold, version, created_at, updated_at
		FROM products
		WHERE name_normalized = $1
	`, domain.NormalizeName(name)))
}

func (r *productRepository) List() ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT code, name, quantity, price_minor, low_stock_threshold, version, created_at, updated_at
		FROM products
		ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.Code, &product.Name, &product.Quantity, &product.PriceMinor,
			&product.LowStockThreshold, &product.Version, &product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (r *productRepository) Save(product domain.Product) error {
	if errs := product.ValidateInvariants(); len(errs) > 0 {
		return errs[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2,
		    name_normalized = $3,
		    quantity = $4,
		    price_minor = $5,
		    low_stock_threshold = $6,
		    version = version + 1,
		    updated_at = $7
		WHERE code = $1 AND version = $8
	`,
		product.Code, product.Name, domain.NormalizeName(product.Name),
		product.Quantity, product.PriceMinor, product.LowStockThreshold,
		time.Now().UTC(), product.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("update product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("product rows affected: %w", err)
	}
	if affected == 0 {
		// Либо товара нет, либо версия устарела.
		if _, getErr := r.Get(product.Code); getErr != nil {
			return getErr
		}
		return domain.ErrVersionConflict
	}

	return nil
}

func (r *productRepository) Remove(code int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("product rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *productRepository) scanOne(row *sql.Row) (domain.Product, error) {
	var product domain.Product
	err := row.Scan(
		&product.Code, &product.Name, &product.Quantity, &product.PriceMinor,
		&product.LowStockThreshold, &product.Version, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	return product, nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
