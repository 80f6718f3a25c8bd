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

type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository создаёт PostgreSQL-реализацию EmployeeRepository.
func NewEmployeeRepository(store *Store) domain.EmployeeRepository {
	return &employeeRepository{db: store.DB()}
}

func (r *employeeRepository) Create(employee domain.Employee) error {
	name := strings.TrimSpace(employee.Name)
	if name == "" {
		return domain.ErrEmployeeNameRequired
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (name, display_name, created_at)
		VALUES ($1,$2,$3)
	`, domain.NormalizeName(name), name, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert employee: %w", err)
	}

	return nil
}

func (r *employeeRepository) Get(name string) (domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var employee domain.Employee
	err := r.db.QueryRowContext(ctx, `
		SELECT display_name, created_at
		FROM employees
		WHERE name = $1
	`, domain.NormalizeName(name)).Scan(&employee.Name, &employee.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Employee{}, domain.ErrEmployeeNotFound
		}
		return domain.Employee{}, fmt.Errorf("select employee: %w", err)
	}

	return employee, nil
}

func (r *employeeRepository) List() ([]domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT display_name, created_at
		FROM employees
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(&employee.Name, &employee.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}

	return employees, nil
}

func (r *employeeRepository) Remove(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE name = $1`, domain.NormalizeName(name))
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("employee rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrEmployeeNotFound
	}

	return nil
}

type supplierRepository struct {
	db *sql.DB
}

// NewSupplierRepository создаёт PostgreSQL-реализацию SupplierRepository.
func NewSupplierRepository(store *Store) domain.SupplierRepository {
	return &supplierRepository{db: store.DB()}
}

func (r *supplierRepository) Create(supplier domain.Supplier) error {
	name := strings.TrimSpace(supplier.Name)
	if name == "" {
		return domain.ErrSupplierNameRequired
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO suppliers (name, display_name, contact, created_at)
		VALUES ($1,$2,$3,$4)
	`, domain.NormalizeName(name), name, supplier.Contact, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert supplier: %w", err)
	}

	return nil
}

func (r *supplierRepository) Get(name string) (domain.Supplier, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var supplier domain.Supplier
	err := r.db.QueryRowContext(ctx, `
		SELECT display_name, contact, created_at
		FROM suppliers
		WHERE name = $1
	`, domain.NormalizeName(name)).Scan(&supplier.Name, &supplier.Contact, &supplier.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Supplier{}, domain.ErrSupplierNotFound
		}
		return domain.Supplier{}, fmt.Errorf("select supplier: %w", err)
	}

	return supplier, nil
}

func (r *supplierRepository) List() ([]domain.Supplier, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT display_name, contact, created_at
		FROM suppliers
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []domain.Supplier
	for rows.Next() {
		var supplier domain.Supplier
		if err := rows.Scan(&supplier.Name, &supplier.Contact, &supplier.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suppliers: %w", err)
	}

	return suppliers, nil
}

func (r *supplierRepository) Remove(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE name = $1`, domain.NormalizeName(name))
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("supplier rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrSupplierNotFound
	}

	return nil
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository создаёт PostgreSQL-реализацию UserRepository.
func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepository{db: store.DB()}
}

func (r *userRepository) Create(user domain.User) error {
	username := strings.TrimSpace(user.Username)
	if username == "" {
		return domain.ErrUsernameRequired
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, password_digest, role, created_at)
		VALUES ($1,$2,$3,$4)
	`, strings.ToLower(username), user.PasswordDigest, string(user.Role), time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *userRepository) Get(username string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		user domain.User
		role string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT username, password_digest, role, created_at
		FROM users
		WHERE username = $1
	`, strings.ToLower(strings.TrimSpace(username))).Scan(
		&user.Username, &user.PasswordDigest, &role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	user.Role = domain.Role(role)

	return user, nil
}

var _ domain.EmployeeRepository = (*employeeRepository)(nil)
var _ domain.SupplierRepository = (*supplierRepository)(nil)
var _ domain.UserRepository = (*userRepository)(nil)
