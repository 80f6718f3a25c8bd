package domain

import "time"

// ProductRepository описывает требования к хранилищу каталога.
type ProductRepository interface {
	// Create сохраняет новый товар и назначает ему следующий последовательный код.
	Create(product Product) (Product, error)
	// Get возвращает товар по коду или ErrProductNotFound, если его нет.
	Get(code int64) (Product, error)
	// GetByName ищет товар по имени без учёта регистра.
	GetByName(name string) (Product, error)
	// List возвращает каталог, отсортированный по коду.
	List() ([]Product, error)
	// Save применяет обновления к товару с учётом optimistic locking.
	Save(product Product) error
	// Remove удаляет товар из каталога (явное удаление оператором).
	Remove(code int64) error
}

// EmployeeRepository описывает хранилище сотрудников.
type EmployeeRepository interface {
	Create(employee Employee) error
	// Get ищет сотрудника по имени без учёта регистра.
	Get(name string) (Employee, error)
	List() ([]Employee, error)
	Remove(name string) error
}

// CustomerRepository описывает хранилище клиентов и их истории.
type CustomerRepository interface {
	Create(customer Customer) error
	// Get ищет клиента по имени без учёта регистра.
	Get(name string) (Customer, error)
	List() ([]Customer, error)
	// Save перезаписывает клиента вместе с историей с учётом optimistic locking.
	Save(customer Customer) error
}

// SupplierRepository описывает хранилище поставщиков.
type SupplierRepository interface {
	Create(supplier Supplier) error
	Get(name string) (Supplier, error)
	List() ([]Supplier, error)
	Remove(name string) error
}

// LedgerRepository хранит журнал продаж. Журнал append-only.
type LedgerRepository interface {
	// Append добавляет неизменяемую запись продажи.
	Append(record SaleRecord) error
	// List возвращает журнал в хронологическом порядке.
	List() ([]SaleRecord, error)
	// ListBetween возвращает записи с SoldAt в полуинтервале [from, to).
	ListBetween(from, to time.Time) ([]SaleRecord, error)
}

// UserRepository хранит учётные данные пользователей.
type UserRepository interface {
	Create(user User) error
	Get(username string) (User, error)
}
