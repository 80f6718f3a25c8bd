package domain

import "errors"

var (
	// Ошибка пустого имени товара при регистрации.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отрицательного остатка товара.
	ErrQuantityNegative = errors.New("product quantity must be non-negative")
	// Ошибка при некорректном количестве в продаже (<= 0).
	ErrQuantityInvalid = errors.New("sale qty must be greater than zero")
	// Ошибка отрицательной цены.
	ErrPriceInvalid = errors.New("price must be non-negative")
	// Ошибка несоответствия суммы продажи и qty * price.
	ErrTotalMismatch = errors.New("sale total does not match qty * price")
	// Ошибка неподдерживаемого вида продажи.
	ErrSaleKindInvalid = errors.New("unsupported sale kind")
	// Ошибка отсутствующего сотрудника в продаже.
	ErrClerkRequired = errors.New("clerk is required")
	// Ошибка пустого имени сотрудника.
	ErrEmployeeNameRequired = errors.New("employee name is required")
	// Ошибка пустого имени клиента.
	ErrCustomerNameRequired = errors.New("customer name is required")
	// Ошибка пустого имени поставщика.
	ErrSupplierNameRequired = errors.New("supplier name is required")
	// ErrCustomerRequired возвращается для продажи в долг без клиента.
	ErrCustomerRequired = errors.New("reserved sale requires a customer")
	// ErrInsufficientStock — запрошенное количество превышает остаток.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrProductNotFound возвращается, если товар не найден в хранилище.
	ErrProductNotFound = errors.New("product not found")
	// ErrEmployeeNotFound возвращается, если сотрудник не найден.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrCustomerNotFound возвращается, если клиент не найден.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrSupplierNotFound возвращается, если поставщик не найден.
	ErrSupplierNotFound = errors.New("supplier not found")
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")

	// ErrAlreadyExists сигнализирует о попытке создать запись с занятым ключом.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrVersionConflict = errors.New("version conflict")

	// Ошибки учётных данных.
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrRoleInvalid        = errors.New("unsupported role")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")

	// Ошибки идемпотентной обработки запросов.
	ErrIdempotencyKeyRequired         = errors.New("idempotency key is required")
	ErrIdempotencyRequestHashRequired = errors.New("idempotency request hash is required")
	ErrIdempotencyKeyAlreadyExists    = errors.New("idempotency key already exists")
	ErrIdempotencyKeyNotFound         = errors.New("idempotency key not found")
	ErrIdempotencyHashMismatch        = errors.New("idempotency request hash mismatch")
)

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

// IsNotFound проверяет, относится ли ошибка к семейству "не найдено".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrSupplierNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
