package domain

import "time"

// Employee — сотрудник магазина. Имя уникально без учёта регистра.
type Employee struct {
	Name      string
	CreatedAt time.Time
}

// Supplier — поставщик. Имя уникально без учёта регистра.
type Supplier struct {
	Name      string
	Contact   string
	CreatedAt time.Time
}
