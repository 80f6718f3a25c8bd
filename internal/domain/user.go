package domain

import "time"

// Role ограничивает права пользователя системы.
type Role string

const (
	RoleClerk   Role = "clerk"
	RoleManager Role = "manager"
)

// Valid проверяет, что роль относится к поддерживаемым значениям.
func (r Role) Valid() bool {
	return r == RoleClerk || r == RoleManager
}

// User хранит учётные данные для входа. Пароль никогда не хранится открытым
// текстом: в PasswordDigest лежит hex от sha256.
type User struct {
	Username       string
	PasswordDigest string
	Role           Role
	CreatedAt      time.Time
}
