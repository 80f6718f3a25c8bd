package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

// Service проверяет учётные данные пользователей кассы.
type Service struct {
	users  domain.UserRepository
	logger *log.Entry
}

// NewService создаёт сервис аутентификации.
func NewService(users domain.UserRepository) *Service {
	return &Service{
		users:  users,
		logger: log.WithField("component", "auth-service"),
	}
}

// Register создаёт пользователя с указанной ролью.
func (s *Service) Register(username, password string, role domain.Role) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, domain.ErrUsernameRequired
	}
	if password == "" {
		return domain.User{}, domain.ErrPasswordRequired
	}
	if !role.Valid() {
		return domain.User{}, domain.ErrRoleInvalid
	}

	user := domain.User{
		Username:       username,
		PasswordDigest: hashPassword(password),
		Role:           role,
	}
	if err := s.users.Create(user); err != nil {
		return domain.User{}, err
	}

	s.logger.WithFields(log.Fields{
		"username": username,
		"role":     role,
	}).Info("user registered")

	return s.users.Get(username)
}

// Login проверяет пару логин/пароль и возвращает пользователя.
// Неизвестное имя и неверный пароль дают один и тот же ErrInvalidCredentials.
func (s *Service) Login(username, password string) (domain.User, error) {
	user, err := s.users.Get(username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	digest := hashPassword(password)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(user.PasswordDigest)) != 1 {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	return user, nil
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
