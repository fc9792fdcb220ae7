package port

import (
	"github.com/MikeRez0/yppaymentgate/internal/core/domain"
	"github.com/google/uuid"
)

type TokenPayload struct {
	UserID uuid.UUID
}

//go:generate mockgen -source=auth.go -destination=mock/auth.go -package=mock
type TokenService interface {
	CreateToken(user *domain.User) (string, error)
	VerifyToken(token string) (*TokenPayload, error)
}
