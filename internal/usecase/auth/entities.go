package auth

import (
	"time"

	"incorporation-portal/internal/domain/session"
	"incorporation-portal/internal/domain/user"
)

type RegisterInput struct {
	Name            string `json:"name" validate:"required,max=255"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"omitempty,phone"`
	Company         string `json:"company" validate:"max=255"`
	Password        string `json:"password" validate:"required,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserDTO struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Role      user.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Result is returned by register and login. Redirect is the dashboard the
// client should open next.
type Result struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Session   session.Session `json:"session"`
	User      UserDTO         `json:"user"`
	Redirect  string          `json:"redirect"`
}

func toDTO(u *user.User) UserDTO {
	return UserDTO{
		UID:       u.UID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Company:   u.Company,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
