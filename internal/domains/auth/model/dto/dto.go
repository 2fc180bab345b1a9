package dto

import (
	"strings"
	"time"

	"smashroom/infras/jwt"
	userModel "smashroom/internal/domains/user/model"
	gModel "smashroom/shared/model"
)

type RegisterRequest struct {
	Email    string  `json:"email"              validate:"required,email,max=100"`
	Password string  `json:"password"           validate:"required,min=8,max=72"`
	Role     string  `json:"role"               validate:"required,oneof=superadmin admin staff"`
	FullName *string `json:"fullName,omitempty" validate:"omitempty,max=100"`
}

func (r *RegisterRequest) ToUserModel(id int64, hashedPassword string, now time.Time, username string) userModel.User {
	return userModel.User{
		ID:       id,
		Email:    NormalizeEmail(r.Email),
		Password: hashedPassword,
		Role:     r.Role,
		FullName: r.FullName,
		Active:   true,
		Metadata: gModel.NewMetadata(now, username),
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	FullName *string `json:"fullName,omitempty"`
}

func (u *UserResponse) FromModel(user userModel.User) {
	u.ID = user.ID
	u.Email = user.Email
	u.Role = user.Role
	u.FullName = user.FullName
}

type LoginResponse struct {
	AccessToken      string       `json:"accessToken"`
	RefreshToken     string       `json:"refreshToken"`
	ExpiresIn        int64        `json:"expiresIn"`
	RefreshExpiresIn int64        `json:"refreshExpiresIn"`
	User             UserResponse `json:"user"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.ExpiresIn = tokenPair.ExpiresIn
	l.RefreshExpiresIn = tokenPair.RefreshExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int64  `json:"expiresIn"`
	RefreshExpiresIn int64  `json:"refreshExpiresIn"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.ExpiresIn = tokenPair.ExpiresIn
	r.RefreshExpiresIn = tokenPair.RefreshExpiresIn
}

// LogoutRequest holds whatever tokens the client still has. Either may be empty.
type LogoutRequest struct {
	AccessToken  string `json:"-"`
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login"`
}
