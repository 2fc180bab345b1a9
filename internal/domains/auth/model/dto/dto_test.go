package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"smashroom/infras/jwt"
	"smashroom/internal/domains/auth/model/dto"
	"smashroom/shared/constant"
	"smashroom/shared/timezone"
)

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:      "test-access-token",
		RefreshToken:     "test-refresh-token",
		ExpiresIn:        3600,
		RefreshExpiresIn: 604800,
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, int64(3600), response.ExpiresIn)
	assert.Equal(t, int64(604800), response.RefreshExpiresIn)
}

func TestRefreshTokenResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
	}

	var response dto.RefreshTokenResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
}

func TestRegisterRequest_ToUserModel(t *testing.T) {
	name := "Front Desk"
	req := dto.RegisterRequest{Email: " Desk@SmashRoom.pl ", Role: constant.RoleStaff, FullName: &name}
	now := timezone.Now()

	user := req.ToUserModel(4, "hashed", now, "1")

	assert.Equal(t, int64(4), user.ID)
	assert.Equal(t, "desk@smashroom.pl", user.Email)
	assert.Equal(t, "hashed", user.Password)
	assert.Equal(t, constant.RoleStaff, user.Role)
	assert.True(t, user.Active)
	assert.Equal(t, "1", user.CreatedBy)
	assert.Equal(t, now, user.CreatedAt)
}
