package controllers

import (
	"context"
	"dashboard/src/api/auth"
	"dashboard/src/schemas"
	"dashboard/src/utils"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const invalidCredentials = "invalid username or password"

// PostToken checks the password against the stored bcrypt hash and returns a
// signed access token.
func (c *Controller) PostToken(ctx context.Context, username, password string) (*schemas.TokenResponse, error) {
	user, err := c.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.Unauthorized(invalidCredentials)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, utils.Unauthorized(invalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, utils.Unauthorized(invalidCredentials)
	}

	token, err := c.Tokens.Issue(auth.Claims{
		UserID:   user.ID,
		Username: user.Username,
		IsStaff:  user.IsStaff,
	})
	if err != nil {
		return nil, err
	}

	return &schemas.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(c.Tokens.TTL().Seconds()),
		UserName:    user.Username,
		UserID:      user.ID,
		IsStaff:     user.IsStaff,
	}, nil
}
