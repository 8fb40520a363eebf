// internal/services/auth_service.go
package services

import (
	"fmt"

	"github.com/isows-india/worklicense-backend/internal/config"
	"github.com/isows-india/worklicense-backend/internal/models"
	"github.com/isows-india/worklicense-backend/internal/utils"
)

// AuthService resolves bearer tokens into identities. Accounts live with the
// identity provider; this service only checks signatures.
type AuthService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	utils.SetJWTIssuer(cfg.JWT.Issuer)
	return &AuthService{cfg: cfg}
}

func (s *AuthService) Resolve(token string) (*models.Identity, error) {
	claims, err := utils.ValidateJWT(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	return &models.Identity{
		ID:          claims.UserID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}, nil
}

// IssueToken mints an access token for identity, for development and tests.
func (s *AuthService) IssueToken(identity models.Identity) (string, error) {
	if identity.ID == "" {
		return "", newValidationError("id", "user id is required")
	}
	return utils.GenerateJWT(identity.ID, identity.Email, identity.DisplayName, s.cfg.JWT.AccessTokenTTL)
}
