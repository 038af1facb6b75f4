package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dvi/internal/common"
	"github.com/dmitrijs2005/dvi/internal/server/auth"
	"github.com/dmitrijs2005/dvi/internal/server/config"
	"github.com/dmitrijs2005/dvi/internal/server/models"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/repomanager"
)

type AuthService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Login checks the mechanic's PIN and issues an access token. Unknown
// mechanics and wrong PINs are both reported as common.ErrorUnauthorized.
func (s *AuthService) Login(ctx context.Context, mechanicID int64, pin []byte) (string, error) {
	defer common.WipeByteArray(pin)

	m, err := s.repomanager.Mechanics(s.db).GetByID(ctx, mechanicID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error looking up mechanic: %w", err)
	}

	if err := auth.CheckPIN(m.PINHash, pin); err != nil {
		return "", err
	}

	token, err := auth.GenerateToken(m.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}

// VerifyToken returns the mechanic id carried by a valid access token.
func (s *AuthService) VerifyToken(token string) (int64, error) {
	return auth.GetMechanicIDFromToken(token, s.jwtSecret)
}

// RegisterMechanic stores a new mechanic with a bcrypt hash of pin and
// returns it with the assigned id. companyID may be zero.
func (s *AuthService) RegisterMechanic(ctx context.Context, name string, companyID int64, pin []byte) (*models.Mechanic, error) {
	defer common.WipeByteArray(pin)

	if name == "" || len(pin) == 0 {
		return nil, fmt.Errorf("%w: name and pin are required", common.ErrorValidation)
	}
	if companyID < 0 {
		return nil, fmt.Errorf("%w: company id must not be negative", common.ErrorValidation)
	}

	hash, err := auth.HashPIN(pin)
	if err != nil {
		return nil, fmt.Errorf("error hashing pin: %w", err)
	}

	m, err := s.repomanager.Mechanics(s.db).Create(ctx, &models.Mechanic{Name: name, PINHash: hash, CompanyID: companyID})
	if err != nil {
		return nil, fmt.Errorf("error creating mechanic: %w", err)
	}
	return m, nil
}
