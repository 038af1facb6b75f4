// Package services contains the application services behind the CLI
// commands: mechanic session handling, work order lookup and inspection
// submission.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/dvi/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dvi/internal/common"
	"github.com/dmitrijs2005/dvi/internal/dbx"
)

var ErrNotLoggedIn = errors.New("not logged in")

// AuthAPI is the login call of the backend client.
type AuthAPI interface {
	Login(ctx context.Context, mechanicID int64, pin string) (string, error)
}

// AuthService keeps the mechanic session on the device. The token survives
// restarts so queued inspections can be delivered without a new login.
type AuthService struct {
	api AuthAPI
	db  *sql.DB
}

func NewAuthService(api AuthAPI, db *sql.DB) *AuthService {
	return &AuthService{api: api, db: db}
}

// Login authenticates against the backend and stores the session. pin is
// wiped before returning.
func (a *AuthService) Login(ctx context.Context, mechanicID int64, pin []byte) error {
	defer common.WipeByteArray(pin)

	token, err := a.api.Login(ctx, mechanicID, string(pin))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, metadata.KeyAccessToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.KeyMechanicID, []byte(strconv.FormatInt(mechanicID, 10)))
	})
}

// Logout forgets the session and the cached work orders. Queued inspections
// are kept.
func (a *AuthService) Logout(ctx context.Context) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, metadata.KeyAccessToken); err != nil {
			return err
		}
		if err := repo.Delete(ctx, metadata.KeyMechanicID); err != nil {
			return err
		}
		return repo.DeletePrefix(ctx, metadata.PrefixWorkOrders)
	})
}

func (a *AuthService) Token(ctx context.Context) (string, error) {
	v, err := metadata.NewSQLiteRepository(a.db).Get(ctx, metadata.KeyAccessToken)
	if err != nil {
		return "", err
	}
	if len(v) == 0 {
		return "", ErrNotLoggedIn
	}
	return string(v), nil
}

func (a *AuthService) MechanicID(ctx context.Context) (int64, error) {
	v, err := metadata.NewSQLiteRepository(a.db).Get(ctx, metadata.KeyMechanicID)
	if err != nil {
		return 0, err
	}
	if len(v) == 0 {
		return 0, ErrNotLoggedIn
	}
	id, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("stored mechanic id %q: %w", v, err)
	}
	return id, nil
}
