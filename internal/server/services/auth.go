// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, credential checks, and resolving
// the user behind a presented token.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fairplay-su/scdm-server/internal/common"
	"github.com/fairplay-su/scdm-server/internal/dbx"
	"github.com/fairplay-su/scdm-server/internal/logging"
	"github.com/fairplay-su/scdm-server/internal/server/auth"
	"github.com/fairplay-su/scdm-server/internal/server/config"
	"github.com/fairplay-su/scdm-server/internal/server/models"
	"github.com/fairplay-su/scdm-server/internal/server/repositories/repomanager"
)

// AuthService provides the authentication operations:
//   - Register: validate fields, create the user, mint a token
//   - Login: verify credentials and mint a token
//   - CurrentUser: resolve a presented token back to its user
type AuthService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:            db,
		repomanager:   m,
		logger:        l.With("module", "auth_service"),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

// Register creates a new user with role USER and returns it together with a
// freshly minted token. All fields are required and the faction must belong
// to the fixed set. The login uniqueness check and the insert run in one
// transaction; a constraint violation raced in by a concurrent registration
// still comes back as ErrorLoginTaken.
func (s *AuthService) Register(ctx context.Context, login, password string, faction models.Faction) (*models.User, string, error) {
	if login == "" || password == "" || faction == "" {
		return nil, "", common.ErrorValidation
	}
	if !models.ValidFaction(faction) {
		return nil, "", common.ErrorValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err.Error())
		return nil, "", common.ErrorInternal
	}

	user := &models.User{
		Login:        login,
		PasswordHash: string(hash),
		MainFaction:  faction,
		SystemRole:   models.RoleUser,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, findErr := repo.GetByLogin(ctx, login)
		if findErr == nil {
			return common.ErrorLoginTaken
		}
		if !errors.Is(findErr, common.ErrorNotFound) {
			return findErr
		}

		_, createErr := repo.Create(ctx, user)
		return createErr
	})
	if err != nil {
		if errors.Is(err, common.ErrorLoginTaken) {
			return nil, "", common.ErrorLoginTaken
		}
		s.logger.Error(ctx, "registration failed", "login", login, "error", err.Error())
		return nil, "", common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err.Error())
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// Login verifies the presented password against the stored hash and, on
// success, returns the user and a new token. An unknown login and a wrong
// password produce the same ErrorInvalidCredentials; the distinction is
// logged here and never reaches the client.
func (s *AuthService) Login(ctx context.Context, login, password string) (*models.User, string, error) {
	if login == "" || password == "" {
		return nil, "", common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "login rejected: unknown login", "login", login)
			return nil, "", common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "login lookup failed", "error", err.Error())
		return nil, "", common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Info(ctx, "login rejected: wrong password", "login", login)
		return nil, "", common.ErrorInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err.Error())
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// CurrentUser resolves a presented token to the user it is bound to. Any
// token defect and an account that no longer exists both surface as
// ErrInvalidToken so the client cannot tell them apart.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		s.logger.Error(ctx, "current user lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return user, nil
}
