package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/quillhq/inkwell/app/dto"
	"github.com/quillhq/inkwell/app/services"
	"github.com/quillhq/inkwell/models"
	"github.com/quillhq/inkwell/repository"
	"github.com/quillhq/inkwell/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginFlow handles authentication and session lifecycle operations
type LoginFlow interface {
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.RefreshTokenResponse, error)
	Logout(ctx context.Context, accountID uint, accessToken string, metadata *ClientMetadata) error
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	accountRepo  repository.AccountRepository
	sessionRepo  repository.AccountSessionRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(
	accountRepo repository.AccountRepository,
	sessionRepo repository.AccountSessionRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	db *gorm.DB,
) LoginFlow {
	return &LoginFlowImpl{
		accountRepo:  accountRepo,
		sessionRepo:  sessionRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
		db:           db,
	}
}

// Login authenticates an account with username/email and password
func (lf *LoginFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	if err := lf.validateLoginRequest(request); err != nil {
		return nil, NewBusinessError("LOGIN_VALIDATION_FAILED", "Login validation failed", err)
	}

	var account *models.Account

	resp, err := lf.WithLoginTransaction(ctx, func(ctx context.Context) (*dto.LoginResponse, error) {
		var err error
		account, err = lf.FindAccountByIdentifier(ctx, request.Identifier)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, ErrAccountNotFound
		}

		if !utils.IsTrue(account.IsActive) {
			return nil, ErrAccountInactive
		}

		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(request.Password)); err != nil {
			return nil, ErrIncorrectPassword
		}

		accessToken, refreshToken, err := lf.tokenService.GenerateTokens(account.ID)
		if err != nil {
			return nil, err
		}

		session, err := CreateSession(ctx, lf.sessionRepo, account.ID, accessToken, refreshToken, metadata)
		if err != nil {
			return nil, err
		}

		if err := lf.accountRepo.UpdateLastLogin(ctx, account.ID); err != nil {
			return nil, err
		}

		return &dto.LoginResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresAt:    session.ExpiresAt,
			Account:      ToAccountDTO(*account),
		}, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Login failed: %s", err.Error())
		_ = LogAuditEvent(ctx, lf.auditRepo, account, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	msg := fmt.Sprintf("Account logged in successfully: %d", resp.Account.ID)
	_ = LogAuditEvent(ctx, lf.auditRepo, account, models.AuditActionLoginSuccess, msg, true, nil, metadata)

	return resp, nil
}

// RefreshToken rotates a token pair. The session bound to the old refresh
// token is expired and a new session is created for the new pair.
func (lf *LoginFlowImpl) RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.RefreshTokenResponse, error) {
	var account *models.Account

	resp, err := lf.WithRefreshTransaction(ctx, func(ctx context.Context) (*dto.RefreshTokenResponse, error) {
		session, err := lf.sessionRepo.ByRefreshToken(ctx, request.RefreshToken)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, ErrInvalidRefreshToken
		}
		if !session.IsValid() {
			return nil, ErrSessionExpired
		}

		account, err = lf.accountRepo.ByID(ctx, session.AccountID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, ErrAccountNotFound
		}
		if !utils.IsTrue(account.IsActive) {
			return nil, ErrAccountInactive
		}

		newAccessToken, newRefreshToken, err := lf.tokenService.RefreshToken(request.RefreshToken)
		if err != nil {
			return nil, ErrInvalidRefreshToken
		}

		if err := lf.sessionRepo.ExpireSession(ctx, session.ID); err != nil {
			return nil, err
		}

		newSession, err := CreateSession(ctx, lf.sessionRepo, account.ID, newAccessToken, newRefreshToken, metadata)
		if err != nil {
			return nil, err
		}

		return &dto.RefreshTokenResponse{
			AccessToken:  newAccessToken,
			RefreshToken: newRefreshToken,
			TokenType:    "Bearer",
			ExpiresAt:    newSession.ExpiresAt,
		}, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Token refresh failed: %s", err.Error())
		_ = LogAuditEvent(ctx, lf.auditRepo, account, models.AuditActionTokenRefreshed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", err)
	}

	_ = LogAuditEvent(ctx, lf.auditRepo, account, models.AuditActionTokenRefreshed, "Token refreshed successfully", true, nil, metadata)

	return resp, nil
}

// Logout revokes the access token and expires every active session of the account
func (lf *LoginFlowImpl) Logout(ctx context.Context, accountID uint, accessToken string, metadata *ClientMetadata) error {
	account, err := lf.accountRepo.ByID(ctx, accountID)
	if err != nil {
		return NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}
	if account == nil {
		return NewBusinessError("LOGOUT_FAILED", "Logout failed", ErrAccountNotFound)
	}

	if err := lf.tokenService.RevokeToken(accessToken); err != nil {
		return NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}

	if err := lf.sessionRepo.ExpireAllAccountSessions(ctx, accountID); err != nil {
		return NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}

	msg := fmt.Sprintf("Account logged out: %d", accountID)
	_ = LogAuditEvent(ctx, lf.auditRepo, account, models.AuditActionLogout, msg, true, nil, metadata)

	return nil
}

// FindAccountByIdentifier resolves a login identifier as email when it
// contains "@", username otherwise.
func (lf *LoginFlowImpl) FindAccountByIdentifier(ctx context.Context, identifier string) (*models.Account, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return lf.accountRepo.ByEmail(ctx, strings.ToLower(identifier))
	}
	return lf.accountRepo.ByUsername(ctx, identifier)
}

func (lf *LoginFlowImpl) validateLoginRequest(request *dto.LoginRequest) error {
	if strings.TrimSpace(request.Identifier) == "" {
		return ErrAccountNotFound
	}
	if request.Password == "" {
		return ErrIncorrectPassword
	}
	return nil
}

func (lf *LoginFlowImpl) WithLoginTransaction(ctx context.Context, fn func(context.Context) (*dto.LoginResponse, error)) (*dto.LoginResponse, error) {
	var result *dto.LoginResponse
	var fnErr error

	err := repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}

func (lf *LoginFlowImpl) WithRefreshTransaction(ctx context.Context, fn func(context.Context) (*dto.RefreshTokenResponse, error)) (*dto.RefreshTokenResponse, error) {
	var result *dto.RefreshTokenResponse
	var fnErr error

	err := repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}
