package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/quillhq/inkwell/app/dto"
	"github.com/quillhq/inkwell/app/services"
	"github.com/quillhq/inkwell/models"
	"github.com/quillhq/inkwell/repository"
	"github.com/quillhq/inkwell/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SignupFlow handles account registration
type SignupFlow interface {
	Register(ctx context.Context, request *dto.RegisterRequest, metadata *ClientMetadata) (*dto.RegisterResponse, error)
}

// SignupFlowImpl implements the signup business flow
type SignupFlowImpl struct {
	accountRepo  repository.AccountRepository
	profileRepo  repository.ProfileRepository
	sessionRepo  repository.AccountSessionRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewSignupFlow creates a new signup flow instance
func NewSignupFlow(
	accountRepo repository.AccountRepository,
	profileRepo repository.ProfileRepository,
	sessionRepo repository.AccountSessionRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	db *gorm.DB,
) SignupFlow {
	return &SignupFlowImpl{
		accountRepo:  accountRepo,
		profileRepo:  profileRepo,
		sessionRepo:  sessionRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
		db:           db,
	}
}

// Register creates an account together with its empty profile. The two rows
// are written in one transaction so no account is ever visible without a
// profile.
func (s *SignupFlowImpl) Register(ctx context.Context, request *dto.RegisterRequest, metadata *ClientMetadata) (*dto.RegisterResponse, error) {
	if err := s.validateRegisterRequest(ctx, request); err != nil {
		return nil, NewBusinessError("REGISTRATION_VALIDATION_FAILED", "Registration validation failed", err)
	}

	var account *models.Account

	resp, err := s.WithRegisterTransaction(ctx, func(ctx context.Context) (*dto.RegisterResponse, error) {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}

		account = &models.Account{
			UUID:         uuid.New(),
			Username:     strings.TrimSpace(request.Username),
			Email:        strings.ToLower(strings.TrimSpace(request.Email)),
			FirstName:    request.FirstName,
			LastName:     request.LastName,
			PasswordHash: string(hashedPassword),
			IsActive:     utils.ToPtr(true),
		}

		if err := s.accountRepo.Save(ctx, account); err != nil {
			return nil, err
		}

		profile := &models.Profile{
			AccountID: account.ID,
		}
		if err := s.profileRepo.Save(ctx, profile); err != nil {
			return nil, err
		}

		accessToken, refreshToken, err := s.tokenService.GenerateTokens(account.ID)
		if err != nil {
			return nil, err
		}

		if _, err := CreateSession(ctx, s.sessionRepo, account.ID, accessToken, refreshToken, metadata); err != nil {
			return nil, err
		}

		return &dto.RegisterResponse{
			Message:      "Registration completed successfully",
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			Account:      ToAccountDTO(*account),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("REGISTRATION_FAILED", "Registration failed", err)
	}

	msg := fmt.Sprintf("Account registered successfully: %d", resp.Account.ID)
	_ = LogAuditEvent(ctx, s.auditRepo, account, models.AuditActionRegisterCompleted, msg, true, nil, metadata)

	return resp, nil
}

func (s *SignupFlowImpl) validateRegisterRequest(ctx context.Context, request *dto.RegisterRequest) error {
	username := strings.TrimSpace(request.Username)
	if username == "" {
		return ErrAccountNotFound
	}

	existing, err := s.accountRepo.ByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUsernameAlreadyExists
	}

	existing, err = s.accountRepo.ByEmail(ctx, strings.ToLower(strings.TrimSpace(request.Email)))
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailAlreadyExists
	}

	return nil
}

func (s *SignupFlowImpl) WithRegisterTransaction(ctx context.Context, fn func(context.Context) (*dto.RegisterResponse, error)) (*dto.RegisterResponse, error) {
	var result *dto.RegisterResponse
	var fnErr error

	err := repository.WithTransaction(ctx, s.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}
