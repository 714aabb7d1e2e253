package businessflow

import (
	"context"
	"fmt"

	"github.com/quillhq/inkwell/app/dto"
	"github.com/quillhq/inkwell/models"
	"github.com/quillhq/inkwell/repository"
	"github.com/quillhq/inkwell/utils"
	"gorm.io/gorm"
)

// ProfileFlow handles profile read and update operations
type ProfileFlow interface {
	GetMyProfile(ctx context.Context, accountID uint) (*dto.ProfileDTO, error)
	GetProfileByUsername(ctx context.Context, username string) (*dto.ProfileDTO, error)
	UpdateProfile(ctx context.Context, accountID uint, request *dto.UpdateProfileRequest, metadata *ClientMetadata) (*dto.ProfileDTO, error)
}

// ProfileFlowImpl implements the profile business flow
type ProfileFlowImpl struct {
	accountRepo repository.AccountRepository
	profileRepo repository.ProfileRepository
	auditRepo   repository.AuditLogRepository
	db          *gorm.DB
}

// NewProfileFlow creates a new profile flow instance
func NewProfileFlow(
	accountRepo repository.AccountRepository,
	profileRepo repository.ProfileRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) ProfileFlow {
	return &ProfileFlowImpl{
		accountRepo: accountRepo,
		profileRepo: profileRepo,
		auditRepo:   auditRepo,
		db:          db,
	}
}

// GetMyProfile returns the authenticated account's own profile
func (pf *ProfileFlowImpl) GetMyProfile(ctx context.Context, accountID uint) (*dto.ProfileDTO, error) {
	account, err := pf.accountRepo.ByID(ctx, accountID)
	if err != nil {
		return nil, NewBusinessError("GET_PROFILE_FAILED", "Failed to get profile", err)
	}
	if account == nil {
		return nil, NewBusinessError("ACCOUNT_NOT_FOUND", "Account not found", ErrAccountNotFound)
	}

	return pf.loadProfile(ctx, account)
}

// GetProfileByUsername returns the public profile of the named account
func (pf *ProfileFlowImpl) GetProfileByUsername(ctx context.Context, username string) (*dto.ProfileDTO, error) {
	account, err := pf.accountRepo.ByUsername(ctx, username)
	if err != nil {
		return nil, NewBusinessError("GET_PROFILE_FAILED", "Failed to get profile", err)
	}
	if account == nil || !utils.IsTrue(account.IsActive) {
		return nil, NewBusinessError("ACCOUNT_NOT_FOUND", "Account not found", ErrAccountNotFound)
	}

	return pf.loadProfile(ctx, account)
}

// UpdateProfile applies the non-nil fields of the request. Name fields live
// on the account row and the rest on the profile row; both writes share one
// transaction.
func (pf *ProfileFlowImpl) UpdateProfile(ctx context.Context, accountID uint, request *dto.UpdateProfileRequest, metadata *ClientMetadata) (*dto.ProfileDTO, error) {
	var account *models.Account
	var profile *models.Profile

	err := repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
		var err error
		account, err = pf.accountRepo.ByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}

		profile, err = pf.profileRepo.ByAccountID(ctx, accountID)
		if err != nil {
			return err
		}
		if profile == nil {
			return ErrProfileNotFound
		}

		if request.Bio != nil {
			profile.Bio = *request.Bio
		}
		if request.Location != nil {
			profile.Location = *request.Location
		}
		if request.Website != nil {
			profile.Website = *request.Website
		}
		if request.AvatarURL != nil {
			profile.AvatarURL = request.AvatarURL
		}
		profile.UpdatedAt = utils.UTCNow()

		if err := pf.profileRepo.Update(ctx, profile); err != nil {
			return err
		}

		if request.FirstName != nil || request.LastName != nil {
			firstName := account.FirstName
			lastName := account.LastName
			if request.FirstName != nil {
				firstName = request.FirstName
			}
			if request.LastName != nil {
				lastName = request.LastName
			}
			if err := pf.accountRepo.UpdateNames(ctx, accountID, firstName, lastName); err != nil {
				return err
			}
			account.FirstName = firstName
			account.LastName = lastName
		}

		return nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Profile update failed: %s", err.Error())
		_ = LogAuditEvent(ctx, pf.auditRepo, account, models.AuditActionProfileUpdated, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Profile update failed", err)
	}

	msg := fmt.Sprintf("Profile updated: %d", accountID)
	_ = LogAuditEvent(ctx, pf.auditRepo, account, models.AuditActionProfileUpdated, msg, true, nil, metadata)

	result := ToProfileDTO(*profile, *account)
	return &result, nil
}

func (pf *ProfileFlowImpl) loadProfile(ctx context.Context, account *models.Account) (*dto.ProfileDTO, error) {
	profile, err := pf.profileRepo.ByAccountID(ctx, account.ID)
	if err != nil {
		return nil, NewBusinessError("GET_PROFILE_FAILED", "Failed to get profile", err)
	}
	if profile == nil {
		return nil, NewBusinessError("PROFILE_NOT_FOUND", "Profile not found", ErrProfileNotFound)
	}

	result := ToProfileDTO(*profile, *account)
	return &result, nil
}
