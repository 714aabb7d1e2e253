package businessflow

import (
	"context"

	"github.com/quillhq/inkwell/models"
	"github.com/quillhq/inkwell/repository"
	"github.com/quillhq/inkwell/utils"
)

// CreateSession records a new active session for an account. The access token
// doubles as the session token so a revoked session invalidates the token.
func CreateSession(ctx context.Context, sessionRepo repository.AccountSessionRepository, accountID uint, accessToken, refreshToken string, metadata *ClientMetadata) (*models.AccountSession, error) {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	session := &models.AccountSession{
		AccountID:      accountID,
		SessionToken:   accessToken,
		RefreshToken:   &refreshToken,
		IPAddress:      &ipAddress,
		UserAgent:      &userAgent,
		IsActive:       utils.ToPtr(true),
		LastAccessedAt: utils.UTCNow(),
		ExpiresAt:      utils.UTCNowAdd(utils.SessionTimeout),
	}

	if err := sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// LogAuditEvent writes one audit log row, pulling the request ID from context
// when present. Callers ignore the returned error: a failed audit write never
// fails the operation it describes.
func LogAuditEvent(ctx context.Context, auditRepo repository.AuditLogRepository, account *models.Account, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	var accountID *uint
	if account != nil {
		accountID = &account.ID
	}

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		AccountID:    accountID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errMsg,
	}

	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		requestIDStr, ok := requestID.(string)
		if ok {
			audit.RequestID = &requestIDStr
		}
	}

	return auditRepo.Save(ctx, audit)
}
