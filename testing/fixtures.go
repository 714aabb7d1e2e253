package testing

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"time"

	"github.com/quillhq/inkwell/models"
	"github.com/quillhq/inkwell/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plaintext password every fixture account is created
// with, so login tests can authenticate against fixture rows.
const TestPassword = "TestPass123!"

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

func randomDigits(n int) string {
	max := big.NewInt(1)
	for i := 0; i < n; i++ {
		max.Mul(max, big.NewInt(10))
	}
	v, _ := rand.Int(rand.Reader, max)
	return fmt.Sprintf("%0*d", n, v)
}

// CreateTestAccount creates an active account with a unique username and
// email and an empty profile attached, mirroring what registration does.
func (tf *TestFixtures) CreateTestAccount() (*models.Account, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := randomDigits(9)

	account := &models.Account{
		UUID:         uuid.New(),
		Username:     fmt.Sprintf("writer%s", suffix),
		Email:        fmt.Sprintf("writer.%s@example.com", suffix),
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(account).Error; err != nil {
		return nil, fmt.Errorf("failed to create test account: %w", err)
	}

	profile := &models.Profile{AccountID: account.ID}
	if err := tf.DB.DB.Create(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create test profile: %w", err)
	}
	account.Profile = profile

	return account, nil
}

// CreateInactiveAccount creates an account flagged inactive, for tests that
// exercise the deactivated-account paths.
func (tf *TestFixtures) CreateInactiveAccount() (*models.Account, error) {
	account, err := tf.CreateTestAccount()
	if err != nil {
		return nil, err
	}
	if err := tf.DB.DB.Model(account).Update("is_active", false).Error; err != nil {
		return nil, fmt.Errorf("failed to deactivate test account: %w", err)
	}
	account.IsActive = utils.ToPtr(false)
	return account, nil
}

// CreateTestPost creates a post for the given author, published now.
func (tf *TestFixtures) CreateTestPost(authorID uint, title, content string) (*models.Post, error) {
	post := &models.Post{
		UUID:        uuid.New(),
		Title:       title,
		Content:     content,
		AuthorID:    authorID,
		PublishedAt: utils.UTCNow(),
		UpdatedAt:   utils.UTCNow(),
	}
	if err := tf.DB.DB.Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create test post: %w", err)
	}
	return post, nil
}

// CreateTestPostAt creates a post with an explicit publication time, for
// sorting and year-filter tests.
func (tf *TestFixtures) CreateTestPostAt(authorID uint, title, content string, publishedAt time.Time) (*models.Post, error) {
	post, err := tf.CreateTestPost(authorID, title, content)
	if err != nil {
		return nil, err
	}
	if err := tf.DB.DB.Model(post).Update("published_at", publishedAt).Error; err != nil {
		return nil, fmt.Errorf("failed to set publication time: %w", err)
	}
	post.PublishedAt = publishedAt
	return post, nil
}

// CreateTestTag creates a tag with a slug derived from the name.
func (tf *TestFixtures) CreateTestTag(name string) (*models.Tag, error) {
	tag := &models.Tag{
		Name: utils.NormalizeTagName(name),
		Slug: utils.Slugify(name),
	}
	if err := tf.DB.DB.Create(tag).Error; err != nil {
		return nil, fmt.Errorf("failed to create test tag: %w", err)
	}
	return tag, nil
}

// AttachTags associates the given tags with a post.
func (tf *TestFixtures) AttachTags(post *models.Post, tags ...*models.Tag) error {
	list := make([]models.Tag, 0, len(tags))
	for _, t := range tags {
		list = append(list, *t)
	}
	if err := tf.DB.DB.Model(post).Association("Tags").Append(&list); err != nil {
		return fmt.Errorf("failed to attach tags: %w", err)
	}
	return nil
}

// CreateTestComment creates a comment on a post.
func (tf *TestFixtures) CreateTestComment(postID, authorID uint, content string) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := tf.DB.DB.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create test comment: %w", err)
	}
	return comment, nil
}

// GenerateSecureToken returns a URL-safe random token of the given byte length.
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// CreateTestSession creates an active session for an account.
func (tf *TestFixtures) CreateTestSession(accountID uint) (*models.AccountSession, error) {
	sessionToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure session token: %w", err)
	}

	refreshToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure refresh token: %w", err)
	}

	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	session := &models.AccountSession{
		AccountID:    accountID,
		SessionToken: sessionToken,
		RefreshToken: &refreshToken,
		ExpiresAt:    time.Now().Add(24 * time.Hour),
		IsActive:     utils.ToPtr(true),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}
	return session, nil
}
