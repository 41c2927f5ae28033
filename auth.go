package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"linkvault/models"
	"linkvault/pkg/access"
	"linkvault/pkg/password"
	"linkvault/pkg/revocation"
	"linkvault/pkg/token"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const resetTokenTTL = 30 * time.Minute

var emailRE = regexp.MustCompile(`^[\w.+-]+@[\w.-]+\.[a-zA-Z]{2,}$`)

// Credential failures. Not-found and wrong-password both map to
// errInvalidCredentials so callers cannot probe for usernames.
var (
	errInvalidCredentials = errors.New("invalid username or password")
	errAccountDisabled    = errors.New("account is disabled")
	errTokenExpired       = errors.New("token is already expired")
	errUsernameTaken      = errors.New("username is already taken")
	errEmailTaken         = errors.New("email is already in use")
	errInvalidEmail       = errors.New("invalid email format")
	errInvalidResetToken  = errors.New("invalid or expired reset token")
	errSelfDelete         = errors.New("admin cannot delete themselves")
)

// authService owns login, logout, registration and the password-reset flow.
// It is the only writer to the revocation store.
type authService struct {
	db       *gorm.DB
	codec    *token.Codec
	store    revocation.Store
	hasher   password.Hasher
	tokenTTL time.Duration
	mailer   Mailer
	baseURL  string
	now      func() time.Time
}

func newAuthService(db *gorm.DB, codec *token.Codec, store revocation.Store, hasher password.Hasher, tokenTTL time.Duration, mailer Mailer, baseURL string) *authService {
	return &authService{
		db:       db,
		codec:    codec,
		store:    store,
		hasher:   hasher,
		tokenTTL: tokenTTL,
		mailer:   mailer,
		baseURL:  baseURL,
		now:      time.Now,
	}
}

// Login verifies credentials and issues a token carrying the user's primary
// role. Unknown username and wrong password return the same error.
func (s *authService) Login(ctx context.Context, username, pw string) (string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Roles").Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errInvalidCredentials
		}
		return "", err
	}
	if !user.Enabled {
		return "", errAccountDisabled
	}
	if err := s.hasher.Compare(user.HashedPassword, pw); err != nil {
		return "", errInvalidCredentials
	}
	role := access.RoleUser
	if names := user.RoleNames(); len(names) > 0 {
		role = names[0]
	}
	return s.codec.Issue(user.Username, s.tokenTTL, []string{role})
}

// Logout revokes the token for the remainder of its natural lifetime. An
// already expired token is rejected and never reaches the store.
func (s *authService) Logout(ctx context.Context, raw string) error {
	claims, err := s.codec.Parse(raw)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return errTokenExpired
		}
		return err
	}
	remaining := claims.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		return errTokenExpired
	}
	return s.store.Revoke(ctx, raw, remaining)
}

// Register creates a user with the default role. Username and email
// uniqueness are independent constraints with their own errors.
func (s *authService) Register(ctx context.Context, username, email, pw string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRE.MatchString(email) {
		return nil, errInvalidEmail
	}
	if err := password.Validate(pw); err != nil {
		return nil, err
	}
	g := s.db.WithContext(ctx)

	var count int64
	if err := g.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errUsernameTaken
	}
	if err := g.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errEmailTaken
	}

	hashed, err := s.hasher.Hash(pw)
	if err != nil {
		return nil, err
	}
	role, err := s.ensureRole(ctx, access.RoleUser, "regular user")
	if err != nil {
		return nil, err
	}
	user := models.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		Enabled:        true,
		Roles:          []models.Role{role},
	}
	if err := g.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) { // race after the pre-checks
			return nil, errUsernameTaken
		}
		return nil, err
	}
	return &user, nil
}

func (s *authService) ensureRole(ctx context.Context, name, description string) (models.Role, error) {
	var role models.Role
	err := s.db.WithContext(ctx).Where(models.Role{Name: name}).
		Attrs(models.Role{Description: description}).
		FirstOrCreate(&role).Error
	return role, err
}

// CreateResetToken issues a single-use password reset token and mails the
// reset link. Only the token's hash is stored.
func (s *authService) CreateResetToken(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return err
	}
	raw := uuid.NewString()
	entry := models.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hashResetToken(raw),
		ExpiresAt: s.now().Add(resetTokenTTL),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return err
	}
	link := fmt.Sprintf("%s/api/auth/reset-password?token=%s", s.baseURL, raw)
	return s.mailer.SendPasswordReset(ctx, user.Email, link)
}

// ResetPassword consumes a reset token and sets a new password. The token is
// deleted on first use, valid or expired.
func (s *authService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	g := s.db.WithContext(ctx)
	var entry models.PasswordResetToken
	if err := g.Where("token_hash = ?", hashResetToken(rawToken)).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errInvalidResetToken
		}
		return err
	}
	if s.now().After(entry.ExpiresAt) {
		g.Delete(&entry)
		return errInvalidResetToken
	}
	if err := password.Validate(newPassword); err != nil {
		return err
	}
	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := g.Model(&models.User{}).Where("id = ?", entry.UserID).
		Update("hashed_password", hashed).Error; err != nil {
		return err
	}
	return g.Delete(&entry).Error
}

// userUpdate enumerates the mutable user fields. Nil pointers mean "leave
// unchanged"; Roles is only honored for admin callers.
type userUpdate struct {
	Username *string
	Email    *string
	Password *string
	Roles    []string
}

// UpdateUser applies a validated partial update to the target user.
func (s *authService) UpdateUser(ctx context.Context, target *models.User, upd userUpdate, actorIsAdmin bool) error {
	g := s.db.WithContext(ctx)

	if upd.Username != nil {
		name := strings.ToLower(strings.TrimSpace(*upd.Username))
		if name == "" {
			return fmt.Errorf("username cannot be empty")
		}
		if name != target.Username {
			var count int64
			if err := g.Model(&models.User{}).Where("username = ?", name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return errUsernameTaken
			}
			target.Username = name
		}
	}
	if upd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*upd.Email))
		if !emailRE.MatchString(email) {
			return errInvalidEmail
		}
		if email != target.Email {
			var count int64
			if err := g.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return errEmailTaken
			}
			target.Email = email
		}
	}
	if upd.Password != nil {
		if err := password.Validate(*upd.Password); err != nil {
			return err
		}
		hashed, err := s.hasher.Hash(*upd.Password)
		if err != nil {
			return err
		}
		target.HashedPassword = hashed
	}
	if err := g.Save(target).Error; err != nil {
		if isUniqueConstraintError(err) {
			return errUsernameTaken
		}
		return err
	}
	if upd.Roles != nil && actorIsAdmin {
		roles := make([]models.Role, 0, len(upd.Roles))
		for _, name := range upd.Roles {
			role, err := s.ensureRole(ctx, name, "")
			if err != nil {
				return err
			}
			roles = append(roles, role)
		}
		if err := g.Model(target).Association("Roles").Replace(&roles); err != nil {
			return err
		}
		target.Roles = roles
	}
	return nil
}

// DeleteUser removes a user by id. Admins cannot delete their own account.
func (s *authService) DeleteUser(ctx context.Context, id uint, actor string) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return err
	}
	if user.Username == actor {
		return errSelfDelete
	}
	return s.db.WithContext(ctx).Select("Bookmarks").Delete(&user).Error
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "UNIQUE constraint") || strings.Contains(s, "already exists")
}
