package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"pc-store/i18n"
	"pc-store/models"
	"pc-store/repositories"
	"pc-store/utils"
	"strings"
	"time"
)

type AuthService struct {
	users  UserStore
	tokens *utils.TokenManager
	google GoogleVerifier
	now    func() time.Time
}

// NewAuthService builds the service; google may be nil, which disables
// Google sign-in.
func NewAuthService(users UserStore, tokens *utils.TokenManager, google GoogleVerifier) *AuthService {
	return &AuthService{users: users, tokens: tokens, google: google, now: time.Now}
}

func (s *AuthService) issue(user *models.User) (*models.AuthResult, error) {
	token, expiresAt, err := s.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func preferredLanguage(requested, detected string) string {
	if i18n.Supported(requested) {
		return requested
	}
	if i18n.Supported(detected) {
		return detected
	}
	return i18n.English
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest, lang string) (*models.AuthResult, error) {
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hashedPassword,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         models.RoleCustomer,
		Language:     preferredLanguage(req.Language, lang),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	if err := s.touch(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) touch(ctx context.Context, user *models.User) error {
	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return err
	}
	user.LastLoginAt = &now
	return nil
}

// LoginWithGoogle signs in by Google account id, links an existing account
// with the same e-mail, or creates a new customer.
func (s *AuthService) LoginWithGoogle(ctx context.Context, req models.GoogleLoginRequest, lang string) (*models.AuthResult, error) {
	if s.google == nil {
		return nil, ErrGoogleDisabled
	}

	identity, err := s.google.Verify(ctx, req.IDToken)
	if err != nil {
		log.Printf("google sign-in rejected: %v", err)
		return nil, ErrGoogleInvalid
	}

	user, err := s.users.FindByGoogleID(ctx, identity.Subject)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		user, err = s.linkOrCreateGoogleUser(ctx, identity, preferredLanguage(req.Language, lang))
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.touch(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) linkOrCreateGoogleUser(ctx context.Context, identity *models.GoogleIdentity, lang string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, identity.Email)
	if err == nil {
		if err := s.users.LinkGoogle(ctx, user.ID, identity.Subject); err != nil {
			return nil, err
		}
		user.GoogleID = &identity.Subject
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.UnusablePasswordHash()
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	subject := identity.Subject
	user = &models.User{
		Email:        identity.Email,
		PasswordHash: hash,
		FullName:     identity.Name,
		Role:         models.RoleCustomer,
		Language:     lang,
		GoogleID:     &subject,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Me(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// CurrentRole returns the stored role, or "" when the user is gone.
func (s *AuthService) CurrentRole(ctx context.Context, userID int) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return user.Role, nil
}

// EnsureAdmin creates the bootstrap admin account, or promotes an existing
// account with that e-mail.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		if user.IsAdmin() {
			return nil
		}
		log.Printf("promoting %s to admin", user.Email)
		return s.users.UpdateRole(ctx, user.ID, models.RoleAdmin)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	admin := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     "Administrator",
		Role:         models.RoleAdmin,
		Language:     i18n.English,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("bootstrap admin %s created", admin.Email)
	return nil
}
