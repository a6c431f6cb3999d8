package services

import (
	"fmt"
	"log"
	"time"

	"contactbook/internal/auth"
	"contactbook/internal/models"
	"contactbook/internal/repositories"
	"contactbook/pkg/rabbitmq"
)

// Lifetimes of the tokens embedded in email links.
const (
	verificationTokenTTL = 7 * 24 * time.Hour
	resetTokenTTL        = time.Hour
)

// AuthService handles registration, login, email confirmation and
// password resets.
type AuthService struct {
	userRepo  repositories.UserRepository
	creds     *auth.Credentials
	publisher rabbitmq.Publisher
	baseURL   string
}

// NewAuthService creates a new AuthService. publisher may be nil, in which
// case outbound emails are skipped.
func NewAuthService(userRepo repositories.UserRepository, creds *auth.Credentials, publisher rabbitmq.Publisher, baseURL string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		creds:     creds,
		publisher: publisher,
		baseURL:   baseURL,
	}
}

// Register creates a new unconfirmed user and queues a verification email.
// Returns ErrEmailTaken or ErrUsernameTaken on duplicates.
func (s *AuthService) Register(username, email, password string) (*models.User, error) {
	if existing, err := s.userRepo.GetByEmail(email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}
	if existing, err := s.userRepo.GetByUsername(username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}

	hashed, err := s.creds.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		Role:           models.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.queueEmail(rabbitmq.KindVerification, user, verificationTokenTTL)

	return user, nil
}

// Login authenticates a user and issues an access token. Bad credentials
// and unknown usernames both surface as ErrInvalidCredentials; a correct
// password on an unconfirmed account surfaces as ErrEmailNotConfirmed.
func (s *AuthService) Login(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", err
	}
	if user == nil || !s.creds.VerifyPassword(password, user.HashedPassword) {
		return "", ErrInvalidCredentials
	}
	if !user.Confirmed {
		return "", ErrEmailNotConfirmed
	}
	return s.creds.CreateAccessToken(user.Username)
}

// ConfirmEmail flips the confirmed flag for the user named by the token.
// Confirming an already-confirmed email is an idempotent success; the
// returned flag reports whether the email had been confirmed before.
func (s *AuthService) ConfirmEmail(token string) (alreadyConfirmed bool, err error) {
	email, err := s.creds.Subject(token)
	if err != nil {
		return false, err
	}
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}
	if user.Confirmed {
		return true, nil
	}
	return false, s.userRepo.ConfirmEmail(email)
}

// RequestEmail re-queues a verification email for an unconfirmed account.
// It reports whether the email was already confirmed. An unknown email is
// not an error; the caller answers identically either way so addresses
// cannot be probed.
func (s *AuthService) RequestEmail(email string) (alreadyConfirmed bool, err error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	if user.Confirmed {
		return true, nil
	}
	s.queueEmail(rabbitmq.KindVerification, user, verificationTokenTTL)
	return false, nil
}

// RequestPasswordReset queues a password-reset email. Returns
// ErrUserNotFound when no account has the given email.
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	s.queueEmail(rabbitmq.KindPasswordReset, user, resetTokenTTL)
	return nil
}

// VerifyResetToken checks a reset token and returns the email it names.
func (s *AuthService) VerifyResetToken(token string) (string, error) {
	return s.creds.Subject(token)
}

// ResetPassword overwrites the password hash for the user named by the
// reset token.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	email, err := s.creds.Subject(token)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	hashed, err := s.creds.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(email, hashed)
}

// queueEmail publishes an email task fire-and-forget. A publish failure is
// logged and never surfaced to the caller.
func (s *AuthService) queueEmail(kind string, user *models.User, ttl time.Duration) {
	if s.publisher == nil {
		return
	}
	token, err := s.creds.CreateEmailToken(user.Email, ttl)
	if err != nil {
		log.Printf("Failed to create %s token for %s: %v", kind, user.Email, err)
		return
	}
	task := rabbitmq.EmailTask{
		Kind:     kind,
		To:       user.Email,
		Username: user.Username,
		Token:    token,
		BaseURL:  s.baseURL,
	}
	if err := s.publisher.PublishEmailTask(task); err != nil {
		log.Printf("Warning: failed to publish %s email task for %s: %v", kind, user.Email, err)
	}
}
