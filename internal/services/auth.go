package services

import (
	"context"
	"encoding/json"
	"net/mail"
	"strings"

	"github.com/deepcave/auth-service/internal/apperrors"
	"github.com/deepcave/auth-service/internal/logger"
	"github.com/deepcave/auth-service/internal/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Operational error values surfaced to clients.
var (
	ErrMissingFields     = apperrors.Validation("Please provide all fields")
	ErrPasswordMismatch  = apperrors.Validation("Passwords do not match")
	ErrUserAlreadyExists = apperrors.Conflict("User already exists")

	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike, so responses do not reveal which accounts exist.
	ErrInvalidCredentials = apperrors.Authentication("Invalid email or password")
)

// UserReader defines read operations the auth service needs from storage.
type UserReader interface {
	GetByEmailOrUserName(ctx context.Context, email, userName string) (*models.UserDB, error)
	GetByEmail(ctx context.Context, email string, withPassword bool) (*models.UserDB, error)
}

// UserWriter defines write operations the auth service needs from storage.
type UserWriter interface {
	Create(ctx context.Context, userName, email, passwordHash string) (*models.UserDB, error)
}

// PasswordHasher abstracts one-way credential hashing.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenGenerator mints session tokens bound to a user id.
type TokenGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID) (string, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AuthService handles sign-up and sign-in.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	hasher      PasswordHasher
	tokens      TokenGenerator
	kafkaWriter KafkaWriter
}

// NewAuthService creates a new AuthService. kafkaWriter may be nil, in which
// case registration events are skipped.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	hasher PasswordHasher,
	tokens TokenGenerator,
	kafkaWriter KafkaWriter,
) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		hasher:      hasher,
		tokens:      tokens,
		kafkaWriter: kafkaWriter,
	}
}

// NormalizeEmail lowercases and trims an email address before any lookup or
// write, so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignup(email, userName, password string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return apperrors.ValidationField("Please provide a valid email", "email")
	}
	if len(userName) < 3 {
		return apperrors.ValidationField("Username must be at least 3 characters long", "user_name")
	}
	if len(userName) > 20 {
		return apperrors.ValidationField("Username must be less than 20 characters long", "user_name")
	}
	if len(password) < 8 {
		return apperrors.ValidationField("Password must be at least 8 characters long", "password")
	}
	if len(password) > 72 {
		return apperrors.ValidationField("Password is too long", "password")
	}
	return nil
}

// SignUp validates the submitted fields, checks uniqueness, stores the hashed
// credential and returns the created user with a freshly minted session token.
// The confirmation value is discarded after the equality check.
func (svc *AuthService) SignUp(ctx context.Context, email, userName, password, passwordConfirm string) (*models.UserDB, string, error) {
	if email == "" || userName == "" || password == "" || passwordConfirm == "" {
		return nil, "", ErrMissingFields
	}
	if password != passwordConfirm {
		return nil, "", ErrPasswordMismatch
	}

	email = NormalizeEmail(email)
	userName = strings.TrimSpace(userName)
	if err := validateSignup(email, userName, password); err != nil {
		return nil, "", err
	}

	existing, err := svc.reader.GetByEmailOrUserName(ctx, email, userName)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, "", err
	}
	if existing != nil {
		logger.Log.Infow("user already exists", "user_name", userName, "email", email)
		return nil, "", ErrUserAlreadyExists
	}

	passwordHash, err := svc.hasher.Hash(password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, "", err
	}

	// A concurrent sign-up can still win the race between the check above and
	// this insert; the unique index violation is classified to a conflict.
	user, err := svc.writer.Create(ctx, userName, email, passwordHash)
	if err != nil {
		logger.Log.Errorw("failed to create user", "err", err)
		return nil, "", err
	}

	token, err := svc.tokens.Generate(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to generate session token", "err", err)
		return nil, "", err
	}

	svc.publishRegistered(ctx, user)

	return user, token, nil
}

// SignIn verifies the credentials and returns a session token. Unknown email
// and wrong password are indistinguishable in the returned error.
func (svc *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrMissingFields
	}

	user, err := svc.reader.GetByEmail(ctx, NormalizeEmail(email), true)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil || user.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}

	if !svc.hasher.Verify(password, user.PasswordHash) {
		logger.Log.Infow("password verification failed", "email", email)
		return "", ErrInvalidCredentials
	}

	token, err := svc.tokens.Generate(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to generate session token", "err", err)
		return "", err
	}

	return token, nil
}

// publishRegistered publishes a user.registered event to Kafka, best effort.
func (svc *AuthService) publishRegistered(ctx context.Context, user *models.UserDB) {
	if svc.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "user_id", user.UserID)
		return
	}

	event := models.UserRegisteredEvent{
		UserID:    user.UserID,
		UserName:  user.UserName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal registration event", "user_id", user.UserID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(user.UserID.String()),
		Value: data,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish registration event", "user_id", user.UserID, "error", err)
	} else {
		logger.Log.Infow("registration event published", "user_id", user.UserID)
	}
}
