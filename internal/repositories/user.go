package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/deepcave/auth-service/internal/logger"
	"github.com/deepcave/auth-service/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// userColumns is the default projection; the password hash is excluded and
// must be requested explicitly via GetByEmail's withPassword flag.
const userColumns = `user_id, user_name, email, password_changed_at,
	password_reset_token, password_reset_expires, role,
	cave, resources, ship, reputation, last_resource_update,
	created_at, updated_at`

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByEmailOrUserName returns the first user matching either value, or nil
// when no such user exists.
func (r *UserReadRepository) GetByEmailOrUserName(ctx context.Context, email, userName string) (*models.UserDB, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 OR user_name = $2
		LIMIT 1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, email, userName)

	logger.Log.Infow("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{email, userName},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByEmail returns the user with the given email, or nil when absent. When
// withPassword is set the stored credential hash is included in the row.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string, withPassword bool) (*models.UserDB, error) {
	columns := userColumns
	if withPassword {
		columns += ", password_hash"
	}
	query := `
		SELECT ` + columns + `
		FROM users
		WHERE email = $1
		LIMIT 1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, email)

	logger.Log.Infow("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByID returns the user with the given id, or nil when absent.
func (r *UserReadRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE user_id = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, userID)

	logger.Log.Infow("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// List returns all users, newest first.
func (r *UserReadRepository) List(ctx context.Context) ([]models.UserDB, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
	`

	users := make([]models.UserDB, 0)
	err := r.db.SelectContext(ctx, &users, query)

	logger.Log.Infow("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"count", len(users),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return users, nil
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Create inserts a new user and returns the stored row. The insert is a plain
// statement on purpose: a concurrent sign-up with the same user_name or email
// must surface the unique-index violation so the caller can map it to a
// conflict instead of silently overwriting the raced row.
func (r *UserWriteRepository) Create(ctx context.Context, userName, email, passwordHash string) (*models.UserDB, error) {
	query := `
		INSERT INTO users (user_name, email, password_hash, password_changed_at, role, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), 'user', NOW(), NOW())
		RETURNING ` + userColumns + `
	`
	args := []any{userName, email, passwordHash}

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, args...)

	logger.Log.Infow("user insert",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userName, email},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &user, nil
}
