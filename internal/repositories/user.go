// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt" // パスワードのハッシュ化用

	"planedge/backend/internal/database"
	"planedge/backend/internal/logger"
	"planedge/backend/internal/models"
)

// UserRepository はユーザーテーブルを操作します。
type UserRepository struct {
	DB *database.DB
}

// NewUserRepository は新しいUserRepositoryインスタンスを作成します。
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// HashPassword は与えられたパスワードをbcryptでハッシュ化します。
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// VerifyPassword はハッシュ化されたパスワードと平文のパスワードを比較します。
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

var (
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrUserNotFound   = errors.New("user not found")
)

// Create は新しいユーザーをデータベースに挿入します。
func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	query := "INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)"
	id, err := r.DB.Insert(ctx, query, u.Name, u.Email, u.PasswordHash)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		logger.Error("failed to insert user", "error", err)
		return nil, fmt.Errorf("could not insert user: %w", err)
	}
	return r.FindByID(ctx, id)
}

// FindByID はIDでユーザーを検索します。
func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	return r.findOne(ctx, "WHERE id = ?", id)
}

// FindByEmail はメールアドレスでユーザーを検索します。
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "WHERE email = ?", email)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := r.DB.Rebind("SELECT id, name, email, password_hash, created_at, updated_at FROM users " + where)
	var u models.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Error("failed to query user", "error", err)
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	return &u, nil
}
