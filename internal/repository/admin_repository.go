package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/arkanhadi/lapor-siaga/internal/model"
)

type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// GetByUsername fetches an admin by normalized username.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (model.Admin, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	var a model.Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,name,role,created_at FROM admins WHERE username=? LIMIT 1",
		username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Name, &a.Role, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Admin{}, ErrNotFound
	}
	return a, err
}

// GetByID fetches an admin by id.
func (r *AdminRepo) GetByID(ctx context.Context, id uint64) (model.Admin, error) {
	var a model.Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,name,role,created_at FROM admins WHERE id=? LIMIT 1",
		id).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Name, &a.Role, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Admin{}, ErrNotFound
	}
	return a, err
}
