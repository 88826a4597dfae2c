package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhijeet-0165/ridefusion/pkg/logger"
	"github.com/abhijeet-0165/ridefusion/pkg/models"
	"github.com/abhijeet-0165/ridefusion/storage"
)

const userColumns = `id, name, email, phone, student_id, is_student, student_domain, password, created_at`

type userRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewUserRepo(db *pgxpool.Pool, log logger.ILogger) storage.IUserStorage {
	return &userRepo{db: db, log: log}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, name, email, phone, student_id, is_student, student_domain, password, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Phone,
		user.StudentID,
		user.IsStudent,
		user.StudentDomain,
		user.Password,
		user.CreatedAt,
	)
	if err != nil {
		r.log.Error("failed to create user", logger.Error(err))
		return nil, wrapErr(err)
	}
	return user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepo) GetByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 AND password = $2`, email, password)
}

func (r *userRepo) getOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID, &user.Name, &user.Email, &user.Phone, &user.StudentID,
		&user.IsStudent, &user.StudentDomain, &user.Password, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get user", logger.Error(err))
		return nil, wrapErr(err)
	}
	if err := storage.CheckIntegrity("user", user.ID, user); err != nil {
		return nil, err
	}
	return &user, nil
}
