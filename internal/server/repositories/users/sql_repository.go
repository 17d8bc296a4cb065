package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

const userColumns = `id, email, hashed_password, full_name, is_active, created_at`

// SQLRepository works on both PostgreSQL (pgx) and SQLite (modernc): the
// queries stick to $N placeholders and RETURNING, which both accept.
type SQLRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, now: time.Now}
}

func (r *SQLRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE email = $1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLRepository) Insert(ctx context.Context, email, hashedPassword string, fullName *string) (*models.User, error) {
	query :=
		`INSERT INTO users (email, hashed_password, full_name, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	user := &models.User{
		Email:          email,
		HashedPassword: hashedPassword,
		FullName:       fullName,
		IsActive:       true,
		CreatedAt:      r.now().UTC().Truncate(time.Microsecond),
	}

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.HashedPassword, nullString(fullName), user.IsActive, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) SetActive(ctx context.Context, id int64, active bool) (*models.User, error) {
	query :=
		`UPDATE users SET is_active = $1
		 WHERE id = $2
		 RETURNING ` + userColumns + `
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, active, id))
}

func (r *SQLRepository) scanOne(row *sql.Row) (*models.User, error) {
	var (
		user     models.User
		fullName sql.NullString
	)

	err := row.Scan(&user.ID, &user.Email, &user.HashedPassword, &fullName, &user.IsActive, timeScanner{&user.CreatedAt})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if fullName.Valid {
		user.FullName = &fullName.String
	}
	return &user, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
