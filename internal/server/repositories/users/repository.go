// Package users is the User Store: plain data access over the users table
// with no business policy.
package users

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// Repository persists users. Lookups of absent rows return
// common.ErrorNotFound; Insert returns common.ErrDuplicateEmail when the
// unique email constraint rejects the row.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Insert(ctx context.Context, email, hashedPassword string, fullName *string) (*models.User, error)
	SetActive(ctx context.Context, id int64, active bool) (*models.User, error)
}
