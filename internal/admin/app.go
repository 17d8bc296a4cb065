// Package admin implements the operator command line: creating accounts and
// switching their activity flag directly against the database.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
)

const usage = `usage: admin [-d dsn] <command>

commands:
  create <email> [full name]   create an active user, password is prompted
  activate <email>             allow the user to log in again
  deactivate <email>           revoke access immediately, including issued tokens`

var ErrUsage = errors.New("invalid usage")

// UserAdmin is the part of services.UserService the CLI drives.
type UserAdmin interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	SetActive(ctx context.Context, email string, active bool) (*models.User, error)
}

type App struct {
	users UserAdmin
	out   io.Writer
}

func NewApp(us UserAdmin, out io.Writer) *App {
	return &App{users: us, out: out}
}

// Run executes the command in args (positional arguments only).
func (a *App) Run(ctx context.Context, args []string) error {

	if len(args) < 2 {
		fmt.Fprintln(a.out, usage)
		return ErrUsage
	}

	cmd, email := args[0], args[1]

	switch cmd {
	case "activate", "deactivate":
		if len(args) != 2 {
			fmt.Fprintln(a.out, usage)
			return ErrUsage
		}
		return a.setActive(ctx, email, cmd == "activate")
	case "create":
		return a.create(ctx, email, strings.Join(args[2:], " "))
	}

	fmt.Fprintln(a.out, usage)
	return ErrUsage
}

func (a *App) setActive(ctx context.Context, email string, active bool) error {

	user, err := a.users.SetActive(ctx, email, active)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("user %s not found", services.NormalizeEmail(email))
		}
		return err
	}

	state := "deactivated"
	if user.IsActive {
		state = "activated"
	}
	fmt.Fprintf(a.out, "user %s %s\n", user.Email, state)
	return nil
}

func (a *App) create(ctx context.Context, email, fullName string) error {

	password, err := GetPassword(a.out, "Enter password: ")
	if err != nil {
		return err
	}
	confirm, err := GetPassword(a.out, "Repeat password: ")
	if err != nil {
		return err
	}

	in := services.RegisterInput{Email: email, Password: password, ConfirmPassword: confirm}
	if fullName != "" {
		in.FullName = &fullName
	}

	user, err := a.users.Register(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "user %s created (id=%d)\n", user.Email, user.ID)
	return nil
}
