package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/admin"
	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := logging.NewJSONLogger(os.Stderr, "warn")

	rm, err := repomanager.Open(ctx, cfg.DatabaseDSN, logger)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer rm.Close()

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret:     []byte(cfg.SecretKey),
		Algorithm:  cfg.SigningAlgorithm,
		AccessTTL:  cfg.AccessTokenValidityDuration,
		RefreshTTL: cfg.RefreshTokenValidityDuration,
	})
	if err != nil {
		return err
	}

	us := services.NewUserService(rm, auth.NewPasswordHasher(cfg.BcryptCost), tokens, logger)

	valueFlags := append([]string{"-c", "-config"}, config.ServerFlags...)
	return admin.NewApp(us, os.Stdout).Run(ctx, flagx.Positional(args, valueFlags))
}
