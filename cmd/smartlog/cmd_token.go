package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Izaque674/SmartLOG-sub000/internal/auth"
	"github.com/Izaque674/SmartLOG-sub000/internal/config"
	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

var (
	tokenOwner string
	tokenEmail string
	tokenRole  string
	tokenTTL   time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development bearer token",
	Long: `Signs a token with JWT_SECRET for local use. Production tokens come from the
identity provider; this command only exists so the API can be exercised without one.`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenOwner, "owner", "", "owner id placed in the sub claim (required)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(models.RoleAdmin), "admin, manager, operator or viewer")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default JWT_EXPIRY)")
	_ = tokenCmd.MarkFlagRequired("owner")
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	ttl := cfg.JWTExpiry
	if tokenTTL > 0 {
		ttl = tokenTTL
	}
	svc, err := auth.NewService(cfg.JWTSecret, ttl)
	if err != nil {
		return err
	}
	token, err := svc.GenerateToken(tokenOwner, tokenEmail, models.Role(tokenRole))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
