// Command devtoken prints a signed access token for local testing. Accounts
// are issued elsewhere; this signs claims with the configured JWT secret.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yigit/vineyard/internal/app/models"
	"github.com/yigit/vineyard/internal/config"
	"github.com/yigit/vineyard/internal/pkg/auth"
	"github.com/yigit/vineyard/internal/pkg/helpers"
	"github.com/yigit/vineyard/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", filepath.Join("configs", "config.yaml"), "path to config file")
	userID := flag.Int64("user-id", 1, "user ID claim")
	identifier := flag.String("identifier", "head01", "identifier claim")
	role := flag.String("role", string(models.RoleHead), "role claim: STUDENT, TEACHER or HEAD")
	flag.Parse()

	roleType := models.RoleType(strings.ToUpper(*role))
	switch roleType {
	case models.RoleStudent, models.RoleTeacher, models.RoleHead:
	default:
		logger.Error().Str("role", *role).Msg("Unknown role")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	token, _, err := jwtService.GenerateAccessToken(&models.User{
		ID:         *userID,
		Identifier: *identifier,
		RoleType:   roleType,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to sign token")
		os.Exit(1)
	}
	fmt.Println(token)
}
