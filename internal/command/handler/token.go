package handler

import (
	"time"

	"intake/config"
	"intake/internal/core"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type TokenHandler struct {
	logger *zap.Logger
	config *config.Configuration
}

func NewTokenHandler(logger *zap.Logger, config *config.Configuration) *TokenHandler {
	return &TokenHandler{
		logger: logger,
		config: config,
	}
}

// Mint 簽發管理端 JWT（HS256，app.secret_key）
func (handler *TokenHandler) Mint(cmd *cobra.Command, args []string) {
	if handler.config == nil || handler.config.App.SecretKey == "" {
		pterm.Error.Println("app.secret_key 未設定，無法簽發 token")
		return
	}

	operator, _ := cmd.Flags().GetString("operator")
	if operator == "" {
		operator = "admin"
	}
	hours, _ := cmd.Flags().GetInt("hours")
	if hours <= 0 {
		hours = 24
	}

	now := time.Now()
	claims := core.Claims{
		Operator: operator,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    handler.config.App.Name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(hours) * time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(handler.config.App.SecretKey))
	if err != nil {
		pterm.Error.Printfln("sign token failed: %v", err)
		return
	}

	pterm.DefaultSection.Println("Admin Token")
	pterm.DefaultTable.WithData(pterm.TableData{
		{"Operator", operator},
		{"Expires", claims.ExpiresAt.Format(time.RFC3339)},
	}).Render()
	pterm.Println(token)
}
