package utils

import (
	"errors"
	"time"

	"cadence-support/config"
	"cadence-support/models"

	"github.com/golang-jwt/jwt/v5"
)

type SupportClaims struct {
	AgentID      uint   `json:"agent_id"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateSupportToken signs a short-lived access token for a support agent
func GenerateSupportToken(agent *models.SupportAgent) (string, error) {
	claims := &SupportClaims{
		AgentID:      agent.ID,
		Role:         agent.Role,
		TokenVersion: agent.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(8 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.SupportJWTSecret))
}

func ParseSupportToken(tokenString string) (*SupportClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SupportClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.SupportJWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SupportClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
