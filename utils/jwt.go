// utils/jwt.go
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/config"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
)

type Claims struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Section string `json:"section,omitempty"`
	jwt.RegisteredClaims
}

// Actor is the acting identity carried by the token.
func (c *Claims) Actor() models.Actor {
	return models.Actor{Name: c.Name, Section: c.Section, IQA: c.Role == models.RoleIQA}
}

func GenerateJWT(user models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:    user.Name,
		Role:    user.Role,
		Section: user.Section,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Name,
			ExpiresAt: jwt.NewNumericDate(now.Add(config.JWTExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JWTKey)
}

func ValidateJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return config.JWTKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Name == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
