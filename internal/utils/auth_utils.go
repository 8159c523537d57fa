package utils

import (
	"fmt"
	"time"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/configs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func CreateJwtToken(id uint, firstName, lastName, role string, secretKey []byte, expiration time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		models.Claims{
			ID:        id,
			FirstName: firstName,
			LastName:  lastName,
			Role:      role,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(expiration),
			},
		})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func VerifyToken(tokenString string, secretKey []byte) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("error parsing token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

func GetJwtKey() []byte {
	return []byte(configs.GetConfig().Viper.GetString("jwt.secret"))
}

// GetUserIdFromContext returns the authenticated user id set by the auth
// middleware, or 0 when the request is unauthenticated.
func GetUserIdFromContext(ctx *gin.Context) uint {
	value, exists := ctx.Get("user_id")
	if !exists {
		return 0
	}
	userID, ok := value.(uint)
	if !ok {
		return 0
	}
	return userID
}
