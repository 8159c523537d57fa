package handlers

import (
	"net/http"
	"strings"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/errs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/msgs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/utils"

	"github.com/gin-gonic/gin"
)

// MustAuthenticateMiddleware rejects requests without a valid bearer
// token and stashes the claims for downstream handlers.
func MustAuthenticateMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		jwtToken := ctx.GetHeader("Authorization")
		if strings.Contains(jwtToken, "Bearer") {
			jwtToken = strings.Replace(jwtToken, "Bearer ", "", 1)
		}

		if jwtToken == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgOperationFailed,
				Errors:  []error{errs.ErrUnauthorized},
			})
			return
		}

		claims, err := utils.VerifyToken(jwtToken, utils.GetJwtKey())
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  []error{errs.ErrUnauthorized},
			})
			return
		}

		ctx.Set("user_id", claims.ID)
		ctx.Set("user_role", claims.Role)
		ctx.Set("authenticated", true)
		ctx.Next()
	}
}
