package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/shipnix/shipnix-express/internal/models"
)

// AuthClaims are the custom JWT claims issued at login.
type AuthClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWT returns the bearer-token middleware. On success the user ID and role
// are copied onto the echo context so handlers can read them with
// c.Get("userID") / c.Get("userRole").
func JWT(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(AuthClaims)
		},
		SuccessHandler: func(c echo.Context) {
			token := c.Get("user").(*jwt.Token)
			claims := token.Claims.(*AuthClaims)
			c.Set("userID", claims.UserID)
			c.Set("userRole", claims.Role)
		},
	})
}

// RequireAdmin rejects any caller whose token does not carry the admin role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get("userRole").(string)
		if role != models.RoleAdmin {
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "admin access required"})
		}
		return next(c)
	}
}
