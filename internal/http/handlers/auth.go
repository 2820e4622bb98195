package handlers

import (
	"net/http"
	"time"

	intconfig "intima-backend/internal/config"
	"intima-backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 7 * 24 * time.Hour

type loginRequest struct {
	Password string `json:"password"`
}

// AdminLogin checks the admin password and issues an HS256 session token,
// both as a cookie and in the response body.
func AdminLogin(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	env := intconfig.LoadEnv()

	ok := false
	if env.AdminPasswordHash != "" {
		ok = bcrypt.CompareHashAndPassword([]byte(env.AdminPasswordHash), []byte(req.Password)) == nil
	} else if env.AdminPassword != "" {
		ok = req.Password == env.AdminPassword
	}
	if !ok {
		RespondError(c, http.StatusUnauthorized, "invalid password", nil)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(sessionTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(env.SessionSecret))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to sign session", nil)
		return
	}

	c.SetCookie(middleware.AdminCookie, signed, int(sessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": signed})
}

// AdminLogout drops the session cookie.
func AdminLogout(c *gin.Context) {
	c.SetCookie(middleware.AdminCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
