package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	config "github.com/meshawi/Pharmacy-Management-System/configs"
	"github.com/meshawi/Pharmacy-Management-System/internal/models"
)

// The rest of the system treats identity as an external collaborator: it
// consumes a verified user id and role out of the session and produces
// allow/deny. This package is that boundary.

var (
	provider     *oidc.Provider
	verifier     *oidc.IDTokenVerifier
	oauth2Config *oauth2.Config
	db           *gorm.DB
)

const (
	sessionUserKey  = "user_id"
	sessionRoleKey  = "role"
	sessionStateKey = "oauth_state"
)

func Init(cfg config.OIDCConfig, gdb *gorm.DB) {
	db = gdb

	ctx := context.Background()

	var err error
	provider, err = oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		log.Fatalf("OIDC provider init error: %v", err)
	}

	verifier = provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})

	oauth2Config = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email", "phone"},
	}
}

// GET /auth/login
func Login(c *gin.Context) {
	state, err := newState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start login"})
		return
	}

	sess := sessions.Default(c)
	sess.Set(sessionStateKey, state)
	if err := sess.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start login"})
		return
	}

	c.Redirect(http.StatusFound, oauth2Config.AuthCodeURL(state))
}

// newState produces the per-login CSRF token bound to the session.
func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /auth/callback
func Callback(c *gin.Context) {
	sess := sessions.Default(c)

	// The state must round-trip through the session started by Login; a
	// mismatch means the callback was not initiated here.
	want, _ := sess.Get(sessionStateKey).(string)
	sess.Delete(sessionStateKey)
	_ = sess.Save()
	if want == "" || c.Query("state") != want {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code missing"})
		return
	}

	ctx := c.Request.Context()
	oauth2Token, err := oauth2Config.Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token exchange failed"})
		return
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no id_token in token response"})
		return
	}

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token verification failed"})
		return
	}

	var claims struct {
		Sub        string `json:"sub"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Username   string `json:"preferred_username"`
		Email      string `json:"email"`
		Phone      string `json:"phone_number"`
	}
	if err := idToken.Claims(&claims); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "claims parse error"})
		return
	}

	// Upsert the user by subject. First login gets the Customer role; Admin
	// promotes through user management.
	var user models.User
	if err := db.Where("oidc_id = ?", claims.Sub).First(&user).Error; err != nil {
		username := claims.Username
		if username == "" {
			username = claims.Email
		}
		user = models.User{
			OIDCID:    claims.Sub,
			FirstName: claims.GivenName,
			LastName:  claims.FamilyName,
			Username:  username,
			Email:     claims.Email,
			Phone:     claims.Phone,
			Role:      models.RoleCustomer,
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
			return
		}
	}

	sess.Set(sessionUserKey, user.ID)
	sess.Set(sessionRoleKey, user.Role)
	_ = sess.Save()

	c.JSON(http.StatusOK, gin.H{"message": "logged in", "user": user})
}

// POST /auth/logout clears the whole session, cart included.
func Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// RequireAuth ensures a user is logged in.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// RequireRole ensures the session role is one of the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		role, _ := sessions.Default(c).Get(sessionRoleKey).(string)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you do not have permission to access this page"})
	}
}

// CurrentUserID reads the authenticated user id from the session.
func CurrentUserID(c *gin.Context) (uint, bool) {
	id, ok := sessions.Default(c).Get(sessionUserKey).(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}
