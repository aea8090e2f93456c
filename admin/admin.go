// Package admin owns the administrator session: login, logout, the session
// check and the guard that protects every write endpoint.
package admin

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"paperpaints/common"
	"paperpaints/config"
	"paperpaints/logs"
	"paperpaints/mapper"
	"paperpaints/metrics"
	"paperpaints/models"
	"paperpaints/session"
	"paperpaints/store"
)

const (
	msgCredentialsRequired = "Email and password are required"
	msgInvalidCredentials  = "Invalid email or password"
	msgInvalidPassword     = "Invalid password"
	msgNoSecret            = "Server misconfigured. Set SESSION_SECRET or ADMIN_PASSWORD."
	msgNoPassword          = "Admin not configured. Set ADMIN_PASSWORD."
	msgNewAdminInvalid     = "Email and password (min 8 chars) are required"
	msgUnknownRole         = "Unknown role"
	msgAdminExists         = "An admin with this email already exists"
	msgAccountsDisabled    = "Admin accounts require AUTH_MODE=claims"
)

type Options struct {
	// Mode is config.AuthModeClaims or config.AuthModeDigest.
	Mode         string
	Secret       string
	CookieSecure bool
	// LoginLimit caps login attempts per client IP per minute.
	LoginLimit int
}

type AdminModule struct {
	admins *store.Admins
	issuer session.Issuer
	digest *session.DigestIssuer
	opts   Options
}

func NewAdminModule(db *gorm.DB, opts Options) *AdminModule {
	a := &AdminModule{admins: store.NewAdmins(db), opts: opts}
	if opts.Mode == config.AuthModeDigest {
		a.digest = session.NewDigestIssuer(opts.Secret)
		a.issuer = a.digest
	} else {
		a.issuer = session.NewClaimIssuer(opts.Secret)
	}
	return a
}

func (a *AdminModule) RegisterRoutes(router gin.IRouter) {
	auth := router.Group("/auth")
	{
		login := []gin.HandlerFunc{a.loginPost}
		if a.opts.LoginLimit > 0 {
			login = append([]gin.HandlerFunc{common.RateLimit(a.opts.LoginLimit, time.Minute)}, login...)
		}
		auth.POST("/login", login...)
		auth.POST("/logout", a.logout)
		auth.GET("/check", a.check)
	}

	router.POST("/admins", a.RequireAuth, a.createAdmin)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AdminModule) loginPost(c *gin.Context) {
	var req loginRequest
	// A body that does not parse is treated as empty credentials.
	_ = c.ShouldBindJSON(&req)

	if a.digest != nil {
		a.digestLogin(c, req.Password)
		return
	}
	a.claimsLogin(c, req)
}

func (a *AdminModule) claimsLogin(c *gin.Context, req loginRequest) {
	email := store.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		common.Respond(c, common.Validation(msgCredentialsRequired), "")
		return
	}
	if !session.SecretUsable(a.opts.Secret) {
		metrics.ObserveLogin(metrics.LoginBlocked)
		common.Respond(c, common.Misconfigured(msgNoSecret), "")
		return
	}

	admin, err := a.admins.FindByEmail(c.Request.Context(), email)
	if err != nil && !isNotFound(err) {
		common.Respond(c, err, "Login failed")
		return
	}

	hash := dummyHash
	if admin != nil {
		hash = admin.PasswordHash
	}
	if !checkPasswordHash(req.Password, hash) || admin == nil {
		a.rejectLogin(c, email, msgInvalidCredentials)
		return
	}

	token, err := a.issuer.Issue(session.Principal{ID: admin.ID, Email: admin.Email})
	if err != nil {
		common.Respond(c, common.Internal("Login failed", err), "Login failed")
		return
	}
	a.acceptLogin(c, token, email)
}

func (a *AdminModule) digestLogin(c *gin.Context, password string) {
	if !session.SecretUsable(a.opts.Secret) {
		metrics.ObserveLogin(metrics.LoginBlocked)
		common.Respond(c, common.Misconfigured(msgNoPassword), "")
		return
	}
	if !a.digest.CheckPassword(password) {
		a.rejectLogin(c, "", msgInvalidPassword)
		return
	}

	token, err := a.digest.Issue(session.DigestPrincipal)
	if err != nil {
		common.Respond(c, common.Internal("Login failed", err), "Login failed")
		return
	}
	a.acceptLogin(c, token, "")
}

func (a *AdminModule) acceptLogin(c *gin.Context, token, email string) {
	metrics.ObserveLogin(metrics.LoginSuccess)
	logs.Logger.WithFields(logrus.Fields{
		"reqid": common.RequestIDFrom(c),
		"email": email,
	}).Info("admin login")

	session.SetCookie(c, token, a.opts.CookieSecure)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *AdminModule) rejectLogin(c *gin.Context, email, msg string) {
	metrics.ObserveLogin(metrics.LoginFailure)
	logs.Logger.WithFields(logrus.Fields{
		"reqid": common.RequestIDFrom(c),
		"ip":    c.ClientIP(),
		"email": email,
	}).Warn("admin login rejected")

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

func (a *AdminModule) logout(c *gin.Context) {
	session.ClearCookie(c, a.opts.CookieSecure)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *AdminModule) check(c *gin.Context) {
	if _, err := a.authenticate(c); err != nil {
		common.Respond(c, err, "Authorization failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type createAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (a *AdminModule) createAdmin(c *gin.Context) {
	if a.digest != nil {
		common.Respond(c, common.Misconfigured(msgAccountsDisabled), "")
		return
	}

	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Respond(c, common.Validation(msgNewAdminInvalid), "")
		return
	}
	email := store.NormalizeEmail(req.Email)
	if !common.ValidEmail(email) || len(req.Password) < session.MinSecretLength {
		common.Respond(c, common.Validation(msgNewAdminInvalid), "")
		return
	}

	if role := strings.TrimSpace(req.Role); role != "" && role != models.RoleAdmin {
		common.Respond(c, common.Validation(msgUnknownRole), "")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		common.Respond(c, common.Internal("Failed to create admin", err), "Failed to create admin")
		return
	}
	admin := &models.Admin{Email: email, PasswordHash: hash, Role: models.RoleAdmin}
	if err := a.admins.Create(c.Request.Context(), admin); err != nil {
		if isConflict(err) {
			common.Respond(c, common.Conflict(msgAdminExists), "")
			return
		}
		common.Respond(c, err, "Failed to create admin")
		return
	}

	logs.Logger.WithFields(logrus.Fields{
		"reqid": common.RequestIDFrom(c),
		"by":    CurrentAdmin(c).Email,
		"email": admin.Email,
	}).Info("admin created")

	doc, err := mapper.Document(admin)
	if err != nil {
		common.Respond(c, common.Internal("Failed to create admin", err), "Failed to create admin")
		return
	}
	c.JSON(http.StatusCreated, doc)
}
