package roblemock

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Server exposes the Roble wire contract over gin: token auth endpoints
// plus schemaless read/insert/update. Courseware integration tests and
// local development run against it instead of the hosted backend.
type Server struct {
	store  *Store
	auth   *Auth
	logger *slog.Logger
}

func NewServer(store *Store, auth *Auth, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, auth: auth, logger: logger}
}

func (s *Server) Routes(router *gin.Engine) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", s.handleLogin)
		auth.POST("/signup", s.handleSignup)
		auth.POST("/verify-email", s.handleVerifyEmail)
		auth.POST("/refresh", s.handleRefresh)
		auth.POST("/logout", s.handleLogout)
		auth.POST("/verify-token", s.handleVerifyToken)
	}

	db := router.Group("/database")
	db.Use(s.requireToken)
	{
		db.POST("/read", s.handleRead)
		db.POST("/insert", s.handleInsert)
		db.POST("/update", s.handleUpdate)
	}
}

type errorBody struct {
	Message string `json:"message"`
}

type userBody struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
	CreatedAt     string `json:"created_at"`
}

func accountToUser(a *Account) userBody {
	return userBody{
		ID:            a.ID,
		Name:          a.Name,
		Email:         a.Email,
		Role:          a.Role,
		EmailVerified: a.Verified,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: err.Error()})
		return
	}

	account, access, refresh, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, errorBody{Message: err.Error()})
			return
		}
		s.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": accountToUser(account),
		"tokens": gin.H{
			"access_token":  access,
			"refresh_token": refresh,
		},
	})
}

func (s *Server) handleSignup(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role" binding:"required,oneof=student teacher"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: err.Error()})
		return
	}

	account, err := s.auth.Signup(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			c.JSON(http.StatusConflict, errorBody{Message: err.Error()})
			return
		}
		s.internalError(c, err)
		return
	}

	// The code would be emailed by the real backend; the mock logs it so
	// local flows can complete verification.
	s.logger.Info("Signup verification code issued", "email", account.Email, "code", account.VerifyCode)

	c.JSON(http.StatusCreated, gin.H{"user": accountToUser(account)})
}

func (s *Server) handleVerifyEmail(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: err.Error()})
		return
	}

	if err := s.auth.VerifyEmail(req.Email, req.Code); err != nil {
		if errors.Is(err, ErrInvalidCode) {
			c.JSON(http.StatusBadRequest, errorBody{Message: err.Error()})
			return
		}
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}

func (s *Server) handleRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: err.Error()})
		return
	}

	access, refresh, err := s.auth.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, errorBody{Message: ErrInvalidToken.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens": gin.H{
			"access_token":  access,
			"refresh_token": refresh,
		},
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	// Tokens are stateless; logout is client-side.
	c.JSON(http.StatusOK, gin.H{"logged_out": true})
}

func (s *Server) handleVerifyToken(c *gin.Context) {
	account, ok := s.authenticate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": accountToUser(account)})
}

func (s *Server) requireToken(c *gin.Context) {
	if _, ok := s.authenticate(c); !ok {
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) authenticate(c *gin.Context) (*Account, bool) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.JSON(http.StatusUnauthorized, errorBody{Message: "missing bearer token"})
		return nil, false
	}

	account, err := s.auth.VerifyAccess(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, errorBody{Message: ErrInvalidToken.Error()})
		return nil, false
	}
	return account, true
}

func (s *Server) handleRead(c *gin.Context) {
	var req struct {
		TableName string         `json:"tableName" binding:"required"`
		Filter    map[string]any `json:"filter"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: err.Error()})
		return
	}

	records, err := s.store.Read(req.TableName, req.Filter)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (s *Server) handleInsert(c *gin.Context) {
	var req struct {
		TableName string          `json:"tableName" binding:"required"`
		Record    json.RawMessage `json:"record" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: err.Error()})
		return
	}

	record, err := s.store.Insert(req.TableName, req.Record)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record": record})
}

func (s *Server) handleUpdate(c *gin.Context) {
	var req struct {
		TableName string          `json:"tableName" binding:"required"`
		ID        string          `json:"id" binding:"required"`
		Updates   json.RawMessage `json:"updates" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: err.Error()})
		return
	}

	record, err := s.store.Update(req.TableName, req.ID, req.Updates)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			c.JSON(http.StatusNotFound, errorBody{Message: "record not found"})
			return
		}
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": record})
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.logger.Error("Mock backend failure", "error", err)
	c.JSON(http.StatusInternalServerError, errorBody{Message: "internal error"})
}
