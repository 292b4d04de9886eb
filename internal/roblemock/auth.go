package roblemock

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Account is the auth-side record, kept separate from the schemaless rows
// because passwords and verification codes never leave this package.
type Account struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"size:100"`
	Email        string `gorm:"size:255;uniqueIndex"`
	Role         string `gorm:"size:16"`
	PasswordHash string `gorm:"size:72"`
	Verified     bool
	VerifyCode   string `gorm:"size:6"`
	CreatedAt    time.Time
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCode        = errors.New("invalid verification code")
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

// Auth issues and verifies JWT token pairs for mock accounts.
type Auth struct {
	db     *gorm.DB
	secret []byte
}

func NewAuth(db *gorm.DB, secret string) (*Auth, error) {
	if err := db.AutoMigrate(&Account{}); err != nil {
		return nil, fmt.Errorf("failed to migrate accounts table: %w", err)
	}
	return &Auth{db: db, secret: []byte(secret)}, nil
}

type tokenClaims struct {
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

func (a *Auth) Signup(name, email, password, role string) (*Account, error) {
	var existing Account
	err := a.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := Account{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
		VerifyCode:   randomCode(),
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.db.Create(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &account, nil
}

func (a *Auth) Login(email, password string) (*Account, string, string, error) {
	var account Account
	err := a.db.Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to load account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, err := a.issue(account.ID, "access", accessTokenTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := a.issue(account.ID, "refresh", refreshTokenTTL)
	if err != nil {
		return nil, "", "", err
	}
	return &account, access, refresh, nil
}

func (a *Auth) VerifyEmail(email, code string) error {
	var account Account
	err := a.db.Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidCode
	}
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	if account.VerifyCode != code {
		return ErrInvalidCode
	}
	return a.db.Model(&account).Update("verified", true).Error
}

// Refresh validates a refresh token and returns a fresh pair.
func (a *Auth) Refresh(refreshToken string) (string, string, error) {
	accountID, err := a.verify(refreshToken, "refresh")
	if err != nil {
		return "", "", err
	}
	access, err := a.issue(accountID, "access", accessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err := a.issue(accountID, "refresh", refreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// VerifyAccess resolves an access token to its account.
func (a *Auth) VerifyAccess(accessToken string) (*Account, error) {
	accountID, err := a.verify(accessToken, "access")
	if err != nil {
		return nil, err
	}

	var account Account
	dbErr := a.db.Where("id = ?", accountID).First(&account).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if dbErr != nil {
		return nil, fmt.Errorf("failed to load account: %w", dbErr)
	}
	return &account, nil
}

func (a *Auth) issue(accountID, use string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "roble-mock",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (a *Auth) verify(tokenString, use string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || claims.TokenUse != use || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func randomCode() string {
	const digits = "0123456789"
	code := make([]byte, 6)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			n = big.NewInt(0)
		}
		code[i] = digits[n.Int64()]
	}
	return string(code)
}
