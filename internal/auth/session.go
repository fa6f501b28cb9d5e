package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/jinzhu/gorm"

	"github.com/ajmalmsali/plate-flow-orchestrator/internal/models"
	"github.com/ajmalmsali/plate-flow-orchestrator/internal/store"
)

// ErrInvalidCredentials is returned for unknown users, inactive
// accounts and wrong passwords alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates users and issues session tokens.
type Service struct {
	db       *gorm.DB
	secret   []byte
	tokenTTL time.Duration
	clock    store.Clock
}

// NewService creates an auth service signing tokens with secret.
func NewService(db *gorm.DB, secret string, tokenTTL time.Duration, clock store.Clock) *Service {
	if clock == nil {
		clock = store.SystemClock{}
	}
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &Service{db: db, secret: []byte(secret), tokenTTL: tokenTTL, clock: clock}
}

// Login checks the credentials against the user table, stamps the last
// login and returns the user with a signed session token. The credential
// scheme is an opaque equality check; account provisioning is external.
func (s *Service) Login(username, password string) (*models.User, string, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("loading user %s: %w", username, err)
	}
	if !user.IsActive || user.Password != password {
		return nil, "", ErrInvalidCredentials
	}

	now := s.clock.Now()
	user.LastLogin = &now
	if err := s.db.Save(&user).Error; err != nil {
		return nil, "", fmt.Errorf("stamping last login for %s: %w", username, err)
	}

	token, err := s.issueToken(&user, now)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *Service) issueToken(user *models.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  now.Add(s.tokenTTL).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// UserFromToken validates a session token and loads the user it names.
func (s *Service) UserFromToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	userID, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	dbErr := s.db.Where("id = ?", userID).First(&user).Error
	if gorm.IsRecordNotFoundError(dbErr) || (dbErr == nil && !user.IsActive) {
		return nil, ErrInvalidCredentials
	}
	if dbErr != nil {
		return nil, fmt.Errorf("loading user %s: %w", userID, dbErr)
	}
	return &user, nil
}
