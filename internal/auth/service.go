// Package auth issues and validates access credentials. Access tokens are
// short-lived JWTs persisted alongside an opaque refresh token, so logout
// and reset can revoke them server-side.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/platform/apierr"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
)

const (
	defaultAccessTTL  = time.Hour
	defaultRefreshTTL = 30 * 24 * time.Hour
	minPasswordLen    = 8
)

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	db         *gorm.DB
	log        *logger.Logger
	users      repos.UserRepo
	tokens     repos.UserTokenRepo
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(db *gorm.DB, users repos.UserRepo, tokens repos.UserTokenRepo, baseLog *logger.Logger) (*Service, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET_KEY"))
	if secret == "" {
		return nil, fmt.Errorf("auth: JWT_SECRET_KEY is required")
	}
	return &Service{
		db:         db,
		log:        baseLog.With("service", "AuthService"),
		users:      users,
		tokens:     tokens,
		jwtSecret:  []byte(secret),
		accessTTL:  durationFromEnv("ACCESS_TOKEN_TTL_MINUTES", defaultAccessTTL, time.Minute),
		refreshTTL: durationFromEnv("REFRESH_TOKEN_TTL_HOURS", defaultRefreshTTL, time.Hour),
	}, nil
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	TestUser  bool   `json:"test_user"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*types.User, *TokenPair, error) {
	email := normalizeEmail(in.Email)
	if err := validateRegistration(email, in.Password, in.FirstName); err != nil {
		return nil, nil, err
	}

	exists, err := s.users.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, apierr.BadRequest("email_in_use", errors.New("email already registered"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user := &types.User{
		ID:         uuid.New(),
		Email:      email,
		Password:   string(hash),
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Role:       types.RoleParticipant,
		IsTestUser: in.TestUser,
	}

	var pair *TokenPair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.users.Create(ctx, tx, []*types.User{user}); err != nil {
			return fmt.Errorf("auth: create user: %w", err)
		}
		p, err := s.issueTokens(ctx, tx, user)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("user registered", "user_id", user.ID.String(), "test_user", user.IsTestUser)
	return user, pair, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, apierr.BadRequest("invalid_request", errors.New("email and password are required"))
	}

	users, err := s.users.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return nil, nil, err
	}
	if len(users) == 0 {
		return nil, nil, apierr.Unauthorized(errors.New("invalid credentials"))
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, apierr.Unauthorized(errors.New("invalid credentials"))
	}

	var pair *TokenPair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tokens.DeleteExpired(ctx, tx, time.Now()); err != nil {
			return err
		}
		p, err := s.issueTokens(ctx, tx, user)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("user logged in", "user_id", user.ID.String())
	return user, pair, nil
}

// Refresh rotates the token pair. The presented refresh token is single-use.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, apierr.Unauthorized(errors.New("missing refresh token"))
	}

	rows, err := s.tokens.GetByRefreshTokens(ctx, nil, []string{refreshToken})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apierr.Unauthorized(errors.New("unknown refresh token"))
	}
	row := rows[0]
	if row.ExpiresAt.Before(time.Now()) {
		return nil, apierr.Unauthorized(errors.New("refresh token expired"))
	}

	users, err := s.users.GetByIDs(ctx, nil, []uuid.UUID{row.UserID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apierr.Unauthorized(errors.New("user no longer exists"))
	}

	var pair *TokenPair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tokens.FullDeleteByIDs(ctx, tx, []uuid.UUID{row.ID}); err != nil {
			return err
		}
		p, err := s.issueTokens(ctx, tx, users[0])
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *Service) Logout(ctx context.Context, accessToken string) error {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil
	}
	rows, err := s.tokens.GetByAccessTokens(ctx, nil, []string{accessToken})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return s.tokens.FullDeleteByIDs(ctx, nil, ids)
}

// Authenticate validates the JWT signature and the server-side token row,
// then loads the user. Revoked tokens fail even before their JWT expiry.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*types.User, error) {
	claims, err := s.parseToken(accessToken)
	if err != nil {
		return nil, apierr.Unauthorized(err)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apierr.Unauthorized(errors.New("invalid token subject"))
	}

	rows, err := s.tokens.GetByAccessTokens(ctx, nil, []string{accessToken})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apierr.Unauthorized(errors.New("token revoked"))
	}

	users, err := s.users.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apierr.Unauthorized(errors.New("user no longer exists"))
	}
	return users[0], nil
}

func (s *Service) AccessTTL() time.Duration { return s.accessTTL }

// LoadUser backs the legacy userId-cookie fallback in the auth middleware.
func (s *Service) LoadUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := s.users.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apierr.Unauthorized(errors.New("unknown user"))
	}
	return users[0], nil
}

func (s *Service) issueTokens(ctx context.Context, tx *gorm.DB, user *types.User) (*TokenPair, error) {
	now := time.Now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti keeps tokens unique even when two are signed within
			// the same second for the same user.
			ID:        uuid.New().String(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("auth: sign access token: %w", err)
	}

	pair := &TokenPair{
		AccessToken:  access,
		RefreshToken: uuid.New().String(),
		ExpiresAt:    now.Add(s.refreshTTL),
	}
	row := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	}
	if _, err := s.tokens.Create(ctx, tx, []*types.UserToken{row}); err != nil {
		return nil, fmt.Errorf("auth: persist token: %w", err)
	}
	return pair, nil
}

func (s *Service) parseToken(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, errors.New("missing token")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(email, password, firstName string) error {
	if email == "" || !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		return apierr.BadRequest("invalid_request", errors.New("a valid email is required"))
	}
	if len(password) < minPasswordLen {
		return apierr.BadRequest("invalid_request", fmt.Errorf("password must be at least %d characters", minPasswordLen))
	}
	if strings.TrimSpace(firstName) == "" {
		return apierr.BadRequest("invalid_request", errors.New("first name is required"))
	}
	return nil
}

func durationFromEnv(key string, def time.Duration, unit time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil || n <= 0 {
		return def
	}
	return time.Duration(n) * unit
}
