package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/repository"
	"github.com/templui/shelf/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
}

type AuthService struct {
	store     *repository.Store
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(store *repository.Store, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		store:     store,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Register creates the account, its profile and the four default lists
// together.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, *model.Profile, error) {
	in.Email = validation.NormalizeEmail(in.Email)
	in.Username = validation.NormalizeUsername(in.Username)

	err := validation.Struct(in)
	if err != nil {
		return nil, nil, validationError("", err)
	}
	err = validation.ValidatePassword(in.Password)
	if err != nil {
		return nil, nil, invalid("password", err)
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: hash,
	}
	profile := &model.Profile{Username: in.Username}

	err = s.store.Do(ctx, func(uow *repository.UnitOfWork) error {
		err := uow.Users.Create(ctx, user)
		if err != nil {
			return err
		}

		profile.UserID = user.ID
		err = uow.Profiles.Create(ctx, profile)
		if err != nil {
			return err
		}

		for _, slot := range model.DefaultSlots {
			err = uow.Lists.Create(ctx, &model.List{
				UserID:    user.ID,
				Name:      slot.DefaultName(),
				ListType:  slot.ListType(),
				Slot:      slot,
				IsDefault: true,
			})
			if err != nil {
				return fmt.Errorf("failed to create default list %s: %w", slot, err)
			}
		}
		return nil
	})
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, nil, conflict("email", err)
	}
	if errors.Is(err, repository.ErrDuplicateUsername) {
		return nil, nil, conflict("username", err)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to register user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "username", profile.Username)
	return user, profile, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = validation.NormalizeEmail(email)

	user, err := s.store.Read().Users.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, &Error{Kind: KindUnauthorized, Err: ErrInvalidCredentials}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() || s.ComparePassword(password, user.PasswordHash) != nil {
		return nil, &Error{Kind: KindUnauthorized, Err: ErrInvalidCredentials}
	}

	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateJWT signs a bearer token for the user and returns its expiry.
func (s *AuthService) GenerateJWT(user *model.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.jwtExpiry)

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// VerifyJWT checks the token signature and expiry and returns the user id it names.
func (s *AuthService) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("token has no user_id claim")
	}
	return userID, nil
}

// Authenticate resolves a bearer token to its user and profile.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*model.User, *model.Profile, error) {
	userID, err := s.VerifyJWT(tokenString)
	if err != nil {
		return nil, nil, &Error{Kind: KindUnauthorized, Err: err}
	}

	repos := s.store.Read()
	user, err := repos.Users.ByID(ctx, userID)
	if err != nil {
		return nil, nil, &Error{Kind: KindUnauthorized, Err: err}
	}

	profile, err := repos.Profiles.ByUserID(ctx, userID)
	if err != nil {
		return nil, nil, &Error{Kind: KindUnauthorized, Err: err}
	}

	user.PasswordHash = ""
	return user, profile, nil
}
