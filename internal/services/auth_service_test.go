package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"roti/internal/models"
	"roti/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, zap.NewNop())
	ctx := context.Background()

	user := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}

	mockRepo.On("GetByUsername", mock.Anything, user.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", mock.Anything, user.Email).Return(nil, nil).Once()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(ctx, user)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Username already taken
	mockRepo.On("GetByUsername", mock.Anything, user.Username).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(ctx, user)
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
	assert.Contains(t, err.Error(), "'testuser'")
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("GetByUsername", mock.Anything, user.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", mock.Anything, user.Email).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(ctx, user)
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, zap.NewNop())
	ctx := context.Background()

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}

	mockRepo.On("GetByUsername", mock.Anything, user.Username).Return(user, nil).Once()
	token, err := authService.LoginUser(ctx, "testuser", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Username, claims["username"])
	assert.Equal(t, models.RoleAdmin, claims["role"])
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByUsername", mock.Anything, user.Username).Return(user, nil).Once()
	_, err = authService.LoginUser(ctx, "testuser", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Unknown user gets the same generic error
	mockRepo.On("GetByUsername", mock.Anything, "nonexistentuser").Return(nil, fmt.Errorf("user nonexistentuser not found")).Once()
	_, err = authService.LoginUser(ctx, "nonexistentuser", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, zap.NewNop())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "testuser", claims["username"])

	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("GetByUsername", mock.Anything, "admin").Return(nil, fmt.Errorf("not found")).Twice()
	mockRepo.On("GetByEmail", mock.Anything, "admin@roti.local").Return(nil, fmt.Errorf("not found")).Once()
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool { return u.Role == models.RoleAdmin })).Return(nil).Once()

	admin, err := authService.EnsureAdmin(ctx, "admin", "admin@roti.local", "s3cret!")
	assert.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	existing := &models.User{ID: "a1", Username: "admin", Role: models.RoleAdmin}
	mockRepo.On("GetByUsername", mock.Anything, "admin").Return(existing, nil).Once()
	admin, err = authService.EnsureAdmin(ctx, "admin", "admin@roti.local", "s3cret!")
	assert.NoError(t, err)
	assert.Equal(t, "a1", admin.ID)
	mockRepo.AssertExpectations(t)
}
