package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/antsoup/auth-backend/internal/apperrors"
	"github.com/antsoup/auth-backend/internal/core/domain"
	portssvc "github.com/antsoup/auth-backend/internal/core/ports/services"
	"github.com/antsoup/auth-backend/internal/core/services"
	"github.com/antsoup/auth-backend/internal/platform/config"
	"github.com/antsoup/auth-backend/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RevokedTokenRepository ---
type MockRevokedTokenRepository struct {
	mock.Mock
	RevokeFn    func(ctx context.Context, entry domain.RevokedToken) error
	IsRevokedFn func(ctx context.Context, tokenHash string, now time.Time) (bool, error)
}

func (m *MockRevokedTokenRepository) Revoke(ctx context.Context, entry domain.RevokedToken) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, entry)
	}
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRevokedTokenRepository) IsRevoked(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	if m.IsRevokedFn != nil {
		return m.IsRevokedFn(ctx, tokenHash, now)
	}
	args := m.Called(ctx, tokenHash, now)
	return args.Bool(0), args.Error(1)
}

// --- Mock UserReaderSvc ---
type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserReader) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserReader) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// --- Test Suite ---
type TokenServiceTestSuite struct {
	suite.Suite
	cfg             *config.Config
	mockUserReader  *MockUserReader
	mockRevokedRepo *MockRevokedTokenRepository
	service         portssvc.TokenSvcFacade
}

func (suite *TokenServiceTestSuite) SetupTest() {
	suite.cfg = &config.Config{
		JWTSecret:         "test-secret-key-for-token-suite",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "auth-backend-test",
		JWTAudience:       "auth-backend-test-clients",
	}
	suite.mockUserReader = new(MockUserReader)
	suite.mockRevokedRepo = new(MockRevokedTokenRepository)
	suite.service = services.NewTokenService(suite.cfg, suite.mockUserReader, suite.mockRevokedRepo)
}

func (suite *TokenServiceTestSuite) activeUser() *domain.User {
	return &domain.User{
		UserID: uuid.NewString(),
		Email:  "token@example.com",
		Status: domain.StatusActive,
	}
}

func (suite *TokenServiceTestSuite) TestGenerateAndResolveRoundTrip() {
	ctx := context.Background()
	user := suite.activeUser()

	token, expiresAt, err := suite.service.GenerateAccessToken(ctx, user)
	suite.Require().NoError(err)
	suite.NotEmpty(token)
	suite.WithinDuration(time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	suite.mockRevokedRepo.On("IsRevoked", ctx, utils.HashSessionToken(token), mock.AnythingOfType("time.Time")).Return(false, nil).Once()
	suite.mockUserReader.On("GetUserByID", ctx, user.UserID).Return(user, nil).Once()

	resolved, err := suite.service.ResolveUserFromToken(ctx, token)

	suite.Require().NoError(err)
	suite.Equal(user.UserID, resolved.UserID)
	suite.Equal(user.Email, resolved.Email)
	suite.mockRevokedRepo.AssertExpectations(suite.T())
	suite.mockUserReader.AssertExpectations(suite.T())
}

func (suite *TokenServiceTestSuite) TestResolve_ExpiredToken() {
	ctx := context.Background()
	user := suite.activeUser()

	expired, err := utils.GenerateJWT(user.UserID, user.Email, suite.cfg.JWTSecret, -time.Minute, suite.cfg.JWTIssuer, suite.cfg.JWTAudience)
	suite.Require().NoError(err)

	resolved, err := suite.service.ResolveUserFromToken(ctx, expired)

	suite.Require().Error(err)
	suite.Nil(resolved)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockRevokedRepo.AssertNotCalled(suite.T(), "IsRevoked", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TokenServiceTestSuite) TestResolve_TamperedToken() {
	ctx := context.Background()
	user := suite.activeUser()

	token, _, err := suite.service.GenerateAccessToken(ctx, user)
	suite.Require().NoError(err)

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	suite.Require().Len(parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	resolved, err := suite.service.ResolveUserFromToken(ctx, tampered)

	suite.Require().Error(err)
	suite.Nil(resolved)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *TokenServiceTestSuite) TestResolve_WrongKey() {
	ctx := context.Background()
	user := suite.activeUser()

	foreign, err := utils.GenerateJWT(user.UserID, user.Email, "a-different-signing-key", time.Hour, suite.cfg.JWTIssuer, suite.cfg.JWTAudience)
	suite.Require().NoError(err)

	resolved, err := suite.service.ResolveUserFromToken(ctx, foreign)

	suite.Require().Error(err)
	suite.Nil(resolved)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *TokenServiceTestSuite) TestResolve_RevokedTokenOverridesValidity() {
	ctx := context.Background()
	user := suite.activeUser()

	token, _, err := suite.service.GenerateAccessToken(ctx, user)
	suite.Require().NoError(err)

	suite.mockRevokedRepo.On("IsRevoked", ctx, utils.HashSessionToken(token), mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	resolved, err := suite.service.ResolveUserFromToken(ctx, token)

	suite.Require().Error(err)
	suite.Nil(resolved)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserReader.AssertNotCalled(suite.T(), "GetUserByID", mock.Anything, mock.Anything)
	suite.mockRevokedRepo.AssertExpectations(suite.T())
}

func (suite *TokenServiceTestSuite) TestResolve_DeletedUser() {
	ctx := context.Background()
	user := suite.activeUser()

	token, _, err := suite.service.GenerateAccessToken(ctx, user)
	suite.Require().NoError(err)

	suite.mockRevokedRepo.On("IsRevoked", ctx, utils.HashSessionToken(token), mock.AnythingOfType("time.Time")).Return(false, nil).Once()
	suite.mockUserReader.On("GetUserByID", ctx, user.UserID).Return(nil, apperrors.ErrNotFound).Once()

	resolved, err := suite.service.ResolveUserFromToken(ctx, token)

	suite.Require().Error(err)
	suite.Nil(resolved)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockRevokedRepo.AssertExpectations(suite.T())
	suite.mockUserReader.AssertExpectations(suite.T())
}

func (suite *TokenServiceTestSuite) TestResolve_DisabledUser() {
	ctx := context.Background()
	user := suite.activeUser()
	user.Status = domain.StatusInactive

	token, _, err := suite.service.GenerateAccessToken(ctx, user)
	suite.Require().NoError(err)

	suite.mockRevokedRepo.On("IsRevoked", ctx, utils.HashSessionToken(token), mock.AnythingOfType("time.Time")).Return(false, nil).Once()
	suite.mockUserReader.On("GetUserByID", ctx, user.UserID).Return(user, nil).Once()

	resolved, err := suite.service.ResolveUserFromToken(ctx, token)

	suite.Require().Error(err)
	suite.Nil(resolved)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *TokenServiceTestSuite) TestRevokeToken_StoresDigestWithTokenExpiry() {
	ctx := context.Background()
	user := suite.activeUser()

	token, expiresAt, err := suite.service.GenerateAccessToken(ctx, user)
	suite.Require().NoError(err)

	suite.mockRevokedRepo.On("Revoke", ctx, mock.MatchedBy(func(entry domain.RevokedToken) bool {
		return entry.TokenHash == utils.HashSessionToken(token) &&
			entry.UserID == user.UserID &&
			entry.ExpiresAt.Sub(expiresAt).Abs() < 2*time.Second
	})).Return(nil).Once()

	err = suite.service.RevokeToken(ctx, token, user.UserID)

	suite.Require().NoError(err)
	suite.mockRevokedRepo.AssertExpectations(suite.T())
}

func (suite *TokenServiceTestSuite) TestRevokeToken_ExpiredTokenStillLandsInRegistry() {
	ctx := context.Background()
	user := suite.activeUser()

	expired, err := utils.GenerateJWT(user.UserID, user.Email, suite.cfg.JWTSecret, -time.Minute, suite.cfg.JWTIssuer, suite.cfg.JWTAudience)
	suite.Require().NoError(err)

	suite.mockRevokedRepo.On("Revoke", ctx, mock.MatchedBy(func(entry domain.RevokedToken) bool {
		return entry.TokenHash == utils.HashSessionToken(expired)
	})).Return(nil).Once()

	err = suite.service.RevokeToken(ctx, expired, user.UserID)

	suite.Require().NoError(err)
	suite.mockRevokedRepo.AssertExpectations(suite.T())
}

func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}
