package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/antsoup/auth-backend/internal/apperrors"
	"github.com/antsoup/auth-backend/internal/core/domain"
	portssvc "github.com/antsoup/auth-backend/internal/core/ports/services"
	"github.com/antsoup/auth-backend/internal/core/services"
	"github.com/antsoup/auth-backend/internal/dto"
	"github.com/antsoup/auth-backend/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserRepository (based on UserService usage) ---
type MockUserRepository struct {
	mock.Mock
	SaveUserFn                  func(ctx context.Context, user domain.User) error
	FindUserByIDFn              func(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmailFn           func(ctx context.Context, email string) (*domain.User, error)
	FindUserByUsernameFn        func(ctx context.Context, username string) (*domain.User, error)
	FindUserByProviderDetailsFn func(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error)
	UpdateUserFn                func(ctx context.Context, user domain.User) error
	UpdateLastLoginFn           func(ctx context.Context, userID string, at time.Time) error
	LinkProviderFn              func(ctx context.Context, userID string, provider domain.AuthProvider, providerUserID string, at time.Time) error
	MarkUserDeletedFn           func(ctx context.Context, userID string, deletedAt time.Time) error
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	if m.SaveUserFn != nil {
		return m.SaveUserFn(ctx, user)
	}
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if m.FindUserByIDFn != nil {
		return m.FindUserByIDFn(ctx, userID)
	}
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindUserByEmailFn != nil {
		return m.FindUserByEmailFn(ctx, email)
	}
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.FindUserByUsernameFn != nil {
		return m.FindUserByUsernameFn(ctx, username)
	}
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	if m.FindUserByProviderDetailsFn != nil {
		return m.FindUserByProviderDetailsFn(ctx, provider, providerUserID)
	}
	args := m.Called(ctx, provider, providerUserID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	if m.UpdateUserFn != nil {
		return m.UpdateUserFn(ctx, user)
	}
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	if m.UpdateLastLoginFn != nil {
		return m.UpdateLastLoginFn(ctx, userID, at)
	}
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *MockUserRepository) LinkProvider(ctx context.Context, userID string, provider domain.AuthProvider, providerUserID string, at time.Time) error {
	if m.LinkProviderFn != nil {
		return m.LinkProviderFn(ctx, userID, provider, providerUserID, at)
	}
	args := m.Called(ctx, userID, provider, providerUserID, at)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time) error {
	if m.MarkUserDeletedFn != nil {
		return m.MarkUserDeletedFn(ctx, userID, deletedAt)
	}
	args := m.Called(ctx, userID, deletedAt)
	return args.Error(0)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo, nil)
}

// --- CreateUser Tests ---
func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	username := "testuser"
	email := "test@example.com"
	password := "Passw0rd!9"

	req := dto.SignupRequest{
		Username: username,
		Email:    email,
		Password: password,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, username).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Username == username && user.Email == email &&
			user.PasswordHash != nil && *user.PasswordHash != password
	})).Return(nil).Once()

	createdUser, err := suite.service.CreateUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(createdUser)
	suite.Equal(username, createdUser.Username)
	suite.Equal(email, createdUser.Email)
	suite.NotEmpty(createdUser.UserID)
	suite.Nil(createdUser.PasswordHash) // hash never leaves the service
	suite.Equal(domain.ProviderLocal, createdUser.AuthProvider)
	suite.Equal(domain.StatusActive, createdUser.Status)
	suite.False(createdUser.EmailVerified)

	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_EmailTaken() {
	ctx := context.Background()
	req := dto.SignupRequest{
		Username: "newuser",
		Email:    "taken@example.com",
		Password: "Passw0rd!9",
	}
	existing := &domain.User{UserID: uuid.NewString(), Email: req.Email}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(existing, nil).Once()

	createdUser, err := suite.service.CreateUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(createdUser)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(409, appErr.Code)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_UsernameTaken() {
	ctx := context.Background()
	req := dto.SignupRequest{
		Username: "takenname",
		Email:    "fresh@example.com",
		Password: "Passw0rd!9",
	}
	existing := &domain.User{UserID: uuid.NewString(), Username: req.Username}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, req.Username).Return(existing, nil).Once()

	createdUser, err := suite.service.CreateUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(createdUser)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(409, appErr.Code)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_WeakPasswordRejected() {
	ctx := context.Background()
	req := dto.SignupRequest{
		Username: "weakpw",
		Email:    "weak@example.com",
		Password: "short",
	}

	createdUser, err := suite.service.CreateUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(createdUser)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(400, appErr.Code)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_SaveRaceYieldsConflict() {
	ctx := context.Background()
	req := dto.SignupRequest{
		Username: "racer",
		Email:    "racer@example.com",
		Password: "Passw0rd!9",
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, req.Username).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	createdUser, err := suite.service.CreateUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(createdUser)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(409, appErr.Code)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- AuthenticateUser Tests ---

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	password := "Passw0rd!9"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)

	user := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "active@example.com",
		PasswordHash: &hash,
		Status:       domain.StatusActive,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateLastLogin", ctx, user.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	authenticated, err := suite.service.AuthenticateUser(ctx, user.Email, password)

	suite.Require().NoError(err)
	suite.Require().NotNil(authenticated)
	suite.Equal(user.UserID, authenticated.UserID)
	suite.Nil(authenticated.PasswordHash)
	suite.NotNil(authenticated.LastLoginAt)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownEmailAndWrongPasswordLookAlike() {
	ctx := context.Background()
	password := "Passw0rd!9"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)

	user := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "known@example.com",
		PasswordHash: &hash,
		Status:       domain.StatusActive,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	_, unknownErr := suite.service.AuthenticateUser(ctx, "ghost@example.com", password)
	_, wrongErr := suite.service.AuthenticateUser(ctx, user.Email, "Wr0ngPass!x")

	// The two failure modes must be indistinguishable to the caller.
	suite.Require().Error(unknownErr)
	suite.Require().Error(wrongErr)
	suite.ErrorIs(unknownErr, apperrors.ErrUnauthorized)
	suite.ErrorIs(wrongErr, apperrors.ErrUnauthorized)
	suite.Equal(unknownErr.Error(), wrongErr.Error())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_DisabledAccount() {
	ctx := context.Background()
	password := "Passw0rd!9"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)

	user := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "disabled@example.com",
		PasswordHash: &hash,
		Status:       domain.StatusInactive,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	authenticated, err := suite.service.AuthenticateUser(ctx, user.Email, password)

	suite.Require().Error(err)
	suite.Nil(authenticated)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_GoogleOnlyAccountHasNoPassword() {
	ctx := context.Background()
	user := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "oauth@example.com",
		PasswordHash: nil,
		AuthProvider: domain.ProviderGoogle,
		Status:       domain.StatusActive,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	authenticated, err := suite.service.AuthenticateUser(ctx, user.Email, "anything1!A")

	suite.Require().Error(err)
	suite.Nil(authenticated)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_LastLoginFailureIsNonFatal() {
	ctx := context.Background()
	password := "Passw0rd!9"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)

	user := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "flaky@example.com",
		PasswordHash: &hash,
		Status:       domain.StatusActive,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateLastLogin", ctx, user.UserID, mock.AnythingOfType("time.Time")).Return(assert.AnError).Once()

	authenticated, err := suite.service.AuthenticateUser(ctx, user.Email, password)

	suite.Require().NoError(err)
	suite.Require().NotNil(authenticated)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- GetUserByID Tests ---
func (suite *UserServiceTestSuite) TestGetUserByID_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	expectedUser := &domain.User{UserID: userID, Username: "founduser"}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(expectedUser, nil).Once()

	user, err := suite.service.GetUserByID(ctx, userID)

	suite.Require().NoError(err)
	suite.Equal(expectedUser, user)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.GetUserByID(ctx, userID)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- UpdateUser Tests ---
func (suite *UserServiceTestSuite) TestUpdateUser_ChangesUsernameAfterAvailabilityCheck() {
	ctx := context.Background()
	userID := uuid.NewString()
	current := &domain.User{UserID: userID, Username: "oldname", Email: "u@example.com"}
	newName := "newname"

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(current, nil).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, newName).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.UserID == userID && user.Username == newName
	})).Return(nil).Once()

	updated, err := suite.service.UpdateUser(ctx, userID, dto.UpdateUserRequest{Username: &newName})

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Username)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateUser_ConflictingUsername() {
	ctx := context.Background()
	userID := uuid.NewString()
	current := &domain.User{UserID: userID, Username: "oldname"}
	newName := "takenname"

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(current, nil).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, newName).Return(&domain.User{UserID: uuid.NewString()}, nil).Once()

	updated, err := suite.service.UpdateUser(ctx, userID, dto.UpdateUserRequest{Username: &newName})

	suite.Require().Error(err)
	suite.Nil(updated)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(409, appErr.Code)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- GetOrCreateGoogleUser Tests ---
func (suite *UserServiceTestSuite) TestGetOrCreateGoogleUser_ExistingLinkage() {
	ctx := context.Background()
	providerID := "google-sub-123"
	user := &domain.User{UserID: uuid.NewString(), Email: "g@example.com", AuthProvider: domain.ProviderGoogle}

	suite.mockUserRepo.On("FindUserByProviderDetails", ctx, domain.ProviderGoogle, providerID).Return(user, nil).Once()

	resolved, err := suite.service.GetOrCreateGoogleUser(ctx, domain.GoogleUserInfo{ID: providerID, Email: user.Email})

	suite.Require().NoError(err)
	suite.Equal(user.UserID, resolved.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestGetOrCreateGoogleUser_LinksExistingLocalAccount() {
	ctx := context.Background()
	providerID := "google-sub-456"
	local := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "local@example.com",
		AuthProvider: domain.ProviderLocal,
		Status:       domain.StatusActive,
	}

	suite.mockUserRepo.On("FindUserByProviderDetails", ctx, domain.ProviderGoogle, providerID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, local.Email).Return(local, nil).Once()
	suite.mockUserRepo.On("LinkProvider", ctx, local.UserID, domain.ProviderGoogle, providerID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	resolved, err := suite.service.GetOrCreateGoogleUser(ctx, domain.GoogleUserInfo{ID: providerID, Email: local.Email, VerifiedEmail: true})

	suite.Require().NoError(err)
	suite.Equal(local.UserID, resolved.UserID)
	suite.Equal(domain.ProviderGoogle, resolved.AuthProvider)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestGetOrCreateGoogleUser_CreatesNewAccount() {
	ctx := context.Background()
	providerID := "google-sub-789"
	info := domain.GoogleUserInfo{ID: providerID, Email: "brand.new@example.com", VerifiedEmail: true, Name: "Brand New"}

	suite.mockUserRepo.On("FindUserByProviderDetails", ctx, domain.ProviderGoogle, providerID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, info.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, mock.AnythingOfType("string")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == info.Email && user.AuthProvider == domain.ProviderGoogle &&
			user.PasswordHash == nil && user.EmailVerified
	})).Return(nil).Once()

	resolved, err := suite.service.GetOrCreateGoogleUser(ctx, info)

	suite.Require().NoError(err)
	suite.Require().NotNil(resolved)
	suite.NotEmpty(resolved.UserID)
	suite.NotEmpty(resolved.Username)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- DeleteUser Tests ---
func (suite *UserServiceTestSuite) TestDeleteUser_Success() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("MarkUserDeleted", ctx, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeleteUser(ctx, userID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
