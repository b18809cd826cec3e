package service_test

import (
	"errors"
	"testing"

	"contact-directory-backend/internal/database/models"
	apperrors "contact-directory-backend/internal/errors"
	"contact-directory-backend/internal/mocks"
	"contact-directory-backend/internal/service"
	"contact-directory-backend/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// OrganizationServiceTestSuite defines the test suite for OrganizationService
type OrganizationServiceTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	mockOrgRepo     *mocks.MockOrganizationRepositoryInterface
	mockMemberships *mocks.MockMembershipRepositoryInterface
	mockUsers       *mocks.MockUserRepositoryInterface
	sessions        *session.MemoryStore
	validator       *validator.Validate
	service         *service.OrganizationService
}

// SetupTest sets up the test suite
func (suite *OrganizationServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockOrgRepo = mocks.NewMockOrganizationRepositoryInterface(suite.ctrl)
	suite.mockMemberships = mocks.NewMockMembershipRepositoryInterface(suite.ctrl)
	suite.mockUsers = mocks.NewMockUserRepositoryInterface(suite.ctrl)
	suite.sessions = session.NewMemoryStore()
	suite.validator = validator.New()

	suite.service = service.NewOrganizationService(
		suite.mockOrgRepo,
		suite.mockMemberships,
		suite.mockUsers,
		suite.sessions,
		suite.validator,
	)
}

// TearDownTest cleans up after each test
func (suite *OrganizationServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

// TestCreateOrganization tests that creating an organization makes the actor
// its owner and admin and activates it
func (suite *OrganizationServiceTestSuite) TestCreateOrganization() {
	actorID := uuid.New()
	req := &service.CreateOrganizationRequest{Name: "Acme Corp"}

	suite.mockOrgRepo.EXPECT().SlugExists("acme-corp").Return(false, nil).Times(1)
	suite.mockOrgRepo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(org *models.Organization) error {
			org.ID = uuid.New()
			assert.Equal(suite.T(), "acme-corp", org.Slug)
			assert.Equal(suite.T(), actorID, org.OwnerUserID)
			return nil
		}).
		Times(1)
	suite.mockMemberships.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(m *models.Membership) error {
			assert.Equal(suite.T(), actorID, m.UserID)
			assert.Equal(suite.T(), models.MembershipRoleAdmin, m.Role)
			return nil
		}).
		Times(1)

	response, err := suite.service.Create(actorID, req)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Acme Corp", response.Name)
	assert.Equal(suite.T(), "acme-corp", response.Slug)
	assert.Equal(suite.T(), actorID, response.OwnerUserID)

	// The new organization becomes the actor's active one.
	stored, ok, _ := suite.sessions.Get(actorID)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), response.ID, stored)
}

// TestCreateOrganizationSlugCollision tests the numeric suffix on slug collisions
func (suite *OrganizationServiceTestSuite) TestCreateOrganizationSlugCollision() {
	actorID := uuid.New()
	req := &service.CreateOrganizationRequest{Name: "Acme"}

	suite.mockOrgRepo.EXPECT().SlugExists("acme").Return(true, nil).Times(1)
	suite.mockOrgRepo.EXPECT().SlugExists("acme-1").Return(true, nil).Times(1)
	suite.mockOrgRepo.EXPECT().SlugExists("acme-2").Return(false, nil).Times(1)
	suite.mockOrgRepo.EXPECT().Create(gomock.Any()).Return(nil).Times(1)
	suite.mockMemberships.EXPECT().Create(gomock.Any()).Return(nil).Times(1)

	response, err := suite.service.Create(actorID, req)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "acme-2", response.Slug)
}

// TestCreateOrganizationInvalidSlug tests that an explicit malformed slug is rejected
func (suite *OrganizationServiceTestSuite) TestCreateOrganizationInvalidSlug() {
	actorID := uuid.New()
	req := &service.CreateOrganizationRequest{Name: "Acme", Slug: "Not A Slug!"}

	response, err := suite.service.Create(actorID, req)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), response)
	assert.True(suite.T(), apperrors.IsValidation(err))
}

// TestGetBySlugNonMember tests that non-members are refused
func (suite *OrganizationServiceTestSuite) TestGetBySlugNonMember() {
	userID := uuid.New()
	org := &models.Organization{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      "Acme",
		Slug:      "acme",
	}

	suite.mockOrgRepo.EXPECT().GetBySlug("acme").Return(org, nil).Times(1)
	suite.mockMemberships.EXPECT().
		GetByUserAndOrg(userID, org.ID).
		Return(nil, gorm.ErrRecordNotFound).
		Times(1)

	response, err := suite.service.GetBySlug(userID, "acme")

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), response)
	assert.True(suite.T(), apperrors.IsForbidden(err))
}

// TestGetBySlugUnknown tests that an unknown slug is indistinguishable from a
// foreign one
func (suite *OrganizationServiceTestSuite) TestGetBySlugUnknown() {
	userID := uuid.New()

	suite.mockOrgRepo.EXPECT().GetBySlug("no-such-org").Return(nil, gorm.ErrRecordNotFound).Times(1)

	response, err := suite.service.GetBySlug(userID, "no-such-org")

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), response)
	assert.True(suite.T(), apperrors.IsForbidden(err))
	assert.EqualError(suite.T(), err, "you do not have access to this organization")
}

// TestUpdateNotOwner tests that only the owner may rename the organization
func (suite *OrganizationServiceTestSuite) TestUpdateNotOwner() {
	actorID := uuid.New()
	org := &models.Organization{
		BaseModel:   models.BaseModel{ID: uuid.New()},
		Name:        "Acme",
		Slug:        "acme",
		OwnerUserID: uuid.New(),
	}
	req := &service.UpdateOrganizationRequest{Name: "Acme Renamed", Slug: "acme"}

	suite.mockOrgRepo.EXPECT().GetByID(org.ID).Return(org, nil).Times(1)

	response, err := suite.service.Update(actorID, org.ID, req)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), response)
	assert.True(suite.T(), apperrors.IsForbidden(err))
}

// TestDeleteLastOrganization tests that the owner's sole organization cannot
// be deleted
func (suite *OrganizationServiceTestSuite) TestDeleteLastOrganization() {
	actorID := uuid.New()
	org := &models.Organization{
		BaseModel:   models.BaseModel{ID: uuid.New()},
		Name:        "Acme",
		Slug:        "acme",
		OwnerUserID: actorID,
	}

	suite.mockOrgRepo.EXPECT().GetByID(org.ID).Return(org, nil).Times(1)
	suite.mockMemberships.EXPECT().CountByUser(actorID).Return(int64(1), nil).Times(1)

	err := suite.service.Delete(actorID, org.ID)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrLastOrganization))
}

// TestDeleteRepointsSession tests that after deletion the actor's session
// moves to their oldest remaining membership
func (suite *OrganizationServiceTestSuite) TestDeleteRepointsSession() {
	actorID := uuid.New()
	remainingOrgID := uuid.New()
	org := &models.Organization{
		BaseModel:   models.BaseModel{ID: uuid.New()},
		Name:        "Acme",
		Slug:        "acme",
		OwnerUserID: actorID,
	}
	suite.Require().NoError(suite.sessions.Set(actorID, org.ID))

	suite.mockOrgRepo.EXPECT().GetByID(org.ID).Return(org, nil).Times(1)
	suite.mockMemberships.EXPECT().CountByUser(actorID).Return(int64(2), nil).Times(1)
	suite.mockOrgRepo.EXPECT().DeleteCascade(org.ID).Return(nil).Times(1)
	suite.mockMemberships.EXPECT().
		FirstByUser(actorID).
		Return(&models.Membership{UserID: actorID, OrganizationID: remainingOrgID, Role: models.MembershipRoleAdmin}, nil).
		Times(1)

	err := suite.service.Delete(actorID, org.ID)

	assert.NoError(suite.T(), err)
	stored, ok, _ := suite.sessions.Get(actorID)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), remainingOrgID, stored)
}

// TestInviteUser tests attaching an existing user by email
func (suite *OrganizationServiceTestSuite) TestInviteUser() {
	orgID := uuid.New()
	user := &models.User{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      "Invitee",
		Email:     "invitee@test.com",
	}
	req := &service.InviteUserRequest{Email: "invitee@test.com", Role: "Member"}

	suite.mockUsers.EXPECT().GetByEmail("invitee@test.com").Return(user, nil).Times(1)
	suite.mockMemberships.EXPECT().
		GetByUserAndOrg(user.ID, orgID).
		Return(nil, gorm.ErrRecordNotFound).
		Times(1)
	suite.mockMemberships.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(m *models.Membership) error {
			assert.Equal(suite.T(), models.MembershipRoleMember, m.Role)
			return nil
		}).
		Times(1)

	membership, err := suite.service.InviteUser(orgID, req)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Member", membership.Role)
}

// TestInviteUserUnknownEmail tests that only existing users can be invited
func (suite *OrganizationServiceTestSuite) TestInviteUserUnknownEmail() {
	orgID := uuid.New()
	req := &service.InviteUserRequest{Email: "ghost@test.com", Role: "Member"}

	suite.mockUsers.EXPECT().GetByEmail("ghost@test.com").Return(nil, gorm.ErrRecordNotFound).Times(1)

	membership, err := suite.service.InviteUser(orgID, req)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), membership)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrUserNotFound))
}

// TestInviteUserAlreadyMember tests the duplicate membership guard
func (suite *OrganizationServiceTestSuite) TestInviteUserAlreadyMember() {
	orgID := uuid.New()
	user := &models.User{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      "Invitee",
		Email:     "invitee@test.com",
	}
	req := &service.InviteUserRequest{Email: "invitee@test.com", Role: "Admin"}

	suite.mockUsers.EXPECT().GetByEmail("invitee@test.com").Return(user, nil).Times(1)
	suite.mockMemberships.EXPECT().
		GetByUserAndOrg(user.ID, orgID).
		Return(&models.Membership{UserID: user.ID, OrganizationID: orgID, Role: models.MembershipRoleMember}, nil).
		Times(1)

	membership, err := suite.service.InviteUser(orgID, req)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), membership)
	assert.True(suite.T(), apperrors.IsAlreadyExists(err))
}

// TestRemoveOwnerRejected tests that the owner's membership cannot be removed
func (suite *OrganizationServiceTestSuite) TestRemoveOwnerRejected() {
	ownerID := uuid.New()
	org := &models.Organization{
		BaseModel:   models.BaseModel{ID: uuid.New()},
		Name:        "Acme",
		Slug:        "acme",
		OwnerUserID: ownerID,
	}

	suite.mockOrgRepo.EXPECT().GetByID(org.ID).Return(org, nil).Times(1)

	err := suite.service.RemoveUser(org.ID, ownerID)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrOwnerRemoval))
}

// TestRemoveUserClearsSession tests that removal clears the removed user's
// stale session selection
func (suite *OrganizationServiceTestSuite) TestRemoveUserClearsSession() {
	userID := uuid.New()
	org := &models.Organization{
		BaseModel:   models.BaseModel{ID: uuid.New()},
		Name:        "Acme",
		Slug:        "acme",
		OwnerUserID: uuid.New(),
	}
	suite.Require().NoError(suite.sessions.Set(userID, org.ID))

	suite.mockOrgRepo.EXPECT().GetByID(org.ID).Return(org, nil).Times(1)
	suite.mockMemberships.EXPECT().Delete(userID, org.ID).Return(nil).Times(1)

	err := suite.service.RemoveUser(org.ID, userID)

	assert.NoError(suite.T(), err)
	_, ok, _ := suite.sessions.Get(userID)
	assert.False(suite.T(), ok)
}

// TestOrganizationServiceTestSuite runs the test suite
func TestOrganizationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationServiceTestSuite))
}
