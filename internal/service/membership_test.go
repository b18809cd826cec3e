package service_test

import (
	"errors"
	"testing"

	"contact-directory-backend/internal/database/models"
	apperrors "contact-directory-backend/internal/errors"
	"contact-directory-backend/internal/mocks"
	"contact-directory-backend/internal/service"
	"contact-directory-backend/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// MembershipServiceTestSuite defines the test suite for MembershipService
type MembershipServiceTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	mockMemberships *mocks.MockMembershipRepositoryInterface
	mockOrgs        *mocks.MockOrganizationRepositoryInterface
	sessions        *session.MemoryStore
	service         *service.MembershipService
}

// SetupTest sets up the test suite
func (suite *MembershipServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockMemberships = mocks.NewMockMembershipRepositoryInterface(suite.ctrl)
	suite.mockOrgs = mocks.NewMockOrganizationRepositoryInterface(suite.ctrl)
	suite.sessions = session.NewMemoryStore()

	suite.service = service.NewMembershipService(suite.mockMemberships, suite.mockOrgs, suite.sessions)
}

// TearDownTest cleans up after each test
func (suite *MembershipServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *MembershipServiceTestSuite) org(slug string) *models.Organization {
	return &models.Organization{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      "Acme",
		Slug:      slug,
	}
}

// TestResolveWithSlug tests resolving via a route slug the user belongs to
func (suite *MembershipServiceTestSuite) TestResolveWithSlug() {
	userID := uuid.New()
	org := suite.org("acme")

	suite.mockOrgs.EXPECT().GetBySlug("acme").Return(org, nil).Times(1)
	suite.mockMemberships.EXPECT().
		GetByUserAndOrg(userID, org.ID).
		Return(&models.Membership{UserID: userID, OrganizationID: org.ID, Role: models.MembershipRoleMember}, nil).
		Times(1)

	orgID, err := suite.service.ResolveActiveOrganization(userID, "acme")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), org.ID, orgID)

	// Successful resolution persists the selection.
	stored, ok, err := suite.sessions.Get(userID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), org.ID, stored)
}

// TestResolveWithSlugNotMember tests that a slug for an organization the user
// does not belong to is refused, never silently ignored
func (suite *MembershipServiceTestSuite) TestResolveWithSlugNotMember() {
	userID := uuid.New()
	org := suite.org("other-org")

	suite.mockOrgs.EXPECT().GetBySlug("other-org").Return(org, nil).Times(1)
	suite.mockMemberships.EXPECT().
		GetByUserAndOrg(userID, org.ID).
		Return(nil, gorm.ErrRecordNotFound).
		Times(1)

	orgID, err := suite.service.ResolveActiveOrganization(userID, "other-org")

	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsForbidden(err))
	assert.Equal(suite.T(), uuid.Nil, orgID)

	// A refused slug must not touch the stored selection.
	_, ok, _ := suite.sessions.Get(userID)
	assert.False(suite.T(), ok)
}

// TestResolveWithUnknownSlug tests that an unknown slug resolves the same as a
// foreign one
func (suite *MembershipServiceTestSuite) TestResolveWithUnknownSlug() {
	userID := uuid.New()

	suite.mockOrgs.EXPECT().GetBySlug("nope").Return(nil, gorm.ErrRecordNotFound).Times(1)

	orgID, err := suite.service.ResolveActiveOrganization(userID, "nope")

	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsForbidden(err))
	assert.Equal(suite.T(), uuid.Nil, orgID)
}

// TestResolveFromSession tests that a valid stored selection is reused
func (suite *MembershipServiceTestSuite) TestResolveFromSession() {
	userID := uuid.New()
	orgID := uuid.New()
	suite.Require().NoError(suite.sessions.Set(userID, orgID))

	suite.mockMemberships.EXPECT().
		GetByUserAndOrg(userID, orgID).
		Return(&models.Membership{UserID: userID, OrganizationID: orgID, Role: models.MembershipRoleMember}, nil).
		Times(1)

	resolved, err := suite.service.ResolveActiveOrganization(userID, "")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), orgID, resolved)
}

// TestResolveStaleSessionFallsBack tests that a stored selection the user no
// longer belongs to falls back to the oldest membership
func (suite *MembershipServiceTestSuite) TestResolveStaleSessionFallsBack() {
	userID := uuid.New()
	staleOrgID := uuid.New()
	oldestOrgID := uuid.New()
	suite.Require().NoError(suite.sessions.Set(userID, staleOrgID))

	suite.mockMemberships.EXPECT().
		GetByUserAndOrg(userID, staleOrgID).
		Return(nil, gorm.ErrRecordNotFound).
		Times(1)
	suite.mockMemberships.EXPECT().
		FirstByUser(userID).
		Return(&models.Membership{UserID: userID, OrganizationID: oldestOrgID, Role: models.MembershipRoleMember}, nil).
		Times(1)

	resolved, err := suite.service.ResolveActiveOrganization(userID, "")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), oldestOrgID, resolved)

	// The fallback becomes the new stored selection.
	stored, ok, _ := suite.sessions.Get(userID)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), oldestOrgID, stored)
}

// TestResolveNoMemberships tests that a user with no memberships gets
// ErrNoOrganization and a cleared session
func (suite *MembershipServiceTestSuite) TestResolveNoMemberships() {
	userID := uuid.New()
	suite.Require().NoError(suite.sessions.Set(userID, uuid.New()))

	suite.mockMemberships.EXPECT().
		GetByUserAndOrg(userID, gomock.Any()).
		Return(nil, gorm.ErrRecordNotFound).
		Times(1)
	suite.mockMemberships.EXPECT().
		FirstByUser(userID).
		Return(nil, gorm.ErrRecordNotFound).
		Times(1)

	_, err := suite.service.ResolveActiveOrganization(userID, "")

	assert.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrNoOrganization))

	_, ok, _ := suite.sessions.Get(userID)
	assert.False(suite.T(), ok)
}

// TestSwitchOrganization tests the explicit switch action
func (suite *MembershipServiceTestSuite) TestSwitchOrganization() {
	userID := uuid.New()
	org := suite.org("acme")

	suite.mockOrgs.EXPECT().GetBySlug("acme").Return(org, nil).Times(1)
	suite.mockMemberships.EXPECT().
		GetByUserAndOrg(userID, org.ID).
		Return(&models.Membership{UserID: userID, OrganizationID: org.ID, Role: models.MembershipRoleAdmin}, nil).
		Times(1)
	suite.mockOrgs.EXPECT().GetByID(org.ID).Return(org, nil).Times(1)

	response, err := suite.service.SwitchOrganization(userID, "acme")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), org.Slug, response.Slug)

	stored, ok, _ := suite.sessions.Get(userID)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), org.ID, stored)
}

// TestListMemberships tests listing the user's organizations oldest first
func (suite *MembershipServiceTestSuite) TestListMemberships() {
	userID := uuid.New()
	org := suite.org("acme")

	suite.mockMemberships.EXPECT().
		ListByUser(userID).
		Return([]models.Membership{
			{
				UserID:         userID,
				OrganizationID: org.ID,
				Role:           models.MembershipRoleAdmin,
				Organization:   org,
			},
		}, nil).
		Times(1)

	memberships, err := suite.service.ListMemberships(userID)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), memberships, 1)
	assert.Equal(suite.T(), org.ID, memberships[0].OrganizationID)
	assert.Equal(suite.T(), "acme", memberships[0].Slug)
	assert.Equal(suite.T(), "Admin", memberships[0].Role)
}

// TestMembershipServiceTestSuite runs the test suite
func TestMembershipServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MembershipServiceTestSuite))
}
