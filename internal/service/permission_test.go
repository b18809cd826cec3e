package service_test

import (
	"testing"

	"contact-directory-backend/internal/database/models"
	apperrors "contact-directory-backend/internal/errors"
	"contact-directory-backend/internal/mocks"
	"contact-directory-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// PermissionGateTestSuite defines the test suite for PermissionGate
type PermissionGateTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	mockMemberships *mocks.MockMembershipRepositoryInterface
	gate            *service.PermissionGate
}

// SetupTest sets up the test suite
func (suite *PermissionGateTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockMemberships = mocks.NewMockMembershipRepositoryInterface(suite.ctrl)
	suite.gate = service.NewPermissionGate(suite.mockMemberships, service.DefaultPolicy())
}

// TearDownTest cleans up after each test
func (suite *PermissionGateTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *PermissionGateTestSuite) membershipWithRole(userID, orgID uuid.UUID, role models.MembershipRole) *models.Membership {
	return &models.Membership{
		UserID:         userID,
		OrganizationID: orgID,
		Role:           role,
	}
}

// TestAdminAllowedAllActions tests that an Admin membership allows every action
func (suite *PermissionGateTestSuite) TestAdminAllowedAllActions() {
	userID := uuid.New()
	orgID := uuid.New()

	actions := []service.Action{
		service.ActionViewContacts,
		service.ActionCreateContacts,
		service.ActionEditContacts,
		service.ActionDeleteContacts,
		service.ActionManageOrganization,
		service.ActionInviteUsers,
		service.ActionRemoveUsers,
	}

	for _, action := range actions {
		suite.mockMemberships.EXPECT().
			GetByUserAndOrg(userID, orgID).
			Return(suite.membershipWithRole(userID, orgID, models.MembershipRoleAdmin), nil).
			Times(1)

		err := suite.gate.Authorize(userID, orgID, action)
		assert.NoError(suite.T(), err, "admin should be allowed %q", action)
	}
}

// TestMemberAllowedContactWork tests the actions a Member role holds
func (suite *PermissionGateTestSuite) TestMemberAllowedContactWork() {
	userID := uuid.New()
	orgID := uuid.New()

	allowed := []service.Action{
		service.ActionViewContacts,
		service.ActionCreateContacts,
		service.ActionEditContacts,
	}

	for _, action := range allowed {
		suite.mockMemberships.EXPECT().
			GetByUserAndOrg(userID, orgID).
			Return(suite.membershipWithRole(userID, orgID, models.MembershipRoleMember), nil).
			Times(1)

		err := suite.gate.Authorize(userID, orgID, action)
		assert.NoError(suite.T(), err, "member should be allowed %q", action)
	}
}

// TestMemberDeniedPrivilegedActions tests that a Member cannot delete contacts
// or administer the organization
func (suite *PermissionGateTestSuite) TestMemberDeniedPrivilegedActions() {
	userID := uuid.New()
	orgID := uuid.New()

	denied := []service.Action{
		service.ActionDeleteContacts,
		service.ActionManageOrganization,
		service.ActionInviteUsers,
		service.ActionRemoveUsers,
	}

	for _, action := range denied {
		suite.mockMemberships.EXPECT().
			GetByUserAndOrg(userID, orgID).
			Return(suite.membershipWithRole(userID, orgID, models.MembershipRoleMember), nil).
			Times(1)

		err := suite.gate.Authorize(userID, orgID, action)
		assert.Error(suite.T(), err, "member should be denied %q", action)
		assert.True(suite.T(), apperrors.IsForbidden(err))
	}
}

// TestNonMemberDenied tests that a user with no membership is denied like a
// member lacking the action
func (suite *PermissionGateTestSuite) TestNonMemberDenied() {
	userID := uuid.New()
	orgID := uuid.New()

	suite.mockMemberships.EXPECT().
		GetByUserAndOrg(userID, orgID).
		Return(nil, gorm.ErrRecordNotFound).
		Times(1)

	err := suite.gate.Authorize(userID, orgID, service.ActionViewContacts)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsForbidden(err))
	// The message must not reveal whether the user is a member at all.
	assert.Equal(suite.T(), "you do not have permission to perform this action", err.Error())
}

// TestDefaultPolicyApplied tests that a nil policy falls back to the defaults
func (suite *PermissionGateTestSuite) TestDefaultPolicyApplied() {
	userID := uuid.New()
	orgID := uuid.New()
	gate := service.NewPermissionGate(suite.mockMemberships, nil)

	suite.mockMemberships.EXPECT().
		GetByUserAndOrg(userID, orgID).
		Return(suite.membershipWithRole(userID, orgID, models.MembershipRoleMember), nil).
		Times(1)

	err := gate.Authorize(userID, orgID, service.ActionViewContacts)
	assert.NoError(suite.T(), err)
}

// TestLoadPolicyMissingFile tests that a missing policy file yields defaults
func TestLoadPolicyMissingFile(t *testing.T) {
	policy, err := service.LoadPolicy("does/not/exist.yaml")

	assert.NoError(t, err)
	assert.Equal(t, service.DefaultPolicy(), policy)
}

// TestPermissionGateTestSuite runs the test suite
func TestPermissionGateTestSuite(t *testing.T) {
	suite.Run(t, new(PermissionGateTestSuite))
}
