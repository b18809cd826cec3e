package handlers

import (
	"net/http"
	"testing"

	"contact-directory-backend/internal/api/middleware"
	apperrors "contact-directory-backend/internal/errors"
	"contact-directory-backend/internal/mocks"
	"contact-directory-backend/internal/service"
	"contact-directory-backend/internal/testutils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// OrganizationHandlerTestSuite defines the test suite for OrganizationHandler
type OrganizationHandlerTestSuite struct {
	suite.Suite
	ctrl                    *gomock.Controller
	mockOrganizationService *mocks.MockOrganizationServiceInterface
	mockMembershipService   *mocks.MockMembershipServiceInterface
	mockGate                *mocks.MockAuthorizerInterface
	handler                 *OrganizationHandler
	httpSuite               *testutils.HTTPTestSuite
	userID                  uuid.UUID
	orgID                   uuid.UUID
}

// SetupTest sets up the test suite
func (suite *OrganizationHandlerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockOrganizationService = mocks.NewMockOrganizationServiceInterface(suite.ctrl)
	suite.mockMembershipService = mocks.NewMockMembershipServiceInterface(suite.ctrl)
	suite.mockGate = mocks.NewMockAuthorizerInterface(suite.ctrl)
	suite.handler = NewOrganizationHandler(suite.mockOrganizationService, suite.mockMembershipService, suite.mockGate)

	suite.userID = uuid.New()
	suite.orgID = uuid.New()

	suite.httpSuite = testutils.SetupHTTPTest()

	// Stand in for the auth and organization middleware.
	suite.httpSuite.Router.Use(func(c *gin.Context) {
		c.Set("user_id", suite.userID)
		c.Set(middleware.OrgIDKey, suite.orgID)
		c.Next()
	})

	v1 := suite.httpSuite.Router.Group("/api/v1")
	orgs := v1.Group("/organizations")
	{
		orgs.POST("", suite.handler.Create)
		orgs.GET("/:organization", suite.handler.Get)
		orgs.POST("/:organization/switch", suite.handler.Switch)
		orgs.PUT("/:organization", suite.handler.Update)
		orgs.DELETE("/:organization", suite.handler.Delete)
		orgs.POST("/:organization/members", suite.handler.InviteMember)
		orgs.DELETE("/:organization/members/:user_id", suite.handler.RemoveMember)
	}
}

// TearDownTest cleans up after each test
func (suite *OrganizationHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

// TestCreateOrganization tests creating an organization
func (suite *OrganizationHandlerTestSuite) TestCreateOrganization() {
	requestBody := map[string]interface{}{"name": "Acme Corp"}

	suite.mockOrganizationService.EXPECT().
		Create(suite.userID, gomock.Any()).
		Return(&service.OrganizationResponse{
			ID:          suite.orgID,
			Name:        "Acme Corp",
			Slug:        "acme-corp",
			OwnerUserID: suite.userID,
		}, nil).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("POST", "/api/v1/organizations", requestBody)

	assert.Equal(suite.T(), http.StatusCreated, recorder.Code)

	var response service.OrganizationResponse
	testutils.ParseJSONResponse(suite.T(), recorder, &response)
	assert.Equal(suite.T(), "acme-corp", response.Slug)
	assert.Equal(suite.T(), suite.userID, response.OwnerUserID)
}

// TestGetOrganizationForbidden tests that non-members are refused
func (suite *OrganizationHandlerTestSuite) TestGetOrganizationForbidden() {
	suite.mockOrganizationService.EXPECT().
		GetBySlug(suite.userID, "other-org").
		Return(nil, apperrors.NewForbiddenError("you do not have access to this organization")).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("GET", "/api/v1/organizations/other-org", nil)

	assert.Equal(suite.T(), http.StatusForbidden, recorder.Code)
}

// TestSwitchOrganization tests the explicit switch endpoint
func (suite *OrganizationHandlerTestSuite) TestSwitchOrganization() {
	suite.mockMembershipService.EXPECT().
		SwitchOrganization(suite.userID, "acme").
		Return(&service.OrganizationResponse{ID: suite.orgID, Name: "Acme", Slug: "acme"}, nil).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("POST", "/api/v1/organizations/acme/switch", nil)

	assert.Equal(suite.T(), http.StatusOK, recorder.Code)

	var response service.OrganizationResponse
	testutils.ParseJSONResponse(suite.T(), recorder, &response)
	assert.Equal(suite.T(), "acme", response.Slug)
}

// TestUpdateOrganizationDeniedByGate tests that the manage-organization action
// is required before the service runs
func (suite *OrganizationHandlerTestSuite) TestUpdateOrganizationDeniedByGate() {
	requestBody := map[string]interface{}{"name": "Acme", "slug": "acme"}

	suite.mockGate.EXPECT().
		Authorize(suite.userID, suite.orgID, service.ActionManageOrganization).
		Return(apperrors.NewForbiddenError("you do not have permission to perform this action")).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("PUT", "/api/v1/organizations/acme", requestBody)

	assert.Equal(suite.T(), http.StatusForbidden, recorder.Code)
}

// TestDeleteLastOrganization tests the sole-organization guard response
func (suite *OrganizationHandlerTestSuite) TestDeleteLastOrganization() {
	suite.mockGate.EXPECT().
		Authorize(suite.userID, suite.orgID, service.ActionManageOrganization).
		Return(nil).
		Times(1)
	suite.mockOrganizationService.EXPECT().
		Delete(suite.userID, suite.orgID).
		Return(apperrors.ErrLastOrganization).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("DELETE", "/api/v1/organizations/acme", nil)

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, recorder.Code)
}

// TestInviteMemberConflict tests inviting a user who is already a member
func (suite *OrganizationHandlerTestSuite) TestInviteMemberConflict() {
	requestBody := map[string]interface{}{"email": "invitee@test.com", "role": "Member"}

	suite.mockGate.EXPECT().
		Authorize(suite.userID, suite.orgID, service.ActionInviteUsers).
		Return(nil).
		Times(1)
	suite.mockOrganizationService.EXPECT().
		InviteUser(suite.orgID, gomock.Any()).
		Return(nil, apperrors.ErrMembershipExists).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("POST", "/api/v1/organizations/acme/members", requestBody)

	assert.Equal(suite.T(), http.StatusConflict, recorder.Code)
}

// TestRemoveMember tests removing a member
func (suite *OrganizationHandlerTestSuite) TestRemoveMember() {
	memberID := uuid.New()

	suite.mockGate.EXPECT().
		Authorize(suite.userID, suite.orgID, service.ActionRemoveUsers).
		Return(nil).
		Times(1)
	suite.mockOrganizationService.EXPECT().
		RemoveUser(suite.orgID, memberID).
		Return(nil).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("DELETE", "/api/v1/organizations/acme/members/"+memberID.String(), nil)

	assert.Equal(suite.T(), http.StatusNoContent, recorder.Code)
}

// TestOrganizationHandlerTestSuite runs the test suite
func TestOrganizationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationHandlerTestSuite))
}
