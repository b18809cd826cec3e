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

// ContactHandlerTestSuite defines the test suite for ContactHandler
type ContactHandlerTestSuite struct {
	suite.Suite
	ctrl               *gomock.Controller
	mockContactService *mocks.MockContactServiceInterface
	mockGate           *mocks.MockAuthorizerInterface
	handler            *ContactHandler
	httpSuite          *testutils.HTTPTestSuite
	userID             uuid.UUID
	orgID              uuid.UUID
}

// SetupTest sets up the test suite
func (suite *ContactHandlerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockContactService = mocks.NewMockContactServiceInterface(suite.ctrl)
	suite.mockGate = mocks.NewMockAuthorizerInterface(suite.ctrl)
	suite.handler = NewContactHandler(suite.mockContactService, suite.mockGate)

	suite.userID = uuid.New()
	suite.orgID = uuid.New()

	suite.httpSuite = testutils.SetupHTTPTest()

	// Stand in for the auth and organization middleware.
	suite.httpSuite.Router.Use(func(c *gin.Context) {
		c.Set("user_id", suite.userID)
		c.Set(middleware.OrgIDKey, suite.orgID)
		c.Next()
	})

	contacts := suite.httpSuite.Router.Group("/api/v1/organizations/:organization/contacts")
	{
		contacts.GET("", suite.handler.List)
		contacts.POST("", suite.handler.Create)
		contacts.GET("/:id", suite.handler.Get)
		contacts.PUT("/:id", suite.handler.Update)
		contacts.DELETE("/:id", suite.handler.Delete)
		contacts.GET("/:id/duplicate", suite.handler.Duplicate)
	}
}

// TearDownTest cleans up after each test
func (suite *ContactHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

// TestCreateContact tests creating a contact
func (suite *ContactHandlerTestSuite) TestCreateContact() {
	contactID := uuid.New()
	requestBody := map[string]interface{}{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      "jane@example.com",
	}

	suite.mockGate.EXPECT().
		Authorize(suite.userID, suite.orgID, service.ActionCreateContacts).
		Return(nil).
		Times(1)
	suite.mockContactService.EXPECT().
		Create(suite.orgID, suite.userID, gomock.Any()).
		Return(&service.ContactResponse{
			ID:             contactID,
			OrganizationID: suite.orgID,
			FirstName:      "Jane",
			LastName:       "Doe",
			FullName:       "Jane Doe",
		}, nil).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("POST", "/api/v1/organizations/acme/contacts", requestBody)

	assert.Equal(suite.T(), http.StatusCreated, recorder.Code)

	var response service.ContactResponse
	testutils.ParseJSONResponse(suite.T(), recorder, &response)
	assert.Equal(suite.T(), contactID, response.ID)
	assert.Equal(suite.T(), "Jane Doe", response.FullName)
}

// TestCreateContactDuplicateEmail tests the duplicate-email response contract
func (suite *ContactHandlerTestSuite) TestCreateContactDuplicateEmail() {
	existingID := uuid.New()
	requestBody := map[string]interface{}{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      "jane@example.com",
	}

	suite.mockGate.EXPECT().
		Authorize(suite.userID, suite.orgID, service.ActionCreateContacts).
		Return(nil).
		Times(1)
	suite.mockContactService.EXPECT().
		Create(suite.orgID, suite.userID, gomock.Any()).
		Return(nil, apperrors.NewDuplicateEmailError(existingID)).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("POST", "/api/v1/organizations/acme/contacts", requestBody)

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, recorder.Code)

	var response map[string]interface{}
	testutils.ParseJSONResponse(suite.T(), recorder, &response)
	assert.Equal(suite.T(), "DUPLICATE_EMAIL", response["code"])
	assert.Equal(suite.T(), existingID.String(), response["existing_contact_id"])
}

// TestDeleteContactForbiddenForMember tests that a denied delete surfaces as 403
func (suite *ContactHandlerTestSuite) TestDeleteContactForbiddenForMember() {
	contactID := uuid.New()

	suite.mockGate.EXPECT().
		Authorize(suite.userID, suite.orgID, service.ActionDeleteContacts).
		Return(apperrors.NewForbiddenError("you do not have permission to perform this action")).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("DELETE", "/api/v1/organizations/acme/contacts/"+contactID.String(), nil)

	assert.Equal(suite.T(), http.StatusForbidden, recorder.Code)
	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusForbidden, "you do not have permission")
}

// TestDeleteContact tests a successful delete
func (suite *ContactHandlerTestSuite) TestDeleteContact() {
	contactID := uuid.New()

	suite.mockGate.EXPECT().
		Authorize(suite.userID, suite.orgID, service.ActionDeleteContacts).
		Return(nil).
		Times(1)
	suite.mockContactService.EXPECT().
		Delete(suite.orgID, contactID).
		Return(nil).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("DELETE", "/api/v1/organizations/acme/contacts/"+contactID.String(), nil)

	assert.Equal(suite.T(), http.StatusNoContent, recorder.Code)
}

// TestGetContactNotFound tests that a missing contact surfaces as 404
func (suite *ContactHandlerTestSuite) TestGetContactNotFound() {
	contactID := uuid.New()

	suite.mockGate.EXPECT().
		Authorize(suite.userID, suite.orgID, service.ActionViewContacts).
		Return(nil).
		Times(1)
	suite.mockContactService.EXPECT().
		Get(suite.orgID, contactID).
		Return(nil, apperrors.ErrContactNotFound).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("GET", "/api/v1/organizations/acme/contacts/"+contactID.String(), nil)

	assert.Equal(suite.T(), http.StatusNotFound, recorder.Code)
}

// TestGetContactInvalidID tests the uuid path parameter guard
func (suite *ContactHandlerTestSuite) TestGetContactInvalidID() {
	suite.mockGate.EXPECT().
		Authorize(suite.userID, suite.orgID, service.ActionViewContacts).
		Return(nil).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("GET", "/api/v1/organizations/acme/contacts/not-a-uuid", nil)

	assert.Equal(suite.T(), http.StatusBadRequest, recorder.Code)
}

// TestListContacts tests listing with search and pagination parameters
func (suite *ContactHandlerTestSuite) TestListContacts() {
	suite.mockGate.EXPECT().
		Authorize(suite.userID, suite.orgID, service.ActionViewContacts).
		Return(nil).
		Times(1)
	suite.mockContactService.EXPECT().
		List(suite.orgID, "smith", 2, 10).
		Return(&service.ContactListResponse{
			Contacts: []service.ContactResponse{},
			Total:    0,
			Page:     2,
			PageSize: 10,
		}, nil).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("GET", "/api/v1/organizations/acme/contacts?search=smith&page=2&page_size=10", nil)

	assert.Equal(suite.T(), http.StatusOK, recorder.Code)

	var response service.ContactListResponse
	testutils.ParseJSONResponse(suite.T(), recorder, &response)
	assert.Equal(suite.T(), 2, response.Page)
}

// TestDuplicateContact tests the duplicate draft endpoint
func (suite *ContactHandlerTestSuite) TestDuplicateContact() {
	contactID := uuid.New()

	suite.mockGate.EXPECT().
		Authorize(suite.userID, suite.orgID, service.ActionCreateContacts).
		Return(nil).
		Times(1)
	suite.mockContactService.EXPECT().
		Duplicate(suite.orgID, contactID).
		Return(&service.ContactDraft{FirstName: "Jane", LastName: "Doe"}, nil).
		Times(1)

	recorder := suite.httpSuite.MakeRequest("GET", "/api/v1/organizations/acme/contacts/"+contactID.String()+"/duplicate", nil)

	assert.Equal(suite.T(), http.StatusOK, recorder.Code)

	var draft service.ContactDraft
	testutils.ParseJSONResponse(suite.T(), recorder, &draft)
	assert.Equal(suite.T(), "Jane", draft.FirstName)
}

// TestContactHandlerTestSuite runs the test suite
func TestContactHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ContactHandlerTestSuite))
}
