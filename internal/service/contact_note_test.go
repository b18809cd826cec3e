package service_test

import (
	"errors"
	"testing"

	"contact-directory-backend/internal/database/models"
	apperrors "contact-directory-backend/internal/errors"
	"contact-directory-backend/internal/mocks"
	"contact-directory-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// ContactNoteServiceTestSuite defines the test suite for ContactNoteService
type ContactNoteServiceTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockNotes    *mocks.MockContactNoteRepositoryInterface
	mockContacts *mocks.MockContactRepositoryInterface
	service      *service.ContactNoteService
}

// SetupTest sets up the test suite
func (suite *ContactNoteServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockNotes = mocks.NewMockContactNoteRepositoryInterface(suite.ctrl)
	suite.mockContacts = mocks.NewMockContactRepositoryInterface(suite.ctrl)

	suite.service = service.NewContactNoteService(suite.mockNotes, suite.mockContacts, validator.New())
}

// TearDownTest cleans up after each test
func (suite *ContactNoteServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

// TestCreateNote tests adding a note stamped with its author
func (suite *ContactNoteServiceTestSuite) TestCreateNote() {
	orgID := uuid.New()
	contactID := uuid.New()
	actorID := uuid.New()
	contact := &models.Contact{
		BaseModel:      models.BaseModel{ID: contactID},
		OrganizationID: orgID,
		FirstName:      "Jane",
		LastName:       "Doe",
	}
	req := &service.CreateNoteRequest{Body: "Met at the conference"}

	suite.mockContacts.EXPECT().GetByID(orgID, contactID).Return(contact, nil).Times(1)
	suite.mockNotes.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(note *models.ContactNote) error {
			note.ID = uuid.New()
			assert.Equal(suite.T(), contactID, note.ContactID)
			assert.Equal(suite.T(), actorID, note.UserID)
			return nil
		}).
		Times(1)

	response, err := suite.service.Create(orgID, contactID, actorID, req)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), actorID, response.UserID)
	assert.Equal(suite.T(), "Met at the conference", response.Body)
}

// TestCreateNoteContactNotFound tests that a cross-tenant contact id is not found
func (suite *ContactNoteServiceTestSuite) TestCreateNoteContactNotFound() {
	orgID := uuid.New()
	contactID := uuid.New()
	actorID := uuid.New()
	req := &service.CreateNoteRequest{Body: "hello"}

	suite.mockContacts.EXPECT().
		GetByID(orgID, contactID).
		Return(nil, gorm.ErrRecordNotFound).
		Times(1)

	response, err := suite.service.Create(orgID, contactID, actorID, req)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), response)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrContactNotFound))
}

// TestDeleteNoteByAuthor tests that an author can delete their own note
func (suite *ContactNoteServiceTestSuite) TestDeleteNoteByAuthor() {
	orgID := uuid.New()
	contactID := uuid.New()
	noteID := uuid.New()
	authorID := uuid.New()
	note := &models.ContactNote{
		BaseModel: models.BaseModel{ID: noteID},
		ContactID: contactID,
		UserID:    authorID,
		Body:      "mine",
	}

	suite.mockNotes.EXPECT().GetByID(orgID, noteID).Return(note, nil).Times(1)
	suite.mockNotes.EXPECT().Delete(orgID, noteID).Return(nil).Times(1)

	err := suite.service.Delete(orgID, contactID, noteID, authorID)

	assert.NoError(suite.T(), err)
}

// TestDeleteNoteNotAuthor tests that anyone but the author is refused
func (suite *ContactNoteServiceTestSuite) TestDeleteNoteNotAuthor() {
	orgID := uuid.New()
	contactID := uuid.New()
	noteID := uuid.New()
	note := &models.ContactNote{
		BaseModel: models.BaseModel{ID: noteID},
		ContactID: contactID,
		UserID:    uuid.New(),
		Body:      "someone else's",
	}

	suite.mockNotes.EXPECT().GetByID(orgID, noteID).Return(note, nil).Times(1)

	err := suite.service.Delete(orgID, contactID, noteID, uuid.New())

	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsForbidden(err))
}

// TestDeleteNoteWrongContact tests that a note id under the wrong contact is
// treated as missing
func (suite *ContactNoteServiceTestSuite) TestDeleteNoteWrongContact() {
	orgID := uuid.New()
	noteID := uuid.New()
	actorID := uuid.New()
	note := &models.ContactNote{
		BaseModel: models.BaseModel{ID: noteID},
		ContactID: uuid.New(),
		UserID:    actorID,
		Body:      "misplaced",
	}

	suite.mockNotes.EXPECT().GetByID(orgID, noteID).Return(note, nil).Times(1)

	err := suite.service.Delete(orgID, uuid.New(), noteID, actorID)

	assert.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrContactNoteNotFound))
}

// TestContactNoteServiceTestSuite runs the test suite
func TestContactNoteServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ContactNoteServiceTestSuite))
}
