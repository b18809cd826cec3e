//go:build integration
// +build integration

package repository

import (
	"testing"
	"time"

	"contact-directory-backend/internal/database/models"
	"contact-directory-backend/internal/testutils"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type ContactNoteRepositoryTestSuite struct {
	*testutils.BaseTestSuite
	repo      *ContactNoteRepository
	factories *testutils.FactorySet
}

func (suite *ContactNoteRepositoryTestSuite) SetupSuite() {
	suite.BaseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewContactNoteRepository(suite.DB)
	suite.factories = testutils.NewFactorySet()
}

func (suite *ContactNoteRepositoryTestSuite) seedContact() (*models.User, *models.Organization, *models.Contact) {
	user, org, membership := suite.factories.CreateTenant()
	suite.Require().NoError(suite.DB.Create(user).Error)
	suite.Require().NoError(suite.DB.Create(org).Error)
	suite.Require().NoError(suite.DB.Create(membership).Error)

	contact := suite.factories.Contact.Create(org.ID, user.ID)
	suite.Require().NoError(suite.DB.Create(contact).Error)
	return user, org, contact
}

func (suite *ContactNoteRepositoryTestSuite) TestGetByIDCrossTenant() {
	user, org, contact := suite.seedContact()
	_, orgB, _ := suite.seedContact()

	note := suite.factories.ContactNote.Create(contact.ID, user.ID)
	suite.Require().NoError(suite.repo.Create(note))

	found, err := suite.repo.GetByID(org.ID, note.ID)
	suite.Require().NoError(err)
	suite.Equal(note.ID, found.ID)

	// The note's tenant is the owning contact's organization.
	_, err = suite.repo.GetByID(orgB.ID, note.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *ContactNoteRepositoryTestSuite) TestListByContactNewestFirst() {
	user, org, contact := suite.seedContact()

	older := suite.factories.ContactNote.Create(contact.ID, user.ID)
	older.Body = "older"
	older.CreatedAt = time.Now().Add(-time.Hour)
	suite.Require().NoError(suite.repo.Create(older))

	newer := suite.factories.ContactNote.Create(contact.ID, user.ID)
	newer.Body = "newer"
	suite.Require().NoError(suite.repo.Create(newer))

	notes, err := suite.repo.ListByContact(org.ID, contact.ID)
	suite.Require().NoError(err)
	suite.Require().Len(notes, 2)
	suite.Equal("newer", notes[0].Body)
	suite.Equal("older", notes[1].Body)
	suite.Require().NotNil(notes[0].Author)
	suite.Equal(user.ID, notes[0].Author.ID)
}

func (suite *ContactNoteRepositoryTestSuite) TestDelete() {
	user, org, contact := suite.seedContact()
	_, orgB, _ := suite.seedContact()

	note := suite.factories.ContactNote.Create(contact.ID, user.ID)
	suite.Require().NoError(suite.repo.Create(note))

	suite.ErrorIs(suite.repo.Delete(orgB.ID, note.ID), gorm.ErrRecordNotFound)

	suite.Require().NoError(suite.repo.Delete(org.ID, note.ID))
	_, err := suite.repo.GetByID(org.ID, note.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func TestContactNoteRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ContactNoteRepositoryTestSuite))
}
