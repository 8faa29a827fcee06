// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/papan-digital/minbar/internal/model"
)

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error

	// content functions
	CreateContent(item model.ContentItem) (model.ContentItem, error)
	GetContentByID(id string) (model.ContentItem, error)
	ListContentByStatus(status model.ContentStatus) ([]model.ContentItem, error)
	ListContentBySubmitter(userID string) ([]model.ContentItem, error)
	UpdateContentStatus(id string, from model.ContentStatus, item model.ContentItem) (bool, error)
	ListContentDueToExpire(asOf time.Time) ([]model.ContentItem, error)

	// assignment functions
	CreateAssignment(a model.Assignment) (model.Assignment, error)
	GetAssignmentByID(id string) (model.Assignment, error)
	UpdateAssignment(a model.Assignment) error
	SetAssignmentActive(id string, active bool) error
	ListAssignmentsForDisplay(displayID string) ([]model.Assignment, error)
	ListAssignmentsForContent(contentID string) ([]model.Assignment, error)
	RecordAssignmentDisplayed(assignmentID string, shownAt time.Time) error

	// sponsorship functions
	GetSponsorshipByID(id string) (*model.SponsorshipBoost, error)

	// display functions
	CreateDisplay(d model.Display) (model.Display, error)
	GetDisplayByID(id string) (model.Display, error)
	ListDisplays() ([]model.Display, error)
	UpdateDisplayConfig(d model.Display) error

	// analytics functions
	AppendImpression(imp model.Impression) (bool, error)
	LedgerForDisplay(displayID string, since, until time.Time) (model.FrequencyLedger, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	if conn == nil {
		conn = DB
	}
	return &pgStore{db: conn}
}
