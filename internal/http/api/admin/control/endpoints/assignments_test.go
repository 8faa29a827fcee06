package endpoints

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/papan-digital/minbar/internal/http/api"
	"github.com/papan-digital/minbar/internal/http/api/admin/control/packets"
	"github.com/papan-digital/minbar/internal/model"
)

func (s *stubStore) GetDisplayByID(id string) (model.Display, error) {
	d, ok := s.displays[id]
	if !ok {
		return model.Display{}, sql.ErrNoRows
	}
	return d, nil
}

func (s *stubStore) CreateAssignment(a model.Assignment) (model.Assignment, error) {
	s.assignmentByID[a.ID] = a
	return a, nil
}

func (s *stubStore) GetAssignmentByID(id string) (model.Assignment, error) {
	a, ok := s.assignmentByID[id]
	if !ok {
		return model.Assignment{}, sql.ErrNoRows
	}
	return a, nil
}

func (s *stubStore) UpdateAssignment(a model.Assignment) error {
	s.assignmentByID[a.ID] = a
	return nil
}

func (s *stubStore) SetAssignmentActive(id string, active bool) error {
	a, ok := s.assignmentByID[id]
	if !ok {
		return sql.ErrNoRows
	}
	a.IsActive = active
	s.assignmentByID[id] = a
	return nil
}

func newAssignmentRouter(store *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: testSecret,
		Store:     store,
	}, AssignmentModule(store))
	return r
}

func seedAssignmentFixtures(store *stubStore) {
	store.content["content-1"] = model.ContentItem{
		ID:     "content-1",
		Title:  "Ramadan timetable",
		Type:   model.ContentTypeImage,
		Status: model.ContentStatusActive,
	}
	store.displays["display-1"] = model.Display{ID: "display-1", Name: "Main hall", PrayerZone: "WLY01"}
}

func createAssignmentBody() string {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return fmt.Sprintf(`{
		"content_id": "content-1",
		"display_id": "display-1",
		"title": "Ramadan timetable on main hall",
		"base_priority": "high",
		"start_date": %q,
		"end_date": %q
	}`, start.Format(time.RFC3339), start.AddDate(0, 1, 0).Format(time.RFC3339))
}

func TestCreateAssignment_AppliesDefaults(t *testing.T) {
	store := newStubStore()
	auth := seedUser(store, 3)
	seedAssignmentFixtures(store)
	router := newAssignmentRouter(store)

	w := doJSON(router, http.MethodPost, "/api/admin/assignments", auth, createAssignmentBody())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp packets.AssignmentResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "high", resp.BasePriority)
	assert.Equal(t, "Asia/Kuala_Lumpur", resp.Timezone)
	assert.True(t, resp.IsActive)
	assert.True(t, resp.Rules.AvoidPrayerTimes)
	assert.Equal(t, 6, resp.Rules.MaxDisplaysPerHour)
	assert.Equal(t, 10, resp.Rules.MinIntervalMinutes)
	assert.Equal(t, "fullscreen", resp.Layout.Mode)
}

func TestCreateAssignment_UnknownContentIs404(t *testing.T) {
	store := newStubStore()
	auth := seedUser(store, 3)
	store.displays["display-1"] = model.Display{ID: "display-1"}
	router := newAssignmentRouter(store)

	w := doJSON(router, http.MethodPost, "/api/admin/assignments", auth, createAssignmentBody())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateAssignment_BadPriorityIs400(t *testing.T) {
	store := newStubStore()
	auth := seedUser(store, 3)
	seedAssignmentFixtures(store)
	router := newAssignmentRouter(store)

	w := doJSON(router, http.MethodPost, "/api/admin/assignments", auth, fmt.Sprintf(`{
		"content_id": "content-1",
		"display_id": "display-1",
		"title": "Broken tier",
		"base_priority": "mega",
		"start_date": %q,
		"end_date": %q
	}`, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAssignment_PatchesFields(t *testing.T) {
	store := newStubStore()
	auth := seedUser(store, 3)
	seedAssignmentFixtures(store)
	router := newAssignmentRouter(store)

	created := doJSON(router, http.MethodPost, "/api/admin/assignments", auth, createAssignmentBody())
	assert.Equal(t, http.StatusOK, created.Code)

	var resp packets.AssignmentResponse
	assert.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	w := doJSON(router, http.MethodPut, "/api/admin/assignments/"+resp.ID, auth, `{"base_priority": "urgent"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated packets.AssignmentResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "urgent", updated.BasePriority)
	assert.Equal(t, resp.Title, updated.Title)
}

func TestDeactivateAssignment_ClearsActiveFlag(t *testing.T) {
	store := newStubStore()
	auth := seedUser(store, 3)
	seedAssignmentFixtures(store)
	router := newAssignmentRouter(store)

	created := doJSON(router, http.MethodPost, "/api/admin/assignments", auth, createAssignmentBody())
	var resp packets.AssignmentResponse
	assert.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	w := doJSON(router, http.MethodDelete, "/api/admin/assignments/"+resp.ID, auth, "")
	assert.Equal(t, http.StatusOK, w.Code)

	assert.False(t, store.assignmentByID[resp.ID].IsActive)
}
