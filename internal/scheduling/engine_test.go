package scheduling

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/papan-digital/minbar/internal/model"
)

// fakeStore is an in-memory Store for engine tests.
type fakeStore struct {
	displays     map[string]model.Display
	assignments  map[string][]model.Assignment
	content      map[string]model.ContentItem
	sponsorships map[string]*model.SponsorshipBoost
	ledger       model.FrequencyLedger
	ledgerErr    error

	impressions map[string]model.Impression // keyed assignmentID|shownAt
	displayed   map[string]int

	statusWrites int
	casResult    *bool // overrides the CAS outcome when set
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		displays:     map[string]model.Display{},
		assignments:  map[string][]model.Assignment{},
		content:      map[string]model.ContentItem{},
		sponsorships: map[string]*model.SponsorshipBoost{},
		ledger:       model.EmptyLedger(),
		impressions:  map[string]model.Impression{},
		displayed:    map[string]int{},
	}
}

func (f *fakeStore) GetDisplayByID(id string) (model.Display, error) {
	d, ok := f.displays[id]
	if !ok {
		return model.Display{}, sql.ErrNoRows
	}
	return d, nil
}

func (f *fakeStore) ListAssignmentsForDisplay(displayID string) ([]model.Assignment, error) {
	return f.assignments[displayID], nil
}

func (f *fakeStore) GetContentByID(id string) (model.ContentItem, error) {
	c, ok := f.content[id]
	if !ok {
		return model.ContentItem{}, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeStore) GetSponsorshipByID(id string) (*model.SponsorshipBoost, error) {
	s, ok := f.sponsorships[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeStore) LedgerForDisplay(string, time.Time, time.Time) (model.FrequencyLedger, error) {
	if f.ledgerErr != nil {
		return model.FrequencyLedger{}, f.ledgerErr
	}
	return f.ledger, nil
}

func (f *fakeStore) UpdateContentStatus(id string, from model.ContentStatus, item model.ContentItem) (bool, error) {
	f.statusWrites++
	if f.casResult != nil {
		return *f.casResult, nil
	}
	current, ok := f.content[id]
	if !ok || current.Status != from {
		return false, nil
	}
	f.content[id] = item
	return true, nil
}

func (f *fakeStore) ListContentDueToExpire(asOf time.Time) ([]model.ContentItem, error) {
	var due []model.ContentItem
	for _, c := range f.content {
		if c.Status == model.ContentStatusActive && c.ValidUntil != nil && c.ValidUntil.Before(asOf) {
			due = append(due, c)
		}
	}
	return due, nil
}

func (f *fakeStore) AppendImpression(imp model.Impression) (bool, error) {
	key := imp.AssignmentID + "|" + imp.ShownAt.UTC().Format(time.RFC3339Nano)
	if _, ok := f.impressions[key]; ok {
		return false, nil
	}
	f.impressions[key] = imp
	return true, nil
}

func (f *fakeStore) RecordAssignmentDisplayed(assignmentID string, _ time.Time) error {
	f.displayed[assignmentID]++
	return nil
}

// fakePrayerSource returns a fixed day or an error.
type fakePrayerSource struct {
	day model.PrayerDay
	err error
}

func (f fakePrayerSource) Day(context.Context, string, time.Time) (model.PrayerDay, error) {
	return f.day, f.err
}

func seedDisplay(f *fakeStore) model.Display {
	d := model.Display{
		ID:               "display-1",
		Name:             "Main hall",
		PrayerZone:       "WLY01",
		Language:         "ms",
		Zone:             "main-hall",
		CarouselInterval: 15,
		MaxContentItems:  10,
		RespectPriority:  true,
	}
	f.displays[d.ID] = d
	return d
}

func seedAssignment(f *fakeStore, id string, tier model.PriorityTier) model.Assignment {
	content := model.ContentItem{
		ID:       "content-" + id,
		Title:    "Item " + id,
		Type:     model.ContentTypeImage,
		URL:      "/uploads/" + id + ".png",
		Duration: 15,
		Status:   model.ContentStatusActive,
	}
	f.content[content.ID] = content

	a := model.Assignment{
		ID:           id,
		ContentID:    content.ID,
		DisplayID:    "display-1",
		BasePriority: tier,
		StartDate:    tickInstant.Add(-24 * time.Hour),
		EndDate:      tickInstant.Add(24 * time.Hour),
		Timezone:     "Asia/Kuala_Lumpur",
		IsActive:     true,
		Rules: model.SchedulingRules{
			MaxDisplaysPerHour: 6,
			MinIntervalMinutes: 10,
		},
	}
	f.assignments[a.DisplayID] = append(f.assignments[a.DisplayID], a)
	return a
}

func TestComputeSchedule_OrdersByEffectivePriority(t *testing.T) {
	store := newFakeStore()
	seedDisplay(store)
	seedAssignment(store, "low", model.PriorityLow)
	seedAssignment(store, "critical", model.PriorityCritical)
	seedAssignment(store, "high", model.PriorityHigh)

	engine := NewEngine(store, fakePrayerSource{})

	entries, err := engine.ComputeSchedule(context.Background(), "display-1", tickInstant)

	assert.NoError(t, err)
	if assert.Len(t, entries, 3) {
		assert.Equal(t, "critical", entries[0].AssignmentID)
		assert.Equal(t, "high", entries[1].AssignmentID)
		assert.Equal(t, "low", entries[2].AssignmentID)
	}
}

func TestComputeSchedule_UnknownDisplayIsNotFound(t *testing.T) {
	engine := NewEngine(newFakeStore(), fakePrayerSource{})

	_, err := engine.ComputeSchedule(context.Background(), "ghost", tickInstant)

	assert.True(t, IsKind(err, KindNotFound))
}

func TestComputeSchedule_EmptyQueueIsNotAnError(t *testing.T) {
	store := newFakeStore()
	seedDisplay(store)

	engine := NewEngine(store, fakePrayerSource{})

	entries, err := engine.ComputeSchedule(context.Background(), "display-1", tickInstant)

	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestComputeSchedule_CapReachedExcludesAssignment(t *testing.T) {
	store := newFakeStore()
	seedDisplay(store)
	a := seedAssignment(store, "capped", model.PriorityHigh)
	seedAssignment(store, "fresh", model.PriorityNormal)
	store.ledger.Counts[a.ID] = a.Rules.MaxDisplaysPerHour

	engine := NewEngine(store, fakePrayerSource{})

	entries, err := engine.ComputeSchedule(context.Background(), "display-1", tickInstant)

	assert.NoError(t, err)
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "fresh", entries[0].AssignmentID)
	}
}

func TestComputeSchedule_LedgerFailureDegradesToUncapped(t *testing.T) {
	store := newFakeStore()
	seedDisplay(store)
	seedAssignment(store, "only", model.PriorityNormal)
	store.ledgerErr = errors.New("analytics store down")

	engine := NewEngine(store, fakePrayerSource{})

	entries, err := engine.ComputeSchedule(context.Background(), "display-1", tickInstant)

	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestComputeSchedule_PrayerFeedDownExcludesAvoiders(t *testing.T) {
	store := newFakeStore()
	seedDisplay(store)
	avoider := seedAssignment(store, "avoider", model.PriorityCritical)
	avoider.Rules.AvoidPrayerTimes = true
	store.assignments["display-1"][0] = avoider
	seedAssignment(store, "plain", model.PriorityLow)

	engine := NewEngine(store, fakePrayerSource{err: errors.New("feed unreachable")})

	entries, err := engine.ComputeSchedule(context.Background(), "display-1", tickInstant)

	assert.NoError(t, err)
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "plain", entries[0].AssignmentID)
	}
}

func TestComputeSchedule_SponsorshipBoostRaisesScore(t *testing.T) {
	store := newFakeStore()
	seedDisplay(store)
	boosted := seedAssignment(store, "boosted", model.PriorityNormal)
	sponsorshipID := "sponsor-1"
	boosted.SponsorshipID = &sponsorshipID
	store.assignments["display-1"][0] = boosted
	store.sponsorships[sponsorshipID] = &model.SponsorshipBoost{
		ID:                 sponsorshipID,
		PriorityMultiplier: 1.8,
		ActiveFrom:         tickInstant.Add(-time.Hour),
		ActiveUntil:        tickInstant.Add(time.Hour),
	}
	seedAssignment(store, "plainhigh", model.PriorityHigh)

	engine := NewEngine(store, fakePrayerSource{})

	entries, err := engine.ComputeSchedule(context.Background(), "display-1", tickInstant)

	assert.NoError(t, err)
	if assert.Len(t, entries, 2) {
		// 5 * 1.8 = 9 beats high's 7
		assert.Equal(t, "boosted", entries[0].AssignmentID)
		assert.Equal(t, 9.0, entries[0].EffectivePriority)
	}
}

func TestComputeSchedule_ExpiredBoostDoesNotCount(t *testing.T) {
	store := newFakeStore()
	seedDisplay(store)
	boosted := seedAssignment(store, "lapsed", model.PriorityNormal)
	sponsorshipID := "sponsor-1"
	boosted.SponsorshipID = &sponsorshipID
	store.assignments["display-1"][0] = boosted
	store.sponsorships[sponsorshipID] = &model.SponsorshipBoost{
		ID:                 sponsorshipID,
		PriorityMultiplier: 2,
		ActiveFrom:         tickInstant.Add(-48 * time.Hour),
		ActiveUntil:        tickInstant.Add(-24 * time.Hour),
	}

	engine := NewEngine(store, fakePrayerSource{})

	entries, err := engine.ComputeSchedule(context.Background(), "display-1", tickInstant)

	assert.NoError(t, err)
	if assert.Len(t, entries, 1) {
		assert.Equal(t, 5.0, entries[0].EffectivePriority)
	}
}

func TestTransitionContent_ApproveHappyPath(t *testing.T) {
	store := newFakeStore()
	store.content["c1"] = model.ContentItem{
		ID:          "c1",
		Status:      model.ContentStatusPending,
		SubmittedBy: "7",
	}

	engine := NewEngine(store, fakePrayerSource{})

	updated, err := engine.TransitionContent("c1", ActionApprove, "3", "", approvalNow)

	assert.NoError(t, err)
	assert.Equal(t, model.ContentStatusActive, updated.Status)
	assert.Equal(t, model.ContentStatusActive, store.content["c1"].Status)
}

func TestTransitionContent_LostCASRaceSurfacesConflict(t *testing.T) {
	store := newFakeStore()
	store.content["c1"] = model.ContentItem{
		ID:          "c1",
		Status:      model.ContentStatusPending,
		SubmittedBy: "7",
	}
	lost := false
	store.casResult = &lost

	engine := NewEngine(store, fakePrayerSource{})

	_, err := engine.TransitionContent("c1", ActionApprove, "3", "", approvalNow)

	assert.True(t, IsKind(err, KindInvalidTransition))
}

func TestTransitionContent_ExpireAlreadyExpiredSkipsWrite(t *testing.T) {
	store := newFakeStore()
	store.content["c1"] = model.ContentItem{ID: "c1", Status: model.ContentStatusExpired}

	engine := NewEngine(store, fakePrayerSource{})

	updated, err := engine.TransitionContent("c1", ActionExpire, "", "", approvalNow)

	assert.NoError(t, err)
	assert.Equal(t, model.ContentStatusExpired, updated.Status)
	assert.Zero(t, store.statusWrites)
}

func TestTransitionContent_UnknownContentIsNotFound(t *testing.T) {
	engine := NewEngine(newFakeStore(), fakePrayerSource{})

	_, err := engine.TransitionContent("ghost", ActionApprove, "3", "", approvalNow)

	assert.True(t, IsKind(err, KindNotFound))
}

func TestExpireDueContent_SweepsOnlyDueItems(t *testing.T) {
	store := newFakeStore()
	past := approvalNow.Add(-time.Hour)
	future := approvalNow.Add(time.Hour)
	store.content["due"] = model.ContentItem{ID: "due", Status: model.ContentStatusActive, ValidUntil: &past}
	store.content["fresh"] = model.ContentItem{ID: "fresh", Status: model.ContentStatusActive, ValidUntil: &future}
	store.content["open"] = model.ContentItem{ID: "open", Status: model.ContentStatusActive}

	engine := NewEngine(store, fakePrayerSource{})

	n, err := engine.ExpireDueContent(approvalNow)

	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, model.ContentStatusExpired, store.content["due"].Status)
	assert.Equal(t, model.ContentStatusActive, store.content["fresh"].Status)
	assert.Equal(t, model.ContentStatusActive, store.content["open"].Status)
}

func TestRecordImpression_FirstDeliveryBumpsBookkeeping(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, fakePrayerSource{})

	imp := model.Impression{
		AssignmentID:   "a1",
		DisplayID:      "display-1",
		ShownAt:        tickInstant,
		ActualDuration: 14,
	}

	assert.NoError(t, engine.RecordImpression(imp))
	assert.Equal(t, 1, store.displayed["a1"])

	// retry collapses, bookkeeping untouched
	assert.NoError(t, engine.RecordImpression(imp))
	assert.Equal(t, 1, store.displayed["a1"])
	assert.Len(t, store.impressions, 1)
}

func TestRecordImpression_RejectsIncompleteReports(t *testing.T) {
	engine := NewEngine(newFakeStore(), fakePrayerSource{})

	err := engine.RecordImpression(model.Impression{DisplayID: "d", ShownAt: tickInstant})
	assert.True(t, IsKind(err, KindValidation))

	err = engine.RecordImpression(model.Impression{
		AssignmentID: "a", DisplayID: "d", ShownAt: tickInstant, ActualDuration: -1,
	})
	assert.True(t, IsKind(err, KindValidation))
}
