package scheduling

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/papan-digital/minbar/internal/model"
)

// Store is the slice of the persistence layer a scheduling tick reads, plus
// the two writes the engine owns (status transitions, impression append).
// db.Store satisfies it.
type Store interface {
	GetDisplayByID(id string) (model.Display, error)
	ListAssignmentsForDisplay(displayID string) ([]model.Assignment, error)
	GetContentByID(id string) (model.ContentItem, error)
	GetSponsorshipByID(id string) (*model.SponsorshipBoost, error)
	LedgerForDisplay(displayID string, since, until time.Time) (model.FrequencyLedger, error)
	UpdateContentStatus(id string, from model.ContentStatus, item model.ContentItem) (bool, error)
	ListContentDueToExpire(asOf time.Time) ([]model.ContentItem, error)
	AppendImpression(imp model.Impression) (bool, error)
	RecordAssignmentDisplayed(assignmentID string, shownAt time.Time) error
}

// PrayerSource supplies one zone-day of prayer windows. Implementations are
// expected to serve cached data when the upstream feed is down; the engine
// only fails closed when even the cache has nothing usable.
type PrayerSource interface {
	Day(ctx context.Context, zone string, date time.Time) (model.PrayerDay, error)
}

// Action is a requested approval-state transition.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionExpire  Action = "expire"
)

// Engine wires the pure scheduling core to its collaborators. Ticks are
// stateless and per-display; Engines are safe for concurrent use.
type Engine struct {
	store   Store
	prayers PrayerSource

	// prayerTimeout bounds the collaborator read inside a tick.
	prayerTimeout time.Duration
}

func NewEngine(store Store, prayers PrayerSource) *Engine {
	return &Engine{store: store, prayers: prayers, prayerTimeout: 3 * time.Second}
}

// ComputeSchedule builds the playback queue for one display at one instant.
// An empty queue is a valid result, not an error. Nothing is persisted.
func (e *Engine) ComputeSchedule(ctx context.Context, displayID string, instant time.Time) ([]model.ScheduleEntry, error) {
	display, err := e.store.GetDisplayByID(displayID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("display", displayID)
		}
		return nil, err
	}

	assignments, err := e.store.ListAssignmentsForDisplay(displayID)
	if err != nil {
		return nil, err
	}

	cands := e.loadCandidates(assignments)

	tc := tickContext{instant: instant, display: display}
	tc.ledger = e.loadLedger(displayID, instant)
	tc.prayers, tc.prayerDataOK = e.loadPrayers(ctx, display, instant, cands)

	eligibleCands := make([]candidate, 0, len(cands))
	for _, c := range cands {
		ok, reason := eligible(c, tc)
		if !ok {
			log.Debug().
				Str("assignment", c.assignment.ID).
				Str("display", displayID).
				Str("reason", reason).
				Msg("assignment skipped")
			continue
		}
		c.score = EffectivePriority(c.assignment, activeBoost(c.sponsorship, instant))
		eligibleCands = append(eligibleCands, c)
	}

	return buildQueue(eligibleCands, tc), nil
}

// TransitionContent applies an approval action to a content item. The status
// write is compare-and-set on the previous status, so two admins racing on
// the same item resolve to exactly one winner.
func (e *Engine) TransitionContent(contentID string, action Action, actorID, reason string, now time.Time) (model.ContentItem, error) {
	item, err := e.store.GetContentByID(contentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ContentItem{}, notFound("content", contentID)
		}
		return model.ContentItem{}, err
	}
	previous := item.Status

	var updated model.ContentItem
	switch action {
	case ActionApprove:
		updated, err = Approve(item, actorID, reason, now)
	case ActionReject:
		updated, err = Reject(item, actorID, reason, now)
	case ActionExpire:
		updated, err = Expire(item, now)
		if err == nil && updated.Status == previous {
			// idempotent no-op, nothing to write
			return updated, nil
		}
	default:
		return model.ContentItem{}, validationError("unknown action %q", action)
	}
	if err != nil {
		return model.ContentItem{}, err
	}

	swapped, err := e.store.UpdateContentStatus(contentID, previous, updated)
	if err != nil {
		return model.ContentItem{}, err
	}
	if !swapped {
		return model.ContentItem{}, invalidTransition("content %s changed state concurrently", contentID)
	}
	return updated, nil
}

// ExpireDueContent sweeps active content past its validity window. Invoked
// periodically by the host; losing a race with another sweep is harmless.
func (e *Engine) ExpireDueContent(asOf time.Time) (int, error) {
	due, err := e.store.ListContentDueToExpire(asOf)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, item := range due {
		if _, err := e.TransitionContent(item.ID, ActionExpire, "", "", asOf); err != nil {
			log.Error().Err(err).Str("content", item.ID).Msg("expiry sweep failed for item")
			continue
		}
		expired++
	}
	return expired, nil
}

// RecordImpression appends one display report. Duplicate reports for the same
// (assignment, shownAt) collapse; only first delivery bumps the assignment's
// advisory bookkeeping.
func (e *Engine) RecordImpression(imp model.Impression) error {
	if imp.AssignmentID == "" || imp.DisplayID == "" || imp.ShownAt.IsZero() {
		return validationError("impression requires assignment, display and shown_at")
	}
	if imp.ActualDuration < 0 {
		return validationError("impression duration cannot be negative")
	}

	inserted, err := e.store.AppendImpression(imp)
	if err != nil {
		return err
	}
	if !inserted {
		return nil // retry of an already-recorded report
	}
	if err := e.store.RecordAssignmentDisplayed(imp.AssignmentID, imp.ShownAt); err != nil {
		// Bookkeeping only; the ledger query stays correct without it.
		log.Warn().Err(err).Str("assignment", imp.AssignmentID).Msg("could not bump display bookkeeping")
	}
	return nil
}

func (e *Engine) loadCandidates(assignments []model.Assignment) []candidate {
	sponsorships := map[string]*model.SponsorshipBoost{}
	cands := make([]candidate, 0, len(assignments))
	for _, a := range assignments {
		content, err := e.store.GetContentByID(a.ContentID)
		if err != nil {
			log.Warn().Err(err).Str("assignment", a.ID).Str("content", a.ContentID).Msg("content lookup failed, skipping assignment")
			continue
		}

		var boost *model.SponsorshipBoost
		if a.SponsorshipID != nil {
			id := *a.SponsorshipID
			if cached, ok := sponsorships[id]; ok {
				boost = cached
			} else {
				boost, err = e.store.GetSponsorshipByID(id)
				if err != nil && !errors.Is(err, sql.ErrNoRows) {
					log.Warn().Err(err).Str("sponsorship", id).Msg("sponsorship lookup failed")
				}
				sponsorships[id] = boost
			}
		}
		cands = append(cands, candidate{assignment: a, content: content, sponsorship: boost})
	}
	return cands
}

// loadLedger derives the trailing-hour frequency ledger. A failed read
// degrades to an empty ledger: a tick that briefly over-shows is the accepted
// trade against a tick that shows nothing.
func (e *Engine) loadLedger(displayID string, instant time.Time) model.FrequencyLedger {
	ledger, err := e.store.LedgerForDisplay(displayID, instant.Add(-time.Hour), instant)
	if err != nil {
		log.Warn().Err(err).Str("display", displayID).Msg("frequency ledger unavailable, proceeding uncapped")
		return model.EmptyLedger()
	}
	return ledger
}

// loadPrayers fetches the display zone's prayer day, but only when at least
// one candidate declares avoidance. ok=false makes those candidates sit out
// the tick.
func (e *Engine) loadPrayers(ctx context.Context, display model.Display, instant time.Time, cands []candidate) (model.PrayerDay, bool) {
	needed := false
	for _, c := range cands {
		if c.assignment.Rules.AvoidPrayerTimes {
			needed = true
			break
		}
	}
	if !needed {
		return model.PrayerDay{}, false
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.prayerTimeout)
	defer cancel()

	day, err := e.prayers.Day(fetchCtx, display.PrayerZone, instant)
	if err != nil {
		log.Warn().Err(err).Str("zone", display.PrayerZone).Msg("prayer schedule unavailable, avoidance-declaring assignments excluded")
		return model.PrayerDay{}, false
	}
	return day, true
}

func activeBoost(boost *model.SponsorshipBoost, instant time.Time) *model.SponsorshipBoost {
	if boost == nil || !boost.ActiveAt(instant) {
		return nil
	}
	return boost
}
