package application

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventhub/internal/domain/entity"
	repo "github.com/oksasatya/eventhub/internal/domain/repository"
	"github.com/oksasatya/eventhub/pkg/helpers"
	"github.com/oksasatya/eventhub/pkg/validation"
)

// IdentityReader exposes the current identity as a synchronous snapshot.
type IdentityReader interface {
	Current() (entity.User, bool)
}

// IdentityResolver maps weak identity references to identities.
type IdentityResolver interface {
	Resolve(ctx context.Context, ids []string) []entity.User
}

// FilterCriteria narrows the catalog. Zero values mean no constraint.
type FilterCriteria struct {
	Category entity.Category `json:"category,omitempty"`
	Search   string          `json:"search,omitempty"`
}

func (f FilterCriteria) match(e entity.Event) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q) ||
		strings.Contains(strings.ToLower(e.Location), q)
}

type CatalogState struct {
	Events   []entity.Event `json:"events"`
	Filtered []entity.Event `json:"filteredEvents"`
	Selected *entity.Event  `json:"selectedEvent"`
	Criteria FilterCriteria `json:"criteria"`
	Loading  bool           `json:"loading"`
	Error    string         `json:"error,omitempty"`
}

type CatalogStats struct {
	Events  int   `json:"events"`
	RSVPs   int64 `json:"rsvps"`
	Leaves  int64 `json:"leaves"`
	Created int64 `json:"created"`
}

// MyEvents splits the events a user participates in.
type MyEvents struct {
	Active []entity.Event `json:"upcoming"`
	Past   []entity.Event `json:"past"`
}

type CreateEventInput struct {
	Title            string          `json:"title" validate:"required"`
	Description      string          `json:"description" validate:"required"`
	ShortDescription string          `json:"shortDescription" validate:"required,max=150"`
	Category         entity.Category `json:"category" validate:"required,category"`
	StartDate        time.Time       `json:"startDate" validate:"required"`
	EndDate          time.Time       `json:"endDate" validate:"required"`
	Location         string          `json:"location" validate:"required"`
	CoverImage       string          `json:"coverImage" validate:"required,url"`
}

// compareEvents orders ongoing first, then upcoming before past, and
// otherwise by ascending start.
func compareEvents(a, b entity.Event) int {
	if a.Status == entity.StatusOngoing && b.Status != entity.StatusOngoing {
		return -1
	}
	if a.Status != entity.StatusOngoing && b.Status == entity.StatusOngoing {
		return 1
	}
	if a.Status == entity.StatusUpcoming && b.Status == entity.StatusPast {
		return -1
	}
	if a.Status == entity.StatusPast && b.Status == entity.StatusUpcoming {
		return 1
	}
	return a.StartDate.Compare(b.StartDate)
}

// EventCatalog holds the event universe and the filtered and selected views.
// The views are kept as references into the full list so membership changes
// are visible through all three.
type EventCatalog struct {
	Source   repo.EventSource
	Identity IdentityReader
	Logger   *logrus.Logger
	Clock    helpers.Clock
	Latency  time.Duration

	mu       sync.RWMutex
	events   []entity.Event
	filtered []string
	selected string
	criteria FilterCriteria
	loading  bool
	lastErr  string
	nextID   int
	stats    CatalogStats
}

func NewEventCatalog(source repo.EventSource, identity IdentityReader, logger *logrus.Logger, latency time.Duration) *EventCatalog {
	return &EventCatalog{
		Source:   source,
		Identity: identity,
		Logger:   logger,
		Clock:    helpers.SystemClock,
		Latency:  latency,
		loading:  true,
		nextID:   1,
	}
}

// Initialize loads the event universe, derives statuses and applies the
// baseline order to both the full list and the filtered view.
func (c *EventCatalog) Initialize(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.lastErr = ""
	c.mu.Unlock()

	events, err := c.load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.lastErr = MsgLoadEvents
		if c.Logger != nil {
			c.Logger.WithError(err).Error("load events failed")
		}
		return fmt.Errorf("load events: %w", err)
	}

	now := c.now()
	for i := range events {
		events[i] = events[i].Clone().WithStatus(now)
	}
	slices.SortStableFunc(events, compareEvents)

	c.events = events
	c.criteria = FilterCriteria{}
	c.filtered = lo.Map(events, func(e entity.Event, _ int) string { return e.ID })
	c.selected = ""
	c.nextID = nextEventID(events)
	c.stats.Events = len(events)
	return nil
}

func (c *EventCatalog) load(ctx context.Context) ([]entity.Event, error) {
	if err := helpers.Delay(ctx, c.Latency); err != nil {
		return nil, err
	}
	return c.Source.Events(ctx)
}

func nextEventID(events []entity.Event) int {
	maxID := 0
	for _, e := range events {
		if n, err := strconv.Atoi(e.ID); err == nil && n > maxID {
			maxID = n
		}
	}
	return max(maxID, len(events)) + 1
}

// Filter recomputes the filtered view from the full list and returns it.
func (c *EventCatalog) Filter(criteria FilterCriteria) []entity.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = criteria
	c.filtered = lo.FilterMap(c.events, func(e entity.Event, _ int) (string, bool) {
		return e.ID, criteria.match(e)
	})
	return c.filteredLocked()
}

// GetByID returns the event and marks it selected. A miss leaves the
// selection untouched.
func (c *EventCatalog) GetByID(id string) (entity.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return entity.Event{}, false
	}
	c.selected = id
	return c.events[i].Clone(), true
}

// Find returns the event without touching the selection.
func (c *EventCatalog) Find(id string) (entity.Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOf(id)
	if i < 0 {
		return entity.Event{}, false
	}
	return c.events[i].Clone(), true
}

// RSVP adds the current identity to the event's participants. It reports
// whether membership changed; a missing identity or event is a no-op.
func (c *EventCatalog) RSVP(eventID string) bool {
	user, ok := c.Identity.Current()
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(eventID)
	if i < 0 || c.events[i].HasParticipant(user.ID) {
		return false
	}
	c.events[i].Participants = append(slices.Clone(c.events[i].Participants), user.ID)
	c.stats.RSVPs++
	if c.Logger != nil {
		c.Logger.WithFields(logrus.Fields{"event_id": eventID, "user_id": user.ID}).Debug("rsvp")
	}
	return true
}

// Leave removes the current identity from the event's participants.
func (c *EventCatalog) Leave(eventID string) bool {
	user, ok := c.Identity.Current()
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(eventID)
	if i < 0 || !c.events[i].HasParticipant(user.ID) {
		return false
	}
	c.events[i].Participants = lo.Without(c.events[i].Participants, user.ID)
	c.stats.Leaves++
	if c.Logger != nil {
		c.Logger.WithFields(logrus.Fields{"event_id": eventID, "user_id": user.ID}).Debug("leave")
	}
	return true
}

// Create validates input and adds a new event created by the current
// identity, who becomes its first participant.
func (c *EventCatalog) Create(ctx context.Context, in CreateEventInput) (entity.Event, error) {
	if err := ctx.Err(); err != nil {
		return entity.Event{}, err
	}
	user, ok := c.Identity.Current()
	if !ok {
		return entity.Event{}, ErrNotAuthenticated
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	if err := validation.Struct(in); err != nil {
		return entity.Event{}, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	if !in.EndDate.After(in.StartDate) {
		return entity.Event{}, ErrInvalidSchedule
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	e := entity.Event{
		ID:               strconv.Itoa(c.nextID),
		Title:            in.Title,
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		Category:         in.Category,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		Location:         in.Location,
		CoverImage:       in.CoverImage,
		CreatedBy:        user.ID,
		Participants:     []string{user.ID},
		CreatedAt:        now,
	}.WithStatus(now)
	c.nextID++

	pos, _ := slices.BinarySearchFunc(c.events, e, func(x, t entity.Event) int {
		if compareEvents(x, t) <= 0 {
			return -1
		}
		return 1
	})
	c.events = slices.Insert(c.events, pos, e)
	c.filtered = lo.FilterMap(c.events, func(x entity.Event, _ int) (string, bool) {
		return x.ID, lo.Contains(c.filtered, x.ID) || (x.ID == e.ID && c.criteria.match(e))
	})
	c.stats.Events = len(c.events)
	c.stats.Created++
	if c.Logger != nil {
		c.Logger.WithFields(logrus.Fields{"event_id": e.ID, "user_id": user.ID}).Info("event created")
	}
	return e.Clone(), nil
}

// ParticipatingIn returns the events userID has joined. Active holds ongoing
// and upcoming events by ascending start.
func (c *EventCatalog) ParticipatingIn(userID string) MyEvents {
	c.mu.RLock()
	defer c.mu.RUnlock()
	mine := lo.Filter(c.events, func(e entity.Event, _ int) bool { return e.HasParticipant(userID) })
	active, past := lo.FilterReject(mine, func(e entity.Event, _ int) bool { return e.Status != entity.StatusPast })
	slices.SortStableFunc(active, func(a, b entity.Event) int { return a.StartDate.Compare(b.StartDate) })
	return MyEvents{Active: cloneEvents(active), Past: cloneEvents(past)}
}

// Participants resolves the event's participant references, skipping
// dangling ones.
func (c *EventCatalog) Participants(ctx context.Context, eventID string, resolver IdentityResolver) ([]entity.User, error) {
	c.mu.RLock()
	i := c.indexOf(eventID)
	if i < 0 {
		c.mu.RUnlock()
		return nil, ErrEventNotFound
	}
	ids := slices.Clone(c.events[i].Participants)
	c.mu.RUnlock()
	return resolver.Resolve(ctx, ids), nil
}

// Events returns the full list in baseline order.
func (c *EventCatalog) Events() []entity.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneEvents(c.events)
}

func (c *EventCatalog) Filtered() []entity.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filteredLocked()
}

func (c *EventCatalog) Selected() (entity.Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOf(c.selected)
	if i < 0 {
		return entity.Event{}, false
	}
	return c.events[i].Clone(), true
}

func (c *EventCatalog) State() CatalogState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st := CatalogState{
		Events:   cloneEvents(c.events),
		Filtered: c.filteredLocked(),
		Criteria: c.criteria,
		Loading:  c.loading,
		Error:    c.lastErr,
	}
	if i := c.indexOf(c.selected); i >= 0 {
		st.Selected = lo.ToPtr(c.events[i].Clone())
	}
	return st
}

func (c *EventCatalog) Stats() CatalogStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

func (c *EventCatalog) filteredLocked() []entity.Event {
	out := make([]entity.Event, 0, len(c.filtered))
	for _, id := range c.filtered {
		if i := c.indexOf(id); i >= 0 {
			out = append(out, c.events[i].Clone())
		}
	}
	return out
}

func (c *EventCatalog) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(c.events, func(e entity.Event) bool { return e.ID == id })
}

func (c *EventCatalog) now() time.Time {
	if c.Clock == nil {
		return helpers.SystemClock()
	}
	return c.Clock()
}

func cloneEvents(events []entity.Event) []entity.Event {
	return lo.Map(events, func(e entity.Event, _ int) entity.Event { return e.Clone() })
}
