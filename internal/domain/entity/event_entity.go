package entity

import (
	"fmt"
	"slices"
	"time"
)

type Category string

const (
	CategoryConference Category = "conference"
	CategoryWorkshop   Category = "workshop"
	CategorySocial     Category = "social"
	CategoryConcert    Category = "concert"
	CategorySports     Category = "sports"
	CategoryOther      Category = "other"
)

// Categories lists the closed category set in display order.
var Categories = []Category{
	CategoryConference,
	CategoryWorkshop,
	CategorySocial,
	CategoryConcert,
	CategorySports,
	CategoryOther,
}

func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// ParseCategory converts raw input into a Category, rejecting unknown values.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusOngoing  Status = "ongoing"
	StatusPast     Status = "past"
)

// StatusAt derives the status of a [start, end] window relative to now.
func StatusAt(start, end, now time.Time) Status {
	switch {
	case now.Before(start):
		return StatusUpcoming
	case now.After(end):
		return StatusPast
	default:
		return StatusOngoing
	}
}

// Event is a catalog entry. CreatedBy and Participants are weak references
// into the identity universe.
type Event struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"shortDescription"`
	Category         Category  `json:"category"`
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	Location         string    `json:"location"`
	CoverImage       string    `json:"coverImage"`
	CreatedBy        string    `json:"createdBy"`
	Participants     []string  `json:"participants"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (e Event) HasParticipant(userID string) bool {
	return slices.Contains(e.Participants, userID)
}

// Clone returns a copy that shares no participant storage with e.
func (e Event) Clone() Event {
	e.Participants = slices.Clone(e.Participants)
	return e
}

// WithStatus returns a copy with Status recomputed for now.
func (e Event) WithStatus(now time.Time) Event {
	e.Status = StatusAt(e.StartDate, e.EndDate, now)
	return e
}
