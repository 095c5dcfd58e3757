package classes

import (
	"time"

	"github.com/google/uuid"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
)

const startsAtLayout = time.RFC3339

// CreateClassInput schedules a new class on the calendar.
type CreateClassInput struct {
	Title           string `json:"title" validate:"required,min=1,max=160"`
	CoachName       string `json:"coachName" validate:"required,min=1,max=120"`
	StartsAt        string `json:"startsAt" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,min=5,max=600"`
	Capacity        int    `json:"capacity" validate:"required,min=1,max=500"`
}

// UpdateClassInput carries the schedulable fields of an existing class.
type UpdateClassInput struct {
	Title           string `json:"title" validate:"required,min=1,max=160"`
	CoachName       string `json:"coachName" validate:"required,min=1,max=120"`
	StartsAt        string `json:"startsAt" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,min=5,max=600"`
	Capacity        int    `json:"capacity" validate:"required,min=1,max=500"`
}

// ListFilter narrows class listings.
type ListFilter struct {
	// From drops sessions starting before the given instant.
	From   *time.Time
	Limit  int
	Cursor string
}

// ClassDTO is the API view of a scheduled class.
type ClassDTO struct {
	ID              uuid.UUID                `json:"id"`
	Title           string                   `json:"title"`
	CoachName       string                   `json:"coachName"`
	StartsAt        time.Time                `json:"startsAt"`
	DurationMinutes int                      `json:"durationMinutes"`
	Capacity        int                      `json:"capacity"`
	Status          enums.ClassSessionStatus `json:"status"`
	CreatedAt       time.Time                `json:"createdAt"`
	UpdatedAt       time.Time                `json:"updatedAt"`
}

// ClassPage is one cursor page of the calendar, soonest first.
type ClassPage struct {
	Items      []ClassDTO `json:"items"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

func classToDTO(session *models.ClassSession) *ClassDTO {
	return &ClassDTO{
		ID:              session.ID,
		Title:           session.Title,
		CoachName:       session.CoachName,
		StartsAt:        session.StartsAt,
		DurationMinutes: session.DurationMinutes,
		Capacity:        session.Capacity,
		Status:          session.Status,
		CreatedAt:       session.CreatedAt,
		UpdatedAt:       session.UpdatedAt,
	}
}

func classesToDTOs(sessions []models.ClassSession) []ClassDTO {
	out := make([]ClassDTO, 0, len(sessions))
	for i := range sessions {
		out = append(out, *classToDTO(&sessions[i]))
	}
	return out
}
