package classes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
	pkgerrors "github.com/fitdeskhq/fitdesk-backend/pkg/errors"
	"github.com/fitdeskhq/fitdesk-backend/pkg/pagination"
)

// Service defines the class calendar surface.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateClassInput) (*ClassDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ClassDTO, error)
	List(ctx context.Context, filter ListFilter) (*ClassPage, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateClassInput) (*ClassDTO, error)
	Cancel(ctx context.Context, id uuid.UUID) (*ClassDTO, error)
}

type classRepository interface {
	Create(ctx context.Context, session *models.ClassSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ClassSession, error)
	List(ctx context.Context, filter ListFilter) ([]models.ClassSession, error)
	Update(ctx context.Context, session *models.ClassSession) error
	SetStatus(ctx context.Context, id uuid.UUID, status enums.ClassSessionStatus) error
}

// ServiceParams carries the class service dependencies.
type ServiceParams struct {
	Repo classRepository
}

type service struct {
	repo classRepository
}

// NewService builds a class calendar service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("class repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateClassInput) (*ClassDTO, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor id is required")
	}
	startsAt, err := parseStartsAt(input.StartsAt)
	if err != nil {
		return nil, err
	}

	session := models.ClassSession{
		Title:           strings.TrimSpace(input.Title),
		CoachName:       strings.TrimSpace(input.CoachName),
		StartsAt:        startsAt,
		DurationMinutes: input.DurationMinutes,
		Capacity:        input.Capacity,
		Status:          enums.ClassSessionStatusScheduled,
		CreatedBy:       actorID,
	}
	if err := s.repo.Create(ctx, &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create class session")
	}
	return classToDTO(&session), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ClassDTO, error) {
	session, err := s.findSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return classToDTO(session), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (*ClassPage, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list class sessions")
	}
	page, next := pagination.TrimPage(rows, filter.Limit, func(row models.ClassSession) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.StartsAt, ID: row.ID}
	})
	return &ClassPage{Items: classesToDTOs(page), NextCursor: next}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateClassInput) (*ClassDTO, error) {
	session, err := s.findSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status != enums.ClassSessionStatusScheduled {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict,
			"%s classes cannot be edited", session.Status)
	}
	startsAt, err := parseStartsAt(input.StartsAt)
	if err != nil {
		return nil, err
	}

	session.Title = strings.TrimSpace(input.Title)
	session.CoachName = strings.TrimSpace(input.CoachName)
	session.StartsAt = startsAt
	session.DurationMinutes = input.DurationMinutes
	session.Capacity = input.Capacity
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update class session")
	}
	return classToDTO(session), nil
}

// Cancel takes the session off the calendar. The row stays for attendance
// history, so this is a status flip rather than a delete.
func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*ClassDTO, error) {
	session, err := s.findSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status != enums.ClassSessionStatusScheduled {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict,
			"class is already %s", session.Status)
	}
	if err := s.repo.SetStatus(ctx, id, enums.ClassSessionStatusCanceled); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel class session")
	}
	session.Status = enums.ClassSessionStatusCanceled
	return classToDTO(session), nil
}

func (s *service) findSession(ctx context.Context, id uuid.UUID) (*models.ClassSession, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "class id is required")
	}
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "class not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load class session")
	}
	return session, nil
}

func parseStartsAt(value string) (time.Time, error) {
	startsAt, err := time.Parse(startsAtLayout, value)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "startsAt must be RFC 3339")
	}
	return startsAt.UTC(), nil
}
