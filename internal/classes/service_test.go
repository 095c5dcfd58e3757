package classes

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
	pkgerrors "github.com/fitdeskhq/fitdesk-backend/pkg/errors"
	"github.com/fitdeskhq/fitdesk-backend/pkg/pagination"
)

type fakeClassRepo struct {
	rows map[uuid.UUID]*models.ClassSession
}

func newFakeClassRepo() *fakeClassRepo {
	return &fakeClassRepo{rows: map[uuid.UUID]*models.ClassSession{}}
}

func (f *fakeClassRepo) Create(ctx context.Context, session *models.ClassSession) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	session.UpdatedAt = session.CreatedAt
	clone := *session
	f.rows[session.ID] = &clone
	return nil
}

func (f *fakeClassRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ClassSession, error) {
	session, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *session
	return &clone, nil
}

func (f *fakeClassRepo) List(ctx context.Context, filter ListFilter) ([]models.ClassSession, error) {
	var rows []models.ClassSession
	cursor, err := pagination.ParseCursor(filter.Cursor)
	if err != nil {
		return nil, err
	}
	for _, session := range f.rows {
		if filter.From != nil && session.StartsAt.Before(*filter.From) {
			continue
		}
		if cursor != nil && !session.StartsAt.After(cursor.CreatedAt) {
			continue
		}
		rows = append(rows, *session)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].StartsAt.Before(rows[j].StartsAt)
	})
	limit := pagination.LimitWithBuffer(filter.Limit)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeClassRepo) Update(ctx context.Context, session *models.ClassSession) error {
	stored, ok := f.rows[session.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Title = session.Title
	stored.CoachName = session.CoachName
	stored.StartsAt = session.StartsAt
	stored.DurationMinutes = session.DurationMinutes
	stored.Capacity = session.Capacity
	return nil
}

func (f *fakeClassRepo) SetStatus(ctx context.Context, id uuid.UUID, status enums.ClassSessionStatus) error {
	stored, ok := f.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = status
	return nil
}

func newClassService(t *testing.T, repo *fakeClassRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func validCreateInput(startsAt time.Time) CreateClassInput {
	return CreateClassInput{
		Title:           "Morning HIIT",
		CoachName:       "Jordan Blake",
		StartsAt:        startsAt.Format(time.RFC3339),
		DurationMinutes: 45,
		Capacity:        20,
	}
}

func TestCreateSchedulesClass(t *testing.T) {
	repo := newFakeClassRepo()
	svc := newClassService(t, repo)
	startsAt := time.Date(2026, 5, 4, 7, 0, 0, 0, time.UTC)

	dto, err := svc.Create(context.Background(), uuid.New(), validCreateInput(startsAt))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Status != enums.ClassSessionStatusScheduled {
		t.Fatalf("new class must be scheduled, got %s", dto.Status)
	}
	if !dto.StartsAt.Equal(startsAt) {
		t.Fatalf("starts at %s, want %s", dto.StartsAt, startsAt)
	}
}

func TestCreateRejectsMalformedStartTime(t *testing.T) {
	svc := newClassService(t, newFakeClassRepo())
	input := validCreateInput(time.Now())
	input.StartsAt = "2026-05-04"

	_, err := svc.Create(context.Background(), uuid.New(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateRejectsNonScheduled(t *testing.T) {
	repo := newFakeClassRepo()
	svc := newClassService(t, repo)
	startsAt := time.Date(2026, 5, 4, 7, 0, 0, 0, time.UTC)

	dto, err := svc.Create(context.Background(), uuid.New(), validCreateInput(startsAt))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), dto.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	_, err = svc.Update(context.Background(), dto.ID, UpdateClassInput(validCreateInput(startsAt)))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on canceled class, got %v", err)
	}
}

func TestCancelIsNotRepeatable(t *testing.T) {
	repo := newFakeClassRepo()
	svc := newClassService(t, repo)

	dto, err := svc.Create(context.Background(), uuid.New(), validCreateInput(time.Date(2026, 5, 4, 7, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	canceled, err := svc.Cancel(context.Background(), dto.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if canceled.Status != enums.ClassSessionStatusCanceled {
		t.Fatalf("status %s, want canceled", canceled.Status)
	}

	_, err = svc.Cancel(context.Background(), dto.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("second cancel must conflict, got %v", err)
	}
}

func TestListPagesByStartTime(t *testing.T) {
	repo := newFakeClassRepo()
	svc := newClassService(t, repo)
	actor := uuid.New()
	base := time.Date(2026, 5, 4, 7, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		input := validCreateInput(base.Add(time.Duration(i) * 24 * time.Hour))
		if _, err := svc.Create(context.Background(), actor, input); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	first, err := svc.List(context.Background(), ListFilter{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first.Items) != 2 {
		t.Fatalf("first page should have 2 items, got %d", len(first.Items))
	}
	if first.NextCursor == "" {
		t.Fatalf("first page must carry a next cursor")
	}
	if !first.Items[0].StartsAt.Before(first.Items[1].StartsAt) {
		t.Fatalf("items must be ordered soonest first")
	}

	second, err := svc.List(context.Background(), ListFilter{Limit: 2, Cursor: first.NextCursor})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Items) != 1 || second.NextCursor != "" {
		t.Fatalf("second page should be the final single item, got %d items cursor %q", len(second.Items), second.NextCursor)
	}
}

func TestListFromFilter(t *testing.T) {
	repo := newFakeClassRepo()
	svc := newClassService(t, repo)
	actor := uuid.New()
	base := time.Date(2026, 5, 4, 7, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		input := validCreateInput(base.Add(time.Duration(i) * 24 * time.Hour))
		if _, err := svc.Create(context.Background(), actor, input); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	from := base.Add(36 * time.Hour)
	page, err := svc.List(context.Background(), ListFilter{From: &from})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("only the last session starts after the cutoff, got %d", len(page.Items))
	}
}
