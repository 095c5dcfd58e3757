package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{name: "zero uses default", in: 0, want: DefaultLimit},
		{name: "negative uses default", in: -5, want: DefaultLimit},
		{name: "within range kept", in: 40, want: 40},
		{name: "above max clamped", in: 500, want: MaxLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeLimit(tc.in); got != tc.want {
				t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		ID:        uuid.New(),
	}
	out, err := ParseCursor(EncodeCursor(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out == nil {
		t.Fatalf("expected cursor")
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	c, err := ParseCursor("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != nil {
		t.Fatalf("expected nil cursor for blank input")
	}
}

func TestParseCursorInvalid(t *testing.T) {
	for _, value := range []string{"not-base64!!", "bm90LWEtY3Vyc29y"} {
		if _, err := ParseCursor(value); err == nil {
			t.Fatalf("expected error for %q", value)
		}
	}
}

func TestTrimPage(t *testing.T) {
	type row struct {
		createdAt time.Time
		id        uuid.UUID
	}
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := make([]row, 4)
	for i := range rows {
		rows[i] = row{createdAt: base.Add(-time.Duration(i) * time.Hour), id: uuid.New()}
	}
	keyOf := func(r row) Cursor { return Cursor{CreatedAt: r.createdAt, ID: r.id} }

	page, next := TrimPage(rows, 3, keyOf)
	if len(page) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(page))
	}
	if next == "" {
		t.Fatalf("expected next cursor when buffer row present")
	}
	parsed, err := ParseCursor(next)
	if err != nil {
		t.Fatalf("parse next cursor: %v", err)
	}
	if parsed.ID != rows[2].id {
		t.Fatalf("next cursor should point at last visible row")
	}

	page, next = TrimPage(rows[:2], 3, keyOf)
	if len(page) != 2 || next != "" {
		t.Fatalf("short page must not produce a cursor, got %d rows, cursor %q", len(page), next)
	}
}
