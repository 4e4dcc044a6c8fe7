package lifecycle

import (
	"testing"
	"time"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
)

func utcUser(month time.Month, day int) *models.User {
	return &models.User{ID: 1, BirthMonth: month, BirthDay: day, Timezone: "UTC"}
}

func TestNextBirthday_SkipsPastDates(t *testing.T) {
	owner := utcUser(time.March, 10)
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

	got := NextBirthday(owner, now)
	want := time.Date(2027, time.March, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("NextBirthday = %v, want %v", got, want)
	}
}

func TestNextBirthday_Timezone(t *testing.T) {
	owner := &models.User{BirthMonth: time.March, BirthDay: 10, Timezone: "America/New_York"}
	// 02:00 UTC on March 10 is still March 9 in New York, so the next
	// birthday is local midnight a few hours later, not a year away.
	now := time.Date(2026, time.March, 10, 2, 0, 0, 0, time.UTC)

	got := NextBirthday(owner, now)
	loc, _ := time.LoadLocation("America/New_York")
	want := time.Date(2026, time.March, 10, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("NextBirthday = %v, want %v", got, want)
	}
}

func TestNextBirthday_Feb29NormalizesToMar1(t *testing.T) {
	owner := utcUser(time.February, 29)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	got := NextBirthday(owner, now)
	want := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("NextBirthday = %v, want %v", got, want)
	}
}

func TestCanCreate_WindowBounds(t *testing.T) {
	owner := utcUser(time.March, 10)
	birthday := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"25h before", birthday.Add(-25 * time.Hour), false},
		{"exactly 24h before", birthday.Add(-24 * time.Hour), true},
		{"1h before", birthday.Add(-time.Hour), true},
		{"at the birthday instant", birthday, false},
		{"after the birthday", birthday.Add(time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanCreate(owner, tt.now); got != tt.want {
				t.Fatalf("CanCreate(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func wallAt(birthday time.Time) *models.Wall {
	return &models.Wall{ID: 1, BirthdayAt: birthday, UploadsEnabled: true}
}

func TestStateOf_Transitions(t *testing.T) {
	birthday := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(w *models.Wall)
		now    time.Time
		want   State
	}{
		{"long before", nil, birthday.Add(-30 * time.Hour), NotYetCreatable},
		{"inside creation window", nil, birthday.Add(-2 * time.Hour), CreatableWindow},
		{"at birthday instant", nil, birthday, ActiveOpen},
		{"mid window", nil, birthday.Add(12 * time.Hour), ActiveOpen},
		{"paused mid window", func(w *models.Wall) { w.UploadPaused = true }, birthday.Add(12 * time.Hour), Paused},
		{"sealed mid window", func(w *models.Wall) { w.IsSealed = true }, birthday.Add(12 * time.Hour), Sealed},
		{"exactly 48h later", nil, birthday.Add(48 * time.Hour), Archived},
		{"sealed then window elapsed", func(w *models.Wall) { w.IsSealed = true }, birthday.Add(72 * time.Hour), Archived},
		{"archived flag set early", func(w *models.Wall) { w.IsArchived = true }, birthday.Add(time.Hour), Archived},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := wallAt(birthday)
			if tt.mutate != nil {
				tt.mutate(w)
			}
			if got := StateOf(w, tt.now); got != tt.want {
				t.Fatalf("StateOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMutable(t *testing.T) {
	birthday := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	w := wallAt(birthday)

	if !Mutable(w, birthday.Add(time.Hour)) {
		t.Error("active wall should be mutable")
	}
	w.IsSealed = true
	if Mutable(w, birthday.Add(time.Hour)) {
		t.Error("sealed wall must not be mutable")
	}
	w.IsSealed = false
	if Mutable(w, birthday.Add(49*time.Hour)) {
		t.Error("archived wall must not be mutable")
	}
	// Pause is a contribution gate, not immutability.
	w.UploadPaused = true
	if !Mutable(w, birthday.Add(time.Hour)) {
		t.Error("paused wall is still mutable by the owner")
	}
}

func TestBirthdayYear_LabelsClosingYear(t *testing.T) {
	// A Dec 31 birthday closes its window in the next calendar year.
	w := wallAt(time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC))
	if got := BirthdayYear(w); got != 2027 {
		t.Fatalf("BirthdayYear = %d, want 2027", got)
	}
	w = wallAt(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))
	if got := BirthdayYear(w); got != 2026 {
		t.Fatalf("BirthdayYear = %d, want 2026", got)
	}
}
