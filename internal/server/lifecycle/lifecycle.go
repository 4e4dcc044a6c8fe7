// Package lifecycle implements the wall state machine: when a wall may be
// created, when it accepts contributions, and when it becomes read-only
// forever. All functions are pure over (owner, wall, now) so the state is
// always derived from the clock rather than stored transitions.
package lifecycle

import (
	"time"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
)

// State is the lifecycle position of a wall (or of an owner who has no
// wall yet) at a given instant.
type State string

const (
	// NotYetCreatable: more than 24h before the owner's next birthday.
	NotYetCreatable State = "not_yet_creatable"
	// CreatableWindow: within 24h before the birthday instant; the owner
	// may create the wall.
	CreatableWindow State = "creatable_window"
	// ActiveOpen: the birthday has arrived and the 48h contribution window
	// is running.
	ActiveOpen State = "active_open"
	// Paused: inside the active window but the owner paused uploads.
	Paused State = "paused"
	// Sealed: owner-triggered permanent lock, stronger than pause/disable.
	Sealed State = "sealed"
	// Archived: terminal; the wall is read-only forever.
	Archived State = "archived"
)

// NextBirthday returns the owner's next birthday instant strictly after
// now: local midnight of the birth month/day in the owner's timezone.
// Feb 29 normalizes to Mar 1 in non-leap years. Unknown timezones fall
// back to UTC.
func NextBirthday(owner *models.User, now time.Time) time.Time {
	loc, err := time.LoadLocation(owner.Timezone)
	if err != nil || owner.Timezone == "" {
		loc = time.UTC
	}
	local := now.In(loc)
	candidate := time.Date(local.Year(), owner.BirthMonth, owner.BirthDay, 0, 0, 0, 0, loc)
	if !candidate.After(now) {
		candidate = time.Date(local.Year()+1, owner.BirthMonth, owner.BirthDay, 0, 0, 0, 0, loc)
	}
	return candidate
}

// CreationWindow returns the half-open interval [start, end) within which
// the owner may create a wall for their next birthday. end is the birthday
// instant itself.
func CreationWindow(owner *models.User, now time.Time) (start, end time.Time) {
	end = NextBirthday(owner, now)
	return end.Add(-common.CreationWindow), end
}

// CanCreate reports whether now falls inside the owner's creation window.
// At exactly the birthday instant the window has closed.
func CanCreate(owner *models.User, now time.Time) bool {
	start, end := CreationWindow(owner, now)
	return !now.Before(start) && now.Before(end)
}

// ArchiveAt returns the instant the wall's contribution window ends and
// archival begins: 48h after the birthday instant.
func ArchiveAt(w *models.Wall) time.Time {
	return w.BirthdayAt.Add(common.ActiveWindow)
}

// StateOf derives the wall's lifecycle state at now.
//
// Precedence: archival (flagged or time-elapsed) wins over everything, then
// sealing, then the pause toggle inside the active window. Before the
// birthday instant the wall sits in its creation window.
func StateOf(w *models.Wall, now time.Time) State {
	if w.IsArchived || !now.Before(ArchiveAt(w)) {
		return Archived
	}
	if w.IsSealed {
		return Sealed
	}
	if !now.Before(w.BirthdayAt) {
		if w.UploadPaused {
			return Paused
		}
		return ActiveOpen
	}
	if !now.Before(w.BirthdayAt.Add(-common.CreationWindow)) {
		return CreatableWindow
	}
	return NotYetCreatable
}

// Mutable reports whether the wall accepts any mutation at now. Sealed and
// archived walls reject everything with ErrWallImmutable.
func Mutable(w *models.Wall, now time.Time) bool {
	switch StateOf(w, now) {
	case Sealed, Archived:
		return false
	}
	return true
}

// BirthdayYear returns the year label an archived wall is keyed by: the
// year its contribution window closes in, in the wall's own birthday zone.
func BirthdayYear(w *models.Wall) int {
	return ArchiveAt(w).Year()
}
