// Package view maintains the client's renderable wall state: the last
// server snapshot overlaid with in-progress local edits, so a drag or
// rotate never visually snaps back while its save is in flight.
package view

import (
	"sort"
	"sync"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/models"
)

// EditState is the per-photo gesture lifecycle.
type EditState string

const (
	// StateIdle: the photo renders straight from the snapshot.
	StateIdle EditState = "idle"
	// StateEditing: a gesture is in progress; local transform wins.
	StateEditing EditState = "editing"
	// StateSaving: the gesture ended and its write is in flight; the
	// optimistic transform keeps rendering until the server answers.
	StateSaving EditState = "saving"
)

type pendingEdit struct {
	state EditState
	photo models.Photo
}

// Assembler merges server snapshots with pending local edits.
type Assembler struct {
	mu       sync.Mutex
	snapshot *models.View
	edits    map[int64]*pendingEdit
}

func NewAssembler() *Assembler {
	return &Assembler{edits: make(map[int64]*pendingEdit)}
}

// ApplySnapshot installs a fresh server view. A snapshot older than the
// current one is discarded (refreshes can complete out of order), and
// photos with an active edit keep their local transform.
func (a *Assembler) ApplySnapshot(v *models.View) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.snapshot != nil && !v.FetchedAt.After(a.snapshot.FetchedAt) {
		return false
	}
	a.snapshot = v

	// Drop edits for photos that no longer exist.
	present := make(map[int64]bool, len(v.Photos))
	for _, p := range v.Photos {
		present[p.ID] = true
	}
	for id := range a.edits {
		if !present[id] {
			delete(a.edits, id)
		}
	}
	return true
}

// State reports the edit state of a photo.
func (a *Assembler) State(photoID int64) EditState {
	a.mu.Lock()
	defer a.mu.Unlock()
	if e, ok := a.edits[photoID]; ok {
		return e.state
	}
	return StateIdle
}

// BeginEdit starts a gesture on a photo. It returns false when the photo
// is unknown or already has a gesture in flight.
func (a *Assembler) BeginEdit(photoID int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, busy := a.edits[photoID]; busy {
		return false
	}
	p, ok := a.findPhoto(photoID)
	if !ok {
		return false
	}
	a.edits[photoID] = &pendingEdit{state: StateEditing, photo: p}
	return true
}

// UpdateEdit mutates the local working copy mid-gesture.
func (a *Assembler) UpdateEdit(photoID int64, mutate func(*models.Photo)) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.edits[photoID]
	if !ok || e.state != StateEditing {
		return false
	}
	mutate(&e.photo)
	return true
}

// EndEdit finishes the gesture: the edit moves to saving and the optimistic
// transform is returned for the caller to persist.
func (a *Assembler) EndEdit(photoID int64) (models.Photo, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.edits[photoID]
	if !ok || e.state != StateEditing {
		return models.Photo{}, false
	}
	e.state = StateSaving
	return e.photo, true
}

// CompleteSave resolves an in-flight save. On success the server's
// round-tripped transform replaces the optimistic one in the snapshot; on
// failure the photo reverts to the snapshot state. Either way the photo
// returns to idle.
func (a *Assembler) CompleteSave(photoID int64, saved *models.PhotoUpdate, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.edits[photoID]
	if !ok || e.state != StateSaving {
		return
	}
	delete(a.edits, photoID)

	if err != nil || saved == nil || a.snapshot == nil {
		return
	}
	for i := range a.snapshot.Photos {
		if a.snapshot.Photos[i].ID != photoID {
			continue
		}
		p := &a.snapshot.Photos[i]
		p.PosX = saved.PosX
		p.PosY = saved.PosY
		p.Rotation = saved.Rotation
		p.Scale = saved.Scale
		p.Width = saved.Width
		p.Height = saved.Height
		p.ZIndex = saved.ZIndex
		return
	}
}

// Render returns the current view: the snapshot with pending edits
// overlaid, photos in render order (z-index ascending, ties by id).
func (a *Assembler) Render() *models.View {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.snapshot == nil {
		return nil
	}

	out := *a.snapshot
	out.Photos = make([]models.Photo, len(a.snapshot.Photos))
	copy(out.Photos, a.snapshot.Photos)

	for i := range out.Photos {
		if e, ok := a.edits[out.Photos[i].ID]; ok {
			out.Photos[i] = e.photo
		}
	}
	sort.SliceStable(out.Photos, func(i, j int) bool {
		if out.Photos[i].ZIndex != out.Photos[j].ZIndex {
			return out.Photos[i].ZIndex < out.Photos[j].ZIndex
		}
		return out.Photos[i].ID < out.Photos[j].ID
	})
	return &out
}

func (a *Assembler) findPhoto(photoID int64) (models.Photo, bool) {
	if a.snapshot == nil {
		return models.Photo{}, false
	}
	for _, p := range a.snapshot.Photos {
		if p.ID == photoID {
			return p, true
		}
	}
	return models.Photo{}, false
}
