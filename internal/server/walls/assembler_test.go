package walls

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/lifecycle"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/permission"
)

func viewFixture() *fakeRepoManager {
	m := fixtureManager()
	m.w.wall = activeWall()
	m.u.tribeCount = 4

	uid := mateID
	m.p.list = []*models.Photo{
		{ID: 1, WallID: 10, StorageKey: "walls/10/a", UploaderName: "Max", UploaderID: &uid,
			Frame: models.FrameClassic, PosX: 50, PosY: 60, Scale: 1, Width: 300, Height: 200, ZIndex: 1},
		{ID: 2, WallID: 10, StorageKey: "walls/10/b", UploaderName: "Kim",
			Frame: models.FrameGold, Scale: 1, Width: 300, Height: 200, ZIndex: 3},
	}
	m.r.rows = []*models.Reaction{
		{ID: 1, PhotoID: 1, UserID: mateID, Emoji: "❤️"},
		{ID: 2, PhotoID: 1, UserID: otherID, Emoji: "❤️"},
		{ID: 3, PhotoID: 1, UserID: ownerID, Emoji: "👍"},
	}
	return m
}

func TestView_ComposesPayload(t *testing.T) {
	m := viewFixture()
	s, _, _ := newService(t, m, birthday.Add(time.Hour))

	v, err := s.View(context.Background(), "CODE123XYZ", userViewer(mateID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.Wall.ShareCode != "CODE123XYZ" || v.Wall.State != lifecycle.ActiveOpen {
		t.Fatalf("wall meta wrong: %+v", v.Wall)
	}
	if len(v.Photos) != 2 || v.Photos[0].ID != 1 || v.Photos[1].ID != 2 {
		t.Fatalf("photos must keep repository render order: %+v", v.Photos)
	}
	if v.Photos[0].URL != "https://cdn.example/walls/10/a" {
		t.Fatalf("photo URL must be signed: %q", v.Photos[0].URL)
	}
	if !v.Photos[0].Mine || v.Photos[1].Mine {
		t.Fatal("Mine flag must follow the uploader")
	}
	if v.Photos[0].FrameClasses.Outer != "frame-classic" {
		t.Fatalf("frame classes not resolved: %+v", v.Photos[0].FrameClasses)
	}
	if !v.UploadStatus.CanUpload || v.UploadStatus.Reason != permission.ReasonAllowed {
		t.Fatalf("tribe mate upload status wrong: %+v", v.UploadStatus)
	}
	if v.TribeStats.MemberCount != 4 || v.TribeStats.PhotoCount != 2 {
		t.Fatalf("tribe stats wrong: %+v", v.TribeStats)
	}
	if v.FetchedAt.IsZero() {
		t.Fatal("FetchedAt must be stamped")
	}
}

func TestView_SummarizesReactionsForViewer(t *testing.T) {
	m := viewFixture()
	s, _, _ := newService(t, m, birthday.Add(time.Hour))

	v, err := s.View(context.Background(), "CODE123XYZ", userViewer(mateID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := v.Photos[0].Reactions
	if len(got) != 2 {
		t.Fatalf("want hearts and thumbs, got %+v", got)
	}
	if got[0].Emoji != "❤️" || got[0].Count != 2 || !got[0].Reacted {
		t.Fatalf("heart summary wrong: %+v", got[0])
	}
	if got[1].Emoji != "👍" || got[1].Count != 1 || got[1].Reacted {
		t.Fatalf("thumbs summary wrong: %+v", got[1])
	}
	if len(v.Photos[1].Reactions) != 0 {
		t.Fatalf("photo 2 has no reactions: %+v", v.Photos[1].Reactions)
	}
}

func TestView_AnonymousViewerAllowed(t *testing.T) {
	m := viewFixture()
	s, _, _ := newService(t, m, birthday.Add(time.Hour))

	v, err := s.View(context.Background(), "CODE123XYZ", models.Viewer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.UploadStatus.CanUpload || v.UploadStatus.Reason != permission.ReasonNotInvited {
		t.Fatalf("stranger must not upload: %+v", v.UploadStatus)
	}
	for _, p := range v.Photos {
		if p.Mine {
			t.Fatal("no photo belongs to an anonymous viewer")
		}
		for _, r := range p.Reactions {
			if r.Reacted {
				t.Fatal("anonymous viewers hold no reactions")
			}
		}
	}
}

func TestView_TribeStatsDegradeToZero(t *testing.T) {
	m := viewFixture()
	m.u.tribeErr = errors.New("analytics down")
	s, _, _ := newService(t, m, birthday.Add(time.Hour))

	v, err := s.View(context.Background(), "CODE123XYZ", userViewer(ownerID))
	if err != nil {
		t.Fatalf("enrichment failure must not fail the view: %v", err)
	}
	if v.TribeStats.MemberCount != 0 {
		t.Fatalf("member count must degrade to zero: %+v", v.TribeStats)
	}
	if v.TribeStats.PhotoCount != 2 {
		t.Fatalf("photo count still available: %+v", v.TribeStats)
	}
}

func TestView_UnknownCode(t *testing.T) {
	m := viewFixture()
	s, _, _ := newService(t, m, birthday.Add(time.Hour))

	if _, err := s.View(context.Background(), "NOPE", models.Viewer{}); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestView_SignerFailureFailsView(t *testing.T) {
	m := viewFixture()
	s, _, _ := newService(t, m, birthday.Add(time.Hour))
	s.signer = &fakeSigner{err: errors.New("sts unavailable")}

	if _, err := s.View(context.Background(), "CODE123XYZ", models.Viewer{}); err == nil {
		t.Fatal("want error when URL signing fails")
	}
}
