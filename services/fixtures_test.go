package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"vivaah_server/models"
)

var (
	fixedNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	admin = models.Caller{UserID: "admin-1", Role: models.RoleAdmin}
	alice = models.Caller{UserID: "alice", Role: models.RoleUser}
	bob   = models.Caller{UserID: "bob", Role: models.RoleUser}
	carol = models.Caller{UserID: "carol", Role: models.RoleUser}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validProfile(name string) models.Profile {
	return models.Profile{
		Name:          name,
		Location:      "Pune",
		Age:           29,
		Gender:        "Female",
		DateOfBirth:   "1996-01-15",
		MaritalStatus: "Never Married",
		Phone:         "+91-9800000000",
		Religion:      "Hindu",
		Education: models.Education{
			Degree:         "B.Tech",
			Institution:    "COEP",
			GraduationYear: 2017,
		},
		Occupation: "Engineer",
		Photos:     []string{"https://cdn.example.com/" + name + ".jpg"},
	}
}

type sentEvent struct {
	userID string
	event  string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) Notify(userID, event string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{userID: userID, event: event})
}

func (n *recordingNotifier) sent(userID, event string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, e := range n.events {
		if e.userID == userID && e.event == event {
			return true
		}
	}
	return false
}

type fixture struct {
	profiles    *MemoryProfileStore
	invitations *MemoryInvitationStore
	notifier    *recordingNotifier
	profileSvc  *UserProfileService
	inviteSvc   *InviteService
	clock       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		profiles:    NewMemoryProfileStore(),
		invitations: NewMemoryInvitationStore(),
		notifier:    &recordingNotifier{},
		clock:       fixedNow,
	}
	now := func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	f.profileSvc = NewUserProfileService(f.profiles, f.invitations, f.notifier, discardLogger())
	f.profileSvc.Now = now
	f.inviteSvc = NewInviteService(f.invitations, f.profiles, f.notifier, discardLogger())
	f.inviteSvc.Now = now
	return f
}

// createProfile stores a profile for caller and moves it to status
func (f *fixture) createProfile(t *testing.T, caller models.Caller, status models.ProfileStatus) *models.Profile {
	t.Helper()
	ctx := context.Background()
	p, err := f.profileSvc.CreateProfile(ctx, caller, validProfile(caller.UserID))
	if err != nil {
		t.Fatalf("CreateProfile(%s) error = %v", caller.UserID, err)
	}
	if status != models.ProfileStatusPending {
		p, err = f.profileSvc.SetProfileStatus(ctx, admin, p.ProfileID, status)
		if err != nil {
			t.Fatalf("SetProfileStatus(%s, %s) error = %v", caller.UserID, status, err)
		}
	}
	return p
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
