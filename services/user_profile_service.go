package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"vivaah_server/models"
)

// UserProfileService implements profile creation, editing, visibility and moderation
type UserProfileService struct {
	Profiles    ProfileStore
	Invitations InvitationStore
	Notifier    Notifier
	Logger      *slog.Logger
	Now         func() time.Time
}

// NewUserProfileService wires a profile service. A nil notifier drops events.
func NewUserProfileService(profiles ProfileStore, invitations InvitationStore, notifier Notifier, logger *slog.Logger) *UserProfileService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserProfileService{
		Profiles:    profiles,
		Invitations: invitations,
		Notifier:    notifier,
		Logger:      logger,
		Now:         time.Now,
	}
}

// CreateProfile stores the caller's first profile in pending status
func (ups *UserProfileService) CreateProfile(ctx context.Context, caller models.Caller, profile models.Profile) (*models.Profile, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthorized
	}
	now := ups.Now().UTC()

	profile = cloneProfile(profile)
	profile.UserID = caller.UserID
	profile.ProfileID = uuid.NewString()
	profile.Status = models.ProfileStatusPending
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if err := ValidateNewProfile(&profile, now); err != nil {
		return nil, err
	}

	if err := ups.Profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: a profile already exists for this user", ErrConflict)
		}
		return nil, err
	}

	ups.Logger.InfoContext(ctx, "profile created", "profileId", profile.ProfileID, "userId", profile.UserID)
	return &profile, nil
}

// UpdateProfile merges patch into the addressed profile. Only the owner or
// an administrator may write, and the moderation status never changes here.
func (ups *UserProfileService) UpdateProfile(ctx context.Context, caller models.Caller, idOrSelf string, patch *models.ProfilePatch) (*models.Profile, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthorized
	}
	if patch == nil {
		return nil, invalid("body", "no fields to update")
	}

	current, err := ups.resolve(ctx, caller, idOrSelf)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(current.UserID) && !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: you can only edit your own profile", ErrForbidden)
	}

	now := ups.Now().UTC()
	merged := ApplyProfilePatch(*current, patch)
	if err := ValidateProfilePatch(patch, &merged, now); err != nil {
		return nil, err
	}
	merged.Status = current.Status
	merged.UpdatedAt = now

	if err := ups.Profiles.Put(ctx, merged, current.Status); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: profile was moderated while you were editing, reload and retry", ErrConflict)
		}
		return nil, err
	}
	return &merged, nil
}

// GetProfile returns the addressed profile if caller may see it. Profiles
// that are not approved are reported as missing to everyone but the owner
// and administrators.
func (ups *UserProfileService) GetProfile(ctx context.Context, caller models.Caller, idOrSelf string) (*models.Profile, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthorized
	}
	profile, err := ups.resolve(ctx, caller, idOrSelf)
	if err != nil {
		return nil, err
	}
	if !VisibleTo(profile, caller) {
		return nil, ErrNotFound
	}
	return profile, nil
}

// DeleteProfile hard-deletes a profile. Pending invitations to or from its
// owner are declined afterwards; accepted ones are kept and read back with
// placeholder counterpart details.
func (ups *UserProfileService) DeleteProfile(ctx context.Context, caller models.Caller, profileID string) error {
	if !caller.Authenticated() {
		return ErrUnauthorized
	}
	if !caller.IsAdmin() {
		return fmt.Errorf("%w: only administrators can delete profiles", ErrForbidden)
	}

	profile, err := ups.Profiles.Get(ctx, profileID)
	if err != nil {
		return err
	}
	if err := ups.Profiles.Delete(ctx, profile.UserID); err != nil {
		return err
	}
	ups.Logger.InfoContext(ctx, "profile deleted", "profileId", profile.ProfileID, "userId", profile.UserID, "by", caller.UserID)

	ups.declinePendingInvitations(ctx, profile.UserID)
	return nil
}

func (ups *UserProfileService) declinePendingInvitations(ctx context.Context, userID string) {
	if ups.Invitations == nil {
		return
	}
	sent, err := ups.Invitations.ListBySender(ctx, userID)
	if err != nil {
		ups.Logger.ErrorContext(ctx, "list sent invitations for cascade", "userId", userID, "error", err)
		return
	}
	received, err := ups.Invitations.ListByReceiver(ctx, userID)
	if err != nil {
		ups.Logger.ErrorContext(ctx, "list received invitations for cascade", "userId", userID, "error", err)
		return
	}

	now := ups.Now().UTC()
	for _, inv := range append(sent, received...) {
		if inv.Status != models.InvitationStatusPending {
			continue
		}
		_, err := ups.Invitations.UpdateStatus(ctx, inv.InvitationID, models.InvitationStatusPending, models.InvitationStatusDeclined, now)
		if err != nil && !errors.Is(err, ErrInvalidTransition) {
			ups.Logger.ErrorContext(ctx, "decline invitation for deleted profile", "invitationId", inv.InvitationID, "error", err)
		}
	}
}

// SetProfileStatus moves a profile through the moderation state machine
func (ups *UserProfileService) SetProfileStatus(ctx context.Context, caller models.Caller, profileID string, status models.ProfileStatus) (*models.Profile, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthorized
	}
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators can moderate profiles", ErrForbidden)
	}

	profile, err := ups.Profiles.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	transition, err := NextProfileStatus(profile.Status, status, caller)
	if err != nil {
		return nil, err
	}
	if transition.Action == ActionNone {
		return profile, nil
	}

	profile.Status = transition.To
	profile.UpdatedAt = ups.Now().UTC()
	if err := ups.Profiles.Put(ctx, *profile, transition.From); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: profile status changed concurrently, reload and retry", ErrConflict)
		}
		return nil, err
	}

	ups.Logger.InfoContext(ctx, "profile moderated",
		"profileId", profile.ProfileID, "action", transition.Action,
		"from", transition.From, "to", transition.To, "by", caller.UserID)
	ups.Notifier.Notify(profile.UserID, EventProfileStatus, map[string]interface{}{
		"profileId": profile.ProfileID,
		"status":    profile.Status,
	})
	return profile, nil
}

// ListProfiles returns summaries matching filter plus counts by status.
// Without adminView only approved profiles are listed, the caller's own included.
func (ups *UserProfileService) ListProfiles(ctx context.Context, caller models.Caller, filter models.ProfileFilter, adminView bool) (*models.ProfileListing, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthorized
	}
	if adminView && !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: administrator view requires the admin role", ErrForbidden)
	}

	var (
		profiles []models.Profile
		err      error
	)
	if adminView {
		profiles, err = ups.Profiles.List(ctx, "")
	} else {
		profiles, err = ups.Profiles.List(ctx, models.ProfileStatusApproved)
		filter.Status = ""
	}
	if err != nil {
		return nil, err
	}

	counts := map[string]int{"total": 0}
	if adminView {
		for _, s := range models.ProfileStatuses {
			counts[string(s)] = 0
		}
	} else {
		counts[string(models.ProfileStatusApproved)] = 0
	}

	summaries := make([]models.ProfileSummary, 0, len(profiles))
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.After(profiles[j].CreatedAt)
	})
	for i := range profiles {
		p := &profiles[i]
		if !adminView && p.Status != models.ProfileStatusApproved {
			continue
		}
		counts[string(p.Status)]++
		counts["total"]++
		if matchesFilter(p, filter) {
			summaries = append(summaries, p.Summary())
		}
	}
	if filter.Limit > 0 && len(summaries) > filter.Limit {
		summaries = summaries[:filter.Limit]
	}

	return &models.ProfileListing{Profiles: summaries, Counts: counts}, nil
}

func matchesFilter(p *models.Profile, f models.ProfileFilter) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Gender != "" && p.Gender != f.Gender {
		return false
	}
	if f.Religion != "" && p.Religion != f.Religion {
		return false
	}
	if f.Caste != "" && p.Caste != f.Caste {
		return false
	}
	if f.MaritalStatus != "" && p.MaritalStatus != f.MaritalStatus {
		return false
	}
	if f.MinAge > 0 && p.Age < f.MinAge {
		return false
	}
	if f.MaxAge > 0 && p.Age > f.MaxAge {
		return false
	}
	if f.Location != "" && !containsFold(p.Location, f.Location) {
		return false
	}
	if f.Search != "" && !containsFold(p.Name, f.Search) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}

func (ups *UserProfileService) resolve(ctx context.Context, caller models.Caller, idOrSelf string) (*models.Profile, error) {
	if idOrSelf == "" || idOrSelf == models.SelfID {
		return ups.Profiles.GetByOwner(ctx, caller.UserID)
	}
	return ups.Profiles.Get(ctx, idOrSelf)
}
