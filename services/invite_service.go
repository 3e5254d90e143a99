package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"vivaah_server/models"
	"vivaah_server/utils"
)

// InviteService handles connection requests between users
type InviteService struct {
	Invitations InvitationStore
	Profiles    ProfileStore
	Notifier    Notifier
	Logger      *slog.Logger
	Now         func() time.Time
}

// NewInviteService wires an invite service. A nil notifier drops events.
func NewInviteService(invitations InvitationStore, profiles ProfileStore, notifier Notifier, logger *slog.Logger) *InviteService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &InviteService{
		Invitations: invitations,
		Profiles:    profiles,
		Notifier:    notifier,
		Logger:      logger,
		Now:         time.Now,
	}
}

// CreateInvitation sends a pending invitation from caller to the owner of
// an approved profile.
func (s *InviteService) CreateInvitation(ctx context.Context, caller models.Caller, receiverID, message string) (*models.Invitation, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthorized
	}
	receiverID = strings.TrimSpace(receiverID)
	if receiverID == "" {
		return nil, invalid("receiverId", "receiverId is required")
	}
	if receiverID == caller.UserID {
		return nil, invalid("receiverId", "you cannot send an invitation to yourself")
	}
	if utf8.RuneCountInString(message) > maxInvitationChars {
		return nil, invalid("message", "message cannot be longer than %d characters", maxInvitationChars)
	}

	target, err := s.Profiles.GetByOwner(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if !VisibleTo(target, caller) {
		return nil, ErrNotFound
	}

	now := s.Now().UTC()
	invite := models.Invitation{
		InvitationID: uuid.NewString(),
		SenderID:     caller.UserID,
		ReceiverID:   receiverID,
		Message:      message,
		Status:       models.InvitationStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Invitations.Create(ctx, invite); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: you already have an active invitation to this user", ErrConflict)
		}
		return nil, err
	}

	s.Logger.InfoContext(ctx, "invitation created", "invitationId", invite.InvitationID, "senderId", invite.SenderID, "receiverId", invite.ReceiverID)
	s.Notifier.Notify(receiverID, EventInvitationCreated, invite)
	return &invite, nil
}

// UpdateInvitationStatus lets the receiver or an administrator answer a pending invitation
func (s *InviteService) UpdateInvitationStatus(ctx context.Context, caller models.Caller, invitationID string, status models.InvitationStatus) (*models.Invitation, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthorized
	}
	invite, err := s.Invitations.Get(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if err := NextInvitationStatus(invite, status, caller); err != nil {
		return nil, err
	}

	updated, err := s.Invitations.UpdateStatus(ctx, invite.InvitationID, invite.Status, status, s.Now().UTC())
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return nil, fmt.Errorf("%w: invitation was answered concurrently", ErrInvalidTransition)
		}
		return nil, err
	}

	s.Logger.InfoContext(ctx, "invitation answered", "invitationId", updated.InvitationID, "status", updated.Status, "by", caller.UserID)
	s.Notifier.Notify(updated.SenderID, EventInvitationUpdated, updated)
	s.Notifier.Notify(updated.ReceiverID, EventInvitationUpdated, updated)
	return updated, nil
}

// ListInvitations returns every invitation the caller sent or received,
// newest first, each annotated with the other party.
func (s *InviteService) ListInvitations(ctx context.Context, caller models.Caller) (*models.InvitationListing, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthorized
	}
	sent, err := s.Invitations.ListBySender(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	received, err := s.Invitations.ListByReceiver(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{
		models.DirectionSent:     len(sent),
		models.DirectionReceived: len(received),
	}
	for _, st := range models.InvitationStatuses {
		counts[string(st)] = 0
	}

	all := append(append([]models.Invitation{}, sent...), received...)
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	cache := map[string]*models.Profile{}
	enriched := make([]models.EnrichedInvitation, 0, len(all))
	for _, inv := range all {
		counts[string(inv.Status)]++
		enriched = append(enriched, s.enrich(ctx, caller, inv, cache))
	}
	return &models.InvitationListing{Invitations: enriched, Counts: counts}, nil
}

// ListConnections returns the caller's invitations that disclose contact
// details, one per counterpart. When both directions were accepted the
// newest invitation represents the connection.
func (s *InviteService) ListConnections(ctx context.Context, caller models.Caller) ([]models.EnrichedInvitation, error) {
	listing, err := s.ListInvitations(ctx, caller)
	if err != nil {
		return nil, err
	}
	connections := make([]models.EnrichedInvitation, 0)
	seen := map[string]bool{}
	for _, inv := range listing.Invitations {
		if !inv.Status.Connected() || seen[inv.Counterpart.UserID] {
			continue
		}
		seen[inv.Counterpart.UserID] = true
		connections = append(connections, inv)
	}
	return connections, nil
}

func (s *InviteService) enrich(ctx context.Context, caller models.Caller, inv models.Invitation, cache map[string]*models.Profile) models.EnrichedInvitation {
	direction, otherID := models.DirectionSent, inv.ReceiverID
	if inv.ReceiverID == caller.UserID {
		direction, otherID = models.DirectionReceived, inv.SenderID
	}

	profile, seen := cache[otherID]
	if !seen {
		p, err := s.Profiles.GetByOwner(ctx, otherID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			s.Logger.WarnContext(ctx, "counterpart lookup failed", "invitationId", inv.InvitationID, "userId", otherID, "error", err)
		}
		profile = p
		cache[otherID] = p
	}

	return models.EnrichedInvitation{
		Invitation:  inv,
		Direction:   direction,
		Counterpart: counterpartOf(otherID, profile, inv.Status.Connected()),
	}
}

func counterpartOf(userID string, p *models.Profile, disclose bool) models.Counterpart {
	if p == nil {
		c := models.Counterpart{
			UserID:     userID,
			Name:       models.PlaceholderName,
			Location:   models.PlaceholderText,
			Occupation: models.PlaceholderText,
			Degree:     models.PlaceholderText,
			Photo:      models.PlaceholderPhoto,
		}
		if disclose {
			c.Phone = models.PlaceholderText
		}
		return c
	}

	c := models.Counterpart{
		UserID:     userID,
		Name:       utils.TextOr(p.Name, models.PlaceholderName),
		Age:        p.Age,
		Location:   utils.TextOr(p.Location, models.PlaceholderText),
		Occupation: utils.TextOr(p.Occupation, models.PlaceholderText),
		Degree:     utils.TextOr(p.Education.Degree, models.PlaceholderText),
		Photo:      utils.FirstPhotoOr(p.Photos, models.PlaceholderPhoto),
	}
	if disclose {
		c.Phone = utils.TextOr(p.Phone, models.PlaceholderText)
	}
	return c
}
