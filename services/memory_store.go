package services

import (
	"context"
	"sync"
	"time"

	"vivaah_server/models"
)

// MemoryProfileStore is a process-local ProfileStore for tests and local runs
type MemoryProfileStore struct {
	mu      sync.RWMutex
	byOwner map[string]models.Profile
}

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{byOwner: make(map[string]models.Profile)}
}

func (s *MemoryProfileStore) Create(_ context.Context, p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byOwner[p.UserID]; ok {
		return ErrConflict
	}
	s.byOwner[p.UserID] = cloneProfile(p)
	return nil
}

func (s *MemoryProfileStore) Get(_ context.Context, profileID string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.byOwner {
		if p.ProfileID == profileID {
			cp := cloneProfile(p)
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryProfileStore) GetByOwner(_ context.Context, userID string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byOwner[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneProfile(p)
	return &cp, nil
}

func (s *MemoryProfileStore) Put(_ context.Context, p models.Profile, expected models.ProfileStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.byOwner[p.UserID]
	if !ok {
		return ErrNotFound
	}
	if stored.Status != expected {
		return ErrConflict
	}
	s.byOwner[p.UserID] = cloneProfile(p)
	return nil
}

func (s *MemoryProfileStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byOwner[userID]; !ok {
		return ErrNotFound
	}
	delete(s.byOwner, userID)
	return nil
}

func (s *MemoryProfileStore) List(_ context.Context, status models.ProfileStatus) ([]models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profiles := make([]models.Profile, 0, len(s.byOwner))
	for _, p := range s.byOwner {
		if status == "" || p.Status == status {
			profiles = append(profiles, cloneProfile(p))
		}
	}
	return profiles, nil
}

func cloneProfile(p models.Profile) models.Profile {
	p.Photos = append([]string(nil), p.Photos...)
	return p
}

// MemoryInvitationStore is a process-local InvitationStore for tests and local runs
type MemoryInvitationStore struct {
	mu          sync.RWMutex
	invitations map[string]models.Invitation
	pairs       map[string]string
}

func NewMemoryInvitationStore() *MemoryInvitationStore {
	return &MemoryInvitationStore{
		invitations: make(map[string]models.Invitation),
		pairs:       make(map[string]string),
	}
}

func (s *MemoryInvitationStore) Create(_ context.Context, inv models.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pairs[inv.PairKey()]; ok {
		return ErrConflict
	}
	if _, ok := s.invitations[inv.InvitationID]; ok {
		return ErrConflict
	}
	s.invitations[inv.InvitationID] = inv
	s.pairs[inv.PairKey()] = inv.InvitationID
	return nil
}

func (s *MemoryInvitationStore) Get(_ context.Context, invitationID string) (*models.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invitations[invitationID]
	if !ok {
		return nil, ErrNotFound
	}
	return &inv, nil
}

func (s *MemoryInvitationStore) UpdateStatus(_ context.Context, invitationID string, from, to models.InvitationStatus, at time.Time) (*models.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invitations[invitationID]
	if !ok {
		return nil, ErrNotFound
	}
	if inv.Status != from {
		return nil, ErrInvalidTransition
	}
	inv.Status = to
	inv.UpdatedAt = at
	s.invitations[invitationID] = inv
	if !to.Active() && s.pairs[inv.PairKey()] == invitationID {
		delete(s.pairs, inv.PairKey())
	}
	return &inv, nil
}

func (s *MemoryInvitationStore) ListBySender(_ context.Context, senderID string) ([]models.Invitation, error) {
	return s.filter(func(inv models.Invitation) bool { return inv.SenderID == senderID }), nil
}

func (s *MemoryInvitationStore) ListByReceiver(_ context.Context, receiverID string) ([]models.Invitation, error) {
	return s.filter(func(inv models.Invitation) bool { return inv.ReceiverID == receiverID }), nil
}

func (s *MemoryInvitationStore) filter(keep func(models.Invitation) bool) []models.Invitation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Invitation
	for _, inv := range s.invitations {
		if keep(inv) {
			out = append(out, inv)
		}
	}
	return out
}
