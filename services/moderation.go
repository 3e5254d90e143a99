package services

import (
	"fmt"

	"vivaah_server/models"
)

// ModerationAction names an edge of the profile moderation state machine
type ModerationAction string

const (
	ActionApprove    ModerationAction = "approve"
	ActionReject     ModerationAction = "reject"
	ActionDeactivate ModerationAction = "deactivate"
	ActionActivate   ModerationAction = "activate"
	ActionResubmit   ModerationAction = "resubmit"
	ActionNone       ModerationAction = "none"
)

// ProfileTransition is a single allowed edge in the moderation state machine
type ProfileTransition struct {
	From   models.ProfileStatus
	To     models.ProfileStatus
	Action ModerationAction
}

// Every edge requires the administrator capability.
var profileTransitions = []ProfileTransition{
	{From: models.ProfileStatusPending, To: models.ProfileStatusApproved, Action: ActionApprove},
	{From: models.ProfileStatusPending, To: models.ProfileStatusRejected, Action: ActionReject},
	{From: models.ProfileStatusApproved, To: models.ProfileStatusRejected, Action: ActionDeactivate},
	{From: models.ProfileStatusRejected, To: models.ProfileStatusApproved, Action: ActionActivate},
	{From: models.ProfileStatusApproved, To: models.ProfileStatusPending, Action: ActionResubmit},
	{From: models.ProfileStatusRejected, To: models.ProfileStatusPending, Action: ActionResubmit},
}

// NextProfileStatus resolves the moderation edge from -> to for caller.
// Requesting the current status is an allowed no-op.
func NextProfileStatus(from, to models.ProfileStatus, caller models.Caller) (ProfileTransition, error) {
	if !caller.Authenticated() {
		return ProfileTransition{}, ErrUnauthorized
	}
	if !caller.IsAdmin() {
		return ProfileTransition{}, fmt.Errorf("%w: only administrators can moderate profiles", ErrForbidden)
	}
	if !to.Valid() {
		return ProfileTransition{}, invalid("status", "status must be one of: pending, approved, rejected")
	}
	if from == to {
		return ProfileTransition{From: from, To: to, Action: ActionNone}, nil
	}
	for _, tr := range profileTransitions {
		if tr.From == from && tr.To == to {
			return tr, nil
		}
	}
	return ProfileTransition{}, fmt.Errorf("%w: profile cannot move from %s to %s", ErrInvalidTransition, from, to)
}

// VisibleTo reports whether caller may read profile p
func VisibleTo(p *models.Profile, caller models.Caller) bool {
	if p.Status == models.ProfileStatusApproved && caller.Authenticated() {
		return true
	}
	return caller.Owns(p.UserID) || caller.IsAdmin()
}
