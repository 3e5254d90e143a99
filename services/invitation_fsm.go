package services

import (
	"fmt"

	"vivaah_server/models"
)

type invitationActor int

const (
	actorReceiver invitationActor = 1 << iota
	actorAdmin
)

type invitationTransition struct {
	from   models.InvitationStatus
	to     models.InvitationStatus
	actors invitationActor
}

var invitationTransitions = []invitationTransition{
	{from: models.InvitationStatusPending, to: models.InvitationStatusAccepted, actors: actorReceiver | actorAdmin},
	{from: models.InvitationStatusPending, to: models.InvitationStatusDeclined, actors: actorReceiver | actorAdmin},
}

// NextInvitationStatus checks that caller may move inv to the requested status.
// The actor check runs before the edge check so that strangers learn nothing
// about the invitation's current state.
func NextInvitationStatus(inv *models.Invitation, to models.InvitationStatus, caller models.Caller) error {
	if !caller.Authenticated() {
		return ErrUnauthorized
	}
	var actor invitationActor
	if caller.Owns(inv.ReceiverID) {
		actor |= actorReceiver
	}
	if caller.IsAdmin() {
		actor |= actorAdmin
	}
	if actor == 0 {
		return fmt.Errorf("%w: only the receiver can respond to this invitation", ErrForbidden)
	}
	if to != models.InvitationStatusAccepted && to != models.InvitationStatusDeclined {
		return invalid("status", "status must be one of: accepted, declined")
	}
	for _, tr := range invitationTransitions {
		if tr.from == inv.Status && tr.to == to && tr.actors&actor != 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: invitation is already %s", ErrInvalidTransition, inv.Status)
}
