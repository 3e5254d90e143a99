package models

// ProfileStatus is the moderation state of a profile
type ProfileStatus string

// ✅ Profile moderation statuses
const (
	ProfileStatusPending  ProfileStatus = "pending"
	ProfileStatusApproved ProfileStatus = "approved"
	ProfileStatusRejected ProfileStatus = "rejected"
)

// ProfileStatuses lists every moderation status in display order
var ProfileStatuses = []ProfileStatus{ProfileStatusPending, ProfileStatusApproved, ProfileStatusRejected}

// Valid reports whether s is a known moderation status
func (s ProfileStatus) Valid() bool {
	switch s {
	case ProfileStatusPending, ProfileStatusApproved, ProfileStatusRejected:
		return true
	}
	return false
}

// InvitationStatus is the state of a connection request
type InvitationStatus string

// ✅ Invitation statuses
const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusDeclined InvitationStatus = "declined"
	// InvitationStatusMutual is read-compatible with older records and
	// behaves exactly like accepted. Nothing transitions into it.
	InvitationStatusMutual InvitationStatus = "mutual"
)

// InvitationStatuses lists every invitation status in display order
var InvitationStatuses = []InvitationStatus{
	InvitationStatusPending,
	InvitationStatusAccepted,
	InvitationStatusDeclined,
	InvitationStatusMutual,
}

// Valid reports whether s is a known invitation status
func (s InvitationStatus) Valid() bool {
	switch s {
	case InvitationStatusPending, InvitationStatusAccepted, InvitationStatusDeclined, InvitationStatusMutual:
		return true
	}
	return false
}

// Active reports whether the invitation still occupies its sender/receiver pair
func (s InvitationStatus) Active() bool {
	return s == InvitationStatusPending || s == InvitationStatusAccepted || s == InvitationStatusMutual
}

// Connected reports whether both parties may see each other's contact details
func (s InvitationStatus) Connected() bool {
	return s == InvitationStatusAccepted || s == InvitationStatusMutual
}

// ✅ Invitation directions relative to the requesting user
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

// ✅ Caller roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ✅ Placeholders used when a counterpart profile is unavailable
const (
	PlaceholderName  = "Unknown"
	PlaceholderText  = "N/A"
	PlaceholderPhoto = "https://static.vivaah.app/placeholders/profile.png"
)

// SelfID addresses the caller's own profile in place of an id
const SelfID = "self"
