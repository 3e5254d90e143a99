package models

import "time"

// Invitation represents a directed connection request in DynamoDB
type Invitation struct {
	InvitationID string           `dynamodbav:"invitationId" json:"invitationId"` // ✅ Partition Key
	SenderID     string           `dynamodbav:"senderId" json:"senderId"`         // Indexed via GSI
	ReceiverID   string           `dynamodbav:"receiverId" json:"receiverId"`     // Indexed via GSI
	Message      string           `dynamodbav:"message,omitempty" json:"message,omitempty"`
	Status       InvitationStatus `dynamodbav:"status" json:"status"`
	CreatedAt    time.Time        `dynamodbav:"createdAt" json:"createdAt"` // Sent date
	UpdatedAt    time.Time        `dynamodbav:"updatedAt" json:"updatedAt"` // Response date
}

// PairKey identifies the sender/receiver pair an invitation occupies
func (i Invitation) PairKey() string {
	return InvitationPairKey(i.SenderID, i.ReceiverID)
}

// InvitationPairKey builds the uniqueness key for a directed pair
func InvitationPairKey(senderID, receiverID string) string {
	return "PAIR#" + senderID + "#" + receiverID
}

// InvitationPair is the guard record that keeps one active invitation per pair
type InvitationPair struct {
	PairKey      string    `dynamodbav:"pairKey" json:"pairKey"` // ✅ Partition Key
	InvitationID string    `dynamodbav:"invitationId" json:"invitationId"`
	CreatedAt    time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

// Counterpart is the snapshot of the other party shown alongside an invitation
type Counterpart struct {
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	Age        int    `json:"age,omitempty"`
	Location   string `json:"location"`
	Occupation string `json:"occupation"`
	Degree     string `json:"degree"`
	Photo      string `json:"photo"`
	Phone      string `json:"phone,omitempty"` // only once connected
}

// EnrichedInvitation combines an invitation with the other party's details
type EnrichedInvitation struct {
	Invitation
	Direction   string      `json:"direction"` // sent or received
	Counterpart Counterpart `json:"counterpart"`
}

// InvitationListing is the result of list_invitations
type InvitationListing struct {
	Invitations []EnrichedInvitation `json:"invitations"`
	Counts      map[string]int       `json:"counts"`
}

// Table names for DynamoDB
const (
	InvitationsTable     = "Invitations"
	InvitationPairsTable = "InvitationPairs"
)

// GSI Index Names
const (
	SenderIDIndex   = "senderId-index"
	ReceiverIDIndex = "receiverId-index"
)
