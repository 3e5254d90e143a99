package services

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"vivaah_server/models"
)

// InvitationStore persists invitations. Implementations keep at most one
// active invitation per sender/receiver pair.
type InvitationStore interface {
	// Create stores a pending invitation, failing with ErrConflict if the pair is occupied
	Create(ctx context.Context, inv models.Invitation) error
	Get(ctx context.Context, invitationID string) (*models.Invitation, error)
	// UpdateStatus moves the invitation from -> to. A concurrent change of
	// status makes it fail with ErrInvalidTransition. Moving to an inactive
	// status releases the pair.
	UpdateStatus(ctx context.Context, invitationID string, from, to models.InvitationStatus, at time.Time) (*models.Invitation, error)
	ListBySender(ctx context.Context, senderID string) ([]models.Invitation, error)
	ListByReceiver(ctx context.Context, receiverID string) ([]models.Invitation, error)
}

// DynamoInvitationStore keeps invitations in one table and pair guards in another
type DynamoInvitationStore struct {
	Dynamo     *DynamoService
	TableName  string
	PairsTable string
}

// NewDynamoInvitationStore creates an invitation store on the given tables
func NewDynamoInvitationStore(dynamo *DynamoService, tableName, pairsTable string) *DynamoInvitationStore {
	if tableName == "" {
		tableName = models.InvitationsTable
	}
	if pairsTable == "" {
		pairsTable = models.InvitationPairsTable
	}
	return &DynamoInvitationStore{Dynamo: dynamo, TableName: tableName, PairsTable: pairsTable}
}

func (s *DynamoInvitationStore) Create(ctx context.Context, inv models.Invitation) error {
	item, err := attributevalue.MarshalMap(inv)
	if err != nil {
		return err
	}
	pair, err := attributevalue.MarshalMap(models.InvitationPair{
		PairKey:      inv.PairKey(),
		InvitationID: inv.InvitationID,
		CreatedAt:    inv.CreatedAt,
	})
	if err != nil {
		return err
	}

	err = s.Dynamo.TransactWrite(ctx, []types.TransactWriteItem{
		{Put: &types.Put{
			TableName:           aws.String(s.PairsTable),
			Item:                pair,
			ConditionExpression: aws.String("attribute_not_exists(pairKey)"),
		}},
		{Put: &types.Put{
			TableName:           aws.String(s.TableName),
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(invitationId)"),
		}},
	})
	if isConditionFailure(err) {
		return ErrConflict
	}
	return upstream("create invitation", err)
}

func (s *DynamoInvitationStore) Get(ctx context.Context, invitationID string) (*models.Invitation, error) {
	var inv models.Invitation
	err := s.Dynamo.GetItem(ctx, s.TableName, stringKey("invitationId", invitationID), &inv)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, upstream("get invitation", err)
	}
	return &inv, nil
}

func (s *DynamoInvitationStore) UpdateStatus(ctx context.Context, invitationID string, from, to models.InvitationStatus, at time.Time) (*models.Invitation, error) {
	updateExpression := "SET #status = :to, #updatedAt = :updatedAt"
	condition := "#status = :from"
	names := map[string]string{
		"#status":    "status",
		"#updatedAt": "updatedAt",
	}
	updatedAt, err := attributevalue.Marshal(at)
	if err != nil {
		return nil, err
	}
	values := map[string]types.AttributeValue{
		":to":        &types.AttributeValueMemberS{Value: string(to)},
		":from":      &types.AttributeValueMemberS{Value: string(from)},
		":updatedAt": updatedAt,
	}
	key := stringKey("invitationId", invitationID)

	if to.Active() {
		var updated models.Invitation
		err := s.Dynamo.UpdateItem(ctx, s.TableName, key, updateExpression, condition, values, names, &updated)
		if isConditionFailure(err) {
			return nil, ErrInvalidTransition
		}
		if err != nil {
			return nil, upstream("update invitation", err)
		}
		return &updated, nil
	}

	current, err := s.Get(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	err = s.Dynamo.TransactWrite(ctx, []types.TransactWriteItem{
		{Update: &types.Update{
			TableName:                 aws.String(s.TableName),
			Key:                       key,
			UpdateExpression:          aws.String(updateExpression),
			ConditionExpression:       aws.String(condition),
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		}},
		{Delete: &types.Delete{
			TableName:           aws.String(s.PairsTable),
			Key:                 stringKey("pairKey", current.PairKey()),
			ConditionExpression: aws.String("attribute_not_exists(pairKey) OR invitationId = :id"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":id": &types.AttributeValueMemberS{Value: invitationID},
			},
		}},
	})
	if isConditionFailure(err) {
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, upstream("update invitation", err)
	}

	current.Status = to
	current.UpdatedAt = at
	return current, nil
}

func (s *DynamoInvitationStore) ListBySender(ctx context.Context, senderID string) ([]models.Invitation, error) {
	return s.listByIndex(ctx, models.SenderIDIndex, "senderId", senderID)
}

func (s *DynamoInvitationStore) ListByReceiver(ctx context.Context, receiverID string) ([]models.Invitation, error) {
	return s.listByIndex(ctx, models.ReceiverIDIndex, "receiverId", receiverID)
}

func (s *DynamoInvitationStore) listByIndex(ctx context.Context, index, attribute, value string) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := s.Dynamo.QueryIndex(ctx, s.TableName, index, attribute+" = :v",
		map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		}, &invitations)
	if err != nil {
		return nil, upstream("list invitations", err)
	}
	return invitations, nil
}
