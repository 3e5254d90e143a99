package services

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"vivaah_server/models"
)

// ProfileStore persists profiles. Implementations enforce one profile per user.
type ProfileStore interface {
	// Create stores a new profile, failing with ErrConflict if the owner already has one
	Create(ctx context.Context, p models.Profile) error
	// Get looks a profile up by profile id
	Get(ctx context.Context, profileID string) (*models.Profile, error)
	// GetByOwner looks a profile up by owning user id
	GetByOwner(ctx context.Context, userID string) (*models.Profile, error)
	// Put replaces an existing profile whose stored status is still expected.
	// It fails with ErrNotFound if the profile is gone and with ErrConflict
	// if its status changed since it was read.
	Put(ctx context.Context, p models.Profile, expected models.ProfileStatus) error
	// Delete removes the profile owned by userID
	Delete(ctx context.Context, userID string) error
	// List returns profiles with the given status, or every profile for ""
	List(ctx context.Context, status models.ProfileStatus) ([]models.Profile, error)
}

// DynamoProfileStore keeps profiles in a table keyed by userId
type DynamoProfileStore struct {
	Dynamo    *DynamoService
	TableName string
}

// NewDynamoProfileStore creates a profile store on tableName
func NewDynamoProfileStore(dynamo *DynamoService, tableName string) *DynamoProfileStore {
	if tableName == "" {
		tableName = models.ProfilesTable
	}
	return &DynamoProfileStore{Dynamo: dynamo, TableName: tableName}
}

func (s *DynamoProfileStore) Create(ctx context.Context, p models.Profile) error {
	err := s.Dynamo.PutItem(ctx, s.TableName, p, "attribute_not_exists(userId)", nil, nil)
	if isConditionFailure(err) {
		return ErrConflict
	}
	return upstream("create profile", err)
}

func (s *DynamoProfileStore) Get(ctx context.Context, profileID string) (*models.Profile, error) {
	var profiles []models.Profile
	err := s.Dynamo.QueryIndex(ctx, s.TableName, models.ProfileIDIndex, "profileId = :profileId",
		map[string]types.AttributeValue{
			":profileId": &types.AttributeValueMemberS{Value: profileID},
		}, &profiles)
	if err != nil {
		return nil, upstream("get profile", err)
	}
	if len(profiles) == 0 {
		return nil, ErrNotFound
	}
	return &profiles[0], nil
}

func (s *DynamoProfileStore) GetByOwner(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := s.Dynamo.GetItem(ctx, s.TableName, stringKey("userId", userID), &profile)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, upstream("get profile by owner", err)
	}
	return &profile, nil
}

func (s *DynamoProfileStore) Put(ctx context.Context, p models.Profile, expected models.ProfileStatus) error {
	err := s.Dynamo.PutItem(ctx, s.TableName, p, "attribute_exists(userId) AND #status = :expected",
		map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberS{Value: string(expected)},
		},
		map[string]string{"#status": "status"})
	if !isConditionFailure(err) {
		return upstream("put profile", err)
	}

	// the condition does not say which half failed
	if _, err := s.GetByOwner(ctx, p.UserID); err != nil {
		return err
	}
	return ErrConflict
}

func (s *DynamoProfileStore) Delete(ctx context.Context, userID string) error {
	err := s.Dynamo.DeleteItem(ctx, s.TableName, stringKey("userId", userID), "attribute_exists(userId)")
	if isConditionFailure(err) {
		return ErrNotFound
	}
	return upstream("delete profile", err)
}

func (s *DynamoProfileStore) List(ctx context.Context, status models.ProfileStatus) ([]models.Profile, error) {
	var profiles []models.Profile
	var err error
	if status == "" {
		err = s.Dynamo.ScanWithFilter(ctx, s.TableName, "", nil, nil, &profiles)
	} else {
		err = s.Dynamo.ScanWithFilter(ctx, s.TableName, "#status = :status",
			map[string]types.AttributeValue{
				":status": &types.AttributeValueMemberS{Value: string(status)},
			},
			map[string]string{"#status": "status"},
			&profiles)
	}
	if err != nil {
		return nil, upstream("list profiles", err)
	}
	return profiles, nil
}
