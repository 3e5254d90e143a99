package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"vivaah_server/models"
)

// fakeDynamo records requests and answers with canned responses
type fakeDynamo struct {
	getItem     map[string]types.AttributeValue
	updateAttrs map[string]types.AttributeValue
	putErr      error
	updateErr   error
	deleteErr   error
	txErr       error
	queryErr    error
	items       []map[string]types.AttributeValue

	gets    []*dynamodb.GetItemInput
	puts    []*dynamodb.PutItemInput
	updates []*dynamodb.UpdateItemInput
	deletes []*dynamodb.DeleteItemInput
	queries []*dynamodb.QueryInput
	scans   []*dynamodb.ScanInput
	txs     []*dynamodb.TransactWriteItemsInput
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.gets = append(f.gets, in)
	return &dynamodb.GetItemOutput{Item: f.getItem}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.puts = append(f.puts, in)
	return &dynamodb.PutItemOutput{}, f.putErr
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, in)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &dynamodb.UpdateItemOutput{Attributes: f.updateAttrs}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deletes = append(f.deletes, in)
	return &dynamodb.DeleteItemOutput{}, f.deleteErr
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queries = append(f.queries, in)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &dynamodb.QueryOutput{Items: f.items}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scans = append(f.scans, in)
	return &dynamodb.ScanOutput{Items: f.items}, nil
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.txs = append(f.txs, in)
	return &dynamodb.TransactWriteItemsOutput{}, f.txErr
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
}

func cancelledBy(codes ...string) error {
	reasons := make([]types.CancellationReason, 0, len(codes))
	for _, c := range codes {
		reasons = append(reasons, types.CancellationReason{Code: aws.String(c)})
	}
	return &types.TransactionCanceledException{Message: aws.String("cancelled"), CancellationReasons: reasons}
}

func mustMarshal(t *testing.T, v interface{}) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		t.Fatal(err)
	}
	return item
}

func stringAttr(t *testing.T, values map[string]types.AttributeValue, name string) string {
	t.Helper()
	v, ok := values[name].(*types.AttributeValueMemberS)
	if !ok {
		t.Fatalf("attribute %s = %#v, want string", name, values[name])
	}
	return v.Value
}

func TestDynamoProfileStoreCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := &fakeDynamo{}
	store := NewDynamoProfileStore(&DynamoService{Client: fake, Logger: discardLogger()}, "")

	p := validProfile("alice")
	p.UserID, p.ProfileID, p.Status = "alice", "p-1", models.ProfileStatusPending
	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(fake.puts) != 1 {
		t.Fatalf("got %d puts", len(fake.puts))
	}
	put := fake.puts[0]
	if aws.ToString(put.TableName) != models.ProfilesTable || aws.ToString(put.ConditionExpression) != "attribute_not_exists(userId)" {
		t.Errorf("put = table %q condition %q", aws.ToString(put.TableName), aws.ToString(put.ConditionExpression))
	}

	fake.putErr = conditionFailed()
	if err := store.Create(ctx, p); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate Create() error = %v, want ErrConflict", err)
	}

	fake.putErr = errors.New("connection reset")
	err := store.Create(ctx, p)
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("Create() on network failure error = %v, want ErrUpstream", err)
	}
}

func TestDynamoProfileStorePut(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p := models.Profile{UserID: "alice", ProfileID: "p-1", Name: "Alice", Status: models.ProfileStatusApproved}

	t.Run("conditions on stored status", func(t *testing.T) {
		fake := &fakeDynamo{}
		store := NewDynamoProfileStore(&DynamoService{Client: fake}, "")

		if err := store.Put(ctx, p, models.ProfileStatusApproved); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		put := fake.puts[0]
		if got := aws.ToString(put.ConditionExpression); got != "attribute_exists(userId) AND #status = :expected" {
			t.Errorf("condition = %q", got)
		}
		if put.ExpressionAttributeNames["#status"] != "status" {
			t.Errorf("names = %v", put.ExpressionAttributeNames)
		}
		if got := stringAttr(t, put.ExpressionAttributeValues, ":expected"); got != "approved" {
			t.Errorf(":expected = %q", got)
		}
	})

	t.Run("status moved", func(t *testing.T) {
		fake := &fakeDynamo{putErr: conditionFailed()}
		fake.getItem = mustMarshal(t, models.Profile{UserID: "alice", ProfileID: "p-1", Status: models.ProfileStatusRejected})
		store := NewDynamoProfileStore(&DynamoService{Client: fake}, "")

		if err := store.Put(ctx, p, models.ProfileStatusApproved); !errors.Is(err, ErrConflict) {
			t.Errorf("Put() error = %v, want ErrConflict", err)
		}
	})

	t.Run("profile gone", func(t *testing.T) {
		fake := &fakeDynamo{putErr: conditionFailed()}
		store := NewDynamoProfileStore(&DynamoService{Client: fake}, "")

		if err := store.Put(ctx, p, models.ProfileStatusApproved); !errors.Is(err, ErrNotFound) {
			t.Errorf("Put() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("network failure", func(t *testing.T) {
		fake := &fakeDynamo{putErr: errors.New("timeout")}
		store := NewDynamoProfileStore(&DynamoService{Client: fake}, "")

		if err := store.Put(ctx, p, models.ProfileStatusApproved); !errors.Is(err, ErrUpstream) {
			t.Errorf("Put() error = %v, want ErrUpstream", err)
		}
		if len(fake.gets) != 0 {
			t.Errorf("unexpected follow-up read after network failure")
		}
	})
}

func TestDynamoProfileStoreDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := &fakeDynamo{}
	store := NewDynamoProfileStore(&DynamoService{Client: fake}, "Profiles")

	if err := store.Delete(ctx, "alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	del := fake.deletes[0]
	if aws.ToString(del.ConditionExpression) != "attribute_exists(userId)" {
		t.Errorf("condition = %q", aws.ToString(del.ConditionExpression))
	}
	if got := stringAttr(t, del.Key, "userId"); got != "alice" {
		t.Errorf("key = %q", got)
	}

	fake.deleteErr = conditionFailed()
	if err := store.Delete(ctx, "alice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() of missing profile error = %v, want ErrNotFound", err)
	}
}

func TestDynamoProfileStoreGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := &fakeDynamo{}
	store := NewDynamoProfileStore(&DynamoService{Client: fake}, "Profiles")

	if _, err := store.Get(ctx, "p-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty query error = %v, want ErrNotFound", err)
	}
	if got := aws.ToString(fake.queries[0].IndexName); got != models.ProfileIDIndex {
		t.Errorf("index = %q", got)
	}

	fake.items = []map[string]types.AttributeValue{
		mustMarshal(t, models.Profile{UserID: "alice", ProfileID: "p-1", Status: models.ProfileStatusPending}),
	}
	p, err := store.Get(ctx, "p-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.UserID != "alice" {
		t.Errorf("profile = %+v", p)
	}

	fake.queryErr = errors.New("throttled")
	if _, err := store.Get(ctx, "p-1"); !errors.Is(err, ErrUpstream) {
		t.Errorf("Get() error = %v, want ErrUpstream", err)
	}
}

func TestDynamoProfileStoreGetByOwner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := &fakeDynamo{}
	store := NewDynamoProfileStore(&DynamoService{Client: fake}, "Profiles")

	if _, err := store.GetByOwner(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing item error = %v, want ErrNotFound", err)
	}

	fake.getItem = mustMarshal(t, models.Profile{UserID: "alice", ProfileID: "p-1", Name: "Alice", Status: models.ProfileStatusApproved})
	p, err := store.GetByOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByOwner() error = %v", err)
	}
	if p.ProfileID != "p-1" || p.Status != models.ProfileStatusApproved {
		t.Errorf("profile = %+v", p)
	}
}

func TestDynamoProfileStoreList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := &fakeDynamo{items: []map[string]types.AttributeValue{
		mustMarshal(t, models.Profile{UserID: "alice", ProfileID: "p-1", Status: models.ProfileStatusApproved}),
		mustMarshal(t, models.Profile{UserID: "bob", ProfileID: "p-2", Status: models.ProfileStatusApproved}),
	}}
	store := NewDynamoProfileStore(&DynamoService{Client: fake}, "Profiles")

	profiles, err := store.List(ctx, models.ProfileStatusApproved)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("got %d profiles", len(profiles))
	}
	scan := fake.scans[0]
	if aws.ToString(scan.FilterExpression) != "#status = :status" || scan.ExpressionAttributeNames["#status"] != "status" {
		t.Errorf("filter = %q names %v", aws.ToString(scan.FilterExpression), scan.ExpressionAttributeNames)
	}
	if got := stringAttr(t, scan.ExpressionAttributeValues, ":status"); got != "approved" {
		t.Errorf(":status = %q", got)
	}

	if _, err := store.List(ctx, ""); err != nil {
		t.Fatalf("List(all) error = %v", err)
	}
	if fake.scans[1].FilterExpression != nil {
		t.Errorf("unfiltered scan has filter %q", aws.ToString(fake.scans[1].FilterExpression))
	}
}

func TestDynamoInvitationStoreCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := &fakeDynamo{}
	store := NewDynamoInvitationStore(&DynamoService{Client: fake}, "", "")
	inv := models.Invitation{InvitationID: "inv-1", SenderID: "alice", ReceiverID: "bob", Status: models.InvitationStatusPending, CreatedAt: fixedNow, UpdatedAt: fixedNow}

	if err := store.Create(ctx, inv); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(fake.txs) != 1 || len(fake.txs[0].TransactItems) != 2 {
		t.Fatalf("transaction = %+v", fake.txs)
	}
	guard := fake.txs[0].TransactItems[0].Put
	if aws.ToString(guard.TableName) != models.InvitationPairsTable {
		t.Errorf("guard table = %q", aws.ToString(guard.TableName))
	}
	if got := stringAttr(t, guard.Item, "pairKey"); got != "PAIR#alice#bob" {
		t.Errorf("guard key = %q", got)
	}

	fake.txErr = cancelledBy("ConditionalCheckFailed", "None")
	if err := store.Create(ctx, inv); !errors.Is(err, ErrConflict) {
		t.Errorf("occupied pair error = %v, want ErrConflict", err)
	}

	fake.txErr = cancelledBy("ThrottlingError")
	if err := store.Create(ctx, inv); !errors.Is(err, ErrUpstream) {
		t.Errorf("throttled transaction error = %v, want ErrUpstream", err)
	}
}

func TestDynamoInvitationStoreAccept(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	at := fixedNow.Add(time.Hour)

	accepted := models.Invitation{InvitationID: "inv-1", SenderID: "alice", ReceiverID: "bob", Status: models.InvitationStatusAccepted, CreatedAt: fixedNow, UpdatedAt: at}
	fake := &fakeDynamo{updateAttrs: mustMarshal(t, accepted)}
	store := NewDynamoInvitationStore(&DynamoService{Client: fake}, "", "")

	got, err := store.UpdateStatus(ctx, "inv-1", models.InvitationStatusPending, models.InvitationStatusAccepted, at)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if got.Status != models.InvitationStatusAccepted || got.SenderID != "alice" {
		t.Errorf("invitation = %+v", got)
	}
	if len(fake.txs) != 0 {
		t.Errorf("accepting should keep the pair guard, got %d transactions", len(fake.txs))
	}

	upd := fake.updates[0]
	if aws.ToString(upd.ConditionExpression) != "#status = :from" {
		t.Errorf("condition = %q", aws.ToString(upd.ConditionExpression))
	}
	if stringAttr(t, upd.ExpressionAttributeValues, ":from") != "pending" || stringAttr(t, upd.ExpressionAttributeValues, ":to") != "accepted" {
		t.Errorf("values = %v", upd.ExpressionAttributeValues)
	}
	if upd.ReturnValues != types.ReturnValueAllNew {
		t.Errorf("return values = %q", upd.ReturnValues)
	}

	fake.updateErr = conditionFailed()
	if _, err := store.UpdateStatus(ctx, "inv-1", models.InvitationStatusPending, models.InvitationStatusAccepted, at); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("lost race error = %v, want ErrInvalidTransition", err)
	}

	fake.updateErr = errors.New("connection reset")
	if _, err := store.UpdateStatus(ctx, "inv-1", models.InvitationStatusPending, models.InvitationStatusAccepted, at); !errors.Is(err, ErrUpstream) {
		t.Errorf("network error = %v, want ErrUpstream", err)
	}
}

func TestDynamoInvitationStoreDecline(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	at := fixedNow.Add(time.Hour)

	pending := models.Invitation{InvitationID: "inv-1", SenderID: "alice", ReceiverID: "bob", Status: models.InvitationStatusPending, CreatedAt: fixedNow, UpdatedAt: fixedNow}
	fake := &fakeDynamo{getItem: mustMarshal(t, pending)}
	store := NewDynamoInvitationStore(&DynamoService{Client: fake}, "Invitations", "InvitationPairs")

	got, err := store.UpdateStatus(ctx, "inv-1", models.InvitationStatusPending, models.InvitationStatusDeclined, at)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if got.Status != models.InvitationStatusDeclined || !got.UpdatedAt.Equal(at) {
		t.Errorf("invitation = %+v", got)
	}
	if len(fake.updates) != 0 {
		t.Errorf("decline must go through a transaction, got %d single updates", len(fake.updates))
	}
	if len(fake.txs) != 1 || len(fake.txs[0].TransactItems) != 2 {
		t.Fatalf("transaction = %+v", fake.txs)
	}

	update := fake.txs[0].TransactItems[0].Update
	if update == nil {
		t.Fatal("first item is not an update")
	}
	if aws.ToString(update.TableName) != "Invitations" || aws.ToString(update.ConditionExpression) != "#status = :from" {
		t.Errorf("update = table %q condition %q", aws.ToString(update.TableName), aws.ToString(update.ConditionExpression))
	}
	if stringAttr(t, update.ExpressionAttributeValues, ":to") != "declined" {
		t.Errorf("values = %v", update.ExpressionAttributeValues)
	}

	release := fake.txs[0].TransactItems[1].Delete
	if release == nil {
		t.Fatal("second item is not a delete")
	}
	if aws.ToString(release.TableName) != "InvitationPairs" {
		t.Errorf("release table = %q", aws.ToString(release.TableName))
	}
	if got := stringAttr(t, release.Key, "pairKey"); got != "PAIR#alice#bob" {
		t.Errorf("release key = %q", got)
	}
	if aws.ToString(release.ConditionExpression) != "attribute_not_exists(pairKey) OR invitationId = :id" ||
		stringAttr(t, release.ExpressionAttributeValues, ":id") != "inv-1" {
		t.Errorf("release condition = %q values %v", aws.ToString(release.ConditionExpression), release.ExpressionAttributeValues)
	}

	fake.txErr = cancelledBy("ConditionalCheckFailed", "None")
	if _, err := store.UpdateStatus(ctx, "inv-1", models.InvitationStatusPending, models.InvitationStatusDeclined, at); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("lost race error = %v, want ErrInvalidTransition", err)
	}

	fake.txErr = cancelledBy("TransactionConflict")
	if _, err := store.UpdateStatus(ctx, "inv-1", models.InvitationStatusPending, models.InvitationStatusDeclined, at); !errors.Is(err, ErrUpstream) {
		t.Errorf("conflicting transaction error = %v, want ErrUpstream", err)
	}
}

func TestDynamoInvitationStoreDeclineMissing(t *testing.T) {
	t.Parallel()

	fake := &fakeDynamo{}
	store := NewDynamoInvitationStore(&DynamoService{Client: fake}, "", "")

	_, err := store.UpdateStatus(context.Background(), "inv-404", models.InvitationStatusPending, models.InvitationStatusDeclined, fixedNow)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateStatus() error = %v, want ErrNotFound", err)
	}
	if len(fake.txs) != 0 {
		t.Errorf("no transaction expected for a missing invitation")
	}
}

func TestDynamoInvitationStoreListByIndex(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := &fakeDynamo{items: []map[string]types.AttributeValue{
		mustMarshal(t, models.Invitation{InvitationID: "inv-1", SenderID: "alice", ReceiverID: "bob", Status: models.InvitationStatusPending}),
	}}
	store := NewDynamoInvitationStore(&DynamoService{Client: fake}, "", "")

	sent, err := store.ListBySender(ctx, "alice")
	if err != nil || len(sent) != 1 {
		t.Fatalf("ListBySender() = %v, %v", sent, err)
	}
	if _, err := store.ListByReceiver(ctx, "bob"); err != nil {
		t.Fatalf("ListByReceiver() error = %v", err)
	}
	if aws.ToString(fake.queries[0].IndexName) != models.SenderIDIndex || aws.ToString(fake.queries[1].IndexName) != models.ReceiverIDIndex {
		t.Errorf("indexes = %q, %q", aws.ToString(fake.queries[0].IndexName), aws.ToString(fake.queries[1].IndexName))
	}
	if got := stringAttr(t, fake.queries[1].ExpressionAttributeValues, ":v"); got != "bob" {
		t.Errorf(":v = %q", got)
	}
}
