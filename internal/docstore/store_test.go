package docstore

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmarkeb/clinicdesk/pkg/logging"
)

type record struct {
	ID        string `dynamodbav:"id" json:"id"`
	Name      string `dynamodbav:"name" json:"name"`
	StartsAt  string `dynamodbav:"startsAt,omitempty" json:"startsAt,omitempty"`
	Completed bool   `dynamodbav:"completed" json:"completed"`
}

// fakeDynamo keeps items in memory and honors the condition and filter
// expressions the store actually emits.
type fakeDynamo struct {
	items map[string]map[string]types.AttributeValue
	err   error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func itemID(item map[string]types.AttributeValue) string {
	if v, ok := item["id"].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	id := itemID(in.Item)
	if in.ConditionExpression != nil && strings.Contains(*in.ConditionExpression, "attribute_not_exists") {
		if _, exists := f.items[id]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	f.items[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	item, ok := f.items[itemID(in.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	id := itemID(in.Key)
	item, ok := f.items[id]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	// apply "SET #f0 = :v0, #f1 = :v1, ..."
	expr := strings.TrimPrefix(*in.UpdateExpression, "SET ")
	for _, clause := range strings.Split(expr, ", ") {
		parts := strings.Split(clause, " = ")
		name := in.ExpressionAttributeNames[parts[0]]
		item[name] = in.ExpressionAttributeValues[parts[1]]
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	id := itemID(in.Key)
	if _, ok := f.items[id]; !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	delete(f.items, id)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := &dynamodb.ScanOutput{}
	for _, item := range f.items {
		if in.FilterExpression != nil {
			field := in.ExpressionAttributeNames["#ts"]
			from := in.ExpressionAttributeValues[":from"].(*types.AttributeValueMemberS).Value
			to := in.ExpressionAttributeValues[":to"].(*types.AttributeValueMemberS).Value
			av, ok := item[field].(*types.AttributeValueMemberS)
			if !ok || av.Value < from || av.Value > to {
				continue
			}
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func newTestCollection(t *testing.T) (*Collection, *fakeDynamo) {
	t.Helper()
	fake := newFakeDynamo()
	return NewCollection(fake, "records", logging.Default()), fake
}

func TestCreateAndGet(t *testing.T) {
	coll, _ := newTestCollection(t)
	ctx := context.Background()

	require.NoError(t, coll.Create(ctx, record{ID: "r1", Name: "first"}))

	var got record
	require.NoError(t, coll.Get(ctx, "r1", &got))
	assert.Equal(t, "first", got.Name)
}

func TestCreateDuplicateID(t *testing.T) {
	coll, _ := newTestCollection(t)
	ctx := context.Background()

	require.NoError(t, coll.Create(ctx, record{ID: "r1"}))
	assert.ErrorIs(t, coll.Create(ctx, record{ID: "r1"}), ErrAlreadyExists)
}

func TestGetMissing(t *testing.T) {
	coll, _ := newTestCollection(t)

	var got record
	assert.ErrorIs(t, coll.Get(context.Background(), "nope", &got), ErrNotFound)
}

func TestListAll(t *testing.T) {
	coll, _ := newTestCollection(t)
	ctx := context.Background()

	require.NoError(t, coll.Create(ctx, record{ID: "r1", Name: "a"}))
	require.NoError(t, coll.Create(ctx, record{ID: "r2", Name: "b"}))

	var all []record
	require.NoError(t, coll.ListAll(ctx, &all))
	assert.Len(t, all, 2)
}

func TestUpdateFields(t *testing.T) {
	coll, _ := newTestCollection(t)
	ctx := context.Background()

	require.NoError(t, coll.Create(ctx, record{ID: "r1", Name: "before"}))
	require.NoError(t, coll.Update(ctx, "r1", map[string]any{"name": "after", "completed": true}))

	var got record
	require.NoError(t, coll.Get(ctx, "r1", &got))
	assert.Equal(t, "after", got.Name)
	assert.True(t, got.Completed)
}

func TestUpdateMissing(t *testing.T) {
	coll, _ := newTestCollection(t)
	err := coll.Update(context.Background(), "nope", map[string]any{"name": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	coll, _ := newTestCollection(t)
	ctx := context.Background()

	require.NoError(t, coll.Create(ctx, record{ID: "r1"}))
	require.NoError(t, coll.Delete(ctx, "r1"))

	var got record
	assert.ErrorIs(t, coll.Get(ctx, "r1", &got), ErrNotFound)
	assert.ErrorIs(t, coll.Delete(ctx, "r1"), ErrNotFound)
}

func TestQueryRangeInclusiveBounds(t *testing.T) {
	coll, _ := newTestCollection(t)
	ctx := context.Background()

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	inside := []string{
		day.Add(0).Format(time.RFC3339),
		day.Add(10 * time.Hour).Format(time.RFC3339),
		day.Add(23*time.Hour + 59*time.Minute).Format(time.RFC3339),
	}
	outside := day.AddDate(0, 0, 1).Format(time.RFC3339)

	require.NoError(t, coll.Create(ctx, record{ID: "a", StartsAt: inside[0]}))
	require.NoError(t, coll.Create(ctx, record{ID: "b", StartsAt: inside[1]}))
	require.NoError(t, coll.Create(ctx, record{ID: "c", StartsAt: inside[2]}))
	require.NoError(t, coll.Create(ctx, record{ID: "d", StartsAt: outside}))

	var got []record
	require.NoError(t, coll.QueryRange(ctx, "startsAt", day, day.Add(24*time.Hour-time.Second), &got))
	assert.Len(t, got, 3)
	for _, r := range got {
		assert.NotEqual(t, "d", r.ID)
	}
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	coll, fake := newTestCollection(t)
	fake.err = assert.AnError

	var all []record
	err := coll.ListAll(context.Background(), &all)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "docstore:")
}

func TestLatencyObserver(t *testing.T) {
	coll, _ := newTestCollection(t)

	type sample struct {
		table, op string
	}
	var seen []sample
	coll.SetLatencyObserver(func(table, operation string, seconds float64) {
		seen = append(seen, sample{table, operation})
		assert.GreaterOrEqual(t, seconds, 0.0)
	})

	ctx := context.Background()
	require.NoError(t, coll.Create(ctx, record{ID: "a", Name: "one"}))
	var got record
	require.NoError(t, coll.Get(ctx, "a", &got))

	require.Len(t, seen, 2)
	assert.Equal(t, "create", seen[0].op)
	assert.Equal(t, "get", seen[1].op)
}
