// Package docstore provides the document-database boundary: each
// Collection persists one record type in a DynamoDB table keyed by a
// string "id" attribute and exposes the five operations the rest of
// the system depends on (create, get, list, update, delete, plus a
// timestamp range query).
package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/elmarkeb/clinicdesk/pkg/logging"
)

var (
	// ErrNotFound is returned when no record has the requested id
	ErrNotFound = errors.New("docstore: record not found")

	// ErrAlreadyExists is returned when creating a record whose id is taken
	ErrAlreadyExists = errors.New("docstore: record already exists")
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(context.Context, *dynamodb.UpdateItemInput, ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Collection is one document collection backed by a DynamoDB table.
type Collection struct {
	client  dynamoAPI
	table   string
	logger  *logging.Logger
	observe func(table, operation string, seconds float64)
}

// NewCollection builds a collection over the provided DynamoDB client.
func NewCollection(client dynamoAPI, table string, logger *logging.Logger) *Collection {
	if client == nil {
		panic("docstore: dynamodb client required")
	}
	if table == "" {
		panic("docstore: table name required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Collection{client: client, table: table, logger: logger}
}

// SetLatencyObserver registers a callback that receives the table
// name, operation and elapsed seconds for every store round trip.
func (c *Collection) SetLatencyObserver(fn func(table, operation string, seconds float64)) {
	c.observe = fn
}

func (c *Collection) track(operation string) func() {
	if c.observe == nil {
		return func() {}
	}
	start := time.Now()
	return func() { c.observe(c.table, operation, time.Since(start).Seconds()) }
}

// Create inserts a new record. The record must marshal with a string
// "id" attribute; an existing id is rejected.
func (c *Collection) Create(ctx context.Context, record any) error {
	defer c.track("create")()
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("docstore: marshal record: %w", err)
	}

	_, err = c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(c.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("docstore: put %s: %w", c.table, err)
	}
	return nil
}

// Get loads a single record by id into out.
func (c *Collection) Get(ctx context.Context, id string, out any) error {
	defer c.track("get")()
	resp, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.table),
		Key:       idKey(id),
	})
	if err != nil {
		return fmt.Errorf("docstore: get %s/%s: %w", c.table, id, err)
	}
	if resp.Item == nil {
		return ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(resp.Item, out); err != nil {
		return fmt.Errorf("docstore: decode %s/%s: %w", c.table, id, err)
	}
	return nil
}

// ListAll scans the whole collection into out, a pointer to a slice.
func (c *Collection) ListAll(ctx context.Context, out any) error {
	defer c.track("list")()
	items, err := c.scan(ctx, &dynamodb.ScanInput{TableName: aws.String(c.table)})
	if err != nil {
		return fmt.Errorf("docstore: scan %s: %w", c.table, err)
	}
	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("docstore: decode %s list: %w", c.table, err)
	}
	return nil
}

// Update sets the given fields on an existing record.
func (c *Collection) Update(ctx context.Context, id string, fields map[string]any) error {
	defer c.track("update")()
	if len(fields) == 0 {
		return nil
	}

	names := make(map[string]string, len(fields))
	values := make(map[string]types.AttributeValue, len(fields))
	expr := "SET "

	// Deterministic expression order keeps tests and logs stable.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i, k := range keys {
		name := fmt.Sprintf("#f%d", i)
		value := fmt.Sprintf(":v%d", i)
		av, err := attributevalue.Marshal(fields[k])
		if err != nil {
			return fmt.Errorf("docstore: marshal field %s: %w", k, err)
		}
		names[name] = k
		values[value] = av
		if i > 0 {
			expr += ", "
		}
		expr += name + " = " + value
	}

	_, err := c.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(c.table),
		Key:                       idKey(id),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("docstore: update %s/%s: %w", c.table, id, err)
	}
	return nil
}

// Delete removes a record by id.
func (c *Collection) Delete(ctx context.Context, id string) error {
	defer c.track("delete")()
	_, err := c.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(c.table),
		Key:                 idKey(id),
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("docstore: delete %s/%s: %w", c.table, id, err)
	}
	return nil
}

// QueryRange loads every record whose RFC3339 timestamp field lies in
// [from, to] into out. Timestamps are stored as RFC3339 strings, so the
// bound comparison is lexicographic.
func (c *Collection) QueryRange(ctx context.Context, field string, from, to time.Time, out any) error {
	defer c.track("range")()
	items, err := c.scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(c.table),
		FilterExpression: aws.String("#ts BETWEEN :from AND :to"),
		ExpressionAttributeNames: map[string]string{
			"#ts": field,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":from": &types.AttributeValueMemberS{Value: from.UTC().Format(time.RFC3339)},
			":to":   &types.AttributeValueMemberS{Value: to.UTC().Format(time.RFC3339)},
		},
	})
	if err != nil {
		return fmt.Errorf("docstore: range scan %s.%s: %w", c.table, field, err)
	}
	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("docstore: decode %s range: %w", c.table, err)
	}
	return nil
}

func (c *Collection) scan(ctx context.Context, input *dynamodb.ScanInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for {
		resp, err := c.client.Scan(ctx, input)
		if err != nil {
			return nil, err
		}
		items = append(items, resp.Items...)
		if resp.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = resp.LastEvaluatedKey
	}
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func isConditionFailed(err error) bool {
	var cond *types.ConditionalCheckFailedException
	return errors.As(err, &cond)
}
