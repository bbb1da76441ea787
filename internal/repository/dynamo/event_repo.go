package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"eventdesk/internal/domain"
)

// Events table secondary indexes.
const (
	eventNameIndex       = "name-index"        // name, id
	eventStatusDateIndex = "status-date-index" // status, date (range)
)

// nameReservationKey is the primary-key form of an event-name uniqueness
// reservation. Names are reserved case-insensitively and released when the
// event is soft-deleted, so names are unique among ACTIVE events only.
func nameReservationKey(name string) string {
	return "name#" + strings.ToLower(name)
}

type eventRecord struct {
	ID          string `dynamodbav:"id"`
	Name        string `dynamodbav:"name"`
	Description string `dynamodbav:"description,omitempty"`
	Date        string `dynamodbav:"date"`
	OrganizerID string `dynamodbav:"organizer_id"`
	ImageURL    string `dynamodbav:"image_url,omitempty"`
	Status      string `dynamodbav:"status"`
	CreatedAt   string `dynamodbav:"created_at"`
	UpdatedAt   string `dynamodbav:"updated_at"`
}

func newEventRecord(e *domain.Event) eventRecord {
	return eventRecord{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Date:        e.Date.UTC().Format(timeFormat),
		OrganizerID: e.OrganizerID,
		ImageURL:    e.ImageURL,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:   e.UpdatedAt.UTC().Format(timeFormat),
	}
}

func restoreEventItem(item map[string]types.AttributeValue) (*domain.Event, error) {
	var rec eventRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal event row: %w", err)
	}
	date, err := time.Parse(timeFormat, rec.Date)
	if err != nil {
		return nil, domain.NewValidationError("date", "malformed timestamp")
	}
	createdAt, err := time.Parse(timeFormat, rec.CreatedAt)
	if err != nil {
		return nil, domain.NewValidationError("created_at", "malformed timestamp")
	}
	updatedAt, err := time.Parse(timeFormat, rec.UpdatedAt)
	if err != nil {
		return nil, domain.NewValidationError("updated_at", "malformed timestamp")
	}
	return domain.RestoreEvent(rec.ID, rec.Name, rec.Description, date, rec.OrganizerID, rec.ImageURL, rec.Status, createdAt, updatedAt)
}

type eventRepository struct {
	db     DynamoAPI
	logger *slog.Logger
	table  string
}

// NewEventRepository returns an EventRepository backed by the given DynamoDB table.
func NewEventRepository(db DynamoAPI, logger *slog.Logger, table string) domain.EventRepository {
	return &eventRepository{db: db, logger: logger, table: table}
}

// Create writes the event together with a name reservation item in one
// transaction; an existing reservation maps to ErrDuplicateEventName.
func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	item, err := attributevalue.MarshalMap(newEventRecord(e))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = r.db.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName: aws.String(r.table),
					Item: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: nameReservationKey(e.Name)},
					},
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				Put: &types.Put{
					TableName: aws.String(r.table),
					Item:      item,
				},
			},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrDuplicateEventName
		}
		r.logger.ErrorContext(ctx, "dynamodb transact write failed", "table", r.table, "op", "create event", "err", err)
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "dynamodb get failed", "table", r.table, "op", "find event by id", "err", err)
		return nil, fmt.Errorf("get event: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	return restoreEventItem(out.Item)
}

func (r *eventRepository) FindByName(ctx context.Context, name string) (*domain.Event, error) {
	spec := querySpec{
		index:   eventNameIndex,
		partKey: "name",
		partVal: name,
	}
	input := buildQueryInput(r.table, spec, 1, nil)
	out, err := r.db.Query(ctx, input)
	if err != nil {
		r.logger.ErrorContext(ctx, "dynamodb query failed", "table", r.table, "index", spec.index, "err", err)
		return nil, fmt.Errorf("query event by name: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	return restoreEventItem(out.Items[0])
}

// FindAll always targets the status+date index: the partition key is the
// status filter (ACTIVE by default) and the sort key carries the date range
// as BETWEEN, >=, or <=. Name narrows results post-index. Results ascend by
// date.
func (r *eventRepository) FindAll(ctx context.Context, filter domain.EventFilter, page domain.PageRequest) (*domain.Page[*domain.Event], error) {
	status := filter.Status
	if status == "" {
		status = domain.StatusActive
	}
	spec := querySpec{
		index:   eventStatusDateIndex,
		partKey: "status",
		partVal: string(status),
		sortKey: "date",
	}
	if !filter.DateFrom.IsZero() {
		spec.sortFrom = filter.DateFrom.UTC().Format(timeFormat)
	}
	if !filter.DateTo.IsZero() {
		spec.sortTo = filter.DateTo.UTC().Format(timeFormat)
	}
	spec.contains("name", filter.Name)

	return queryPage(ctx, r.db, r.logger, r.table, spec, page, restoreEventItem)
}

func (r *eventRepository) Update(ctx context.Context, id string, patch domain.EventPatch) error {
	var date *string
	if patch.Date != nil {
		d := patch.Date.UTC().Format(timeFormat)
		date = &d
	}
	updatedAt := patch.UpdatedAt.UTC().Format(timeFormat)
	expr, names, values := buildUpdateExpression(map[string]*string{
		"description": patch.Description,
		"date":        date,
		"image_url":   patch.ImageURL,
		"updated_at":  &updatedAt,
	})
	_, err := r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("attribute_exists(id)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrEventNotFound
		}
		r.logger.ErrorContext(ctx, "dynamodb update failed", "table", r.table, "op", "update event", "err", err)
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// SoftDelete flips status to INACTIVE and releases the name reservation in
// the same transaction, making the name reusable.
func (r *eventRepository) SoftDelete(ctx context.Context, id, name string, now time.Time) error {
	_, err := r.db.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName: aws.String(r.table),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: id},
					},
					UpdateExpression:    aws.String("SET #status = :inactive, #updated_at = :updated_at"),
					ConditionExpression: aws.String("attribute_exists(id) AND #status = :active"),
					ExpressionAttributeNames: map[string]string{
						"#status":     "status",
						"#updated_at": "updated_at",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":inactive":   &types.AttributeValueMemberS{Value: string(domain.StatusInactive)},
						":active":     &types.AttributeValueMemberS{Value: string(domain.StatusActive)},
						":updated_at": &types.AttributeValueMemberS{Value: now.UTC().Format(timeFormat)},
					},
				},
			},
			{
				Delete: &types.Delete{
					TableName: aws.String(r.table),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: nameReservationKey(name)},
					},
				},
			},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrAlreadyInactive
		}
		r.logger.ErrorContext(ctx, "dynamodb transact write failed", "table", r.table, "op", "soft delete event", "err", err)
		return fmt.Errorf("soft delete event: %w", err)
	}
	return nil
}
