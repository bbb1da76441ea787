package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"eventdesk/internal/domain"
)

// Subscriptions table secondary indexes.
const (
	subUserIndex          = "user-index"           // user_id, id
	subEventIndex         = "event-index"          // event_id, id
	subStatusCreatedIndex = "status-created-index" // status, created_at (range)
	subUserEventIndex     = "user-event-index"     // user_id, event_id (pair lookup)
)

// pairReservationKey is the primary-key form of a (user, event) uniqueness
// reservation. Released when the subscription is cancelled, so a pair is
// unique only while ACTIVE.
func pairReservationKey(userID, eventID string) string {
	return "pair#" + userID + "#" + eventID
}

type subscriptionRecord struct {
	ID        string `dynamodbav:"id"`
	UserID    string `dynamodbav:"user_id"`
	EventID   string `dynamodbav:"event_id"`
	Status    string `dynamodbav:"status"`
	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

func newSubscriptionRecord(s *domain.Subscription) subscriptionRecord {
	return subscriptionRecord{
		ID:        s.ID,
		UserID:    s.UserID,
		EventID:   s.EventID,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt: s.UpdatedAt.UTC().Format(timeFormat),
	}
}

func restoreSubscriptionItem(item map[string]types.AttributeValue) (*domain.Subscription, error) {
	var rec subscriptionRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal subscription row: %w", err)
	}
	createdAt, err := time.Parse(timeFormat, rec.CreatedAt)
	if err != nil {
		return nil, domain.NewValidationError("created_at", "malformed timestamp")
	}
	updatedAt, err := time.Parse(timeFormat, rec.UpdatedAt)
	if err != nil {
		return nil, domain.NewValidationError("updated_at", "malformed timestamp")
	}
	return domain.RestoreSubscription(rec.ID, rec.UserID, rec.EventID, rec.Status, createdAt, updatedAt)
}

type subscriptionRepository struct {
	db     DynamoAPI
	logger *slog.Logger
	table  string
}

// NewSubscriptionRepository returns a SubscriptionRepository backed by the
// given DynamoDB table.
func NewSubscriptionRepository(db DynamoAPI, logger *slog.Logger, table string) domain.SubscriptionRepository {
	return &subscriptionRepository{db: db, logger: logger, table: table}
}

// Create writes the subscription together with a pair reservation item in one
// transaction; an existing reservation maps to ErrAlreadySubscribed.
func (r *subscriptionRepository) Create(ctx context.Context, s *domain.Subscription) error {
	item, err := attributevalue.MarshalMap(newSubscriptionRecord(s))
	if err != nil {
		return fmt.Errorf("marshal subscription: %w", err)
	}
	_, err = r.db.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName: aws.String(r.table),
					Item: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: pairReservationKey(s.UserID, s.EventID)},
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
			return domain.ErrAlreadySubscribed
		}
		r.logger.ErrorContext(ctx, "dynamodb transact write failed", "table", r.table, "op", "create subscription", "err", err)
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) FindByID(ctx context.Context, id string) (*domain.Subscription, error) {
	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "dynamodb get failed", "table", r.table, "op", "find subscription by id", "err", err)
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	return restoreSubscriptionItem(out.Item)
}

// FindByUserAndEvent returns the ACTIVE subscription for the exact pair via
// the pair index, or nil when none exists. Inactive prior subscriptions for
// the same pair are filtered out post-index, so the lookup pages until it
// finds a match or exhausts the pair.
func (r *subscriptionRepository) FindByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.Subscription, error) {
	spec := querySpec{
		index:   subUserEventIndex,
		partKey: "user_id",
		partVal: userID,
		sortKey: "event_id",
		sortEq:  eventID,
	}
	spec.eq("status", string(domain.StatusActive))

	var startKey map[string]types.AttributeValue
	for {
		input := buildQueryInput(r.table, spec, domain.MaxPageLimit, startKey)
		out, err := r.db.Query(ctx, input)
		if err != nil {
			r.logger.ErrorContext(ctx, "dynamodb query failed", "table", r.table, "index", spec.index, "err", err)
			return nil, fmt.Errorf("query subscription by pair: %w", err)
		}
		if len(out.Items) > 0 {
			return restoreSubscriptionItem(out.Items[0])
		}
		if len(out.LastEvaluatedKey) == 0 {
			return nil, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// FindAll targets exactly one index: the pair index when both user and event
// are supplied, the user or event index when one of them is, and otherwise
// the status+created index scoped to ACTIVE with the creation-time range on
// the sort key.
func (r *subscriptionRepository) FindAll(ctx context.Context, filter domain.SubscriptionFilter, page domain.PageRequest) (*domain.Page[*domain.Subscription], error) {
	var spec querySpec
	switch {
	case filter.UserID != "" && filter.EventID != "":
		spec = querySpec{index: subUserEventIndex, partKey: "user_id", partVal: filter.UserID, sortKey: "event_id", sortEq: filter.EventID}
		spec.eq("status", string(filter.Status))
		spec.between("created_at", formatBound(filter.CreatedFrom), formatBound(filter.CreatedTo))
	case filter.UserID != "":
		spec = querySpec{index: subUserIndex, partKey: "user_id", partVal: filter.UserID}
		spec.eq("status", string(filter.Status))
		spec.between("created_at", formatBound(filter.CreatedFrom), formatBound(filter.CreatedTo))
	case filter.EventID != "":
		spec = querySpec{index: subEventIndex, partKey: "event_id", partVal: filter.EventID}
		spec.eq("status", string(filter.Status))
		spec.between("created_at", formatBound(filter.CreatedFrom), formatBound(filter.CreatedTo))
	default:
		status := filter.Status
		if status == "" {
			status = domain.StatusActive
		}
		spec = querySpec{
			index:    subStatusCreatedIndex,
			partKey:  "status",
			partVal:  string(status),
			sortKey:  "created_at",
			sortFrom: formatBound(filter.CreatedFrom),
			sortTo:   formatBound(filter.CreatedTo),
		}
	}

	return queryPage(ctx, r.db, r.logger, r.table, spec, page, restoreSubscriptionItem)
}

// SoftDelete flips status to INACTIVE and releases the pair reservation in
// the same transaction, so the user may re-subscribe.
func (r *subscriptionRepository) SoftDelete(ctx context.Context, id, userID, eventID string, now time.Time) error {
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
						"id": &types.AttributeValueMemberS{Value: pairReservationKey(userID, eventID)},
					},
				},
			},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrAlreadyInactive
		}
		r.logger.ErrorContext(ctx, "dynamodb transact write failed", "table", r.table, "op", "soft delete subscription", "err", err)
		return fmt.Errorf("soft delete subscription: %w", err)
	}
	return nil
}

// formatBound renders a time filter bound, or "" when the bound is unset.
func formatBound(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFormat)
}
