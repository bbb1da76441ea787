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

// Users table secondary indexes.
const (
	userEmailIndex  = "email-index"  // email
	userRoleIndex   = "role-index"   // role, id
	userStatusIndex = "status-index" // status, id
)

// emailReservationKey is the primary-key form of an email uniqueness
// reservation item. Reservations live in the users table alongside user rows
// and carry no indexed attributes, so they never appear in query results.
func emailReservationKey(email string) string {
	return "email#" + email
}

type userRecord struct {
	ID           string `dynamodbav:"id"`
	Name         string `dynamodbav:"name"`
	Email        string `dynamodbav:"email"`
	PasswordHash string `dynamodbav:"password_hash"`
	Salt         string `dynamodbav:"salt"`
	Phone        string `dynamodbav:"phone,omitempty"`
	Role         string `dynamodbav:"role"`
	Status       string `dynamodbav:"status"`
	CreatedAt    string `dynamodbav:"created_at"`
	UpdatedAt    string `dynamodbav:"updated_at"`
}

func newUserRecord(u *domain.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Salt:         u.Salt,
		Phone:        u.Phone,
		Role:         string(u.Role),
		Status:       string(u.Status),
		CreatedAt:    u.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:    u.UpdatedAt.UTC().Format(timeFormat),
	}
}

func restoreUserItem(item map[string]types.AttributeValue) (*domain.User, error) {
	var rec userRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal user row: %w", err)
	}
	createdAt, err := time.Parse(timeFormat, rec.CreatedAt)
	if err != nil {
		return nil, domain.NewValidationError("created_at", "malformed timestamp")
	}
	updatedAt, err := time.Parse(timeFormat, rec.UpdatedAt)
	if err != nil {
		return nil, domain.NewValidationError("updated_at", "malformed timestamp")
	}
	return domain.RestoreUser(rec.ID, rec.Name, rec.Email, rec.PasswordHash, rec.Salt, rec.Phone, rec.Role, rec.Status, createdAt, updatedAt)
}

type userRepository struct {
	db     DynamoAPI
	logger *slog.Logger
	table  string
}

// NewUserRepository returns a UserRepository backed by the given DynamoDB table.
func NewUserRepository(db DynamoAPI, logger *slog.Logger, table string) domain.UserRepository {
	return &userRepository{db: db, logger: logger, table: table}
}

// Create writes the user together with an email reservation item in one
// transaction. A reservation that already exists cancels the transaction and
// maps to ErrDuplicateEmail, closing the read-then-write race on email.
func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(newUserRecord(u))
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.db.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName: aws.String(r.table),
					Item: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: emailReservationKey(u.Email)},
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
			return domain.ErrDuplicateEmail
		}
		r.logger.ErrorContext(ctx, "dynamodb transact write failed", "table", r.table, "op", "create user", "err", err)
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "dynamodb get failed", "table", r.table, "op", "find user by id", "err", err)
		return nil, fmt.Errorf("get user: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	return restoreUserItem(out.Item)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	spec := querySpec{
		index:   userEmailIndex,
		partKey: "email",
		partVal: email,
	}
	input := buildQueryInput(r.table, spec, 1, nil)
	out, err := r.db.Query(ctx, input)
	if err != nil {
		r.logger.ErrorContext(ctx, "dynamodb query failed", "table", r.table, "index", spec.index, "err", err)
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	return restoreUserItem(out.Items[0])
}

// FindAll targets exactly one index: the role index when a role filter is
// supplied, the status index when a status filter is supplied, and otherwise
// the status index scoped to ACTIVE.
func (r *userRepository) FindAll(ctx context.Context, filter domain.UserFilter, page domain.PageRequest) (*domain.Page[*domain.User], error) {
	var spec querySpec
	switch {
	case filter.Role != "":
		spec = querySpec{index: userRoleIndex, partKey: "role", partVal: string(filter.Role)}
		spec.eq("status", string(filter.Status))
	case filter.Status != "":
		spec = querySpec{index: userStatusIndex, partKey: "status", partVal: string(filter.Status)}
	default:
		spec = querySpec{index: userStatusIndex, partKey: "status", partVal: string(domain.StatusActive)}
	}
	spec.contains("name", filter.Name)
	spec.contains("email", filter.Email)

	return queryPage(ctx, r.db, r.logger, r.table, spec, page, restoreUserItem)
}

func (r *userRepository) Update(ctx context.Context, id string, patch domain.UserPatch) error {
	updatedAt := patch.UpdatedAt.UTC().Format(timeFormat)
	expr, names, values := buildUpdateExpression(map[string]*string{
		"name":          patch.Name,
		"phone":         patch.Phone,
		"password_hash": patch.PasswordHash,
		"salt":          patch.Salt,
		"updated_at":    &updatedAt,
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
			return domain.ErrUserNotFound
		}
		r.logger.ErrorContext(ctx, "dynamodb update failed", "table", r.table, "op", "update user", "err", err)
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// SoftDelete flips status to INACTIVE. The condition rejects a second delete
// (or a missing row) as a conflict; the email reservation is kept, emails stay
// unique forever.
func (r *userRepository) SoftDelete(ctx context.Context, id string, now time.Time) error {
	_, err := r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
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
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrAlreadyInactive
		}
		r.logger.ErrorContext(ctx, "dynamodb update failed", "table", r.table, "op", "soft delete user", "err", err)
		return fmt.Errorf("soft delete user: %w", err)
	}
	return nil
}
