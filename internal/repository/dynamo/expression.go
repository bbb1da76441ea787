package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"eventdesk/internal/domain"
)

// filterOp is a post-index filter predicate operator.
type filterOp int

const (
	filterEquals filterOp = iota
	filterContains
	filterGTE
	filterLTE
)

// filterCond is one predicate of the filter expression. Predicates are merged
// with AND; filters are evaluated after the index read and do not reduce cost.
type filterCond struct {
	attr  string
	op    filterOp
	value string
}

// querySpec describes a single-index query: mandatory partition-key equality,
// an optional sort-key condition, and optional filter predicates. Exactly one
// index is used per query.
type querySpec struct {
	index   string
	partKey string
	partVal string

	// Sort-key condition, all optional. sortEq takes precedence; otherwise
	// sortFrom/sortTo form BETWEEN, >=, or <= depending on which are set.
	sortKey  string
	sortEq   string
	sortFrom string
	sortTo   string

	filters []filterCond
}

// eq appends an equality filter when value is non-empty.
func (s *querySpec) eq(attr, value string) {
	if value != "" {
		s.filters = append(s.filters, filterCond{attr: attr, op: filterEquals, value: value})
	}
}

// contains appends a substring filter when value is non-empty.
func (s *querySpec) contains(attr, value string) {
	if value != "" {
		s.filters = append(s.filters, filterCond{attr: attr, op: filterContains, value: value})
	}
}

// between appends range filters for attributes not covered by the sort key.
func (s *querySpec) between(attr, from, to string) {
	if from != "" {
		s.filters = append(s.filters, filterCond{attr: attr, op: filterGTE, value: from})
	}
	if to != "" {
		s.filters = append(s.filters, filterCond{attr: attr, op: filterLTE, value: to})
	}
}

// buildQueryInput translates a querySpec into a DynamoDB QueryInput with
// placeholder-escaped attribute names (#attr) and value placeholders (:attr).
func buildQueryInput(table string, spec querySpec, limit int32, startKey map[string]types.AttributeValue) *dynamodb.QueryInput {
	names := map[string]string{
		"#" + spec.partKey: spec.partKey,
	}
	values := map[string]types.AttributeValue{
		":" + spec.partKey: &types.AttributeValueMemberS{Value: spec.partVal},
	}
	keyCond := fmt.Sprintf("#%s = :%s", spec.partKey, spec.partKey)

	if spec.sortKey != "" {
		sk := spec.sortKey
		switch {
		case spec.sortEq != "":
			names["#"+sk] = sk
			values[":"+sk] = &types.AttributeValueMemberS{Value: spec.sortEq}
			keyCond += fmt.Sprintf(" AND #%s = :%s", sk, sk)
		case spec.sortFrom != "" && spec.sortTo != "":
			names["#"+sk] = sk
			values[":"+sk+"_from"] = &types.AttributeValueMemberS{Value: spec.sortFrom}
			values[":"+sk+"_to"] = &types.AttributeValueMemberS{Value: spec.sortTo}
			keyCond += fmt.Sprintf(" AND #%s BETWEEN :%s_from AND :%s_to", sk, sk, sk)
		case spec.sortFrom != "":
			names["#"+sk] = sk
			values[":"+sk+"_from"] = &types.AttributeValueMemberS{Value: spec.sortFrom}
			keyCond += fmt.Sprintf(" AND #%s >= :%s_from", sk, sk)
		case spec.sortTo != "":
			names["#"+sk] = sk
			values[":"+sk+"_to"] = &types.AttributeValueMemberS{Value: spec.sortTo}
			keyCond += fmt.Sprintf(" AND #%s <= :%s_to", sk, sk)
		}
	}

	var filterParts []string
	for i, f := range spec.filters {
		namePH := fmt.Sprintf("#f%d", i)
		valuePH := fmt.Sprintf(":f%d", i)
		names[namePH] = f.attr
		values[valuePH] = &types.AttributeValueMemberS{Value: f.value}
		switch f.op {
		case filterContains:
			filterParts = append(filterParts, fmt.Sprintf("contains(%s, %s)", namePH, valuePH))
		case filterGTE:
			filterParts = append(filterParts, fmt.Sprintf("%s >= %s", namePH, valuePH))
		case filterLTE:
			filterParts = append(filterParts, fmt.Sprintf("%s <= %s", namePH, valuePH))
		default:
			filterParts = append(filterParts, fmt.Sprintf("%s = %s", namePH, valuePH))
		}
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		IndexName:                 aws.String(spec.index),
		KeyConditionExpression:    aws.String(keyCond),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		Limit:                     aws.Int32(limit),
		ExclusiveStartKey:         startKey,
	}
	if len(filterParts) > 0 {
		input.FilterExpression = aws.String(strings.Join(filterParts, " AND "))
	}
	return input
}

// queryPage runs a single-index query for one page and maps each raw row back
// through restore. A row that fails restoration propagates its error rather
// than being skipped.
func queryPage[T any](
	ctx context.Context,
	db DynamoAPI,
	logger *slog.Logger,
	table string,
	spec querySpec,
	page domain.PageRequest,
	restore func(map[string]types.AttributeValue) (T, error),
) (*domain.Page[T], error) {
	startKey, err := decodeCursor(page.Token)
	if err != nil {
		return nil, err
	}
	input := buildQueryInput(table, spec, int32(page.ClampedLimit()), startKey)
	out, err := db.Query(ctx, input)
	if err != nil {
		logger.ErrorContext(ctx, "dynamodb query failed", "table", table, "index", spec.index, "err", err)
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	items := make([]T, 0, len(out.Items))
	for _, raw := range out.Items {
		entity, err := restore(raw)
		if err != nil {
			logger.ErrorContext(ctx, "stored row failed validation", "table", table, "err", err)
			return nil, fmt.Errorf("restore %s row: %w", table, err)
		}
		items = append(items, entity)
	}
	next, err := encodeCursor(out.LastEvaluatedKey)
	if err != nil {
		return nil, err
	}
	return &domain.Page[T]{Items: items, NextToken: next}, nil
}

// buildUpdateExpression produces a SET clause over the given fields together
// with the name and value placeholder maps the store requires. Nil values are
// skipped. Fields are emitted in sorted order so the expression is stable.
func buildUpdateExpression(fields map[string]*string) (string, map[string]string, map[string]types.AttributeValue) {
	attrs := make([]string, 0, len(fields))
	for attr, value := range fields {
		if value == nil {
			continue
		}
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)

	names := make(map[string]string, len(attrs))
	values := make(map[string]types.AttributeValue, len(attrs))
	parts := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		names["#"+attr] = attr
		values[":"+attr] = &types.AttributeValueMemberS{Value: *fields[attr]}
		parts = append(parts, fmt.Sprintf("#%s = :%s", attr, attr))
	}
	if len(parts) == 0 {
		return "", nil, nil
	}
	return "SET " + strings.Join(parts, ", "), names, values
}
