package dynamo

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"eventdesk/internal/domain"
)

// Continuation tokens are base64-encoded JSON objects mapping key attribute
// names to their string values. Every index key attribute in this schema is
// string-typed, so the native LastEvaluatedKey round-trips losslessly.
// Tokens are opaque to callers and not guaranteed stable across versions.

// encodeCursor turns a LastEvaluatedKey into an opaque continuation token.
// A nil or empty key returns "", meaning pagination is exhausted.
func encodeCursor(key map[string]types.AttributeValue) (string, error) {
	if len(key) == 0 {
		return "", nil
	}
	flat := make(map[string]string, len(key))
	for name, attr := range key {
		s, ok := attr.(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("cursor attribute %q is not string-typed", name)
		}
		flat[name] = s.Value
	}
	raw, err := json.Marshal(flat)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// decodeCursor turns a continuation token back into an ExclusiveStartKey.
// An empty token returns nil (first page). Malformed tokens fail with
// domain.ErrInvalidCursor before any store call is made.
func decodeCursor(token string) (map[string]types.AttributeValue, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: not base64", domain.ErrInvalidCursor)
	}
	var flat map[string]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object", domain.ErrInvalidCursor)
	}
	if len(flat) == 0 {
		return nil, fmt.Errorf("%w: empty key", domain.ErrInvalidCursor)
	}
	key := make(map[string]types.AttributeValue, len(flat))
	for name, value := range flat {
		key[name] = &types.AttributeValueMemberS{Value: value}
	}
	return key, nil
}
