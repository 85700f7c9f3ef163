package utils

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// StringKey converts a plain key map into DynamoDB attribute values.
func StringKey(key map[string]string) map[string]types.AttributeValue {
	attrs := make(map[string]types.AttributeValue, len(key))
	for name, value := range key {
		attrs[name] = &types.AttributeValueMemberS{Value: value}
	}
	return attrs
}

// ExtractString safely extracts a string attribute from a DynamoDB item
func ExtractString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}

// ExtractNumber safely extracts a numeric attribute from a DynamoDB item
func ExtractNumber(item map[string]types.AttributeValue, field string) int {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberN); ok {
			if n, err := strconv.Atoi(v.Value); err == nil {
				return n
			}
		}
	}
	return 0
}
