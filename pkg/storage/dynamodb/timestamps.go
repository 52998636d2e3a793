package dynamodb

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// sortableTime is RFC 3339 with a fixed nine-digit fraction, so string order on the
// GSI sort keys matches chronological order. The decoder still reads it as RFC 3339.
const sortableTime = "2006-01-02T15:04:05.000000000Z07:00"

func timeAV(t time.Time) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: t.UTC().Format(sortableTime)}
}
