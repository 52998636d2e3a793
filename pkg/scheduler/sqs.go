package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQS rejects delays above 15 minutes.
const maxDelay = 15 * time.Minute

// SQSAPI is the subset of the SQS client used by the scheduler.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSScheduler implements the Scheduler interface using AWS SQS.
type SQSScheduler struct {
	Client   SQSAPI
	QueueURL string
	Now      func() time.Time
}

// NewSQSScheduler creates a new SQSScheduler.
func NewSQSScheduler(client SQSAPI, queueURL string) *SQSScheduler {
	return &SQSScheduler{
		Client:   client,
		QueueURL: queueURL,
		Now:      time.Now,
	}
}

// Make sure we conform to the interface
var _ Scheduler = (*SQSScheduler)(nil)

// ScheduleStatusCheck sends a StatusCheck for orderID to the queue.
func (s *SQSScheduler) ScheduleStatusCheck(ctx context.Context, orderID string, delay time.Duration) error {
	delay = min(max(delay, 0), maxDelay)

	body, err := json.Marshal(StatusCheck{OrderID: orderID, EnqueuedAt: s.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal status check for SQS: %w", err)
	}

	_, err = s.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:     aws.String(s.QueueURL),
		MessageBody:  aws.String(string(body)),
		DelaySeconds: int32(delay / time.Second),
	})
	if err != nil {
		return fmt.Errorf("failed to send status check for order %s to SQS: %w", orderID, err)
	}

	return nil
}
