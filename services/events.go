package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/AdamWiercioch95/Boardgame-Shop/models"
	awspkg "github.com/AdamWiercioch95/Boardgame-Shop/pkg/aws"
)

// OrderEventPublisher delivers order.placed notifications.
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, evt models.OrderPlacedEvent) error
}

type snsOrderPublisher struct {
	client   awspkg.SNSPublisher
	topicArn string
}

// NewSNSOrderPublisher publishes order events to an SNS topic.
func NewSNSOrderPublisher(client awspkg.SNSPublisher, topicArn string) OrderEventPublisher {
	return &snsOrderPublisher{client: client, topicArn: topicArn}
}

func (p *snsOrderPublisher) PublishOrderPlaced(ctx context.Context, evt models.OrderPlacedEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.topicArn, evt.Event, body)
}

// MultiPublisher fans an event out to every publisher and joins the errors.
type MultiPublisher []OrderEventPublisher

func (m MultiPublisher) PublishOrderPlaced(ctx context.Context, evt models.OrderPlacedEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishOrderPlaced(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
