package service

import (
	"context"
	"encoding/json"
	"log"

	"lost-london-agent/internal/dto"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the internal teaser-rebuild topic. Admin keyword
// merges land here so the index swap happens off the request path.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	guideService IGuideService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	guideService IGuideService,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		guideService: guideService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.TeaserRebuildMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal rebuild message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Rebuilding teaser cache (reason: %s)", payload.Reason)

	if _, err := cs.guideService.RebuildTeaserCache(ctx); err != nil {
		log.Printf("[ERROR] Teaser cache rebuild failed: %v", err)
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
