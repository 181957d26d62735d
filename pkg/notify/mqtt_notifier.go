package notify

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wristcare/monitor-agent/internal/models"
	"github.com/wristcare/monitor-agent/pkg/mqtt"
)

// MQTTNotifier publishes banners as retained messages so consoles joining
// late still see the active alert. Clearing republishes an empty retained
// payload, which drops the banner from the broker.
type MQTTNotifier struct {
	client mqtt.MQTTClient
	topic  string
	qos    byte
	logger zerolog.Logger
}

// NewMQTTNotifier creates a new MQTTNotifier publishing on the given topic.
func NewMQTTNotifier(client mqtt.MQTTClient, topic string, qos byte, logger zerolog.Logger) *MQTTNotifier {
	return &MQTTNotifier{
		client: client,
		topic:  topic,
		qos:    qos,
		logger: logger,
	}
}

// ShowBanner publishes the banner to the broker.
func (n *MQTTNotifier) ShowBanner(banner models.Banner) error {
	payload, err := json.Marshal(banner)
	if err != nil {
		return fmt.Errorf("failed to serialize banner: %w", err)
	}

	token := n.client.Publish(n.topic, n.qos, true, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to publish banner: %w", token.Error())
	}

	n.logger.Debug().
		Str("topic", n.topic).
		Str("device_id", banner.DeviceID).
		Msg("Banner published")
	return nil
}

// ClearBanner removes the retained banner from the broker.
func (n *MQTTNotifier) ClearBanner() error {
	token := n.client.Publish(n.topic, n.qos, true, []byte{})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to clear banner: %w", token.Error())
	}

	n.logger.Debug().Str("topic", n.topic).Msg("Banner cleared")
	return nil
}
