package messaging

import (
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageToKafkaMessage(t *testing.T) {
	t.Run("сообщение с ключом", func(t *testing.T) {
		msg := messageToKafkaMessage("wb-card-update", []byte(`{"nm_id":1}`), "product-key")

		require.NotNil(t, msg.TopicPartition.Topic)
		assert.Equal(t, "wb-card-update", *msg.TopicPartition.Topic)
		assert.Equal(t, []byte("product-key"), msg.Key)
		assert.Equal(t, []byte(`{"nm_id":1}`), msg.Value)

		headers := make(map[string]string)
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.NotEmpty(t, headers["message_id"])
		assert.NotEmpty(t, headers["timestamp"])
	})

	t.Run("пустой ключ не превращается в пустые байты", func(t *testing.T) {
		msg := messageToKafkaMessage("wb-card-update", []byte("{}"), "")
		assert.Nil(t, msg.Key)
	})
}

func TestKafkaMessageToMessage(t *testing.T) {
	topic := "wb-card-update"
	published := time.Date(2024, 11, 3, 12, 30, 0, 0, time.UTC)

	kafkaMsg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic},
		Key:            []byte("product-key"),
		Value:          []byte(`{"nm_id":1}`),
		Headers: []kafka.Header{
			{Key: "message_id", Value: []byte("msg-1")},
			{Key: "timestamp", Value: []byte(published.Format(time.RFC3339Nano))},
		},
	}

	msg := kafkaMessageToMessage(kafkaMsg)

	assert.Equal(t, "msg-1", msg.ID)
	assert.Equal(t, topic, msg.Topic)
	assert.Equal(t, "product-key", msg.Key)
	assert.Equal(t, []byte(`{"nm_id":1}`), msg.Value)
	assert.True(t, msg.PublishedAt.Equal(published))
}

func TestRoundTrip(t *testing.T) {
	kafkaMsg := messageToKafkaMessage("wb-card-update", []byte(`{"nm_id":271851572}`), "product-key")
	msg := kafkaMessageToMessage(kafkaMsg)

	assert.Equal(t, "wb-card-update", msg.Topic)
	assert.Equal(t, "product-key", msg.Key)
	assert.Equal(t, []byte(`{"nm_id":271851572}`), msg.Value)
	assert.NotEmpty(t, msg.ID)
}
