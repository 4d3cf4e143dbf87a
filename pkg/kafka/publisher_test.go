package kafka

import (
	"context"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/klede-lab/waitlist/pkg/pubsub"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Publish(t *testing.T) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true

	producer := mocks.NewSyncProducer(t, config)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(m *sarama.ProducerMessage) error {
		require.Equal(t, "waitlist.signup", m.Topic)

		key, err := m.Key.Encode()
		require.NoError(t, err)
		require.Equal(t, "1", string(key))

		value, err := m.Value.Encode()
		require.NoError(t, err)
		require.Equal(t, `{"email":"a@b.c"}`, string(value))
		return nil
	})

	p := &publisher{clientID: "test", producer: producer}
	err := p.Publish(context.Background(), "waitlist.signup", &pubsub.Pack{
		Key: []byte("1"),
		Msg: []byte(`{"email":"a@b.c"}`),
	})
	require.NoError(t, err)
	require.NoError(t, p.Stop(context.Background()))
}
