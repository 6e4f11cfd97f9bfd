package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/JoeShih716/go-account-system/internal/app/account/usecase"
)

// Publisher 將交易完成事件發布到 Kafka
// 發布是 best-effort：呼叫端只記 log，不回滾交易
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *Publisher) Publish(topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(context.Background(), kafka.Message{Value: data})
}

// Close 關閉底層 writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ usecase.EventPublisher = (*Publisher)(nil)
