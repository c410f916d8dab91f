package mq

import (
	"tradedesk/internal/config"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// Publisher outbox 投递接口，测试中可替换
type Publisher interface {
	SendMessage(topic, key, value string) error
}

// KafkaPublisher 基于 sarama 同步生产者
type KafkaPublisher struct {
	producer sarama.SyncProducer
}

// InitKafka 初始化 Kafka 生产者，未配置 Brokers 时返回 nil
func InitKafka(cfg *config.KafkaConfig) *KafkaPublisher {
	if len(cfg.Brokers) == 0 {
		logrus.Warn("未配置 Kafka，outbox 消息暂不投递")
		return nil
	}

	kafkaConfig := sarama.NewConfig()
	kafkaConfig.Producer.RequiredAcks = sarama.WaitForAll // 等待所有副本确认
	kafkaConfig.Producer.Retry.Max = 3
	kafkaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, kafkaConfig)
	if err != nil {
		logrus.WithError(err).Fatal("创建 Kafka 生产者失败")
	}

	logrus.Info("Kafka 生产者创建成功")
	return NewKafkaPublisher(producer)
}

func NewKafkaPublisher(producer sarama.SyncProducer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

// SendMessage 发送消息到 Kafka
func (p *KafkaPublisher) SendMessage(topic, key, value string) error {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.StringEncoder(value),
	}

	_, _, err := p.producer.SendMessage(msg)
	return err
}

// Close 关闭 Kafka 生产者
func (p *KafkaPublisher) Close() {
	if p == nil || p.producer == nil {
		return
	}
	if err := p.producer.Close(); err != nil {
		logrus.WithError(err).Warn("关闭 Kafka 生产者失败")
	}
}
