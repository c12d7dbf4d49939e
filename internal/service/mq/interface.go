package mq

import "context"

// Message 代表一条通用的业务消息
type Message struct {
	ID      string // 消息ID (例如 Redis Stream ID)
	Topic   string // 主题 (例如 "vesting_events_purchase")
	Key     string // 分区键 (池 ID), 同样用于 Kafka Partition
	Payload []byte // 消息体 (JSON)
}

// Producer 生产者接口
type Producer interface {
	// Publish 发送消息
	// key: 用于分区排序 (Partition Key), 例如池 ID. 传空字符串则随机分区.
	Publish(ctx context.Context, topic string, key string, payload []byte) error
}
