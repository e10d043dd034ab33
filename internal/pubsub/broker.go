package pubsub

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Broker is an in-memory pub/sub system. It remembers the last message of each
// topic, since a scoreboard push supersedes every earlier one.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[string][]chan []byte // topic -> list of subscriber channels
	latest      map[string][]byte        // topic -> last published message
}

type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

var (
	once   sync.Once
	broker *Broker
)

func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[string][]chan []byte),
		latest:      make(map[string][]byte),
	}
}

// GetBroker returns the process-wide Broker.
func GetBroker() *Broker {
	once.Do(func() {
		broker = NewBroker()
	})
	return broker
}

func ScoreboardTopic(contestID uint) string {
	return fmt.Sprintf("contest:%d:scoreboard", contestID)
}

// Subscribe subscribes to a topic. The new subscriber first receives the
// topic's latest message, if any, then live messages.
func (b *Broker) Subscribe(topic string) (<-chan []byte, func()) {
	b.mu.Lock()

	ch := make(chan []byte, 16)
	if msg, ok := b.latest[topic]; ok {
		ch <- msg
	}
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subscribers := b.subscribers[topic]
		for i, sub := range subscribers {
			if sub == ch {
				b.subscribers[topic] = append(subscribers[:i], subscribers[i+1:]...)
				close(ch)
				break
			}
		}
		zap.S().Debugf("unsubscribed from topic %s", topic)
	}

	zap.S().Debugf("new subscription to topic %s", topic)
	return ch, unsubscribe
}

// Publish records msg as the topic's latest message and broadcasts it to live
// subscribers without blocking.
func (b *Broker) Publish(topic string, msg []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest[topic] = msg

	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- msg:
		default:
			// Slow subscriber; it will get the next board.
		}
	}
}

// CloseTopic closes all subscriber channels and forgets the topic's latest
// message.
func (b *Broker) CloseTopic(topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subscribers[topic] {
		close(ch)
	}
	delete(b.subscribers, topic)
	delete(b.latest, topic)
	zap.S().Infof("closed pubsub topic %s", topic)
}

// FormatMessage encodes a typed message for websocket clients.
func FormatMessage(msgType string, data interface{}) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		return []byte(`{"type": "error", "data": "json format error"}`)
	}
	bytes, err := json.Marshal(Message{Type: msgType, Data: raw})
	if err != nil {
		return []byte(`{"type": "error", "data": "json format error"}`)
	}
	return bytes
}
