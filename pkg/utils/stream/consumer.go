package stream

import "sync"

type Consumer[T any] interface {
	Consume(v T)
}

// ArrayConsumer collects values into a slice. Safe for concurrent use.
type ArrayConsumer[T any] struct {
	mu   sync.Mutex
	list []T
}

func NewArrayConsumer[T any]() *ArrayConsumer[T] {
	consumer := ArrayConsumer[T]{}
	return &consumer
}

func (c *ArrayConsumer[T]) Consume(v T) {
	c.mu.Lock()
	c.list = append(c.list, v)
	c.mu.Unlock()
}

func (c *ArrayConsumer[T]) Collect() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list
}

type ChannelConsumer[T any] struct {
	ch chan<- T
}

func NewChannelConsumer[T any](ch chan<- T) *ChannelConsumer[T] {
	consumer := ChannelConsumer[T]{
		ch: ch,
	}
	return &consumer
}

func (c *ChannelConsumer[T]) Consume(v T) {
	c.ch <- v
}
