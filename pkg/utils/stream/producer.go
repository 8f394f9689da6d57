package stream

type Producer[T any] interface {
	Produce() (T, bool)
}

type ArrayProducer[T any] struct {
	list []T
}

func NewArrayProducer[T any](list []T) *ArrayProducer[T] {
	producer := ArrayProducer[T]{
		list: list,
	}
	return &producer
}

func (p *ArrayProducer[T]) Produce() (T, bool) {
	if len(p.list) == 0 {
		var zero T
		return zero, false
	}
	v := p.list[0]
	p.list = p.list[1:]
	return v, true
}

type ChannelProducer[T any] struct {
	ch <-chan T
}

func NewChannelProducer[T any](ch <-chan T) *ChannelProducer[T] {
	producer := ChannelProducer[T]{
		ch: ch,
	}
	return &producer
}

func (p *ChannelProducer[T]) Produce() (T, bool) {
	if p.ch == nil {
		var zero T
		return zero, false
	}

	v, ok := <-p.ch
	return v, ok
}
