package events

import (
	"sync"
)

// subscriberBufferSize размер буфера канала подписчика.
// Медленный подписчик теряет события, а не блокирует публикацию.
const subscriberBufferSize = 16

// Logger интерфейс логгера для брокера
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
}

// Subscription подписка на события зоны обслуживания
type Subscription struct {
	Area string
	C    <-chan ReservationEvent

	id int64
	ch chan ReservationEvent
}

// Broker in-process брокер событий с фильтрацией по зоне обслуживания.
// Доставка best-effort: события не реплеятся, переполненный буфер
// подписчика приводит к потере события.
type Broker struct {
	mu     sync.RWMutex
	nextID int64
	subs   map[string]map[int64]*Subscription
	log    Logger
}

// NewBroker создает новый брокер событий
func NewBroker(log Logger) *Broker {
	return &Broker{
		subs: make(map[string]map[int64]*Subscription),
		log:  log,
	}
}

// Subscribe создает подписку на события зоны обслуживания
func (b *Broker) Subscribe(area string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	ch := make(chan ReservationEvent, subscriberBufferSize)
	sub := &Subscription{
		Area: area,
		C:    ch,
		id:   b.nextID,
		ch:   ch,
	}

	if b.subs[area] == nil {
		b.subs[area] = make(map[int64]*Subscription)
	}
	b.subs[area][sub.id] = sub

	b.log.Info("events: subscriber %d attached to area %q", sub.id, area)
	return sub
}

// Unsubscribe снимает подписку и закрывает её канал
func (b *Broker) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	areaSubs, ok := b.subs[sub.Area]
	if !ok {
		return
	}
	if _, ok := areaSubs[sub.id]; !ok {
		return
	}

	delete(areaSubs, sub.id)
	if len(areaSubs) == 0 {
		delete(b.subs, sub.Area)
	}
	close(sub.ch)

	b.log.Info("events: subscriber %d detached from area %q", sub.id, sub.Area)
}

// Publish рассылает событие подписчикам зоны. Не блокируется:
// при переполненном буфере подписчика событие отбрасывается.
func (b *Broker) Publish(event ReservationEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs[event.Area] {
		select {
		case sub.ch <- event:
		default:
			b.log.Warn("events: subscriber %d buffer full, dropping %s for area %q", sub.id, event.Type, event.Area)
		}
	}
}

// SubscriberCount возвращает число подписчиков зоны
func (b *Broker) SubscriberCount(area string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[area])
}
