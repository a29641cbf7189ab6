package kizuna

import (
	"fmt"
	"reflect"
)

// MaxEventTypes is the maximum number of distinct event types one EventBus
// can carry.
const MaxEventTypes = 64

// EventBus delivers typed events synchronously to the handlers subscribed
// to their type, in subscription order. Publishing does not allocate.
//
// A nil *EventBus accepts publishes and drops them.
type EventBus struct {
	types    map[reflect.Type]int
	handlers [MaxEventTypes][]any
}

// Subscribe registers handler for events of type T.
func Subscribe[T any](bus *EventBus, handler func(T)) {
	id := bus.typeID(reflect.TypeFor[T]())
	if cap(bus.handlers[id]) == 0 {
		bus.handlers[id] = make([]any, 0, 4)
	}
	bus.handlers[id] = append(bus.handlers[id], handler)
}

// Publish calls every handler subscribed to T with event.
func Publish[T any](bus *EventBus, event T) {
	if bus == nil {
		return
	}
	if id, ok := bus.types[reflect.TypeFor[T]()]; ok {
		for _, h := range bus.handlers[id] {
			h.(func(T))(event)
		}
	}
}

func (bus *EventBus) typeID(t reflect.Type) int {
	if bus.types == nil {
		bus.types = make(map[reflect.Type]int)
	}
	if id, ok := bus.types[t]; ok {
		return id
	}
	id := len(bus.types)
	if id >= MaxEventTypes {
		panic(fmt.Sprintf("kizuna: too many event types, cannot register %s", t))
	}
	bus.types[t] = id
	return id
}
