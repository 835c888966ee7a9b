package engine

import "github.com/roach88/compstate/internal/ir"

// Engine kinds reported in FireEvent.
const (
	KindComposite = "composite"
	KindTable     = "table"
)

// FireEvent describes one completed Fire call.
type FireEvent struct {
	Engine   string
	Input    ir.Input
	From     ir.StatePath
	Response ir.Response
}

// Observer receives a FireEvent after every Fire on the machine it was
// registered with. It runs after all hooks, on the caller's goroutine.
type Observer interface {
	Fired(ev FireEvent)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ev FireEvent)

// Fired calls f(ev).
func (f ObserverFunc) Fired(ev FireEvent) {
	f(ev)
}

func notify(observers []Observer, ev FireEvent) {
	for _, obs := range observers {
		obs.Fired(ev)
	}
}
