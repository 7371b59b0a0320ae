package atspi

import (
	"math"

	"github.com/GNOME/gtk-sub066/internal/log"
)

// listenerRegistry counts event subscriptions per remote bus sender.
type listenerRegistry struct {
	counts map[string]uint32
}

func newListenerRegistry() *listenerRegistry {
	return &listenerRegistry{counts: make(map[string]uint32)}
}

// add inserts sender or increments its count, saturating at MaxUint32.
func (r *listenerRegistry) add(sender, event string) {
	count, ok := r.counts[sender]
	switch {
	case !ok:
		log.Debugf("[AT-SPI] Registering event listener (%s, %s) on the a11y bus", sender, eventLabel(event))
		r.counts[sender] = 1
	case count == math.MaxUint32:
		log.Errorf("[AT-SPI] Reference count for event listener %s reached saturation", sender)
	default:
		log.Debugf("[AT-SPI] Incrementing refcount for event listener %s", sender)
		r.counts[sender] = count + 1
	}
}

// remove decrements sender's count and drops it at zero. Unknown senders
// are ignored.
func (r *listenerRegistry) remove(sender, event string) {
	count, ok := r.counts[sender]
	switch {
	case !ok:
		log.Debugf("[AT-SPI] EventListenerDeregistered for (%s, %s) without a matching registration", sender, eventLabel(event))
	case count > 1:
		log.Debugf("[AT-SPI] Decreasing refcount for listener %s", sender)
		r.counts[sender] = count - 1
	default:
		log.Debugf("[AT-SPI] Deregistering event listener %s on the a11y bus", sender)
		delete(r.counts, sender)
	}
}

func (r *listenerRegistry) count(sender string) uint32 {
	return r.counts[sender]
}

func (r *listenerRegistry) len() int {
	return len(r.counts)
}

func eventLabel(event string) string {
	if event == "" {
		return "(none)"
	}
	return event
}
