package ecs

import (
	"github.com/phanxgames/sapling"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ClientRectEvent reports the device-space bounds a node was drawn at.
type ClientRectEvent struct {
	Node sapling.NodeID
	Rect sapling.Rect
}

// ClientRectEventType is the Donburi event type for client-rect reports.
var ClientRectEventType = events.NewEventType[ClientRectEvent]()

type donburiLayout struct {
	world donburi.World
}

// NewDonburiLayout creates a LayoutListener backed by a Donburi world.
// Reports are published to ClientRectEventType and can be consumed with
// events.Subscribe and ProcessEvents. Publishing happens on the render
// goroutine; process the events from the same goroutine.
func NewDonburiLayout(world donburi.World) sapling.LayoutListener {
	return &donburiLayout{world: world}
}

func (l *donburiLayout) ReportClientRect(id sapling.NodeID, r sapling.Rect) {
	ClientRectEventType.Publish(l.world, ClientRectEvent{Node: id, Rect: r})
}
