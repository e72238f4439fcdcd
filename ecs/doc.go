// Package ecs provides ECS adapters for sapling documents.
//
// The primary adapter is [NewDonburiLayout], which bridges client-rect
// reports from a rendered document into a [Donburi] world as typed events.
// Subscribe to [ClientRectEventType] in your ECS systems to receive them.
//
// Usage:
//
//	doc := sapling.NewDocument(sapling.Config{Layout: ecs.NewDonburiLayout(world)})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
