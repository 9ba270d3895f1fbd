// Package runtime handles connection tracking, presence derivation and
// event propagation. It orchestrates the engine without containing
// business logic or domain rules.
package runtime

import (
	"sync"

	"chat-engine/contract"
	"chat-engine/domain"
)

type Set map[string]struct{}

// Registry tracks live connections and their room subscriptions.
// A connection's sink is managed in a single place even when the
// connection has joined multiple rooms.
type Registry struct {
	mu          sync.RWMutex
	Sessions    map[string]contract.EventSink // connection id -> sink
	RoomMembers map[string]Set                // room key wire form -> connection ids
	connRooms   map[string]Set                // connection id -> room key wire forms
}

func NewRegistry() *Registry {
	return &Registry{
		Sessions:    make(map[string]contract.EventSink),
		RoomMembers: make(map[string]Set),
		connRooms:   make(map[string]Set),
	}
}

// GetSinksForRoom resolves the room's connection ids into their sinks.
// Returns nil if the room has no live subscribers.
func (r *Registry) GetSinksForRoom(key domain.RoomKey) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.RoomMembers[key.String()]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for connectionID := range members {
		if sink, exists := r.Sessions[connectionID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// AllSinks returns every live connection's sink, used for events that
// are broadcast globally (presence transitions).
func (r *Registry) AllSinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sinks := make([]contract.EventSink, 0, len(r.Sessions))
	for _, sink := range r.Sessions {
		sinks = append(sinks, sink)
	}
	return sinks
}

// Subscribe registers the connection's sink and adds the connection to
// the room. Rooms are initialized on the fly.
func (r *Registry) Subscribe(connectionID string, key domain.RoomKey, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Sessions[connectionID] = sink

	room := key.String()
	if _, ok := r.RoomMembers[room]; !ok {
		r.RoomMembers[room] = make(Set)
	}
	r.RoomMembers[room][connectionID] = struct{}{}

	if _, ok := r.connRooms[connectionID]; !ok {
		r.connRooms[connectionID] = make(Set)
	}
	r.connRooms[connectionID][room] = struct{}{}
}

// Unsubscribe removes the connection from one room without touching its
// session or its other subscriptions.
func (r *Registry) Unsubscribe(connectionID string, key domain.RoomKey) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := key.String()
	r.removeFromRoom(connectionID, room)
	if rooms, ok := r.connRooms[connectionID]; ok {
		delete(rooms, room)
	}
}

// Drop removes a disconnected connection entirely: its session and its
// membership in every room. No empty sets are left behind.
func (r *Registry) Drop(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Sessions, connectionID)
	for room := range r.connRooms[connectionID] {
		r.removeFromRoom(connectionID, room)
	}
	delete(r.connRooms, connectionID)
}

func (r *Registry) removeFromRoom(connectionID, room string) {
	if members, ok := r.RoomMembers[room]; ok {
		delete(members, connectionID)
		if len(members) == 0 {
			delete(r.RoomMembers, room)
		}
	}
}
