//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"chat-engine/domain"
	"chat-engine/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself. The supervisor restarts it on panic.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// avoiding manual naming in the Worker interface. Used for logging and
// supervision purposes only.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives delivered events for one connection.
type EventSink interface {
	Consume(ctx context.Context, e event.OutboundEvent) error
}

type IRegistry interface {
	GetSinksForRoom(key domain.RoomKey) []EventSink
	AllSinks() []EventSink
	Subscribe(connectionID string, key domain.RoomKey, sink EventSink)
	Unsubscribe(connectionID string, key domain.RoomKey)
	Drop(connectionID string)
}

type IBroadcaster interface {
	Publish(events ...event.OutboundEvent)
}

// Auth is the external token verification collaborator. A failure is
// connection-fatal, no retry.
type Auth interface {
	VerifyToken(token string) (domain.Identity, error)
}

// UserDirectory resolves public profile fields for message enrichment.
type UserDirectory interface {
	PublicProfile(id domain.UserID) (domain.Profile, error)
}
