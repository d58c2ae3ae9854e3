package chat

import (
	"sync"

	"github.com/go-monolith/mono/pkg/types"
)

type nopLogger struct{}

func (l nopLogger) Debug(_ string, _ ...any) {}
func (l nopLogger) Info(_ string, _ ...any)  {}
func (l nopLogger) Warn(_ string, _ ...any)  {}
func (l nopLogger) Error(_ string, _ ...any) {}
func (l nopLogger) With(_ ...any) types.Logger {
	return l
}
func (l nopLogger) WithModule(_ string) types.Logger {
	return l
}
func (l nopLogger) WithError(_ error) types.Logger {
	return l
}

// Router call kinds recorded by recordingRouter.
const (
	kindOne            = "one"
	kindRoom           = "room"
	kindRoomExcept     = "room-except"
	kindEveryone       = "everyone"
	kindEveryoneExcept = "everyone-except"
	kindJoin           = "join"
	kindLeave          = "leave"
)

type call struct {
	Kind    string
	Target  string // connection id or room
	Except  string
	Event   string
	Payload any
}

// recordingRouter records every call instead of delivering anything.
type recordingRouter struct {
	mu    sync.Mutex
	calls []call
}

func (r *recordingRouter) add(c call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

func (r *recordingRouter) ToOne(id, event string, payload any) {
	r.add(call{Kind: kindOne, Target: id, Event: event, Payload: payload})
}

func (r *recordingRouter) ToRoom(room, event string, payload any) {
	r.add(call{Kind: kindRoom, Target: room, Event: event, Payload: payload})
}

func (r *recordingRouter) ToRoomExcept(room, senderID, event string, payload any) {
	r.add(call{Kind: kindRoomExcept, Target: room, Except: senderID, Event: event, Payload: payload})
}

func (r *recordingRouter) ToEveryone(event string, payload any) {
	r.add(call{Kind: kindEveryone, Event: event, Payload: payload})
}

func (r *recordingRouter) ToEveryoneExcept(senderID, event string, payload any) {
	r.add(call{Kind: kindEveryoneExcept, Except: senderID, Event: event, Payload: payload})
}

func (r *recordingRouter) Join(id, room string) {
	r.add(call{Kind: kindJoin, Target: id, Event: room})
}

func (r *recordingRouter) Leave(id, room string) {
	r.add(call{Kind: kindLeave, Target: id, Event: room})
}

func (r *recordingRouter) snapshot() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]call, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *recordingRouter) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// last returns the most recent call matching kind, target and event.
func (r *recordingRouter) last(kind, target, event string) (call, bool) {
	calls := r.snapshot()
	for i := len(calls) - 1; i >= 0; i-- {
		c := calls[i]
		if c.Kind == kind && c.Target == target && c.Event == event {
			return c, true
		}
	}
	return call{}, false
}
