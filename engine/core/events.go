package core

import "sync"

type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// A watched asset fixture was created or written.
	/* Context usage:
	 * ev := data.Data.(*AssetEvent)
	 */
	EVENT_CODE_ASSET_CHANGED SystemEventCode = 0x02

	// An instancing pass is about to process a point.
	/* Context usage:
	 * ev := data.Data.(*ProgressEvent)
	 */
	EVENT_CODE_INSTANCING_PROGRESS SystemEventCode = 0x03

	// An instancing pass finished, successfully or not.
	/* Context usage:
	 * ev := data.Data.(*InstancingEvent)
	 */
	EVENT_CODE_INSTANCING_COMPLETED SystemEventCode = 0x04

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

type AssetEvent struct {
	Path string
}

type ProgressEvent struct {
	Current int
	Total   int
	Message string
}

type InstancingEvent struct {
	AssetID  int32
	ObjectID int32
	Created  int
	Skipped  int
	Err      error
}

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventCodeEntry struct {
	events []*registeredEvent
}

// State structure.
type eventSystemState struct {
	mu sync.RWMutex
	// Lookup table for event codes.
	registered [MAX_MESSAGE_CODES]eventCodeEntry
}

/**
 * Event system internal state.
 */
var eventStateLock sync.Mutex
var eventState *eventSystemState = nil

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool

func EventSystemInitialize() bool {
	eventStateLock.Lock()
	defer eventStateLock.Unlock()
	if eventState != nil {
		return false
	}
	eventState = &eventSystemState{}
	return true
}

func EventSystemShutdown() error {
	eventStateLock.Lock()
	defer eventStateLock.Unlock()
	// Free the events arrays. And objects pointed to should be destroyed on their own.
	eventState = nil
	return nil
}

func currentEventState() *eventSystemState {
	eventStateLock.Lock()
	defer eventStateLock.Unlock()
	return eventState
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listeners will not be registered again and will cause this to return FALSE.
 * @param code The event code to listen for.
 * @param listener A listener instance. Can be nil.
 * @param onEvent The callback to be invoked when the event code is fired.
 * @returns TRUE if the event is successfully registered; otherwise false.
 */
func EventRegister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	state := currentEventState()
	if state == nil || code < 0 || code >= MAX_MESSAGE_CODES {
		return false
	}
	state.mu.Lock()
	defer state.mu.Unlock()

	for _, e := range state.registered[code].events {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	// If at this point, no duplicate was found. Proceed with registration.
	state.registered[code].events = append(state.registered[code].events, &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns FALSE.
 * @param code The event code to stop listening for.
 * @param listener The listener instance used at registration.
 * @returns TRUE if the event is successfully unregistered; otherwise false.
 */
func EventUnregister(code SystemEventCode, listener interface{}) bool {
	state := currentEventState()
	if state == nil || code < 0 || code >= MAX_MESSAGE_CODES {
		return false
	}
	state.mu.Lock()
	defer state.mu.Unlock()

	events := state.registered[code].events
	for i, e := range events {
		if e.listener == listener {
			state.registered[code].events = append(events[:i], events[i+1:]...)
			return true
		}
	}
	// Not found.
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * TRUE, the event is considered handled and is not passed on to any more listeners.
 * @param code The event code to fire.
 * @param sender The sender. Can be nil.
 * @param data The event data.
 * @returns TRUE if handled, otherwise FALSE.
 */
func EventFire(code SystemEventCode, sender interface{}, data EventContext) bool {
	state := currentEventState()
	if state == nil || code < 0 || code >= MAX_MESSAGE_CODES {
		return false
	}
	state.mu.RLock()
	events := make([]*registeredEvent, len(state.registered[code].events))
	copy(events, state.registered[code].events)
	state.mu.RUnlock()

	data.Type = code
	for _, e := range events {
		if e.callback(code, sender, e.listener, data) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}
