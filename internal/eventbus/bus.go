package eventbus

import (
	"errors"
	"time"

	"github.com/okynos/localchat/internal/models"
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// SubmitQuestionEvent - UI submits the composed question
type SubmitQuestionEvent struct {
	Text string
}

func (e SubmitQuestionEvent) UIEvent() {}

// RegenerateEvent - UI asks for the last answer to be regenerated
type RegenerateEvent struct{}

func (e RegenerateEvent) UIEvent() {}

// SelectConversationEvent - UI switches to an existing conversation
type SelectConversationEvent struct {
	ID string
}

func (e SelectConversationEvent) UIEvent() {}

// NewConversationEvent - UI switches to the empty conversation slot
type NewConversationEvent struct{}

func (e NewConversationEvent) UIEvent() {}

// DownloadServiceEvent - UI starts a service download
type DownloadServiceEvent struct {
	ServiceID string
}

func (e DownloadServiceEvent) UIEvent() {}

// RefreshServicesEvent - UI asks for the service list to be refetched
type RefreshServicesEvent struct{}

func (e RefreshServicesEvent) UIEvent() {}

// ChatStateEvent - Core pushes the chat view state to UI
type ChatStateEvent struct {
	ConversationID string
	Messages       []models.Message
	Conversations  []models.ConversationSummary
	Loading        bool
	IsError        bool
	Error          error
}

func (e ChatStateEvent) CoreEvent() {}

// ConversationCreatedEvent - Core navigated to a freshly persisted conversation
type ConversationCreatedEvent struct {
	ID string
}

func (e ConversationCreatedEvent) CoreEvent() {}

// ServicesUpdateEvent - Core pushes the daemon service list to UI
type ServicesUpdateEvent struct {
	Services []models.ServiceItem
	DaemonUp bool
}

func (e ServicesUpdateEvent) CoreEvent() {}

// DownloadProgressEvent - Core reports download progress, -1 means idle again
type DownloadProgressEvent struct {
	ServiceID string
	Progress  int
}

func (e DownloadProgressEvent) CoreEvent() {}

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

// CircuitBreakerState represents the state of circuit breaker
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

// CircuitBreaker implements circuit breaker pattern
type CircuitBreaker struct {
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	if cb.state == CircuitOpen {
		// Check if we should transition to half-open
		if time.Since(cb.lastFailureTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
		}
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.failureCount++
	cb.lastFailureTime = time.Now()

	if cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

// EventBus handles communication between UI and Core with circuit breaker
type EventBus struct {
	uiToCore       chan UIEvent
	coreToUI       chan CoreEvent
	errorCallback  func(EventBusError)
	circuitBreaker *CircuitBreaker
}

func NewEventBus() *EventBus {
	return &EventBus{
		uiToCore:       make(chan UIEvent, 100),
		coreToUI:       make(chan CoreEvent, 100),
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second),
	}
}

func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.errorCallback = callback
}

func (eb *EventBus) reportError(operation string, err error) {
	busError := EventBusError{
		Operation: operation,
		Err:       err,
		Timestamp: time.Now(),
	}

	eb.circuitBreaker.RecordFailure()

	if eb.errorCallback != nil {
		eb.errorCallback(busError)
	}
}

func (eb *EventBus) SendToCore(event UIEvent) error {
	if eb.circuitBreaker.IsOpen() {
		err := errors.New("circuit breaker is open")
		eb.reportError("SendToCore", err)
		return err
	}

	select {
	case eb.uiToCore <- event:
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		err := errors.New("UI to Core channel is full")
		eb.reportError("SendToCore", err)
		return err
	}
}

func (eb *EventBus) SendToUI(event CoreEvent) error {
	if eb.circuitBreaker.IsOpen() {
		err := errors.New("circuit breaker is open")
		eb.reportError("SendToUI", err)
		return err
	}

	select {
	case eb.coreToUI <- event:
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		err := errors.New("Core to UI channel is full")
		eb.reportError("SendToUI", err)
		return err
	}
}

func (eb *EventBus) UIToCore() <-chan UIEvent {
	return eb.uiToCore
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.coreToUI
}

func (eb *EventBus) GetCircuitBreakerState() CircuitBreakerState {
	return eb.circuitBreaker.state
}

func (eb *EventBus) Close() {
	close(eb.uiToCore)
	close(eb.coreToUI)
}
