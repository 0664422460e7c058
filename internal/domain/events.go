package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventNavigated      EventType = "Navigated"
	EventQueryChanged   EventType = "QueryChanged"
	EventPageLoaded     EventType = "PageLoaded"
	EventPageOverflow   EventType = "PageOverflow"
	EventFetchFailed    EventType = "FetchFailed"
	EventStaleDiscarded EventType = "StaleDiscarded"
	EventBatchSubmitted EventType = "BatchSubmitted"
	EventBatchFailed    EventType = "BatchFailed"
	EventConfigLoaded   EventType = "ConfigLoaded"
	EventConfigSaved    EventType = "ConfigSaved"
	EventLocationCopied EventType = "LocationCopied"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// NavigatedEvent is emitted when the app moves to a new location
type NavigatedEvent struct {
	From string
	To   string
}

func (e NavigatedEvent) Type() EventType { return EventNavigated }

// QueryChangedEvent is emitted when a listing's query state changes
type QueryChangedEvent struct {
	Collection Collection
	Location   string
}

func (e QueryChangedEvent) Type() EventType { return EventQueryChanged }

// PageLoadedEvent is emitted when a fetched page is published
type PageLoadedEvent struct {
	Collection Collection
	Seq        uint64
	Page       int
	Items      int
	Total      int
}

func (e PageLoadedEvent) Type() EventType { return EventPageLoaded }

// PageOverflowEvent is emitted when the server returns more rows than the
// requested page size
type PageOverflowEvent struct {
	Collection Collection
	Seq        uint64
	Size       int
	Dropped    int
}

func (e PageOverflowEvent) Type() EventType { return EventPageOverflow }

// FetchFailedEvent is emitted when a page read fails; the previous page stays
type FetchFailedEvent struct {
	Collection Collection
	Seq        uint64
	Err        error
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// StaleDiscardedEvent is emitted when a superseded response is dropped
type StaleDiscardedEvent struct {
	Collection Collection
	Seq        uint64
	Latest     uint64
}

func (e StaleDiscardedEvent) Type() EventType { return EventStaleDiscarded }

// BatchSubmittedEvent is emitted after an action was accepted by the server
type BatchSubmittedEvent struct {
	Action   string
	Targets  int
	ID       ID
	Location string
}

func (e BatchSubmittedEvent) Type() EventType { return EventBatchSubmitted }

// BatchFailedEvent is emitted when an action was rejected or failed in transit
type BatchFailedEvent struct {
	Action string
	Err    error
}

func (e BatchFailedEvent) Type() EventType { return EventBatchFailed }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path   string
	APIURL string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is written
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// LocationCopiedEvent is emitted when the current location goes to the clipboard
type LocationCopiedEvent struct {
	Location string
}

func (e LocationCopiedEvent) Type() EventType { return EventLocationCopied }
