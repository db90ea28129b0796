package models

// ViewMode selects which panel the TUI is showing.
type ViewMode int

const (
	ChatView ViewMode = iota
	ServicesView
)

// ConversationSummary is the sidebar entry for one persisted conversation.
type ConversationSummary struct {
	ID    string
	Title string
}

// ServiceItem is the UI projection of a daemon service, with the download
// progress folded in (-1 when no download is running for it).
type ServiceItem struct {
	ID         string
	Name       string
	Downloaded bool
	Running    bool
	Progress   int
}

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	View            ViewMode
	Messages        []Message             // Current chat messages to display
	Conversations   []ConversationSummary // Sidebar entries, newest first
	ActiveChat      string                // Id of the active conversation, "" for a new one
	Input           string                // User input field
	Status          string                // Status bar text
	Loading         bool                  // Completion request in flight
	IsError         bool                  // Last completion failed
	LoadingDots     int                   // Animation counter for loading dots
	Width           int                   // Terminal width
	Height          int                   // Terminal height
	Services        []ServiceItem         // Services panel content
	SelectedService int                   // Cursor position in the services panel
	DaemonUp        bool                  // Service runtime reachable
	ChatReady       bool                  // Whether the chat service is configured
}
