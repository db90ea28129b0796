package update

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okynos/localchat/internal/dispatcher"
	"github.com/okynos/localchat/internal/eventbus"
	"github.com/okynos/localchat/internal/models"
)

// HandleKeyMsgWithEventBus handles keyboard input using event bus
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus, chatReady bool) tea.Cmd {
	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "tab":
		if appModel.View == models.ChatView {
			appModel.View = models.ServicesView
		} else {
			appModel.View = models.ChatView
		}
		return nil
	}

	if appModel.View == models.ServicesView {
		handleServicesKey(appModel, keyMsg, eb)
		return nil
	}

	handleChatKey(appModel, keyMsg, eb, chatReady)
	return nil
}

func handleChatKey(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus, chatReady bool) {
	switch keyMsg.String() {
	case "enter":
		if strings.TrimSpace(appModel.Input) == "" {
			return
		}
		if appModel.Loading {
			appModel.Status = "Still waiting for the assistant"
			return
		}
		if !chatReady {
			appModel.Input = ""
			appModel.Status = "Chat service not available"
			return
		}
		if err := eb.SendToCore(eventbus.SubmitQuestionEvent{Text: appModel.Input}); err != nil {
			appModel.Status = "Error sending message: " + err.Error()
			return
		}
		// Only manage local UI state - clear input
		appModel.Input = ""
	case "ctrl+r":
		if !appModel.Loading && appModel.ActiveChat != "" {
			if err := eb.SendToCore(eventbus.RegenerateEvent{}); err != nil {
				appModel.Status = "Error requesting regeneration: " + err.Error()
			}
		}
	case "ctrl+n":
		if !appModel.Loading {
			if err := eb.SendToCore(eventbus.NewConversationEvent{}); err != nil {
				appModel.Status = "Error switching conversation: " + err.Error()
			}
		}
	case "ctrl+p":
		if !appModel.Loading {
			if next := nextConversationID(appModel); next != "" {
				if err := eb.SendToCore(eventbus.SelectConversationEvent{ID: next}); err != nil {
					appModel.Status = "Error switching conversation: " + err.Error()
				}
			}
		}
	case "backspace":
		if len(appModel.Input) > 0 {
			appModel.Input = appModel.Input[:len(appModel.Input)-1]
		}
	default:
		if len(keyMsg.String()) == 1 {
			appModel.Input += keyMsg.String()
		}
	}
}

func handleServicesKey(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) {
	switch keyMsg.String() {
	case "up", "k":
		if appModel.SelectedService > 0 {
			appModel.SelectedService--
		}
	case "down", "j":
		if appModel.SelectedService < len(appModel.Services)-1 {
			appModel.SelectedService++
		}
	case "r":
		if err := eb.SendToCore(eventbus.RefreshServicesEvent{}); err != nil {
			appModel.Status = "Error refreshing services: " + err.Error()
		}
	case "enter", "d":
		if appModel.SelectedService >= len(appModel.Services) {
			return
		}
		svc := appModel.Services[appModel.SelectedService]
		if svc.Downloaded || svc.Progress >= 0 {
			return
		}
		if err := eb.SendToCore(eventbus.DownloadServiceEvent{ServiceID: svc.ID}); err != nil {
			appModel.Status = "Error starting download: " + err.Error()
			return
		}
		appModel.Status = "Downloading " + svc.Name
	}
}

// nextConversationID cycles through the sidebar entries after the active one.
func nextConversationID(appModel *models.AppModel) string {
	if len(appModel.Conversations) == 0 {
		return ""
	}
	for i, conv := range appModel.Conversations {
		if conv.ID == appModel.ActiveChat {
			return appModel.Conversations[(i+1)%len(appModel.Conversations)].ID
		}
	}
	return appModel.Conversations[0].ID
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg dispatcher.CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.ChatStateEvent:
		appModel.Messages = event.Messages
		appModel.Conversations = event.Conversations
		appModel.ActiveChat = event.ConversationID
		appModel.Loading = event.Loading
		appModel.IsError = event.IsError

		if event.IsError && event.Error != nil {
			appModel.Status = "Error: " + event.Error.Error()
		} else if event.Loading {
			appModel.Status = "Thinking"
		} else {
			appModel.Status = "Ready"
		}
	case eventbus.ConversationCreatedEvent:
		appModel.ActiveChat = event.ID
	case eventbus.ServicesUpdateEvent:
		appModel.Services = event.Services
		appModel.DaemonUp = event.DaemonUp
		if appModel.SelectedService >= len(appModel.Services) {
			appModel.SelectedService = 0
		}
	case eventbus.DownloadProgressEvent:
		for i := range appModel.Services {
			if appModel.Services[i].ID == event.ServiceID || event.Progress < 0 {
				appModel.Services[i].Progress = event.Progress
			}
		}
	}

	return nil
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	// Only handle UI animations - loading dots
	if appModel.Loading {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}
