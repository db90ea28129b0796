package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okynos/localchat/internal/dispatcher"
	"github.com/okynos/localchat/internal/models"
	"github.com/okynos/localchat/internal/update"
	"github.com/okynos/localchat/ui/components"
)

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		m.dispatcher.ListenForUIEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle core events and continue listening
	if coreEvent, ok := msg.(dispatcher.CoreEventMsg); ok {
		cmd := update.HandleCoreEvent(&m.appModel, coreEvent)
		return m, tea.Batch(cmd, m.dispatcher.ListenForUIEvents())
	}

	// Handle other events through the event bus
	eventBus := m.dispatcher.GetEventBus()
	cmd := update.HandleUpdateWithEventBus(&m.appModel, msg, eventBus, m.appModel.ChatReady)

	return m, cmd
}

func (m *AppModel) View() string {
	var b strings.Builder

	if m.appModel.View == models.ServicesView {
		b.WriteString(components.RenderServices(m.appModel.Services, m.appModel.SelectedService, m.appModel.DaemonUp, m.appModel.Width))
		b.WriteString("\n")
		b.WriteString(components.RenderStatus(m.appModel.Status, m.appModel.Loading, m.appModel.LoadingDots, m.appModel.Width))
		return b.String()
	}

	b.WriteString(components.RenderConversationBar(m.appModel.Conversations, m.appModel.ActiveChat))
	b.WriteString(components.RenderMessages(m.appModel.Messages, m.appModel.IsError))
	b.WriteString(components.RenderInput(m.appModel.Input, m.appModel.Loading, m.appModel.LoadingDots, m.appModel.Width))
	b.WriteString("\n")
	b.WriteString(components.RenderStatus(m.appModel.Status, m.appModel.Loading, m.appModel.LoadingDots, m.appModel.Width))

	return b.String()
}
