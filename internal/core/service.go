package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/okynos/localchat/internal/chat"
	"github.com/okynos/localchat/internal/config"
	"github.com/okynos/localchat/internal/eventbus"
	"github.com/okynos/localchat/internal/history"
	"github.com/okynos/localchat/internal/models"
	"github.com/okynos/localchat/internal/services"
)

// CoreService owns the conversation controller and the service daemon
// adapters, consumes UI events from the bus on its own goroutine and pushes
// state updates back. All history mutations happen on the event loop through
// the controller; downloads run on their own goroutine because they only
// touch the tracker.
type CoreService struct {
	config     *config.Config
	store      *history.Store
	controller *Controller
	daemon     *services.Client
	tracker    *services.Tracker
	eventBus   *eventbus.EventBus
	ctx        context.Context
	cancel     context.CancelFunc

	downloadMu     sync.Mutex
	activeDownload string
}

func NewCoreService(cfg *config.Config, eb *eventbus.EventBus) (*CoreService, error) {
	store := history.NewStore()
	client := chat.NewClient(cfg.GetAPIKey(), cfg.GetBaseURL())
	daemon := services.NewClient(cfg.GetDaemonURL())
	tracker := services.NewTracker(daemon)
	ctx, cancel := context.WithCancel(context.Background())

	params := chat.GenerationParams{
		Model:            cfg.GetModel(),
		Temperature:      cfg.GetTemperature(),
		MaxTokens:        cfg.GetMaxTokens(),
		TopP:             cfg.GetTopP(),
		FrequencyPenalty: cfg.GetFrequencyPenalty(),
	}

	cs := &CoreService{
		config:   cfg,
		store:    store,
		daemon:   daemon,
		tracker:  tracker,
		eventBus: eb,
		ctx:      ctx,
		cancel:   cancel,
	}

	cs.controller = NewController(store, client, params,
		WithNavigator(cs.handleNavigate),
		WithChangeListener(cs.pushChatState),
	)
	tracker.SetProgressCallback(cs.handleDownloadProgress)

	return cs, nil
}

// Start runs the core event loop in a goroutine
func (cs *CoreService) Start() {
	// Send initial state to UI immediately
	cs.pushChatState()
	go cs.refreshServices()
	go cs.eventLoop()
}

func (cs *CoreService) Stop() {
	cs.cancel()
}

func (cs *CoreService) eventLoop() {
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		}
	}
}

func (cs *CoreService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SubmitQuestionEvent:
		cs.controller.Submit(cs.ctx, e.Text)
	case eventbus.RegenerateEvent:
		cs.controller.Regenerate(cs.ctx)
	case eventbus.SelectConversationEvent:
		cs.controller.SelectConversation(e.ID)
	case eventbus.NewConversationEvent:
		cs.controller.NewConversation()
	case eventbus.DownloadServiceEvent:
		go cs.downloadService(e.ServiceID)
	case eventbus.RefreshServicesEvent:
		go cs.refreshServices()
	}
}

// handleNavigate forwards the freshly created conversation id to the UI.
// The controller only calls this after the conversation has been persisted.
func (cs *CoreService) handleNavigate(id string) {
	cs.sendToUI(eventbus.ConversationCreatedEvent{ID: id})
}

func (cs *CoreService) pushChatState() {
	messages := cs.controller.ChatMessages()
	conversations := cs.store.List()

	uiMessages := make([]models.Message, 0, len(messages))
	for _, msg := range messages {
		uiMessages = append(uiMessages, toUIMessage(msg))
	}

	summaries := make([]models.ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		summaries = append(summaries, models.ConversationSummary{
			ID:    conv.ID,
			Title: conv.Title,
		})
	}

	cs.sendToUI(eventbus.ChatStateEvent{
		ConversationID: cs.controller.ActiveID(),
		Messages:       uiMessages,
		Conversations:  summaries,
		Loading:        cs.controller.IsLoading(),
		IsError:        cs.controller.IsError(),
		Error:          cs.controller.LastError(),
	})
}

func (cs *CoreService) downloadService(serviceID string) {
	cs.downloadMu.Lock()
	if cs.activeDownload != "" {
		cs.downloadMu.Unlock()
		return
	}
	cs.activeDownload = serviceID
	cs.downloadMu.Unlock()

	err := cs.tracker.Download(cs.ctx, serviceID, func() {
		// The daemon owns service state; refetch instead of assuming.
		cs.refreshServices()
	})

	cs.downloadMu.Lock()
	cs.activeDownload = ""
	cs.downloadMu.Unlock()

	if err != nil {
		cs.refreshServices()
	}
}

func (cs *CoreService) handleDownloadProgress(progress int) {
	cs.downloadMu.Lock()
	serviceID := cs.activeDownload
	cs.downloadMu.Unlock()

	cs.sendToUI(eventbus.DownloadProgressEvent{
		ServiceID: serviceID,
		Progress:  progress,
	})
}

func (cs *CoreService) refreshServices() {
	daemonUp := cs.daemon.Ping(cs.ctx) == nil

	var items []models.ServiceItem
	if daemonUp {
		list, err := cs.daemon.ListServices(cs.ctx)
		if err == nil {
			items = make([]models.ServiceItem, 0, len(list))
			for _, svc := range list {
				items = append(items, models.ServiceItem{
					ID:         svc.ID,
					Name:       svc.Name,
					Downloaded: svc.Downloaded,
					Running:    svc.Running,
					Progress:   -1,
				})
			}
		}
	}

	cs.sendToUI(eventbus.ServicesUpdateEvent{
		Services: items,
		DaemonUp: daemonUp,
	})
}

func (cs *CoreService) sendToUI(event eventbus.CoreEvent) {
	if err := cs.eventBus.SendToUI(event); err != nil {
		fmt.Printf("Error sending state to UI: %v\n", err)
	}
}

func (cs *CoreService) IsReady() bool {
	return cs.config.IsValid()
}

func toUIMessage(msg history.Message) models.Message {
	switch msg.Role {
	case history.RoleAssistant:
		return models.Message{Content: msg.Content, Type: models.Assistant}
	case history.RoleSystem:
		return models.Message{Content: msg.Content, Type: models.System}
	default:
		return models.Message{Content: msg.Content, Type: models.User}
	}
}
