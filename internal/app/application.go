package app

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okynos/localchat/internal/config"
	"github.com/okynos/localchat/internal/core"
	"github.com/okynos/localchat/internal/dispatcher"
	"github.com/okynos/localchat/internal/eventbus"
	"github.com/okynos/localchat/internal/models"
)

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.CoreService
	model      *AppModel
}

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
}

func NewApplication() (*Application, error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Create event bus
	eb := eventbus.NewEventBus()

	// Create dispatcher
	disp := dispatcher.NewEventDispatcher(eb)

	// Initialize core service
	coreService, err := core.NewCoreService(cfg, eb)
	if err != nil {
		log.Printf("Failed to initialize core service: %v", err)
		return nil, err
	}

	// Create app model
	model := &AppModel{
		appModel:   createInitialAppModel(coreService),
		dispatcher: disp,
	}

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		service:    coreService,
		model:      model,
	}, nil
}

func (app *Application) Start() error {
	// Start background services
	app.service.Start()

	// Run UI
	p := tea.NewProgram(app.model)
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
}

func createInitialAppModel(coreService *core.CoreService) models.AppModel {
	// State comes from core as single source of truth; start empty
	return models.AppModel{
		View:      models.ChatView,
		Messages:  make([]models.Message, 0),
		Status:    "Ready",
		Loading:   false,
		ChatReady: coreService.IsReady(),
	}
}
