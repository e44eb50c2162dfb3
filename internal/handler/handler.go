package handler

import (
	"github.com/go-telegram/bot"
	"github.com/set-night/mindcheck/internal/config"
	"github.com/set-night/mindcheck/internal/service"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot              *bot.Bot
	cfg              *config.Config
	userService      *service.UserService
	sessionService   *service.SessionService
	catalogService   *service.CatalogService
	diagnosisService *service.DiagnosisService
	questionnaire    *service.Questionnaire
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot              *bot.Bot
	Cfg              *config.Config
	UserService      *service.UserService
	SessionService   *service.SessionService
	CatalogService   *service.CatalogService
	DiagnosisService *service.DiagnosisService
	Questionnaire    *service.Questionnaire
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:              deps.Bot,
		cfg:              deps.Cfg,
		userService:      deps.UserService,
		sessionService:   deps.SessionService,
		catalogService:   deps.CatalogService,
		diagnosisService: deps.DiagnosisService,
		questionnaire:    deps.Questionnaire,
	}
}
