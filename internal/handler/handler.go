package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tabletop-club/table-scheduler/internal/calendar"
	"github.com/tabletop-club/table-scheduler/internal/config"
	"github.com/tabletop-club/table-scheduler/internal/domain"
	"github.com/tabletop-club/table-scheduler/internal/repository"
	"github.com/tabletop-club/table-scheduler/internal/schedule"
)

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	document      *config.Document
	codec         *schedule.Codec
	repository    *repository.Repository
	cache         *repository.Cache
	translator    ut.Translator
	notifyChannel *amqp.Channel

	Mux *chi.Mux
}

func NewHandler(
	cfg *config.Config,
	doc *config.Document,
	repo *repository.Repository,
	cache *repository.Cache,
	notifyCh *amqp.Channel,
	clock calendar.Clock,
) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	dateTranslator, err := calendar.NewTranslator(clock, calendar.DefaultDateFormat)
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:      validate,
		config:        cfg,
		document:      doc,
		codec:         schedule.NewCodec(dateTranslator, doc.Week, cfg.Schedule.EscapeToken),
		repository:    repo,
		cache:         cache,
		translator:    trans,
		notifyChannel: notifyCh,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// Everything below requires a logged-in user.
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", h.GetAllSchedules)
			r.Get("/{date}", h.GetSchedule)

			r.Group(func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleStaff}))
				r.Post("/open", h.OpenSchedules)
				r.Post("/close", h.CloseSchedules)
				r.Post("/clean", h.CleanSchedules)
				r.Post("/nightly", h.RunNightly)
				r.Post("/weekly", h.RunWeekly)
			})
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(h.myInfo)
				r.Use(h.preventInactive)
				r.Post("/request", h.RequestBooking)
				r.Post("/cancel", h.CancelBooking)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleStaff}))
				r.Get("/pending", h.GetPendingRequests)
				r.With(h.pendingRequest).Post("/{id}/accept", h.AcceptRequest)
				r.Post("/add", h.AddBooking)
				r.Post("/remove", h.RemoveBooking)
			})
		})
	})
}
