package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/redis/go-redis/v9"

	"github.com/campus-oit/helpdesk-roster/internal/config"
	"github.com/campus-oit/helpdesk-roster/internal/domain"
	"github.com/campus-oit/helpdesk-roster/internal/notify"
	"github.com/campus-oit/helpdesk-roster/internal/repository"
	"github.com/campus-oit/helpdesk-roster/internal/workflow"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	publisher   *notify.Publisher
	redisClient *redis.Client

	timeOffFlow  *workflow.Machine[domain.TimeOffStatus, domain.TimeOffRequest]
	swapFlow     *workflow.Machine[domain.SwapStatus, domain.ShiftSwap]
	scheduleFlow *workflow.Machine[domain.ScheduleStatus, domain.Schedule]

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, publisher *notify.Publisher, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		publisher:   publisher,
		redisClient: rdb,

		timeOffFlow:  workflow.TimeOff(),
		swapFlow:     workflow.ShiftSwap(),
		scheduleFlow: workflow.ScheduleLifecycle(),

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

	// Everything below requires a session.
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/availability", func(r chi.Router) {
			r.Get("/me", h.GetMyAvailability)
			r.Put("/me", h.PutMyAvailability)
			r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Post("/import", h.ImportAvailabilityCSV)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUsers)
			r.Get("/me", h.GetMyInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Delete("/", h.DeleteUser)
				r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Get("/availability", h.GetUserAvailability)
			})
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", h.GetSchedules)
			r.Get("/current", h.GetCurrentSchedule)
			r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Post("/generate", h.GenerateSchedule)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.schedule)
				r.Get("/", h.GetSchedule)
				r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Patch("/publish", h.PublishSchedule)
				r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Patch("/archive", h.ArchiveSchedule)
				r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Delete("/", h.DeleteSchedule)
				r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Post("/shifts", h.CreateShift)
			})
		})

		r.Route("/shifts/{id}", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleSupervisor}))
			r.Patch("/", h.UpdateShift)
			r.Delete("/", h.DeleteShift)
		})

		r.Route("/time-off", func(r chi.Router) {
			r.Get("/", h.GetTimeOffRequests)
			r.Post("/", h.CreateTimeOffRequest)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.timeOffRequest)
				r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Patch("/review", h.ReviewTimeOffRequest)
			})
		})

		r.Route("/shift-swaps", func(r chi.Router) {
			r.Get("/", h.GetShiftSwaps)
			r.Post("/", h.ProposeShiftSwap)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftSwap)
				r.Patch("/respond", h.RespondToShiftSwap)
				r.Patch("/cancel", h.CancelShiftSwap)
				r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Patch("/review", h.ReviewShiftSwap)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.GetNotifications)
			r.Get("/unread-count", h.GetUnreadNotificationCount)
			r.Patch("/read-all", h.MarkAllNotificationsRead)
			r.Patch("/{id}/read", h.MarkNotificationRead)
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", h.GetLocations)
			r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Post("/", h.CreateLocation)
			r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Patch("/{id}", h.UpdateLocation)
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.GetHolidays)
			r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Post("/", h.CreateHoliday)
			r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Delete("/{id}", h.DeleteHoliday)
		})
	})
}
