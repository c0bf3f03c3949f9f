package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/limbo/tickdone/internal/store"
)

type Server struct {
	mx         *chi.Mux
	tasks      *store.TaskStore
	habits     *store.HabitStore
	jwtService JWTServiceI
	accessKey  string
}

type Options struct {
	Tasks      *store.TaskStore
	Habits     *store.HabitStore
	JwtService JWTServiceI
	AccessKey  string
}

func New(opts *Options) *Server {
	s := &Server{
		mx:         chi.NewMux(),
		tasks:      opts.Tasks,
		habits:     opts.Habits,
		jwtService: opts.JwtService,
		accessKey:  opts.AccessKey,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Post("/api/v1/session", s.CreateSession)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Use(s.AuthMiddleware)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.GetTasks)
			r.Post("/", s.CreateTask)
			r.Get("/{id}", s.GetTask)
			r.Patch("/{id}", s.UpdateTask)
			r.Delete("/{id}", s.DeleteTask)
			r.Post("/{id}/complete", s.CompleteTask)
			r.Post("/{id}/due-date", s.SetTaskDueDate)
			r.Post("/{id}/priority", s.UpdateTaskPriority)
			r.Post("/{id}/pin", s.PinTask)
			r.Post("/{id}/convert", s.ConvertTaskType)
			r.Post("/{id}/section", s.SetTaskSection)
		})
		r.Route("/lists", func(r chi.Router) {
			r.Get("/", s.GetLists)
			r.Post("/", s.CreateList)
			r.Patch("/{id}", s.UpdateList)
			r.Delete("/{id}", s.DeleteList)
		})
		r.Route("/habits", func(r chi.Router) {
			r.Get("/", s.GetHabits)
			r.Post("/", s.CreateHabit)
			r.Get("/{id}", s.GetHabit)
			r.Patch("/{id}", s.UpdateHabit)
			r.Delete("/{id}", s.DeleteHabit)
			r.Post("/{id}/archive", s.ArchiveHabit)
			r.Post("/{id}/check-ins", s.CheckInHabit)
			r.Get("/{id}/stats", s.GetHabitStats)
		})
		r.Route("/sections", func(r chi.Router) {
			r.Get("/", s.GetSections)
			r.Post("/", s.CreateSection)
		})
	})
}

// Handler exposes the routed mux, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.mx
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.mx)
}
