package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/staffhub-app/staffhub-backend-go/internal/handler/http/middleware"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/jwt"
)

func NewRouter(
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	payrollHandler PayrollHandler,
	shiftHandler ShiftHandler,
	orgHandler OrgHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "staffhub"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/punch-in", attendanceHandler.PunchIn)
				r.Post("/punch-out", attendanceHandler.PunchOut)
				r.Post("/breaks/start", attendanceHandler.StartBreak)
				r.Post("/breaks/end", attendanceHandler.EndBreak)
				r.Get("/status", attendanceHandler.Status)
				r.Get("/history/{monthKey}", attendanceHandler.MonthlyHistory)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/override", attendanceHandler.Override)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Get("/categories", leaveHandler.Categories)

				r.Route("/requests", func(r chi.Router) {
					r.Post("/", leaveHandler.CreateRequest)
					r.Get("/", leaveHandler.ListRequests)
					r.Delete("/{id}", leaveHandler.Cancel)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/{id}/review", leaveHandler.Review)
					})
				})

				// Admin only
				r.Route("/templates", func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", leaveHandler.CreateTemplate)
					r.Get("/", leaveHandler.ListTemplates)
					r.Post("/assign", leaveHandler.AssignTemplate)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/my/{monthKey}", payrollHandler.MySalary)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/preview", payrollHandler.Preview)
					r.Post("/staff-salaries", payrollHandler.AssignStaffSalary)
					r.Post("/users/{userID}/{monthKey}/compute", payrollHandler.ComputeUser)

					r.Route("/cycles/{monthKey}", func(r chi.Router) {
						r.Post("/compute", payrollHandler.ComputeCycle)
						r.Post("/lock", payrollHandler.LockCycle)
						r.Post("/paid", payrollHandler.MarkCyclePaid)
					})

					r.Route("/templates", func(r chi.Router) {
						r.Post("/", payrollHandler.CreateTemplate)
						r.Get("/", payrollHandler.ListTemplates)
					})
				})
			})

			// Admin only
			r.Route("/shifts", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/templates", shiftHandler.CreateShiftTemplate)
				r.Get("/templates", shiftHandler.ListShiftTemplates)
				r.Post("/assignments", shiftHandler.AssignShift)
			})

			// Admin only
			r.Route("/attendance-templates", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/", shiftHandler.CreateAttendanceTemplate)
				r.Get("/", shiftHandler.ListAttendanceTemplates)
				r.Post("/assign", shiftHandler.AssignAttendanceTemplate)
			})

			r.Route("/org", func(r chi.Router) {
				r.Get("/policy", orgHandler.GetPolicy)
				r.Get("/holidays", orgHandler.ListHolidays)
				r.Get("/weekly-off", orgHandler.GetWeeklyOff)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/settings", orgHandler.UpsertSetting)
					r.Post("/holidays", orgHandler.CreateHoliday)
					r.Put("/weekly-off", orgHandler.UpsertWeeklyOff)
				})
			})
		})
	})
	return r
}
