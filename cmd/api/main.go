package main

import (
	"fmt"
	"net/http"

	"github.com/staffhub-app/staffhub-backend-go/internal/config"
	appHTTP "github.com/staffhub-app/staffhub-backend-go/internal/handler/http"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/cron"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/database"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/jwt"
	"github.com/staffhub-app/staffhub-backend-go/internal/repository/postgresql"
	attendanceService "github.com/staffhub-app/staffhub-backend-go/internal/service/attendance"
	leaveService "github.com/staffhub-app/staffhub-backend-go/internal/service/leave"
	payrollService "github.com/staffhub-app/staffhub-backend-go/internal/service/payroll"
	shiftService "github.com/staffhub-app/staffhub-backend-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	shiftTemplateRepo := postgresql.NewShiftTemplateRepository(db)
	shiftAssignmentRepo := postgresql.NewShiftAssignmentRepository(db)
	attendanceTemplateRepo := postgresql.NewAttendanceTemplateRepository(db)
	attendanceAssignmentRepo := postgresql.NewAttendanceAssignmentRepository(db)
	leaveTemplateRepo := postgresql.NewLeaveTemplateRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	weeklyOffRepo := postgresql.NewWeeklyOffRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	salaryTemplateRepo := postgresql.NewSalaryTemplateRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	resolver := shiftService.NewPolicyResolver(
		shiftTemplateRepo,
		shiftAssignmentRepo,
		attendanceTemplateRepo,
		attendanceAssignmentRepo,
		settingsRepo,
	)
	templateSvc := shiftService.NewTemplateService(
		shiftTemplateRepo,
		shiftAssignmentRepo,
		attendanceTemplateRepo,
		attendanceAssignmentRepo,
	)
	leaveSvc := leaveService.NewLeaveService(db, leaveTemplateRepo, leaveBalanceRepo, leaveRequestRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		db,
		attendanceRepo,
		resolver,
		leaveSvc,
		holidayRepo,
		settingsRepo,
	)
	payrollSvc := payrollService.NewPayrollService(
		db,
		payrollRepo,
		salaryTemplateRepo,
		attendanceSvc,
		leaveSvc,
		holidayRepo,
		weeklyOffRepo,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	shiftHandler := appHTTP.NewShiftHandler(templateSvc)
	orgHandler := appHTTP.NewOrgHandler(settingsRepo, holidayRepo, weeklyOffRepo)

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		leaveHandler,
		payrollHandler,
		shiftHandler,
		orgHandler,
	)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(attendanceSvc, db)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
