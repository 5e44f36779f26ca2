package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/SanmishaTech/jssp-sub003/config"
	"github.com/SanmishaTech/jssp-sub003/database"
	"github.com/SanmishaTech/jssp-sub003/handlers"
	attendance_handlers "github.com/SanmishaTech/jssp-sub003/handlers/attendance"
	auth_handlers "github.com/SanmishaTech/jssp-sub003/handlers/auth"
	committee_handlers "github.com/SanmishaTech/jssp-sub003/handlers/committee"
	division_handlers "github.com/SanmishaTech/jssp-sub003/handlers/division"
	exam_handlers "github.com/SanmishaTech/jssp-sub003/handlers/exam"
	holiday_handlers "github.com/SanmishaTech/jssp-sub003/handlers/holiday"
	institute_handlers "github.com/SanmishaTech/jssp-sub003/handlers/institute"
	leave_handlers "github.com/SanmishaTech/jssp-sub003/handlers/leave"
	ledger_handlers "github.com/SanmishaTech/jssp-sub003/handlers/ledger"
	letter_handlers "github.com/SanmishaTech/jssp-sub003/handlers/letter"
	notice_handlers "github.com/SanmishaTech/jssp-sub003/handlers/notice"
	notification_handlers "github.com/SanmishaTech/jssp-sub003/handlers/notification"
	purchase_handlers "github.com/SanmishaTech/jssp-sub003/handlers/purchase"
	staff_handlers "github.com/SanmishaTech/jssp-sub003/handlers/staff"
	stock_handlers "github.com/SanmishaTech/jssp-sub003/handlers/stock"
	student_handlers "github.com/SanmishaTech/jssp-sub003/handlers/student"
	"github.com/SanmishaTech/jssp-sub003/services"
	"github.com/SanmishaTech/jssp-sub003/utils/auth"
	"github.com/SanmishaTech/jssp-sub003/utils/cache"
	"github.com/SanmishaTech/jssp-sub003/utils/middleware"
	"github.com/SanmishaTech/jssp-sub003/utils/storage"
)

// SetupRoutes wires all middleware, handlers and routes onto the app
func SetupRoutes(app *fiber.App, store *database.GORMStore) {
	getEnv, err := config.Get()
	if err != nil {
		log.Fatal("Failed to read environment configuration")
	}

	if getEnv.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := getEnv.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "jssp-institute-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        getEnv.JWT_SECRET,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	})

	db := store.GetDB()

	// Redis cache for brute force protection
	redisURL := getEnv.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	// Object storage for letters and notice attachments
	var storageClient *storage.Client
	if getEnv.STORAGE_ACCESS_KEY != "" {
		storageClient, err = storage.NewClient(storage.Config{
			AccessKey: getEnv.STORAGE_ACCESS_KEY,
			SecretKey: getEnv.STORAGE_SECRET_KEY,
			Bucket:    getEnv.STORAGE_BUCKET,
			Region:    getEnv.STORAGE_REGION,
			Endpoint:  getEnv.STORAGE_ENDPOINT,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize object storage: %v. Uploads will be disabled.", err)
		}
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)

	// Domain services
	ledgerService := services.NewLedgerService(db)
	stockService := services.NewStockService(db)
	attendanceService := services.NewAttendanceService(db)
	leaveService := services.NewLeaveService(db)
	notificationService := services.NewNotificationService(db)

	// Domain handlers
	instituteHandler := institute_handlers.NewInstituteHandler(db)
	staffHandler := staff_handlers.NewStaffHandler(db)
	studentHandler := student_handlers.NewStudentHandler(db)
	divisionHandler := division_handlers.NewDivisionHandler(db)
	attendanceHandler := attendance_handlers.NewAttendanceHandler(db, attendanceService)
	holidayHandler := holiday_handlers.NewHolidayHandler(db)
	examHandler := exam_handlers.NewExamHandler(db)
	committeeHandler := committee_handlers.NewCommitteeHandler(db)
	purchaseHandler := purchase_handlers.NewPurchaseOrderHandler(db)
	ledgerHandler := ledger_handlers.NewLedgerHandler(db, ledgerService)
	stockHandler := stock_handlers.NewStockHandler(db, stockService)
	leaveHandler := leave_handlers.NewLeaveHandler(db, leaveService)
	noticeHandler := notice_handlers.NewNoticeHandler(db, notificationService, storageClient)
	notificationHandler := notification_handlers.NewNotificationHandler(db, notificationService)
	letterHandler := letter_handlers.NewLetterHandler(db, storageClient)

	allowedOrigins := getEnv.ALLOWED_ORIGINS
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authMiddleware.RequireAdmin(), authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/change-password", authMiddleware.Required(), authHandler.ChangePassword)
	authGroup.Get("/profile", authMiddleware.Required(), authHandler.GetProfile)
	authGroup.Put("/profile", authMiddleware.Required(), authHandler.UpdateProfile)

	// Institutes (admin manages, everyone authenticated can read)
	institutes := api.Group("/institutes", authMiddleware.Required())
	institutes.Get("/", instituteHandler.ListInstitutes)
	institutes.Get("/:id", instituteHandler.GetInstitute)
	institutes.Post("/", authMiddleware.RequireAdmin(), instituteHandler.CreateInstitute)
	institutes.Put("/:id", authMiddleware.RequireAdmin(), instituteHandler.UpdateInstitute)
	institutes.Delete("/:id", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "institute_delete", "institutes"), instituteHandler.DeleteInstitute)

	// Staff
	staff := api.Group("/staff", authMiddleware.Required())
	staff.Get("/", staffHandler.ListStaff)
	staff.Get("/:id", staffHandler.GetStaff)
	staff.Post("/", staffHandler.CreateStaff)
	staff.Put("/:id", staffHandler.UpdateStaff)
	staff.Delete("/:id", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "staff_delete", "staff"), staffHandler.DeleteStaff)

	// Students
	students := api.Group("/students", authMiddleware.Required())
	students.Get("/", studentHandler.ListStudents)
	students.Get("/:id", studentHandler.GetStudent)
	students.Post("/", studentHandler.CreateStudent)
	students.Put("/:id", studentHandler.UpdateStudent)
	students.Delete("/:id", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "student_delete", "students"), studentHandler.DeleteStudent)

	// Divisions
	divisions := api.Group("/divisions", authMiddleware.Required())
	divisions.Get("/", divisionHandler.ListDivisions)
	divisions.Get("/:id", divisionHandler.GetDivision)
	divisions.Post("/", divisionHandler.CreateDivision)
	divisions.Put("/:id", divisionHandler.UpdateDivision)
	divisions.Delete("/:id", authMiddleware.RequireAdmin(), divisionHandler.DeleteDivision)

	// Attendance
	attendance := api.Group("/attendance", authMiddleware.Required())
	attendance.Get("/", attendanceHandler.GetRoster)
	attendance.Post("/save", attendanceHandler.SaveAttendance)

	// Holiday calendar
	api.Get("/calendar_holidays", authMiddleware.Required(), holidayHandler.GetCalendarHolidays)
	holidays := api.Group("/holidays", authMiddleware.Required())
	holidays.Post("/", authMiddleware.RequireAdmin(), holidayHandler.CreateHoliday)
	holidays.Delete("/:id", authMiddleware.RequireAdmin(), holidayHandler.DeleteHoliday)
	holidays.Post("/weekly", authMiddleware.RequireAdmin(), holidayHandler.CreateWeeklyHoliday)
	holidays.Delete("/weekly/:id", authMiddleware.RequireAdmin(), holidayHandler.DeleteWeeklyHoliday)

	// Exam calendar
	exams := api.Group("/exams", authMiddleware.Required())
	exams.Get("/", examHandler.ListExams)
	exams.Get("/:id", examHandler.GetExam)
	exams.Post("/", examHandler.CreateExam)
	exams.Put("/:id", examHandler.UpdateExam)
	exams.Delete("/:id", examHandler.DeleteExam)

	// Committees
	committees := api.Group("/committees", authMiddleware.Required())
	committees.Get("/", committeeHandler.ListCommittees)
	committees.Get("/:id", committeeHandler.GetCommittee)
	committees.Post("/", committeeHandler.CreateCommittee)
	committees.Delete("/:id", authMiddleware.RequireAdmin(), committeeHandler.DeleteCommittee)
	committees.Post("/:id/members", committeeHandler.AddMember)
	committees.Delete("/:id/members/:member_id", committeeHandler.RemoveMember)

	// Purchase orders (status decisions are admin-only and audit-logged)
	orders := api.Group("/purchase-orders", authMiddleware.Required())
	orders.Get("/", purchaseHandler.ListOrders)
	orders.Get("/:id", purchaseHandler.GetOrder)
	orders.Post("/", purchaseHandler.CreateOrder)
	orders.Put("/:id/status", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "purchase_order_decide", "purchase_orders"), purchaseHandler.DecideOrder)
	orders.Delete("/:id", authMiddleware.RequireAdmin(), purchaseHandler.DeleteOrder)

	// Cash ledgers (bank + peticash)
	ledgers := api.Group("/ledgers", authMiddleware.Required())
	ledgers.Get("/", ledgerHandler.ListLedgers)
	ledgers.Get("/:id", ledgerHandler.GetLedger)
	ledgers.Post("/", authMiddleware.RequireAdmin(), ledgerHandler.CreateLedger)
	ledgers.Post("/:id/transactions", ledgerHandler.RecordTransaction)
	ledgers.Get("/:id/transactions", ledgerHandler.ListTransactions)

	// Products & stock ledger
	products := api.Group("/products", authMiddleware.Required())
	products.Get("/", stockHandler.ListProducts)
	products.Get("/:id", stockHandler.GetProduct)
	products.Post("/", stockHandler.CreateProduct)
	products.Get("/:id/movements", stockHandler.ListMovements)
	products.Post("/:id/movements", stockHandler.CreateMovement)
	products.Post("/:id/recalculate", stockHandler.RecalculateClosing)
	api.Put("/stock-movements/:id", authMiddleware.Required(), stockHandler.UpdateMovement)
	api.Delete("/stock-movements/:id", authMiddleware.Required(), stockHandler.DeleteMovement)

	// Leaves (decisions are admin-only and audit-logged)
	leaves := api.Group("/leaves", authMiddleware.Required())
	leaves.Get("/", leaveHandler.ListLeaves)
	leaves.Get("/:id", leaveHandler.GetLeave)
	leaves.Post("/", leaveHandler.ApplyLeave)
	leaves.Post("/:id/approve", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "leave_approve", "leaves"), leaveHandler.ApproveLeave)
	leaves.Post("/:id/reject", authMiddleware.RequireAdmin(), middleware.AdminAuditLog(db, "leave_reject", "leaves"), leaveHandler.RejectLeave)

	// Notices
	notices := api.Group("/notices", authMiddleware.Required())
	notices.Get("/", noticeHandler.ListNotices)
	notices.Get("/:id", noticeHandler.GetNotice)
	notices.Post("/", noticeHandler.CreateNotice)
	notices.Post("/:id/attachment", noticeHandler.UploadAttachment)
	notices.Delete("/:id", authMiddleware.RequireAdmin(), noticeHandler.DeleteNotice)

	// Notifications
	notifications := api.Group("/notifications", authMiddleware.Required())
	notifications.Get("/", notificationHandler.ListNotifications)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Post("/read-all", notificationHandler.MarkAllRead)
	notifications.Post("/:id/read", notificationHandler.MarkRead)

	// Letter register
	letters := api.Group("/letters", authMiddleware.Required())
	letters.Get("/", letterHandler.ListLetters)
	letters.Get("/:id", letterHandler.GetLetter)
	letters.Get("/:id/download", letterHandler.GetDownloadURL)
	letters.Post("/", letterHandler.CreateLetter)
	letters.Delete("/:id", authMiddleware.RequireAdmin(), letterHandler.DeleteLetter)
}
