package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/controllers"
	"github.com/yeremiapane/restaurant-reservation/hub"
	"github.com/yeremiapane/restaurant-reservation/middlewares"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/repository"
	"github.com/yeremiapane/restaurant-reservation/services"
	"gorm.io/gorm"
)

type Deps struct {
	DB           *gorm.DB
	Reservations services.ReservationService
	Hub          *hub.Hub
	Location     *time.Location
	Clock        services.Clock
	CORSOrigin   string
	TokenTTL     time.Duration
	// PublicRateEvery and PublicRateBurst bound public booking calls per IP.
	PublicRateEvery time.Duration
	PublicRateBurst int
}

func SetupRouter(d Deps) *gin.Engine {
	controllers.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(d.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(repository.NewUserRepository(d.DB), d.TokenTTL)
	tableCtrl := controllers.NewTableController(repository.NewTableRepository(d.DB), d.Hub)
	customerCtrl := controllers.NewCustomerController(repository.NewCustomerRepository(d.DB))
	notificationCtrl := controllers.NewNotificationController(d.DB)
	reservationCtrl := controllers.NewReservationController(d.Reservations, d.Location, d.Clock)
	hubCtrl := controllers.NewHubController(d.Hub, d.CORSOrigin)

	every, burst := d.PublicRateEvery, d.PublicRateBurst
	if every <= 0 {
		every = time.Second
	}
	if burst <= 0 {
		burst = 20
	}
	publicLimiter := middlewares.NewRateLimiter(every, burst)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.POST("/login", middlewares.NewStrictRateLimiter(), userCtrl.Login)
	r.GET("/tables", tableCtrl.GetAllTables)

	// WebSocket untuk layar staff, token lewat query string
	r.GET("/ws/:role", middlewares.WebSocketAuthMiddleware(), middlewares.RoleCheck(), hubCtrl.Connect)

	staffAuth := []gin.HandlerFunc{middlewares.AuthMiddleware(), middlewares.RequireRoles(models.RoleStaff)}

	reservations := r.Group("/reservations")
	{
		public := reservations.Group("")
		public.Use(publicLimiter.RateLimit())
		public.POST("", reservationCtrl.CreateReservation)
		public.GET("/by-number/:number", reservationCtrl.GetReservationByNumber)
		public.GET("/my-reservations", reservationCtrl.MyReservations)
		public.GET("/suggest-tables", reservationCtrl.SuggestTables)
		public.GET("/capacity", reservationCtrl.Capacity)
		public.GET("/:id", reservationCtrl.GetReservation)

		staff := reservations.Group("")
		staff.Use(staffAuth...)
		staff.GET("", reservationCtrl.ListReservations)
		staff.GET("/dashboard", reservationCtrl.Dashboard)
		staff.GET("/timeline", reservationCtrl.Timeline)
		staff.PUT("/:id/confirm", reservationCtrl.ConfirmReservation)
		staff.DELETE("/:id", reservationCtrl.CancelReservation)
		staff.POST("/:id/arrive", reservationCtrl.ArriveReservation)
		staff.POST("/:id/no-show", reservationCtrl.MarkNoShow)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", userCtrl.GetProfile)
		auth.GET("/notifications", middlewares.RequireRoles(models.RoleStaff), notificationCtrl.GetNotifications)

		auth.POST("/customers", middlewares.RequireRoles(models.RoleStaff), customerCtrl.CreateCustomer)
		auth.GET("/customers/:customer_id", middlewares.RequireRoles(models.RoleStaff), customerCtrl.GetCustomer)

		// TABLE
		auth.GET("/tables", middlewares.RequireRoles(models.RoleStaff, models.RoleCleaner), tableCtrl.GetAllTables)
		auth.PATCH("/tables/:table_id/clean", middlewares.RequireRoles(models.RoleStaff, models.RoleCleaner), tableCtrl.MarkTableClean)

		admin := auth.Group("")
		admin.Use(middlewares.RequireRoles())
		admin.POST("/register", userCtrl.Register)
		admin.POST("/tables", tableCtrl.CreateTable)
		admin.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	}

	return r
}
