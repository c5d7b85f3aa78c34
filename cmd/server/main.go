package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"warehub/pkg/booking"
	"warehub/pkg/circuitbreaker"
	"warehub/pkg/config"
	"warehub/pkg/database"
	"warehub/pkg/events"
	"warehub/pkg/models"
	"warehub/pkg/payment"
)

var (
	db    *gorm.DB
	svc   *booking.Service
	queue *events.Queue
)

func main() {
	log.Println("Starting warehub server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db = database.Init(cfg.DSN())

	if cfg.SeedDemoData {
		seedDemoData()
	}

	gateway := payment.WithBreaker(
		payment.NewSimulated(cfg.PaymentFailureRate),
		circuitbreaker.New(5, 30*time.Second),
	)
	queue = events.NewQueue()
	svc = booking.NewService(db, gateway, queue)

	go drainEvents(queue)

	server := gin.Default()
	registerRoutes(server)

	log.Printf("Warehub server starting on %s", cfg.HTTPAddr)
	if err := server.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func registerRoutes(r *gin.Engine) {
	r.GET("/api/v1/warehouses", getWarehouses)
	r.GET("/api/v1/warehouses/:warehouseUid", getWarehouse)
	r.POST("/api/v1/warehouses", createWarehouse)
	r.PUT("/api/v1/warehouses/:warehouseUid", updateWarehouse)
	r.DELETE("/api/v1/warehouses/:warehouseUid", deleteWarehouse)

	r.GET("/api/v1/bookings", getBookings)
	r.GET("/api/v1/bookings/:bookingUid", getBooking)
	r.POST("/api/v1/bookings", createBooking)
	r.POST("/api/v1/bookings/:bookingUid/payment", payBooking)
	r.POST("/api/v1/bookings/:bookingUid/cancel", cancelBooking)
	r.POST("/api/v1/bookings/:bookingUid/approve", approveBooking)

	r.GET("/api/v1/users", getUsers)
	r.GET("/api/v1/users/:userUid", getUser)
	r.PUT("/api/v1/users/:userUid", updateUser)

	r.GET("/manage/health", healthCheck)
}

// actorFrom builds the explicit actor every lifecycle operation takes.
// Identity is asserted by the upstream auth proxy via headers, the same
// trust model as a session-bearing frontend.
func actorFrom(c *gin.Context) (booking.Actor, bool) {
	uid := c.GetHeader("X-User-Id")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-Id header is required"})
		return booking.Actor{}, false
	}
	role := c.GetHeader("X-User-Role")
	if role != models.RoleAdmin {
		role = models.RoleCustomer
	}
	return booking.Actor{Uid: uid, Role: role}, true
}

func requireAdmin(c *gin.Context) (booking.Actor, bool) {
	actor, ok := actorFrom(c)
	if !ok {
		return booking.Actor{}, false
	}
	if !actor.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return booking.Actor{}, false
	}
	return actor, true
}

func drainEvents(q *events.Queue) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for range ticker.C {
		for {
			ev, ok := q.Dequeue()
			if !ok {
				break
			}
			log.Printf("[audit] %s booking=%s warehouse=%s actor=%s",
				ev.Type, ev.BookingUid, ev.WarehouseUid, ev.ActorUid)
		}
	}
}

func healthCheck(c *gin.Context) {
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database connection failed",
			"error":   err.Error(),
		})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database ping failed",
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func seedDemoData() {
	var count int64
	if err := db.Model(&models.Warehouse{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	warehouses := []models.Warehouse{
		{
			WarehouseUid:  uuid.New().String(),
			Name:          "Harborview Distribution Center",
			Description:   "Dockside warehouse with direct port access",
			Address:       "1200 Harbor Blvd",
			City:          "Oakland",
			State:         "CA",
			ZipCode:       "94607",
			SizeSqft:      24000,
			PricePerMonth: 8500,
			Features:      models.StringList([]string{"loading_dock", "port_proximity", "forklift_access"}),
			Images:        models.StringList([]string{"/images/harborview.jpg"}),
			IsAvailable:   true,
		},
		{
			WarehouseUid:  uuid.New().String(),
			Name:          "Midtown Cold Storage",
			Description:   "Climate controlled units with 24/7 access",
			Address:       "88 Commerce Way",
			City:          "Sacramento",
			State:         "CA",
			ZipCode:       "95814",
			SizeSqft:      9000,
			PricePerMonth: 3000,
			Features:      models.StringList([]string{"climate_controlled", "24_7_access", "security_cameras"}),
			Images:        models.StringList([]string{"/images/midtown.jpg"}),
			IsAvailable:   true,
		},
	}
	for i := range warehouses {
		db.Create(&warehouses[i])
	}

	admin := models.User{
		UserUid:  uuid.New().String(),
		Email:    "admin@warehub.local",
		FullName: "Warehub Admin",
		Role:     models.RoleAdmin,
	}
	db.Create(&admin)

	log.Println("Demo data seeded")
}
