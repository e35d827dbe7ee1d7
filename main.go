package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"reservas-api/config"
	"reservas-api/controllers"
	"reservas-api/domain"
	"reservas-api/middleware"
	"reservas-api/publishers"
	"reservas-api/repositories"
	"reservas-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// ============================================
	// 1. CONFIGURACIÓN - Leer variables de entorno
	// ============================================
	cfg := config.LoadConfig()

	log.Println("🔧 Configuración cargada:")
	log.Printf("   - DB Host: %s:%s", cfg.DBHost, cfg.DBPort)
	log.Printf("   - DB Name: %s", cfg.DBName)
	log.Printf("   - Memcached: %s", cfg.MemcachedHost)
	log.Printf("   - Pending hold: %s", cfg.PendingHold)

	// ============================================
	// 2. CONECTAR A MYSQL
	// ============================================
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	log.Println("📡 Conectando a MySQL...")
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}
	log.Println("✅ Conexión a MySQL exitosa")

	// ============================================
	// 3. AUTO-MIGRAR LAS TABLAS
	// ============================================
	log.Println("🔄 Ejecutando migraciones...")
	err = db.AutoMigrate(
		&domain.Room{},
		&domain.Reservation{},
		&domain.AvailabilityDay{},
		&domain.Coupon{},
	)
	if err != nil {
		log.Fatal("❌ Failed to migrate database:", err)
	}
	log.Println("✅ Tablas creadas/actualizadas")

	// ============================================
	// 4. PUBLISHER DE EVENTOS (RabbitMQ)
	// ============================================
	// Si no hay broker configurado el core funciona igual,
	// solo que sin avisarle a pagos ni al indexador
	var publisher publishers.ReservationPublisher
	if cfg.RabbitMQURL != "" {
		publisher, err = publishers.NewRabbitPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("⚠️  RabbitMQ no disponible, eventos deshabilitados: %v", err)
			publisher = publishers.NewNoopPublisher()
		}
	} else {
		log.Println("⚠️  RABBITMQ_URL vacío, eventos deshabilitados")
		publisher = publishers.NewNoopPublisher()
	}
	defer publisher.Close()

	// ============================================
	// 5. INICIALIZAR CAPAS
	// ============================================
	log.Println("🏗️  Inicializando capas...")

	// Repositories: acceso a datos
	roomRepo := repositories.NewRoomRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)
	availabilityRepo := repositories.NewAvailabilityRepository(db)
	couponRepo := repositories.NewCouponRepository(db)
	hintCache := repositories.NewHintCacheRepository(cfg.MemcachedHost)
	uow := repositories.NewUnitOfWork(db)

	// Services: lógica de negocio
	reservationService := services.NewReservationService(uow, reservationRepo, publisher)
	availabilityService := services.NewAvailabilityService(availabilityRepo, roomRepo, hintCache)
	couponService := services.NewCouponService(couponRepo)

	// Controllers: manejan HTTP
	reservationController := controllers.NewReservationController(reservationService)
	availabilityController := controllers.NewAvailabilityController(availabilityService)
	couponController := controllers.NewCouponController(couponService)

	log.Println("✅ Capas inicializadas")

	// ============================================
	// 6. BARRIDO DE RESERVAS PENDIENTES VENCIDAS
	// ============================================
	// Cada tanto se cancelan las reservas cuyo pago nunca llegó,
	// liberando sus días del calendario
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			released, err := reservationService.ReleaseExpiredPending(context.Background(), cfg.PendingHold)
			if err != nil {
				log.Printf("⚠️  Error en barrido de pendientes: %v", err)
				continue
			}
			if released > 0 {
				log.Printf("🧹 Barrido: %d reservas pendientes liberadas", released)
			}
		}
	}()

	// ============================================
	// 7. CONFIGURAR GIN (Framework web)
	// ============================================
	router := gin.Default()

	// CORS - Permitir requests desde el frontend
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// ============================================
	// 8. DEFINIR RUTAS (Endpoints)
	// ============================================
	log.Println("🛣️  Configurando rutas...")

	// Rutas PÚBLICAS (sin autenticación)
	router.GET("/health", reservationController.HealthCheck)
	router.GET("/availability/:roomId", availabilityController.IsAvailable)
	router.GET("/availability/:roomId/prices", availabilityController.Prices)
	router.POST("/coupons/validate", couponController.Validate)

	// Rutas PROTEGIDAS (requieren JWT)
	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.POST("/reservations", reservationController.Create)
		auth.GET("/reservations", reservationController.ListMine)
		auth.GET("/reservations/:id", reservationController.GetByID)
		auth.GET("/reservations/code/:code", reservationController.GetByCode)
		auth.PUT("/reservations/:id/cancel", reservationController.Cancel)
	}

	// Transiciones que maneja el hotel (host o admin)
	host := router.Group("/")
	host.Use(middleware.AuthMiddleware(), middleware.HostOrAdminMiddleware())
	{
		host.PUT("/reservations/:id/confirm", reservationController.Confirm)
		host.PUT("/reservations/:id/complete", reservationController.Complete)
		host.PUT("/reservations/:id/no-show", reservationController.MarkNoShow)
	}

	log.Println("✅ Rutas configuradas:")
	log.Println("   - GET  /health")
	log.Println("   - GET  /availability/:roomId")
	log.Println("   - GET  /availability/:roomId/prices")
	log.Println("   - POST /coupons/validate")
	log.Println("   - POST /reservations")
	log.Println("   - GET  /reservations (propias)")
	log.Println("   - GET  /reservations/:id")
	log.Println("   - GET  /reservations/code/:code")
	log.Println("   - PUT  /reservations/:id/cancel")
	log.Println("   - PUT  /reservations/:id/confirm (host/admin)")
	log.Println("   - PUT  /reservations/:id/complete (host/admin)")
	log.Println("   - PUT  /reservations/:id/no-show (host/admin)")

	// ============================================
	// 9. ARRANCAR EL SERVIDOR
	// ============================================
	log.Println("🚀 =======================================")
	log.Printf("🚀 Reservas API corriendo en puerto %s", cfg.Port)
	log.Println("🚀 =======================================")

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("❌ Failed to start server:", err)
	}
}
