package app

import (
	"os"
	"time"

	"vendorhub/internal/auth"
	"vendorhub/internal/repo"
	"vendorhub/internal/services"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Services holds all application services
type Services struct {
	DB          *gorm.DB
	AuthService *auth.Service
	UserRepo    *repo.UserRepository
	VendorRepo  *repo.VendorRepository
	ProductRepo *repo.ProductRepository
	Reconciler  *services.AvailabilityReconciler
}

// NewServices creates a new services container
func NewServices(db *gorm.DB) *Services {
	userRepo := repo.NewUserRepository(db)
	vendorRepo := repo.NewVendorRepository(db)
	productRepo := repo.NewProductRepository(db)

	authService := auth.NewService(userRepo)

	interval := services.DefaultReconcileInterval
	if raw := os.Getenv("RECONCILE_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Warn().Str("value", raw).Msg("Invalid RECONCILE_INTERVAL, using default")
		} else {
			interval = parsed
		}
	}

	reconciler := services.NewAvailabilityReconciler(vendorRepo, productRepo, interval)

	return &Services{
		DB:          db,
		AuthService: authService,
		UserRepo:    userRepo,
		VendorRepo:  vendorRepo,
		ProductRepo: productRepo,
		Reconciler:  reconciler,
	}
}
