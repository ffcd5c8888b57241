package handlers

import (
	"net/http"
	"strconv"
	"time"

	"vendorhub/internal/availability"
	"vendorhub/internal/repo"
	"vendorhub/internal/services"
	"vendorhub/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AvailabilityHandler serves vendor availability settings and storefront
// status. Settings saves trigger the same reconciliation policy the
// scheduled job runs, so visibility reacts immediately to an edit.
type AvailabilityHandler struct {
	vendorRepo *repo.VendorRepository
	reconciler *services.AvailabilityReconciler
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(vendorRepo *repo.VendorRepository, reconciler *services.AvailabilityReconciler) *AvailabilityHandler {
	return &AvailabilityHandler{vendorRepo: vendorRepo, reconciler: reconciler}
}

// UpdateAvailabilityRequest replaces a vendor's schedule wholesale.
// Override lists have no per-entry update API; the client always sends the
// full set.
type UpdateAvailabilityRequest struct {
	BusinessHours availability.BusinessHours `json:"business_hours"`
	SpecialHours  availability.SpecialHours  `json:"special_hours"`
}

// GetStoreStatus returns the public storefront status for a vendor
func (h *AvailabilityHandler) GetStoreStatus(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "store slug required")
	}

	vendor, err := h.vendorRepo.GetBySlug(slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "store not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load store")
	}

	status := availability.Evaluate(vendor.BusinessHours, vendor.SpecialHours, time.Now())

	return c.JSON(http.StatusOK, map[string]interface{}{
		"store":  vendor.Slug,
		"status": status,
	})
}

// GetAvailability returns the authenticated vendor's schedule configuration
func (h *AvailabilityHandler) GetAvailability(c echo.Context) error {
	vendor, err := h.currentVendor(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"business_hours": vendor.BusinessHours,
		"special_hours":  vendor.SpecialHours,
		"status":         availability.Evaluate(vendor.BusinessHours, vendor.SpecialHours, time.Now()),
	})
}

// UpdateAvailability replaces the vendor's schedule and immediately
// reconciles product visibility against the new configuration
func (h *AvailabilityHandler) UpdateAvailability(c echo.Context) error {
	vendor, err := h.currentVendor(c)
	if err != nil {
		return err
	}

	var req UpdateAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	now := time.Now()
	req.SpecialHours.RemoveExpired(now)
	req.SpecialHours.GenerateEntryIDs(func() string { return uuid.New().String() })

	vendor.BusinessHours = req.BusinessHours
	vendor.SpecialHours = req.SpecialHours

	if err := h.vendorRepo.UpdateAvailability(vendor); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save availability settings")
	}

	hidden, resumed, err := h.reconciler.ReconcileVendor(vendor, now)
	if err != nil {
		// Settings are saved; visibility catches up on the next scheduled
		// pass, which is idempotent.
		log.Error().Err(err).Str("vendor_id", vendor.ID.String()).Msg("Inline reconciliation after settings save failed")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"business_hours":   vendor.BusinessHours,
		"special_hours":    vendor.SpecialHours,
		"status":           availability.Evaluate(vendor.BusinessHours, vendor.SpecialHours, now),
		"products_hidden":  hidden,
		"products_resumed": resumed,
	})
}

// GetUpcomingEvents lists override entries starting within the next N days
func (h *AvailabilityHandler) GetUpcomingEvents(c echo.Context) error {
	vendor, err := h.currentVendor(c)
	if err != nil {
		return err
	}

	days := 30
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be a positive integer")
		}
		days = parsed
	}

	events := availability.UpcomingEvents(vendor.SpecialHours, time.Now(), days)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"window_days": days,
		"events":      events,
	})
}

func (h *AvailabilityHandler) currentVendor(c echo.Context) (*models.Vendor, error) {
	vendorID, ok := c.Get("vendor_id").(uuid.UUID)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "vendor ID required")
	}

	vendor, err := h.vendorRepo.GetByID(vendorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "vendor not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to load vendor")
	}
	return vendor, nil
}
