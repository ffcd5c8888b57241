package handlers

import (
	"net/http"

	"vendorhub/internal/services"

	"github.com/labstack/echo/v4"
)

// AdminHandler exposes platform-admin operations on the reconciler
type AdminHandler struct {
	reconciler *services.AvailabilityReconciler
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(reconciler *services.AvailabilityReconciler) *AdminHandler {
	return &AdminHandler{reconciler: reconciler}
}

// TriggerReconcile runs a full reconciliation pass on demand
func (h *AdminHandler) TriggerReconcile(c echo.Context) error {
	report, err := h.reconciler.ReconcileAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "reconciliation pass failed")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"report":  report,
	})
}

// GetReconcilerStatus returns current scheduler state
func (h *AdminHandler) GetReconcilerStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.reconciler.GetStatus())
}
