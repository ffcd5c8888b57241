package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vendorhub/internal/availability"
	"vendorhub/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultReconcileInterval is the scheduled cadence between full passes.
// The cadence is a deployment parameter, not a correctness requirement:
// every pass is idempotent, so overlapping or extra runs are harmless.
const DefaultReconcileInterval = 6 * time.Hour

// VendorLister lists the vendors a reconciliation pass visits
type VendorLister interface {
	ListActive() ([]models.Vendor, error)
}

// ProductCatalog is the product-visibility side of reconciliation
type ProductCatalog interface {
	ListByVendor(vendorID uuid.UUID) ([]models.Product, error)
	BulkUpdateStatus(vendorID uuid.UUID, updates []models.ProductStatusUpdate) error
}

// ReconcileReport aggregates the outcome of one full pass
type ReconcileReport struct {
	VendorsProcessed int `json:"vendors_processed"`
	VendorsFailed    int `json:"vendors_failed"`
	ProductsHidden   int `json:"products_hidden"`
	ProductsResumed  int `json:"products_resumed"`
}

// AvailabilityReconciler periodically aligns product visibility with each
// vendor's availability state. The settings-update endpoint calls
// ReconcileVendor on the same instance, so both trigger surfaces share one
// decision policy. Concurrent invocations are safe by idempotence, not
// locking: both paths write the same status fields, last write wins.
type AvailabilityReconciler struct {
	vendors   VendorLister
	catalog   ProductCatalog
	interval  time.Duration
	now       func() time.Time
	mutex     sync.RWMutex
	isRunning bool
	stopChan  chan struct{}
	lastRun   time.Time
	lastRep   ReconcileReport
}

// NewAvailabilityReconciler creates a new reconciler
func NewAvailabilityReconciler(vendors VendorLister, catalog ProductCatalog, interval time.Duration) *AvailabilityReconciler {
	if interval <= 0 {
		interval = DefaultReconcileInterval
	}
	return &AvailabilityReconciler{
		vendors:  vendors,
		catalog:  catalog,
		interval: interval,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic reconciliation loop
func (r *AvailabilityReconciler) Start(ctx context.Context) {
	r.mutex.Lock()
	if r.isRunning {
		r.mutex.Unlock()
		return
	}
	r.isRunning = true
	r.mutex.Unlock()

	log.Info().Dur("interval", r.interval).Msg("Starting availability reconciliation loop")

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		// First pass runs immediately so a restart does not leave stale
		// visibility until the next tick.
		r.runOnce(ctx)

		for {
			select {
			case <-ticker.C:
				r.runOnce(ctx)
			case <-r.stopChan:
				log.Info().Msg("Stopping availability reconciliation loop")
				return
			case <-ctx.Done():
				log.Info().Msg("Context cancelled, stopping availability reconciliation loop")
				return
			}
		}
	}()
}

// Stop stops the reconciliation loop
func (r *AvailabilityReconciler) Stop() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.isRunning {
		return
	}

	r.isRunning = false
	close(r.stopChan)
}

func (r *AvailabilityReconciler) runOnce(ctx context.Context) {
	report, err := r.ReconcileAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Availability reconciliation pass failed")
		return
	}

	r.mutex.Lock()
	r.lastRun = r.now()
	r.lastRep = report
	r.mutex.Unlock()

	log.Info().
		Int("vendors_processed", report.VendorsProcessed).
		Int("vendors_failed", report.VendorsFailed).
		Int("products_hidden", report.ProductsHidden).
		Int("products_resumed", report.ProductsResumed).
		Msg("Availability reconciliation pass completed")
}

// ReconcileAll runs one pass over every active vendor. Per-vendor failures
// are logged and counted without aborting the batch; only a failure to list
// vendors at all is returned as an error.
func (r *AvailabilityReconciler) ReconcileAll(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	vendors, err := r.vendors.ListActive()
	if err != nil {
		return report, fmt.Errorf("failed to list vendors: %w", err)
	}

	now := r.now()
	for i := range vendors {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		hidden, resumed, err := r.ReconcileVendor(&vendors[i], now)
		if err != nil {
			report.VendorsFailed++
			log.Error().Err(err).
				Str("vendor_id", vendors[i].ID.String()).
				Str("vendor", vendors[i].Name).
				Msg("Vendor reconciliation failed")
			continue
		}
		report.VendorsProcessed++
		report.ProductsHidden += hidden
		report.ProductsResumed += resumed
	}

	return report, nil
}

// ReconcileVendor applies the hide/resume policy for a single vendor at the
// given instant and returns how many products were hidden and resumed.
//
// Policy, evaluated in order:
//  1. active override hides products and any product is published: hide all
//  2. active override carries autoResume: resume all drafts
//  3. no active override: resume all drafts (a draft is presumed to be a
//     prior automated hide, not a vendor-intentional unpublish)
//  4. otherwise: no action
func (r *AvailabilityReconciler) ReconcileVendor(vendor *models.Vendor, now time.Time) (hidden, resumed int, err error) {
	override := availability.ActiveOverride(vendor.SpecialHours, now)
	hideProducts := availability.ShouldHideProducts(vendor.BusinessHours, vendor.SpecialHours, now)

	products, err := r.catalog.ListByVendor(vendor.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list products: %w", err)
	}

	var published, drafts []models.Product
	for _, p := range products {
		if p.Status == models.ProductStatusPublished {
			published = append(published, p)
		} else {
			drafts = append(drafts, p)
		}
	}

	switch {
	case hideProducts && len(published) > 0:
		updates := statusUpdates(published, models.ProductStatusDraft)
		if err := r.catalog.BulkUpdateStatus(vendor.ID, updates); err != nil {
			return 0, 0, fmt.Errorf("failed to hide products: %w", err)
		}
		return len(updates), 0, nil

	case hideProducts:
		// Directive already satisfied, nothing published.
		return 0, 0, nil

	case override != nil && override.AutoResume && len(drafts) > 0:
		updates := statusUpdates(drafts, models.ProductStatusPublished)
		if err := r.catalog.BulkUpdateStatus(vendor.ID, updates); err != nil {
			return 0, 0, fmt.Errorf("failed to resume products: %w", err)
		}
		return 0, len(updates), nil

	case override == nil && len(drafts) > 0:
		updates := statusUpdates(drafts, models.ProductStatusPublished)
		if err := r.catalog.BulkUpdateStatus(vendor.ID, updates); err != nil {
			return 0, 0, fmt.Errorf("failed to resume products: %w", err)
		}
		return 0, len(updates), nil

	default:
		return 0, 0, nil
	}
}

func statusUpdates(products []models.Product, status string) []models.ProductStatusUpdate {
	updates := make([]models.ProductStatusUpdate, 0, len(products))
	for _, p := range products {
		updates = append(updates, models.ProductStatusUpdate{ID: p.ID, Status: status})
	}
	return updates
}

// GetStatus returns current scheduler state for the admin endpoint
func (r *AvailabilityReconciler) GetStatus() map[string]interface{} {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	status := map[string]interface{}{
		"is_running":  r.isRunning,
		"interval":    r.interval.String(),
		"last_report": r.lastRep,
	}
	if !r.lastRun.IsZero() {
		status["last_run"] = r.lastRun.Format(time.RFC3339)
	}
	return status
}
