package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendorhub/internal/availability"
	"vendorhub/pkg/models"
)

type fakeVendorLister struct {
	vendors []models.Vendor
	err     error
}

func (f *fakeVendorLister) ListActive() ([]models.Vendor, error) {
	return f.vendors, f.err
}

type fakeCatalog struct {
	products map[uuid.UUID][]models.Product
	listErr  map[uuid.UUID]error
	calls    int
}

func (f *fakeCatalog) ListByVendor(vendorID uuid.UUID) ([]models.Product, error) {
	if err := f.listErr[vendorID]; err != nil {
		return nil, err
	}
	return f.products[vendorID], nil
}

func (f *fakeCatalog) BulkUpdateStatus(vendorID uuid.UUID, updates []models.ProductStatusUpdate) error {
	f.calls++
	byID := make(map[uuid.UUID]int)
	for i, p := range f.products[vendorID] {
		byID[p.ID] = i
	}
	for _, u := range updates {
		if i, ok := byID[u.ID]; ok {
			f.products[vendorID][i].Status = u.Status
		}
	}
	return nil
}

func newVendor(sh availability.SpecialHours) models.Vendor {
	v := models.Vendor{
		Name:         "Corner Shop",
		Slug:         "corner-shop",
		IsActive:     true,
		SpecialHours: sh,
		BusinessHours: availability.BusinessHours{
			Monday: availability.DayHours{Open: "09:00", Close: "17:00"},
		},
	}
	v.ID = uuid.New()
	return v
}

func productsWithStatus(vendorID uuid.UUID, statuses ...string) []models.Product {
	products := make([]models.Product, 0, len(statuses))
	for _, s := range statuses {
		p := models.Product{Name: "p", Price: "10.00", Status: s}
		p.ID = uuid.New()
		p.VendorID = vendorID
		products = append(products, p)
	}
	return products
}

func statusCounts(products []models.Product) (published, drafts int) {
	for _, p := range products {
		if p.Status == models.ProductStatusPublished {
			published++
		} else {
			drafts++
		}
	}
	return
}

func mustDay(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	return ts
}

func TestReconcileVendorHidesDuringVacation(t *testing.T) {
	vendor := newVendor(availability.SpecialHours{
		Vacations: []availability.Vacation{{
			ID: "v1", StartDate: "2024-01-01", EndDate: "2024-01-10",
			ProductsHidden: true, AutoResume: true,
		}},
	})
	catalog := &fakeCatalog{products: map[uuid.UUID][]models.Product{
		vendor.ID: productsWithStatus(vendor.ID, "published", "published", "draft"),
	}}
	r := NewAvailabilityReconciler(&fakeVendorLister{}, catalog, 0)

	hidden, resumed, err := r.ReconcileVendor(&vendor, mustDay(t, "2024-01-05 12:00"))

	require.NoError(t, err)
	assert.Equal(t, 2, hidden)
	assert.Equal(t, 0, resumed)
	published, drafts := statusCounts(catalog.products[vendor.ID])
	assert.Equal(t, 0, published)
	assert.Equal(t, 3, drafts)
}

func TestReconcileVendorResumesAfterVacation(t *testing.T) {
	vendor := newVendor(availability.SpecialHours{
		Vacations: []availability.Vacation{{
			ID: "v1", StartDate: "2024-01-01", EndDate: "2024-01-10",
			ProductsHidden: true, AutoResume: true,
		}},
	})
	catalog := &fakeCatalog{products: map[uuid.UUID][]models.Product{
		vendor.ID: productsWithStatus(vendor.ID, "draft", "draft", "draft"),
	}}
	r := NewAvailabilityReconciler(&fakeVendorLister{}, catalog, 0)

	// Vacation ended, no override active: drafts are presumed auto-hidden
	// and come back.
	hidden, resumed, err := r.ReconcileVendor(&vendor, mustDay(t, "2024-01-11 12:00"))

	require.NoError(t, err)
	assert.Equal(t, 0, hidden)
	assert.Equal(t, 3, resumed)
	published, drafts := statusCounts(catalog.products[vendor.ID])
	assert.Equal(t, 3, published)
	assert.Equal(t, 0, drafts)
}

func TestReconcileVendorResumesDuringNonHidingAutoResumeOverride(t *testing.T) {
	vendor := newVendor(availability.SpecialHours{
		TemporaryClosures: []availability.TemporaryClosure{{
			ID: "t1", StartDate: "2024-01-01", EndDate: "2024-01-10",
			Reason: "Stocktake", ProductsHidden: false, AutoResume: true,
		}},
	})
	catalog := &fakeCatalog{products: map[uuid.UUID][]models.Product{
		vendor.ID: productsWithStatus(vendor.ID, "draft", "published"),
	}}
	r := NewAvailabilityReconciler(&fakeVendorLister{}, catalog, 0)

	hidden, resumed, err := r.ReconcileVendor(&vendor, mustDay(t, "2024-01-05 12:00"))

	require.NoError(t, err)
	assert.Equal(t, 0, hidden)
	assert.Equal(t, 1, resumed)
}

func TestReconcileVendorNoActionDuringPassiveOverride(t *testing.T) {
	// Active override that neither hides nor auto-resumes: drafts stay put.
	vendor := newVendor(availability.SpecialHours{
		TemporaryClosures: []availability.TemporaryClosure{{
			ID: "t1", StartDate: "2024-01-01", EndDate: "2024-01-10",
			Reason: "Renovation",
		}},
	})
	catalog := &fakeCatalog{products: map[uuid.UUID][]models.Product{
		vendor.ID: productsWithStatus(vendor.ID, "draft", "published"),
	}}
	r := NewAvailabilityReconciler(&fakeVendorLister{}, catalog, 0)

	hidden, resumed, err := r.ReconcileVendor(&vendor, mustDay(t, "2024-01-05 12:00"))

	require.NoError(t, err)
	assert.Equal(t, 0, hidden)
	assert.Equal(t, 0, resumed)
	assert.Equal(t, 0, catalog.calls)
}

func TestReconcileVendorIdempotent(t *testing.T) {
	vendor := newVendor(availability.SpecialHours{
		Vacations: []availability.Vacation{{
			ID: "v1", StartDate: "2024-01-01", EndDate: "2024-01-10",
			ProductsHidden: true, AutoResume: true,
		}},
	})
	catalog := &fakeCatalog{products: map[uuid.UUID][]models.Product{
		vendor.ID: productsWithStatus(vendor.ID, "published", "published"),
	}}
	r := NewAvailabilityReconciler(&fakeVendorLister{}, catalog, 0)

	now := mustDay(t, "2024-01-05 12:00")

	hidden, _, err := r.ReconcileVendor(&vendor, now)
	require.NoError(t, err)
	assert.Equal(t, 2, hidden)
	assert.Equal(t, 1, catalog.calls)

	// Second run with no state change: no further mutations, and in
	// particular no resume while the hiding override is still active.
	hidden, resumed, err := r.ReconcileVendor(&vendor, now)
	require.NoError(t, err)
	assert.Equal(t, 0, hidden)
	assert.Equal(t, 0, resumed)
	assert.Equal(t, 1, catalog.calls)
}

func TestReconcileAllIsolatesVendorFailures(t *testing.T) {
	broken := newVendor(availability.SpecialHours{})
	healthy := newVendor(availability.SpecialHours{})

	catalog := &fakeCatalog{
		products: map[uuid.UUID][]models.Product{
			healthy.ID: productsWithStatus(healthy.ID, "draft"),
		},
		listErr: map[uuid.UUID]error{
			broken.ID: errors.New("catalog unavailable"),
		},
	}
	r := NewAvailabilityReconciler(&fakeVendorLister{vendors: []models.Vendor{broken, healthy}}, catalog, 0)
	r.now = func() time.Time { return mustDay(t, "2024-01-01 12:00") }

	report, err := r.ReconcileAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.VendorsProcessed)
	assert.Equal(t, 1, report.VendorsFailed)
	assert.Equal(t, 1, report.ProductsResumed)
	published, _ := statusCounts(catalog.products[healthy.ID])
	assert.Equal(t, 1, published)
}

func TestReconcileAllPropagatesListFailure(t *testing.T) {
	r := NewAvailabilityReconciler(&fakeVendorLister{err: errors.New("db down")}, &fakeCatalog{}, 0)

	_, err := r.ReconcileAll(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list vendors")
}

func TestStartStop(t *testing.T) {
	vendor := newVendor(availability.SpecialHours{})
	catalog := &fakeCatalog{products: map[uuid.UUID][]models.Product{
		vendor.ID: productsWithStatus(vendor.ID, "published"),
	}}
	r := NewAvailabilityReconciler(&fakeVendorLister{vendors: []models.Vendor{vendor}}, catalog, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.Start(ctx)
	defer r.Stop()

	// First pass runs immediately on start.
	assert.Eventually(t, func() bool {
		status := r.GetStatus()
		_, ok := status["last_run"]
		return ok
	}, time.Second, 10*time.Millisecond)

	status := r.GetStatus()
	assert.Equal(t, true, status["is_running"])
	report, ok := status["last_report"].(ReconcileReport)
	require.True(t, ok)
	assert.Equal(t, 1, report.VendorsProcessed)
}
