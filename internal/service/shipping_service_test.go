package service

import (
	"errors"
	"testing"

	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupShippingServiceTest(t *testing.T) (*ShippingService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "shipping_service_test")
	return NewShippingService(repository.NewShippingRepository(db)), db
}

func seedZone(t *testing.T, db *gorm.DB, country, state, city string) *models.ShippingZone {
	t.Helper()
	zone := models.ShippingZone{Country: country}
	if state != "" {
		zone.State = &state
	}
	if city != "" {
		zone.City = &city
	}
	if err := db.Create(&zone).Error; err != nil {
		t.Fatalf("create zone failed: %v", err)
	}
	return &zone
}

func seedRate(t *testing.T, db *gorm.DB, methodID, zoneID uint, cost string, daysMin, daysMax int) {
	t.Helper()
	rate := models.ShippingRate{
		ShippingMethodID: methodID,
		ZoneID:           zoneID,
		Cost:             models.NewMoneyFromDecimal(decimal.RequireFromString(cost)),
		DaysMin:          daysMin,
		DaysMax:          daysMax,
	}
	if err := db.Create(&rate).Error; err != nil {
		t.Fatalf("create rate failed: %v", err)
	}
}

func seedMethod(t *testing.T, db *gorm.DB, name string, active bool) *models.ShippingMethod {
	t.Helper()
	method := models.ShippingMethod{Name: name, IsActive: active}
	if err := db.Create(&method).Error; err != nil {
		t.Fatalf("create method failed: %v", err)
	}
	return &method
}

func TestFindZonePrefersMostSpecific(t *testing.T) {
	svc, db := setupShippingServiceTest(t)
	countryZone := seedZone(t, db, "Malaysia", "", "")
	stateZone := seedZone(t, db, "Malaysia", "Selangor", "")
	cityZone := seedZone(t, db, "Malaysia", "Selangor", "Shah Alam")

	zone, err := svc.FindZone("Malaysia", "Selangor", "Shah Alam")
	if err != nil {
		t.Fatalf("find zone failed: %v", err)
	}
	if zone == nil || zone.ID != cityZone.ID {
		t.Fatalf("expected city zone %d, got %+v", cityZone.ID, zone)
	}

	zone, err = svc.FindZone("Malaysia", "Selangor", "Klang")
	if err != nil {
		t.Fatalf("find zone failed: %v", err)
	}
	if zone == nil || zone.ID != stateZone.ID {
		t.Fatalf("expected state zone %d, got %+v", stateZone.ID, zone)
	}

	zone, err = svc.FindZone("Malaysia", "Johor", "")
	if err != nil {
		t.Fatalf("find zone failed: %v", err)
	}
	if zone == nil || zone.ID != countryZone.ID {
		t.Fatalf("expected country zone %d, got %+v", countryZone.ID, zone)
	}
}

func TestFindZoneCaseInsensitive(t *testing.T) {
	svc, db := setupShippingServiceTest(t)
	stateZone := seedZone(t, db, "Malaysia", "Selangor", "")

	zone, err := svc.FindZone("Malaysia", "selangor", "")
	if err != nil {
		t.Fatalf("find zone failed: %v", err)
	}
	if zone == nil || zone.ID != stateZone.ID {
		t.Fatalf("expected case-insensitive state match, got %+v", zone)
	}
}

func TestFindZoneTieBreakLowestID(t *testing.T) {
	svc, db := setupShippingServiceTest(t)
	first := seedZone(t, db, "Singapore", "", "")
	seedZone(t, db, "Singapore", "", "")

	zone, err := svc.FindZone("Singapore", "", "")
	if err != nil {
		t.Fatalf("find zone failed: %v", err)
	}
	if zone == nil || zone.ID != first.ID {
		t.Fatalf("expected lowest id zone %d, got %+v", first.ID, zone)
	}
}

func TestFindZoneNoMatch(t *testing.T) {
	svc, db := setupShippingServiceTest(t)
	seedZone(t, db, "Malaysia", "", "")

	zone, err := svc.FindZone("Thailand", "", "")
	if err != nil {
		t.Fatalf("find zone failed: %v", err)
	}
	if zone != nil {
		t.Fatalf("expected no match, got %+v", zone)
	}
}

func TestResolveReturnsQuote(t *testing.T) {
	svc, db := setupShippingServiceTest(t)
	method := seedMethod(t, db, "Standard", true)
	zone := seedZone(t, db, "Malaysia", "", "")
	seedRate(t, db, method.ID, zone.ID, "5.50", 2, 4)

	quote, err := svc.Resolve("Malaysia", "", "", method.ID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if quote.ZoneID != zone.ID {
		t.Fatalf("expected zone %d, got %d", zone.ID, quote.ZoneID)
	}
	if quote.Cost.String() != "5.50" {
		t.Fatalf("expected cost 5.50, got %s", quote.Cost.String())
	}
	if quote.DaysMin != 2 || quote.DaysMax != 4 {
		t.Fatalf("unexpected delivery window: %+v", quote)
	}
}

func TestResolveNoZone(t *testing.T) {
	svc, _ := setupShippingServiceTest(t)
	if _, err := svc.Resolve("Nowhere", "", "", 1); !errors.Is(err, ErrNoShippingZoneMatch) {
		t.Fatalf("expected ErrNoShippingZoneMatch, got %v", err)
	}
}

func TestResolvePropagatesStorageError(t *testing.T) {
	svc, db := setupShippingServiceTest(t)
	if err := db.Migrator().DropTable(&models.ShippingZone{}); err != nil {
		t.Fatalf("drop zones table failed: %v", err)
	}

	_, err := svc.Resolve("Malaysia", "", "", 1)
	if err == nil {
		t.Fatalf("expected storage error")
	}
	if errors.Is(err, ErrNoShippingZoneMatch) || errors.Is(err, ErrNoShippingRate) {
		t.Fatalf("storage failure must not read as a business miss, got %v", err)
	}
}

func TestResolveNoRate(t *testing.T) {
	svc, db := setupShippingServiceTest(t)
	method := seedMethod(t, db, "Standard", true)
	seedZone(t, db, "Malaysia", "", "")

	if _, err := svc.Resolve("Malaysia", "", "", method.ID); !errors.Is(err, ErrNoShippingRate) {
		t.Fatalf("expected ErrNoShippingRate, got %v", err)
	}
}

func TestListMethodsOnlyActive(t *testing.T) {
	svc, db := setupShippingServiceTest(t)
	seedMethod(t, db, "Standard", true)
	seedMethod(t, db, "Legacy", false)

	methods, err := svc.ListMethods()
	if err != nil {
		t.Fatalf("list methods failed: %v", err)
	}
	if len(methods) != 1 || methods[0].Name != "Standard" {
		t.Fatalf("expected only active methods, got %+v", methods)
	}
}

func TestDeleteMethodMissing(t *testing.T) {
	svc, _ := setupShippingServiceTest(t)
	if err := svc.DeleteMethod(42); !errors.Is(err, ErrShippingMethodNotFound) {
		t.Fatalf("expected ErrShippingMethodNotFound, got %v", err)
	}
}

func TestCreateRateValidatesReferences(t *testing.T) {
	svc, db := setupShippingServiceTest(t)
	method := seedMethod(t, db, "Standard", true)

	_, err := svc.CreateRate(CreateRateInput{ShippingMethodID: 99, ZoneID: 1})
	if !errors.Is(err, ErrShippingMethodNotFound) {
		t.Fatalf("expected ErrShippingMethodNotFound, got %v", err)
	}
	_, err = svc.CreateRate(CreateRateInput{ShippingMethodID: method.ID, ZoneID: 99})
	if !errors.Is(err, ErrShippingZoneNotFound) {
		t.Fatalf("expected ErrShippingZoneNotFound, got %v", err)
	}
}
