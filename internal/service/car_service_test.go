package service

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"carstok-backend/internal/model"
)

func newCarService(t *testing.T) (*CarService, *recorder) {
	t.Helper()
	store := openStore(t)
	events := &recorder{}
	media := NewMediaService(store, store, newMemObjects())
	return NewCarService(store, media, events, func() int { return 77 }), events
}

func TestCreateAppliesDefaults(t *testing.T) {
	t.Parallel()
	svc, events := newCarService(t)
	notified := &announced{}
	svc.SetNotifier(notified)

	in := validInput()
	in.FeaturesText = " GPS, ,Caméra de recul "
	in.SellerPhone = "+24177000000"
	car, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if car.ID == "" || !car.IsActive {
		t.Fatalf("car = %+v, want active car with id", car)
	}
	if car.FuelType != model.FuelEssence || car.Transmission != model.TransmissionAutomatique {
		t.Errorf("fuel/transmission = %s/%s", car.FuelType, car.Transmission)
	}
	if car.SellerType != model.SellerDirect || car.Location != model.Locations[0] {
		t.Errorf("seller/location = %s/%s", car.SellerType, car.Location)
	}
	if car.SellerPhone == nil || *car.SellerPhone != "+24177000000" {
		t.Errorf("seller phone = %v", car.SellerPhone)
	}
	if car.OwnerID != DefaultOwnerID || car.TrendScore != 77 {
		t.Errorf("owner/score = %s/%d", car.OwnerID, car.TrendScore)
	}
	if car.OriginalPrice != nil {
		t.Errorf("original price = %v, want nil", *car.OriginalPrice)
	}
	if want := []string{"GPS", "Caméra de recul"}; !slices.Equal(car.Features, want) {
		t.Errorf("features = %q, want %q", car.Features, want)
	}
	if got := events.types(); !slices.Equal(got, []string{model.EventCarCreated}) {
		t.Errorf("events = %v", got)
	}
	if !slices.Equal(notified.cars, []string{car.ID}) {
		t.Errorf("announced = %v", notified.cars)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	svc, _ := newCarService(t)
	score := func(v int) *int { return &v }

	tests := []struct {
		name   string
		mutate func(*model.CarInput)
		want   error
	}{
		{"missing brand", func(in *model.CarInput) { in.Brand = "  " }, ErrBrandModelRequired},
		{"missing model", func(in *model.CarInput) { in.Model = "" }, ErrBrandModelRequired},
		{"zero price", func(in *model.CarInput) { in.Price = 0 }, ErrInvalidPrice},
		{"year too old", func(in *model.CarInput) { in.Year = model.MinYear - 1 }, ErrInvalidYear},
		{"year too new", func(in *model.CarInput) { in.Year = time.Now().Year() + 2 }, ErrInvalidYear},
		{"negative mileage", func(in *model.CarInput) { in.Mileage = -1 }, ErrInvalidMileage},
		{"negative original", func(in *model.CarInput) { in.OriginalPrice = -5 }, ErrInvalidOriginalPrice},
		{"trend above range", func(in *model.CarInput) { in.TrendScore = score(101) }, ErrInvalidTrendScore},
		{"trend below range", func(in *model.CarInput) { in.TrendScore = score(-1) }, ErrInvalidTrendScore},
		{"unknown fuel", func(in *model.CarInput) { in.FuelType = "kerosene" }, ErrInvalidFuelType},
		{"unknown transmission", func(in *model.CarInput) { in.Transmission = "cvt" }, ErrInvalidTransmission},
		{"unknown seller", func(in *model.CarInput) { in.SellerType = "broker" }, ErrInvalidSellerType},
		{"unknown location", func(in *model.CarInput) { in.Location = "Paris" }, ErrInvalidLocation},
		{"unknown owner", func(in *model.CarInput) { in.OwnerID = "nobody" }, ErrUnknownOwner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)
			if _, err := svc.Create(context.Background(), in); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateNormalisesEnumLabels(t *testing.T) {
	t.Parallel()
	svc, _ := newCarService(t)

	tests := []struct {
		fuel, transmission string
		wantFuel           model.FuelType
		wantTransmission   model.Transmission
	}{
		{"Diesel", "Manuelle", model.FuelDiesel, model.TransmissionManuelle},
		{"Électrique", "Automatique", model.FuelElectrique, model.TransmissionAutomatique},
		{"Hybride", "MANUELLE", model.FuelHybride, model.TransmissionManuelle},
		{" ESSENCE ", " automatique", model.FuelEssence, model.TransmissionAutomatique},
		{"électrique", "", model.FuelElectrique, model.TransmissionAutomatique},
	}
	for _, tt := range tests {
		t.Run(tt.fuel+"/"+tt.transmission, func(t *testing.T) {
			in := validInput()
			in.FuelType = tt.fuel
			in.Transmission = tt.transmission
			car, err := svc.Create(context.Background(), in)
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if car.FuelType != tt.wantFuel || car.Transmission != tt.wantTransmission {
				t.Fatalf("fuel/transmission = %s/%s, want %s/%s", car.FuelType, car.Transmission, tt.wantFuel, tt.wantTransmission)
			}
		})
	}
}

func TestNoFaceListingsDropSellerPhone(t *testing.T) {
	t.Parallel()
	svc, _ := newCarService(t)

	in := validInput()
	in.SellerType = "no_face"
	in.SellerPhone = "+24177000000"
	in.OriginalPrice = 25000000
	car, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if car.SellerType != model.SellerNoFace || car.SellerPhone != nil {
		t.Fatalf("seller = %s phone = %v", car.SellerType, car.SellerPhone)
	}
	if car.OriginalPrice == nil || *car.OriginalPrice != 25000000 || !car.HasDiscount() {
		t.Fatalf("original price = %v", car.OriginalPrice)
	}
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	t.Parallel()
	svc, events := newCarService(t)
	ctx := context.Background()

	in := validInput()
	score, inactive := 40, false
	in.TrendScore = &score
	in.IsActive = &inactive
	in.OwnerID = "owner-nguema"
	car, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	upd := validInput()
	upd.Price = 19500000
	updated, err := svc.Update(ctx, car.ID, upd)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 19500000 {
		t.Errorf("price = %d", updated.Price)
	}
	if updated.TrendScore != 40 || updated.IsActive || updated.OwnerID != "owner-nguema" {
		t.Errorf("updated = score %d active %v owner %s", updated.TrendScore, updated.IsActive, updated.OwnerID)
	}
	if got := events.types(); !slices.Equal(got, []string{model.EventCarCreated, model.EventCarUpdated}) {
		t.Errorf("events = %v", got)
	}

	if _, err := svc.Update(ctx, "missing", upd); !errors.Is(err, ErrCarNotFound) {
		t.Fatalf("update missing: err = %v", err)
	}
	upd.OwnerID = "nobody"
	if _, err := svc.Update(ctx, car.ID, upd); !errors.Is(err, ErrUnknownOwner) {
		t.Fatalf("update unknown owner: err = %v", err)
	}
}

func TestInactiveListingsAreNotAnnounced(t *testing.T) {
	t.Parallel()
	svc, _ := newCarService(t)
	notified := &announced{}
	svc.SetNotifier(notified)

	in := validInput()
	inactive := false
	in.IsActive = &inactive
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(notified.cars) != 0 {
		t.Fatalf("announced = %v", notified.cars)
	}
}

func TestToggleListAndDelete(t *testing.T) {
	t.Parallel()
	svc, events := newCarService(t)
	ctx := context.Background()

	car, err := svc.ToggleActive(ctx, "2")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if car.IsActive {
		t.Fatal("car 2 still active after toggle")
	}

	inactive, err := svc.List(ctx, model.AdminFilters{Status: "inactive"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(inactive) != 1 || inactive[0].ID != "2" {
		t.Fatalf("inactive = %v", inactive)
	}

	if err := svc.Delete(ctx, "2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, "2"); !errors.Is(err, ErrCarNotFound) {
		t.Fatalf("get deleted: err = %v", err)
	}
	if err := svc.Delete(ctx, "2"); !errors.Is(err, ErrCarNotFound) {
		t.Fatalf("delete twice: err = %v", err)
	}
	if _, err := svc.ToggleActive(ctx, "2"); !errors.Is(err, ErrCarNotFound) {
		t.Fatalf("toggle deleted: err = %v", err)
	}

	want := []string{model.EventCarUpdated, model.EventCarDeleted}
	if got := events.types(); !slices.Equal(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
}

func TestRecordView(t *testing.T) {
	t.Parallel()
	svc, events := newCarService(t)
	ctx := context.Background()

	views, err := svc.RecordView(ctx, "3")
	if err != nil {
		t.Fatalf("record view: %v", err)
	}
	if views != 15201 {
		t.Fatalf("views = %d, want 15201", views)
	}
	if got := events.types(); !slices.Equal(got, []string{model.EventCarViewed}) {
		t.Fatalf("events = %v", got)
	}
	if _, err := svc.RecordView(ctx, "missing"); !errors.Is(err, ErrCarNotFound) {
		t.Fatalf("missing: err = %v", err)
	}
}

func TestParseFeatures(t *testing.T) {
	t.Parallel()
	if got := ParseFeatures(nil, ""); len(got) != 0 {
		t.Errorf("ParseFeatures(nil, \"\") = %q", got)
	}
	if got := ParseFeatures([]string{" Cuir ", ""}, "ignored"); !slices.Equal(got, []string{"Cuir"}) {
		t.Errorf("list wins over text: %q", got)
	}
	if got := ParseFeatures(nil, "GPS,Bluetooth"); !slices.Equal(got, []string{"GPS", "Bluetooth"}) {
		t.Errorf("text = %q", got)
	}
}
