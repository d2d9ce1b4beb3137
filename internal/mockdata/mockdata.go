// Package mockdata holds the static catalogue served in local mode.
package mockdata

import (
	"time"

	"carstok-backend/internal/model"
)

// DealerID is the platform dealer account that owns most of the mock catalogue.
const DealerID = "carstok"

// PrivateSellerID owns the private listings of the mock catalogue.
const PrivateSellerID = "owner-nguema"

var privateListings = map[string]bool{"6": true, "8": true}

type entry struct {
	ID           string
	Brand        string
	Model        string
	Year         int
	Price        int64
	Original     int64
	Mileage      int64
	Fuel         model.FuelType
	Transmission model.Transmission
	Slug         string
	Views        int64
	Score        int
	Location     string
	Seller       model.SellerType
	Features     []string
	Created      time.Time
	Phone        string
	Color        string
}

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func entries() []entry {
	return []entry{
		{
			ID:           "1",
			Brand:        "Mercedes-Benz",
			Model:        "Classe E 300",
			Year:         2022,
			Price:        45000000,
			Original:     52000000,
			Mileage:      28000,
			Fuel:         model.FuelEssence,
			Transmission: model.TransmissionAutomatique,
			Slug:         "mercedes-e300",
			Views:        12500,
			Score:        94,
			Location:     "Libreville",
			Seller:       model.SellerDirect,
			Features:     []string{"Cuir", "Toit ouvrant", "Camera 360°", "Navigation"},
			Created:      day(2024, 1, 10),
			Phone:        "+24177123456",
			Color:        "Noir",
		},
		{
			ID:           "2",
			Brand:        "Toyota",
			Model:        "Land Cruiser V8",
			Year:         2021,
			Price:        65000000,
			Mileage:      42000,
			Fuel:         model.FuelDiesel,
			Transmission: model.TransmissionAutomatique,
			Slug:         "toyota-landcruiser",
			Views:        8900,
			Score:        88,
			Location:     "Port-Gentil",
			Seller:       model.SellerNoFace,
			Features:     []string{"4x4", "Diesel", "7 places", "Climatisation Bi-Zone"},
			Created:      day(2024, 1, 8),
			Phone:        "+24177789012",
			Color:        "Blanc",
		},
		{
			ID:           "3",
			Brand:        "BMW",
			Model:        "X5 M50i",
			Year:         2023,
			Price:        78000000,
			Original:     85000000,
			Mileage:      15000,
			Fuel:         model.FuelEssence,
			Transmission: model.TransmissionAutomatique,
			Slug:         "bmw-x5",
			Views:        15200,
			Score:        97,
			Location:     "Libreville",
			Seller:       model.SellerDirect,
			Features:     []string{"M Sport Package", "Harman Kardon", "Head-Up Display", "Laser Lights"},
			Created:      day(2024, 1, 12),
			Phone:        "+24177345678",
			Color:        "Gris",
		},
		{
			ID:           "4",
			Brand:        "Range Rover",
			Model:        "Sport HSE",
			Year:         2022,
			Price:        72000000,
			Mileage:      32000,
			Fuel:         model.FuelDiesel,
			Transmission: model.TransmissionAutomatique,
			Slug:         "range-rover-sport",
			Views:        9800,
			Score:        85,
			Location:     "Libreville",
			Seller:       model.SellerNoFace,
			Features:     []string{"Terrain Response", "Meridian Sound", "Air Suspension", "Panoramic Roof"},
			Created:      day(2024, 1, 5),
			Phone:        "+24177567890",
			Color:        "Noir",
		},
		{
			ID:           "5",
			Brand:        "Audi",
			Model:        "Q7 55 TFSI",
			Year:         2023,
			Price:        58000000,
			Mileage:      18000,
			Fuel:         model.FuelEssence,
			Transmission: model.TransmissionAutomatique,
			Slug:         "audi-q7",
			Views:        7600,
			Score:        82,
			Location:     "Port-Gentil",
			Seller:       model.SellerDirect,
			Features:     []string{"S-Line", "Virtual Cockpit", "Matrix LED", "Quattro"},
			Created:      day(2024, 1, 11),
			Phone:        "+24177901234",
			Color:        "Bleu",
		},
		{
			ID:           "6",
			Brand:        "Honda",
			Model:        "CR-V",
			Year:         2020,
			Price:        28000000,
			Mileage:      65000,
			Fuel:         model.FuelEssence,
			Transmission: model.TransmissionAutomatique,
			Slug:         "honda-crv",
			Views:        11200,
			Score:        78,
			Location:     "Libreville",
			Seller:       model.SellerDirect,
			Features:     []string{"GPS", "Caméra de recul", "Climatisation", "Sièges chauffants"},
			Created:      day(2024, 1, 15),
			Phone:        "+24177234567",
			Color:        "Rouge",
		},
		{
			ID:           "7",
			Brand:        "Peugeot",
			Model:        "3008",
			Year:         2021,
			Price:        32000000,
			Original:     38000000,
			Mileage:      35000,
			Fuel:         model.FuelEssence,
			Transmission: model.TransmissionAutomatique,
			Slug:         "peugeot-3008",
			Views:        8700,
			Score:        80,
			Location:     "Port-Gentil",
			Seller:       model.SellerNoFace,
			Features:     []string{"Toit ouvrant", "Pack cuir", "Navigation", "Radar de stationnement"},
			Created:      day(2024, 1, 18),
			Phone:        "+24177456789",
			Color:        "Gris",
		},
		{
			ID:           "8",
			Brand:        "Renault",
			Model:        "Captur",
			Year:         2022,
			Price:        25000000,
			Mileage:      25000,
			Fuel:         model.FuelEssence,
			Transmission: model.TransmissionManuelle,
			Slug:         "renault-captur",
			Views:        9300,
			Score:        75,
			Location:     "Franceville",
			Seller:       model.SellerDirect,
			Features:     []string{"Bluetooth", "Climatisation", "Régulateur de vitesse", "Feux LED"},
			Created:      day(2024, 1, 20),
			Phone:        "+24177678901",
			Color:        "Blanc",
		},
		{
			ID:           "9",
			Brand:        "Volkswagen",
			Model:        "Golf 7 GTI",
			Year:         2023,
			Price:        38000000,
			Original:     42000000,
			Mileage:      12000,
			Fuel:         model.FuelEssence,
			Transmission: model.TransmissionManuelle,
			Slug:         "vw-golf-gti",
			Views:        7800,
			Score:        91,
			Location:     "Libreville",
			Seller:       model.SellerDirect,
			Features:     []string{"Toit ouvrant", "Sièges sport", "Système audio premium", "Régulateur adaptatif"},
			Created:      day(2024, 1, 22),
			Phone:        "+24177890123",
			Color:        "Rouge",
		},
	}
}

// Owners returns the owner accounts referenced by Cars.
func Owners() []model.Owner {
	rating := 4.9
	return []model.Owner{
		{
			ID:        DealerID,
			Name:      "CartoK",
			Phone:     "+24100000000",
			Email:     "contact@carstok.ai",
			AvatarURL: "/images/logo.png",
			IsDealer:  true,
			Location:  "Gabon",
			Rating:    &rating,
			JoinedAt:  day(2023, 1, 1),
		},
		{
			ID:        PrivateSellerID,
			Name:      "Jean-Marc Nguema",
			Phone:     "+24177234567",
			AvatarURL: "/images/avatar-default.png",
			IsDealer:  false,
			Location:  "Libreville",
			JoinedAt:  day(2023, 11, 4),
		},
	}
}

// Cars returns a fresh copy of the mock catalogue. Direct sellers carry their
// WhatsApp number; NO_FACE listings are reached through the platform.
func Cars() []model.Car {
	src := entries()
	cars := make([]model.Car, 0, len(src))
	for _, e := range src {
		c := model.Car{
			ID:           e.ID,
			Brand:        e.Brand,
			Model:        e.Model,
			Year:         e.Year,
			Price:        e.Price,
			Mileage:      e.Mileage,
			FuelType:     e.Fuel,
			Transmission: e.Transmission,
			Color:        e.Color,
			Location:     e.Location,
			SellerType:   e.Seller,
			Features:     e.Features,
			OwnerID:      DealerID,
			Views:        e.Views,
			TrendScore:   e.Score,
			IsActive:     true,
			CreatedAt:    e.Created,
			UpdatedAt:    e.Created,
			Media: []model.CarMedia{{
				ID:        "media-" + e.ID,
				CarID:     e.ID,
				URL:       "/cars/" + e.Slug + "-thumb.jpg",
				MediaType: model.MediaImage,
				IsPrimary: true,
				CreatedAt: e.Created,
			}},
		}
		if privateListings[e.ID] {
			c.OwnerID = PrivateSellerID
		}
		if e.Original > 0 {
			original := e.Original
			c.OriginalPrice = &original
		}
		if e.Seller == model.SellerDirect {
			phone := e.Phone
			c.SellerPhone = &phone
		}
		cars = append(cars, c)
	}
	return cars
}
