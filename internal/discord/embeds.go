package discord

import (
	"fmt"
	"strings"
	"time"

	"carstok-backend/internal/format"
	"carstok-backend/internal/model"

	"github.com/bwmarrin/discordgo"
)

const (
	colorListing = 0xE11D48
	colorStats   = 0x2ECC71
	colorSearch  = 0x3498DB
	footerText   = "CARSTOK"
	maxResults   = 5
)

func listingTitle(car *model.Car) string {
	return fmt.Sprintf("%s %s %d", car.Brand, car.Model, car.Year)
}

func listingFields(car *model.Car) []*discordgo.MessageEmbedField {
	price := format.FormatPrice(car.Price)
	if car.HasDiscount() {
		price = fmt.Sprintf("%s ~~%s~~", price, format.FormatPrice(*car.OriginalPrice))
	}
	return []*discordgo.MessageEmbedField{
		{Name: "Prix", Value: price, Inline: true},
		{Name: "Kilométrage", Value: format.FormatMileage(car.Mileage), Inline: true},
		{Name: "Ville", Value: car.Location, Inline: true},
		{Name: "Carburant", Value: string(car.FuelType), Inline: true},
		{Name: "Boîte", Value: string(car.Transmission), Inline: true},
		{Name: "Vendeur", Value: string(car.SellerType), Inline: true},
	}
}

// ListingEmbed announces a newly published listing.
func ListingEmbed(car *model.Car) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Nouvelle annonce : " + listingTitle(car),
		Description: car.Description,
		Color:       colorListing,
		Fields:      listingFields(car),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
	}
	if m := car.PrimaryMedia(); m != nil && m.MediaType == model.MediaImage && strings.HasPrefix(m.URL, "http") {
		embed.Image = &discordgo.MessageEmbedImage{URL: m.URL}
	}
	return embed
}

// StatsEmbed renders the catalogue counters shown by !stats.
func StatsEmbed(s *model.CatalogStats) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "CARSTOK — Statistiques",
		Color: colorStats,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Véhicules", Value: fmt.Sprintf("%d", s.TotalCars), Inline: true},
			{Name: "Actifs", Value: fmt.Sprintf("%d", s.ActiveCars), Inline: true},
			{Name: "Vues", Value: format.FormatViews(s.TotalViews), Inline: true},
			{Name: "Interactions", Value: format.FormatViews(s.TotalInteractions), Inline: true},
			{Name: "En ligne", Value: fmt.Sprintf("%d", s.OnlineViewers), Inline: true},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: footerText},
	}
}

// SearchEmbed lists up to maxResults listings matching a !search query.
func SearchEmbed(query string, cars []model.Car) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("Recherche : %s", query),
		Color:  colorSearch,
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}
	if len(cars) == 0 {
		embed.Description = "Aucun véhicule trouvé."
		return embed
	}
	embed.Description = fmt.Sprintf("%d véhicule(s) trouvé(s)", len(cars))
	for i := range cars {
		if i == maxResults {
			break
		}
		c := &cars[i]
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  listingTitle(c),
			Value: fmt.Sprintf("%s · %s · %s", format.FormatPrice(c.Price), format.FormatMileage(c.Mileage), c.Location),
		})
	}
	return embed
}
