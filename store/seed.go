package store

import (
	"time"

	"deckstudio/deck"
)

// seedDecks returns the example decks shown in an empty community list.
func seedDecks(now time.Time) []*deck.SharedDeck {
	shared := now.UTC().Format(time.RFC3339)
	return []*deck.SharedDeck{
		{
			Deck: deck.Deck{
				ID:     "example-renewable-energy",
				Topic:  "Renewable energy outlook",
				Style:  deck.StyleNature,
				Title:  "The Renewable Decade",
				Author: "Deck Studio",
				Slides: []deck.Slide{
					{ID: "re-1", Type: deck.KindTitle, Title: "The Renewable Decade", Subtitle: "How clean power went mainstream"},
					{ID: "re-2", Type: deck.KindContent, Title: "Why now", BulletPoints: []string{
						"Solar module prices fell by roughly 90% in ten years",
						"Grid-scale storage became bankable",
						"Policy support shifted from subsidies to auctions",
					}},
					{ID: "re-3", Type: deck.KindChart, Title: "Installed capacity (GW)", ChartData: &deck.ChartData{
						Kind:           deck.ChartBar,
						CategoryLabels: []string{"2015", "2018", "2021", "2024"},
						Series:         []deck.Series{{Label: "Solar", Values: []float64{230, 490, 850, 1600}}},
					}},
					{ID: "re-4", Type: deck.KindProcess, Title: "Path to net zero", ProcessSteps: []deck.ProcessStep{
						{Title: "Electrify", Description: "Move heat and transport to the grid"},
						{Title: "Decarbonize", Description: "Replace fossil generation"},
						{Title: "Balance", Description: "Storage and demand response"},
					}},
				},
			},
			Likes:      42,
			Downloads:  17,
			SharedBy:   "Deck Studio",
			DateShared: shared,
		},
		{
			Deck: deck.Deck{
				ID:     "example-quarterly-review",
				Topic:  "Quarterly business review",
				Style:  deck.StyleCorporate,
				Title:  "Q3 Business Review",
				Author: "Deck Studio",
				Slides: []deck.Slide{
					{ID: "qr-1", Type: deck.KindTitle, Title: "Q3 Business Review", Subtitle: "Results and priorities"},
					{ID: "qr-2", Type: deck.KindTable, Title: "Regional results", TableData: &deck.TableData{
						Headers: []string{"Region", "Revenue", "Growth"},
						Rows: [][]string{
							{"North America", "$4.2M", "+12%"},
							{"Europe", "$2.9M", "+8%"},
							{"Asia Pacific", "$1.7M", "+21%"},
						},
					}},
					{ID: "qr-3", Type: deck.KindChart, Title: "Revenue mix", ChartData: &deck.ChartData{
						Kind:           deck.ChartPie,
						CategoryLabels: []string{"Subscriptions", "Services", "Hardware"},
						Series:         []deck.Series{{Label: "Share", Values: []float64{62, 25, 13}}},
					}},
				},
			},
			Likes:      18,
			Downloads:  9,
			SharedBy:   "Deck Studio",
			DateShared: shared,
		},
		{
			Deck: deck.Deck{
				ID:     "example-neon-city",
				Topic:  "Cities of the future",
				Style:  deck.StyleCyberpunk,
				Title:  "Neon Cities",
				Author: "Deck Studio",
				Slides: []deck.Slide{
					{ID: "nc-1", Type: deck.KindTitle, Title: "Neon Cities", Subtitle: "Urban life in 2050"},
					{ID: "nc-2", Type: deck.KindContent, Title: "Trends", BulletPoints: []string{
						"Autonomous transit replaces parking",
						"Vertical farms on every block",
						"Sensors everywhere, privacy by default",
					}},
					{ID: "nc-3", Type: deck.KindChart, Title: "Urban population share", ChartData: &deck.ChartData{
						Kind:           deck.ChartLine,
						CategoryLabels: []string{"1950", "2000", "2025", "2050"},
						Series:         []deck.Series{{Label: "Percent urban", Values: []float64{30, 47, 58, 68}}},
					}},
				},
			},
			Likes:      64,
			Downloads:  31,
			SharedBy:   "Deck Studio",
			DateShared: shared,
		},
	}
}
