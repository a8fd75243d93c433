package view

import (
	"math"

	"github.com/diagnosis/tourvisto-admin/internal/domain"
	"github.com/diagnosis/tourvisto-admin/internal/utils"
)

type TrendDirection string

const (
	TrendIncrement TrendDirection = "increment"
	TrendDecrement TrendDirection = "decrement"
	TrendNoChange  TrendDirection = "no change"
)

type Trend struct {
	Direction  TrendDirection
	Percentage float64
}

// CalculateTrend compares this month against last month. Growth from zero
// is reported as a 100% increment.
func CalculateTrend(lastMonth, currentMonth int) Trend {
	if lastMonth == 0 {
		if currentMonth == 0 {
			return Trend{Direction: TrendNoChange}
		}
		return Trend{Direction: TrendIncrement, Percentage: 100}
	}
	change := currentMonth - lastMonth
	pct := math.Abs(float64(change) / float64(lastMonth) * 100)
	switch {
	case change > 0:
		return Trend{Direction: TrendIncrement, Percentage: pct}
	case change < 0:
		return Trend{Direction: TrendDecrement, Percentage: pct}
	default:
		return Trend{Direction: TrendNoChange}
	}
}

type StatCard struct {
	Title        string
	Total        int
	CurrentMonth int
	LastMonth    int
	Trend        Trend
}

func statCard(title string, c domain.MonthlyCount) StatCard {
	return StatCard{
		Title:        title,
		Total:        c.Total,
		CurrentMonth: c.CurrentMonth,
		LastMonth:    c.LastMonth,
		Trend:        CalculateTrend(c.LastMonth, c.CurrentMonth),
	}
}

type UserRow struct {
	ID             string
	Name           string
	Email          string
	ImageURL       string
	ItineraryCount int
	JoinedAt       string
}

func ToUserRows(users []domain.User) []UserRow {
	rows := make([]UserRow, 0, len(users))
	for _, u := range users {
		joined := ""
		if !u.JoinedAt.IsZero() {
			joined = u.JoinedAt.Format("Jan 2, 2006")
		}
		rows = append(rows, UserRow{
			ID:             u.ID,
			Name:           u.Name,
			Email:          utils.NormalizeEmail(u.Email),
			ImageURL:       u.ImageURL,
			ItineraryCount: u.ItineraryCount,
			JoinedAt:       joined,
		})
	}
	return rows
}

type GrowthBar struct {
	Label string
	Count int
}

func ToGrowthBars(points []domain.GrowthPoint) []GrowthBar {
	bars := make([]GrowthBar, 0, len(points))
	for _, p := range points {
		bars = append(bars, GrowthBar{Label: p.Day.Format("Jan 2"), Count: p.Count})
	}
	return bars
}

type Dashboard struct {
	Greeting   string
	Stats      []StatCard
	Trips      []TripCard
	Users      []UserRow
	UserGrowth []GrowthBar
	TripGrowth []GrowthBar
}

// Greeting falls back to "Guest" when nobody is signed in.
func Greeting(user *domain.User) string {
	name := "Guest"
	if user != nil && user.Name != "" {
		name = user.Name
	}
	return "Welcome " + name + " 👋"
}

func ToDashboard(user *domain.User, stats domain.DashboardStats, trips []domain.Trip, users []domain.User,
	userGrowth, tripGrowth []domain.GrowthPoint) Dashboard {
	return Dashboard{
		Greeting: Greeting(user),
		Stats: []StatCard{
			statCard("Total Users", stats.TotalUsers),
			statCard("Total Trips", stats.TotalTrips),
			statCard("Active Users", stats.UserRole),
		},
		Trips:      ToTripCards(trips),
		Users:      ToUserRows(users),
		UserGrowth: ToGrowthBars(userGrowth),
		TripGrowth: ToGrowthBars(tripGrowth),
	}
}
