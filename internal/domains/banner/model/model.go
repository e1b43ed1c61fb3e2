package model

import (
	"math"
	"time"

	"skybook/shared/model"
)

const (
	TableName  = "banners"
	EntityName = "banner"

	FieldID          = "id"
	FieldTitle       = "title"
	FieldImageURL    = "image_url"
	FieldIsActive    = "is_active"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
	FieldPosition    = "position"
	FieldPriority    = "priority"
	FieldViewsCount  = "views_count"
	FieldClicksCount = "clicks_count"
)

const (
	PositionMain    = "main"
	PositionSidebar = "sidebar"
	PositionHeader  = "header"
	PositionFooter  = "footer"
)

// Positions other than the sidebar show a single banner.
const (
	SidebarLimit = 3
	DefaultLimit = 1
)

type Banner struct {
	ID          string     `db:"id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	ImageURL    string     `db:"image_url"`
	LinkURL     *string    `db:"link_url"`
	IsActive    bool       `db:"is_active"`
	StartDate   *time.Time `db:"start_date"`
	EndDate     *time.Time `db:"end_date"`
	Position    string     `db:"position"`
	Priority    int        `db:"priority"`
	ViewsCount  int        `db:"views_count"`
	ClicksCount int        `db:"clicks_count"`
	model.Metadata
}

// IsCurrentlyActive honours the switch and the optional display window.
func (b Banner) IsCurrentlyActive(now time.Time) bool {
	if !b.IsActive {
		return false
	}

	if b.StartDate != nil && now.Before(*b.StartDate) {
		return false
	}

	if b.EndDate != nil && now.After(*b.EndDate) {
		return false
	}

	return true
}

// ClickRate is clicks per hundred views, rounded to two decimals.
func (b Banner) ClickRate() float64 {
	if b.ViewsCount == 0 {
		return 0
	}

	return math.Round(float64(b.ClicksCount)/float64(b.ViewsCount)*100*100) / 100
}

func LimitFor(position string) int {
	if position == PositionSidebar {
		return SidebarLimit
	}

	return DefaultLimit
}
