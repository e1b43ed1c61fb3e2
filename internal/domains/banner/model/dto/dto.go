package dto

import (
	"fmt"
	"mime/multipart"
	"time"

	"skybook/internal/domains/banner/model"
	"skybook/shared"
	gDto "skybook/shared/dto"
	gModel "skybook/shared/model"
	"skybook/shared/timezone"

	"github.com/google/uuid"
)

// FormDateLayout is what a datetime-local input submits.
const FormDateLayout = "2006-01-02T15:04"

// ParseFormDate accepts RFC 3339 or the datetime-local layout. Empty input is no date.
func ParseFormDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil //nolint:nilnil
	}

	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		parsed = timezone.ToAppTime(parsed)

		return &parsed, nil
	}

	parsed, err := timezone.Parse(FormDateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", value, err)
	}

	return &parsed, nil
}

type CreateBannerRequest struct {
	Title       string                `json:"title"       validate:"required,max=200"`
	Description *string               `json:"description" validate:"omitempty,max=1000"`
	ImageURL    string                `json:"image_url"   validate:"omitempty,url,max=500"`
	LinkURL     *string               `json:"link_url"    validate:"omitempty,url,max=500"`
	IsActive    *bool                 `json:"is_active"`
	StartDate   *time.Time            `json:"start_date"`
	EndDate     *time.Time            `json:"end_date"`
	Position    string                `json:"position"    validate:"omitempty,oneof=main sidebar header footer"`
	Priority    int                   `json:"priority"    validate:"gte=0,lte=1000"`
	Image       *multipart.FileHeader `json:"image"       swaggerignore:"true" validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=5"`
	ImageFile   multipart.File        `json:"-"`
}

// ValidWindow reports whether the display window, when both ends are set, starts before it ends.
func (r *CreateBannerRequest) ValidWindow() bool {
	return r.StartDate == nil || r.EndDate == nil || r.StartDate.Before(*r.EndDate)
}

func (r *CreateBannerRequest) ToModel(user string) model.Banner {
	now := timezone.Now()

	position := r.Position
	if position == "" {
		position = model.PositionMain
	}

	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}

	return model.Banner{
		ID:          uuid.NewString(),
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		LinkURL:     r.LinkURL,
		IsActive:    active,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Position:    position,
		Priority:    r.Priority,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateBannerRequest struct {
	Title       string                `db:"title"       json:"title"       validate:"omitempty,max=200"`
	Description *string               `db:"description" json:"description" validate:"omitempty,max=1000"`
	ImageURL    string                `db:"image_url"   json:"image_url"   validate:"omitempty,url,max=500"`
	LinkURL     *string               `db:"link_url"    json:"link_url"    validate:"omitempty,url,max=500"`
	IsActive    *bool                 `db:"is_active"   json:"is_active"`
	StartDate   *time.Time            `db:"start_date"  json:"start_date"`
	EndDate     *time.Time            `db:"end_date"    json:"end_date"`
	Position    string                `db:"position"    json:"position"    validate:"omitempty,oneof=main sidebar header footer"`
	Priority    *int                  `db:"priority"    json:"priority"    validate:"omitempty,gte=0,lte=1000"`
	Image       *multipart.FileHeader `json:"image"     swaggerignore:"true" validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=5"`
	ImageFile   multipart.File        `json:"-"`
}

// Window merges the requested display window over the stored one.
func (r *UpdateBannerRequest) Window(current model.Banner) (start, end *time.Time) {
	start, end = current.StartDate, current.EndDate

	if r.StartDate != nil {
		start = r.StartDate
	}

	if r.EndDate != nil {
		end = r.EndDate
	}

	return start, end
}

type BannerResponse struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       *string    `json:"description"`
	ImageURL          string     `json:"image_url"`
	LinkURL           *string    `json:"link_url"`
	IsActive          bool       `json:"is_active"`
	IsCurrentlyActive bool       `json:"is_currently_active"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	Position          string     `json:"position"`
	Priority          int        `json:"priority"`
	ViewsCount        int        `json:"views_count"`
	ClicksCount       int        `json:"clicks_count"`
	ClickRate         float64    `json:"click_rate"`
	gDto.Metadata
}

func (r *BannerResponse) FromModel(banner model.Banner, now time.Time) {
	r.ID = banner.ID
	r.Title = banner.Title
	r.Description = banner.Description
	r.ImageURL = banner.ImageURL
	r.LinkURL = banner.LinkURL
	r.IsActive = banner.IsActive
	r.IsCurrentlyActive = banner.IsCurrentlyActive(now)
	r.StartDate = banner.StartDate
	r.EndDate = banner.EndDate
	r.Position = banner.Position
	r.Priority = banner.Priority
	r.ViewsCount = banner.ViewsCount
	r.ClicksCount = banner.ClicksCount
	r.ClickRate = banner.ClickRate()
	r.Metadata.FromModel(banner.Metadata)
}

type GetBannersResponse struct {
	Banners   []BannerResponse `json:"banners"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetBannersResponse) FromModels(models []model.Banner, totalData, limit int, now time.Time) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Banners = make([]BannerResponse, len(models))
	for i, m := range models {
		r.Banners[i].FromModel(m, now)
	}
}

type ClickResponse struct {
	LinkURL *string `json:"link_url"`
}
