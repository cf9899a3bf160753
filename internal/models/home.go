package models

import "time"

// Slide is a home page carousel entry
type Slide struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Desc      string `json:"desc"`
	Img       string `json:"img"`
	SortOrder int    `json:"sort_order"`
	IsActive  bool   `json:"is_active"`
}

// SlideUpdate is the request body for editing a slide
type SlideUpdate struct {
	Title     *string `json:"title,omitempty"`
	Desc      *string `json:"desc,omitempty"`
	Img       *string `json:"img,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// Notification is a home page ticker message
type Notification struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	LinkURL   string `json:"link_url"`
	IsActive  bool   `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

// NotificationUpdate is the request body for editing a ticker message
type NotificationUpdate struct {
	Message   *string `json:"message,omitempty"`
	LinkURL   *string `json:"link_url,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

// Briefing is one line of the market news briefing
type Briefing struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Highlight string `json:"highlight"`
}

// CategoryHeader is the title block shown on a category page
type CategoryHeader struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UserNotification is a message addressed to one user
type UserNotification struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// GlobalData is everything the home page loads at once
type GlobalData struct {
	Slides        []Slide                   `json:"slides"`
	Notifications []Notification            `json:"notifications"`
	Headers       map[string]CategoryHeader `json:"headers"`
	DetailImages  map[string]string         `json:"detail_images"`
	Tagline       string                    `json:"tagline"`
	Briefing      []Briefing                `json:"briefing"`
}

// Setting keys and their defaults
const (
	SettingTagline        = "tagline"
	SettingCommissionRate = "commission_rate"
	SettingMyPageBanner   = "mypage_banner"

	DefaultTagline        = "나와 같은 방향을 걷는 사람들을 만나는 곳, 임풋"
	DefaultCommissionRate = 15
	DefaultMyPageBanner   = "https://images.unsplash.com/photo-1486406146926-c627a92ad1ab?auto=format&fit=crop&q=80&w=1600"
)
