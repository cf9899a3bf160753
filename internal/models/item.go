package models

import (
	"time"
)

// Category is the listing category of an item.
type Category string

const (
	CategoryNetworking Category = "networking"
	CategoryMinddate   Category = "minddate"
	CategoryCrew       Category = "crew"
	CategoryLecture    Category = "lecture"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryNetworking, CategoryMinddate, CategoryCrew, CategoryLecture}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories() {
		if c == k {
			return true
		}
	}
	return false
}

// Item status values.
const (
	ItemOpen   = "open"
	ItemClosed = "closed"
	ItemEnded  = "ended"
)

// Settlement status values.
const (
	SettlementPending   = "pending"
	SettlementCompleted = "completed"
)

// Item represents a listing in one of the four categories
type Item struct {
	ID               int64     `json:"id"`
	CategoryType     Category  `json:"category_type"`
	Title            string    `json:"title"`
	Img              string    `json:"img"`
	Author           string    `json:"author"`
	AuthorID         string    `json:"author_id,omitempty"`
	Views            int       `json:"views"`
	Comments         int       `json:"comments"`
	Description      string    `json:"description"`
	EventDate        string    `json:"event_date"`
	Price            string    `json:"price"` // Display string, e.g. "30,000원"
	Location         string    `json:"location"`
	Status           string    `json:"status"`
	SettlementStatus string    `json:"settlement_status"`
	HostBankInfo     string    `json:"host_bank_info,omitempty"`
	KakaoChatURL     string    `json:"kakao_chat_url,omitempty"`
	HostDescription  string    `json:"host_description,omitempty"`
	HostIntroImage   string    `json:"host_intro_image,omitempty"`
	Details          Details   `json:"details"` // Category specific fields
	CreatedAt        time.Time `json:"created_at"`
}

// Details holds the category specific fields of an item. Only the fields
// belonging to the item's category are expected to be set.
type Details struct {
	Type string `json:"type,omitempty"`

	// networking
	Curriculum          []string `json:"curriculum,omitempty"`
	CurrentParticipants int      `json:"current_participants,omitempty"`
	MaxParticipants     int      `json:"max_participants,omitempty"`
	GroupPhoto          string   `json:"group_photo,omitempty"`

	// minddate
	Target         []string     `json:"target,omitempty"`
	GenderRatio    *GenderRatio `json:"gender_ratio,omitempty"`
	MatchedCouples int          `json:"matched_couples,omitempty"`
	BankInfo       string       `json:"bank_info,omitempty"`
	RefundPolicy   string       `json:"refund_policy,omitempty"`

	// crew
	Leader              string   `json:"leader,omitempty"`
	LeaderProfile       string   `json:"leader_profile,omitempty"`
	Level               string   `json:"level,omitempty"`
	Course              []string `json:"course,omitempty"`
	Gallery             []string `json:"gallery,omitempty"`
	ReportContent       string   `json:"report_content,omitempty"`
	RelatedRecruitTitle string   `json:"related_recruit_title,omitempty"`
	PurchaseCount       int      `json:"purchase_count,omitempty"`

	// lecture
	Format         string `json:"format,omitempty"`
	Teacher        string `json:"teacher,omitempty"`
	TeacherProfile string `json:"teacher_profile,omitempty"`
}

// GenderRatio is the target male/female split of a minddate event.
type GenderRatio struct {
	Male   int `json:"male"`
	Female int `json:"female"`
}

// ItemCreate is the request body for creating an item
type ItemCreate struct {
	CategoryType    Category `json:"category_type"`
	Title           string   `json:"title"`
	Img             string   `json:"img"`
	Description     string   `json:"description"`
	EventDate       string   `json:"event_date"`
	Price           string   `json:"price"`
	Location        string   `json:"location"`
	HostBankInfo    string   `json:"host_bank_info"`
	KakaoChatURL    string   `json:"kakao_chat_url"`
	HostDescription string   `json:"host_description"`
	HostIntroImage  string   `json:"host_intro_image"`
	Details         Details  `json:"details"`
}

// ItemUpdate is the request body for updating an item. Nil fields are left untouched.
type ItemUpdate struct {
	Title            *string  `json:"title,omitempty"`
	Img              *string  `json:"img,omitempty"`
	Description      *string  `json:"description,omitempty"`
	EventDate        *string  `json:"event_date,omitempty"`
	Price            *string  `json:"price,omitempty"`
	Location         *string  `json:"location,omitempty"`
	Status           *string  `json:"status,omitempty"`
	SettlementStatus *string  `json:"settlement_status,omitempty"`
	HostBankInfo     *string  `json:"host_bank_info,omitempty"`
	KakaoChatURL     *string  `json:"kakao_chat_url,omitempty"`
	HostDescription  *string  `json:"host_description,omitempty"`
	HostIntroImage   *string  `json:"host_intro_image,omitempty"`
	Details          *Details `json:"details,omitempty"`
}

// ValidItemStatus reports whether s is a known item status.
func ValidItemStatus(s string) bool {
	return s == ItemOpen || s == ItemClosed || s == ItemEnded
}

// ValidSettlementStatus reports whether s is a known settlement status.
func ValidSettlementStatus(s string) bool {
	return s == SettlementPending || s == SettlementCompleted
}
