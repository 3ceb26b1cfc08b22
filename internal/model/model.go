package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Appointment is one counseling session booking. Date carries day granularity
// only; the wall-clock position within the day is the TimeSlot label, an
// opaque token from the configured slot list, never a parsed time.
type Appointment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Date      time.Time `json:"date"`
	TimeSlot  string    `json:"time"`
	OwnerID   string    `json:"userId,omitempty"`
	RiskScore *int      `json:"riskScore,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Resource is one entry in the support resource directory.
type Resource struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Services    []string `json:"services"`
	Phone       string   `json:"phone,omitempty"`
	Email       string   `json:"email,omitempty"`
	Website     string   `json:"website,omitempty"`
}

// Analytics is the aggregate view for the admin dashboard.
type Analytics struct {
	TotalSessions    int64            `json:"totalSessions"`
	UpcomingSessions int64            `json:"upcomingSessions"`
	TotalClicks      int64            `json:"totalClicks"`
	ResourceClicks   map[string]int64 `json:"resourceClicks"`
}
