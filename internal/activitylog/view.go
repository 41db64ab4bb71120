package activitylog

import (
	"time"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
)

// View is the read-time presentation of one entry.
type View struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Activity  string    `json:"activity"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`

	UserID      *uint  `json:"user_id"`
	Username    string `json:"username"`
	UserDeleted bool   `json:"user_deleted"`
	System      bool   `json:"system"`
}

// BuildView applies the three-way attribution rule: a live user reference
// resolves to current user data; a nulled reference with a snapshot shows the
// snapshot flagged as deleted; neither means a system action.
func BuildView(row models.ActivityLog) View {
	v := View{
		ID:        row.ID,
		CreatedAt: row.CreatedAt,
		Activity:  row.Activity,
		IPAddress: row.IPAddress,
		UserAgent: row.UserAgent,
	}

	switch {
	case row.UserID != nil:
		v.UserID = row.UserID
		if row.User != nil {
			v.Username = row.User.Username
		} else {
			v.Username = row.UsernameSnapshot
		}
	case row.UsernameSnapshot != "":
		v.Username = row.UsernameSnapshot
		v.UserDeleted = true
	default:
		v.System = true
	}
	return v
}

// BuildViews maps a query page.
func BuildViews(rows []models.ActivityLog) []View {
	views := make([]View, 0, len(rows))
	for _, row := range rows {
		views = append(views, BuildView(row))
	}
	return views
}
