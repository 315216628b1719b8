// Package surveys holds site-survey opening records consumed by quoting.
package surveys

import (
	"time"

	"github.com/google/uuid"
)

// Opening is a surveyed door/window aperture. Once a quote has imported it the
// record is treated as read-only; importing copies values and never keeps a
// live reference.
type Opening struct {
	ID         uuid.UUID `json:"id" db:"id"`
	SurveyID   uuid.UUID `json:"survey_id" db:"survey_id"`
	OpeningRef string    `json:"opening_ref" db:"opening_ref"`
	Room       string    `json:"room" db:"room"`
	Floor      string    `json:"floor" db:"floor"`
	Type       string    `json:"type" db:"type"`
	Category   string    `json:"category" db:"category"`
	WidthMM    float64   `json:"width_mm" db:"width_mm"`
	HeightMM   float64   `json:"height_mm" db:"height_mm"`
	Material   string    `json:"material" db:"material"`
	GlassType  string    `json:"glass_type" db:"glass_type"`
	Finish     string    `json:"finish" db:"finish"`
	Panels     int       `json:"panels" db:"panels"`
	Mesh       bool      `json:"mesh" db:"mesh"`
	Grill      bool      `json:"grill" db:"grill"`
	Quantity   int       `json:"quantity" db:"quantity"`
	PhotoCount int       `json:"photo_count" db:"photo_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
