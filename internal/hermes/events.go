package hermes

import (
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
)

// Meta is the envelope shared by every event.
type Meta struct {
	EventID   uuid.UUID `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMeta() Meta {
	return Meta{EventID: uuid.New(), Timestamp: time.Now().UTC()}
}

// MessageID is the stream deduplication key.
func (m Meta) MessageID() string {
	if m.EventID == uuid.Nil {
		return ""
	}
	return m.EventID.String()
}

// MessageID returns the deduplication key of data, or "" when it carries
// no event id.
func MessageID(data interface{}) string {
	if ev, ok := data.(interface{ MessageID() string }); ok {
		return ev.MessageID()
	}
	return ""
}

type ClassificationEvent struct {
	Meta
	ProductID      string           `json:"product_id"`
	PopulationHash string           `json:"population_hash,omitempty"`
	Results        []electre.Result `json:"results"`
	NutriScore     electre.Grade    `json:"nutriscore_grade,omitempty"`
	SuperNutri     electre.Grade    `json:"supernutri_grade,omitempty"`
}

type BatchCompletedEvent struct {
	Meta
	RunID      uuid.UUID          `json:"run_id"`
	Products   int                `json:"products"`
	Lambdas    []float64          `json:"lambdas"`
	DurationMs int64              `json:"duration_ms"`
	Agreement  map[string]float64 `json:"agreement,omitempty"`
}

type PopulationReloadEvent struct {
	Dataset string `json:"dataset,omitempty"`
}

type PopulationReloadedEvent struct {
	Meta
	Dataset      string `json:"dataset"`
	Products     int    `json:"products"`
	Hash         string `json:"hash"`
	PreviousHash string `json:"previous_hash,omitempty"`
}
