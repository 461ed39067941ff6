package hermes

import (
	"strings"
	"time"
)

const (
	SubjectPopulationReload   = "nutrisort.population.reload"
	SubjectPopulationReloaded = "nutrisort.population.reloaded"

	StreamName   = "NUTRISORT_EVENTS"
	StreamMaxAge = 7 * 24 * time.Hour

	classificationPrefix = "nutrisort.classification."
	batchPrefix          = "nutrisort.batch."
)

func SubjectClassificationCompleted(productID string) string {
	return classificationPrefix + token(productID) + ".completed"
}

func SubjectBatchCompleted(runID string) string { return batchPrefix + token(runID) + ".completed" }

// StreamSubjects are the subjects persisted in the event stream.
func StreamSubjects() []string {
	return []string{classificationPrefix + ">", batchPrefix + ">", SubjectPopulationReloaded}
}

func streamed(subject string) bool {
	return strings.HasPrefix(subject, classificationPrefix) ||
		strings.HasPrefix(subject, batchPrefix) ||
		subject == SubjectPopulationReloaded
}

// token makes an id safe as a single subject token.
func token(id string) string {
	if id == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\n', '\r':
			return '_'
		}
		return r
	}, id)
}
