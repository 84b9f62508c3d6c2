// models/score.go
package models

import "encoding/json"

type RiskLevel string

const (
	LevelLow      RiskLevel = "LOW"
	LevelModerate RiskLevel = "MODERATE"
	LevelHigh     RiskLevel = "HIGH"
	LevelCritical RiskLevel = "CRITICAL"
)

// RiskLevels lists the levels from lowest to highest.
var RiskLevels = []RiskLevel{LevelLow, LevelModerate, LevelHigh, LevelCritical}

const (
	MinScale = 1
	MaxScale = 5
)

// LevelFor buckets a rating. This is the only rating→level table in the system.
func LevelFor(rating int) RiskLevel {
	switch {
	case rating >= 16:
		return LevelCritical
	case rating >= 11:
		return LevelHigh
	case rating >= 6:
		return LevelModerate
	default:
		return LevelLow
	}
}

// Score is a likelihood/severity pair. Rating and level are always derived
// from the pair and cannot be assigned on their own.
type Score struct {
	Likelihood int
	Severity   int
}

func (s Score) Valid() bool {
	return inScale(s.Likelihood) && inScale(s.Severity)
}

func (s Score) Rating() int {
	return s.Likelihood * s.Severity
}

func (s Score) Level() RiskLevel {
	return LevelFor(s.Rating())
}

func inScale(v int) bool {
	return v >= MinScale && v <= MaxScale
}

type scoreJSON struct {
	Likelihood int       `json:"likelihood"`
	Severity   int       `json:"severity"`
	Rating     int       `json:"rating"`
	Level      RiskLevel `json:"level"`
}

func (s Score) MarshalJSON() ([]byte, error) {
	return json.Marshal(scoreJSON{
		Likelihood: s.Likelihood,
		Severity:   s.Severity,
		Rating:     s.Rating(),
		Level:      s.Level(),
	})
}

// UnmarshalJSON reads only the pair; any rating or level in the payload is ignored.
func (s *Score) UnmarshalJSON(data []byte) error {
	var raw scoreJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Likelihood = raw.Likelihood
	s.Severity = raw.Severity
	return nil
}
