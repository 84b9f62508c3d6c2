package workflow

import "github.com/osmakqa/riskandopportunitiesregistry-sub000/models"

// Score maps a likelihood/severity pair to its rating and level. The same
// rule serves the initial and the residual assessment.
func Score(likelihood, severity int) (int, models.RiskLevel) {
	s := models.Score{Likelihood: likelihood, Severity: severity}
	return s.Rating(), s.Level()
}

func newScore(op, name string, likelihood, severity int) (*models.Score, error) {
	s := models.Score{Likelihood: likelihood, Severity: severity}
	if !s.Valid() {
		return nil, invalid(op, "%s likelihood and severity must be between %d and %d", name, models.MinScale, models.MaxScale)
	}
	return &s, nil
}
