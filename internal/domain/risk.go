package domain

import "fmt"

type RiskCategory string

const (
	RiskCategoryConservative RiskCategory = "CONSERVATIVE"
	RiskCategoryModerate     RiskCategory = "MODERATE"
	RiskCategoryAggressive   RiskCategory = "AGGRESSIVE"
)

func (c RiskCategory) IsValid() bool {
	switch c {
	case RiskCategoryConservative, RiskCategoryModerate, RiskCategoryAggressive:
		return true
	}
	return false
}

// MaxFundRisk is the highest fund risk rating suited to the category. It is
// the value an investor passes as max_risk when browsing the catalogue.
func (c RiskCategory) MaxFundRisk() int {
	switch c {
	case RiskCategoryConservative:
		return 2
	case RiskCategoryAggressive:
		return 5
	default:
		return 3
	}
}

const (
	MinRiskAnswer  = 1
	MaxRiskAnswer  = 5
	MaxRiskAnswers = 50

	conservativeCutoff = 33
	moderateCutoff     = 66
)

// ScoreRiskAnswers turns questionnaire answers (each 1 to 5) into a 0-100
// score, truncated, and the category it falls in: up to 33 is conservative,
// up to 66 moderate, anything above aggressive.
func ScoreRiskAnswers(answers []int) (int, RiskCategory, error) {
	if len(answers) == 0 || len(answers) > MaxRiskAnswers {
		return 0, "", fmt.Errorf("need 1 to %d answers, got %d: %w", MaxRiskAnswers, len(answers), ErrInvalidRequest)
	}

	total := 0
	for i, a := range answers {
		if a < MinRiskAnswer || a > MaxRiskAnswer {
			return 0, "", fmt.Errorf("answer %d is %d, want %d to %d: %w", i+1, a, MinRiskAnswer, MaxRiskAnswer, ErrInvalidRequest)
		}
		total += a
	}

	score := total * 100 / (len(answers) * MaxRiskAnswer)
	switch {
	case score <= conservativeCutoff:
		return score, RiskCategoryConservative, nil
	case score <= moderateCutoff:
		return score, RiskCategoryModerate, nil
	default:
		return score, RiskCategoryAggressive, nil
	}
}
