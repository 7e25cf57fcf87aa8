package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/envelope"
)

// AdvisorName identifies the advisor stage.
const AdvisorName = "advisor"

// Advisor maps a classification to health guidance. It is total over the
// category enumeration and has no failure mode of its own.
type Advisor struct {
	logger zerolog.Logger
}

// NewAdvisor creates an advisor.
func NewAdvisor(logger zerolog.Logger) *Advisor {
	return &Advisor{logger: logger}
}

// Name implements Stage.
func (a *Advisor) Name() string { return AdvisorName }

// Run implements Stage.
func (a *Advisor) Run(_ context.Context, classification airquality.Classification) envelope.Envelope[airquality.Advisory] {
	advisory := airquality.AdvisoryFor(classification)

	a.logger.Debug().
		Str("city", classification.City).
		Stringer("category", classification.Category).
		Msg("advisory generated")

	return envelope.Wrap(AdvisorName, advisory)
}

// Compile-time checks that every stage satisfies the common contract.
var (
	_ Stage[string, airquality.RawCityData]                        = (*Collector)(nil)
	_ Stage[airquality.RawCityData, []airquality.PollutantRecord]  = (*Processor)(nil)
	_ Stage[[]airquality.PollutantRecord, airquality.Classification] = (*Classifier)(nil)
	_ Stage[airquality.Classification, airquality.Advisory]        = (*Advisor)(nil)
)
