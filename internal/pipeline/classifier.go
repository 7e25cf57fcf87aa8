package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/envelope"
)

// ClassifierName identifies the classifier stage.
const ClassifierName = "classifier"

// Classifier derives a city's overall category from its pollutant records.
// The overall category is the worst per-pollutant sub-index; the driving
// pollutant is the first one in canonical order achieving it.
type Classifier struct {
	banding airquality.Banding
	logger  zerolog.Logger
}

// NewClassifier creates a classifier using the given boundary banding
// convention.
func NewClassifier(banding airquality.Banding, logger zerolog.Logger) *Classifier {
	return &Classifier{banding: banding, logger: logger}
}

// Name implements Stage.
func (c *Classifier) Name() string { return ClassifierName }

// Run implements Stage.
func (c *Classifier) Run(_ context.Context, records []airquality.PollutantRecord) envelope.Envelope[airquality.Classification] {
	var (
		classified    bool
		city          string
		worst         airquality.Category
		dominant      airquality.Pollutant
		dominantValue float64
		excluded      []string
	)

	// Records arrive in canonical pollutant order, so strict "worse than"
	// comparison yields the canonical-order tie-break for free.
	for _, record := range records {
		city = record.City
		if !record.Available {
			excluded = append(excluded, string(record.Pollutant))
			continue
		}

		subIndex, ok := airquality.SubIndex(record.Pollutant, record.Value, c.banding)
		if !ok {
			excluded = append(excluded, string(record.Pollutant))
			continue
		}

		if !classified || subIndex.WorseThan(worst) {
			classified = true
			worst = subIndex
			dominant = record.Pollutant
			dominantValue = record.Value
		}
	}

	if !classified {
		if city == "" && len(records) > 0 {
			city = records[0].City
		}
		c.logger.Warn().Str("city", city).Msg("no pollutant data to classify")
		return envelope.WrapError[airquality.Classification](ClassifierName,
			fmt.Errorf("%w: city %q", airquality.ErrInsufficientData, city))
	}

	classification := airquality.Classification{
		City:          city,
		Category:      worst,
		Dominant:      dominant,
		DominantValue: dominantValue,
		Color:         worst.Color(),
	}

	c.logger.Debug().
		Str("city", city).
		Stringer("category", worst).
		Str("dominant", string(dominant)).
		Msg("city classified")

	if len(excluded) > 0 {
		return envelope.WrapPartial(ClassifierName, classification, excluded)
	}
	return envelope.Wrap(ClassifierName, classification)
}
