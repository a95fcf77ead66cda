// Package fluency maps utterance features to a fluency label through an
// ordered rule cascade. The order is fixed so overlapping conditions resolve
// the same way every time.
package fluency

import "olivia/dialogue/internal/features"

type Label string

const (
	Silent     Label = "SILENT"
	Fragmented Label = "FRAGMENTED"
	Hesitant   Label = "HESITANT"
	Fluent     Label = "FLUENT"
)

// Thresholds are the configurable cut-offs of the cascade.
type Thresholds struct {
	ShortUtteranceFloor int
	FillerRatioMax      float64
	HesitationMax       int
}

type Classifier struct {
	th Thresholds
}

func NewClassifier(th Thresholds) *Classifier {
	return &Classifier{th: th}
}

// Classify runs the cascade, first match wins:
// SILENT, FRAGMENTED, HESITANT, then FLUENT.
func (c *Classifier) Classify(f features.Features) Label {
	if f.WordCount == 0 {
		return Silent
	}
	if f.WordCount <= c.th.ShortUtteranceFloor && !f.EndsWithConjunction {
		return Fragmented
	}
	if f.FillerRatio > c.th.FillerRatioMax || f.HesitationCount > c.th.HesitationMax {
		return Hesitant
	}
	// A trailing conjunction on a short utterance means the speaker trailed
	// off mid-thought; treat as hesitant rather than fragmented.
	if f.WordCount <= c.th.ShortUtteranceFloor && f.EndsWithConjunction {
		return Hesitant
	}
	return Fluent
}

// NonFluent reports whether a label should get the long pause tier.
func NonFluent(l Label) bool {
	return l == Hesitant || l == Fragmented || l == Silent
}
