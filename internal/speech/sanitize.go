package speech

import (
	"math"

	"github.com/hammamikhairi/talkingclock/internal/domain"
	"github.com/hammamikhairi/talkingclock/internal/logger"
)

// sanitizeTone guards against tones no generator in this package should
// produce. Builds tagged "debug" panic; release builds clamp and log.
func sanitizeTone(t domain.Tone, log *logger.Logger) domain.Tone {
	err := t.Validate()
	if err == nil {
		return t
	}
	if strictTones {
		panic(err)
	}
	log.Error("tone: %v, clamping", err)

	if math.IsNaN(t.Frequency) || math.IsInf(t.Frequency, 0) || t.Frequency <= 0 {
		t.Frequency = fallbackFrequency
	}
	if t.Duration < 0 {
		t.Duration = 0
	}
	switch {
	case math.IsNaN(t.Volume), t.Volume < 0:
		t.Volume = 0
	case t.Volume > 1:
		t.Volume = 1
	}
	return t
}
