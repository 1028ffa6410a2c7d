package building

import (
	"time"

	"github.com/annel0/buildgen/internal/opening"
)

// Recorder получает события генерации (метрики, логирование).
// Вызывается синхронно из генератора.
type Recorder interface {
	BuildingGenerated(b *Building, elapsed time.Duration)
	OpeningPlaced(o *opening.Opening)
	PlacementSkipped(err *opening.PlacementError)
}

type noopRecorder struct{}

func (noopRecorder) BuildingGenerated(*Building, time.Duration) {}
func (noopRecorder) OpeningPlaced(*opening.Opening)             {}
func (noopRecorder) PlacementSkipped(*opening.PlacementError)   {}
