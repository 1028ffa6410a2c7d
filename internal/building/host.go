package building

import (
	"errors"
	"fmt"

	"github.com/annel0/buildgen/internal/opening"
	"github.com/annel0/buildgen/internal/vec"
)

// Host - возможности встраивающего приложения: габариты ассетов и создание экземпляров.
// Генератор пользуется только ResolveAssetBounds; Instantiate вызывает Realize.
type Host interface {
	opening.BoundsResolver
	Instantiate(assetID string, position vec.Vec3Float, yaw float64) error
}

// Realize создаёт экземпляры всех проёмов здания в порядке их размещения.
// Ошибки отдельных экземпляров собираются и не прерывают обход.
func Realize(host Host, b *Building) error {
	var errs []error
	for i, o := range b.Openings {
		if err := host.Instantiate(o.AssetID, o.Position, o.Yaw); err != nil {
			errs = append(errs, fmt.Errorf("проём %d (%s %s): %w", i, o.Kind, o.AssetID, err))
		}
	}
	return errors.Join(errs...)
}
