package rng

// Scripted воспроизводит заранее заданные значения. Нужен хостам и тестам,
// чтобы зафиксировать конкретный исход размещения.
// Когда очередь исчерпана, Float64 возвращает 0, а Intn/Range - нижнюю границу.
type Scripted struct {
	floats []float64
	ints   []int
	fi, ii int
}

// NewScripted создаёт поток с очередями дробных и целых значений
func NewScripted(floats []float64, ints []int) *Scripted {
	return &Scripted{floats: floats, ints: ints}
}

func (s *Scripted) Float64() float64 {
	if s.fi >= len(s.floats) {
		return 0
	}
	v := s.floats[s.fi]
	s.fi++
	return v
}

func (s *Scripted) Intn(n int) int {
	if s.ii >= len(s.ints) || n <= 0 {
		return 0
	}
	v := s.ints[s.ii]
	s.ii++
	if v < 0 || v >= n {
		v = ((v % n) + n) % n
	}
	return v
}

func (s *Scripted) Range(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.Intn(max-min)
}

// Remaining возвращает количество неиспользованных дробных и целых значений
func (s *Scripted) Remaining() (floats, ints int) {
	return len(s.floats) - s.fi, len(s.ints) - s.ii
}
