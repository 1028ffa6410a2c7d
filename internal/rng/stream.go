// Package rng содержит детерминированный источник случайных чисел,
// который явно передаётся через все стадии генерации.
package rng

import "math/rand"

// Stream - единый поток случайных значений для всей генерации.
// Порядок вызовов строго определён: выбор футпринта, текстуры, высоты,
// затем исход и вариант для каждого слота.
type Stream interface {
	// Float64 возвращает равномерное значение в [0,1)
	Float64() float64
	// Intn возвращает равномерное целое в [0,n); n должно быть > 0
	Intn(n int) int
	// Range возвращает равномерное целое в [min,max)
	Range(min, max int) int
}

// SeededStream - воспроизводимый поток на основе math/rand.
// Один экземпляр сеется один раз на весь запуск.
type SeededStream struct {
	seed  int64
	rng   *rand.Rand
	draws uint64
}

// NewStream создаёт поток, засеянный seed
func NewStream(seed int64) *SeededStream {
	return &SeededStream{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed возвращает исходный сид потока
func (s *SeededStream) Seed() int64 {
	return s.seed
}

// Draws возвращает количество уже выданных значений
func (s *SeededStream) Draws() uint64 {
	return s.draws
}

func (s *SeededStream) Float64() float64 {
	s.draws++
	return s.rng.Float64()
}

func (s *SeededStream) Intn(n int) int {
	s.draws++
	return s.rng.Intn(n)
}

func (s *SeededStream) Range(min, max int) int {
	if max <= min {
		return min
	}
	s.draws++
	return min + s.rng.Intn(max-min)
}
