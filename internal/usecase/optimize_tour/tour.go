package optimize_tour

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Optimize упорядочивает остановки эвристикой ближайшего соседа
// Из депо каждый раз идем к ближайшей непосещенной остановке
// При равных расстояниях выигрывает остановка, стоящая раньше во входном списке
// Результат детерминирован, но не обязательно оптимален
func Optimize(depot domain.Point, stops []domain.Stop) []domain.Stop {
	ordered := make([]domain.Stop, 0, len(stops))
	visited := make([]bool, len(stops))
	current := depot

	for range stops {
		next := -1
		best := 0.0
		for i, stop := range stops {
			if visited[i] {
				continue
			}
			d := current.Distance(stop.Point)
			if next == -1 || d < best {
				next, best = i, d
			}
		}

		visited[next] = true
		ordered = append(ordered, stops[next])
		current = stops[next].Point
	}

	return ordered
}

// TotalDistance длина маршрута от депо через все остановки по порядку
func TotalDistance(depot domain.Point, stops []domain.Stop) float64 {
	total := 0.0
	current := depot
	for _, stop := range stops {
		total += current.Distance(stop.Point)
		current = stop.Point
	}
	return total
}
