package domain

import "math"

// Point точка на плоскости маршрута
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance евклидово расстояние между точками
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// PointOf проекция координат на плоскость (X = широта, Y = долгота)
func PointOf(g GeoPoint) Point {
	return Point{X: g.Lat, Y: g.Lng}
}

// Stop остановка техника. Не хранится, строится из бронирований или запроса
type Stop struct {
	BookingID *int64 `json:"bookingId,omitempty"`
	Label     string `json:"label"`
	Point     Point  `json:"point"`
}
