package geom

import "math"

// Vec is a float vector used for steering estimates (average positions,
// "away from" directions). Grid logic stays in Cell.
type Vec struct {
	X float64
	Y float64
}

func VecOf(c Cell) Vec { return Vec{X: float64(c.X), Y: float64(c.Y)} }

func (v Vec) Add(o Vec) Vec       { return Vec{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec       { return Vec{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec) Scale(m float64) Vec { return Vec{X: v.X * m, Y: v.Y * m} }
func (v Vec) Len() float64        { return math.Hypot(v.X, v.Y) }
func (v Vec) Cell() Cell          { return Cell{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))} }
func (v Vec) IsZero() bool        { return v.X == 0 && v.Y == 0 }

func (v Vec) Normalized() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}

// Angle returns the heading of v in degrees, counter-clockwise from east.
func (v Vec) Angle() float64 {
	return math.Atan2(v.Y, v.X) * 180 / math.Pi
}

// AngleToDirection rounds a heading in degrees to the nearest of the eight
// compass directions.
func AngleToDirection(angle float64) Direction {
	deg := ((int(math.Round(angle/45))*45)%360 + 720) % 360
	switch deg {
	case 0:
		return East
	case 45:
		return NorthEast
	case 90:
		return North
	case 135:
		return NorthWest
	case 180:
		return West
	case 225:
		return SouthWest
	case 270:
		return South
	case 315:
		return SouthEast
	}
	return Center
}
