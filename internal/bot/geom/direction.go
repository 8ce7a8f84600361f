package geom

// Direction is one of the eight compass steps, or Center.
// Order: N, NE, E, SE, S, SW, W, NW.
type Direction int8

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
	Center
)

// Directions lists the eight movement directions in index order.
var Directions = [8]Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

var dirVectors = [9][2]int{
	{0, 1}, {1, 1}, {1, 0}, {1, -1},
	{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
	{0, 0},
}

var dirNames = [9]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW", "C"}

func (d Direction) Vector() [2]int {
	if d < 0 || d > Center {
		return dirVectors[Center]
	}
	return dirVectors[d]
}

func (d Direction) Opposite() Direction {
	if d == Center || d < 0 || d > Center {
		return Center
	}
	return Direction((int(d) + 4) % 8)
}

func (d Direction) Valid() bool { return d >= North && d <= Center }

func (d Direction) String() string {
	if !d.Valid() {
		return "?"
	}
	return dirNames[d]
}
