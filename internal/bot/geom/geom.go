package geom

// Cell is a map location. The map origin is the south-west corner; Y grows north.
type Cell struct {
	X int
	Y int
}

func (c Cell) Add(d Direction) Cell {
	v := d.Vector()
	return Cell{X: c.X + v[0], Y: c.Y + v[1]}
}

func (c Cell) Sub(o Cell) Cell { return Cell{X: c.X - o.X, Y: c.Y - o.Y} }

// DistSq returns the squared euclidean distance between a and b.
func (c Cell) DistSq(o Cell) int {
	dx := c.X - o.X
	dy := c.Y - o.Y
	return dx*dx + dy*dy
}

// DirectionTo returns the single step from c that moves directly toward o
// (Center when c == o).
func (c Cell) DirectionTo(o Cell) Direction {
	dx := sign(o.X - c.X)
	dy := sign(o.Y - c.Y)
	for _, d := range Directions {
		v := d.Vector()
		if v[0] == dx && v[1] == dy {
			return d
		}
	}
	return Center
}

// Neighbors4 returns the side-adjacent cells in fixed order E, W, N, S.
func (c Cell) Neighbors4() [4]Cell {
	return [4]Cell{
		{X: c.X + 1, Y: c.Y},
		{X: c.X - 1, Y: c.Y},
		{X: c.X, Y: c.Y + 1},
		{X: c.X, Y: c.Y - 1},
	}
}

func (c Cell) InBounds(width, height int) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < width && c.Y < height
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
