package game

// Orientation of a four-cell window.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
	DiagonalUp   // bottom-left to top-right
	DiagonalDown // top-left to bottom-right
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case DiagonalUp:
		return "diagonal-up"
	case DiagonalDown:
		return "diagonal-down"
	}
	return "unknown"
}

// Point is a (row, col) board coordinate.
type Point struct {
	Row int
	Col int
}

// Window is a run of WinLength cells in one orientation.
type Window struct {
	Orientation Orientation
	Cells       [WinLength]Point
}

// Windows holds every window on the board: 24 horizontal, 21 vertical and
// 12 in each diagonal direction.
var Windows = buildWindows()

func buildWindows() []Window {
	ws := make([]Window, 0, 69)
	add := func(o Orientation, r, c, dr, dc int) {
		w := Window{Orientation: o}
		for i := 0; i < WinLength; i++ {
			w.Cells[i] = Point{Row: r + i*dr, Col: c + i*dc}
		}
		ws = append(ws, w)
	}

	for r := 0; r < Rows; r++ {
		for c := 0; c <= Cols-WinLength; c++ {
			add(Horizontal, r, c, 0, 1)
		}
	}
	for c := 0; c < Cols; c++ {
		for r := 0; r <= Rows-WinLength; r++ {
			add(Vertical, r, c, 1, 0)
		}
	}
	for c := 0; c <= Cols-WinLength; c++ {
		for r := 0; r <= Rows-WinLength; r++ {
			add(DiagonalUp, r, c, 1, 1)
		}
	}
	for c := 0; c <= Cols-WinLength; c++ {
		for r := WinLength - 1; r < Rows; r++ {
			add(DiagonalDown, r, c, -1, 1)
		}
	}
	return ws
}

// Window returns the cells of w on b.
func (b *Board) Window(w Window) [WinLength]Cell {
	var out [WinLength]Cell
	for i, p := range w.Cells {
		out[i] = b[p.Row][p.Col]
	}
	return out
}
