package engine

type Evaluator struct {
	weights HeuristicConfig
}

func NewEvaluator(weights HeuristicConfig) Evaluator {
	return Evaluator{weights: weights.Resolve()}
}

func (e Evaluator) Weights() HeuristicConfig {
	return e.weights
}

// Evaluate scores the empty cell (row, col) as a move for computer:
// attack potential, weighted defense potential and proximity to the center.
func (e Evaluator) Evaluate(board Board, row, col int, computer Side) float64 {
	attack := e.LineScore(board, row, col, computer)
	defense := e.LineScore(board, row, col, computer.Opponent())
	return attack + defense*e.weights.DefenseWeight + e.CenterBonus(board.Size(), row, col)
}

// LineScore sums, over the four directions, the award for the run side would
// own through (row, col) if it played there.
func (e Evaluator) LineScore(board Board, row, col int, side Side) float64 {
	target := side.Cell()
	total := 0.0
	for i := 0; i < 4; i++ {
		dr := directions[i][0]
		dc := directions[i][1]
		count := 1
		blocked := 0
		forward, forwardBlocked := e.extend(board, row, col, dr, dc, target)
		backward, backwardBlocked := e.extend(board, row, col, -dr, -dc, target)
		count += forward + backward
		if forwardBlocked {
			blocked++
		}
		if backwardBlocked {
			blocked++
		}
		total += e.award(count, blocked)
	}
	return total
}

func (e Evaluator) CenterBonus(boardSize, row, col int) float64 {
	center := (boardSize - 1) / 2
	distance := absInt(row-center) + absInt(col-center)
	return float64(2*(boardSize-1)-distance) * e.weights.CenterWeight
}

// extend walks from (row, col) along (dr, dc) over stones equal to target.
// blocked is true when the walk ends on an opposing stone; an empty cell or
// the board edge leaves it open.
func (e Evaluator) extend(board Board, row, col, dr, dc int, target Cell) (count int, blocked bool) {
	row += dr
	col += dc
	for board.InBounds(row, col) {
		cell := board.At(row, col)
		if cell == target {
			count++
		} else {
			return count, cell != CellEmpty
		}
		row += dr
		col += dc
	}
	return count, false
}

func (e Evaluator) award(count, blocked int) float64 {
	w := e.weights
	switch {
	case count >= 5:
		return w.Five
	case count == 4:
		if blocked == 0 {
			return w.Open4
		}
		return w.Closed4
	case count == 3:
		if blocked == 0 {
			return w.Open3
		}
		return w.Closed3
	case count == 2:
		if blocked == 0 {
			return w.Open2
		}
		return w.Closed2
	default:
		return 0
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
