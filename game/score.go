// Package game holds helpers shared by the reference rule sets.
package game

// NoWinner marks a state without a winner.
const NoWinner = -1

// WinnerScores awards 1 to winner and 0 to everyone else. Without a winner the
// points are shared evenly.
func WinnerScores(players int, winner int) []float64 {
	if winner == NoWinner {
		return DrawScores(players)
	}
	scores := make([]float64, players)
	scores[winner] = 1
	return scores
}

// DrawScores shares one point evenly between players.
func DrawScores(players int) []float64 {
	scores := make([]float64, players)
	for i := range scores {
		scores[i] = 1 / float64(players)
	}
	return scores
}

// Normalize maps value relative to otherValue to a score between 0 and 1,
// 0.5 meaning even.
func Normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0.5
	}
	return (1 + (value-otherValue)/total) / 2
}
