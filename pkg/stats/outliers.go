package stats

// ClipOutliers winsorizes every column of X at the lower and upper
// quantiles (both in [0, 1]). It returns a new matrix.
func ClipOutliers(X [][]float64, lower, upper float64) [][]float64 {
	if len(X) == 0 {
		return nil
	}
	rows, cols := len(X), len(X[0])
	out := make([][]float64, rows)
	col := make([]float64, rows)
	lows := make([]float64, cols)
	highs := make([]float64, cols)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			col[i] = X[i][j]
		}
		lows[j] = Quantile(col, lower)
		highs[j] = Quantile(col, upper)
	}
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			out[i][j] = min(max(X[i][j], lows[j]), highs[j])
		}
	}
	return out
}
