package stats

// StandardScaler centers each column to zero mean and scales it to
// unit sample standard deviation. Fit learns the column statistics,
// Transform applies them, so train-set statistics can be reused on
// held-out rows.
type StandardScaler struct {
	Mean []float64
	Std  []float64
	fit  bool
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return nil
	}
	cols := len(X[0])
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)
	col := make([]float64, len(X))
	for j := 0; j < cols; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		s.Mean[j] = Mean(col)
		s.Std[j] = Std(col)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	s.fit = true
	return nil
}

func (s *StandardScaler) Transform(X [][]float64) [][]float64 {
	if !s.fit {
		return X
	}
	out := make([][]float64, len(X))
	for i := range X {
		row := make([]float64, len(X[i]))
		for j := range X[i] {
			row[j] = (X[i][j] - s.Mean[j]) / s.Std[j]
		}
		out[i] = row
	}
	return out
}

func (s *StandardScaler) FitTransform(X [][]float64) [][]float64 {
	_ = s.Fit(X)
	return s.Transform(X)
}

// MinMaxScale scales each column to [0, 1].
func MinMaxScale(X [][]float64) [][]float64 {
	if len(X) == 0 {
		return X
	}
	rows, cols := len(X), len(X[0])
	mins := make([]float64, cols)
	maxs := make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			col[i] = X[i][j]
		}
		mins[j], maxs[j] = MinMax(col)
	}
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			if maxs[j] != mins[j] {
				out[i][j] = (X[i][j] - mins[j]) / (maxs[j] - mins[j])
			}
		}
	}
	return out
}

// RobustScale scales each column by its median and interquartile
// range, which keeps heavy-tailed variables comparable.
func RobustScale(X [][]float64) [][]float64 {
	if len(X) == 0 {
		return X
	}
	rows, cols := len(X), len(X[0])
	medians := make([]float64, cols)
	iqrs := make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			col[i] = X[i][j]
		}
		medians[j] = Median(col)
		iqrs[j] = Quantile(col, 0.75) - Quantile(col, 0.25)
	}
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			if iqrs[j] != 0 {
				out[i][j] = (X[i][j] - medians[j]) / iqrs[j]
			}
		}
	}
	return out
}

// Winsorize clips a slice at the lower and upper quantiles, returning
// a copy. Review counts and gift amounts carry long right tails;
// winsorizing keeps means interpretable without dropping rows.
func Winsorize(x []float64, lower, upper float64) []float64 {
	lo := Quantile(x, lower)
	hi := Quantile(x, upper)
	out := make([]float64, len(x))
	for i, v := range x {
		switch {
		case v < lo:
			out[i] = lo
		case v > hi:
			out[i] = hi
		default:
			out[i] = v
		}
	}
	return out
}
