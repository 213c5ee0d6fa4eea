package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// TTest holds a two-sample comparison of means.
type TTest struct {
	Diff float64 // mean(x) - mean(y)
	SE   float64
	T    float64
	DF   float64
	P    float64 // two-sided
}

// WelchT compares the means of two samples without assuming equal
// variances. Degrees of freedom follow Welch-Satterthwaite and the
// two-sided p-value comes from the Student's t distribution.
func WelchT(x, y []float64) TTest {
	nx, ny := float64(len(x)), float64(len(y))
	vx, vy := Variance(x), Variance(y)
	res := TTest{Diff: Mean(x) - Mean(y)}
	res.SE = math.Sqrt(vx/nx + vy/ny)
	if res.SE == 0 || nx < 2 || ny < 2 {
		res.P = 1
		return res
	}
	res.T = res.Diff / res.SE
	a, b := vx/nx, vy/ny
	res.DF = (a + b) * (a + b) / (a*a/(nx-1) + b*b/(ny-1))
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: res.DF}
	res.P = 2 * t.CDF(-math.Abs(res.T))
	return res
}

// PropTest holds a two-sample comparison of proportions.
type PropTest struct {
	P1, P2 float64
	Diff   float64
	Z      float64
	P      float64 // two-sided
}

// TwoProportionZ compares success rates between two groups with the
// pooled z test. The field-experiment write-ups use it to compare
// response rates against the control arm.
func TwoProportionZ(success1, n1, success2, n2 int) PropTest {
	p1 := float64(success1) / float64(n1)
	p2 := float64(success2) / float64(n2)
	res := PropTest{P1: p1, P2: p2, Diff: p1 - p2}
	pool := float64(success1+success2) / float64(n1+n2)
	se := math.Sqrt(pool * (1 - pool) * (1/float64(n1) + 1/float64(n2)))
	if se == 0 {
		res.P = 1
		return res
	}
	res.Z = res.Diff / se
	res.P = 2 * distuv.UnitNormal.CDF(-math.Abs(res.Z))
	return res
}
