// Command listings models Airbnb review counts as a proxy for
// bookings: a Poisson regression with months listed as exposure, so
// the coefficients describe the review rate per month online. The
// write-up covers the cleaning decisions, rates by room type, and the
// fitted model.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"econlab/pkg/config"
	"econlab/pkg/dataprep"
	"econlab/pkg/dataset"
	"econlab/pkg/glm"
	"econlab/pkg/report"
	"econlab/pkg/stats"
	"econlab/pkg/viz"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to econlab.yaml (empty searches the working directory)")
		dataPath   = flag.String("data", "", "input file, .csv or .dta (default <data_dir>/listings.csv)")
		outDir     = flag.String("out", "", "output directory (default <out_dir>/listings)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}
	if *dataPath == "" {
		*dataPath = filepath.Join(cfg.DataDir, "listings.csv")
	}
	if *outDir == "" {
		*outDir = filepath.Join(cfg.OutDir, "listings")
	}
	if err := run(cfg, *dataPath, *outDir, logger); err != nil {
		logger.Error("listings report failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, dataPath, outDir string, logger *slog.Logger) error {
	raw, err := dataset.ReadFile(dataPath)
	if err != nil {
		return err
	}
	logger.Info("loaded data", "path", dataPath, "rows", raw.NumRows())

	tbl, actions, err := dataprep.Auto(raw, 0.4)
	if err != nil {
		return err
	}

	rpt := report.New("What drives review volume on short-term rentals?", "listings")
	rpt.SetData(dataPath)

	rpt.Section("Data and cleaning")
	rpt.Para("The sample holds %d listings with room type, nightly price, guest "+
		"capacity, months listed, and the running review count. Reviews stand in "+
		"for bookings, so every model below uses months listed as exposure: what "+
		"is compared is reviews per month online, not raw totals.", raw.NumRows())
	if len(actions) > 0 {
		t := report.Table{
			Name:    "cleaning",
			Title:   "Cleaning decisions",
			Headers: []string{"column", "action"},
		}
		for _, a := range actions {
			t.AddRow(a.Column, a.What)
		}
		rpt.AddTable(t)
	}

	byType, err := rateByRoomType(tbl)
	if err != nil {
		return err
	}
	rpt.AddTable(byType)

	reviews, err := tbl.Floats("reviews")
	if err != nil {
		return err
	}
	months, err := tbl.Floats("months_active")
	if err != nil {
		return err
	}

	design, err := glm.NewDesign(tbl).
		Intercept().
		Dummies("room_type").
		Log("price").
		Numeric("accommodates").
		Build()
	if err != nil {
		return err
	}
	fit, err := glm.FitPoisson(design, reviews, glm.Options{Exposure: months})
	if err != nil {
		return err
	}
	logger.Info("fitted poisson", "terms", fit.Names, "loglik", fit.LogLik)

	rpt.Section("Model")
	rpt.Para("Review counts follow a Poisson regression with log link and the log "+
		"of months listed as offset. Price enters in logs; room type contrasts "+
		"against entire homes. Exponentiated coefficients read as rate ratios for "+
		"reviews per month.")
	rpt.AddTable(coefTable(fit))
	rpt.AddTable(irrTable(fit))
	rpt.Para("Log-likelihood %.2f against a null of %.2f (McFadden pseudo-R2 %.3f); "+
		"AIC %.2f, BIC %.2f over %d listings.",
		fit.LogLik, fit.NullLogLik, fit.PseudoR2, fit.AIC, fit.BIC, fit.NObs)

	w := report.NewWriter(outDir, logger)
	figures := viz.Plot{Width: cfg.Figure.Width, Height: cfg.Figure.Height}

	prices, err := tbl.Floats("price")
	if err != nil {
		return err
	}
	path, err := w.FigurePath("price_hist.png")
	if err != nil {
		return err
	}
	fig := figures
	fig.Title = "Nightly price"
	fig.XLabel = "price"
	fig.YLabel = "frequency"
	if err := fig.Histogram(path, prices, 15); err != nil {
		return err
	}
	rpt.Figure("Nightly prices are right-skewed.", filepath.Join("figures", "price_hist.png"))

	path, err = w.FigurePath("log_price_hist.png")
	if err != nil {
		return err
	}
	fig = figures
	fig.Title = "Log nightly price"
	fig.XLabel = "log(1+price)"
	fig.YLabel = "frequency"
	if err := fig.Histogram(path, dataprep.LogTransform(prices), 15); err != nil {
		return err
	}
	rpt.Figure("The log transform pulls the price tail in, which is why price "+
		"enters the model in logs.", filepath.Join("figures", "log_price_hist.png"))

	path, err = w.FigurePath("fitted_vs_observed.png")
	if err != nil {
		return err
	}
	fig = figures
	fig.Title = "Fitted vs observed review counts"
	fig.XLabel = "observed"
	fig.YLabel = "fitted"
	if err := fig.Scatter(path, reviews, fit.Fitted, true); err != nil {
		return err
	}
	rpt.Figure("Fitted against observed counts, exposure included.",
		filepath.Join("figures", "fitted_vs_observed.png"))

	if err := w.WriteMarkdown(rpt); err != nil {
		return err
	}
	if err := w.WriteCSV(rpt.Tables()); err != nil {
		return err
	}
	return w.WriteWorkbook(rpt.Tables())
}

// rateByRoomType tabulates review rates per month by room type, the
// descriptive counterpart of the regression.
func rateByRoomType(tbl *dataset.Table) (report.Table, error) {
	t := report.Table{
		Name:    "rates_by_type",
		Title:   "Review rates by room type",
		Headers: []string{"room type", "listings", "mean reviews", "mean months", "reviews per month"},
	}
	keys, groups, err := tbl.GroupBy("room_type")
	if err != nil {
		return t, err
	}
	reviews, err := tbl.Floats("reviews")
	if err != nil {
		return t, err
	}
	months, err := tbl.Floats("months_active")
	if err != nil {
		return t, err
	}
	for _, key := range keys {
		rows := groups[key]
		r := make([]float64, len(rows))
		m := make([]float64, len(rows))
		sumR, sumM := 0.0, 0.0
		for i, row := range rows {
			r[i] = reviews[row]
			m[i] = months[row]
			sumR += reviews[row]
			sumM += months[row]
		}
		t.AddRow(key, fmt.Sprint(len(rows)),
			fmt.Sprintf("%.1f", stats.Mean(r)),
			fmt.Sprintf("%.1f", stats.Mean(m)),
			fmt.Sprintf("%.3f", sumR/sumM))
	}
	return t, nil
}

func coefTable(fit *glm.Fit) report.Table {
	t := report.Table{
		Name:    "coefficients",
		Title:   "Poisson regression of review counts (months listed as exposure)",
		Headers: []string{"term", "estimate", "std err", "z", "p"},
	}
	for j, term := range fit.Names {
		t.AddRow(term,
			fmt.Sprintf("%.4f", fit.Coef[j]),
			fmt.Sprintf("%.4f", fit.SE[j]),
			fmt.Sprintf("%.2f", fit.Z[j]),
			fmt.Sprintf("%.4f", fit.P[j]))
	}
	return t
}

func irrTable(fit *glm.Fit) report.Table {
	t := report.Table{
		Name:    "irr",
		Title:   "Rate ratios for reviews per month, 95% intervals",
		Headers: []string{"term", "ratio", "2.5%", "97.5%"},
	}
	ratio, lo, hi := fit.IRR()
	for j, term := range fit.Names {
		t.AddRow(term,
			fmt.Sprintf("%.3f", ratio[j]),
			fmt.Sprintf("%.3f", lo[j]),
			fmt.Sprintf("%.3f", hi[j]))
	}
	return t
}
