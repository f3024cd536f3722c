package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/n0madic/go-natural-lasso/natural"
	"github.com/n0madic/go-natural-lasso/solver"
)

// number marshals NaN and infinities as null
type number float64

func (v number) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

type estimateView struct {
	Lambda     number            `json:"lambda"`
	SigmaObj   number            `json:"sig_obj"`
	SigmaNaive number            `json:"sig_naive"`
	SigmaDF    number            `json:"sig_df"`
	DF         float64           `json:"df"`
	Intercept  number            `json:"intercept"`
	Beta       map[string]number `json:"beta,omitempty"`
}

func newEstimateView(est natural.Estimate, fit solver.Fit, features []string) estimateView {
	v := estimateView{
		Lambda:     number(est.Lambda),
		SigmaObj:   number(est.Obj),
		SigmaNaive: number(est.Naive),
		SigmaDF:    number(est.DF),
		DF:         fit.DF,
		Intercept:  number(fit.Intercept),
	}
	for j, b := range fit.Beta {
		if b == 0 {
			continue
		}
		if v.Beta == nil {
			v.Beta = make(map[string]number)
		}
		v.Beta[features[j]] = number(b)
	}
	return v
}

type pathView struct {
	Method string         `json:"method"`
	Path   []estimateView `json:"path"`
}

type cvPointView struct {
	Lambda number `json:"lambda"`
	Mean   number `json:"mean"`
	SE     number `json:"se"`
}

type cvView struct {
	Method    string        `json:"method"`
	Folds     int           `json:"folds"`
	Lambda    number        `json:"lambda"`
	Lambda1SE number        `json:"lambda_1se"`
	Selected  estimateView  `json:"selected"`
	Curve     []cvPointView `json:"curve"`
}

type pivotalView struct {
	Replicates int          `json:"replicates"`
	Lambda1    estimateView `json:"lambda1"`
	Lambda2    estimateView `json:"lambda2"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeEstimates(w io.Writer, rows []estimateView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "lambda\tdf\tsig_obj\tsig_naive\tsig_df\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%.6g\t%g\t%.6g\t%.6g\t%.6g\t\n",
			float64(r.Lambda), r.DF, float64(r.SigmaObj), float64(r.SigmaNaive), float64(r.SigmaDF))
	}
	return tw.Flush()
}

func (v pathView) text(w io.Writer) error {
	fmt.Fprintf(w, "method: %s\n\n", v.Method)
	return writeEstimates(w, v.Path)
}

func (v cvView) text(w io.Writer) error {
	fmt.Fprintf(w, "method: %s\nfolds: %d\nlambda: %.6g (1se: %.6g)\n\n",
		v.Method, v.Folds, float64(v.Lambda), float64(v.Lambda1SE))
	if err := writeEstimates(w, []estimateView{v.Selected}); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "lambda\tcv_mean\tcv_se\t")
	for _, pt := range v.Curve {
		fmt.Fprintf(tw, "%.6g\t%.6g\t%.6g\t\n", float64(pt.Lambda), float64(pt.Mean), float64(pt.SE))
	}
	return tw.Flush()
}

func (v pivotalView) text(w io.Writer) error {
	fmt.Fprintf(w, "method: organic\nreplicates: %d\n\n", v.Replicates)
	return writeEstimates(w, []estimateView{v.Lambda1, v.Lambda2})
}
