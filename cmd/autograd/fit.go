package main

import (
	"fmt"
	"math"

	"github.com/born-ml/autograd/autodiff"
	"github.com/born-ml/autograd/tensor"
	"github.com/dustin/go-humanize"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

// Synthetic target of the regression.
const (
	trueWeight = 2.0
	trueBias   = -0.5
)

type fitConfig struct {
	Steps        int
	LearningRate float32
	Momentum     float32
	Samples      int
	Progress     bool
}

type fitResult struct {
	Weight, Bias float32
	Loss         float32
	Steps        int
}

// syntheticData returns n points on y = trueWeight*x + trueBias with a small
// deterministic perturbation.
func syntheticData(n int) (x, y *tensor.Tensor) {
	xs := make([]float32, n)
	ys := make([]float32, n)
	for i := range xs {
		xs[i] = float32(i)/float32(n) - 0.5
		ys[i] = trueWeight*xs[i] + trueBias + 0.01*float32(math.Sin(float64(i)))
	}
	return must.M1(tensor.New(xs, tensor.Shape{n})), must.M1(tensor.New(ys, tensor.Shape{n}))
}

// fit runs full-batch gradient descent on the mean squared error.
func fit(cfg fitConfig) (fitResult, error) {
	if cfg.Samples <= 0 || cfg.Steps <= 0 {
		return fitResult{}, errors.Errorf("fit: samples (%d) and steps (%d) must be positive", cfg.Samples, cfg.Steps)
	}
	x, y := syntheticData(cfg.Samples)
	w := tensor.FromScalar(0).SetRequiresGrad(true)
	b := tensor.FromScalar(0).SetRequiresGrad(true)
	optimizer := newSGD([]*tensor.Tensor{w, b}, cfg.LearningRate, cfg.Momentum)

	var bar *progressbar.ProgressBar
	if cfg.Progress {
		bar = progressbar.NewOptions(cfg.Steps,
			progressbar.OptionSetDescription("fit"),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("steps"),
			progressbar.OptionSetTheme(progressbar.ThemeUnicode),
		)
	}

	opts := autodiff.BackwardOptions{RetainGraph: false}
	var loss float32
	for step := 0; step < cfg.Steps; step++ {
		pred, err := x.Mul(w)
		if err != nil {
			return fitResult{}, err
		}
		if pred, err = pred.Add(b); err != nil {
			return fitResult{}, err
		}
		diff, err := pred.Sub(y)
		if err != nil {
			return fitResult{}, err
		}
		mse := diff.Square().Mean()
		if loss, err = mse.AsScalar(); err != nil {
			return fitResult{}, err
		}
		if err = mse.BackwardWithOptions(opts); err != nil {
			return fitResult{}, errors.WithMessagef(err, "fit: step %d", step)
		}

		optimizer.Step()
		optimizer.ZeroGrad()
		klog.V(2).Infof("step %d: loss=%g", step, loss)
		if bar != nil {
			bar.Describe(fmt.Sprintf("fit loss=%.5f", loss))
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Println()
	}
	return fitResult{
		Weight: must.M1(w.AsScalar()),
		Bias:   must.M1(b.AsScalar()),
		Loss:   loss,
		Steps:  cfg.Steps,
	}, nil
}

func reportFit(r fitResult) {
	fmt.Println(titleStyle.Render("Fit"))
	table := newPlainTable()
	table.Headers("", "fitted", "target")
	table.Row("weight", fmt.Sprintf("%.4f", r.Weight), fmt.Sprintf("%.4f", trueWeight))
	table.Row("bias", fmt.Sprintf("%.4f", r.Bias), fmt.Sprintf("%.4f", trueBias))
	table.Row("loss", fmt.Sprintf("%.6f", r.Loss), "")
	table.Row("steps", humanize.Comma(int64(r.Steps)), "")
	fmt.Println(table.Render())
}
