// Package main provides the autograd CLI: a linear-regression demo trained
// with the engine and an inspector for recorded graphs.
package main

import (
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"
)

const version = "v0.1.0"

var (
	flagSteps = flag.Int("steps", 200, "Number of gradient descent steps for 'fit'.")
	flagLR    = flag.Float64("lr", 0.05, "Learning rate for 'fit'.")
	flagMom   = flag.Float64("momentum", 0.9, "SGD momentum for 'fit'; 0 disables it.")
	flagN     = flag.Int("n", 32, "Number of synthetic samples for 'fit'.")
	flagQuiet = flag.Bool("quiet", false, "Disable the progress bar.")

	flagHidden = flag.Int("hidden", 4, "Hidden units of the network inspected by 'graph'.")
	flagBatch  = flag.Int("batch", 2, "Batch size of the network inspected by 'graph'.")
)

func usage() {
	out := flag.CommandLine.Output()
	_, _ = fmt.Fprintf(out, "Usage: %s [flags] <command>\n\n", os.Args[0])
	_, _ = fmt.Fprintln(out, "Commands:")
	_, _ = fmt.Fprintln(out, "  version    Show version")
	_, _ = fmt.Fprintln(out, "  fit        Fit y = w*x + b on synthetic data")
	_, _ = fmt.Fprintln(out, "  graph      Build a small network and list its graph")
	_, _ = fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		usage()
		os.Exit(1)
	}

	switch args[0] {
	case "version":
		fmt.Printf("autograd %s\n", version)
	case "fit":
		result, err := fit(fitConfig{
			Steps:        *flagSteps,
			LearningRate: float32(*flagLR),
			Momentum:     float32(*flagMom),
			Samples:      *flagN,
			Progress:     !*flagQuiet,
		})
		if err != nil {
			klog.Errorf("fit failed: %+v", err)
			os.Exit(1)
		}
		reportFit(result)
	case "graph":
		if err := inspectGraph(*flagBatch, *flagHidden); err != nil {
			klog.Errorf("graph failed: %+v", err)
			os.Exit(1)
		}
	default:
		klog.Errorf("Unknown command %q. See '%s -help'.", args[0], os.Args[0])
		os.Exit(1)
	}
}
