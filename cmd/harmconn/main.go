// Command harmconn computes a harmonic connectivity matrix from a
// multichannel recording.
//
// Usage:
//
//	harmconn -rate 250 [flags] [input.csv]
//
// The input is CSV with one row per channel and one column per sample.
// Without a file argument it reads from stdin.
//
// Examples:
//
//	harmconn -rate 250 eeg.csv
//	harmconn -rate 250 -metric wPLI_crossfreq eeg.csv
//	harmconn -rate 250 -metric wPLI_multiband -progress eeg.csv
//	harmconn -rate 250 -demo 4
//	harmconn -list
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/algo-harmony/dsp/signal"
	"github.com/cwbudde/algo-harmony/measure/connectivity"
)

var metricNames = []string{
	"harmsim",
	"euler",
	"harm_fit",
	"subharm_tension",
	"RRCi",
	"wPLI_crossfreq",
	"wPLI_multiband",
	"MI",
	"MI_spectral",
}

func main() {
	rate := flag.Float64("rate", 0, "sampling rate in Hz (required)")
	metricName := flag.String("metric", "harmsim", "connectivity metric")
	minFreq := flag.Float64("min", 2, "lower peak search bound in Hz")
	maxFreq := flag.Float64("max", 80, "upper peak search bound in Hz")
	nPeaks := flag.Int("peaks", 5, "number of peaks extracted per channel")
	precision := flag.Float64("precision", 0.1, "spectral resolution in Hz")
	workers := flag.Int("workers", 0, "concurrent pair computations (0 = all CPUs)")
	progress := flag.Bool("progress", false, "report pair progress on stderr")
	demo := flag.Int("demo", 0, "generate N synthetic harmonic channels instead of reading input")
	list := flag.Bool("list", false, "list available metrics")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: harmconn -rate <hz> [flags] [input.csv]\n\n")
		fmt.Fprintf(os.Stderr, "Computes a channel-by-channel harmonic connectivity matrix.\n")
		fmt.Fprintf(os.Stderr, "Input is CSV, one row per channel; stdin when no file is given.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  harmconn -rate 250 eeg.csv\n")
		fmt.Fprintf(os.Stderr, "  harmconn -rate 250 -metric RRCi eeg.csv\n")
		fmt.Fprintf(os.Stderr, "  harmconn -rate 250 -demo 4\n")
		fmt.Fprintf(os.Stderr, "  harmconn -list\n")
	}
	flag.Parse()

	if *list {
		for _, name := range metricNames {
			fmt.Println(name)
		}
		return
	}

	metric, err := connectivity.ParseMetric(*metricName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v (use -list to see available)\n", err)
		os.Exit(1)
	}

	if *rate <= 0 {
		fmt.Fprintf(os.Stderr, "error: -rate is required and must be positive\n")
		os.Exit(1)
	}

	var signals [][]float64
	if *demo > 0 {
		signals, err = demoSignals(*demo, *rate)
	} else {
		signals, err = readSignals(flag.Arg(0))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg := connectivity.Config{
		SampleRate:  *rate,
		MinFreq:     *minFreq,
		MaxFreq:     *maxFreq,
		NPeaks:      *nPeaks,
		PrecisionHz: *precision,
	}

	var opts []connectivity.Option
	if *workers > 0 {
		opts = append(opts, connectivity.WithWorkers(*workers))
	}
	if *progress {
		opts = append(opts, connectivity.WithOnProgress(func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rpairs %d/%d", done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		}))
	}

	computer, err := connectivity.NewComputer(cfg, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if metric.Banded() {
		matrices, err := computer.ComputeMultiband(signals, metric)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		bands := computer.Config().Bands
		for b, matrix := range matrices {
			fmt.Printf("band %.2f-%.2f Hz\n", bands[b][0], bands[b][1])
			printMatrix(matrix)
		}
		return
	}

	matrix, err := computer.Compute(signals, metric)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	printMatrix(matrix)
}

// demoSignals generates harmonically related channels: channel i carries
// (i+1) times a 10 Hz fundamental plus light noise.
func demoSignals(channels int, rate float64) ([][]float64, error) {
	g, err := signal.NewGenerator(rate)
	if err != nil {
		return nil, err
	}

	return g.HarmonicChannels(channels, int(rate*8), 10, 0.05)
}

func readSignals(path string) ([][]float64, error) {
	var in io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	var signals [][]float64
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make([]float64, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %d: %w", len(signals)+1, i+1, err)
			}
			row[i] = v
		}
		signals = append(signals, row)
	}

	if len(signals) == 0 {
		return nil, fmt.Errorf("no channels in input")
	}
	return signals, nil
}

func printMatrix(matrix [][]float64) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, row := range matrix {
		for j, v := range row {
			sep := "\t"
			if j == len(row)-1 {
				sep = "\t\n"
			}
			fmt.Fprintf(tw, "%.4f%s", v, sep)
		}
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
