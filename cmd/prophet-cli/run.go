package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"yashubustudio/profitprophet/prophet"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Cluster the customer file and write matching non-customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProphet(cmd, v)
		},
	}
	flags := cmd.Flags()
	flags.StringP("reference", "r", "", "customer file (';' separated, ISO-8859-1)")
	flags.StringP("candidate", "c", "", "non-customer file (';' separated, ISO-8859-1)")
	flags.StringP("output-dir", "o", ".", "directory for the output file")
	flags.String("eps", strconv.FormatFloat(prophet.DefaultEps, 'f', -1, 64), "DBSCAN neighbourhood radius")
	flags.String("min-samples", strconv.Itoa(prophet.DefaultMinSamples), "DBSCAN core point population")
	flags.String("metric", "euclidean", "distance metric: euclidean or cosine")
	flags.Int("workers", 0, "goroutines per stage (0 = all CPUs)")
	flags.Bool("no-progress", false, "disable the progress bar")
	for _, key := range []string{"reference", "candidate", "output-dir", "eps", "min-samples", "metric", "workers", "no-progress"} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}
	return cmd
}

func runProphet(cmd *cobra.Command, v *viper.Viper) error {
	raw, err := rawSettings(v)
	if err != nil {
		return err
	}
	job, err := prophet.ParseSettings(raw)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	showBar := !v.GetBool("no-progress") && isTerminal(stderr)
	logger, err := newLogger(stderr, v.GetString("log-level"), v.GetBool("log-json"), showBar && !cmd.Flags().Changed("log-level"))
	if err != nil {
		return err
	}

	var progress prophet.ProgressFunc
	if showBar {
		bar := newProgressBar(stderr)
		defer bar.Close()
		progress = bar.Update
	}

	logger.Debug("starting run",
		slog.String("reference", job.ReferencePath),
		slog.String("candidate", job.CandidatePath),
		slog.Int("fields", len(job.Fields)),
	)
	svc := prophet.NewService(logger)
	out, err := svc.Run(cmd.Context(), job, progress)
	if err != nil {
		return err
	}
	printOutcome(cmd.OutOrStdout(), job, out)
	return nil
}

func printOutcome(w io.Writer, job prophet.Job, out *prophet.Outcome) {
	fmt.Fprintln(w, renderFieldSummary(out.Result.Fields))

	stats := []runStat{
		{"Metric", prophet.MetricName(job.Params.Metric)},
		{"EPS", strconv.FormatFloat(job.Params.Eps, 'f', -1, 64)},
		{"Min samples", strconv.Itoa(job.Params.MinSamples)},
		{"Clusters", strconv.Itoa(len(out.Result.Clusters))},
		{"Core points", strconv.Itoa(out.Result.CorePoints)},
		{"Candidates", strconv.Itoa(len(out.Result.CandidateLabels))},
		{"Potential customers", strconv.Itoa(out.Result.Table.Len())},
		{"Elapsed", out.Elapsed.Round(time.Millisecond).String()},
	}
	fmt.Fprintln(w, renderRunStats(out.RunID, stats))
	fmt.Fprintf(w, "Output: %s\n", out.OutputPath)
}
