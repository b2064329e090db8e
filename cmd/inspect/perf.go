package inspect

import (
	"fmt"
	"os"
	"strconv"
	"time"

	vmetrics "github.com/VictoriaMetrics/metrics"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kvbridge/kvbridge/cmd/util"
)

var perfCmd = &cobra.Command{
	Use:   "perf <uri> <id>",
	Short: "Measure statistic lookup latency against a snapshot",
	Long: util.WrapString(`Runs repeated statistic lookups against the loaded
snapshot, reports the latency distribution and dumps the service counters
in Prometheus text format.`),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid statistic id %q: %w", args[1], err)
		}

		iterations := viper.GetInt("iterations")
		if iterations <= 0 {
			return fmt.Errorf("iterations must be positive, got %d", iterations)
		}

		timer := metrics.NewTimer()
		defer timer.Stop()

		config := viper.GetString("stat-config")
		for i := 0; i < iterations; i++ {
			start := time.Now()
			if _, err := statsService.StatisticValue(args[0], config, int32(id)); err != nil {
				return err
			}
			timer.UpdateSince(start)
		}

		snapshot := timer.Snapshot()
		percentiles := snapshot.Percentiles([]float64{0.5, 0.95, 0.99})
		fmt.Printf("lookups:  %d\n", snapshot.Count())
		fmt.Printf("mean:     %s\n", time.Duration(int64(snapshot.Mean())))
		fmt.Printf("p50:      %s\n", time.Duration(int64(percentiles[0])))
		fmt.Printf("p95:      %s\n", time.Duration(int64(percentiles[1])))
		fmt.Printf("p99:      %s\n", time.Duration(int64(percentiles[2])))
		fmt.Printf("max:      %s\n", time.Duration(snapshot.Max()))

		fmt.Println()
		vmetrics.WritePrometheus(os.Stdout, false)
		return nil
	},
}

func init() {
	perfCmd.Flags().Int("iterations", 1000, util.WrapString("Number of lookups to run"))
}
