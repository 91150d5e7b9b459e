// fuzzdex-bench measures the fuzzdex pipeline: normalizer and tokenizer
// throughput, index build rate, and end-to-end search latency under
// concurrent load.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fuzzdex/fuzzdex/pkg/config"
	"github.com/fuzzdex/fuzzdex/pkg/logger"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fuzzdex-bench",
	Short: "Benchmark the fuzzdex search engine",
	Long: `fuzzdex-bench runs repeatable measurements against the fuzzdex
pipeline stages and the assembled engine.

Stage benchmarks (normalize, tokenize, pipeline) stream the corpus through
a single stage and report throughput. Engine benchmarks (index, search)
exercise the full engine, search with configurable concurrency.

Examples:
  fuzzdex-bench normalize --config bench.yaml
  fuzzdex-bench index
  fuzzdex-bench search --concurrency 8 --duration 30s`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
