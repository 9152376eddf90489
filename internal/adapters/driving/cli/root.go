// Package cli implements the carbon14 command-line interface.
package cli

import (
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/carbon14-labs/carbon14-cli/internal/adapters/driven/config/file"
	"github.com/carbon14-labs/carbon14-cli/internal/adapters/driven/fetch"
	"github.com/carbon14-labs/carbon14-cli/internal/adapters/driven/htmlref"
	"github.com/carbon14-labs/carbon14-cli/internal/adapters/driven/storage/sqlite"
	"github.com/carbon14-labs/carbon14-cli/internal/core/ports/driven"
	"github.com/carbon14-labs/carbon14-cli/internal/core/ports/driving"
	"github.com/carbon14-labs/carbon14-cli/internal/core/services"
	"github.com/carbon14-labs/carbon14-cli/internal/logger"
)

// version is set via SetVersion from the build entry point.
var version = "dev"

// Global flags.
var (
	verboseFlag bool
	configDir   string
	dataDir     string
)

// Wired services. Tests inject fakes here; production wiring is lazy so
// commands that don't touch the network or disk stay cheap.
var (
	analyserService driving.AnalyserService
	historyService  driving.HistoryService
	configStore     driven.ConfigStore
)

var rootCmd = &cobra.Command{
	Use:   "carbon14",
	Short: "Forensic dating of web pages",
	Long: `carbon14 dates a web page by probing every image it references for
its Last-Modified header. The report separates images hosted on the
page's own host from third-party ones and is markdown-compatible, so
it can be piped straight into pandoc.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.carbon14)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.carbon14/data)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// ensureConfig loads the TOML config store once. A broken config file
// is reported but never fatal; defaults apply.
func ensureConfig() driven.ConfigStore {
	if configStore != nil {
		return configStore
	}

	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		logger.Warn("loading config: %v", err)
		return nil
	}
	configStore = store
	return configStore
}

// ensureAnalyser wires the analysis pipeline from configuration.
func ensureAnalyser() driving.AnalyserService {
	if analyserService != nil {
		return analyserService
	}

	cfg := ensureConfig()

	var opts []fetch.Option
	if cfg != nil {
		if seconds := cfg.GetInt("http.timeout_seconds"); seconds > 0 {
			opts = append(opts, fetch.WithTimeout(time.Duration(seconds)*time.Second))
		}
		if ua := cfg.GetString("http.user_agent"); ua != "" {
			opts = append(opts, fetch.WithUserAgent(ua))
		}
		if perSecond := cfg.GetFloat("http.rate_per_second"); perSecond > 0 {
			opts = append(opts, fetch.WithRate(perSecond))
		}
	}

	client := fetch.NewClient(opts...)
	svc := services.NewAnalyserService(client, htmlref.New(), client)
	if cfg != nil {
		svc.SetMaxConcurrency(cfg.GetInt("analysis.max_concurrency"))
	}

	analyserService = svc
	return analyserService
}

// ensureHistory opens the analysis store.
func ensureHistory() (driving.HistoryService, error) {
	if historyService != nil {
		return historyService, nil
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, err
	}

	historyService = services.NewHistoryService(store)
	return historyService, nil
}
