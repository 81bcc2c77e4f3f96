package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"legacy-guardians/internal/coach"
	"legacy-guardians/internal/config"
	"legacy-guardians/internal/logging"
	"legacy-guardians/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.DataStore
	Advisor coach.Advisor
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, persistence disabled")
	} else {
		app.Store = dataStore
	}

	var llm coach.LLMClient
	if cfg.Coach.APIKey != "" {
		llm = coach.NewOpenAIClient(cfg.Coach.APIKey, cfg.Coach.Model)
		logger.Debug().Str("model", cfg.Coach.Model).Msg("OpenAI LLM client initialized")
	}
	app.Advisor = coach.NewMentor(llm, logger)

	rootCmd := &cobra.Command{
		Use:   "guardians",
		Short: "Legacy Guardians - learn investing through a simulated trading day",
		Long: `Legacy Guardians is a gamified trading simulator for young investors.

Play a 24-tick simulated trading day against randomly drifting prices,
get advice from an AI coach, and review your performance like a family
office would: total return, volatility, drawdown and Sharpe ratio.

Use 'guardians help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/legacy-guardians)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newPlayCmd(app))
	rootCmd.AddCommand(newServeCmd(app))
	rootCmd.AddCommand(newRewardsCmd(app))
	rootCmd.AddCommand(newSessionsCmd(app))
	rootCmd.AddCommand(newExportCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("Legacy Guardians v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Simulation")
			output.Printf("  starting_capital: %.2f\n", app.Config.Simulation.StartingCapital)
			output.Printf("  tick_interval:    %s\n", app.Config.Simulation.TickInterval)
			output.Bold("Coach")
			output.Printf("  model:         %s\n", app.Config.Coach.Model)
			output.Printf("  default_style: %s\n", app.Config.Coach.DefaultStyle)
			output.Printf("  api_key set:   %v\n", app.Config.Coach.APIKey != "")
			output.Bold("Server")
			output.Printf("  addr: %s\n", app.Config.Server.Addr)
			output.Bold("Storage")
			output.Printf("  db_path: %s\n", app.Config.Storage.DBPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the config directory",
		Run: func(cmd *cobra.Command, args []string) {
			NewOutput(cmd).Println(config.DefaultConfigDir())
		},
	})

	return cmd
}
