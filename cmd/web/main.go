package main

import (
	"fmt"
	"net"
	"os"
	"os/user"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wb-tools/seller-atlas/pkg/server"
	"github.com/wb-tools/seller-atlas/pkg/services/analysis"
	"github.com/wb-tools/seller-atlas/pkg/services/assistant"
	"github.com/wb-tools/seller-atlas/pkg/services/cabinet"
	"github.com/wb-tools/seller-atlas/pkg/services/expense"
	"github.com/wb-tools/seller-atlas/pkg/services/reconcile"
	"github.com/wb-tools/seller-atlas/pkg/services/wbclient"
	"github.com/wb-tools/seller-atlas/pkg/store/sqlite"
	"github.com/wb-tools/seller-atlas/pkg/store/sqlite/cache"
)

var (
	cabinetsPath string
	refDataPath  string
	dbPath       string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Seller Atlas web server",
		RunE:  runServer,
	}

	usr, _ := user.Current()
	defaultCabinets := fmt.Sprintf("%s/.wbcabinets", usr.HomeDir)

	rootCmd.Flags().StringVarP(&cabinetsPath, "cabinets", "c", defaultCabinets,
		"Path to the cabinet profiles file (default is $HOME/.wbcabinets)")
	rootCmd.Flags().StringVarP(&refDataPath, "refdata", "r", "refdata.yaml",
		"Path to the marketplace reference data file (commission and acceptance rates)")
	rootCmd.Flags().StringVar(&dbPath, "db", "seller-atlas.db",
		"Path to the cache database")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	registry, err := cabinet.NewRegistry(cabinetsPath)
	if err != nil {
		return fmt.Errorf("failed to create cabinet registry: %w", err)
	}

	refData, err := expense.LoadReferenceData(refDataPath)
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}

	db, err := sqlite.NewDB(sqlite.Settings{DbPath: dbPath})
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	cacheStore, err := cache.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create cache store: %w", err)
	}
	if pruned, err := cacheStore.Prune(ctx); err == nil && pruned > 0 {
		logger.Info().Int64("rows", pruned).Msg("pruned expired cache entries")
	}

	analysisService := analysis.NewService(
		newSources,
		refData,
		reconcile.NewEngine(reconcile.DefaultThresholds()),
	)

	var optimizer *assistant.Optimizer
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		optimizer = assistant.NewOptimizer(key, os.Getenv("OPENAI_MODEL"))
	} else {
		logger.Info().Msg("OPENAI_API_KEY not set, assistant endpoint disabled")
	}

	logger.Info().Msgf("Cabinet profiles loaded from `%s`.", cabinetsPath)
	cabinets, _ := registry.GetCabinets(ctx)
	for _, c := range cabinets {
		logger.Info().Msgf("Cabinet: `%s`, active: %v", c.Name, c.Active)
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")
	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Cabinets:  registry,
			Runner:    analysisService,
			Cache:     cacheStore,
			Optimizer: optimizer,
		},
	})

	return webAPI.Start()
}

// newSources builds one token-scoped WB client serving all three marketplace
// feeds an analysis run reads.
func newSources(token string) analysis.Sources {
	client, err := wbclient.New(wbclient.Config{Token: token})
	if err != nil {
		// Token presence is validated by the cabinet registry before any run
		// starts; reaching this point is a programming error.
		panic(err)
	}
	return analysis.Sources{
		Orders:      client,
		Tariffs:     client,
		Settlements: client,
	}
}
