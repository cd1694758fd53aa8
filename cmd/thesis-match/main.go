package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/charecktowa/thesis-match/ai"
	"github.com/charecktowa/thesis-match/etl"
	"github.com/charecktowa/thesis-match/internal/profile"
	"github.com/charecktowa/thesis-match/internal/version"
	"github.com/charecktowa/thesis-match/server"
	"github.com/charecktowa/thesis-match/store"
	"github.com/charecktowa/thesis-match/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "thesis-match",
	Short: `Semantic recommendation service for an academic department: match thesis and research product titles by meaning.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Ignore a missing .env, environment variables still apply.
		_ = godotenv.Load()
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile, err := loadProfile()
		if err != nil {
			slog.Error("invalid configuration", "error", err)
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		storeInstance, err := openStore(ctx, instanceProfile)
		if err != nil {
			slog.Error("failed to open store", "error", err)
			return
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance)
		if err != nil {
			slog.Error("failed to create server", "error", err)
			return
		}

		c := make(chan os.Signal, 1)
		// SIGTERM is the graceful shutdown signal used by most process
		// managers, e.g. systemd and Kubernetes.
		signal.Notify(c, terminationSignals...)

		if err := s.Start(ctx); err != nil {
			slog.Error("failed to start server", "error", err)
			return
		}

		printGreetings(instanceProfile)

		go func() {
			<-c
			s.Shutdown(ctx)
			cancel()
		}()

		<-ctx.Done()
	},
}

var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Embed every stored title that does not have a vector yet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		instanceProfile, err := loadProfile()
		if err != nil {
			return err
		}
		if !instanceProfile.IsEmbeddingConfigured() {
			return fmt.Errorf("DASHSCOPE_API_KEY is required for embedding population")
		}

		ctx := cmd.Context()
		storeInstance, err := openStore(ctx, instanceProfile)
		if err != nil {
			return err
		}
		defer storeInstance.Close()

		embedder, err := ai.NewEmbeddingService(ai.NewEmbeddingConfigFromProfile(instanceProfile))
		if err != nil {
			return err
		}

		report, err := etl.NewPopulator(storeInstance, embedder).Run(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Theses embedded: %d\n", report.ThesesEmbedded)
		fmt.Printf("Research products embedded: %d\n", report.ProductsEmbedded)
		fmt.Printf("Skipped (empty titles): %d\n", report.Skipped)
		fmt.Printf("Failed batches: %d\n", report.FailedBatches)
		return nil
	},
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <directory-url>",
	Short: "Scrape the department faculty directory into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		instanceProfile, err := loadProfile()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		storeInstance, err := openStore(ctx, instanceProfile)
		if err != nil {
			return err
		}
		defer storeInstance.Close()

		scraper := etl.NewScraper(args[0])
		professors, err := scraper.ScrapeProfessors(ctx, viper.GetString("listing-path"))
		if err != nil {
			return err
		}

		laboratories, err := storeInstance.ListLaboratories(ctx)
		if err != nil {
			return err
		}
		laboratoryIDs := make(map[string]int32, len(laboratories))
		nextLaboratoryID := int32(1)
		for _, laboratory := range laboratories {
			laboratoryIDs[laboratory.Name] = laboratory.ID
			if laboratory.ID >= nextLaboratoryID {
				nextLaboratoryID = laboratory.ID + 1
			}
		}

		stored := 0
		for _, scraped := range professors {
			laboratoryName := defaultLaboratory(scraped.Laboratory)
			laboratoryID, known := laboratoryIDs[laboratoryName]
			if !known {
				laboratoryID = nextLaboratoryID
				nextLaboratoryID++
				if _, err := storeInstance.UpsertLaboratory(ctx, &store.Laboratory{ID: laboratoryID, Name: laboratoryName}); err != nil {
					slog.Warn("failed to store laboratory", "laboratory", laboratoryName, "error", err)
					continue
				}
				laboratoryIDs[laboratoryName] = laboratoryID
			}
			professor := &store.Professor{
				ID:           scraped.SourceID,
				Name:         scraped.Name,
				LaboratoryID: laboratoryID,
			}
			if scraped.Email != "" {
				professor.Email = &scraped.Email
			}
			if scraped.ProfileURL != "" {
				professor.ProfileURL = &scraped.ProfileURL
			}
			if _, err := storeInstance.UpsertProfessor(ctx, professor); err != nil {
				slog.Warn("failed to store professor", "professor", scraped.Name, "error", err)
				continue
			}
			stored++
		}
		fmt.Printf("Professors stored: %d of %d scraped\n", stored, len(professors))
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		instanceProfile, err := loadProfile()
		if err != nil {
			return err
		}
		storeInstance, err := openStore(cmd.Context(), instanceProfile)
		if err != nil {
			return err
		}
		defer storeInstance.Close()
		fmt.Println("Schema is up to date.")
		return nil
	},
}

func loadProfile() (*profile.Profile, error) {
	instanceProfile := &profile.Profile{
		Mode:    viper.GetString("mode"),
		Addr:    viper.GetString("addr"),
		Port:    viper.GetInt("port"),
		Data:    viper.GetString("data"),
		Driver:  viper.GetString("driver"),
		DSN:     viper.GetString("dsn"),
		Version: version.GetCurrentVersion(viper.GetString("mode")),
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		return nil, err
	}
	return instanceProfile, nil
}

func openStore(ctx context.Context, instanceProfile *profile.Profile) (*store.Store, error) {
	dbDriver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return nil, err
	}
	storeInstance := store.New(dbDriver, instanceProfile)
	if err := storeInstance.Migrate(ctx); err != nil {
		return nil, err
	}
	return storeInstance, nil
}

func defaultLaboratory(name string) string {
	if name == "" {
		return "Unassigned"
	}
	return name
}

func printGreetings(instanceProfile *profile.Profile) {
	fmt.Printf("thesis-match %s started\n", instanceProfile.Version)
	fmt.Printf("Database driver: %s\n", instanceProfile.Driver)
	fmt.Printf("Mode: %s\n", instanceProfile.Mode)
	if instanceProfile.Addr == "" {
		fmt.Printf("Serving on http://localhost:%d\n", instanceProfile.Port)
	} else {
		fmt.Printf("Serving on http://%s:%d\n", instanceProfile.Addr, instanceProfile.Port)
	}
	if !instanceProfile.IsEmbeddingConfigured() {
		fmt.Println("Note: DASHSCOPE_API_KEY is not set, text queries are disabled.")
	}
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "postgres")
	viper.SetDefault("port", 8000)
	viper.SetDefault("listing-path", "/faculty")

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8000, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "postgres", "database driver (postgres, sqlite)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	scrapeCmd.Flags().String("listing-path", "/faculty", "path of the faculty listing page")

	for _, key := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			panic(err)
		}
	}
	if err := viper.BindPFlag("listing-path", scrapeCmd.Flags().Lookup("listing-path")); err != nil {
		panic(err)
	}

	viper.SetEnvPrefix("thesismatch")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	rootCmd.AddCommand(populateCmd, scrapeCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
