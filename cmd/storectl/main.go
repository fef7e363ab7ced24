package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	identityapp "github.com/storefront/backend/internal/application/identity"
	regionapp "github.com/storefront/backend/internal/application/region"
	storeapp "github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// env holds what every subcommand needs: configuration, a logger and the
// database connection
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *persistence.Database
	bus *event.InMemoryEventBus
}

func (e *env) close() {
	_ = e.bus.Stop(context.Background())
	if e.db != nil {
		_ = e.db.Close()
	}
	_ = e.log.Sync()
}

func main() {
	var (
		logLevel string
		timeout  time.Duration
		e        *env
	)

	root := &cobra.Command{
		Use:           "storectl",
		Short:         "Administrative tasks for the storefront backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			e, err = connect(logLevel)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e != nil {
				e.close()
			}
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for the whole command")

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage admin users",
	}

	var req identityapp.CreateUserRequest
	createUserCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin user, typically the first admin of a new install",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRequest(req); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			users := identityapp.NewUserService(
				persistence.NewGormUserRepository(e.db.DB),
				auth.NewMemoryTokenBlacklist(),
				e.bus,
				e.cfg.JWT.AccessTokenExpiration,
				e.log,
			)
			user, err := users.Create(ctx, req)
			if err != nil {
				return err
			}
			fmt.Printf("created user %s (%s, role %s)\n", user.ID, user.Email, user.Role)
			return nil
		},
	}
	createUserCmd.Flags().StringVar(&req.Email, "email", "", "Email address (required)")
	createUserCmd.Flags().StringVar(&req.Password, "password", "", "Password, 8 to 72 characters (required)")
	createUserCmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	createUserCmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	createUserCmd.Flags().StringVar(&req.Role, "role", "admin", "Role: admin, member or developer")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
	userCmd.AddCommand(createUserCmd)

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed country reference data and create the store if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			countries := regionapp.NewCountryService(persistence.NewGormCountryRepository(e.db.DB), e.log)
			n, err := countries.EnsureCountries(ctx)
			if err != nil {
				return fmt.Errorf("seed countries: %w", err)
			}

			stores := storeapp.NewStoreService(
				persistence.NewGormStoreRepository(e.db.DB),
				persistence.NewGormCurrencyRepository(e.db.DB),
				persistence.NewGormTransactionScope(e.db.DB),
				e.bus,
				e.log,
			)
			store, err := stores.EnsureStore(ctx)
			if err != nil {
				return fmt.Errorf("ensure store: %w", err)
			}
			fmt.Printf("countries inserted: %d\nstore: %s (%s)\n", n, store.Name, store.ID)
			return nil
		},
	}

	root.AddCommand(userCmd, seedCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func connect(logLevel string) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stderr"})
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	db, err := persistence.NewDatabase(&cfg.Database, logger.NewGormLogger(log, logger.GormLevel(logLevel), time.Second))
	if err != nil {
		return nil, err
	}

	// events of CLI writes are only logged
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(event.NewAuditHandler(log, nil))
	if err := bus.Start(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &env{cfg: cfg, log: log, db: db, bus: bus}, nil
}

// validateRequest applies the request's binding tags, the same rules the
// HTTP handler enforces
func validateRequest(req identityapp.CreateUserRequest) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	if err := v.Struct(req); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}
	return nil
}
