package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"shelf-go/internal/app"
	"shelf-go/internal/config"
	"shelf-go/internal/shelf"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file named by the defaults.
func loadConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// newApp reads the config and creates a ShelfApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Run", "CreateShare").
func newApp(ctx context.Context, operation string) (*app.ShelfApp, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewShelfApp(ctx, cfg, operation, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:          "shelf",
	Short:        "Chat-driven personal folder tree",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		instanceID := uuid.New().String()
		cfg := config.NewConfig(instanceID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Instance ID: %s\n", instanceID)
		fmt.Printf("Base Dir:    %s\n", defaults["base_dir"])
		fmt.Printf("State File:  %s\n", cfg.Store.Path)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Instance ID: %s\n", cfg.InstanceID)
		fmt.Printf("Base Dir:    %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Log Level:   %s\n", cfg.LogLevel)
		fmt.Printf("Store:       %s\n", describeStore(cfg.Store))
		fmt.Printf("Retry:       %d attempts, %s..%s\n", cfg.Retry.MaxAttempts, cfg.Retry.InitialInterval(), cfg.Retry.MaxInterval())
		fmt.Printf("Transport:   %s (%s)\n", cfg.Transport.Type, cfg.Transport.Format)
		if err := cfg.Validate(); err != nil {
			fmt.Printf("\nInvalid: %v\n", err)
		}
		return nil
	},
}

func describeStore(s config.StoreConfig) string {
	switch s.Type {
	case "file":
		return "file " + s.Path
	case "sqlite":
		return fmt.Sprintf("sqlite %s (keep %d)", s.DataDir, s.KeepSnapshots)
	case "s3":
		return fmt.Sprintf("s3 s3://%s/%s (%s)", s.S3Bucket, s.S3Prefix, s.S3Region)
	}
	return s.Type
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the sqlite state store",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		status, err := app.MigrateDatabase(cfg)
		if err != nil {
			return err
		}
		fmt.Printf("Schema at version %d\n", status.Current)
		return nil
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "View schema version and retained snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		report, err := app.InspectDatabase(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		fmt.Printf("Database: %s\n", report.Path)
		fmt.Printf("Schema:   version %d of %d", report.Schema.Current, report.Schema.Latest)
		switch {
		case report.Schema.Dirty:
			fmt.Print(" (dirty)")
		case report.Schema.Pending() > 0:
			fmt.Printf(" (%d pending, run 'shelf db migrate')", report.Schema.Pending())
		}
		fmt.Println()

		if len(report.Snapshots) == 0 {
			fmt.Println("No snapshots.")
			return nil
		}
		for _, s := range report.Snapshots {
			fmt.Printf("#%d  %s  %d bytes\n", s.Version, s.SavedAt.Format("2006-01-02 15:04:05"), s.Size)
		}
		return nil
	},
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup DEST",
	Short: "Copy the database to DEST",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := app.BackupDatabase(cfg, args[0]); err != nil {
			return err
		}
		fmt.Printf("Backed up to %s\n", args[0])
		return nil
	},
}

// run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Serve chat events from stdin",
	Long: `Serve chat events read one per line from stdin, writing replies,
menus and delivered content to stdout.

Text format:
  alice hello world          submit text
  alice /mkdir Work          slash command
  alice !folder:Work m1      press a menu button on message m1
  alice +photo <handle>      submit a photo (document takes a file name too)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, "Run")
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Run(ctx, os.Stdin)
	},
}

// tree command
var treeCmd = &cobra.Command{
	Use:   "tree USER",
	Short: "Print a user's folder tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Tree")
		if err != nil {
			return err
		}
		defer a.Close()

		root, current, err := a.Tree(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Current: %s\n", shelf.FormatPath(current))
		root.Walk(func(path []string, folder *shelf.Folder) {
			indent := strings.Repeat("  ", len(path))
			name := "/"
			if len(path) > 0 {
				name = path[len(path)-1] + "/"
			}
			fmt.Printf("%s%s\n", indent, name)
			for _, item := range folder.Files {
				label := item.FileName
				if label == "" {
					label = item.Payload()
				}
				fmt.Printf("%s  [%s] %s  %s\n", indent, item.Kind, item.ShortID, label)
			}
		})
		return nil
	},
}

// share command
var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Manage shared folders",
}

var shareCreateCmd = &cobra.Command{
	Use:   "create USER PATH",
	Short: "Share a folder of USER's tree read-only",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "CreateShare")
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.CreateShare(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("sharing: %w", err)
		}

		fmt.Printf("Share key: %s\n", rec.Key)
		fmt.Printf("Path:      %s\n", shelf.FormatPath(rec.BasePath))
		return nil
	},
}

var shareListCmd = &cobra.Command{
	Use:   "list [USER]",
	Short: "List share records",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Shares")
		if err != nil {
			return err
		}
		defer a.Close()

		owner := ""
		if len(args) > 0 {
			owner = args[0]
		}
		shares, err := a.Shares(cmd.Context(), owner)
		if err != nil {
			return err
		}

		if len(shares) == 0 {
			fmt.Println("No shares.")
			return nil
		}
		for _, rec := range shares {
			fmt.Printf("%s  %-12s  %s  %s\n",
				rec.Key,
				rec.OwnerID,
				rec.CreatedAt.Format("2006-01-02 15:04:05"),
				shelf.FormatPath(rec.BasePath),
			)
		}
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// db subcommands
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbBackupCmd)

	// share subcommands
	shareCmd.AddCommand(shareCreateCmd)
	shareCmd.AddCommand(shareListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(shareCmd)
}
