// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for Vaultara using the Cobra
// library. It defines the root command, the vault subcommands (init,
// heartbeat, fund, trigger, ...), flags, and the service wiring shared by
// all of them.

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vaultara/vaultara/buildvars"
	"github.com/vaultara/vaultara/internal/config"
	"github.com/vaultara/vaultara/internal/core"
	"github.com/vaultara/vaultara/internal/db"
	"github.com/vaultara/vaultara/internal/history"
	"github.com/vaultara/vaultara/internal/i18n"
	"github.com/vaultara/vaultara/internal/logging"
	"github.com/vaultara/vaultara/internal/seal"
)

var version = buildvars.VersionOrDefault("dev")
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

var cfgFile string
var fromIdentity string // --from: caller identity override for watchdogs and funders
var verbose bool
var showVersionFlag bool

var appConfig config.Config
var service *core.Service

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := map[string]any{
		"database.type":                 "sqlite",
		"database.dsn":                  "./vaultara.db",
		"language":                      "en",
		"history.poll_interval_seconds": int(history.DefaultPollInterval / time.Second),
	}

	appConfig, err = config.LoadConfig(cmd, defaults, optionalConfigPath)
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		// First run, or the config file was deleted. Create a default one.
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			log.Warnf("Warning: could not write default config file: %v", writeErr)
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Guard against empty values in an existing config file.
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.DSN == "" {
		appConfig.Database.DSN = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}

	i18n.Init(appConfig.Language)

	if appConfig.Debug || verbose {
		logging.SetDebug(true)
		db.SetDebug(true)
	}

	if !db.IsInitialized() {
		if err := db.InitDB(appConfig.Database.Type, appConfig.Database.DSN); err != nil {
			return fmt.Errorf("could not initialize database: %w", err)
		}
	}

	if appConfig.Owner == "" {
		return errors.New("no vault owner configured; set 'owner' in the config file or pass --owner")
	}

	service = core.NewService(db.DefaultStore(), appConfig.Owner, core.WithSealer(newSealAdapter()))
	return nil
}

// newSealAdapter builds the seal adapter from the configured secret. Without
// a secret the adapter runs in permanent fallback mode and every stored
// metadata blob is readable by anyone who can read the ledger.
func newSealAdapter() *seal.Adapter {
	if appConfig.Seal.Secret == "" {
		return seal.New(nil)
	}
	svc, err := seal.NewAEADService([]byte(appConfig.Seal.Secret))
	if err != nil {
		log.Warnf("seal service unavailable, metadata will use the fallback encoding: %v", err)
		return seal.New(nil)
	}
	return seal.New(svc)
}

// caller returns the identity a command acts as: --from wins, then the
// configured identity, then the owner.
func caller() string {
	if fromIdentity != "" {
		return fromIdentity
	}
	if appConfig.Identity != "" {
		return appConfig.Identity
	}
	return appConfig.Owner
}

// Execute runs the CLI entrypoint. The root main package should call this
// function and handle process exit.
func Execute() error {
	rootCmd := NewRootCmd()
	return rootCmd.Execute()
}

func applyDefaultFlags(cmd *cobra.Command) {
	// NewRootCmd may be called multiple times in tests; pflag panics on
	// duplicate flag definitions, so check first.
	if cmd.Flags().Lookup("database.type") == nil {
		cmd.Flags().String("database.type", "sqlite", "Database type (e.g., sqlite, postgres, mysql)")
	}
	if cmd.Flags().Lookup("database.dsn") == nil {
		cmd.Flags().String("database.dsn", "./vaultara.db", "Database connection string (DSN)")
	}
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only honor --config when the user explicitly set it.
	if cmd.Flags().Changed("config") {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return nil, fmt.Errorf("could not read --config flag: %w", err)
		}
		if path == "" {
			return nil, nil
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
		}
		return &path, nil
	}
	return nil, nil
}

// NewRootCmd creates and configures a new root cobra command. This function
// is used to create the main application command as well as fresh instances
// for isolated testing.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaultara",
		Short: "Vaultara is a dead-man's-switch inheritance vault.",
		Long: `Vaultara custodies value behind a heartbeat. The owner proves liveness
by sending periodic heartbeats; when the heartbeat lapses, anyone may
trigger the one-time pro-rata distribution to the registered
beneficiaries. Until that moment the owner can always rescue the vault
with a fresh heartbeat.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				fmt.Println(compositeVersion())
				os.Exit(0)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	cmd.Version = compositeVersion()

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (sets -v for DB logs)")
	cmd.PersistentFlags().BoolVarP(&showVersionFlag, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("owner", "", "Vault owner identity (ledger address)")
	cmd.PersistentFlags().String("language", "en", `Output language ("en", "de")`)

	applyDefaultFlags(cmd)
	for _, sub := range []*cobra.Command{
		initCmd, heartbeatCmd, fundCmd, deactivateCmd, withdrawCmd,
		triggerCmd, statusCmd, beneficiaryCmd, revealCmd, historyCmd,
		backupCmd, restoreCmd,
	} {
		applyDefaultFlags(sub)
	}

	if initCmd.Flags().Lookup("interval-days") == nil {
		initCmd.Flags().Int("interval-days", 0, "Heartbeat interval in days (required)")
		_ = initCmd.MarkFlagRequired("interval-days")
	}
	for _, sub := range []*cobra.Command{fundCmd, triggerCmd, revealCmd} {
		if sub.Flags().Lookup("from") == nil {
			sub.Flags().StringVar(&fromIdentity, "from", "", "Identity to act as (defaults to the configured identity)")
		}
	}
	if historyCmd.Flags().Lookup("follow") == nil {
		historyCmd.Flags().BoolP("follow", "f", false, "Keep polling and print updates until interrupted")
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			fmt.Printf("version: %s\n", v)
			fmt.Printf("commit: %s\n", c)
			if d != "" {
				fmt.Printf("built: %s\n", d)
			}
		},
	}

	cmd.AddCommand(
		initCmd,
		heartbeatCmd,
		fundCmd,
		deactivateCmd,
		withdrawCmd,
		triggerCmd,
		statusCmd,
		beneficiaryCmd,
		revealCmd,
		historyCmd,
		backupCmd,
		restoreCmd,
		versionCmd,
	)

	return cmd
}

func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	out := v
	if c != "" && c != "dev" {
		out = out + " (" + c + ")"
	}
	if d != "" {
		out = out + " built: " + d
	}
	return out
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime. This helper is separated to make unit testing straightforward.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := version
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	var ok bool
	if info == nil {
		if infoLocal, found := debug.ReadBuildInfo(); found {
			info = infoLocal
			ok = true
		}
	} else {
		ok = true
	}

	if ok && info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		if (resolvedVersion == "dev" || resolvedVersion == "(devel)") && info.Deps != nil {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/vaultara/vaultara" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}

// fail prints a user-facing error and exits. Vault rule violations render as
// translated messages; everything else prints verbatim.
func fail(err error) {
	fmt.Fprintln(os.Stderr, renderError(err))
	os.Exit(1)
}

// formatUnits renders a raw unit amount with thousands separators.
func formatUnits(amount uint64) string {
	s := fmt.Sprintf("%d", amount)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
