package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MarkoPoloResearchLab/bankaccount/internal/accountapi"
	"github.com/MarkoPoloResearchLab/bankaccount/internal/accountlog"
	"github.com/MarkoPoloResearchLab/bankaccount/internal/script"
	"github.com/MarkoPoloResearchLab/bankaccount/pkg/account"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	flagLogLevel        = "log-level"
	flagListenAddr      = "listen-addr"
	flagAllowedOrigins  = "allowed-origins"
	flagRules           = "rules"
	flagShutdownTimeout = "shutdown-timeout"
	envPrefix           = "BANKACCOUNT"
	defaultLogLevel     = "info"
	stdinScriptName     = "-"
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bankaccount: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "bankaccount",
		Short:         "Single bank account state machine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String(flagLogLevel, defaultLogLevel, "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String(flagRules, "default", "transition rules ("+strings.Join(account.RulesNames(), ", ")+")")

	cmd.AddCommand(newServeCommand(v), newRunCommand(v))
	return cmd
}

func newServeCommand(v *viper.Viper) *cobra.Command {
	cfg := accountapi.Config{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the account over HTTP",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadServeConfig(cmd, v, &cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			logger, err := accountlog.NewLogger(v.GetString(flagLogLevel))
			if err != nil {
				return fmt.Errorf("logger init: %w", err)
			}
			defer func() { _ = logger.Sync() }()
			return accountapi.Run(ctx, cfg, logger)
		},
	}

	cmd.Flags().String(flagListenAddr, "", "HTTP listen address (default :8080)")
	cmd.Flags().String(flagAllowedOrigins, "", "comma-separated list of allowed CORS origins")
	cmd.Flags().Duration(flagShutdownTimeout, 0, "graceful shutdown timeout (e.g. 5s)")

	return cmd
}

func newRunCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "run [script]",
		Short: "Apply an action script and print each resulting snapshot as JSON",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, v, flagLogLevel, flagRules)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := account.ParseRules(v.GetString(flagRules))
			if err != nil {
				return err
			}
			logger, err := accountlog.NewLogger(v.GetString(flagLogLevel))
			if err != nil {
				return fmt.Errorf("logger init: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			reader, closeReader, err := openScript(cmd, args)
			if err != nil {
				return err
			}
			defer closeReader()
			return runScript(cmd.Context(), reader, cmd.OutOrStdout(), rules, logger)
		},
	}
}

func bindFlags(cmd *cobra.Command, v *viper.Viper, names ...string) error {
	for _, name := range names {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			flag = cmd.InheritedFlags().Lookup(name)
		}
		if flag == nil {
			return fmt.Errorf("unknown flag %s", name)
		}
		if err := v.BindPFlag(name, flag); err != nil {
			return err
		}
	}
	return nil
}

func loadServeConfig(cmd *cobra.Command, v *viper.Viper, cfg *accountapi.Config) error {
	if err := bindFlags(cmd, v, flagLogLevel, flagRules, flagListenAddr, flagAllowedOrigins, flagShutdownTimeout); err != nil {
		return err
	}
	cfg.ListenAddr = strings.TrimSpace(v.GetString(flagListenAddr))
	cfg.AllowedOrigins = accountapi.ParseAllowedOrigins(v.GetString(flagAllowedOrigins))
	cfg.RulesName = strings.TrimSpace(v.GetString(flagRules))
	cfg.ShutdownTimeout = v.GetDuration(flagShutdownTimeout)
	return cfg.Validate()
}

func openScript(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == stdinScriptName {
		return cmd.InOrStdin(), func() {}, nil
	}
	file, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("open script: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}

func runScript(ctx context.Context, reader io.Reader, writer io.Writer, rules account.Rules, logger *zap.Logger) error {
	actions, err := script.Parse(reader)
	if err != nil {
		return err
	}
	session, err := account.NewSession(
		account.WithRules(rules),
		account.WithOperationLogger(accountlog.NewZapLogger(logger)),
	)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(writer)
	for _, action := range actions {
		state, err := session.Dispatch(ctx, action)
		if err != nil {
			return err
		}
		if err := encoder.Encode(state); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	}
	return nil
}
