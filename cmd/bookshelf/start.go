package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	bookshelf "github.com/alecaivazis/graphql-bookshelf"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the api",
	RunE:  StartServer,
}

func init() {
	defaults := bookshelf.DefaultConfig()

	// add the configuration parameters for the start command
	startCmd.Flags().IntP("port", "p", defaults.Port, "the port to listen on.")
	startCmd.Flags().String("host", defaults.Host, "the interface to listen on.")
	startCmd.Flags().StringP("data", "d", defaults.DataFile, "a json, yaml or toml file with the records to serve. Defaults to the sample data")
	startCmd.Flags().String("loglevel", defaults.LogLevel, "one of Trace, Debug, Info, Warn")
	startCmd.Flags().Bool("playground", defaults.Playground, "serve the playground ui at /")
	startCmd.Flags().Bool("h2c", defaults.H2C, "accept http2 connections without tls")
	startCmd.Flags().Int("maxparallelism", defaults.MaxParallelism, "how many fields of an operation can be resolved at once")
	startCmd.Flags().Bool("skipintegritycheck", defaults.SkipIntegrityCheck, "accept data with references to records that do not exist")
	startCmd.Flags().Bool("persistedqueries", defaults.PersistedQueries, "let clients send the hash of a document they have sent before")

	// add the start command to the root executable
	rootCmd.AddCommand(startCmd)
}

// loadConfig merges the flags of the command over the environment, the config file and the defaults
func loadConfig(cmd *cobra.Command) (bookshelf.Config, error) {
	if err := bookshelf.LoadDotEnv(".env", ".env.local"); err != nil {
		return bookshelf.Config{}, err
	}

	v, err := bookshelf.NewViper(configFile)
	if err != nil {
		return bookshelf.Config{}, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return bookshelf.Config{}, err
	}

	return bookshelf.LoadConfig(v)
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for _, name := range []string{"port", "host", "data", "loglevel", "playground", "h2c", "maxparallelism", "skipintegritycheck", "persistedqueries"} {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(name, flag); err != nil {
			return err
		}
	}
	return nil
}

// StartServer begins an http server running the api
func StartServer(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := bookshelf.NewLogger(config.LogLevel, nil)
	if err != nil {
		return err
	}

	store, err := bookshelf.OpenStore(config)
	if err != nil {
		return err
	}
	logger.WithFields(bookshelf.LoggerFields{
		"books":   len(store.Books()),
		"users":   len(store.Users()),
		"markets": len(store.Markets()),
	}).Info("loaded store")

	opts := []bookshelf.Option{
		bookshelf.WithLogger(logger),
		bookshelf.WithPlayground(config.Playground),
		bookshelf.WithMaxParallelism(config.MaxParallelism),
	}
	if config.PersistedQueries {
		opts = append(opts, bookshelf.WithAutomaticQueryCache())
	}

	server, err := bookshelf.New(store, opts...)
	if err != nil {
		return err
	}

	// stop serving when we are asked to
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return bookshelf.ListenAndServe(ctx, config, server)
}
