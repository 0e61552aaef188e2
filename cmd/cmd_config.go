package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"auction_scout/internal/config"
)

const envFile = ".env"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the fee configuration",
	RunE:  runConfigView,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a fee configuration value",
	Long: `Validate and persist a fee configuration value to the .env file.
Keys mirror the configuration fields, e.g.:

  auction-scout config set ebay_fee_percent 12.35
  auction-scout config set min_profit_margin 40`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigView(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	for _, key := range config.Keys() {
		value, err := cfg.Fees.Get(key)
		if err != nil {
			return err
		}

		fmt.Fprintf(tw, "%s\t%s\n", key, strconv.FormatFloat(value, 'f', -1, 64))
	}

	return tw.Flush()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, rawValue := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// валидация до записи: невалидное значение не должно попасть в .env
	if err = cfg.Fees.Set(key, rawValue); err != nil {
		return err
	}

	env, err := godotenv.Read(envFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("godotenv.Read: %w", err)
		}
		env = map[string]string{}
	}

	env[strings.ToUpper(key)] = rawValue

	if err = godotenv.Write(env, envFile); err != nil {
		return fmt.Errorf("godotenv.Write: %w", err)
	}

	fmt.Printf("%s = %s\n", key, rawValue)

	return nil
}
