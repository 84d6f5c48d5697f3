// Package config provides functionality for managing configuration options
// for the application using command-line flags, an optional JSON config
// file, and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string

	// DataFile is the path of the JSON snapshot document. Used only when
	// DatabaseDSN is empty.
	DataFile string

	// DatabaseDSN selects the PostgreSQL backend when non-empty.
	DatabaseDSN string

	// Pins is the multi-PIN credential string ("pin:Program,pin2:Program2").
	Pins string

	// Pin is the single shared secret. Ignored when Pins yields at least
	// one valid entry.
	Pin string

	// Config is the path to the config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", ":10000", "run on ip:port server")
	flag.StringVar(&options.DataFile, "f", "data/ledger.json", "path to the JSON ledger file")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.Pins, "pins", "", "multi-PIN credentials (pin:Program,...)")
	flag.StringVar(&options.Pin, "pin", "", "single shared PIN")
	flag.StringVar(&options.Config, "config", "", "path to config file")
	flag.StringVar(&options.Config, "c", "", "path to config file (shorthand)")
}

// Parse parses the command-line flags, optional config file, and environment
// variables to set configuration values. Environment variables win over the
// config file, which wins over flag defaults. It returns a pointer to the
// Options struct containing the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Addr = serverAddress
	}
	if dataFile := os.Getenv("CASHFLOW_DATA_FILE"); dataFile != "" {
		options.DataFile = dataFile
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if pins := os.Getenv("CASHFLOW_PINS"); pins != "" {
		options.Pins = pins
	}
	if pin := os.Getenv("CASHFLOW_PIN"); pin != "" {
		options.Pin = pin
	}

	return options
}
