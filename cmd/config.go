// SPDX-License-Identifier: MIT

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"
)

// Config is everything needed to reach one printer.
type Config struct {
	Host       string // printer IP or hostname
	Serial     string // printer serial number
	AccessCode string // LAN access code (MQTT password)
	DebugLog   string // optional path for a raw report dump, "" = disabled
}

// LoadConfig assembles the printer configuration from the environment,
// after loading a .env file from the working directory if one exists.
// Variables already set in the environment win over .env values. Missing
// host or serial is a fatal configuration error; a missing access code
// falls back to an interactive prompt when stdin is a terminal.
func LoadConfig() (*Config, error) {
	// godotenv.Load never overwrites existing environment variables.
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Host:       os.Getenv("BAMBU_IP"),
		Serial:     os.Getenv("BAMBU_SERIAL"),
		AccessCode: os.Getenv("BAMBU_ACCESS_CODE"),
		DebugLog:   os.Getenv("BAMBU_DEBUG"),
	}

	var missing []string
	if cfg.Host == "" {
		missing = append(missing, "BAMBU_IP")
	}
	if cfg.Serial == "" {
		missing = append(missing, "BAMBU_SERIAL")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s (set in the environment or a .env file)",
			strings.Join(missing, ", "))
	}

	if cfg.AccessCode == "" {
		code, err := promptAccessCode()
		if err != nil {
			return nil, err
		}
		if code == "" {
			return nil, fmt.Errorf("BAMBU_ACCESS_CODE not set and no code entered")
		}
		cfg.AccessCode = code
	}

	return cfg, nil
}

// promptAccessCode reads the access code from the terminal without echo.
func promptAccessCode() (string, error) {
	fmt.Fprint(os.Stderr, "Access code: ")

	codeBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		code, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read access code: %v", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(code), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(codeBytes), nil
}
