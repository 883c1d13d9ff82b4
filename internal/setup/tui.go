package setup

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/avolkhov/marketcore/config"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

func clearScreen() {
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("MARKETCORE CONFIG WIZARD"))
}

// RunTUI launches the terminal configuration wizard and writes the
// resulting pair configuration to config.gen.yaml.
func RunTUI() error {
	var (
		platform        string
		pair            string
		interval        string
		timeRange       string
		candleLimitStr  string
		binCountStr     string
		pollIntervalStr string
		confirm         bool
	)

	// defaults
	interval = "1h"
	timeRange = "weekly"
	candleLimitStr = "200"
	binCountStr = "50"
	pollIntervalStr = "5m"

	clearScreen()
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Let's set up your market analytics.\n"))

	fmt.Println(stepStyle.Render("STEP 1: PLATFORM"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select Exchange Platform").
				Options(
					huh.NewOption("Binance", "binance"),
					huh.NewOption("Bybit", "bybit"),
					huh.NewOption("Hyperliquid", "hyperliquid"),
				).
				Value(&platform),
		),
	).Run()
	if err != nil {
		return err
	}

	clearScreen()
	fmt.Println(stepStyle.Render("STEP 2: ASSET"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Trading Pair").
				Description("Must contain underscore (e.g. BTC_USDT)").
				Value(&pair).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("pair cannot be empty")
					}
					if _, err := config.PairFromString(s); err != nil {
						return fmt.Errorf("invalid format: must be BASE_QUOTE (e.g. BTC_USDT)")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	clearScreen()
	fmt.Println(stepStyle.Render("STEP 3: WINDOWS"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Candle Interval").
				Options(
					huh.NewOption("15 minutes", "15m"),
					huh.NewOption("1 hour", "1h"),
					huh.NewOption("4 hours", "4h"),
					huh.NewOption("1 day", "1d"),
				).
				Value(&interval),
			huh.NewSelect[string]().
				Title("Composite Time Range").
				Options(
					huh.NewOption("Daily", "daily"),
					huh.NewOption("Weekly (168 candles)", "weekly"),
					huh.NewOption("Monthly (720 candles)", "monthly"),
				).
				Value(&timeRange),
			huh.NewInput().
				Title("Candle History Limit").
				Description("How many candles to fetch per pass (e.g. 200)").
				Value(&candleLimitStr).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Profile Bin Count").
				Description("Price bins per volume profile (default 50)").
				Value(&binCountStr).
				Validate(validatePositiveInt),
		),
	).Run()
	if err != nil {
		return err
	}

	clearScreen()
	fmt.Println(stepStyle.Render("STEP 4: TIMING"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Poll Interval").
				Description("Duration between analysis passes (e.g. 1m, 5m); empty for a single pass").
				Value(&pollIntervalStr).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					_, err := time.ParseDuration(s)
					return err
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	clearScreen()
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Platform: %s\nPair: %s\nInterval: %s\nTime Range: %s\nCandles: %s\nBins: %s\nPoll: %s\n",
		platform, pair, interval, timeRange, candleLimitStr, binCountStr, pollIntervalStr,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	var pollInterval time.Duration
	if pollIntervalStr != "" {
		pollInterval, _ = time.ParseDuration(pollIntervalStr)
	}

	configs := []config.ConfigTmp{{
		Platform:       platform,
		Pair:           pair,
		Interval:       interval,
		TimeRange:      timeRange,
		CandleLimitStr: candleLimitStr,
		BinCountStr:    binCountStr,
		PollInterval:   pollInterval,
	}}

	data, err := yaml.Marshal(configs)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	filename := "config.gen.yaml"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s\nStarting analyzer...", filename)))
	time.Sleep(1500 * time.Millisecond) // small pause to read success message
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}
