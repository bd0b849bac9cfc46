// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Number grouping styles for formatted amounts.
const (
	GroupingIndian        = "indian"
	GroupingInternational = "international"
)

// Config holds application settings.
type Config struct {
	AppName               string
	CurrencySymbol        string
	CurrencyName          string
	NumberGrouping        string
	BOQPrefix             string
	QuotationPrefix       string
	DefaultTaxPercentage  float64
	QuotationValidityDays int
	StrictStatusFlow      bool
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		AppName:               "BuildSales",
		CurrencySymbol:        "₹",
		CurrencyName:          "Rupees",
		NumberGrouping:        GroupingIndian,
		BOQPrefix:             "BOQ",
		QuotationPrefix:       "QT",
		DefaultTaxPercentage:  18,
		QuotationValidityDays: 30,
		StrictStatusFlow:      true,
	}
}

// Load reads configuration from environment variables and an optional .env
// file. Invalid values fall back to their defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return Default(), fmt.Errorf("load env: %w", err)
	}
	return fromKoanf(k), nil
}

func fromKoanf(k *koanf.Koanf) Config {
	cfg := Default()
	cfg.AppName = valueOrDefault(k.String("APP_NAME"), cfg.AppName)
	cfg.CurrencySymbol = valueOrDefault(k.String("CURRENCY_SYMBOL"), cfg.CurrencySymbol)
	cfg.CurrencyName = valueOrDefault(k.String("CURRENCY_NAME"), cfg.CurrencyName)
	cfg.NumberGrouping = parseGrouping(k.String("NUMBER_GROUPING"))
	cfg.BOQPrefix = parsePrefix(k.String("BOQ_PREFIX"), cfg.BOQPrefix)
	cfg.QuotationPrefix = parsePrefix(k.String("QUOTATION_PREFIX"), cfg.QuotationPrefix)

	if tax, ok := lookup[float64](k, "DEFAULT_TAX_PERCENTAGE"); ok && tax >= 0 && tax <= 100 {
		cfg.DefaultTaxPercentage = tax
	}
	if days, ok := lookup[int](k, "QUOTATION_VALIDITY_DAYS"); ok && days > 0 {
		cfg.QuotationValidityDays = days
	}
	if strict, ok := lookup[bool](k, "STRICT_STATUS_FLOW"); ok {
		cfg.StrictStatusFlow = strict
	}
	return cfg
}

// lookup decodes key into a T through koanf's weakly typed unmarshalling.
// ok is false when the key is unset, blank or does not decode as T.
func lookup[T any](k *koanf.Koanf, key string) (T, bool) {
	var v T
	if strings.TrimSpace(k.String(key)) == "" {
		return v, false
	}
	if err := k.Unmarshal(key, &v); err != nil {
		return v, false
	}
	return v, true
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseGrouping(value string) string {
	if strings.EqualFold(strings.TrimSpace(value), GroupingInternational) {
		return GroupingInternational
	}
	return GroupingIndian
}

// parsePrefix keeps letters and digits only so generated numbers stay
// "<PREFIX>-<year>-<n>".
func parsePrefix(value, fallback string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(value)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
