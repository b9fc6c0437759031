package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	PoolBackendPostgres = "postgres"
	PoolBackendRedis    = "redis"
)

// CarrierEndpoint is where the JSON adapter of one carrier posts rate and ship calls.
type CarrierEndpoint struct {
	Code    int
	BaseURL string
	Token   string
}

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisURL    string
	PoolBackend string

	KafkaBrokers             []string
	KafkaShipmentBookedTopic string
	KafkaLegOnHoldTopic      string

	NorthernProvinces          []string
	RemotePostalPrefixes       []string
	OptionExemptCarriers       []int
	PreassignedWaybillCarriers []int
	BatteryOnlyCarriers        []int
	LimitedOnlyGroundCarriers  []int
	CrossDockFee               decimal.Decimal
	StrictDangerousGoods       bool

	CarrierEndpoints []CarrierEndpoint
	CarrierTimeout   time.Duration
	RatingTimeout    time.Duration

	OnHoldLegsSchedule       string
	StrandedWaybillsSchedule string
	StrandedAfter            time.Duration
}

// LoadConfig reads the environment after loading path. A missing file is not an
// error; the process environment alone is enough.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}

	e := &envReader{}
	cfg := Config{
		HTTPPort:   e.str("HTTP_PORT", "8080"),
		DBHost:     e.str("DB_HOST", "localhost"),
		DBPort:     e.str("DB_PORT", "5432"),
		DBUser:     e.str("DB_USER", "postgres"),
		DBPassword: e.str("DB_PASSWORD", ""),
		DBName:     e.str("DB_NAME", "freight"),
		DBSslMode:  e.str("DB_SSLMODE", "disable"),

		RedisURL:    e.str("REDIS_URL", "redis://localhost:6379/0"),
		PoolBackend: strings.ToLower(e.str("WAYBILL_POOL_BACKEND", PoolBackendPostgres)),

		KafkaBrokers:             e.list("KAFKA_BROKERS", "localhost:9092"),
		KafkaShipmentBookedTopic: e.str("KAFKA_SHIPMENT_BOOKED_TOPIC", "freight.shipment.booked"),
		KafkaLegOnHoldTopic:      e.str("KAFKA_LEG_ON_HOLD_TOPIC", "freight.leg.on_hold"),

		NorthernProvinces:          e.list("NORTHERN_PROVINCES", "NU,NT,YT"),
		RemotePostalPrefixes:       e.list("REMOTE_POSTAL_PREFIXES", ""),
		OptionExemptCarriers:       e.ints("OPTION_EXEMPT_CARRIERS"),
		PreassignedWaybillCarriers: e.ints("PREASSIGNED_WAYBILL_CARRIERS"),
		BatteryOnlyCarriers:        e.ints("BATTERY_ONLY_CARRIERS"),
		LimitedOnlyGroundCarriers:  e.ints("LIMITED_ONLY_GROUND_CARRIERS"),
		CrossDockFee:               e.amount("CROSS_DOCK_FEE", "50.00"),
		StrictDangerousGoods:       e.flag("DG_STRICT", true),

		CarrierEndpoints: e.endpoints("CARRIER_ENDPOINTS", "CARRIER_TOKENS"),
		CarrierTimeout:   e.duration("CARRIER_TIMEOUT", "30s"),
		RatingTimeout:    e.duration("RATING_TIMEOUT", "10s"),

		OnHoldLegsSchedule:       e.str("ON_HOLD_LEGS_SCHEDULE", "0 */15 * * * *"),
		StrandedWaybillsSchedule: e.str("STRANDED_WAYBILLS_SCHEDULE", "0 0 * * * *"),
		StrandedAfter:            e.duration("STRANDED_WAYBILL_AFTER", "1h"),
	}

	if cfg.PoolBackend != PoolBackendPostgres && cfg.PoolBackend != PoolBackendRedis {
		e.fail("WAYBILL_POOL_BACKEND", fmt.Errorf("%q is neither %s nor %s", cfg.PoolBackend, PoolBackendPostgres, PoolBackendRedis))
	}
	if e.err != nil {
		return Config{}, e.err
	}
	return cfg, nil
}

// DSN is the gorm postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// envReader collects every malformed variable instead of stopping at the first.
type envReader struct {
	err error
}

func (e *envReader) fail(key string, err error) {
	e.err = errors.Join(e.err, fmt.Errorf("%s: %w", key, err))
}

func (e *envReader) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (e *envReader) list(key, def string) []string {
	var out []string
	for _, item := range strings.Split(e.str(key, def), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (e *envReader) ints(key string) []int {
	var out []int
	for _, item := range e.list(key, "") {
		n, err := strconv.Atoi(item)
		if err != nil {
			e.fail(key, err)
			continue
		}
		out = append(out, n)
	}
	return out
}

func (e *envReader) flag(key string, def bool) bool {
	b, err := strconv.ParseBool(e.str(key, strconv.FormatBool(def)))
	if err != nil {
		e.fail(key, err)
		return def
	}
	return b
}

func (e *envReader) duration(key, def string) time.Duration {
	d, err := time.ParseDuration(e.str(key, def))
	if err != nil {
		e.fail(key, err)
	}
	return d
}

func (e *envReader) amount(key, def string) decimal.Decimal {
	d, err := decimal.NewFromString(e.str(key, def))
	if err != nil {
		e.fail(key, err)
	}
	return d
}

// endpoints reads "code=url" pairs from urlKey and optional "code=token" pairs
// from tokenKey.
func (e *envReader) endpoints(urlKey, tokenKey string) []CarrierEndpoint {
	tokens := e.pairs(tokenKey)
	var out []CarrierEndpoint
	for code, url := range e.pairs(urlKey) {
		out = append(out, CarrierEndpoint{Code: code, BaseURL: url, Token: tokens[code]})
	}
	slices.SortFunc(out, func(a, b CarrierEndpoint) int { return a.Code - b.Code })
	return out
}

func (e *envReader) pairs(key string) map[int]string {
	out := make(map[int]string)
	for _, item := range e.list(key, "") {
		k, v, ok := strings.Cut(item, "=")
		if !ok {
			e.fail(key, fmt.Errorf("%q is not code=value", item))
			continue
		}
		code, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			e.fail(key, err)
			continue
		}
		out[code] = strings.TrimSpace(v)
	}
	return out
}
