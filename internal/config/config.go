package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ElementIDs names the DOM regions the console renders into.
type ElementIDs struct {
	Notifications      string `mapstructure:"notifications"`
	ProductsList       string `mapstructure:"productsList"`
	ProductForm        string `mapstructure:"productForm"`
	ProductName        string `mapstructure:"productName"`
	ProductDescription string `mapstructure:"productDescription"`
	ProductPrice       string `mapstructure:"productPrice"`
	InventoryForm      string `mapstructure:"inventoryForm"`
	SkuCode            string `mapstructure:"skuCode"`
	InventoryResult    string `mapstructure:"inventoryResult"`
	SkuListSection     string `mapstructure:"skuListSection"`
	SkuListContainer   string `mapstructure:"skuListContainer"`
	ShowSkuListBtn     string `mapstructure:"showSkuListBtn"`
	HideSkuListBtn     string `mapstructure:"hideSkuListBtn"`
	OrderForm          string `mapstructure:"orderForm"`
	OrderItems         string `mapstructure:"orderItems"`
	AddOrderItem       string `mapstructure:"addOrderItem"`
	OrderResult        string `mapstructure:"orderResult"`
	ServiceStatus      string `mapstructure:"serviceStatus"`
}

type Config struct {
	Port                string        `mapstructure:"port"`
	ProductServiceURL   string        `mapstructure:"productServiceUrl"`
	InventoryServiceURL string        `mapstructure:"inventoryServiceUrl"`
	OrderServiceURL     string        `mapstructure:"orderServiceUrl"`
	ElementIDs          ElementIDs    `mapstructure:"elementIds"`
	BrowseSKUs          []string      `mapstructure:"browseSkus"`
	BrowseSelectMode    string        `mapstructure:"browseSelectMode"`
	ShowPriceInput      bool          `mapstructure:"showPriceInput"`
	DefaultTab          string        `mapstructure:"defaultTab"`
	NotificationTTL     time.Duration `mapstructure:"notificationTtl"`
	NotificationStore   string        `mapstructure:"notificationStore"`
	RedisAddr           string        `mapstructure:"redisAddr"`
	HealthCheckEnabled  bool          `mapstructure:"healthCheckEnabled"`
	HealthCheckInterval time.Duration `mapstructure:"healthCheckInterval"`
	BackendTimeout      time.Duration `mapstructure:"backendTimeout"`
	SubmitGuard         bool          `mapstructure:"submitGuard"`
	CookieDomain        string        `mapstructure:"cookieDomain"`
	CookieSecure        bool          `mapstructure:"cookieSecure"`

	CSRFKey    []byte `mapstructure:"-"`
	SessionKey []byte `mapstructure:"-"`
}

// env maps config keys to the environment variables that override them.
var env = map[string]string{
	"port":                "PORT",
	"productServiceUrl":   "PRODUCT_SERVICE_URL",
	"inventoryServiceUrl": "INVENTORY_SERVICE_URL",
	"orderServiceUrl":     "ORDER_SERVICE_URL",
	"browseSkus":          "BROWSE_SKUS",
	"browseSelectMode":    "BROWSE_SELECT_MODE",
	"showPriceInput":      "SHOW_PRICE_INPUT",
	"defaultTab":          "DEFAULT_TAB",
	"notificationTtl":     "NOTIFICATION_TTL",
	"notificationStore":   "NOTIFICATION_STORE",
	"redisAddr":           "REDIS_ADDR",
	"healthCheckEnabled":  "HEALTH_CHECK_ENABLED",
	"healthCheckInterval": "HEALTH_CHECK_INTERVAL",
	"backendTimeout":      "BACKEND_TIMEOUT",
	"submitGuard":         "SUBMIT_GUARD",
	"cookieDomain":        "COOKIE_DOMAIN",
	"cookieSecure":        "COOKIE_SECURE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8585")
	v.SetDefault("productServiceUrl", "http://localhost:31309")
	v.SetDefault("inventoryServiceUrl", "http://localhost:31081")
	v.SetDefault("orderServiceUrl", "http://localhost:31004")
	v.SetDefault("browseSkus", []string{"iphone13_mini", "iphone13_pro_max"})
	v.SetDefault("browseSelectMode", "replace")
	v.SetDefault("showPriceInput", true)
	v.SetDefault("defaultTab", "products")
	v.SetDefault("notificationTtl", 5*time.Second)
	v.SetDefault("notificationStore", "memory")
	v.SetDefault("redisAddr", "localhost:6379")
	v.SetDefault("healthCheckEnabled", false)
	v.SetDefault("healthCheckInterval", 30*time.Second)
	v.SetDefault("backendTimeout", time.Duration(0))
	v.SetDefault("submitGuard", false)
	v.SetDefault("cookieDomain", "")
	v.SetDefault("cookieSecure", false)

	ids := map[string]string{
		"notifications":      "notifications",
		"productsList":       "productsList",
		"productForm":        "productForm",
		"productName":        "productName",
		"productDescription": "productDescription",
		"productPrice":       "productPrice",
		"inventoryForm":      "inventoryForm",
		"skuCode":            "skuCode",
		"inventoryResult":    "inventoryResult",
		"skuListSection":     "skuListSection",
		"skuListContainer":   "skuListContainer",
		"showSkuListBtn":     "showSkuListBtn",
		"hideSkuListBtn":     "hideSkuListBtn",
		"orderForm":          "orderForm",
		"orderItems":         "orderItems",
		"addOrderItem":       "addOrderItem",
		"orderResult":        "orderResult",
		"serviceStatus":      "serviceStatus",
	}
	for k, id := range ids {
		v.SetDefault("elementIds."+k, id)
	}
}

// LoadConfig reads defaults, then the optional file named by CONFIG_FILE,
// then environment variables.
func LoadConfig() (*Config, error) {
	return load(os.Getenv("CONFIG_FILE"))
}

func load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	for key, name := range env {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("bind %s: %w", name, err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.BrowseSKUs = splitCSV(cfg.BrowseSKUs)

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT. Falling back to default.", "PORT", cfg.Port)
		cfg.Port = "8585"
	}

	switch cfg.BrowseSelectMode {
	case "replace", "append":
	default:
		return nil, fmt.Errorf("browseSelectMode must be replace or append, got %q", cfg.BrowseSelectMode)
	}
	switch cfg.DefaultTab {
	case "products", "inventory", "orders":
	default:
		return nil, fmt.Errorf("defaultTab must be products, inventory or orders, got %q", cfg.DefaultTab)
	}
	switch cfg.NotificationStore {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("notificationStore must be memory or redis, got %q", cfg.NotificationStore)
	}
	if cfg.NotificationTTL <= 0 {
		return nil, fmt.Errorf("notificationTtl must be positive, got %s", cfg.NotificationTTL)
	}

	cfg.CSRFKey = loadKey("CSRF_KEY")
	cfg.SessionKey = loadKey("SESSION_KEY")

	return cfg, nil
}

// loadKey decodes a base64 key from the environment. Missing or short keys are
// replaced by random ones, which do not survive a restart.
func loadKey(name string) []byte {
	raw := os.Getenv(name)
	if raw == "" {
		slog.Warn(name + " environment variable not set. Generating a random key for development. PLEASE SET " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(decoded) < 32 {
		slog.Warn(name + " is invalid or too short (min 32 bytes recommended). Generating a random key for development.")
		return generateRandomBytes(32)
	}
	return decoded
}

// env values arrive as one comma-separated string; config files as a list.
func splitCSV(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, p := range strings.Split(s, ",") {
			if t := strings.TrimSpace(p); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// generateRandomBytes generates a random byte slice of specified length
// Uses crypto/rand for secure random numbers.
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		fallbackKey := "fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		if len(fallbackKey) < n {
			paddedKey := make([]byte, n)
			copy(paddedKey, fallbackKey)
			return paddedKey
		}
		return []byte(fallbackKey)[:n]
	}
	return b
}
