package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

const (
	defaultMongoURI        = "mongodb://localhost:27017"
	defaultMongoDB         = "idlikadai"
	defaultRedisAddr       = "localhost:6379"
	defaultJWTSecret       = "change-me-in-production"
	defaultTokenHours      = 24
	defaultAppPort         = "5000"
	defaultAppEnv          = "local"
	defaultSellerUsername  = "seller"
	defaultSellerEmail     = "seller@koththu.com"
	defaultSellerPassword  = "seller123"
	defaultUploadsRoot     = "uploads"
	defaultUploadsURL      = "/uploads"
	defaultCORSOrigins     = "http://localhost:5173,http://localhost:3000"
	defaultMailFromName    = "idli kadai"
	defaultMailFromAddress = "orders@idlikadai.app"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"MONGO_URI":            defaultMongoURI,
		"MONGO_DB":             defaultMongoDB,
		"JWT_SECRET":           defaultJWTSecret,
		"JWT_EXPIRATION_HOURS": strconv.Itoa(defaultTokenHours),
		"APP_PORT":             defaultAppPort,
		"APP_ENV":              defaultAppEnv,
		"CORS_ORIGINS":         defaultCORSOrigins,
		"REDIS_ADDR":           defaultRedisAddr,
		"REDIS_PASSWORD":       "",
		"QUEUE_DRIVER":         "memory",
		"SELLER_USERNAME":      defaultSellerUsername,
		"SELLER_EMAIL":         defaultSellerEmail,
		"SELLER_PASSWORD":      defaultSellerPassword,
		"STORAGE_DISK":         "local",
		"STORAGE_LOCAL_ROOT":   defaultUploadsRoot,
		"STORAGE_URL":          defaultUploadsURL,
	}
}

func MongoURI() string {
	_ = Load()
	return get("MONGO_URI", defaultMongoURI)
}

func MongoDatabase() string {
	_ = Load()
	return get("MONGO_DB", defaultMongoDB)
}

func JWTSecret() string {
	_ = Load()
	return get("JWT_SECRET", defaultJWTSecret)
}

// TokenLifetimeHours controls JWT expiry. Falls back to 24 hours on any
// unparsable value.
func TokenLifetimeHours() int {
	_ = Load()
	n, err := strconv.Atoi(get("JWT_EXPIRATION_HOURS", ""))
	if err != nil || n <= 0 {
		return defaultTokenHours
	}
	return n
}

func AppPort() string {
	_ = Load()
	return get("APP_PORT", defaultAppPort)
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// CORSOrigins returns the comma-separated allow-list as a slice.
func CORSOrigins() []string {
	_ = Load()
	raw := get("CORS_ORIGINS", defaultCORSOrigins)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

// QueueDriver selects the notification queue backend: "memory" or "redis".
func QueueDriver() string {
	_ = Load()
	driver := strings.ToLower(get("QUEUE_DRIVER", "memory"))
	if driver != "redis" {
		return "memory"
	}
	return driver
}

// ── Bootstrap seller ─────────────────────────────────────────────────────────

func SellerUsername() string { _ = Load(); return get("SELLER_USERNAME", defaultSellerUsername) }
func SellerEmail() string    { _ = Load(); return get("SELLER_EMAIL", defaultSellerEmail) }
func SellerPassword() string { _ = Load(); return get("SELLER_PASSWORD", defaultSellerPassword) }

// ── Mail ─────────────────────────────────────────────────────────────────────

func MailHost() string     { _ = Load(); return get("MAIL_HOST", "smtp.gmail.com") }
func MailPort() string     { _ = Load(); return get("MAIL_PORT", "587") }
func MailUsername() string { _ = Load(); return get("EMAIL_USER", "") }
func MailPassword() string { _ = Load(); return get("EMAIL_PASSWORD", "") }
func MailFrom() string     { _ = Load(); return get("MAIL_FROM", defaultMailFromAddress) }
func MailFromName() string { _ = Load(); return get("MAIL_FROM_NAME", defaultMailFromName) }

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string {
	_ = Load()
	return get("STORAGE_DISK", "local")
}

func StorageLocalRoot() string {
	_ = Load()
	return get("STORAGE_LOCAL_ROOT", defaultUploadsRoot)
}

func StorageURL() string {
	_ = Load()
	return get("STORAGE_URL", defaultUploadsURL)
}

func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }
func StorageS3URL() string      { _ = Load(); return get("S3_URL", "") }

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
// Keys from .env and app.json are available after config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}
