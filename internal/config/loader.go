package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends accepted by CADASTRO_STORAGE_BACKEND.
const (
	StorageLocal    = "local"
	StorageSupabase = "supabase"
)

// Config captures environment driven configuration values for the registry service.
type Config struct {
	HTTPPort       int
	SQLiteDSN      string
	StorageBackend string
	StorageDir     string
	PublicBaseURL  string
	SupabaseURL    string
	SupabaseKey    string
	CORSOrigins    []string
	MaxUploadBytes int64
	BcryptCost     int
	LoginRate      float64
	LoginBurst     int
	TrustedProxies []netip.Prefix
}

// LoadDotEnv reads .env files into the process environment. A missing file
// is not an error; variables already set are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("falha ao ler %s: %w", file, err)
		}
	}
	return nil
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// required values and reporting localized error messages for missing entries.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:       3001,
		SQLiteDSN:      "file:cadastro.db",
		StorageBackend: StorageLocal,
		StorageDir:     "./uploads",
		CORSOrigins:    []string{"*"},
		MaxUploadBytes: 10 << 20,
		BcryptCost:     10,
		LoginRate:      5,
		LoginBurst:     10,
	}

	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 4)

	portValue := env("CADASTRO_HTTP_PORT")
	portName := "CADASTRO_HTTP_PORT"
	if portValue == "" {
		portValue, portName = env("PORT"), "PORT"
	}
	if portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, portName)
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := env("CADASTRO_SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if backend := strings.ToLower(env("CADASTRO_STORAGE_BACKEND")); backend != "" {
		switch backend {
		case StorageLocal, StorageSupabase:
			cfg.StorageBackend = backend
		default:
			invalid = append(invalid, "CADASTRO_STORAGE_BACKEND")
		}
	}

	if dir := env("CADASTRO_STORAGE_DIR"); dir != "" {
		cfg.StorageDir = dir
	}

	cfg.PublicBaseURL = strings.TrimRight(env("CADASTRO_PUBLIC_BASE_URL"), "/")
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = fmt.Sprintf("http://localhost:%d", cfg.HTTPPort)
	}

	if cfg.StorageBackend == StorageSupabase {
		if cfg.SupabaseURL = strings.TrimRight(env("SUPABASE_URL"), "/"); cfg.SupabaseURL == "" {
			missing = append(missing, "SUPABASE_URL")
		}
		if cfg.SupabaseKey = env("SUPABASE_SERVICE_ROLE_KEY"); cfg.SupabaseKey == "" {
			missing = append(missing, "SUPABASE_SERVICE_ROLE_KEY")
		}
	}

	if origins := env("CADASTRO_CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	if value := env("CADASTRO_MAX_UPLOAD_BYTES"); value != "" {
		limit, err := strconv.ParseInt(value, 10, 64)
		if err != nil || limit <= 0 {
			invalid = append(invalid, "CADASTRO_MAX_UPLOAD_BYTES")
		} else {
			cfg.MaxUploadBytes = limit
		}
	}

	if value := env("CADASTRO_BCRYPT_COST"); value != "" {
		cost, err := strconv.Atoi(value)
		if err != nil || cost < 4 || cost > 31 {
			invalid = append(invalid, "CADASTRO_BCRYPT_COST")
		} else {
			cfg.BcryptCost = cost
		}
	}

	if value := env("CADASTRO_LOGIN_RATE_PER_SECOND"); value != "" {
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil || rate <= 0 {
			invalid = append(invalid, "CADASTRO_LOGIN_RATE_PER_SECOND")
		} else {
			cfg.LoginRate = rate
		}
	}

	if value := env("CADASTRO_LOGIN_BURST"); value != "" {
		burst, err := strconv.Atoi(value)
		if err != nil || burst <= 0 {
			invalid = append(invalid, "CADASTRO_LOGIN_BURST")
		} else {
			cfg.LoginBurst = burst
		}
	}

	if value := env("CADASTRO_TRUSTED_PROXIES"); value != "" {
		prefixes, err := parsePrefixes(splitList(value))
		if err != nil {
			invalid = append(invalid, "CADASTRO_TRUSTED_PROXIES")
		} else {
			cfg.TrustedProxies = prefixes
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("variáveis de ambiente obrigatórias não definidas: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("valores inválidos nas variáveis de ambiente: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parsePrefixes accepts CIDR blocks and bare addresses.
func parsePrefixes(values []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(values))
	for _, value := range values {
		if strings.Contains(value, "/") {
			prefix, err := netip.ParsePrefix(value)
			if err != nil {
				return nil, err
			}
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(value)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
