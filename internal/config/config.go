// Copyright 2025 Joseph Cumines
//
// Configuration package for the MCP server

package config

import (
	"fmt"
	"os"
	"time"
)

// TransportType represents the MCP transport type
type TransportType string

const (
	// TransportStdio uses stdin/stdout for communication
	TransportStdio TransportType = "stdio"
	// TransportHTTP uses HTTP/SSE for communication
	TransportHTTP TransportType = "sse"
)

// Config holds the configuration for the MCP server
type Config struct {
	HTTPAddress       string
	HTTPSocketPath    string
	CORSOrigin        string
	AuditLogPath      string
	APIKey            string
	TLSCertFile       string
	TLSKeyFile        string
	Transport         TransportType
	HeartbeatInterval time.Duration
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	RequestTimeout    int
	TreeDepth         int
	RateLimit         float64
	Debug             bool
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	requestTimeout, err := getEnvAsInt("WINDOWS_USE_REQUEST_TIMEOUT", 30)
	if err != nil {
		return nil, err
	}

	treeDepth, err := getEnvAsInt("WINDOWS_USE_TREE_DEPTH", 3)
	if err != nil {
		return nil, err
	}

	rateLimit, err := getEnvAsFloat("MCP_RATE_LIMIT", 0)
	if err != nil {
		return nil, err
	}

	heartbeatInterval, err := getEnvAsDuration("MCP_HEARTBEAT_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	httpReadTimeout, err := getEnvAsDuration("MCP_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	httpWriteTimeout, err := getEnvAsDuration("MCP_HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RequestTimeout: requestTimeout,
		TreeDepth:      treeDepth,
		Debug:          getEnvAsBool("WINDOWS_USE_DEBUG", false),
		// MCP Transport configuration
		Transport:         TransportType(getEnv("MCP_TRANSPORT", "stdio")),
		HTTPAddress:       getEnv("MCP_HTTP_ADDRESS", ":8080"),
		HTTPSocketPath:    os.Getenv("MCP_HTTP_SOCKET"),
		HeartbeatInterval: heartbeatInterval,
		CORSOrigin:        getEnv("MCP_CORS_ORIGIN", "*"),
		HTTPReadTimeout:   httpReadTimeout,
		HTTPWriteTimeout:  httpWriteTimeout,
		RateLimit:         rateLimit,
		AuditLogPath:      os.Getenv("MCP_AUDIT_LOG"),
		APIKey:            os.Getenv("MCP_API_KEY"),
		TLSCertFile:       os.Getenv("MCP_TLS_CERT_FILE"),
		TLSKeyFile:        os.Getenv("MCP_TLS_KEY_FILE"),
	}

	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return nil, fmt.Errorf("MCP_TLS_CERT_FILE and MCP_TLS_KEY_FILE must be set together")
	}

	if cfg.TreeDepth < 0 {
		return nil, fmt.Errorf("invalid tree depth: %d (must be >= 0)", cfg.TreeDepth)
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("invalid rate limit: %v (must be >= 0)", cfg.RateLimit)
	}

	// Validate transport type
	if cfg.Transport != TransportStdio && cfg.Transport != TransportHTTP {
		return nil, fmt.Errorf("invalid transport type: %s (must be 'stdio' or 'sse')", cfg.Transport)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	var result int
	_, err := fmt.Sscanf(value, "%d", &result)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q (expected integer)", key, value)
	}
	return result, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	var result float64
	_, err := fmt.Sscanf(value, "%g", &result)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q (expected number)", key, value)
	}
	return result, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q (expected duration, e.g., '30s', '5m')", key, value)
	}
	return d, nil
}
