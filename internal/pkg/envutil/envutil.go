package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

func String(key, def string, log *logger.Logger) string {
	val, ok := os.LookupEnv(key)
	val = strings.TrimSpace(val)
	if !ok || val == "" {
		if log != nil {
			log.Debug("Environment variable not found, using default", "env_var", key, "default", def)
		}
		return def
	}
	return val
}

func Int(key string, def int, log *logger.Logger) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		if log != nil {
			log.Warn("Environment variable could not be parsed as int, using default", "env_var", key, "provided", raw, "default", def)
		}
		return def
	}
	return i
}

func Float(key string, def float64, log *logger.Logger) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if log != nil {
			log.Warn("Environment variable could not be parsed as float, using default", "env_var", key, "provided", raw, "default", def)
		}
		return def
	}
	return f
}

func Bool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

// Millis reads an integer millisecond value.
func Millis(key string, def time.Duration, log *logger.Logger) time.Duration {
	ms := Int(key, int(def/time.Millisecond), log)
	if ms < 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func List(key string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
