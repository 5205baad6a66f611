package app

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// DefaultEnvFiles are loaded by the CLI before flags are resolved.
var DefaultEnvFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads dotenv files of KEY=VALUE pairs into the process
// environment. Later files override earlier ones; missing files are skipped.
// Variables already set in the real environment are left alone unless an
// earlier dotenv file set them.
func LoadEnvFiles(paths ...string) error {
	fromFiles := map[string]bool{}
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if err := loadEnvFile(p, fromFiles); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env %s: %w", p, err)
		}
	}
	return nil
}

func loadEnvFile(path string, fromFiles map[string]bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		val := strings.TrimSpace(line[eq+1:])
		if len(val) >= 2 {
			if (val[0] == '"' && val[len(val)-1] == '"') || (val[0] == '\'' && val[len(val)-1] == '\'') {
				val = val[1 : len(val)-1]
			}
		}
		if _, set := os.LookupEnv(key); set && os.Getenv(key) != "" && !fromFiles[key] {
			continue
		}
		_ = os.Setenv(key, val)
		fromFiles[key] = true
	}
	return scanner.Err()
}
