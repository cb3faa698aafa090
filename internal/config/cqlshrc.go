package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/axonops/cqlspec/internal/logger"
)

// parseCQLSHRC reads a cqlsh configuration file and returns the settings it
// holds as flattened koanf keys. Only keys present in the file are returned.
func parseCQLSHRC(path string) (map[string]interface{}, error) {
	values := make(map[string]interface{})
	var credentialsPath string

	err := scanINI(path, func(section, key, value string) {
		switch section {
		case "connection":
			switch key {
			case "hostname":
				values["host"] = value
			case "port":
				if port, err := strconv.Atoi(value); err == nil {
					values["port"] = port
				} else {
					logger.DebugfToFile("CQLSHRC", "Failed to parse port value: %s", value)
				}
			case "ssl":
				if value == "true" || value == "1" {
					values["ssl.enabled"] = true
				}
			}
		case "authentication":
			switch key {
			case "credentials":
				credentialsPath = value
			case "keyspace":
				values["keyspace"] = value
			case "username", "password":
				values[key] = value
			}
		case "auth_provider":
			switch key {
			case "username", "password":
				values[key] = value
			}
		case "ssl":
			// Any key in [ssl] enables SSL
			values["ssl.enabled"] = true
			switch key {
			case "certfile":
				values["ssl.ca_path"] = expandHome(value)
			case "userkey":
				values["ssl.key_path"] = expandHome(value)
			case "usercert":
				values["ssl.cert_path"] = expandHome(value)
			case "validate":
				if value == "false" || value == "0" {
					values["ssl.insecure_skip_verify"] = true
					values["ssl.host_verification"] = false
				} else {
					values["ssl.host_verification"] = true
					values["ssl.allow_legacy_cn"] = true
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}

	if credentialsPath != "" {
		if err := loadCredentialsFile(credentialsPath, values); err != nil {
			logger.DebugfToFile("CQLSHRC", "Failed to load credentials file: %v", err)
		}
	}

	_, hasPassword := values["password"]
	logger.DebugfToFile("CQLSHRC", "Finished loading %s: %d keys, hasPassword=%v", path, len(values), hasPassword)
	return values, nil
}

// loadCredentialsFile loads username/password from a credentials file into
// values. The format is typically:
//
//	[PlainTextAuthProvider]
//	username = user
//	password = pass
func loadCredentialsFile(path string, values map[string]interface{}) error {
	return scanINI(expandHome(path), func(section, key, value string) {
		if !strings.Contains(section, "auth") {
			return
		}
		switch key {
		case "username", "password":
			values[key] = value
		default:
			logger.DebugfToFile("Credentials", "Ignoring unknown key: %s", key)
		}
	})
}

// scanINI calls fn for every key = value line of an INI style file, with the
// lower-cased section it appears in. Surrounding quotes are removed from values.
func scanINI(path string, fn func(section, key, value string)) error {
	file, err := os.Open(path) // #nosec G304 - path comes from the user's own config
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	section := ""
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.Trim(line, "[]"))
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			logger.DebugfToFile("CQLSHRC", "Skipping invalid line %d of %s (no '=' found)", lineNum, path)
			continue
		}

		value := strings.TrimSpace(parts[1])
		if len(value) >= 2 && ((value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'')) {
			value = value[1 : len(value)-1]
		}
		fn(section, strings.TrimSpace(parts[0]), value)
	}

	return scanner.Err()
}

// expandHome replaces a leading ~ with $HOME.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		return filepath.Join(os.Getenv("HOME"), path[1:])
	}
	return path
}
