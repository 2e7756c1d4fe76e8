package config

import "os"

const defaultPort = ":8080"

// Development reports whether DEVELOPMENT is set to anything but "0".
// It enables debug logging and the board debugging route.
func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	return ok && development != "0"
}

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return defaultPort
	}
	return port
}
