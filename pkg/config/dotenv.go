package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotenv loads variables from ENV_FILE, or from .env in the working
// directory. Variables already set in the environment win. A missing file is
// not an error.
func LoadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}
