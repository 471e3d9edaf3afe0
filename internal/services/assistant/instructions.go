package assistant

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/deepgram/dictator/pkg/logger"
)

// LoadInstructions reads the system prompt at path and trims it. A missing
// file is not an error: DefaultInstructions is returned instead.
func LoadInstructions(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn(logger.ASSISTANT, "Could not find instructions file %q - using default instructions", path)
			return DefaultInstructions, nil
		}
		return "", fmt.Errorf("read instructions %s: %w", path, err)
	}

	return strings.TrimSpace(string(data)), nil
}
