package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	ccerrors "github.com/ruminaider/ccmate/internal/errors"
)

// readJSONArg parses a flag value as JSON. A leading @ names a file to read.
func readJSONArg(value string) (json.RawMessage, error) {
	data := []byte(value)
	if path, ok := strings.CutPrefix(value, "@"); ok {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", ccerrors.ErrIO, path, err)
		}
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %q is not valid JSON", ccerrors.ErrMalformedInput, value)
	}
	return json.RawMessage(data), nil
}

// resolveCwd returns dir, or the working directory when dir is empty.
func resolveCwd(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return cwd, nil
}
