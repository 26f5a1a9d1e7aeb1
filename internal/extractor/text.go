package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

func extractPlainText(data []byte) (string, error) {
	return strings.ToValidUTF8(string(data), "�"), nil
}

func extractJSON(data []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return "", fmt.Errorf("invalid json: %w", err)
	}
	return "JSON Data:\n" + buf.String(), nil
}
