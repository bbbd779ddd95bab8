package simulator

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Event names the simulator announces as line-delimited JSON on stdout.
const (
	eventListening = "listening"
	eventError     = "error"
)

// parseEvent decodes a stdout line as a simulator announcement. Anything
// that is not a JSON object is plain diagnostic output.
func parseEvent(line string) (map[string]any, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}
	var evt map[string]any
	if err := json.Unmarshal([]byte(trimmed), &evt); err != nil {
		return nil, false
	}
	return evt, true
}

// eventName extracts the event discriminator.
func eventName(evt map[string]any) string {
	name, _ := evt["event"].(string)
	return name
}

// eventPort extracts a positive integer port from a listening event.
// JSON numbers arrive as float64; numeric strings are tolerated.
func eventPort(evt map[string]any) (int, bool) {
	switch v := evt["port"].(type) {
	case float64:
		port := int(v)
		if float64(port) == v && port > 0 {
			return port, true
		}
	case string:
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil && port > 0 {
			return port, true
		}
	}
	return 0, false
}

// eventMessage extracts the message of an error event.
func eventMessage(evt map[string]any) string {
	if msg, ok := evt["message"].(string); ok && msg != "" {
		return msg
	}
	return "Unknown error"
}
