package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Overlay extends the built-in vocabulary at process start.
//
//	phrases:
//	  chart:
//	    indicator:
//	      rsi: [relstrength]
//	exchanges:
//	  bnc: binance
type Overlay struct {
	// Phrases maps kind -> category -> parameter id -> extra phrases.
	Phrases map[string]map[string]map[string][]string `yaml:"phrases"`
	// Exchanges maps an extra shortcut to an exchange id.
	Exchanges map[string]string `yaml:"exchanges"`
}

func ParseOverlay(data []byte) (Overlay, error) {
	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Overlay{}, fmt.Errorf("parse catalog overlay: %w", err)
	}
	return o, nil
}

// LoadOverlay reads an overlay file. An empty path yields an empty overlay.
func LoadOverlay(path string) (Overlay, error) {
	if path == "" {
		return Overlay{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Overlay{}, fmt.Errorf("read catalog overlay: %w", err)
	}
	return ParseOverlay(data)
}
