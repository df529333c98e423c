package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/spraywall/internal/artwork"
	"github.com/example/spraywall/internal/spray"
	"github.com/example/spraywall/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme
	slotIdx := -1

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			raw := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			currentSection = strings.ToLower(raw)
			currentTheme = nil
			slotIdx = -1

			if strings.HasPrefix(currentSection, "theme.") {
				themeName := raw[len("theme."):]
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}

			if strings.HasPrefix(currentSection, "slot.") {
				idx, err := strconv.Atoi(strings.TrimPrefix(currentSection, "slot."))
				if err != nil || !artwork.ValidFrame(idx) {
					return nil, fmt.Errorf("invalid section [%s]: slot index must be 0..%d", currentSection, artwork.FrameCount-1)
				}
				slotIdx = idx
				if _, ok := cfg.Slots[idx]; !ok {
					cfg.Slots[idx] = Slot{}
				}
			}
			continue
		}

		// Parse Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		// Remove quotes if present
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = theme.Set(currentTheme, key, value)
		case slotIdx >= 0:
			s := cfg.Slots[slotIdx]
			setSlotField(&s, key, value)
			cfg.Slots[slotIdx] = s
		case currentSection == "brush":
			err = setBrushField(&cfg.Brush, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "retry":
			err = setRetryField(&cfg.Retry, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch key {
	case "listen":
		cfg.Listen = value
	case "store":
		cfg.Store = value
	case "api_url":
		cfg.APIURL = value
	case "background":
		cfg.Background = value
	case "canvas_width":
		return setPositiveInt(&cfg.CanvasWidth, key, value)
	case "canvas_height":
		return setPositiveInt(&cfg.CanvasHeight, key, value)
	case "history_limit":
		return setPositiveInt(&cfg.HistoryLimit, key, value)
	case "log_level":
		cfg.LogLevel = value
	case "log_file":
		cfg.LogFile = value
	case "start_slot":
		cfg.StartSlot = value
	case "sheet_theme", "theme":
		cfg.SheetTheme = value
	}
	return nil
}

func setBrushField(b *Brush, key, value string) error {
	switch key {
	case "color", "colour":
		c, err := spray.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		b.Color = c
	case "radius":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
		b.Radius = spray.ClampRadius(f)
	case "density":
		return setPositiveInt(&b.Density, key, value)
	case "glow_blur":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid value for key %s: %q", key, value)
		}
		b.GlowBlur = n
	case "glow_opacity":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 1 {
			return fmt.Errorf("invalid value for key %s: %q", key, value)
		}
		b.GlowOpacity = f
	}
	return nil
}

func setSlotField(s *Slot, key, value string) {
	switch key {
	case "name":
		s.Name = value
	case "mask":
		s.Mask = value
	}
}

func setNotifyField(n *Notify, key, value string) error {
	if key == "timeout" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for key %s: %w", key, err)
		}
		n.Timeout = d
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch key {
	case "submit":
		n.Submit = b
	case "failure":
		n.Failure = b
	case "export":
		n.Export = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func setRetryField(r *Retry, key, value string) error {
	switch key {
	case "attempts":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid value for key %s: %q", key, value)
		}
		r.Attempts = n
	case "initial_interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for key %s: %w", key, err)
		}
		r.InitialInterval = d
	case "max_interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for key %s: %w", key, err)
		}
		r.MaxInterval = d
	}
	return nil
}

func setPositiveInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid value for key %s: %q", key, value)
	}
	*dst = n
	return nil
}
