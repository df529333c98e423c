// Package config reads and writes the spraywall RC file.
package config

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/example/spraywall/internal/frames"
	"github.com/example/spraywall/internal/gallery"
	"github.com/example/spraywall/internal/notify"
	"github.com/example/spraywall/internal/spray"
	"github.com/example/spraywall/internal/theme"
)

// Brush holds the [brush] section.
type Brush struct {
	Color       color.RGBA
	Radius      float64
	Density     int
	GlowBlur    int
	GlowOpacity float64
}

// Slot holds one [slot.N] section.
type Slot struct {
	Name string
	Mask string
}

// Notify holds notification settings.
type Notify struct {
	Submit  bool
	Failure bool
	Export  bool
	Copy    bool
	Timeout time.Duration
}

// Retry holds the gallery fetch retry policy.
type Retry struct {
	Attempts        int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Config holds the application configuration.
type Config struct {
	Listen       string
	Store        string
	APIURL       string
	Background   string
	CanvasWidth  int
	CanvasHeight int
	HistoryLimit int
	LogLevel     string
	LogFile      string
	// StartSlot is "random" or a frame index.
	StartSlot string
	// SheetTheme names the gallery sheet palette.
	SheetTheme string

	Themes map[string]*theme.Theme

	Brush  Brush
	Slots  map[int]Slot
	Notify Notify
	Retry  Retry
}

// New creates a new Config with defaults.
func New() *Config {
	b := spray.DefaultBrush()
	r := gallery.DefaultRetryPolicy()
	return &Config{
		Listen:       ":8080",
		Store:        "sqlite:spraywall.db",
		Background:   "builtin:background",
		CanvasWidth:  1200,
		CanvasHeight: 600,
		HistoryLimit: 16,
		LogLevel:     "info",
		StartSlot:    "random",
		Brush: Brush{
			Color:       b.Color,
			Radius:      b.Radius,
			Density:     b.Density,
			GlowBlur:    b.GlowBlur,
			GlowOpacity: b.GlowOpacity,
		},
		Slots:  make(map[int]Slot),
		Themes: make(map[string]*theme.Theme),
		Notify: Notify{
			Submit:  true,
			Failure: true,
			Timeout: 4 * time.Second,
		},
		Retry: Retry{
			Attempts:        r.Attempts,
			InitialInterval: r.InitialInterval,
			MaxInterval:     r.MaxInterval,
		},
	}
}

// SprayBrush converts the [brush] section.
func (c *Config) SprayBrush() spray.Brush {
	return spray.Brush{
		Color:       c.Brush.Color,
		Radius:      spray.ClampRadius(c.Brush.Radius),
		Density:     c.Brush.Density,
		GlowBlur:    c.Brush.GlowBlur,
		GlowOpacity: c.Brush.GlowOpacity,
	}
}

// FrameSlots converts the [slot.N] sections into registry overrides.
func (c *Config) FrameSlots() []frames.Slot {
	var out []frames.Slot
	for _, idx := range c.slotIndexes() {
		s := c.Slots[idx]
		out = append(out, frames.Slot{Index: idx, Name: s.Name, MaskRef: s.Mask})
	}
	return out
}

// StartPolicy converts start_slot.
func (c *Config) StartPolicy() (frames.StartPolicy, error) {
	v := strings.ToLower(strings.TrimSpace(c.StartSlot))
	if v == "" || v == "random" {
		return frames.StartRandom(), nil
	}
	idx, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("start_slot must be random or a frame index, got %q", c.StartSlot)
	}
	if _, err := frames.NewRegistry(nil).Slot(idx); err != nil {
		return nil, err
	}
	return frames.StartFixed(idx), nil
}

// RetryPolicy converts the [retry] section.
func (c *Config) RetryPolicy() gallery.RetryPolicy {
	return gallery.RetryPolicy{
		Attempts:        c.Retry.Attempts,
		InitialInterval: c.Retry.InitialInterval,
		MaxInterval:     c.Retry.MaxInterval,
	}
}

// NotifyPreferences converts the notification timeout.
func (c *Config) NotifyPreferences() notify.Preferences {
	p := notify.DefaultPreferences()
	if c.Notify.Timeout > 0 {
		p.Timeout = c.Notify.Timeout
	}
	return p
}

// EnabledEvents maps the [notify] switches to events.
func (c *Config) EnabledEvents() map[notify.Event]bool {
	return map[notify.Event]bool{
		notify.EventSubmit:  c.Notify.Submit,
		notify.EventFailure: c.Notify.Failure,
		notify.EventExport:  c.Notify.Export,
		notify.EventCopy:    c.Notify.Copy,
	}
}

// SheetPalette resolves sheet_theme: themes defined in the file first, then
// builtin and installed themes.
func (c *Config) SheetPalette() (*theme.Theme, error) {
	if t, ok := c.Themes[c.SheetTheme]; ok {
		return t, nil
	}
	return theme.NewLoader().Load(c.SheetTheme)
}

func (c *Config) slotIndexes() []int {
	idx := make([]int, 0, len(c.Slots))
	for i := range c.Slots {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	fmt.Fprintf(&sb, "listen = %s\n", c.Listen)
	fmt.Fprintf(&sb, "store = %s\n", c.Store)
	if c.APIURL != "" {
		fmt.Fprintf(&sb, "api_url = %s\n", c.APIURL)
	}
	fmt.Fprintf(&sb, "background = %s\n", c.Background)
	fmt.Fprintf(&sb, "canvas_width = %d\n", c.CanvasWidth)
	fmt.Fprintf(&sb, "canvas_height = %d\n", c.CanvasHeight)
	fmt.Fprintf(&sb, "history_limit = %d\n", c.HistoryLimit)
	fmt.Fprintf(&sb, "log_level = %s\n", c.LogLevel)
	if c.LogFile != "" {
		fmt.Fprintf(&sb, "log_file = %s\n", c.LogFile)
	}
	fmt.Fprintf(&sb, "start_slot = %s\n", c.StartSlot)
	if c.SheetTheme != "" {
		fmt.Fprintf(&sb, "sheet_theme = %s\n", c.SheetTheme)
	}
	sb.WriteString("\n")

	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "color = %s\n", spray.FormatColor(c.Brush.Color))
	fmt.Fprintf(&sb, "radius = %s\n", formatFloat(c.Brush.Radius))
	fmt.Fprintf(&sb, "density = %d\n", c.Brush.Density)
	fmt.Fprintf(&sb, "glow_blur = %d\n", c.Brush.GlowBlur)
	fmt.Fprintf(&sb, "glow_opacity = %s\n", formatFloat(c.Brush.GlowOpacity))
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "submit = %v\n", c.Notify.Submit)
	fmt.Fprintf(&sb, "failure = %v\n", c.Notify.Failure)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "timeout = %s\n", c.Notify.Timeout)
	sb.WriteString("\n")

	sb.WriteString("[retry]\n")
	fmt.Fprintf(&sb, "attempts = %d\n", c.Retry.Attempts)
	fmt.Fprintf(&sb, "initial_interval = %s\n", c.Retry.InitialInterval)
	fmt.Fprintf(&sb, "max_interval = %s\n", c.Retry.MaxInterval)

	for _, idx := range c.slotIndexes() {
		s := c.Slots[idx]
		fmt.Fprintf(&sb, "\n[slot.%d]\n", idx)
		if s.Name != "" {
			fmt.Fprintf(&sb, "name = %s\n", s.Name)
		}
		if s.Mask != "" {
			fmt.Fprintf(&sb, "mask = %s\n", s.Mask)
		}
	}

	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "\n[theme.%s]\n", name)
		for _, f := range theme.Fields(c.Themes[name]) {
			fmt.Fprintf(&sb, "%s = %s\n", f.Key, spray.FormatColor(f.Color))
		}
	}
	return sb.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
