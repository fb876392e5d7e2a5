package sway

import (
	"fmt"
	"os"

	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

// Settings configures a Manager and the defaults of the animations it
// creates. It maps one to one onto a YAML settings file:
//
//	maxTweens: 500
//	maxSequences: 50
//	autoPlay: true
//	autoKill: true
//	recyclable: true
//	safeMode: true
//	defaultEase: outQuad
//	defaultLoopType: restart
//	defaultUpdateType: normal
//	timeScaleIndependent: false
//	timeScale: 1
//	unscaledTimeScale: 1
//	logBehaviour: default
//	nestedFailure: preserveSequence
//	debug: false
//
// Fields missing from a file keep their DefaultSettings value.
type Settings struct {
	// MaxTweens and MaxSequences are the initial capacities (live plus pooled).
	MaxTweens    int `yaml:"maxTweens"`
	MaxSequences int `yaml:"maxSequences"`

	AutoPlay   bool `yaml:"autoPlay"`
	AutoKill   bool `yaml:"autoKill"`
	Recyclable bool `yaml:"recyclable"`
	// SafeMode recovers panics in accessors, plugins and callbacks.
	SafeMode bool `yaml:"safeMode"`

	// DefaultEase is a gween ease name such as "outQuad" or "linear".
	DefaultEase string `yaml:"defaultEase"`
	// DefaultLoopType is "restart" or "yoyo".
	DefaultLoopType string `yaml:"defaultLoopType"`
	// DefaultUpdateType is "normal" or "late".
	DefaultUpdateType    string `yaml:"defaultUpdateType"`
	TimeScaleIndependent bool   `yaml:"timeScaleIndependent"`

	TimeScale         float32 `yaml:"timeScale"`
	UnscaledTimeScale float32 `yaml:"unscaledTimeScale"`

	// LogBehaviour is "default", "verbose", "errorsOnly" or "silent".
	LogBehaviour string `yaml:"logBehaviour"`
	// NestedFailure is "preserveSequence" or "killSequence".
	NestedFailure string `yaml:"nestedFailure"`
	Debug         bool   `yaml:"debug"`
}

// DefaultSettings returns the settings used when nothing else is configured.
func DefaultSettings() Settings {
	return Settings{
		MaxTweens:         defaultMaxTweens,
		MaxSequences:      defaultMaxSequences,
		AutoPlay:          true,
		AutoKill:          true,
		SafeMode:          true,
		DefaultEase:       "outQuad",
		DefaultLoopType:   LoopRestart.String(),
		DefaultUpdateType: UpdateNormal.String(),
		TimeScale:         1,
		UnscaledTimeScale: 1,
		LogBehaviour:      LogDefault.String(),
		NestedFailure:     "preserveSequence",
	}
}

// ParseSettings decodes YAML settings on top of DefaultSettings and
// validates the result.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse sway settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadSettings reads and parses a YAML settings file.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read sway settings: %w", err)
	}
	s, err := ParseSettings(data)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks every field. Errors wrap ErrInvalidSettings.
func (s Settings) Validate() error {
	if s.MaxTweens < 1 {
		return fmt.Errorf("%w: maxTweens must be positive, got %d", ErrInvalidSettings, s.MaxTweens)
	}
	if s.MaxSequences < 1 {
		return fmt.Errorf("%w: maxSequences must be positive, got %d", ErrInvalidSettings, s.MaxSequences)
	}
	if _, ok := EaseByName(s.DefaultEase); !ok {
		return fmt.Errorf("%w: unknown defaultEase %q", ErrInvalidSettings, s.DefaultEase)
	}
	if _, err := ParseLoopType(s.DefaultLoopType); err != nil {
		return err
	}
	if _, err := ParseUpdateType(s.DefaultUpdateType); err != nil {
		return err
	}
	if s.TimeScale < 0 || s.UnscaledTimeScale < 0 {
		return fmt.Errorf("%w: time scales must not be negative, got %v and %v",
			ErrInvalidSettings, s.TimeScale, s.UnscaledTimeScale)
	}
	if _, err := ParseLogBehaviour(s.LogBehaviour); err != nil {
		return err
	}
	if _, err := parseNestedFailure(s.NestedFailure); err != nil {
		return err
	}
	return nil
}

// ParseLoopType converts a settings-file name into a LoopType.
func ParseLoopType(name string) (LoopType, error) {
	switch name {
	case "restart":
		return LoopRestart, nil
	case "yoyo":
		return LoopYoyo, nil
	}
	return 0, fmt.Errorf("%w: unknown loop type %q", ErrInvalidSettings, name)
}

// ParseUpdateType converts a settings-file name into an UpdateType.
func ParseUpdateType(name string) (UpdateType, error) {
	switch name {
	case "normal":
		return UpdateNormal, nil
	case "late":
		return UpdateLate, nil
	}
	return 0, fmt.Errorf("%w: unknown update type %q", ErrInvalidSettings, name)
}

// ParseLogBehaviour converts a settings-file name into a LogBehaviour.
func ParseLogBehaviour(name string) (LogBehaviour, error) {
	for b := LogDefault; b <= LogSilent; b++ {
		if b.String() == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown log behaviour %q", ErrInvalidSettings, name)
}

func parseNestedFailure(name string) (NestedFailure, error) {
	switch name {
	case "preserveSequence":
		return NestedPreserveSequence, nil
	case "killSequence":
		return NestedKillSequence, nil
	}
	return 0, fmt.Errorf("%w: unknown nested failure behaviour %q", ErrInvalidSettings, name)
}

// The must helpers read fields of settings that already passed Validate.

func mustEase(name string) ease.TweenFunc {
	fn, _ := EaseByName(name)
	return fn
}

func mustLoopType(name string) LoopType {
	lt, _ := ParseLoopType(name)
	return lt
}

func mustUpdateType(name string) UpdateType {
	ut, _ := ParseUpdateType(name)
	return ut
}

func mustLogBehaviour(name string) LogBehaviour {
	b, _ := ParseLogBehaviour(name)
	return b
}

func mustNestedFailure(name string) NestedFailure {
	nf, _ := parseNestedFailure(name)
	return nf
}
