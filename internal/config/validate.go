package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrInvalid is returned (wrapped) when a loaded config cannot drive the editor.
var ErrInvalid = errors.New("invalid config")

// Validate checks settings the editor cannot recover from at runtime.
// All problems are reported together.
func (c *Config) Validate() error {
	var err error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Controls.RotateSensitivity <= 0 {
		err = multierr.Append(err, fmt.Errorf("controls.rotate_sensitivity must be positive"))
	}
	if c.Controls.ScaleSensitivity <= 0 {
		err = multierr.Append(err, fmt.Errorf("controls.scale_sensitivity must be positive"))
	}
	if c.Scene.ExportPath == "" {
		err = multierr.Append(err, fmt.Errorf("scene.export_path is empty"))
	}

	// Gesture keys must be distinct or one key would drive two gestures.
	seen := make(map[string]string)
	k := c.Controls.Keys
	for action, key := range map[string]string{
		"move": k.Move, "rotate": k.Rotate, "scale": k.Scale, "duplicate": k.Duplicate, "delete": k.Delete,
	} {
		if key == "" {
			err = multierr.Append(err, fmt.Errorf("controls.keys.%s is empty", action))
			continue
		}
		if other, dup := seen[key]; dup {
			err = multierr.Append(err, fmt.Errorf("key %q bound to both %s and %s", key, other, action))
			continue
		}
		seen[key] = action
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
