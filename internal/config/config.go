// Package config handles editor configuration loading and management.
package config

// Config holds all editor settings.
type Config struct {
	Window      WindowConfig      `yaml:"window"`
	Controls    ControlsConfig    `yaml:"controls"`
	Assets      AssetsConfig      `yaml:"assets"`
	Scene       SceneConfig       `yaml:"scene"`
	Highlight   HighlightConfig   `yaml:"highlight"`
	Environment EnvironmentConfig `yaml:"environment"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// KeyBindings maps editor actions to lower-case key names.
type KeyBindings struct {
	Move      string `yaml:"move"`
	Rotate    string `yaml:"rotate"`
	Scale     string `yaml:"scale"`
	Duplicate string `yaml:"duplicate"`
	Delete    string `yaml:"delete"`
	Export    string `yaml:"export"`
	Import    string `yaml:"import"`
	Clear     string `yaml:"clear"`

	// Keyboard camera movement (forward, back, left, right, up, down).
	Forward string `yaml:"forward"`
	Back    string `yaml:"back"`
	Left    string `yaml:"left"`
	Right   string `yaml:"right"`
	Up      string `yaml:"up"`
	Down    string `yaml:"down"`
}

// ControlsConfig holds input settings.
type ControlsConfig struct {
	Keys              KeyBindings `yaml:"keys"`
	KeyboardMove      bool        `yaml:"keyboard_move"`
	KeyboardSpeed     float32     `yaml:"keyboard_speed"`
	RotateSensitivity float32     `yaml:"rotate_sensitivity"` // radians per pixel
	ScaleSensitivity  float32     `yaml:"scale_sensitivity"`  // scale factor per pixel
}

// AssetsConfig holds asset locations and the pickable catalogues.
type AssetsConfig struct {
	ModelDir       string   `yaml:"model_dir"`
	TextureDir     string   `yaml:"texture_dir"`
	Models         []string `yaml:"models"`
	GroundTextures []string `yaml:"ground_textures"`
	SkyboxTextures []string `yaml:"skybox_textures"`
}

// SceneConfig holds scene document settings.
type SceneConfig struct {
	Startup    string `yaml:"startup"`     // document loaded at start, optional
	ExportPath string `yaml:"export_path"` // where exports are written
	Watch      bool   `yaml:"watch"`       // re-import Startup when it changes
}

// HighlightConfig holds the selection highlight style.
type HighlightConfig struct {
	Color string `yaml:"color"`
}

// EnvironmentConfig holds the environment applied before any document loads.
type EnvironmentConfig struct {
	GroundTexture string  `yaml:"ground_texture"`
	GroundRepeats float32 `yaml:"ground_repeats"`
	SkyboxTexture string  `yaml:"skybox_texture"`
	SunColor      string  `yaml:"sun_color"`
	SunIntensity  float32 `yaml:"sun_intensity"`
	SunX          float32 `yaml:"sun_x"`
	SunZ          float32 `yaml:"sun_z"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Controls: ControlsConfig{
			Keys: KeyBindings{
				Move:      "a",
				Rotate:    "r",
				Scale:     "e",
				Duplicate: "m",
				Delete:    "delete",
				Export:    "f5",
				Import:    "f9",
				Clear:     "f8",
				Forward:   "z",
				Back:      "s",
				Left:      "q",
				Right:     "d",
				Up:        "space",
				Down:      "left shift",
			},
			KeyboardMove:      false,
			KeyboardSpeed:     0.5,
			RotateSensitivity: 0.01,
			ScaleSensitivity:  0.01,
		},
		Assets: AssetsConfig{
			ModelDir:   "assets/models",
			TextureDir: "assets/textures",
			Models:     []string{"Bush", "Bush red", "Forest", "Log", "Resource Gold", "Tree", "Twister Tree", "Road"},
			GroundTextures: []string{
				"aerial_grass_rock", "brown_mud_leaves_01", "forest_floor", "forrest_ground_01", "gravelly_sand",
			},
			SkyboxTextures: []string{
				"DaySkyHDRI019A_2K-TONEMAPPED", "DaySkyHDRI050A_2K-TONEMAPPED",
				"NightSkyHDRI009_2K-TONEMAPPED", "citrus_orchard_road_puresky",
			},
		},
		Scene: SceneConfig{
			Startup:    "scenes/scene_1.json",
			ExportPath: "scene_export.json",
			Watch:      false,
		},
		Highlight: HighlightConfig{
			Color: "#ff0000",
		},
		Environment: EnvironmentConfig{
			GroundTexture: "aerial_grass_rock",
			GroundRepeats: 500,
			SkyboxTexture: "DaySkyHDRI019A_2K-TONEMAPPED",
			SunColor:      "#ffffff",
			SunIntensity:  2,
			SunX:          3,
			SunZ:          0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
