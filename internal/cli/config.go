package cli

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stackflame/pkg/errors"
)

// renderConfig is the on-disk config file. Every field is a default for the
// flag of the same name; flags given on the command line win.
//
//	title = "CPU"
//	colors = "java"
//	hash = true
//	palette_map = "~/.config/stackflame/palette.map"
//
//	[serve]
//	addr = ":8080"
//	redis = "redis://localhost:6379/0"
type renderConfig struct {
	Title       string  `toml:"title"`
	Colors      string  `toml:"colors"`
	BgColors    string  `toml:"bgcolors"`
	Hash        bool    `toml:"hash"`
	Inverted    bool    `toml:"inverted"`
	Reverse     bool    `toml:"reverse"`
	Negate      bool    `toml:"negate"`
	MinWidth    float64 `toml:"minwidth"`
	Width       float64 `toml:"width"`
	Height      float64 `toml:"height"`
	FontType    string  `toml:"fonttype"`
	FontSize    float64 `toml:"fontsize"`
	FontWidth   float64 `toml:"fontwidth"`
	CountName   string  `toml:"countname"`
	NameType    string  `toml:"nametype"`
	SearchColor string  `toml:"searchcolor"`
	PaletteMap  string  `toml:"palette_map"`
	Cache       bool    `toml:"cache"`

	Serve serveConfig `toml:"serve"`
}

type serveConfig struct {
	Addr  string `toml:"addr"`
	Redis string `toml:"redis"`
}

// loadConfig decodes the config file at path, or at the default location
// when path is empty. A missing default file yields the zero config; a
// missing explicit file is an error. The returned path is the file that was
// read, if any.
func loadConfig(path string) (renderConfig, string, error) {
	var cfg renderConfig
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, "", nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, "", nil
		}
		return cfg, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, "", errors.Wrap(errors.ErrCodeInvalidOption, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, "", errors.New(errors.ErrCodeInvalidOption, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.PaletteMap = expandHome(cfg.PaletteMap)
	return cfg, path, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// apply copies config values into flags the user did not set. changed
// reports whether a flag was given on the command line.
func (cfg renderConfig) apply(f *renderFlags, changed func(name string) bool) {
	str := func(name string, dst *string, v string) {
		if v != "" && !changed(name) {
			*dst = v
		}
	}
	num := func(name string, dst *float64, v float64) {
		if v != 0 && !changed(name) {
			*dst = v
		}
	}
	flag := func(name string, dst *bool, v bool) {
		if v && !changed(name) {
			*dst = v
		}
	}

	str("title", &f.title, cfg.Title)
	str("colors", &f.colors, cfg.Colors)
	str("bgcolors", &f.bgcolors, cfg.BgColors)
	str("fonttype", &f.fontType, cfg.FontType)
	str("countname", &f.countName, cfg.CountName)
	str("nametype", &f.nameType, cfg.NameType)
	str("searchcolor", &f.searchColor, cfg.SearchColor)
	str("palette-map", &f.paletteMap, cfg.PaletteMap)
	num("minwidth", &f.minWidth, cfg.MinWidth)
	num("width", &f.width, cfg.Width)
	num("height", &f.height, cfg.Height)
	num("fontsize", &f.fontSize, cfg.FontSize)
	num("fontwidth", &f.fontWidth, cfg.FontWidth)
	flag("hash", &f.hash, cfg.Hash)
	flag("inverted", &f.inverted, cfg.Inverted)
	flag("reverse", &f.reverse, cfg.Reverse)
	flag("negate", &f.negate, cfg.Negate)
	flag("cache", &f.cache, cfg.Cache)
}
