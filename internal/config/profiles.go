package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Profile bundles per-document conversion tuning under a name, so an
// operator can switch between accuracy and speed without editing the
// main config.
type Profile struct {
	Profile    ProfileInfo       `toml:"profile"`
	Processing ProfileProcessing `toml:"processing"`
}

type ProfileInfo struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

type ProfileProcessing struct {
	DPI            int     `toml:"dpi"`
	Language       string  `toml:"language"`
	PageSegMode    int     `toml:"page_seg_mode"`
	BlankThreshold float64 `toml:"blank_threshold"`
}

// ProfileStore manages conversion profiles loaded from TOML files.
type ProfileStore struct {
	profiles map[string]*Profile
}

// NewProfileStore creates a profile store with the built-in profiles,
// then overlays any TOML profiles found in dir (empty dir skips that).
func NewProfileStore(dir string) (*ProfileStore, error) {
	store := &ProfileStore{
		profiles: make(map[string]*Profile),
	}

	store.profiles["book"] = defaultBookProfile()
	store.profiles["draft"] = defaultDraftProfile()

	if dir != "" {
		if err := store.loadFromDirectory(dir); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// Get returns a profile by name.
func (s *ProfileStore) Get(name string) (*Profile, bool) {
	p, ok := s.profiles[name]
	return p, ok
}

// List returns all available profiles.
func (s *ProfileStore) List() []Profile {
	result := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		result = append(result, *p)
	}
	return result
}

// Apply overlays a profile's non-zero settings onto a processing
// configuration.
func (p *Profile) Apply(cfg *ProcessingConfig) {
	if p.Processing.DPI > 0 {
		cfg.DPI = p.Processing.DPI
	}
	if p.Processing.Language != "" {
		cfg.Language = p.Processing.Language
	}
	if p.Processing.PageSegMode > 0 {
		cfg.PageSegMode = p.Processing.PageSegMode
	}
	if p.Processing.BlankThreshold > 0 {
		cfg.BlankThreshold = p.Processing.BlankThreshold
	}
}

func (s *ProfileStore) loadFromDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read profiles directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read profile %s: %w", path, err)
		}

		var p Profile
		if err := toml.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("parse profile %s: %w", path, err)
		}

		name := p.Profile.Name
		if name == "" {
			name = strings.TrimSuffix(entry.Name(), ".toml")
		}
		s.profiles[name] = &p
	}
	return nil
}

func defaultBookProfile() *Profile {
	return &Profile{
		Profile: ProfileInfo{
			Name:        "book",
			Description: "Accurate conversion of scanned books (300 DPI)",
		},
		Processing: ProfileProcessing{
			DPI:            300,
			PageSegMode:    6,
			BlankThreshold: 0.99,
		},
	}
}

func defaultDraftProfile() *Profile {
	return &Profile{
		Profile: ProfileInfo{
			Name:        "draft",
			Description: "Fast, lower-accuracy conversion (150 DPI)",
		},
		Processing: ProfileProcessing{
			DPI:            150,
			PageSegMode:    6,
			BlankThreshold: 0.99,
		},
	}
}
