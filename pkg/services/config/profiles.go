package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/de-tools/indicator-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// Registry reads named query presets from an ini file:
//
//	[g5-gdp]
//	entities  = USA;CHN;IND;JPN;DEU
//	indicator = NY.GDP.MKTP.CD
//	date      = 2005:2024
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (domain.Profile, error)
}

// DefaultProfilesPath is ~/.atlasprofiles, or the working directory when no
// home directory is known.
func DefaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".atlasprofiles"
	}
	return filepath.Join(home, ".atlasprofiles")
}

type iniRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	// Entity lists are ';'-separated, so inline comments are not supported.
	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (r *iniRegistry) GetProfile(_ context.Context, name string) (domain.Profile, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return domain.Profile{}, fmt.Errorf("profile %s not found", name)
	}

	profile := domain.Profile{
		Name:        name,
		IndicatorID: section.Key("indicator").String(),
	}

	if section.HasKey("entities") {
		profile.Entities = splitList([]string{section.Key("entities").String()})
	}

	if section.HasKey("date") {
		start, end, err := ParsePeriodRange(section.Key("date").String())
		if err != nil {
			return domain.Profile{}, fmt.Errorf("profile %s: %w", name, err)
		}
		profile.StartPeriod, profile.EndPeriod = start, end
	}

	if section.HasKey("per_page") {
		perPage, err := section.Key("per_page").Int()
		if err != nil {
			return domain.Profile{}, fmt.Errorf("profile %s: invalid per_page: %w", name, err)
		}
		profile.PerPage = perPage
	}

	return profile, nil
}

// ParsePeriodRange parses "2005:2024".
func ParsePeriodRange(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid period range %q, expected start:end", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid period range start %q: %w", parts[0], err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid period range end %q: %w", parts[1], err)
	}
	if start > end {
		return 0, 0, fmt.Errorf("invalid period range %q, start is after end", s)
	}
	return start, end, nil
}
