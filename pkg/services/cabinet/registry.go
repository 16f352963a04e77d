// Package cabinet manages seller cabinet profiles: named marketplace accounts
// with API tokens, loaded from an ini profile file.
package cabinet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-tools/seller-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// Registry resolves cabinet profiles. Profiles live in an ini file with one
// section per cabinet:
//
//	[my-shop]
//	token = eyJhbGciOi...
//	active = true
type Registry interface {
	GetCabinets(ctx context.Context) ([]domain.Cabinet, error)
	// GetCabinet returns the named cabinet, or the first active one when name
	// is empty. A missing or tokenless cabinet is a configuration error.
	GetCabinet(ctx context.Context, name string) (domain.Cabinet, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("cabinet: load profiles from %s: %w", path, err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) GetCabinets(_ context.Context) ([]domain.Cabinet, error) {
	var cabinets []domain.Cabinet
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		cabinets = append(cabinets, cabinetFromSection(section))
	}
	return cabinets, nil
}

func (r *iniRegistry) GetCabinet(ctx context.Context, name string) (domain.Cabinet, error) {
	cabinets, err := r.GetCabinets(ctx)
	if err != nil {
		return domain.Cabinet{}, err
	}

	for _, c := range cabinets {
		if name != "" && c.Name != name {
			continue
		}
		if name == "" && !c.Active {
			continue
		}
		if c.Token == "" {
			return domain.Cabinet{}, fmt.Errorf("cabinet %q has no API token", c.Name)
		}
		if !c.Active {
			return domain.Cabinet{}, fmt.Errorf("cabinet %q is not active", c.Name)
		}
		return c, nil
	}

	if name != "" {
		return domain.Cabinet{}, fmt.Errorf("cabinet %q not found", name)
	}
	return domain.Cabinet{}, fmt.Errorf("no active cabinet configured")
}

func cabinetFromSection(section *ini.Section) domain.Cabinet {
	active := true
	if section.HasKey("active") {
		active, _ = section.Key("active").Bool()
	}
	return domain.Cabinet{
		ID:     CabinetID(section.Name()),
		Name:   section.Name(),
		Token:  section.Key("token").String(),
		Active: active,
	}
}

// CabinetID derives a stable identifier from the profile name so cache keys
// survive process restarts and profile file reloads.
func CabinetID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("wb-cabinet:"+name)).String()
}
