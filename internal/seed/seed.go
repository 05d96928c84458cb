// Package seed loads reference data and accounts from a YAML file.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"weld-oee/backend/internal/model"
	"weld-oee/backend/internal/repository"
	"weld-oee/backend/pkg/formula"
)

//go:embed default.yaml
var defaultSeed []byte

// File seed document
type File struct {
	Staff         []Staff        `yaml:"staff"`
	Workers       []Worker       `yaml:"workers"`
	Modules       []Module       `yaml:"modules"`
	Components    []Component    `yaml:"components"`
	StoppageTypes []StoppageType `yaml:"stoppage_types"`
}

type Staff struct {
	Username string `yaml:"username"`
	FullName string `yaml:"full_name"`
	Role     string `yaml:"role"`
	Password string `yaml:"password"`
}

type Worker struct {
	Username string `yaml:"username"`
	FullName string `yaml:"full_name"`
	PIN      string `yaml:"pin"`
}

type Module struct {
	Name         string `yaml:"name"`
	DisplayOrder int    `yaml:"display_order"`
}

type Component struct {
	Name         string  `yaml:"name"`
	StandardTime float64 `yaml:"standard_time"`
	Formula      string  `yaml:"formula"`
}

type StoppageType struct {
	Name                      string `yaml:"name"`
	Category                  string `yaml:"category"`
	Color                     string `yaml:"color"`
	CountsAgainstAvailability bool   `yaml:"counts_against_availability"`
}

// Summary how many rows were created; existing rows are skipped
type Summary struct {
	Users         int
	Workers       int
	Modules       int
	Components    int
	StoppageTypes int
}

// Load reads a seed file, or the embedded default when path is empty
func Load(path string) (*File, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}
	return Parse(data)
}

// Parse decodes and validates a seed document
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate rejects entries the services would refuse later
func (f *File) Validate() error {
	for _, s := range f.Staff {
		if s.Username == "" || s.Password == "" {
			return fmt.Errorf("seed: staff %q needs username and password", s.Username)
		}
		if s.Role != model.RoleAdmin && s.Role != model.RoleQuality {
			return fmt.Errorf("seed: staff %q has unknown role %q", s.Username, s.Role)
		}
	}
	for _, w := range f.Workers {
		if w.Username == "" || len(w.PIN) < 4 || len(w.PIN) > 12 {
			return fmt.Errorf("seed: worker %q needs a username and a 4-12 character pin", w.Username)
		}
	}
	for _, c := range f.Components {
		if c.StandardTime <= 0 {
			return fmt.Errorf("seed: component %q needs a positive standard_time", c.Name)
		}
		if c.Formula != "" {
			if _, err := formula.Compile(c.Formula); err != nil {
				return fmt.Errorf("seed: component %q: %w", c.Name, err)
			}
		}
	}
	for _, st := range f.StoppageTypes {
		if st.Name == "" || st.Category == "" {
			return fmt.Errorf("seed: stoppage type needs name and category")
		}
	}
	return nil
}

// Apply inserts everything missing in one transaction. Users match on
// username, catalog entries on name.
func Apply(ctx context.Context, repo *repository.Repository, f *File, logger *zap.Logger) (*Summary, error) {
	var sum Summary
	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		sum = Summary{}

		// ── accounts ──
		for _, s := range f.Staff {
			created, err := ensureUser(ctx, tx, s.Username, s.FullName, s.Role, s.Password)
			if err != nil {
				return err
			}
			if created != nil {
				sum.Users++
			}
		}
		for _, w := range f.Workers {
			// welders never use the password login
			user, err := ensureUser(ctx, tx, w.Username, w.FullName, model.RoleWelder, "")
			if err != nil {
				return err
			}
			if user == nil {
				continue
			}
			sum.Users++
			pin, err := bcrypt.GenerateFromPassword([]byte(w.PIN), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			if err := tx.Worker.Create(ctx, &model.Worker{UserID: user.ID, PinHash: string(pin), IsActive: true}); err != nil {
				return fmt.Errorf("create worker %s: %w", w.Username, err)
			}
			sum.Workers++
		}

		// ── catalog ──
		modules, err := tx.Catalog.ListActiveModules(ctx)
		if err != nil {
			return err
		}
		existing := make(map[string]bool, len(modules))
		for _, m := range modules {
			existing[m.Name] = true
		}
		for _, m := range f.Modules {
			if existing[m.Name] {
				continue
			}
			if err := tx.Catalog.CreateModule(ctx, &model.Module{Name: m.Name, DisplayOrder: m.DisplayOrder, IsActive: true}); err != nil {
				return fmt.Errorf("create module %s: %w", m.Name, err)
			}
			sum.Modules++
		}

		components, err := tx.Catalog.ListActiveComponents(ctx)
		if err != nil {
			return err
		}
		existing = make(map[string]bool, len(components))
		for _, c := range components {
			existing[c.Name] = true
		}
		for _, c := range f.Components {
			if existing[c.Name] {
				continue
			}
			row := &model.Component{Name: c.Name, StandardTime: c.StandardTime, Formula: c.Formula, IsActive: true}
			if err := tx.Catalog.CreateComponent(ctx, row); err != nil {
				return fmt.Errorf("create component %s: %w", c.Name, err)
			}
			sum.Components++
		}

		types, err := tx.Catalog.ListActiveStoppageTypes(ctx, "")
		if err != nil {
			return err
		}
		existing = make(map[string]bool, len(types))
		for _, st := range types {
			existing[st.Name] = true
		}
		for _, st := range f.StoppageTypes {
			if existing[st.Name] {
				continue
			}
			row := &model.StoppageType{
				Name:                      st.Name,
				Category:                  st.Category,
				Color:                     st.Color,
				CountsAgainstAvailability: st.CountsAgainstAvailability,
				IsActive:                  true,
			}
			if err := tx.Catalog.CreateStoppageType(ctx, row); err != nil {
				return fmt.Errorf("create stoppage type %s: %w", st.Name, err)
			}
			sum.StoppageTypes++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("seed applied",
		zap.Int("users", sum.Users),
		zap.Int("workers", sum.Workers),
		zap.Int("modules", sum.Modules),
		zap.Int("components", sum.Components),
		zap.Int("stoppage_types", sum.StoppageTypes),
	)
	return &sum, nil
}

// ensureUser returns the new user, or nil when the username is taken
func ensureUser(ctx context.Context, repo *repository.Repository, username, fullName, role, password string) (*model.User, error) {
	_, err := repo.User.GetByUsername(ctx, username)
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash := "!"
	if password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = string(b)
	}
	if fullName == "" {
		fullName = username
	}
	user := &model.User{Username: username, FullName: fullName, Role: role, PasswordHash: hash, IsActive: true}
	if err := repo.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user %s: %w", username, err)
	}
	return user, nil
}
