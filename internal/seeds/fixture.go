// Package seeds loads catalog fixtures (programs, trainers, challenges and
// admin accounts) and inserts whatever is missing.
package seeds

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

type ProgramSeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Duration    string `yaml:"duration"`
	Cost        string `yaml:"cost"`
	ImageURL    string `yaml:"imageUrl"`
}

type TrainerSeed struct {
	Name         string   `yaml:"name"`
	Title        string   `yaml:"title"`
	Bio          string   `yaml:"bio"`
	ImageURL     string   `yaml:"imageUrl"`
	Achievements []string `yaml:"achievements"`
}

type ChallengeSeed struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"imageUrl"`
	Current     bool   `yaml:"current"`
}

// AdminSeed takes its password either inline or from the environment
// variable named by PasswordEnv.
type AdminSeed struct {
	AdminID     string `yaml:"adminId"`
	Password    string `yaml:"password"`
	PasswordEnv string `yaml:"passwordEnv"`
	Email       string `yaml:"email"`
	Name        string `yaml:"name"`
}

func (a AdminSeed) secret() string {
	if a.PasswordEnv != "" {
		return os.Getenv(a.PasswordEnv)
	}
	return a.Password
}

type Fixture struct {
	Programs   []ProgramSeed   `yaml:"programs"`
	Trainers   []TrainerSeed   `yaml:"trainers"`
	Challenges []ChallengeSeed `yaml:"challenges"`
	Admins     []AdminSeed     `yaml:"admins"`
}

func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("could not read %s: %w", path, err)
	}
	return ParseFixture(data)
}

func ParseFixture(data []byte) (Fixture, error) {
	var f Fixture
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.Strict()); err != nil {
		return Fixture{}, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return Fixture{}, err
	}
	return f, nil
}

// Validate checks required fields and uniqueness of the natural keys the
// seeder matches on.
func (f Fixture) Validate() error {
	var errs []error

	programs := map[string]bool{}
	for i, p := range f.Programs {
		name := strings.TrimSpace(p.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("programs[%d]: name is required", i))
		case programs[name]:
			errs = append(errs, fmt.Errorf("programs[%d]: duplicate name %q", i, name))
		}
		programs[name] = true
	}

	trainers := map[string]bool{}
	for i, t := range f.Trainers {
		name := strings.TrimSpace(t.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("trainers[%d]: name is required", i))
		case trainers[name]:
			errs = append(errs, fmt.Errorf("trainers[%d]: duplicate name %q", i, name))
		}
		trainers[name] = true
	}

	current := 0
	for i, c := range f.Challenges {
		if strings.TrimSpace(c.Title) == "" {
			errs = append(errs, fmt.Errorf("challenges[%d]: title is required", i))
		}
		if c.Current {
			current++
		}
	}
	if current > 1 {
		errs = append(errs, fmt.Errorf("challenges: %d entries flagged current, at most one allowed", current))
	}

	for i, a := range f.Admins {
		if strings.TrimSpace(a.AdminID) == "" || (a.Password == "" && a.PasswordEnv == "") {
			errs = append(errs, fmt.Errorf("admins[%d]: adminId and password or passwordEnv are required", i))
		}
	}

	return errors.Join(errs...)
}
