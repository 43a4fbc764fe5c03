package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the harness configuration file.
type Config struct {
	Iterations int        `yaml:"iterations"`
	Profile    string     `yaml:"profile"`
	Workloads  []Workload `yaml:"workloads"`
}

// Workload is one entry of the workloads list, selected by its type.
type Workload struct {
	Type   string `yaml:"type"`
	Runner Runner
}

// Runner exercises the containers once per iteration.
type Runner interface {
	Run() error
	Name() string
}

type rawWorkload struct {
	Type string `yaml:"type"`
}

func (w *Workload) UnmarshalYAML(value *yaml.Node) error {
	var raw rawWorkload

	err := value.Decode(&raw)
	if err != nil {
		return err
	}

	var runner Runner

	switch raw.Type {
	case "vec":
		r := vecWorkload{Element: "bytewise", Pushes: 1024}

		if err := value.Decode(&r); err != nil {
			return err
		}
		if r.Element != "bytewise" && r.Element != "owned" {
			return fmt.Errorf("unknown vec element: %s", r.Element)
		}
		if r.Pushes < 0 || r.Reserve < 0 {
			return errors.New("vec workload: negative size")
		}

		runner = r

	case "option":
		r := optionWorkload{Storage: "compact", Count: 1024}

		if err := value.Decode(&r); err != nil {
			return err
		}
		if r.Storage != "compact" && r.Storage != "flagged" {
			return fmt.Errorf("unknown option storage: %s", r.Storage)
		}
		if r.Count < 0 {
			return errors.New("option workload: negative count")
		}

		runner = r

	default:
		return fmt.Errorf("unknown workload type: %s", raw.Type)
	}

	w.Type = raw.Type
	w.Runner = runner

	return nil
}

// DefaultConfig is used when no file is given.
func DefaultConfig() Config {
	return Config{
		Iterations: 10000,
		Profile:    "mem.prof",
		Workloads: []Workload{
			{Type: "vec", Runner: vecWorkload{Element: "bytewise", Pushes: 1024}},
			{Type: "vec", Runner: vecWorkload{Element: "owned", Pushes: 1024}},
			{Type: "option", Runner: optionWorkload{Storage: "compact", Count: 1024}},
		},
	}
}

// LoadConfig reads a YAML configuration. Unset top-level fields keep their
// defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()
	c.Workloads = nil

	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	if c.Iterations <= 0 {
		return Config{}, fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if len(c.Workloads) == 0 {
		c.Workloads = DefaultConfig().Workloads
	}
	return c, nil
}
