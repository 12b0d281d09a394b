// Package config loads and validates the planning configuration. Loading
// yields plain typed data; the domain packages own every semantic rule, so
// validation here is structural: required sections, unique names, exclusive
// duration forms.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mkvammen/fieldplan/internal/faults"
)

// Config is the full planning input.
type Config struct {
	Field    FieldConfig    `yaml:"field"`
	Grid     GridConfig     `yaml:"grid"`
	Zones    []ZoneConfig   `yaml:"zones"`
	Wells    WellsConfig    `yaml:"wells"`
	Control  ControlConfig  `yaml:"control"`
	Phases   []PhaseConfig  `yaml:"phases"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
}

type FieldConfig struct {
	Name         string         `yaml:"name"`
	HorizonDays  int            `yaml:"horizon_days"`
	HorizonYears float64        `yaml:"horizon_years"`
	Pressure     PressureConfig `yaml:"pressure_envelope"`
}

type PressureConfig struct {
	MinPSI float64 `yaml:"min_psi"`
	MaxPSI float64 `yaml:"max_psi"`
}

type GridConfig struct {
	NX        int           `yaml:"nx"`
	NY        int           `yaml:"ny"`
	NZ        int           `yaml:"nz"`
	CellDXM   float64       `yaml:"cell_dx_m"`
	CellDYM   float64       `yaml:"cell_dy_m"`
	CellDZM   float64       `yaml:"cell_dz_m"`
	TopDepthM float64       `yaml:"top_depth_m"`
	Layers    []LayerConfig `yaml:"layers"`
}

type LayerConfig struct {
	PermXMD  float64 `yaml:"perm_x_md"`
	PermYMD  float64 `yaml:"perm_y_md"`
	PermZMD  float64 `yaml:"perm_z_md"`
	Porosity float64 `yaml:"porosity"`
	Region   int     `yaml:"region"`
}

type ZoneConfig struct {
	Name      string `yaml:"name"`
	FromLayer int    `yaml:"from_layer"`
	ToLayer   int    `yaml:"to_layer"`
}

type WellsConfig struct {
	ExpectedProducers int          `yaml:"expected_producers"`
	ExpectedInjectors int          `yaml:"expected_injectors"`
	Items             []WellConfig `yaml:"items"`
}

type WellConfig struct {
	Name           string            `yaml:"name"`
	Kind           string            `yaml:"kind"`
	Trajectory     string            `yaml:"trajectory"`
	I              int               `yaml:"i"`
	J              int               `yaml:"j"`
	SurfaceXM      float64           `yaml:"surface_x_m"`
	SurfaceYM      float64           `yaml:"surface_y_m"`
	Skin           float64           `yaml:"skin"`
	Layers         []int             `yaml:"layers"`
	Laterals       []LateralConfig   `yaml:"laterals"`
	DrillingDays   int               `yaml:"drilling_days"`
	CompletionDays int               `yaml:"completion_days"`
	Control        WellControlConfig `yaml:"control"`
}

type LateralConfig struct {
	Layer  int     `yaml:"layer"`
	ToeDXM float64 `yaml:"toe_dx_m"`
	ToeDYM float64 `yaml:"toe_dy_m"`
}

type WellControlConfig struct {
	TargetRateSM3D float64 `yaml:"target_rate_sm3d"`
	BHPLimitPSI    float64 `yaml:"bhp_limit_psi"`
	Margin1PSI     float64 `yaml:"margin1_psi"`
	Margin2PSI     float64 `yaml:"margin2_psi"`
	MaxWaterCut    float64 `yaml:"max_water_cut"`
	MaxGOR         float64 `yaml:"max_gor"`
}

type ControlConfig struct {
	ProducerMargins MarginConfig `yaml:"producer_margin_bounds"`
	InjectorMargins MarginConfig `yaml:"injector_margin_bounds"`
	VRRBand         BandConfig   `yaml:"vrr_band"`
	FormationVolume float64      `yaml:"formation_volume_factor"`
}

type MarginConfig struct {
	MinPSI float64 `yaml:"min_psi"`
	MaxPSI float64 `yaml:"max_psi"`
}

type BandConfig struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

type PhaseConfig struct {
	Name                string   `yaml:"name"`
	DurationDays        int      `yaml:"duration_days"`
	DurationYears       float64  `yaml:"duration_years"`
	AddWells            []string `yaml:"add_wells"`
	OilTargetSM3D       float64  `yaml:"oil_target_sm3d"`
	InjectionTargetSM3D float64  `yaml:"injection_target_sm3d"`
	VRRTarget           float64  `yaml:"vrr_target"`
}

type ScheduleConfig struct {
	StepDays          int     `yaml:"step_days"`
	CheckpointDays    int     `yaml:"checkpoint_days"`
	OilRegressTolSM3D float64 `yaml:"oil_regress_tolerance_sm3d"`
}

type OutputConfig struct {
	DeckPath    string `yaml:"deck_path"`
	ReportDir   string `yaml:"report_dir"`
	ArchivePath string `yaml:"archive_path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads the YAML file at path, applies defaults and FIELDPLAN_*
// environment overrides for the operational knobs, and validates the
// result structurally.
func Load(path string) (Config, error) {
	cfg := Config{
		Control: ControlConfig{
			ProducerMargins: MarginConfig{MinPSI: 30, MaxPSI: 200},
			InjectorMargins: MarginConfig{MinPSI: 50, MaxPSI: 300},
			VRRBand:         BandConfig{Low: 0.95, High: 1.05},
			FormationVolume: 1.2,
		},
		Schedule: ScheduleConfig{
			StepDays:          91,
			CheckpointDays:    365,
			OilRegressTolSM3D: 100,
		},
		Output: OutputConfig{
			DeckPath:  "fieldplan_deck.json",
			ReportDir: "reports",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if err := loadFromFile(path, &cfg); err != nil {
		return Config{}, err
	}

	if level := os.Getenv("FIELDPLAN_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if deck := os.Getenv("FIELDPLAN_DECK_PATH"); deck != "" {
		cfg.Output.DeckPath = deck
	}
	if dir := os.Getenv("FIELDPLAN_REPORT_DIR"); dir != "" {
		cfg.Output.ReportDir = dir
	}
	if archive := os.Getenv("FIELDPLAN_ARCHIVE_PATH"); archive != "" {
		cfg.Output.ArchivePath = archive
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// HorizonDays resolves the horizon, converting a year form at 365 days per
// year. validate guarantees exactly one form is set.
func (c Config) HorizonDays() int {
	if c.Field.HorizonDays > 0 {
		return c.Field.HorizonDays
	}
	return int(math.Round(c.Field.HorizonYears * 365))
}

func (c Config) validate() error {
	if c.Field.Name == "" {
		return fmt.Errorf("field.name is required: %w", faults.ErrConfiguration)
	}
	if c.Field.HorizonDays > 0 && c.Field.HorizonYears > 0 {
		return fmt.Errorf("field has both horizon_days and horizon_years: %w", faults.ErrConfiguration)
	}
	if c.Field.HorizonDays <= 0 && c.Field.HorizonYears <= 0 {
		return fmt.Errorf("field.horizon_days or field.horizon_years is required: %w", faults.ErrConfiguration)
	}
	if c.Field.Pressure.MinPSI <= 0 || c.Field.Pressure.MaxPSI <= 0 {
		return fmt.Errorf("field.pressure_envelope is required: %w", faults.ErrConfiguration)
	}
	if c.Grid.NX <= 0 || c.Grid.NY <= 0 || c.Grid.NZ <= 0 {
		return fmt.Errorf("grid dimensions are required: %w", faults.ErrConfiguration)
	}
	if len(c.Grid.Layers) == 0 {
		return fmt.Errorf("grid.layers is required: %w", faults.ErrConfiguration)
	}
	if len(c.Wells.Items) == 0 {
		return fmt.Errorf("wells.items is required: %w", faults.ErrConfiguration)
	}
	seen := make(map[string]bool, len(c.Wells.Items))
	for i, w := range c.Wells.Items {
		if w.Name == "" {
			return fmt.Errorf("wells.items[%d].name is required: %w", i, faults.ErrConfiguration)
		}
		if seen[w.Name] {
			return fmt.Errorf("well %s configured twice: %w", w.Name, faults.ErrConfiguration)
		}
		seen[w.Name] = true
		switch w.Kind {
		case "producer", "injector":
		default:
			return fmt.Errorf("well %s: kind %q is not producer or injector: %w",
				w.Name, w.Kind, faults.ErrConfiguration)
		}
		switch w.Trajectory {
		case "vertical", "horizontal", "multilateral":
		default:
			return fmt.Errorf("well %s: trajectory %q is not vertical, horizontal or multilateral: %w",
				w.Name, w.Trajectory, faults.ErrConfiguration)
		}
	}
	if len(c.Phases) == 0 {
		return fmt.Errorf("phases is required: %w", faults.ErrConfiguration)
	}
	for i, ph := range c.Phases {
		if ph.Name == "" {
			return fmt.Errorf("phases[%d].name is required: %w", i, faults.ErrConfiguration)
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not debug, info, warn or error: %w",
			c.Log.Level, faults.ErrConfiguration)
	}
	return nil
}
