package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const DefaultPath = "./config/application.yaml"

type Application struct {
	Host     string   `koanf:"host"`
	Port     int      `koanf:"port"`
	Database Database `koanf:"db"`
	Forecast Forecast `koanf:"forecast"`
	MockData MockData `koanf:"mockdata"`
	Google   Google   `koanf:"google"`
	Metrics  Metrics  `koanf:"metrics"`
}

type Database struct {
	// Driver selects the record store: postgres, sqlite or memory.
	Driver string `koanf:"driver"`
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
	// Path is the sqlite database file.
	Path            string `koanf:"path"`
	ConnectAttempts uint   `koanf:"connectattempts"`
}

// Forecast holds the forecasting policy. MinWeeks and SparseThreshold decide which ledgers are rejected
// before any model is fitted.
type Forecast struct {
	MinWeeks        int     `koanf:"minweeks"`
	SparseThreshold float64 `koanf:"sparsethreshold"`
	HorizonWeeks    int     `koanf:"horizonweeks"`
	SeasonLength    int     `koanf:"seasonlength"`
	WeekStart       string  `koanf:"weekstart"`
	FillWindowDays  int     `koanf:"fillwindowdays"`
	MaxIterations   int     `koanf:"maxiterations"`
}

type MockData struct {
	Records int `koanf:"records"`
	Days    int `koanf:"days"`
	// Seed of 0 means a time based seed.
	Seed uint64 `koanf:"seed"`
}

type Google struct {
	CredentialsFile string `koanf:"credentialsfile"`
	SpreadsheetId   string `koanf:"spreadsheetid"`
	SheetName       string `koanf:"sheetname"`
}

type Metrics struct {
	Enabled bool `koanf:"enabled"`
}

func Defaults() Application {
	return Application{
		Host: "http://localhost:8181",
		Port: 8181,
		Database: Database{
			Driver:          "postgres",
			Host:            "localhost",
			Port:            5432,
			User:            "spendcast",
			Pass:            "",
			Name:            "spendcast",
			Schema:          "spendcast",
			Path:            "./data/spendcast.db",
			ConnectAttempts: 5,
		},
		Forecast: Forecast{
			MinWeeks:        8,
			SparseThreshold: 0.5,
			HorizonWeeks:    4,
			SeasonLength:    4,
			WeekStart:       "monday",
			FillWindowDays:  7,
			MaxIterations:   2000,
		},
		MockData: MockData{
			Records: 500,
			Days:    180,
		},
		Google: Google{
			SheetName: "Expenses",
		},
		Metrics: Metrics{
			Enabled: true,
		},
	}
}

func Load(path string) (Application, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("unable to load .env file: %v", err)
	}

	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "SPENDCAST_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "SPENDCAST_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if err := app.Validate(); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Validate reports every configuration problem at once.
func (a Application) Validate() error {
	var problems []string

	if a.Port < 1 || a.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", a.Port))
	}

	switch a.Database.Driver {
	case "postgres":
		if a.Database.Host == "" || a.Database.Name == "" {
			problems = append(problems, "db.host and db.name are required for the postgres driver")
		}
	case "sqlite":
		if a.Database.Path == "" {
			problems = append(problems, "db.path is required for the sqlite driver")
		}
	case "memory":
	default:
		problems = append(problems, fmt.Sprintf("invalid db driver '%s': must be one of [postgres sqlite memory]", a.Database.Driver))
	}

	f := a.Forecast
	if f.SeasonLength < 1 {
		problems = append(problems, fmt.Sprintf("invalid forecast.seasonlength %d: must be at least 1", f.SeasonLength))
	}
	if f.MinWeeks < 2*f.SeasonLength {
		problems = append(problems, fmt.Sprintf("invalid forecast.minweeks %d: must cover two seasons (%d weeks)", f.MinWeeks, 2*f.SeasonLength))
	}
	if f.SparseThreshold <= 0 || f.SparseThreshold > 1 {
		problems = append(problems, fmt.Sprintf("invalid forecast.sparsethreshold %v: must be in (0, 1]", f.SparseThreshold))
	}
	if f.HorizonWeeks < 1 {
		problems = append(problems, fmt.Sprintf("invalid forecast.horizonweeks %d: must be at least 1", f.HorizonWeeks))
	}
	if f.FillWindowDays < 1 {
		problems = append(problems, fmt.Sprintf("invalid forecast.fillwindowdays %d: must be at least 1", f.FillWindowDays))
	}
	if _, err := f.FirstDayOfWeek(); err != nil {
		problems = append(problems, err.Error())
	}

	if a.MockData.Records < 1 || a.MockData.Days < 1 {
		problems = append(problems, "mockdata.records and mockdata.days must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// FirstDayOfWeek parses WeekStart ("monday", "sunday", ...) into a time.Weekday.
func (f Forecast) FirstDayOfWeek() (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(f.WeekStart)) {
			return d, nil
		}
	}
	return time.Monday, fmt.Errorf("invalid forecast.weekstart '%s': must be a weekday name", f.WeekStart)
}
