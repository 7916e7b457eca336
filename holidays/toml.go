package holidays

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/warp/bridge-planner/calendar"
)

//go:embed data/holidays.toml
var defaultData []byte

// File layout:
//
//	[[country]]
//	name = "United States"
//	codes = ["us", "usa"]
//	aliases = { ca = "california" }
//
//	  [[country.holiday]]
//	  date = "2025-01-01"
//	  name = "New Year's Day"
//
//	  [[country.region]]
//	  key = "california"
//
//	    [[country.region.holiday]]
//	    date = "2025-03-31"
//	    name = "César Chávez Day"
type fileFormat struct {
	Countries []countryFile `toml:"country"`
}

type countryFile struct {
	Name     string            `toml:"name"`
	Codes    []string          `toml:"codes"`
	Aliases  map[string]string `toml:"aliases"`
	Holidays []holidayFile     `toml:"holiday"`
	Regions  []regionFile      `toml:"region"`
}

type regionFile struct {
	Key      string        `toml:"key"`
	Holidays []holidayFile `toml:"holiday"`
}

type holidayFile struct {
	Date string `toml:"date"`
	Name string `toml:"name"`
}

// Default returns the embedded dataset. It panics if the embedded file is
// malformed, which a test guards against.
func Default() *Dataset {
	ds, err := LoadTOML(bytes.NewReader(defaultData))
	if err != nil {
		panic(fmt.Sprintf("embedded holiday dataset: %v", err))
	}
	return ds
}

// LoadFile reads a dataset from a TOML file.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer f.Close()
	return LoadTOML(f)
}

// LoadTOML decodes a dataset. Malformed dates fail the whole load.
func LoadTOML(r io.Reader) (*Dataset, error) {
	var raw fileFormat
	if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode holiday file: %w", err)
	}

	ds := NewDataset()
	for _, c := range raw.Countries {
		if c.Name == "" {
			return nil, fmt.Errorf("country without a name")
		}
		ds.AddCountry(c.Name, c.Codes...)
		for _, h := range c.Holidays {
			if err := addHoliday(ds, c.Name, "", h); err != nil {
				return nil, err
			}
		}
		for _, reg := range c.Regions {
			ds.AddRegion(c.Name, reg.Key)
			for _, h := range reg.Holidays {
				if err := addHoliday(ds, c.Name, reg.Key, h); err != nil {
					return nil, err
				}
			}
		}
		for alias, key := range c.Aliases {
			ds.AddAlias(c.Name, alias, key)
		}
	}
	return ds, nil
}

func addHoliday(ds *Dataset, country, region string, h holidayFile) error {
	date, err := calendar.ParseDate(h.Date)
	if err != nil {
		return fmt.Errorf("%s %s: %w", country, h.Name, err)
	}
	ds.AddHoliday(country, region, date, h.Name)
	return nil
}
