package core

import (
	"os"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// DashboardGameCode is the game code whose catalog the dashboard lists.
const DashboardGameCode = "IRAO"

// Dlc is one downloadable content entry.
type Dlc struct {
	Name  string `yaml:"name"`
	Index int    `yaml:"index"`
	Path  string `yaml:"path"`
}

// DlcCatalog maps game code -> DLC type -> entries.
//
//	IRAO:
//	  CGEAR:
//	    - name: Sky Pillar
//	      index: 1
type DlcCatalog struct {
	entries map[string]map[string][]Dlc
}

// LoadDlcCatalog reads a YAML catalog. An empty path yields an empty catalog.
func LoadDlcCatalog(path string) (*DlcCatalog, error) {
	if path == "" {
		return &DlcCatalog{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Code("DLC_CATALOG_READ_FAILED").With("path", path).Wrapf(err, "read dlc catalog")
	}
	return ParseDlcCatalog(data)
}

// ParseDlcCatalog decodes YAML catalog data.
func ParseDlcCatalog(data []byte) (*DlcCatalog, error) {
	var entries map[string]map[string][]Dlc
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, oops.Code("DLC_CATALOG_INVALID").Wrapf(err, "parse dlc catalog")
	}
	return &DlcCatalog{entries: entries}, nil
}

// List returns the entries for a game code and type, or nil.
func (c *DlcCatalog) List(gameCode, dlcType string) []Dlc {
	return c.entries[gameCode][dlcType]
}

// Names returns the entry names for a game code and type; never nil.
func (c *DlcCatalog) Names(gameCode, dlcType string) []string {
	list := c.List(gameCode, dlcType)
	names := make([]string, 0, len(list))
	for _, d := range list {
		names = append(names, d.Name)
	}
	return names
}
