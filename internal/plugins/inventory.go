package plugins

import (
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// InventoryFile is the file name of a game's plugin inventory
const InventoryFile = "plugins.yaml"

// ErrInvalidInventory is returned when an inventory cannot be decoded
var ErrInvalidInventory = errors.New("invalid plugin inventory")

// Loader reads the installed plugins of a game in load order.
// With headersOnly set, FormIDs are left nil.
type Loader interface {
	Load(headersOnly bool) ([]Plugin, error)
}

// Inventory loads plugins from a YAML description kept in the game's data
// folder. It stands in for parsing the plugin binaries.
//
//	plugins:
//	  - name: Oblivion.esm
//	    master: true
//	    active: true
//	    version: 1.2.0416
//	    formids: [0x000001, "0x000100-0x0001FF"]
//	  - name: Unofficial Oblivion Patch.esp
//	    active: true
//	    masters: [Oblivion.esm]
//
// A missing crc is computed from the plugin file when it exists, and a
// missing bsa flag is derived from a same-named .bsa archive.
type Inventory struct {
	dataDir string
}

// NewInventory creates an inventory loader for a data folder
func NewInventory(dataDir string) *Inventory {
	return &Inventory{dataDir: dataDir}
}

// Path returns the inventory file path
func (inv *Inventory) Path() string {
	return filepath.Join(inv.dataDir, InventoryFile)
}

type inventoryDoc struct {
	Plugins []inventoryEntry `yaml:"plugins"`
}

type inventoryEntry struct {
	Name    string     `yaml:"name"`
	Master  bool       `yaml:"master"`
	Active  bool       `yaml:"active"`
	BSA     *bool      `yaml:"bsa"`
	CRC     *uint32    `yaml:"crc"`
	Version string     `yaml:"version"`
	Masters []string   `yaml:"masters"`
	FormIDs formIDList `yaml:"formids"`
}

// formIDList accepts single ids and "first-last" ranges.
type formIDList []uint32

func (l *formIDList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: formids must be a list", node.Line)
	}
	for _, item := range node.Content {
		first, last, err := parseFormIDRange(item.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", item.Line, err)
		}
		for id := first; ; id++ {
			*l = append(*l, id)
			if id == last {
				break
			}
		}
	}
	return nil
}

func parseFormIDRange(s string) (uint32, uint32, error) {
	lo, hi, isRange := strings.Cut(s, "-")
	first, err := strconv.ParseUint(strings.TrimSpace(lo), 0, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid formid %q", s)
	}
	if !isRange {
		return uint32(first), uint32(first), nil
	}
	last, err := strconv.ParseUint(strings.TrimSpace(hi), 0, 32)
	if err != nil || last < first {
		return 0, 0, fmt.Errorf("invalid formid range %q", s)
	}
	return uint32(first), uint32(last), nil
}

// Load reads the inventory
func (inv *Inventory) Load(headersOnly bool) ([]Plugin, error) {
	data, err := os.ReadFile(inv.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin inventory: %w", err)
	}

	var doc inventoryDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInventory, err)
	}

	out := make([]Plugin, 0, len(doc.Plugins))
	for _, e := range doc.Plugins {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: plugin entry has no name", ErrInvalidInventory)
		}

		p := Plugin{
			Name:     e.Name,
			IsMaster: e.Master || strings.EqualFold(filepath.Ext(e.Name), ".esm"),
			Active:   e.Active,
			Version:  e.Version,
			Masters:  e.Masters,
		}

		if e.BSA != nil {
			p.LoadsBSA = *e.BSA
		} else {
			p.LoadsBSA = inv.hasArchive(e.Name)
		}

		if e.CRC != nil {
			p.CRC = *e.CRC
		} else if crc, err := inv.checksum(e.Name); err == nil {
			p.CRC = crc
		}

		if !headersOnly {
			p.FormIDs = NewFormIDSet(e.FormIDs...)
		}
		out = append(out, p)
	}
	return out, nil
}

// hasArchive reports whether a BSA with the plugin's base name exists
func (inv *Inventory) hasArchive(name string) bool {
	stem := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
	entries, err := os.ReadDir(inv.dataDir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		lower := strings.ToLower(entry.Name())
		if strings.HasSuffix(lower, ".bsa") && strings.TrimSuffix(lower, ".bsa") == stem {
			return true
		}
	}
	return false
}

func (inv *Inventory) checksum(name string) (uint32, error) {
	data, err := os.ReadFile(filepath.Join(inv.dataDir, name))
	if err != nil {
		return 0, err
	}
	return crc32.ChecksumIEEE(data), nil
}
