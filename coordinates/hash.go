package coordinates

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Hash digests the full definition, including dimension order, properties
// and the reference system. Equal coordinate sets hash equally; any change
// to values, ctype, stacking or order changes the digest.
func (c *Coordinates) Hash() (uint64, error) {
	// defaults are filled in so an explicit default and an unset
	// property digest identically, matching Equal
	def := c.definition()
	def.CRS = c.CRS()
	for _, entry := range def.Coords {
		switch e := entry.(type) {
		case *definition1d:
			fillDefaults(e)
		case []*definition1d:
			for _, d := range e {
				fillDefaults(d)
			}
		}
	}
	data, err := json.Marshal(def)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

func fillDefaults(d *definition1d) {
	if d.Ctype == "" {
		d.Ctype = string(DefaultCtype)
	}
	if d.CRS == "" {
		d.CRS = DefaultCRS
	}
}

// HashString is the hexadecimal form of Hash.
func (c *Coordinates) HashString() (string, error) {
	h, err := c.Hash()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h), nil
}
