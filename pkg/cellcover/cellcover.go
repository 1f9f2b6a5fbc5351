// Package cellcover maps geospatial coordinate areas onto H3 cells, for
// tiling and cache partitioning of lat/lon grids.
package cellcover

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	h3 "github.com/uber/h3-go/v4"

	"github.com/mohammed-shakir/geocoords/coordinates"
)

// Interface covers coordinate areas with H3 cells at a given resolution.
type Interface interface {
	CellsForCoordinates(c *coordinates.Coordinates, res int) ([]string, error)
	CellsForBounds(lat, lon coordinates.Bounds, res int) ([]string, error)
	CellsForPoints(c *coordinates.Coordinates, res int) ([]string, error)
}

type Coverer struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Coverer { return &Coverer{log: log} }

var _ Interface = (*Coverer)(nil)

// CellsForCoordinates covers the lat/lon area bounds of the coordinate set.
// The set must carry numeric "lat" and "lon" dimensions, stacked or not; the
// ctype-expanded area bounds are used so cells cover the full footprint.
func (cv *Coverer) CellsForCoordinates(c *coordinates.Coordinates, res int) ([]string, error) {
	lat, err := areaBoundsOf(c, "lat")
	if err != nil {
		return nil, err
	}
	lon, err := areaBoundsOf(c, "lon")
	if err != nil {
		return nil, err
	}
	return cv.CellsForBounds(lat, lon, res)
}

// CellsForBounds covers a lat/lon rectangle.
func (cv *Coverer) CellsForBounds(lat, lon coordinates.Bounds, res int) ([]string, error) {
	if err := validateRes(res); err != nil {
		return nil, err
	}
	if lat.Dtype() != coordinates.DtypeFloat || lon.Dtype() != coordinates.DtypeFloat {
		return nil, errors.New("lat/lon bounds must be numeric")
	}

	y1, y2 := lat.Lower.Float(), lat.Upper.Float()
	x1, x2 := lon.Lower.Float(), lon.Upper.Float()
	outer := h3.GeoLoop{
		{Lat: y1, Lng: x1},
		{Lat: y1, Lng: x2},
		{Lat: y2, Lng: x2},
		{Lat: y2, Lng: x1},
	}
	cells, err := polyfillOne(outer, nil, res)
	if err != nil {
		return nil, err
	}
	cv.log.Debug().Int("res", res).Int("cells", len(cells)).Msg("area cover computed")
	return cells, nil
}

// CellsForPoints maps each (lat, lon) tuple of a stacked coordinate set to
// its containing cell. Unlike the area cover this follows the points
// exactly, so sparse tracks do not pull in the whole bounding box.
func (cv *Coverer) CellsForPoints(c *coordinates.Coordinates, res int) ([]string, error) {
	if err := validateRes(res); err != nil {
		return nil, err
	}
	lat, err := c.Get1d("lat")
	if err != nil {
		return nil, err
	}
	lon, err := c.Get1d("lon")
	if err != nil {
		return nil, err
	}
	if lat.Dtype() != coordinates.DtypeFloat || lon.Dtype() != coordinates.DtypeFloat {
		return nil, errors.New("lat/lon coordinates must be numeric")
	}
	if lat.Size() != lon.Size() {
		return nil, fmt.Errorf("lat size %d != lon size %d", lat.Size(), lon.Size())
	}

	lats, lons := lat.Values(), lon.Values()
	seen := make(map[string]struct{}, len(lats))
	out := make([]string, 0, len(lats))
	for i := range lats {
		cell, err := h3.LatLngToCell(h3.LatLng{Lat: lats[i].Float(), Lng: lons[i].Float()}, res)
		if err != nil {
			return nil, fmt.Errorf("h3 cell: %w", err)
		}
		s := cell.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	cv.log.Debug().Int("res", res).Int("points", len(lats)).Int("cells", len(out)).Msg("point cover computed")
	return out, nil
}

func areaBoundsOf(c *coordinates.Coordinates, dim string) (coordinates.Bounds, error) {
	c1, err := c.Get1d(dim)
	if err != nil {
		return coordinates.Bounds{}, err
	}
	b, ok := c1.AreaBounds()
	if !ok {
		return coordinates.Bounds{}, fmt.Errorf("empty %q coordinates", dim)
	}
	return b, nil
}

func validateRes(res int) error {
	if res < 0 || res > 15 {
		return fmt.Errorf("invalid H3 resolution %d (must be 0..15)", res)
	}
	return nil
}

// polyfillOne computes unique cells and returns them sorted for determinism.
func polyfillOne(outer h3.GeoLoop, holes []h3.GeoLoop, res int) ([]string, error) {
	if len(outer) < 4 {
		return nil, errors.New("outer ring has < 4 vertices")
	}
	poly := h3.GeoPolygon{
		GeoLoop: outer,
		Holes:   holes,
	}

	indexes, err := h3.PolygonToCells(poly, res)
	if err != nil {
		return nil, fmt.Errorf("h3 polyfill: %w", err)
	}

	out := make([]string, 0, len(indexes))
	seen := make(map[string]struct{}, len(indexes))
	for _, idx := range indexes {
		s := idx.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}
