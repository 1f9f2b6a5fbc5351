package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/mohammed-shakir/geocoords/coordinates"
	"github.com/mohammed-shakir/geocoords/internal/logger"
	"github.com/mohammed-shakir/geocoords/pkg/cellcover"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	fileFlag := flag.String("file", "", "coordinate definition file (.json or .yml/.yaml)")
	resFlag := flag.Int("res", -1, "H3 resolution for a lat/lon cell cover (off when negative)")
	levelFlag := flag.String("level", "info", "log level")
	flag.Parse()

	zl := logger.Build(logger.Config{
		Level:     *levelFlag,
		Console:   strings.ToLower(os.Getenv("LOG_CONSOLE")) == "true",
		Component: "coordinfo",
	}, os.Stdout)

	if *fileFlag == "" {
		zl.Error().Msg("missing -file")
		return 2
	}
	data, err := os.ReadFile(*fileFlag)
	if err != nil {
		zl.Error().Err(err).Msg("read definition")
		return 1
	}

	var coords *coordinates.Coordinates
	switch ext := strings.ToLower(filepath.Ext(*fileFlag)); ext {
	case ".yml", ".yaml":
		coords, err = coordinates.FromYAML(data)
	default:
		coords, err = coordinates.FromJSON(data)
	}
	if err != nil {
		zl.Error().Err(err).Msg("parse definition")
		return 1
	}

	hash, err := coords.HashString()
	if err != nil {
		zl.Error().Err(err).Msg("hash definition")
		return 1
	}
	zl.Info().
		Str("version", Version).
		Strs("dims", coords.Dims()).
		Ints("shape", coords.Shape()).
		Int("size", coords.Size()).
		Str("crs", coords.CRS()).
		Str("hash", hash).
		Msg("coordinates")

	for dim, b := range coords.Bounds() {
		zl.Info().
			Str("dim", dim).
			Str("lower", b.Lower.String()).
			Str("upper", b.Upper.String()).
			Msg("bounds")
	}

	if *resFlag >= 0 {
		cells, err := cellcover.New(zl).CellsForCoordinates(coords, *resFlag)
		if err != nil {
			zl.Error().Err(err).Msg("cell cover")
			return 1
		}
		zl.Info().Int("res", *resFlag).Int("cells", len(cells)).Strs("sample", head(cells, 8)).Msg("h3 cover")
	}
	return 0
}

func head(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
