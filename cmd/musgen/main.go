package main

import (
	"os"
	"reflect"
	"strings"

	musgen "github.com/mus-format/musgen-go/mus"
	genops "github.com/mus-format/musgen-go/options/generate"
	structops "github.com/mus-format/musgen-go/options/struct"
	typeops "github.com/mus-format/musgen-go/options/type"
	"github.com/poiesic/schoolfinder/core"
)

// Regenerates core/records_mus.gen.go. Field order is the stored format;
// append new Institution fields before Distance and rerun.
func main() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	// If we're in the core subpackage, cd up to project root
	if strings.HasSuffix(cwd, "core") {
		if err := os.Chdir(".."); err != nil {
			panic(err)
		}
	}
	g, err := musgen.NewCodeGenerator(
		genops.WithPkgPath("github.com/poiesic/schoolfinder/core"),
	)
	if err != nil {
		panic(err)
	}

	if err = g.AddDefinedType(reflect.TypeFor[core.Status]()); err != nil {
		panic(err)
	}
	if err = g.AddDefinedType(reflect.TypeFor[core.FlexibleID]()); err != nil {
		panic(err)
	}

	if err = g.AddStruct(reflect.TypeFor[core.Coordinate]()); err != nil {
		panic(err)
	}

	// Distance is computed per search and never stored
	err = g.AddStruct(reflect.TypeFor[core.Institution](),
		structops.WithField(), // ID
		structops.WithField(), // Name
		structops.WithField(), // Address
		structops.WithField(), // Coords
		structops.WithField(), // Website
		structops.WithField(), // Phone
		structops.WithField(), // Status
		structops.WithField(), // Programs
		structops.WithField(), // Schedule
		structops.WithField(), // HoursRequired
		structops.WithField(), // Tuition
		structops.WithField(), // Description
		structops.WithField(), // Rating
		structops.WithField(), // ReviewCount
		structops.WithField(), // GooglePlaceID
		structops.WithField(typeops.WithIgnore()))
	if err != nil {
		panic(err)
	}

	if err = g.AddStruct(reflect.TypeFor[core.GeocodeResult]()); err != nil {
		panic(err)
	}

	bs, err := g.Generate()
	if err != nil {
		panic(err)
	}

	err = os.WriteFile("./core/records_mus.gen.go", bs, 0644)
	if err != nil {
		panic(err)
	}
}
