package main

import (
	"flag"
	"log"
	"strings"

	"github.com/acisops/acistherm"
)

// Fetches a load review's temperature model and commanded states from
// the web archive and writes the combined report table.

var (
	load       string
	comps      string
	statesComp string
	getMSIDs   bool
	outFile    string
	statesFile string
	overwrite  bool
)

func init() {
	flag.StringVar(&load, "load", "", "load review identifier, e.g. JAN2516A")
	flag.StringVar(&comps, "comps", "", "comma-separated temperature components (default: all)")
	flag.StringVar(&statesComp, "states-comp", "dpa", "thermal model page to take the states from")
	flag.BoolVar(&getMSIDs, "msids", false, "also pull telemetry for the modeled components")
	flag.StringVar(&outFile, "out", "model.dat", "output table file")
	flag.StringVar(&statesFile, "states-out", "", "also write the commanded states to this file")
	flag.BoolVar(&overwrite, "overwrite", false, "overwrite existing output files")
}

func main() {
	flag.Parse()
	if load == "" {
		log.Fatal("no load review provided")
	}
	var compList []string
	if comps != "" {
		compList = strings.Split(comps, ",")
	}

	ds, err := acistherm.NewThermalModelFromLoad(load, compList, getMSIDs, statesComp)
	if err != nil {
		log.Fatalf("fetching load %s: %s", load, err)
	}

	if getMSIDs {
		err = ds.WriteModelAndData(outFile, overwrite)
	} else {
		err = ds.WriteModel(outFile, overwrite)
	}
	if err != nil {
		log.Fatalf("writing %s: %s", outFile, err)
	}
	if statesFile != "" {
		if err := ds.WriteStates(statesFile, overwrite); err != nil {
			log.Fatalf("writing %s: %s", statesFile, err)
		}
	}
}
