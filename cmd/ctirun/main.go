package main

import (
	"flag"
	"log"
	"strings"

	"github.com/acisops/acistherm"
	"github.com/spf13/viper"
)

// This code only reads the scenario file, simulates the CTI run and
// writes the summary.

const defaultScenario = "~~unset~~"

var scenario string

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "CTI run scenario TOML file")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	scenario = strings.Replace(scenario, ".toml", "", 1)
	viper.AddConfigPath(".")
	viper.SetConfigName(scenario)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("./%s.toml: Error %s", scenario, err)
	}

	name := viper.GetString("run.model")
	start := viper.GetString("run.start")
	stop := viper.GetString("run.stop")
	if name == "" || start == "" || stop == "" {
		log.Fatal("run.model, run.start and run.stop must all be set")
	}
	opts := acistherm.CTIRunOptions{
		TInit:          viper.GetFloat64("run.T_init"),
		Pitch:          viper.GetFloat64("run.pitch"),
		CCDCount:       viper.GetInt("run.ccd_count"),
		SimPos:         viper.GetFloat64("run.simpos"),
		OffNominalRoll: viper.GetFloat64("run.off_nominal_roll"),
		DHHeater:       viper.GetBool("run.dh_heater"),
		NoClocking:     viper.GetBool("run.no_clocking"),
		VehicleLoad:    viper.GetString("run.vehicle_load"),
		ModelSpec:      viper.GetString("run.model_spec"),
	}

	run, err := acistherm.SimulateCTIRun(name, start, stop, opts)
	if err != nil {
		log.Fatalf("simulating CTI run: %s", err)
	}

	summary := viper.GetString("output.summary")
	if summary == "" {
		summary = "cti-" + name + ".csv"
	}
	overwrite := viper.GetBool("output.overwrite")
	if err := acistherm.WriteCTISummary(run, summary, overwrite); err != nil {
		log.Fatalf("writing summary: %s", err)
	}
}
