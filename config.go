package acistherm

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = _athermconfig{}
)

// DefaultArchiveURL is the base URL of the thermal model web archive.
const DefaultArchiveURL = "http://cxc.cfa.harvard.edu/acis"

// _athermconfig is a "hidden" struct, just use `athermConfig`.
type _athermconfig struct {
	archiveURL string   // base URL of the load review archive
	dataDir    string   // where fetched archive files are copied
	outputDir  string   // where reports are written
	specDir    string   // where the model spec JSON files live
	statesDB   string   // commanded states SQLite database
	archiveDB  string   // engineering archive SQLite mirror
	engineCmd  []string // external thermal engine invocation
}

// athermConfig returns the module configuration. The configuration is a
// conf.toml in the directory named by ACISTHERM_CONFIG. Without that
// environment variable, defaults apply so that library usage works with
// no configuration on disk.
func athermConfig() _athermconfig {
	if cfgLoaded {
		return config
	}
	config = _athermconfig{
		archiveURL: DefaultArchiveURL,
		dataDir:    ".",
		outputDir:  ".",
		engineCmd:  []string{"python3", "run_xija.py"},
	}
	confPath := os.Getenv("ACISTHERM_CONFIG")
	if confPath != "" {
		viper.SetConfigName("conf")
		viper.AddConfigPath(confPath)
		if err := viper.ReadInConfig(); err != nil {
			panic(confPath + "/conf.toml not found or unreadable")
		}
		if url := viper.GetString("archive.url"); url != "" {
			config.archiveURL = strings.TrimRight(url, "/")
		}
		if dir := viper.GetString("archive.data_dir"); dir != "" {
			config.dataDir = dir
		}
		if dir := viper.GetString("general.output_path"); dir != "" {
			config.outputDir = dir
		}
		if dir := viper.GetString("models.spec_path"); dir != "" {
			config.specDir = dir
		}
		config.statesDB = viper.GetString("db.states")
		config.archiveDB = viper.GetString("db.archive")
		if cmd := viper.GetStringSlice("engine.command"); len(cmd) > 0 {
			config.engineCmd = cmd
		}
	}
	cfgLoaded = true
	return config
}
