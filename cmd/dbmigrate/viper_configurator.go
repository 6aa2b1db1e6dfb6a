package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// defaultEnvPrefix is the prefix of environment variables if no other is set with --prefix
const defaultEnvPrefix = "DBMIGRATE"

// settingsKeys are viper keys which can be set by flags
var settingsKeys = []string{"url", "path", "table", "engine", "sequential"}

// viperConfigurator is the struct which sole purpose is to create proper viper instance
type viperConfigurator struct {
	// initial viper, that can be substituted for
	viper   *viper.Viper
	flags   *appFlags
	flagSet *pflag.FlagSet
	// workDir is where config and .env files are looked up, the working directory if empty
	workDir string
}

// configure returns properly initialized viper instance
func (vc *viperConfigurator) configure() (*viper.Viper, error) {
	if vc.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "can't get working directory")
		}
		vc.workDir = wd
	}

	err := vc.readDotEnv()
	if err != nil {
		return nil, err
	}
	err = vc.readConfigFile()
	if err != nil {
		return nil, err
	}
	if vc.flags.kvsParamsStr != "" {
		err = vc.readKVS()
		if err != nil {
			return nil, err
		}
	}
	if vc.flags.env != "" {
		vc.scopeToEnv()
	}
	vc.readEnv()
	err = vc.readFlags()
	if err != nil {
		return nil, err
	}

	return vc.viper, nil
}

// readDotEnv loads .env file into the process environment, already set variables are not overridden
func (vc *viperConfigurator) readDotEnv() error {
	fpath := filepath.Join(vc.workDir, ".env")
	if _, err := os.Stat(fpath); os.IsNotExist(err) {
		return nil
	}
	err := godotenv.Load(fpath)
	if err != nil {
		return errors.Wrapf(err, "can't load %s", fpath)
	}
	return nil
}

// readConfigFile tries to read configuration from a file
func (vc *viperConfigurator) readConfigFile() error {
	vc.viper.AddConfigPath(vc.workDir)
	vc.viper.SetConfigName(vc.flags.configFile)
	err := vc.viper.ReadInConfig()
	// if there is no config - it is not an error, we allow it
	if _, ok := err.(viper.ConfigFileNotFoundError); err != nil && !ok {
		return errors.Wrap(err, "can't read config file")
	}
	return nil
}

// readKVS reads configuration from the key value store
func (vc *viperConfigurator) readKVS() error {
	params, err := parseKVSConnectionString(vc.flags.kvsParamsStr)
	if err != nil {
		return errors.Wrap(err, "wrong key value store connection string")
	}

	err = params.addRemoteProvider(vc.viper, vc.flags.secretKeyRingPath)
	if err != nil {
		return err
	}

	err = vc.viper.ReadRemoteConfig()
	if err != nil {
		return errors.Wrapf(err, "can't read config from key value store %s", vc.flags.kvsParamsStr)
	}
	return nil
}

// scopeToEnv replaces viper with the subviper of the environment key if it exists,
// otherwise with entirely new clean viper
func (vc *viperConfigurator) scopeToEnv() {
	if sub := vc.viper.Sub(vc.flags.env); sub != nil {
		vc.viper = sub
	} else {
		vc.viper = viper.New()
	}
}

// envPrefix builds full prefix for env vars
func (vc *viperConfigurator) envPrefix() string {
	prefix := defaultEnvPrefix
	if vc.flags.prefix != "" {
		prefix = vc.flags.prefix
	}
	if vc.flags.env != "" {
		prefix += "_" + vc.flags.env
	}
	return strings.ToUpper(prefix)
}

// readEnv makes viper read env vars, e.g. DBMIGRATE_URL for url key
func (vc *viperConfigurator) readEnv() {
	vc.viper.SetEnvPrefix(vc.envPrefix())
	vc.viper.AutomaticEnv()
}

// readFlags binds cobra flags to viper, set flags override all other sources
func (vc *viperConfigurator) readFlags() error {
	for _, key := range settingsKeys {
		flag := vc.flagSet.Lookup(key)
		if flag == nil {
			return errors.Errorf("flag %s is not defined", key)
		}
		err := vc.viper.BindPFlag(key, flag)
		if err != nil {
			return errors.Wrapf(err, "can't bind flag %s", key)
		}
	}
	return nil
}
