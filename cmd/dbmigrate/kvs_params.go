package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// kvsDefaultPorts are ports used if the connection string has none
var kvsDefaultPorts = map[string]int{
	"etcd":   2379,
	"etcd3":  2379,
	"consul": 8500,
}

// kvsParams holds data used to connect to and get configuration from key value store
type kvsParams struct {
	// provider is the key value store, consul, etcd or etcd3
	provider string
	host     string
	port     int
	path     string
	// format is the format supported by viper: json, toml, yaml, properties or hcl
	format string
}

// parseKVSConnectionString parses provider://host(:port)/path.format string into kvsParams struct
func parseKVSConnectionString(s string) (*kvsParams, error) {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" || u.Path == "" {
		return nil, errors.Errorf("can't parse string %s into components", s)
	}

	defaultPort, ok := kvsDefaultPorts[u.Scheme]
	if !ok {
		return nil, errors.Errorf("%s is not correct key value store provider", u.Scheme)
	}

	port := defaultPort
	if u.Port() != "" {
		port, err = strconv.Atoi(u.Port())
		if err != nil {
			return nil, errors.Errorf("%s is not correct key value store port", u.Port())
		}
	}

	i := strings.LastIndex(u.Path, ".")
	if i < 0 {
		return nil, errors.New("key value store format is not provided")
	}
	format := u.Path[i+1:]
	if !isSupportedConfigFormat(format) {
		return nil, errors.Errorf("%s is not correct config format", format)
	}

	return &kvsParams{
		provider: u.Scheme,
		host:     u.Hostname(),
		port:     port,
		path:     u.Path[:i],
		format:   format,
	}, nil
}

func isSupportedConfigFormat(format string) bool {
	for _, ext := range viper.SupportedExts {
		if ext == format {
			return true
		}
	}
	return false
}

// endpoint formats endpoint so it can be passed to key value store
func (p *kvsParams) endpoint() string {
	s := fmt.Sprintf("%s:%d", p.host, p.port)
	if strings.HasPrefix(p.provider, "etcd") {
		s = "http://" + s
	}
	return s
}

// addRemoteProvider registers the key value store in v, using secure provider if key ring is set
func (p *kvsParams) addRemoteProvider(v *viper.Viper, secretKeyRingPath string) error {
	var err error
	if secretKeyRingPath != "" {
		err = v.AddSecureRemoteProvider(p.provider, p.endpoint(), p.path, secretKeyRingPath)
	} else {
		err = v.AddRemoteProvider(p.provider, p.endpoint(), p.path)
	}
	if err != nil {
		return errors.Wrapf(err, "can't use key value store %s at %s", p.provider, p.endpoint())
	}

	v.SetConfigType(p.format)
	return nil
}
