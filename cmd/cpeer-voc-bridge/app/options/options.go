package options

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/vocbridge/internal/bridge"
	"github.com/autopeer-io/vocbridge/pkg/log"
	"github.com/autopeer-io/vocbridge/pkg/options"
)

// envBindings maps the documented environment variables onto config keys.
var envBindings = map[string]string{
	"voc.email":    "VOC_EMAIL",
	"voc.password": "VOC_PASSWORD",
	"voc.region":   "VOC_REGION",
	"vehicle.vin":  "VIN",
}

type BridgeOptions struct {
	VOCOptions     *options.VOCOptions     `json:"voc" mapstructure:"voc"`
	VehicleOptions *options.VehicleOptions `json:"vehicle" mapstructure:"vehicle"`
	HttpOptions    *options.HttpOptions    `json:"http" mapstructure:"http"`
	MqttOptions    *options.MqttOptions    `json:"mqtt" mapstructure:"mqtt"`
	Log            *log.Options            `json:"log" mapstructure:"log"`
}

func NewBridgeOptions() *BridgeOptions {
	return &BridgeOptions{
		VOCOptions:     options.NewVOCOptions(),
		VehicleOptions: options.NewVehicleOptions(),
		HttpOptions:    options.NewHttpOptions(),
		MqttOptions:    options.NewMqttOptions(),
		Log:            log.NewOptions(),
	}
}

func (o *BridgeOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	o.VOCOptions.AddFlags(fss.FlagSet("voc"))
	o.VehicleOptions.AddFlags(fss.FlagSet("vehicle"))
	o.HttpOptions.AddFlags(fss.FlagSet("http"))
	o.MqttOptions.AddFlags(fss.FlagSet("mqtt"))
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

// Load layers the config file, the environment and the flags of fs onto
// the options. Flags set on the command line win, then environment
// variables, then the file. An empty configFile searches ./configs/config.yaml
// and tolerates its absence.
func (o *BridgeOptions) Load(v *viper.Viper, fs *pflag.FlagSet, configFile string) error {
	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	v.SetEnvPrefix("VOCBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(o); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

func (o *BridgeOptions) Complete() error {
	return nil
}

func (o *BridgeOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.VOCOptions.Validate()...)
	errs = append(errs, o.VehicleOptions.Validate()...)
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return utilerrors.NewAggregate(errs)
}

func (o *BridgeOptions) Config() (*bridge.Config, error) {
	return &bridge.Config{
		VOCOptions:     o.VOCOptions,
		VehicleOptions: o.VehicleOptions,
		HttpOptions:    o.HttpOptions,
		MqttOptions:    o.MqttOptions,
	}, nil
}
