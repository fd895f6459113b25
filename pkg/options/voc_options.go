package options

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/autopeer-io/vocbridge/internal/voc"
)

var _ IOptions = (*VOCOptions)(nil)

// VOCOptions holds the account used against the Volvo On Call backend.
type VOCOptions struct {
	Email    string `json:"email" mapstructure:"email"`
	Password string `json:"password" mapstructure:"password"`

	// Region selects the regional endpoint, e.g. "na" or "cn". Empty is EU.
	Region string `json:"region" mapstructure:"region"`

	// BaseURL overrides the endpoint derived from Region.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// NewVOCOptions creates a VOCOptions object with default parameters.
func NewVOCOptions() *VOCOptions {
	return &VOCOptions{
		Timeout: 30 * time.Second,
	}
}

// Validate checks the options. Missing credentials are not an error here:
// the session then reports a configuration error and exposes nothing.
func (o *VOCOptions) Validate() []error {
	return nil
}

// AddFlags adds flags for VOCOptions to the specified FlagSet.
func (o *VOCOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Email, join(prefixes, "voc.email"), o.Email, "Volvo On Call account e-mail. Env: VOC_EMAIL.")
	fs.StringVar(&o.Password, join(prefixes, "voc.password"), o.Password, "Volvo On Call account password. Env: VOC_PASSWORD.")
	fs.StringVar(&o.Region, join(prefixes, "voc.region"), o.Region, "Backend region (empty for EU, \"na\", \"cn\"). Env: VOC_REGION.")
	fs.StringVar(&o.BaseURL, join(prefixes, "voc.base-url"), o.BaseURL, "Override the backend service root.")
	fs.DurationVar(&o.Timeout, join(prefixes, "voc.timeout"), o.Timeout, "Timeout of a single backend request.")
}

// ToClientConfig converts the options into a transport configuration.
func (o *VOCOptions) ToClientConfig() *voc.ClientConfig {
	return &voc.ClientConfig{
		BaseURL:  o.BaseURL,
		Region:   o.Region,
		Username: o.Email,
		Password: o.Password,
		Timeout:  o.Timeout,
	}
}
