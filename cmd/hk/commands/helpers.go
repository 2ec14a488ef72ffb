package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/valescamoura/hkgo/pkg/hk"
	"github.com/valescamoura/hkgo/pkg/hkclient"
	"github.com/valescamoura/hkgo/pkg/hklib"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	defaultJSONIndent = "  "
)

// CreateClient builds an hkbase client from the effective configuration
// (flags, environment, config file).
func CreateClient() (hk.Client, error) {
	config := &hk.Config{
		URL:           viper.GetString("url"),
		APIVersion:    viper.GetString("api-version"),
		AuthToken:     viper.GetString("token"),
		Debug:         viper.GetBool("verbose"),
		SkipTLSVerify: viper.GetBool("skip-ssl-validation"),
	}

	return hkclient.New(config)
}

// StandardJSONRenderer writes v to stdout as indented JSON.
func StandardJSONRenderer(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", defaultJSONIndent)

	return encoder.Encode(v)
}

// StandardYAMLRenderer writes v to stdout as YAML.
func StandardYAMLRenderer(v any) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer func() { _ = encoder.Close() }()

	return encoder.Encode(v)
}

// entityMaps converts entities back to their wire form for rendering.
func entityMaps(entities []hklib.Entity) []map[string]any {
	maps := make([]map[string]any, 0, len(entities))
	for _, entity := range entities {
		maps = append(maps, entity.ToMap())
	}

	return maps
}
