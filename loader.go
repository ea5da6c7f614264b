package bookshelf

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// LoadData reads the collections from a json, yaml or toml file. The format is picked from the extension.
func LoadData(path string) (Data, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Data{}, fmt.Errorf("could not read data file %s: %w", path, err)
	}

	return DecodeData(v.AllSettings())
}

// DecodeData turns a generic map (ie, parsed json) into Data. Keys are matched to the json names
// of the fields ignoring case.
func DecodeData(raw map[string]interface{}) (Data, error) {
	data := Data{}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &data,
	})
	if err != nil {
		return Data{}, err
	}

	if err := decoder.Decode(raw); err != nil {
		return Data{}, fmt.Errorf("could not decode data: %w", err)
	}

	return data, nil
}

// OpenStore builds the store described by the configuration
func OpenStore(config Config) (*Store, error) {
	data := SampleData()
	if config.DataFile != "" {
		loaded, err := LoadData(config.DataFile)
		if err != nil {
			return nil, err
		}
		data = loaded
	}

	opts := []StoreOption{}
	if config.SkipIntegrityCheck {
		opts = append(opts, SkipIntegrityCheck())
	}

	return NewStore(data, opts...)
}
