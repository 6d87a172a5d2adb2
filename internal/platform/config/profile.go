package config

import (
	"os"

	perr "tripstats/internal/platform/errors"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// LoadProfile decodes a YAML file into dst and validates it with `validate` tags
// dst must be a pointer to a struct
func LoadProfile(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "read profile %s", path)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "parse profile %s", path)
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(dst); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeValidation, "invalid profile %s", path)
	}
	return nil
}
