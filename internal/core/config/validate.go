package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/hay-kot/criterio"
)

// colorPattern accepts #rgb, #rgba, #rrggbb, #rrggbbaa and rgb()/rgba() forms.
var colorPattern = regexp.MustCompile(`^(#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|rgba?\([0-9.,\s%]+\))$`)

// ValidateDeep performs comprehensive validation of the configuration
// including color syntax, hover style and file accessibility. The configPath
// argument specifies the config file location to validate (empty string
// skips config file check).
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateDecoration(),
	)
}

// validateFileAccess checks the config file, data directory, and notes file.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("storage.path", c.Storage.Path, isFileOrNotExist),
	)
}

func (c *Config) validateDecoration() error {
	var errs criterio.FieldErrorsBuilder

	for field, color := range map[string]string{
		"decoration.colors.dark":  c.Decoration.Colors.Dark,
		"decoration.colors.light": c.Decoration.Colors.Light,
	} {
		if color != "" && !colorPattern.MatchString(color) {
			errs = errs.Append(field, fmt.Errorf("invalid color %q", color))
		}
	}

	if strings.ContainsAny(c.Decoration.HoverStyle, `"<>`) {
		errs = errs.Append("decoration.hover_style", fmt.Errorf("must not contain quotes or angle brackets"))
	}

	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// isFileOrNotExist validates that a path is a regular file or doesn't exist.
func isFileOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("is a directory, not a file")
	}
	return nil
}
