package config

import (
	"reflect"
)

// IConfigValidator - interface to be implemented for config validation
type IConfigValidator interface {
	ValidateCfg() error
}

// ValidateConfig - validates cfg, then walks its exported fields and validates
// every field that implements IConfigValidator.
func ValidateConfig(cfg interface{}) error {
	if cfg == nil {
		return nil
	}

	if objInterface, ok := cfg.(IConfigValidator); ok {
		if err := objInterface.ValidateCfg(); err != nil {
			return err
		}
	}

	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = reflect.Indirect(v)
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanInterface() {
			continue
		}
		if (field.Kind() == reflect.Ptr || field.Kind() == reflect.Interface) && field.IsNil() {
			continue
		}
		if objInterface, ok := field.Interface().(IConfigValidator); ok {
			if err := ValidateConfig(objInterface); err != nil {
				return err
			}
		}
	}
	return nil
}
