package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("file", isFileReadable); err != nil {
		return nil, nil, fmt.Errorf("failed to register file validation: %w", err)
	}
	if err := validate.RegisterTranslation("file", trans, func(ut ut.Translator) error {
		return ut.Add("file", "{0} must be an existing and readable file", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("file", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register file translation: %w", err)
	}

	validate.RegisterStructValidation(validateStorage, StorageConfig{})
	if err := validate.RegisterTranslation("required_for_driver", trans, func(ut ut.Translator) error {
		return ut.Add("required_for_driver", "{0} is required for the {1} storage driver", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required_for_driver", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Param())
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register required_for_driver translation: %w", err)
	}

	return validate, trans, nil
}

// validateStorage requires the location the selected driver writes to.
func validateStorage(sl validator.StructLevel) {
	storage := sl.Current().Interface().(StorageConfig)
	switch storage.Driver {
	case StorageDriverFile:
		if storage.Directory == "" {
			sl.ReportError(storage.Directory, "directory", "Directory", "required_for_driver", storage.Driver)
		}
	case StorageDriverSQLite:
		if storage.SQLitePath == "" {
			sl.ReportError(storage.SQLitePath, "sqlite_path", "SQLitePath", "required_for_driver", storage.Driver)
		}
	case StorageDriverMySQL:
		if storage.Database.Host == "" {
			sl.ReportError(storage.Database.Host, "database.host", "Database.Host", "required_for_driver", storage.Driver)
		}
		if storage.Database.Database == "" {
			sl.ReportError(storage.Database.Database, "database.database", "Database.Database", "required_for_driver", storage.Driver)
		}
	}
}

func isFileReadable(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	if err != nil || info.IsDir() {
		return false
	}

	// Check if the owner has read permission
	return info.Mode().Perm()&(1<<(uint(7))) != 0
}
