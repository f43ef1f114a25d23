package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/arogya/reminder-api/internal/model"
)

// RegisterDomainValidators installs the medication-domain binding validators
// on gin's validator engine and makes validation errors report json field
// names. Safe to call more than once.
func RegisterDomainValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "frequency", func(fl validator.FieldLevel) bool {
		return model.FrequencyType(fl.Field().String()).Valid()
	})
	mustRegister(v, "timeofday", func(fl validator.FieldLevel) bool {
		_, err := model.ParseTimeOfDay(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "logstatus", func(fl validator.FieldLevel) bool {
		return model.LogStatus(fl.Field().String()).Valid()
	})
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}
