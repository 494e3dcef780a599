// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package utils

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/qubership-export/delay-export-service/exception"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(jsonFieldName)
	})
	return validate
}

// jsonFieldName makes validation errors report request field names as the client sent them.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}

func ValidateObject(object interface{}) error {
	err := getValidator().Struct(object)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidExportParams,
			Message: exception.InvalidExportParamsMsg,
			Debug:   err.Error(),
		}
	}
	missingParams := make([]string, 0)
	invalidParams := make([]string, 0)
	for _, fieldErr := range validationErrors {
		if fieldErr.Tag() == "required" {
			missingParams = append(missingParams, fieldPath(fieldErr))
		} else {
			invalidParams = append(invalidParams, fieldPath(fieldErr))
		}
	}
	if len(missingParams) > 0 {
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": strings.Join(UniqueSet(missingParams), ", ")},
		}
	}
	return &exception.CustomError{
		Status:  http.StatusBadRequest,
		Code:    exception.InvalidExportParams,
		Message: exception.InvalidExportParamsMsg,
		Debug:   strings.Join(UniqueSet(invalidParams), ", "),
	}
}

// fieldPath drops the top level struct name: "ExportParams.fields[0].name" -> "fields[0].name".
func fieldPath(fieldErr validator.FieldError) string {
	_, path, found := strings.Cut(fieldErr.Namespace(), ".")
	if !found {
		return fieldErr.Field()
	}
	return path
}
