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

package repository

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/go-pg/pg/v10"
	"github.com/qubership-export/delay-export-service/exception"
	"github.com/qubership-export/delay-export-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver(fieldName string) (string, string, bool) {
	switch fieldName {
	case "id":
		return "id", view.FieldTypeInteger, true
	case "name", "email":
		return fieldName, view.FieldTypeChar, true
	case "active", "is_company":
		return fieldName, view.FieldTypeBoolean, true
	case "partner":
		return "partner_id", view.FieldTypeInteger, true
	}
	return "", "", false
}

func TestBuildDomainCondition_MatchAll(t *testing.T) {
	for _, raw := range []string{"", "null", "[]", "  "} {
		condition, err := BuildDomainCondition(json.RawMessage(raw), testResolver)
		require.NoError(t, err)
		assert.Equal(t, "TRUE", condition.Query)
		assert.Empty(t, condition.Params)
	}
}

func TestBuildDomainCondition(t *testing.T) {
	tests := []struct {
		name           string
		domain         string
		expectedQuery  string
		expectedParams []interface{}
	}{
		{
			name:           "single term",
			domain:         `[["name", "=", "acme"]]`,
			expectedQuery:  "? = ?",
			expectedParams: []interface{}{pg.Ident("name"), "acme"},
		},
		{
			name:           "implicit and",
			domain:         `[["name", "=", "acme"], ["partner", ">", 10]]`,
			expectedQuery:  "(? = ? AND ? > ?)",
			expectedParams: []interface{}{pg.Ident("name"), "acme", pg.Ident("partner_id"), int64(10)},
		},
		{
			name:           "explicit or",
			domain:         `["|", ["name", "ilike", "acme"], ["email", "=", false]]`,
			expectedQuery:  "(?::text ILIKE ? OR ? IS NULL)",
			expectedParams: []interface{}{pg.Ident("name"), "%acme%", pg.Ident("email")},
		},
		{
			name:           "not",
			domain:         `["!", ["email", "!=", false]]`,
			expectedQuery:  "(NOT ? IS NOT NULL)",
			expectedParams: []interface{}{pg.Ident("email")},
		},
		{
			name:           "boolean equals false includes unset",
			domain:         `[["is_company", "=", false]]`,
			expectedQuery:  "(? IS NULL OR ? = false)",
			expectedParams: []interface{}{pg.Ident("is_company"), pg.Ident("is_company")},
		},
		{
			name:           "boolean not equals false",
			domain:         `[["active", "!=", false]]`,
			expectedQuery:  "(? IS NOT NULL AND ? != false)",
			expectedParams: []interface{}{pg.Ident("active"), pg.Ident("active")},
		},
		{
			name:           "boolean equals true",
			domain:         `[["is_company", "=", true]]`,
			expectedQuery:  "? = ?",
			expectedParams: []interface{}{pg.Ident("is_company"), true},
		},
		{
			name:           "empty in matches nothing",
			domain:         `[["id", "in", []]]`,
			expectedQuery:  "FALSE",
			expectedParams: nil,
		},
		{
			name:           "empty not in matches everything",
			domain:         `[["id", "not in", []]]`,
			expectedQuery:  "TRUE",
			expectedParams: nil,
		},
		{
			name:           "operator case is ignored",
			domain:         `[["email", "=LIKE", "a%"]]`,
			expectedQuery:  "?::text LIKE ?",
			expectedParams: []interface{}{pg.Ident("email"), "a%"},
		},
		{
			name:           "diamond operator",
			domain:         `[["partner", "<>", 3.5]]`,
			expectedQuery:  "? != ?",
			expectedParams: []interface{}{pg.Ident("partner_id"), 3.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			condition, err := BuildDomainCondition(json.RawMessage(tt.domain), testResolver)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedQuery, condition.Query)
			assert.Equal(t, tt.expectedParams, condition.Params)
		})
	}
}

func TestBuildDomainCondition_In(t *testing.T) {
	condition, err := BuildDomainCondition(json.RawMessage(`[["id", "in", [1, 2]]]`), testResolver)
	require.NoError(t, err)
	assert.Equal(t, "? IN (?)", condition.Query)
	require.Len(t, condition.Params, 2)
	assert.Equal(t, pg.Ident("id"), condition.Params[0])
	assert.Equal(t, pg.In([]interface{}{int64(1), int64(2)}), condition.Params[1])
}

func TestBuildDomainCondition_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		domain string
	}{
		{"not a list", `{"name": "acme"}`},
		{"unknown field", `[["missing", "=", 1]]`},
		{"unknown operator", `[["name", "~", 1]]`},
		{"short term", `[["name", "="]]`},
		{"dangling or", `["|", ["name", "=", "a"]]`},
		{"unknown logical operator", `["^", ["name", "=", "a"], ["name", "=", "b"]]`},
		{"comparison with null", `[["partner", ">", null]]`},
		{"non string field", `[[1, "=", 1]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			condition, err := BuildDomainCondition(json.RawMessage(tt.domain), testResolver)
			assert.Nil(t, condition)
			require.Error(t, err)

			var customErr *exception.CustomError
			require.True(t, errors.As(err, &customErr), "expected CustomError, got %T", err)
			assert.Equal(t, http.StatusBadRequest, customErr.Status)
			assert.Equal(t, exception.InvalidDomain, customErr.Code)
		})
	}
}
