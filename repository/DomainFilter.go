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
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-pg/pg/v10"
	"github.com/qubership-export/delay-export-service/exception"
	"github.com/qubership-export/delay-export-service/view"
)

const (
	domainAnd = "&"
	domainOr  = "|"
	domainNot = "!"
)

// ColumnResolver maps a domain field name onto a table column and the field type.
type ColumnResolver func(fieldName string) (column string, fieldType string, ok bool)

// DomainCondition is a where clause in go-pg placeholder syntax with its params.
type DomainCondition struct {
	Query  string
	Params []interface{}
}

var matchAll = DomainCondition{Query: "TRUE"}

type domainLeaf struct {
	field    string
	operator string
	value    interface{}
}

// BuildDomainCondition translates a domain, a JSON array in prefix notation such as
// ["|", ["name", "ilike", "acme"], ["email", "=", false]], into a where clause.
// Leaves not joined by an explicit operator are AND-ed. An empty domain matches every row.
func BuildDomainCondition(rawDomain json.RawMessage, resolve ColumnResolver) (*DomainCondition, error) {
	trimmed := bytes.TrimSpace(rawDomain)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &matchAll, nil
	}
	var tokens []json.RawMessage
	if err := json.Unmarshal(trimmed, &tokens); err != nil {
		return nil, invalidDomainError("domain must be a list")
	}
	if len(tokens) == 0 {
		return &matchAll, nil
	}
	normalized, err := normalizeDomain(tokens)
	if err != nil {
		return nil, err
	}
	condition, rest, err := parseDomainExpression(normalized, resolve)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, invalidDomainError("unexpected trailing terms")
	}
	return condition, nil
}

// normalizeDomain makes the implicit AND between consecutive expressions explicit.
func normalizeDomain(tokens []json.RawMessage) ([]interface{}, error) {
	result := make([]interface{}, 0, len(tokens))
	expected := 1
	for _, token := range tokens {
		if expected == 0 {
			result = append([]interface{}{domainAnd}, result...)
			expected = 1
		}
		item, err := decodeDomainToken(token)
		if err != nil {
			return nil, err
		}
		switch t := item.(type) {
		case string:
			if t == domainAnd || t == domainOr {
				expected += 1
			} else if t != domainNot {
				return nil, invalidDomainError(fmt.Sprintf("unknown operator %s", t))
			}
		case domainLeaf:
			expected -= 1
		}
		result = append(result, item)
	}
	if expected != 0 {
		return nil, invalidDomainError("operators and terms don't match")
	}
	return result, nil
}

func decodeDomainToken(token json.RawMessage) (interface{}, error) {
	var operator string
	if err := json.Unmarshal(token, &operator); err == nil {
		return operator, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(token))
	decoder.UseNumber()
	var term []interface{}
	if err := decoder.Decode(&term); err != nil {
		return nil, invalidDomainError(fmt.Sprintf("term %s is neither an operator nor a list", string(token)))
	}
	if len(term) != 3 {
		return nil, invalidDomainError(fmt.Sprintf("term %s must have 3 elements", string(token)))
	}
	field, ok := term[0].(string)
	if !ok {
		return nil, invalidDomainError(fmt.Sprintf("term %s must start with a field name", string(token)))
	}
	op, ok := term[1].(string)
	if !ok {
		return nil, invalidDomainError(fmt.Sprintf("term %s has a non-string operator", string(token)))
	}
	return domainLeaf{field: field, operator: strings.ToLower(op), value: term[2]}, nil
}

func parseDomainExpression(tokens []interface{}, resolve ColumnResolver) (*DomainCondition, []interface{}, error) {
	if len(tokens) == 0 {
		return nil, nil, invalidDomainError("expression expected")
	}
	switch t := tokens[0].(type) {
	case string:
		switch t {
		case domainNot:
			operand, rest, err := parseDomainExpression(tokens[1:], resolve)
			if err != nil {
				return nil, nil, err
			}
			return &DomainCondition{Query: "(NOT " + operand.Query + ")", Params: operand.Params}, rest, nil
		default:
			left, rest, err := parseDomainExpression(tokens[1:], resolve)
			if err != nil {
				return nil, nil, err
			}
			right, rest, err := parseDomainExpression(rest, resolve)
			if err != nil {
				return nil, nil, err
			}
			joiner := " AND "
			if t == domainOr {
				joiner = " OR "
			}
			params := append(append([]interface{}{}, left.Params...), right.Params...)
			return &DomainCondition{Query: "(" + left.Query + joiner + right.Query + ")", Params: params}, rest, nil
		}
	case domainLeaf:
		condition, err := buildLeafCondition(t, resolve)
		if err != nil {
			return nil, nil, err
		}
		return condition, tokens[1:], nil
	}
	return nil, nil, invalidDomainError("unexpected token")
}

func buildLeafCondition(leaf domainLeaf, resolve ColumnResolver) (*DomainCondition, error) {
	column, fieldType, ok := resolve(leaf.field)
	if !ok {
		return nil, invalidDomainError(fmt.Sprintf("unknown field %s", leaf.field))
	}
	ident := pg.Ident(column)
	value := normalizeDomainValue(leaf.value)

	switch leaf.operator {
	case "=", "!=", "<>":
		if isFalsy(value) {
			return falsyCondition(ident, fieldType, leaf.operator == "="), nil
		}
		op := leaf.operator
		if op == "<>" {
			op = "!="
		}
		return &DomainCondition{Query: "? " + op + " ?", Params: []interface{}{ident, value}}, nil
	case "<", ">", "<=", ">=":
		if value == nil {
			return nil, invalidDomainError(fmt.Sprintf("operator %s requires a value", leaf.operator))
		}
		return &DomainCondition{Query: "? " + leaf.operator + " ?", Params: []interface{}{ident, value}}, nil
	case "in", "not in":
		values, ok := value.([]interface{})
		if !ok {
			values = []interface{}{value}
		}
		if len(values) == 0 {
			if leaf.operator == "in" {
				return &DomainCondition{Query: "FALSE"}, nil
			}
			return &DomainCondition{Query: "TRUE"}, nil
		}
		normalizedValues := make([]interface{}, 0, len(values))
		for _, v := range values {
			normalizedValues = append(normalizedValues, normalizeDomainValue(v))
		}
		sqlOp := "IN"
		if leaf.operator == "not in" {
			sqlOp = "NOT IN"
		}
		return &DomainCondition{Query: "? " + sqlOp + " (?)", Params: []interface{}{ident, pg.In(normalizedValues)}}, nil
	case "like", "ilike", "not like", "not ilike":
		pattern := fmt.Sprintf("%%%v%%", value)
		return &DomainCondition{Query: "?::text " + strings.ToUpper(leaf.operator) + " ?", Params: []interface{}{ident, pattern}}, nil
	case "=like", "=ilike":
		sqlOp := strings.ToUpper(strings.TrimPrefix(leaf.operator, "="))
		return &DomainCondition{Query: "?::text " + sqlOp + " ?", Params: []interface{}{ident, fmt.Sprintf("%v", value)}}, nil
	}
	return nil, invalidDomainError(fmt.Sprintf("unsupported operator %s", leaf.operator))
}

// falsyCondition compares a field with false. An unset boolean counts as false.
func falsyCondition(ident pg.Ident, fieldType string, equal bool) *DomainCondition {
	if fieldType == view.FieldTypeBoolean {
		if equal {
			return &DomainCondition{Query: "(? IS NULL OR ? = false)", Params: []interface{}{ident, ident}}
		}
		return &DomainCondition{Query: "(? IS NOT NULL AND ? != false)", Params: []interface{}{ident, ident}}
	}
	if equal {
		return &DomainCondition{Query: "? IS NULL", Params: []interface{}{ident}}
	}
	return &DomainCondition{Query: "? IS NOT NULL", Params: []interface{}{ident}}
}

func normalizeDomainValue(value interface{}) interface{} {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case []interface{}:
		result := make([]interface{}, 0, len(v))
		for _, item := range v {
			result = append(result, normalizeDomainValue(item))
		}
		return result
	default:
		return v
	}
}

func isFalsy(value interface{}) bool {
	if value == nil {
		return true
	}
	b, ok := value.(bool)
	return ok && !b
}

func invalidDomainError(reason string) error {
	return &exception.CustomError{
		Status:  http.StatusBadRequest,
		Code:    exception.InvalidDomain,
		Message: exception.InvalidDomainMsg,
		Params:  map[string]interface{}{"reason": reason},
	}
}
