// Package validation checks records against the rules declared in their
// `validate` struct tags and reports failures as field/constraint pairs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ConstraintKind names the rule a field failed.
type ConstraintKind string

const (
	KindRequired    ConstraintKind = "required"
	KindSize        ConstraintKind = "size"
	KindRange       ConstraintKind = "range"
	KindInvalidEnum ConstraintKind = "invalidEnum"
)

// recordField is reported when the value handed to Validate is not a struct at all.
const recordField = "record"

// Violation is a single failed rule on a single field.
type Violation struct {
	Field string         `json:"field"`
	Kind  ConstraintKind `json:"kind"`
}

// Violations is a set of violations ordered by field, then kind.
type Violations []Violation

// Has reports whether the set contains a violation on field, of any kind.
func (vs Violations) Has(field string) bool {
	for _, v := range vs {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Fields returns the distinct fields that failed, in order.
func (vs Violations) Fields() []string {
	fields := make([]string, 0, len(vs))
	for _, v := range vs {
		if len(fields) == 0 || fields[len(fields)-1] != v.Field {
			fields = append(fields, v.Field)
		}
	}
	return fields
}

func (vs Violations) String() string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.Field + ": " + string(v.Kind)
	}
	return strings.Join(parts, ", ")
}

// Validator evaluates struct-tag rules. It holds no mutable state after
// construction and is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator that reports fields by their JSON names and
// compares decimal amounts exactly.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	// Registration only fails on an empty tag or a nil func.
	_ = v.RegisterValidation("decimal_min", decimalBound(func(d, bound decimal.Decimal) bool { return d.GreaterThanOrEqual(bound) }))
	_ = v.RegisterValidation("decimal_max", decimalBound(func(d, bound decimal.Decimal) bool { return d.LessThanOrEqual(bound) }))
	_ = v.RegisterValidation("decimal_places", decimalPlaces)
	return &Validator{validate: v}
}

// decimalBound compares a decimal field against the tag parameter without
// going through float64.
func decimalBound(ok func(d, bound decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, isDecimal := fl.Field().Interface().(decimal.Decimal)
		if !isDecimal {
			return false
		}
		return ok(d, decimal.RequireFromString(fl.Param()))
	}
}

// decimalPlaces accepts decimals with at most the given number of fractional digits.
func decimalPlaces(fl validator.FieldLevel) bool {
	d, isDecimal := fl.Field().Interface().(decimal.Decimal)
	if !isDecimal {
		return false
	}
	places, err := strconv.ParseInt(fl.Param(), 10, 32)
	if err != nil {
		panic(fmt.Sprintf("decimal_places: bad parameter %q", fl.Param()))
	}
	return d.Equal(d.Truncate(int32(places)))
}

// Validate returns every rule violated by record. An empty result means the
// record is valid. It never fails: a nil or non-struct record is reported as
// a required violation on "record".
func (v *Validator) Validate(record interface{}) Violations {
	err := v.validate.Struct(record)
	if err == nil {
		return Violations{}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Violations{{Field: recordField, Kind: KindRequired}}
	}

	seen := make(map[Violation]struct{}, len(fieldErrs))
	violations := make(Violations, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violation := Violation{Field: fe.Field(), Kind: kindOf(fe)}
		if _, dup := seen[violation]; dup {
			continue
		}
		seen[violation] = struct{}{}
		violations = append(violations, violation)
	}
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Field != violations[j].Field {
			return violations[i].Field < violations[j].Field
		}
		return violations[i].Kind < violations[j].Kind
	})
	return violations
}

// kindOf maps a validator tag onto a constraint kind. Bounds on text are
// length rules; bounds on anything else are numeric ranges.
func kindOf(fe validator.FieldError) ConstraintKind {
	switch fe.Tag() {
	case "required":
		return KindRequired
	case "oneof":
		return KindInvalidEnum
	case "decimal_min", "decimal_max", "decimal_places":
		return KindRange
	case "min", "max", "len", "gt", "gte", "lt", "lte":
		if fe.Kind() == reflect.String {
			return KindSize
		}
		return KindRange
	default:
		return ConstraintKind(fe.Tag())
	}
}
