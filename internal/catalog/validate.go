package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/pyqtrack/internal/model"
)

const notBlankTag = "notblank"

var validate = newValidator()

// recordRules carries the validation tags for one record.
type recordRules struct {
	Subject string      `validate:"notblank"`
	Chapter string      `validate:"notblank"`
	Solved  int         `validate:"min=0"`
	Years   map[int]int `validate:"dive,min=0"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation(notBlankTag, notBlank); err != nil {
		panic(fmt.Sprintf("catalog: register %s validation: %v", notBlankTag, err))
	}
	return v
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(field.String()) != ""
}

// Validate checks required fields, counter signs and key uniqueness.
func Validate(records []model.Record) error {
	seen := make(map[model.Key]int, len(records))
	for i, r := range records {
		row := i + 1
		rules := recordRules{
			Subject: r.Subject,
			Chapter: r.Chapter,
			Solved:  r.QuestionSolved,
			Years:   r.YearCounts,
		}
		if err := validate.Struct(rules); err != nil {
			return fmt.Errorf("record %d (%s): %s: %w", row, r.Chapter, describe(err), ErrInvalidRecord)
		}
		if first, dup := seen[r.Key()]; dup {
			return fmt.Errorf("record %d repeats record %d (%s / %s): %w", row, first, r.Subject, r.Chapter, ErrDuplicateChapter)
		}
		seen[r.Key()] = row
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case notBlankTag:
			parts = append(parts, strings.ToLower(fe.Field())+" is required")
		case "min":
			parts = append(parts, fmt.Sprintf("%s must not be negative", strings.ToLower(fe.Field())))
		default:
			parts = append(parts, fmt.Sprintf("%s fails %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, ", ")
}
