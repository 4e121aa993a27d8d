// Package validation checks request bodies with go-playground/validator
// struct tags and reports failures as INVALID_INPUT app errors whose
// details list each offending field by its JSON name.
package validation
