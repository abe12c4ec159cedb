package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// RoleProfile is a reusable job-description template owned by the role service.
type RoleProfile struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Level            *string   `json:"level,omitempty"`
	Department       *string   `json:"department,omitempty"`
	Location         *string   `json:"location,omitempty"`
	EmploymentType   *string   `json:"employment_type,omitempty"`
	JDText           string    `json:"jd_text"`
	JDSourceFilename *string   `json:"jd_source_filename,omitempty"`
	CreatedAt        Timestamp `json:"created_at"`
	UpdatedAt        Timestamp `json:"updated_at"`
}

// CreateRoleRequest holds the fields a user may supply for a new role profile.
// Field order matters: validation reports the first failing field.
type CreateRoleRequest struct {
	Title          string `validate:"required"`
	JDText         string `validate:"required"`
	Level          string
	Department     string
	Location       string
	EmploymentType string
}

// Normalize trims surrounding whitespace from every field.
func (r *CreateRoleRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.JDText = strings.TrimSpace(r.JDText)
	r.Level = strings.TrimSpace(r.Level)
	r.Department = strings.TrimSpace(r.Department)
	r.Location = strings.TrimSpace(r.Location)
	r.EmploymentType = strings.TrimSpace(r.EmploymentType)
}

// roleFieldMessages are the user-facing messages for missing required role fields.
var roleFieldMessages = map[string]string{
	"Title":  "Role title is required.",
	"JDText": "JD text is required.",
}

// Validate normalizes the request and checks the required fields.
// It returns a *ValidationError for the first missing field.
func (r *CreateRoleRequest) Validate() error {
	r.Normalize()
	return firstFieldError(validate.Struct(r), roleFieldMessages)
}

// FormFields returns the multipart form fields to send. Empty optional fields are omitted.
func (r *CreateRoleRequest) FormFields() map[string]string {
	fields := map[string]string{
		"title":   r.Title,
		"jd_text": r.JDText,
	}
	optional := map[string]string{
		"level":           r.Level,
		"department":      r.Department,
		"location":        r.Location,
		"employment_type": r.EmploymentType,
	}
	for k, v := range optional {
		if v != "" {
			fields[k] = v
		}
	}
	return fields
}

// Describe renders "level | department | location" with "-" for missing parts.
func (p RoleProfile) Describe() string {
	parts := []string{orDash(p.Level), orDash(p.Department), orDash(p.Location)}
	return strings.Join(parts, " | ")
}

func orDash(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "-"
	}
	return *s
}

// firstFieldError converts validator output into a *ValidationError for the first failing field.
func firstFieldError(err error, messages map[string]string) error {
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := fieldErrs[0]
	msg, ok := messages[fe.StructField()]
	if !ok {
		msg = fe.Error()
	}
	return &ValidationError{Field: fe.StructField(), Message: msg}
}
