package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/go-playground/validator"
)

// GatewayCredentials holds one credential set per family. Sets are read once at
// startup and never mutated.
type GatewayCredentials struct {
	DirectCapture    DirectCaptureCredentials    `koanf:"direct_capture"`
	RedirectApproval RedirectApprovalCredentials `koanf:"redirect_approval"`
	TokenRedirect    TokenRedirectCredentials    `koanf:"token_redirect"`
}

type DirectCaptureCredentials struct {
	SecretKey   string `koanf:"secret_key" validate:"required"`
	BaseURL     string `koanf:"base_url" validate:"required,url"`
	Environment string `koanf:"environment" validate:"required,oneof=sandbox production"`
}

type RedirectApprovalCredentials struct {
	ClientID     string `koanf:"client_id" validate:"required"`
	ClientSecret string `koanf:"client_secret" validate:"required"`
	BaseURL      string `koanf:"base_url" validate:"required,url"`
	Environment  string `koanf:"environment" validate:"required,oneof=sandbox production"`
}

type TokenRedirectCredentials struct {
	CommerceCode string `koanf:"commerce_code" validate:"required"`
	APIKey       string `koanf:"api_key" validate:"required"`
	BaseURL      string `koanf:"base_url" validate:"required,url"`
	Environment  string `koanf:"environment" validate:"required,oneof=sandbox production"`
}

// ValidateCredentials reports which families carry a usable credential set. It
// never fails: every problem becomes an entry in the report.
func ValidateCredentials(creds GatewayCredentials) (report domain.ValidationReport) {
	report = domain.ValidationReport{
		Errors:     []string{},
		Configured: make(map[domain.GatewayFamily]bool, len(domain.Families())),
	}
	defer func() {
		if r := recover(); r != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("credentials: validation aborted: %v", r))
		}
		report.IsValid = len(report.Errors) == 0
	}()

	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get("koanf"), ",", 2)[0]
	})

	sets := map[domain.GatewayFamily]any{
		domain.FamilyDirectCapture:    creds.DirectCapture,
		domain.FamilyRedirectApproval: creds.RedirectApproval,
		domain.FamilyTokenRedirect:    creds.TokenRedirect,
	}

	for _, family := range domain.Families() {
		set := sets[family]
		report.Configured[family] = false

		if isEmpty(set) {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: credentials not provided", family))
			continue
		}

		problems := fieldProblems(validate, set)
		for _, p := range problems {
			report.Errors = append(report.Errors, fmt.Sprintf("%s.%s", family, p))
		}
		report.Configured[family] = len(problems) == 0
	}
	return report
}

func fieldProblems(validate *validator.Validate, set any) []string {
	err := validate.Struct(set)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{"credentials: " + err.Error()}
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Sprintf("%s: %s", fe.Field(), reason(fe)))
	}
	return problems
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func isEmpty(set any) bool {
	v := reflect.ValueOf(set)
	for i := 0; i < v.NumField(); i++ {
		if strings.TrimSpace(v.Field(i).String()) != "" {
			return false
		}
	}
	return true
}
