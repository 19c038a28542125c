package importer

import (
	"casebook/clinic"
	"casebook/storage"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrUnknownEntity = errors.New("unsupported entity")

var validate = validator.New()

// EntityImport bundles what an Importer needs for one entity type.
type EntityImport[T any] struct {
	Name            string
	RequiredHeaders []string
	Hooks           Hooks[T]
}

// Run imports path with the entity's headers and hooks.
func (e EntityImport[T]) Run(ctx context.Context, db storage.Database, path string, opts ...Option) (Result, error) {
	return New[T](db, e.Name, opts...).Import(ctx, path, e.RequiredHeaders, e.Hooks)
}

func SupportedEntities() []string {
	return []string{"client", "assessor"}
}

// NormalizeEntity maps accepted spellings onto a supported entity name.
func NormalizeEntity(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "client", "clients":
		return "client", nil
	case "assessor", "assessors":
		return "assessor", nil
	default:
		return "", fmt.Errorf("%w: %s (supported: %s)", ErrUnknownEntity, name, strings.Join(SupportedEntities(), ", "))
	}
}

// ImportEntity imports path as the named entity.
func ImportEntity(ctx context.Context, db storage.Database, entity, path string, opts ...Option) (Result, error) {
	name, err := NormalizeEntity(entity)
	if err != nil {
		return Result{}, err
	}

	switch name {
	case "client":
		return ClientImport().Run(ctx, db, path, opts...)
	default:
		return AssessorImport().Run(ctx, db, path, opts...)
	}
}

// ClientImport parses client rows, rejects invalid ones through the struct
// tags on clinic.Client, treats an existing client code as a duplicate and
// inserts the rest.
func ClientImport() EntityImport[clinic.Client] {
	return EntityImport[clinic.Client]{
		Name:            "client",
		RequiredHeaders: []string{"client_code", "first_name", "last_name", "date_of_birth"},
		Hooks: Hooks[clinic.Client]{
			Parse:    parseClient,
			Validate: validClient,
			DuplicateCheck: func(ctx context.Context, q storage.Querier, client clinic.Client) (int64, bool, error) {
				return storage.FindClientIDByCode(ctx, q, client.Code)
			},
			Create: func(ctx context.Context, q storage.Querier, client clinic.Client) (bool, error) {
				_, inserted, err := storage.InsertClient(ctx, q, client)
				return inserted, err
			},
		},
	}
}

func parseClient(row Row) (clinic.Client, bool, error) {
	dob, err := parseDate(row.Get("date_of_birth"))
	if err != nil {
		return clinic.Client{}, false, nil
	}

	return clinic.Client{
		Code:           strings.TrimSpace(row.Get("client_code")),
		FirstName:      strings.TrimSpace(row.Get("first_name")),
		LastName:       strings.TrimSpace(row.Get("last_name")),
		DateOfBirth:    dob,
		Sex:            normalizeSex(row.Get("sex")),
		Email:          normalizeEmail(row.Get("email")),
		Phone:          strings.TrimSpace(row.Get("phone")),
		ReferralSource: strings.TrimSpace(row.Get("referral_source")),
		AssessorCode:   strings.TrimSpace(row.Get("assessor_code")),
	}, true, nil
}

func validClient(client clinic.Client) bool {
	if err := validate.Struct(client); err != nil {
		return false
	}
	return !client.DateOfBirth.After(today())
}

// AssessorImport is the assessor counterpart of ClientImport.
func AssessorImport() EntityImport[clinic.Assessor] {
	return EntityImport[clinic.Assessor]{
		Name:            "assessor",
		RequiredHeaders: []string{"assessor_code", "full_name"},
		Hooks: Hooks[clinic.Assessor]{
			Parse: func(row Row) (clinic.Assessor, bool, error) {
				code := strings.TrimSpace(row.Get("assessor_code"))
				if code == "" {
					return clinic.Assessor{}, false, nil
				}
				return clinic.Assessor{
					Code:        code,
					FullName:    strings.TrimSpace(row.Get("full_name")),
					Credentials: strings.TrimSpace(row.Get("credentials")),
					Email:       normalizeEmail(row.Get("email")),
				}, true, nil
			},
			Validate: func(assessor clinic.Assessor) bool {
				return validate.Struct(assessor) == nil
			},
			DuplicateCheck: func(ctx context.Context, q storage.Querier, assessor clinic.Assessor) (int64, bool, error) {
				return storage.FindAssessorIDByCode(ctx, q, assessor.Code)
			},
			Create: func(ctx context.Context, q storage.Querier, assessor clinic.Assessor) (bool, error) {
				_, inserted, err := storage.InsertAssessor(ctx, q, assessor)
				return inserted, err
			},
		},
	}
}
