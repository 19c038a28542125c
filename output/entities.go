package output

import (
	"casebook/clinic"
	"casebook/importer"
	"strconv"
)

func ClientsSheet(clients []clinic.Client) Sheet {
	sheet := Sheet{
		Headers: []string{"client_code", "first_name", "last_name", "date_of_birth", "sex", "email", "phone", "referral_source", "assessor_code"},
		Rows:    make([][]string, 0, len(clients)),
	}
	for _, client := range clients {
		sheet.Rows = append(sheet.Rows, []string{
			client.Code,
			client.FirstName,
			client.LastName,
			client.DateOfBirth.Format("2006-01-02"),
			client.Sex,
			client.Email,
			client.Phone,
			client.ReferralSource,
			client.AssessorCode,
		})
	}
	return sheet
}

func AssessorsSheet(assessors []clinic.Assessor) Sheet {
	sheet := Sheet{
		Headers: []string{"assessor_code", "full_name", "credentials", "email"},
		Rows:    make([][]string, 0, len(assessors)),
	}
	for _, assessor := range assessors {
		sheet.Rows = append(sheet.Rows, []string{assessor.Code, assessor.FullName, assessor.Credentials, assessor.Email})
	}
	return sheet
}

// ReportSheet lists an import run: one summary line, then rows grouped by
// kind (missing headers, errors, duplicates), each group in file order.
func ReportSheet(entity, source string, result importer.Result) Sheet {
	sheet := Sheet{
		Headers: []string{"entity", "source", "kind", "existing_id", "message"},
		Rows:    make([][]string, 0, 1+len(result.Errors)+len(result.Duplicates)),
	}
	summary := result.Summary()
	if result.Aborted() {
		summary = "aborted: missing required headers"
	} else if !result.Durable() {
		summary += " (not durable: commit failed)"
	}
	sheet.Rows = append(sheet.Rows, []string{entity, source, "summary", "", summary})

	for _, header := range result.MissingHeaders {
		sheet.Rows = append(sheet.Rows, []string{entity, source, "missing_header", "", header})
	}
	for _, message := range result.Errors {
		sheet.Rows = append(sheet.Rows, []string{entity, source, "error", "", message})
	}
	for _, duplicate := range result.Duplicates {
		sheet.Rows = append(sheet.Rows, []string{entity, source, "duplicate", strconv.FormatInt(duplicate.ExistingID, 10), duplicate.Message})
	}
	return sheet
}

// WriteReport writes the ReportSheet of one import run to path.
func WriteReport(path, format, entity, source string, result importer.Result) error {
	return WriteSheet(path, format, ReportSheet(entity, source, result))
}
