package exchange

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salonkeep/salonkeep/internal/audit"
	"github.com/salonkeep/salonkeep/internal/logger"
	"github.com/salonkeep/salonkeep/internal/records"
)

// Logger is an alias for the application logger interface
type Logger = logger.Logger

// dateLayout is the on-disk date format for CSV fields
const dateLayout = "2006-01-02"

// clientColumns is the fixed export column order for clients. Imports
// accept any column order but require the header names below.
var clientColumns = []string{
	"id", "first_name", "last_name", "email", "phone", "address",
	"date_of_birth", "allergies", "tags", "planned_treatment", "notes",
	"created_at", "updated_at",
}

var treatmentColumns = []string{
	"id", "client_id", "client_first_name", "client_last_name",
	"treatment_date", "treatment_notes", "created_at", "updated_at",
}

// RowError describes why one CSV row was rejected during import
type RowError struct {
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("line %d, %s: %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ImportResult summarizes one import run. Valid rows are inserted even when
// other rows fail; the batch id ties the inserted records' audit entries
// together.
type ImportResult struct {
	BatchID  string     `json:"batch_id"`
	Imported int        `json:"imported"`
	Errors   []RowError `json:"errors,omitempty"`
}

// Service moves client and treatment data in and out as CSV
type Service interface {
	ExportClients(ctx context.Context, w io.Writer) (int, error)
	ExportTreatments(ctx context.Context, w io.Writer) (int, error)
	ImportClients(ctx context.Context, r io.Reader) (*ImportResult, error)
}

type exchangeService struct {
	repo   records.Repository
	audit  audit.Service
	logger Logger
}

// NewService creates a new exchange service
func NewService(repo records.Repository, auditService audit.Service, logger Logger) Service {
	return &exchangeService{repo: repo, audit: auditService, logger: logger}
}

func (s *exchangeService) ExportClients(ctx context.Context, w io.Writer) (int, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return 0, s.logger.LogErrorf(err, "failed to export clients")
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(clientColumns); err != nil {
		return 0, err
	}

	for _, client := range clients {
		row := []string{
			strconv.FormatUint(uint64(client.ID), 10),
			client.FirstName,
			client.LastName,
			client.Email,
			client.Phone,
			client.Address,
			formatDate(client.DateOfBirth),
			client.Allergies,
			client.Tags,
			client.PlannedTreatment,
			client.Notes,
			client.CreatedAt.Format(time.RFC3339),
			client.UpdatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return 0, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, err
	}

	s.logger.LogInfo("Exported clients", map[string]interface{}{"count": len(clients)})
	return len(clients), nil
}

func (s *exchangeService) ExportTreatments(ctx context.Context, w io.Writer) (int, error) {
	treatments, err := s.repo.ListTreatments(ctx)
	if err != nil {
		return 0, s.logger.LogErrorf(err, "failed to export treatments")
	}
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return 0, s.logger.LogErrorf(err, "failed to export treatments")
	}

	names := make(map[uint]records.Client, len(clients))
	for _, client := range clients {
		names[client.ID] = client
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(treatmentColumns); err != nil {
		return 0, err
	}

	for _, treatment := range treatments {
		client := names[treatment.ClientID]
		row := []string{
			strconv.FormatUint(uint64(treatment.ID), 10),
			strconv.FormatUint(uint64(treatment.ClientID), 10),
			client.FirstName,
			client.LastName,
			treatment.TreatmentDate.Format(dateLayout),
			treatment.TreatmentNotes,
			treatment.CreatedAt.Format(time.RFC3339),
			treatment.UpdatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return 0, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, err
	}

	s.logger.LogInfo("Exported treatments", map[string]interface{}{"count": len(treatments)})
	return len(treatments), nil
}

// ImportClients reads a clients CSV and inserts each valid row. Rows that
// fail validation are collected in the result rather than aborting the
// whole run. Every inserted client gets an audit entry carrying the import
// batch id.
func (s *exchangeService) ImportClients(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"first_name", "last_name"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	batchID := uuid.New().String()
	result := &ImportResult{BatchID: batchID}
	uiLocation := "csv-import:" + batchID

	line := 1
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, RowError{Line: line, Message: err.Error()})
			continue
		}

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		client := records.Client{
			FirstName:        field("first_name"),
			LastName:         field("last_name"),
			Email:            field("email"),
			Phone:            field("phone"),
			Address:          field("address"),
			Allergies:        field("allergies"),
			Tags:             field("tags"),
			PlannedTreatment: field("planned_treatment"),
			Notes:            field("notes"),
		}

		if client.FirstName == "" {
			result.Errors = append(result.Errors, RowError{Line: line, Field: "first_name", Message: "must not be empty"})
			continue
		}
		if client.LastName == "" {
			result.Errors = append(result.Errors, RowError{Line: line, Field: "last_name", Message: "must not be empty"})
			continue
		}

		if dob := field("date_of_birth"); dob != "" {
			parsed, err := time.Parse(dateLayout, dob)
			if err != nil {
				result.Errors = append(result.Errors, RowError{Line: line, Field: "date_of_birth", Message: "expected YYYY-MM-DD"})
				continue
			}
			client.DateOfBirth = &parsed
		}

		if err := s.repo.CreateClient(ctx, &client); err != nil {
			result.Errors = append(result.Errors, RowError{Line: line, Message: err.Error()})
			continue
		}

		clientID := int64(client.ID)
		name := client.FirstName + " " + client.LastName
		if err := s.audit.LogCreate(ctx, "clients", clientID, &clientID, name, uiLocation); err != nil {
			s.logger.LogWarn("Imported client not audited", map[string]interface{}{
				"client_id": clientID,
				"batch_id":  batchID,
			})
		}
		result.Imported++
	}

	s.logger.LogInfo("Client import finished", map[string]interface{}{
		"batch_id": batchID,
		"imported": result.Imported,
		"rejected": len(result.Errors),
	})
	return result, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
