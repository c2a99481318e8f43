package audit

import (
	"context"
	"fmt"

	"github.com/salonkeep/salonkeep/internal/logger"
)

// Logger is an alias for the application logger interface
type Logger = logger.Logger

// Service records who changed what. Logging failures are reported to the
// caller but must never abort the surrounding data operation.
type Service interface {
	LogCreate(ctx context.Context, tableName string, recordID int64, clientID *int64, newValue, uiLocation string) error
	// LogUpdate records one field change. Unchanged values are skipped
	// so bulk form saves do not flood the trail.
	LogUpdate(ctx context.Context, tableName string, recordID int64, clientID *int64, fieldName, oldValue, newValue, uiLocation string) error
	LogDelete(ctx context.Context, tableName string, recordID int64, clientID *int64, oldValue, uiLocation string) error
	List(ctx context.Context, options FilterOptions) ([]Entry, error)
	Count(ctx context.Context) (int64, error)
	Cleanup(ctx context.Context, keep int64) (int64, error)
}

type auditService struct {
	repo   Repository
	logger Logger
}

// NewService creates a new audit service
func NewService(repo Repository, logger Logger) Service {
	return &auditService{repo: repo, logger: logger}
}

func (s *auditService) LogCreate(ctx context.Context, tableName string, recordID int64, clientID *int64, newValue, uiLocation string) error {
	entry := &Entry{
		EntityTable: tableName,
		RecordID:    recordID,
		ClientID:    clientID,
		Action:      ActionCreate,
		NewValue:    newValue,
		UILocation:  uiLocation,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.LogError(err, "Failed to log CREATE action")
		return err
	}
	s.logger.LogDebug("CREATE logged", map[string]interface{}{
		"table": tableName, "record_id": recordID, "ui_location": uiLocation,
	})
	return nil
}

func (s *auditService) LogUpdate(ctx context.Context, tableName string, recordID int64, clientID *int64, fieldName, oldValue, newValue, uiLocation string) error {
	if oldValue == newValue {
		s.logger.LogDebug("Skipping UPDATE log, values unchanged", map[string]interface{}{
			"table": tableName, "record_id": recordID, "field": fieldName,
		})
		return nil
	}
	entry := &Entry{
		EntityTable: tableName,
		RecordID:    recordID,
		ClientID:    clientID,
		Action:      ActionUpdate,
		FieldName:   fieldName,
		OldValue:    oldValue,
		NewValue:    newValue,
		UILocation:  uiLocation,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.LogError(err, "Failed to log UPDATE action")
		return err
	}
	s.logger.LogDebug("UPDATE logged", map[string]interface{}{
		"table": tableName, "record_id": recordID, "field": fieldName, "ui_location": uiLocation,
	})
	return nil
}

func (s *auditService) LogDelete(ctx context.Context, tableName string, recordID int64, clientID *int64, oldValue, uiLocation string) error {
	entry := &Entry{
		EntityTable: tableName,
		RecordID:    recordID,
		ClientID:    clientID,
		Action:      ActionDelete,
		OldValue:    oldValue,
		UILocation:  uiLocation,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.LogError(err, "Failed to log DELETE action")
		return err
	}
	s.logger.LogDebug("DELETE logged", map[string]interface{}{
		"table": tableName, "record_id": recordID, "ui_location": uiLocation,
	})
	return nil
}

func (s *auditService) List(ctx context.Context, options FilterOptions) ([]Entry, error) {
	return s.repo.List(ctx, options)
}

func (s *auditService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *auditService) Cleanup(ctx context.Context, keep int64) (int64, error) {
	deleted, err := s.repo.Cleanup(ctx, keep)
	if err != nil {
		s.logger.LogError(err, "Audit log cleanup failed")
		return 0, err
	}
	if deleted > 0 {
		s.logger.LogInfo("Audit log cleanup removed entries", map[string]interface{}{"deleted": deleted})
	}
	return deleted, nil
}

// Describe renders an entry as a human-readable sentence for the history view
func Describe(entry Entry) string {
	switch entry.Action {
	case ActionCreate:
		return fmt.Sprintf("Created %s #%d", entry.EntityTable, entry.RecordID)
	case ActionUpdate:
		return fmt.Sprintf("Changed %s #%d %s from %q to %q",
			entry.EntityTable, entry.RecordID, entry.FieldName, entry.OldValue, entry.NewValue)
	case ActionDelete:
		return fmt.Sprintf("Deleted %s #%d", entry.EntityTable, entry.RecordID)
	default:
		return fmt.Sprintf("%s on %s #%d", entry.Action, entry.EntityTable, entry.RecordID)
	}
}
