package audit

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/shopthebarber/marketplace-api/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(
	action string,
	resourceType string,
	resourceID string,
	actorID string,
	changes any,
	details any,
) error {
	row := models.AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ActorID:      actorID,
		Changes:      marshalJSON(changes),
		Details:      marshalJSON(details),
	}

	return l.db.Create(&row).Error
}

// LogTx writes the audit row inside the caller's transaction so that it
// commits or rolls back together with the primary mutation.
func (l *Logger) LogTx(
	tx *gorm.DB,
	action string,
	resourceType string,
	resourceID string,
	actorID string,
	changes any,
	details any,
) error {
	row := models.AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ActorID:      actorID,
		Changes:      marshalJSON(changes),
		Details:      marshalJSON(details),
	}

	return tx.Create(&row).Error
}

func marshalJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
