package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arenax/arenax-api/internal/model"
	"github.com/arenax/arenax-api/internal/repository"
)

// ContactDB implements repository.ContactRepository over the shared pool.
type ContactDB struct {
	conn *sql.DB
}

// Contacts returns the contact-message repository view of the database.
func (db *DB) Contacts() *ContactDB {
	return &ContactDB{conn: db.conn}
}

var _ repository.ContactRepository = (*ContactDB)(nil)

// Create stores a contact-form submission.
func (db *ContactDB) Create(ctx context.Context, msg *model.ContactMessage) error {
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO contact_messages (id, name, email, message, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.Name, msg.Email, msg.Message, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting contact message: %w", err)
	}
	return nil
}
