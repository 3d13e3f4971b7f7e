package ds

import "github.com/google/uuid"

// assignID fills an empty primary key before insert
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
