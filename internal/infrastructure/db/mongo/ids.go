package mongo

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/task-system/internal/core/domain"
)

// newID mints an opaque record identifier. Documents store the hex string as
// _id so domain types can carry plain strings.
func newID() string {
	return primitive.NewObjectID().Hex()
}

// checkID validates the shape of a client-supplied opaque id before it
// reaches a query.
func checkID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return nil
}
