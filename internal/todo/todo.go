package todo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidFilter = errors.New("invalid filter. use all, pending or completed")
	ErrInvalidStatus = errors.New("invalid status. use pending or completed")
	ErrInvalidID     = errors.New("todo id is not a valid ObjectID")
	ErrMissingID     = errors.New("todo id missing")
)

// Status is the completion state of a todo.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Filter restricts List to a subset of todos.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = Filter(StatusPending)
	FilterCompleted Filter = Filter(StatusCompleted)
)

// Todo is the document stored in the collection.
type Todo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Description string             `bson:"description" json:"description" validate:"required"`
	Status      Status             `bson:"status" json:"status" validate:"oneof=pending completed"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the description and status of t.
func (t Todo) Validate() error {
	if err := validate.Struct(t); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid todo: %s failed on %q", strings.ToLower(fe.Field()), fe.Tag())
		}
		return fmt.Errorf("invalid todo: %w", err)
	}
	return nil
}

// ParseStatus accepts "pending" or "completed".
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusCompleted:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// ParseFilter accepts "all", "pending" or "completed".
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterPending, FilterCompleted:
		return Filter(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
	}
}

// ParseID parses a hex ObjectID as printed by create and list.
func ParseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}

// Query returns the collection filter selecting todos matching f.
func (f Filter) Query() bson.M {
	if f == FilterAll {
		return bson.M{}
	}
	return bson.M{"status": string(f)}
}
