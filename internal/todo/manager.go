package todo

import (
	"context"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/sarth-shah20/todo/internal/store"
)

// UpdateOutcome says what an UpdateStatus call did to the collection.
type UpdateOutcome int

const (
	UpdateApplied UpdateOutcome = iota
	UpdateNotFound
	UpdateUnchanged
)

func (o UpdateOutcome) String() string {
	switch o {
	case UpdateApplied:
		return "applied"
	case UpdateNotFound:
		return "not_found"
	case UpdateUnchanged:
		return "unchanged"
	default:
		return fmt.Sprintf("UpdateOutcome(%d)", int(o))
	}
}

// Manager performs the todo operations against a single collection and
// prints one result line per outcome to out.
type Manager struct {
	coll store.Collection
	out  io.Writer
	log  *zap.Logger
}

func NewManager(coll store.Collection, out io.Writer, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{coll: coll, out: out, log: log}
}

// Add inserts a new pending todo and returns its id.
func (m *Manager) Add(ctx context.Context, description string) (primitive.ObjectID, error) {
	t := Todo{
		Description: description,
		Status:      StatusPending,
	}
	if err := t.Validate(); err != nil {
		return primitive.NilObjectID, err
	}

	id, err := m.coll.InsertOne(ctx, t)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to add todo: %w", err)
	}

	m.log.Debug("todo inserted", zap.String("id", id.Hex()))
	fmt.Fprintf(m.out, "inserted todo with id = %s\n", id.Hex())
	return id, nil
}

// List prints every todo matching filter. The filter is checked before the
// collection is touched.
func (m *Manager) List(ctx context.Context, filter string) ([]Todo, error) {
	f, err := ParseFilter(filter)
	if err != nil {
		return nil, err
	}

	if f != FilterAll {
		fmt.Fprintf(m.out, "listing '%s' todos\n", f)
	}

	todos, err := m.Find(ctx, f)
	if err != nil {
		return nil, err
	}

	for _, t := range todos {
		fmt.Fprintf(m.out, "todo_id: %s | description: %s | status: %s\n", t.ID.Hex(), t.Description, t.Status)
	}
	return todos, nil
}

// Find returns every todo matching f without printing anything.
func (m *Manager) Find(ctx context.Context, f Filter) ([]Todo, error) {
	docs, err := m.coll.Find(ctx, f.Query())
	if err != nil {
		return nil, fmt.Errorf("failed to find todos: %w", err)
	}

	todos := make([]Todo, 0, len(docs))
	for _, raw := range docs {
		var t Todo
		if err := bson.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("BSON to struct conversion failed: %w", err)
		}
		if t.ID.IsZero() {
			return nil, ErrMissingID
		}
		todos = append(todos, t)
	}

	m.log.Debug("todos found", zap.String("filter", string(f)), zap.Int("count", len(todos)))
	return todos, nil
}

// UpdateStatus sets the status of the todo with the given hex id. Both
// arguments are validated before the collection is touched.
func (m *Manager) UpdateStatus(ctx context.Context, id, status string) (UpdateOutcome, error) {
	s, err := ParseStatus(status)
	if err != nil {
		return UpdateNotFound, err
	}
	oid, err := ParseID(id)
	if err != nil {
		return UpdateNotFound, err
	}

	fmt.Fprintf(m.out, "updating todo_id %s status to %s\n", id, s)

	res, err := m.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": string(s)}},
	)
	if err != nil {
		return UpdateNotFound, fmt.Errorf("update failed: %w", err)
	}

	var outcome UpdateOutcome
	switch {
	case res.ModifiedCount >= 1:
		outcome = UpdateApplied
		fmt.Fprintf(m.out, "updated status for todo id %s\n", id)
	case res.MatchedCount == 0:
		outcome = UpdateNotFound
		fmt.Fprintf(m.out, "could not update. check todo id %s\n", id)
	default:
		outcome = UpdateUnchanged
		fmt.Fprintf(m.out, "todo id %s already has status %s\n", id, s)
	}

	m.log.Debug("todo status update",
		zap.String("id", id),
		zap.Int64("matched", res.MatchedCount),
		zap.Int64("modified", res.ModifiedCount),
		zap.Stringer("outcome", outcome),
	)
	return outcome, nil
}

// Delete removes the todo with the given hex id and reports whether a
// document was deleted.
func (m *Manager) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := ParseID(id)
	if err != nil {
		return false, err
	}

	fmt.Fprintf(m.out, "deleting todo %s\n", id)

	n, err := m.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete failed: %w", err)
	}

	if n == 0 {
		fmt.Fprintf(m.out, "could not delete. check todo id %s\n", id)
		return false, nil
	}

	m.log.Debug("todo deleted", zap.String("id", id), zap.Int64("deleted", n))
	fmt.Fprintf(m.out, "deleted todo %s\n", id)
	return true, nil
}
