package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
)

const CollectionName = "tasks"

// ErrorNotFound covers both an unknown id and one that is not a valid ObjectID.
var ErrorNotFound = errors.New("not found")

// taskDocument - представление задачи в MongoDB, наружу не выходит
type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description *string            `bson:"description"`
	Status      string             `bson:"status"`
	DueDate     *time.Time         `bson:"due_date"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d taskDocument) toModel() model.Task {
	return model.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      model.Status(d.Status),
		DueDate:     d.DueDate,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	coll *mongo.Collection
	now  func() time.Time
}

func NewTaskRepo(db *mongo.Database) *TaskRepo {
	return &TaskRepo{
		coll: db.Collection(CollectionName),
		now:  utcNow,
	}
}

// MongoDB хранит время с точностью до миллисекунд
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *TaskRepo) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}
	if filter.FromDue != nil || filter.ToDue != nil {
		dueRange := bson.M{}
		if filter.FromDue != nil {
			dueRange["$gte"] = filter.FromDue.UTC()
		}
		if filter.ToDue != nil {
			dueRange["$lte"] = filter.ToDue.UTC()
		}
		query["due_date"] = dueRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := make([]model.Task, 0)
	for cursor.Next(ctx) {
		var doc taskDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepo) Get(ctx context.Context, id string) (model.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Task{}, ErrorNotFound
	}
	return r.findByID(ctx, oid)
}

func (r *TaskRepo) Create(ctx context.Context, in model.TaskCreate) (model.Task, error) {
	now := r.now()
	doc := taskDocument{
		Title:       in.Title,
		Description: in.Description,
		Status:      string(in.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if doc.Status == "" {
		doc.Status = string(model.StatusTodo)
	}
	if in.DueDate != nil {
		due := in.DueDate.UTC().Truncate(time.Millisecond)
		doc.DueDate = &due
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return model.Task{}, fmt.Errorf("insert task: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toModel(), nil
}

// Update applies only the supplied fields. With nothing supplied the stored
// record is returned untouched and updated_at keeps its value.
func (r *TaskRepo) Update(ctx context.Context, id string, in model.TaskUpdate) (model.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Task{}, ErrorNotFound
	}

	changes := in.Changes()
	if len(changes) == 0 {
		return r.findByID(ctx, oid)
	}

	set := bson.M{"updated_at": r.now()}
	for field, value := range changes {
		if due, ok := value.(time.Time); ok {
			value = due.Truncate(time.Millisecond)
		}
		set[field] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc taskDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Task{}, ErrorNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	return doc.toModel(), nil
}

func (r *TaskRepo) findByID(ctx context.Context, oid primitive.ObjectID) (model.Task, error) {
	var doc taskDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Task{}, ErrorNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("find task: %w", err)
	}
	return doc.toModel(), nil
}
