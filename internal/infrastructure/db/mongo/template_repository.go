package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hubcrm/accounts-api/internal/core/domain"
	"github.com/hubcrm/accounts-api/internal/core/ports"
)

const collectionTemplates = "system_emails"

// TemplateRepository persists system email templates.
type TemplateRepository struct {
	col *mongo.Collection
}

func NewTemplateRepository(db *mongo.Database) *TemplateRepository {
	return &TemplateRepository{col: db.Collection(collectionTemplates)}
}

type templateDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Code      string             `bson:"code"`
	Subject   string             `bson:"subject"`
	FromName  string             `bson:"from_name"`
	FromEmail string             `bson:"from_email"`
	CC        string             `bson:"cc,omitempty"`
	BCC       string             `bson:"bcc,omitempty"`
	Message   string             `bson:"message"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *templateDoc) toDomain() *domain.EmailTemplate {
	return &domain.EmailTemplate{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Code:      d.Code,
		Subject:   d.Subject,
		FromName:  d.FromName,
		FromEmail: d.FromEmail,
		CC:        d.CC,
		BCC:       d.BCC,
		Message:   d.Message,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *TemplateRepository) FindByCode(ctx context.Context, code string) (*domain.EmailTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc templateDoc
	err := r.col.FindOne(ctx, bson.M{"code": code}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("find template: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*domain.EmailTemplate, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTemplateNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc templateDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("find template: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TemplateRepository) Create(ctx context.Context, tpl *domain.EmailTemplate) (*domain.EmailTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := templateDoc{
		Title:     tpl.Title,
		Code:      tpl.Code,
		Subject:   tpl.Subject,
		FromName:  tpl.FromName,
		FromEmail: tpl.FromEmail,
		CC:        tpl.CC,
		BCC:       tpl.BCC,
		Message:   tpl.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrTemplateExists
		}
		return nil, fmt.Errorf("insert template: %w", err)
	}

	created := *tpl
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (r *TemplateRepository) Update(ctx context.Context, tpl *domain.EmailTemplate) error {
	oid, err := primitive.ObjectIDFromHex(tpl.ID)
	if err != nil {
		return domain.ErrTemplateNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"title":      tpl.Title,
		"code":       tpl.Code,
		"subject":    tpl.Subject,
		"from_name":  tpl.FromName,
		"from_email": tpl.FromEmail,
		"cc":         tpl.CC,
		"bcc":        tpl.BCC,
		"message":    tpl.Message,
		"updated_at": time.Now().UTC(),
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrTemplateExists
		}
		return fmt.Errorf("update template: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (r *TemplateRepository) List(ctx context.Context, q ports.TemplateListQuery) (*ports.TemplatePage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if q.Keyword != "" {
		kw := primitive.Regex{Pattern: q.Keyword, Options: "i"}
		filter["$or"] = []bson.M{
			{"title": kw},
			{"code": kw},
			{"subject": kw},
			{"from_name": kw},
			{"from_email": kw},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count templates: %w", err)
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 10
	}
	sortField := q.SortBy
	if sortField == "" {
		sortField = "title"
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer cur.Close(ctx)

	docs := make([]*domain.EmailTemplate, 0, limit)
	for cur.Next(ctx) {
		var doc templateDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode template: %w", err)
		}
		docs = append(docs, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}

	return &ports.TemplatePage{
		Docs:    docs,
		Total:   total,
		Page:    page,
		HasNext: int64(page*limit) < total,
	}, nil
}

// EnsureIndexes creates the unique code index for the template collection.
func (r *TemplateRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}
