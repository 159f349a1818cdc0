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

const (
	// CollectionUsers holds admin panel accounts.
	CollectionUsers = "users"
	// CollectionCustomers holds public web accounts.
	CollectionCustomers = "customers"
)

// secretFields are excluded from reads unless a WithSecrets variant is
// used, mirroring a select:false projection.
var secretFields = bson.M{"password_hash": 0, "old_passwords": 0}

// AccountRepository persists one account collection in MongoDB.
type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database, collection string) *AccountRepository {
	return &AccountRepository{col: db.Collection(collection)}
}

type accountDoc struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty"`
	FirstName             string             `bson:"first_name"`
	LastName              string             `bson:"last_name"`
	FullName              string             `bson:"full_name"`
	Email                 string             `bson:"email"`
	Mobile                string             `bson:"mobile,omitempty"`
	Gender                string             `bson:"gender,omitempty"`
	Role                  string             `bson:"role,omitempty"`
	CustomerCode          string             `bson:"customer_code,omitempty"`
	Status                string             `bson:"status"`
	Deleted               bool               `bson:"deleted"`
	ProfileImg            string             `bson:"profile_img,omitempty"`
	PasswordHash          string             `bson:"password_hash,omitempty"`
	OldPasswords          []string           `bson:"old_passwords,omitempty"`
	ResetVerificationCode string             `bson:"reset_verification_code,omitempty"`
	ResetTokenExpires     time.Time          `bson:"reset_token_expires,omitempty"`
	CreatedAt             time.Time          `bson:"created_at"`
	UpdatedAt             time.Time          `bson:"updated_at"`
}

func toDoc(a *domain.Account) (*accountDoc, error) {
	doc := &accountDoc{
		FirstName:             a.FirstName,
		LastName:              a.LastName,
		FullName:              a.FullName,
		Email:                 a.Email,
		Mobile:                a.Mobile,
		Gender:                a.Gender,
		Role:                  a.Role,
		CustomerCode:          a.CustomerCode,
		Status:                string(a.Status),
		Deleted:               a.Deleted,
		ProfileImg:            a.ProfileImg,
		PasswordHash:          a.PasswordHash,
		OldPasswords:          a.OldPasswords,
		ResetVerificationCode: a.ResetVerificationCode,
		ResetTokenExpires:     a.ResetTokenExpires,
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
	if a.ID != "" {
		oid, err := primitive.ObjectIDFromHex(a.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid account id %q: %w", a.ID, err)
		}
		doc.ID = oid
	}
	return doc, nil
}

func (d *accountDoc) toDomain() *domain.Account {
	return &domain.Account{
		ID:                    d.ID.Hex(),
		FirstName:             d.FirstName,
		LastName:              d.LastName,
		FullName:              d.FullName,
		Email:                 d.Email,
		Mobile:                d.Mobile,
		Gender:                d.Gender,
		Role:                  d.Role,
		CustomerCode:          d.CustomerCode,
		Status:                domain.Status(d.Status),
		Deleted:               d.Deleted,
		ProfileImg:            d.ProfileImg,
		PasswordHash:          d.PasswordHash,
		OldPasswords:          d.OldPasswords,
		ResetVerificationCode: d.ResetVerificationCode,
		ResetTokenExpires:     d.ResetTokenExpires,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M, includeSecrets bool) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne()
	if !includeSecrets {
		opts.SetProjection(secretFields)
	}

	var doc accountDoc
	err := r.col.FindOne(ctx, filter, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string, includeSecrets bool) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email, "deleted": false}, includeSecrets)
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid, "deleted": false}, false)
}

func (r *AccountRepository) FindByIDWithSecrets(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid, "deleted": false}, true)
}

func (r *AccountRepository) FindByIDAndCode(ctx context.Context, id, code string, statuses []domain.Status) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}
	filter := bson.M{"_id": oid, "reset_verification_code": code, "deleted": false}
	if len(statuses) > 0 {
		in := make([]string, 0, len(statuses))
		for _, s := range statuses {
			in = append(in, string(s))
		}
		filter["status"] = bson.M{"$in": in}
	}
	return r.findOne(ctx, filter, false)
}

// FindByIDs loads the matched accounts, secret fields included, in the
// order of the input id list. Unknown ids are silently dropped.
func (r *AccountRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}, "deleted": false})
	if err != nil {
		return nil, fmt.Errorf("find accounts: %w", err)
	}
	defer cur.Close(ctx)

	byID := make(map[string]*domain.Account, len(ids))
	for cur.Next(ctx) {
		var doc accountDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		byID[doc.ID.Hex()] = doc.toDomain()
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	ordered := make([]*domain.Account, 0, len(byID))
	for _, id := range ids {
		if acct, ok := byID[id]; ok {
			ordered = append(ordered, acct)
		}
	}
	return ordered, nil
}

func (r *AccountRepository) Create(ctx context.Context, acct *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toDoc(acct)
	if err != nil {
		return nil, err
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	created := *acct
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// Update replaces the stored document with acct in full. The account must
// come from a WithSecrets read (or carry freshly written credentials), or
// the replacement drops the hash and reuse history.
func (r *AccountRepository) Update(ctx context.Context, acct *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toDoc(acct)
	if err != nil {
		return err
	}

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// SetResetCode writes the verification code and its expiry with a $set
// update. Update replaces the whole document from the caller's in-memory
// copy, so code issuance from a projected read must go through this
// method or the omitted credential fields would be written back empty.
func (r *AccountRepository) SetResetCode(ctx context.Context, id, code string, expires time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "deleted": false},
		bson.M{"$set": bson.M{
			"reset_verification_code": code,
			"reset_token_expires":     expires,
			"updated_at":              time.Now().UTC(),
		}})
	if err != nil {
		return fmt.Errorf("set reset code: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) UpdateStatusMany(ctx context.Context, ids []string, update ports.StatusUpdate) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Status != nil {
		set["status"] = string(*update.Status)
	}
	if update.Deleted != nil {
		set["deleted"] = *update.Deleted
	}

	res, err := r.col.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": oids}}, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("bulk status update: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{})
}

// List runs the filtered, sorted, paginated account query. Soft-deleted
// accounts and super admins are always excluded.
func (r *AccountRepository) List(ctx context.Context, q ports.ListQuery) (*ports.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	and := []bson.M{
		{"deleted": false},
		{"role": bson.M{"$ne": domain.RoleSuperAdmin}},
	}
	if q.Name != "" {
		and = append(and, bson.M{"full_name": primitive.Regex{Pattern: q.Name, Options: "i"}})
	}
	if q.Status != "" {
		and = append(and, bson.M{"status": string(q.Status)})
	}
	if !q.CreatedFrom.IsZero() && !q.CreatedTo.IsZero() {
		and = append(and, bson.M{"created_at": bson.M{"$gte": q.CreatedFrom, "$lte": q.CreatedTo}})
	}
	if q.Keyword != "" {
		kw := primitive.Regex{Pattern: q.Keyword, Options: "i"}
		and = append(and, bson.M{"$or": []bson.M{
			{"full_name": kw},
			{"email": kw},
			{"mobile": kw},
		}})
	}
	filter := bson.M{"$and": and}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count accounts: %w", err)
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
		sortField = "created_at"
	}
	sortDir := 1
	if q.SortDesc {
		sortDir = -1
	}

	opts := options.Find().
		SetProjection(secretFields).
		SetSort(bson.D{{Key: sortField, Value: sortDir}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	docs := make([]*domain.Account, 0, limit)
	for cur.Next(ctx) {
		var doc accountDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		docs = append(docs, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return &ports.Page{
		Docs:    docs,
		Total:   total,
		Page:    page,
		HasNext: int64(page*limit) < total,
	}, nil
}

// EnsureIndexes creates the uniqueness and lookup indexes for the
// account collection.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "reset_verification_code", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
