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

	"github.com/funderr/crowdfund-api/internal/core/domain"
	"github.com/funderr/crowdfund-api/internal/core/ports"
)

const campaignsCollection = "campaigns"

// CampaignRepository implements ports.CampaignRepository using MongoDB.
// Both compare-and-swap operations lean on the atomicity of single-document
// FindOneAndUpdate: the filter restates the precondition, so a write applies
// only when it still holds at commit time.
type CampaignRepository struct {
	coll *mongo.Collection
}

func NewCampaignRepository(db *mongo.Database) *CampaignRepository {
	return &CampaignRepository{coll: db.Collection(campaignsCollection)}
}

type mongoCampaign struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Title           string             `bson:"title"`
	Description     string             `bson:"description"`
	Category        string             `bson:"category,omitempty"`
	Goal            float64            `bson:"goal"`
	Raised          float64            `bson:"raised"`
	Status          string             `bson:"status"`
	RejectionReason string             `bson:"rejection_reason,omitempty"`
	CreatorID       string             `bson:"creator_id"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func (mc *mongoCampaign) toDomain() *domain.Campaign {
	return &domain.Campaign{
		ID:              mc.ID.Hex(),
		Title:           mc.Title,
		Description:     mc.Description,
		Category:        mc.Category,
		Goal:            mc.Goal,
		Raised:          mc.Raised,
		Status:          domain.CampaignStatus(mc.Status),
		RejectionReason: mc.RejectionReason,
		CreatorID:       mc.CreatorID,
		CreatedAt:       mc.CreatedAt.UTC(),
		UpdatedAt:       mc.UpdatedAt.UTC(),
	}
}

func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoCampaign{
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Goal:        c.Goal,
		Raised:      c.Raised,
		Status:      string(c.Status),
		CreatorID:   c.CreatorID,
		CreatedAt:   c.CreatedAt.UTC(),
		UpdatedAt:   c.UpdatedAt.UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert campaign: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *CampaignRepository) FindByID(ctx context.Context, id string) (*domain.Campaign, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCampaignNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCampaign
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("find campaign: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CampaignRepository) List(ctx context.Context, filter ports.CampaignFilter) ([]*domain.Campaign, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.CreatorID != "" {
		query["creator_id"] = filter.CreatorID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer cur.Close(ctx)

	var campaigns []*domain.Campaign
	for cur.Next(ctx) {
		var mc mongoCampaign
		if err := cur.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode campaign: %w", err)
		}
		campaigns = append(campaigns, mc.toDomain())
	}
	return campaigns, cur.Err()
}

// SetStatus transitions from→to only while the stored status is still `from`.
func (r *CampaignRepository) SetStatus(ctx context.Context, id string, from, to domain.CampaignStatus, reason string) (*domain.Campaign, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCampaignNotFound
	}

	set := bson.M{"status": string(to), "updated_at": time.Now().UTC()}
	if reason != "" {
		set["rejection_reason"] = reason
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mc mongoCampaign
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": string(from)},
		bson.M{"$set": set},
		opts,
	).Decode(&mc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("set campaign status: %w", err)
	}
	return mc.toDomain(), nil
}

// AddRaised increments raised by amt while the campaign is approved and the
// increment cannot pass the goal. The $expr filter is evaluated against the
// current document under the same document-level lock as the $inc, which is
// what makes concurrent donations linearizable.
func (r *CampaignRepository) AddRaised(ctx context.Context, id string, amt float64) (*domain.Campaign, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCampaignNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":    oid,
		"status": string(domain.CampaignApproved),
		"$expr": bson.M{
			"$lte": bson.A{
				bson.M{"$add": bson.A{"$raised", amt}},
				"$goal",
			},
		},
	}
	update := bson.M{
		"$inc": bson.M{"raised": amt},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mc mongoCampaign
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("apply donation: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCampaignNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

// EnsureIndexes creates the listing indexes.
func (r *CampaignRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "creator_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
