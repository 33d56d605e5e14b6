package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coms4156/tars-client/internal/core/domain"
)

const (
	usersCollection       = "users"
	clientsCollection     = "clients"
	preferencesCollection = "user_preferences"
)

// Directory serves users, clients and preferences from MongoDB.
type Directory struct {
	db    *mongo.Database
	users *mongo.Collection
	cl    *mongo.Collection
	prefs *mongo.Collection
}

func NewDirectory(db *mongo.Database) *Directory {
	return &Directory{
		db:    db,
		users: db.Collection(usersCollection),
		cl:    db.Collection(clientsCollection),
		prefs: db.Collection(preferencesCollection),
	}
}

type mongoUser struct {
	UserID     int64  `bson:"userId"`
	ClientID   int64  `bson:"clientId"`
	Username   string `bson:"username"`
	Email      string `bson:"email"`
	Role       string `bson:"role"`
	Active     bool   `bson:"active"`
	SignUpDate string `bson:"signUpDate,omitempty"`
	LastLogin  string `bson:"lastLogin,omitempty"`
}

type mongoClient struct {
	ClientID int64  `bson:"clientId"`
	Name     string `bson:"name"`
	Email    string `bson:"email"`
}

type mongoPreferences struct {
	ID                     int64    `bson:"id"`
	ClientID               int64    `bson:"clientId,omitempty"`
	CityPreferences        []string `bson:"cityPreferences"`
	WeatherPreferences     []string `bson:"weatherPreferences"`
	TemperaturePreferences []string `bson:"temperaturePreferences"`
}

func (d *Directory) ListTarsUsers(ctx context.Context) ([]domain.TarsUser, error) {
	cur, err := d.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "userId", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]domain.TarsUser, 0, len(docs))
	for _, u := range docs {
		users = append(users, domain.TarsUser{
			UserID:     domain.ID(u.UserID),
			ClientID:   domain.ID(u.ClientID),
			Username:   u.Username,
			Email:      u.Email,
			Role:       u.Role,
			Active:     u.Active,
			SignUpDate: u.SignUpDate,
			LastLogin:  u.LastLogin,
		})
	}
	return users, nil
}

func (d *Directory) ListClients(ctx context.Context) ([]domain.Client, error) {
	cur, err := d.cl.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "clientId", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find clients: %w", err)
	}
	var docs []mongoClient
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}

	clients := make([]domain.Client, 0, len(docs))
	for _, c := range docs {
		clients = append(clients, domain.Client{ClientID: domain.ID(c.ClientID), Name: c.Name, Email: c.Email})
	}
	return clients, nil
}

func (d *Directory) Preferences(ctx context.Context, userID domain.ID) (*domain.UserPreferences, error) {
	return d.findPreferences(ctx, bson.M{"id": int64(userID)})
}

func (d *Directory) PreferencesByClient(ctx context.Context, clientID domain.ID) (*domain.UserPreferences, error) {
	return d.findPreferences(ctx, bson.M{"clientId": int64(clientID)})
}

// SavePreferences upserts the record for userID. The filter seeds the id
// of a new record. Nil lists are left as stored or start empty.
func (d *Directory) SavePreferences(ctx context.Context, userID domain.ID, lists domain.PreferenceLists) (*domain.UserPreferences, error) {
	set := bson.M{}
	onInsert := bson.M{}
	for field, values := range map[string][]string{
		"cityPreferences":        lists.CityPreferences,
		"weatherPreferences":     lists.WeatherPreferences,
		"temperaturePreferences": lists.TemperaturePreferences,
	} {
		if values != nil {
			set[field] = values
		} else {
			onInsert[field] = []string{}
		}
	}

	update := bson.M{}
	if len(onInsert) > 0 {
		update["$setOnInsert"] = onInsert
	}
	if len(set) > 0 {
		update["$set"] = set
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc mongoPreferences
	if err := d.prefs.FindOneAndUpdate(ctx, bson.M{"id": int64(userID)}, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("save preferences for user %s: %w", userID, err)
	}
	return toPreferences(doc), nil
}

// Ping checks the database connection.
func (d *Directory) Ping(ctx context.Context) error {
	return d.db.Client().Ping(ctx, nil)
}

func (d *Directory) findPreferences(ctx context.Context, filter bson.M) (*domain.UserPreferences, error) {
	var doc mongoPreferences
	if err := d.prefs.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPreferencesNotFound
		}
		return nil, fmt.Errorf("find preferences: %w", err)
	}
	return toPreferences(doc), nil
}

func toPreferences(doc mongoPreferences) *domain.UserPreferences {
	p := &domain.UserPreferences{
		ID:                     domain.ID(doc.ID),
		ClientID:               domain.ID(doc.ClientID),
		CityPreferences:        doc.CityPreferences,
		WeatherPreferences:     doc.WeatherPreferences,
		TemperaturePreferences: doc.TemperaturePreferences,
	}
	return p.Normalize()
}
