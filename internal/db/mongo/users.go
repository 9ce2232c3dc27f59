package mongo

import (
	"context"
	"errors"
	"fmt"

	"taskhub/internal/db/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	u := doc.model()
	return &u, nil
}

// GetUserByPhone retrieves a user by phone number
func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"phone": phone})
}

// GetUserByID retrieves a user by its ID
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id.String()})
}

// CreateUser inserts a new user
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.users.InsertOne(ctx, fromUser(u))
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrDuplicate
	}
	return err
}

// ListUsers retrieves users whose role is not in excludeRoles
func (s *Store) ListUsers(ctx context.Context, excludeRoles []string) ([]models.User, error) {
	cur, err := s.users.Find(ctx, bson.M{"status": bson.M{"$nin": inStrings(excludeRoles)}}, insertionOrder())
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.model())
	}
	return users, nil
}

// ListContacts retrieves name and phone of users whose role is not in excludeRoles
func (s *Store) ListContacts(ctx context.Context, excludeRoles []string) ([]models.Contact, error) {
	opts := insertionOrder().SetProjection(bson.M{"name": 1, "phone": 1, "_id": 0})
	cur, err := s.users.Find(ctx, bson.M{"status": bson.M{"$nin": inStrings(excludeRoles)}}, opts)
	if err != nil {
		return nil, err
	}
	var contacts []models.Contact
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			cur.Close(ctx)
			return nil, err
		}
		contacts = append(contacts, models.Contact{Name: doc.Name, Phone: doc.Phone})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return contacts, cur.Close(ctx)
}

// UpdateUser sets the non-nil fields of upd
func (s *Store) UpdateUser(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (int64, error) {
	set := userUpdateSet(upd)
	if len(set) == 0 {
		return 0, fmt.Errorf("empty user update")
	}
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// DeleteUser removes a user by ID
func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) (int64, error) {
	res, err := s.users.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}


// userUpdateSet returns the $set document for the fields present in upd.
func userUpdateSet(upd models.UserUpdate) bson.M {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.PasswordHash != nil {
		set["password"] = *upd.PasswordHash
	}
	if upd.Role != nil {
		set["status"] = upd.Role.String()
	}
	return set
}
