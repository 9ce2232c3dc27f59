package mongo

import (
	"context"
	"errors"
	"fmt"

	"taskhub/internal/db/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (s *Store) findGroups(ctx context.Context, filter bson.M) ([]models.Group, error) {
	cur, err := s.groups.Find(ctx, filter, insertionOrder())
	if err != nil {
		return nil, err
	}
	var docs []groupDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	groups := make([]models.Group, 0, len(docs))
	for _, d := range docs {
		groups = append(groups, d.model())
	}
	return groups, nil
}

// GetGroup retrieves a group by name
func (s *Store) GetGroup(ctx context.Context, name string) (*models.Group, error) {
	var doc groupDoc
	err := s.groups.FindOne(ctx, bson.M{"group_name": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting group: %w", err)
	}
	g := doc.model()
	return &g, nil
}

// CreateGroup inserts a new group
func (s *Store) CreateGroup(ctx context.Context, g *models.Group) error {
	_, err := s.groups.InsertOne(ctx, fromGroup(g))
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrDuplicate
	}
	return err
}

// ListGroups retrieves every group
func (s *Store) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.findGroups(ctx, bson.M{})
}

// ListGroupsByManager retrieves the groups managed by phone
func (s *Store) ListGroupsByManager(ctx context.Context, phone string) ([]models.Group, error) {
	return s.findGroups(ctx, bson.M{"manager_phone": phone})
}

// ListActiveGroupsForMember retrieves the active groups listing phone as a member
func (s *Store) ListActiveGroupsForMember(ctx context.Context, phone string) ([]models.Group, error) {
	return s.findGroups(ctx, bson.M{"user_phones": phone, "active": 1})
}

// UpdateGroup applies an admin edit to the named group
func (s *Store) UpdateGroup(ctx context.Context, name string, upd models.GroupUpdate) (int64, error) {
	res, err := s.groups.UpdateOne(ctx, bson.M{"group_name": name}, bson.M{"$set": groupUpdateSet(upd)})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// DeleteGroup removes a group by name
func (s *Store) DeleteGroup(ctx context.Context, name string) (int64, error) {
	res, err := s.groups.DeleteOne(ctx, bson.M{"group_name": name})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteGroupsByManager removes every group managed by phone
func (s *Store) DeleteGroupsByManager(ctx context.Context, phone string) (int64, error) {
	res, err := s.groups.DeleteMany(ctx, bson.M{"manager_phone": phone})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// RemoveMember pulls phone from every group's member list
func (s *Store) RemoveMember(ctx context.Context, phone string) (int64, error) {
	res, err := s.groups.UpdateMany(ctx,
		bson.M{"user_phones": phone},
		bson.M{"$pull": bson.M{"user_phones": phone}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// groupUpdateSet always writes active; manager and membership only when set.
func groupUpdateSet(upd models.GroupUpdate) bson.M {
	set := bson.M{"active": upd.Active}
	if upd.ManagerPhone != nil {
		set["manager_phone"] = *upd.ManagerPhone
	}
	if len(upd.UserPhones) > 0 {
		set["user_phones"] = upd.UserPhones
	}
	return set
}
