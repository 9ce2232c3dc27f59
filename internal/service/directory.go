package service

import (
	"context"
	"errors"
	"time"

	"taskhub/internal/apperr"
	"taskhub/internal/auth"
	"taskhub/internal/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dbUnavailable = "There is some problem with the database, please try again later"

// Directory manages users and groups.
type Directory struct {
	store  Store
	hasher *auth.Hasher
	tokens *auth.Tokens
	log    *zap.SugaredLogger
}

func NewDirectory(store Store, hasher *auth.Hasher, tokens *auth.Tokens, log *zap.SugaredLogger) *Directory {
	return &Directory{store: store, hasher: hasher, tokens: tokens, log: log}
}

// Registration is the input of Register.
type Registration struct {
	Name     string
	Phone    string
	Password string
	Status   string
}

// UserEdit is a partial user edit. Nil or empty fields are left untouched.
type UserEdit struct {
	ID       string
	Name     *string
	Password *string
	Status   *string
}

// Login verifies the credentials and issues a session token.
func (d *Directory) Login(ctx context.Context, phone, password string) (string, error) {
	user, err := d.store.GetUserByPhone(ctx, phone)
	if err != nil {
		return "", apperr.Persistence(dbUnavailable, err)
	}
	if user == nil {
		return "", apperr.New(apperr.KindInvalidCredentials, "User not found")
	}
	if !d.hasher.Verify(password, user.PasswordHash) {
		return "", apperr.New(apperr.KindInvalidCredentials, "Invalid credentials")
	}
	token, err := d.tokens.Issue(user.Phone, user.Role)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "Could not issue token", err)
	}
	return token, nil
}

// Status returns the role claim of token.
func (d *Directory) Status(token string) (string, error) {
	return d.tokens.StatusOnly(token)
}

// Password length bounds, in bytes.
const (
	minPasswordLen = 6
	maxPasswordLen = 20
)

func validatePassword(password string) error {
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return apperr.BadRequest("Password must be 6 to 20 characters")
	}
	return nil
}

func (d *Directory) Register(ctx context.Context, r Registration) error {
	role, err := models.ParseRole(r.Status)
	if err != nil {
		return apperr.Wrap(apperr.KindBadRequest, "Unknown status", err)
	}
	if err := validatePassword(r.Password); err != nil {
		return err
	}

	existing, err := d.store.GetUserByPhone(ctx, r.Phone)
	if err != nil {
		return apperr.Persistence(dbUnavailable, err)
	}
	if existing != nil {
		return apperr.Conflict("User already exists")
	}

	hash, err := d.hasher.Hash(r.Password)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "Could not hash password", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         r.Name,
		Phone:        r.Phone,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	err = d.store.CreateUser(ctx, user)
	if errors.Is(err, models.ErrDuplicate) {
		return apperr.Conflict("User already exists")
	}
	if err != nil {
		return apperr.Persistence(dbUnavailable, err)
	}
	d.log.Infow("user registered", "phone", user.Phone, "status", user.Role)
	return nil
}

// ListUsers returns every non-admin user.
func (d *Directory) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := d.store.ListUsers(ctx, []string{models.RoleAdmin.String()})
	if err != nil {
		return nil, apperr.Persistence(dbUnavailable, err)
	}
	return nonNilSlice(users), nil
}

// ListAssigners returns the users that may be offered as task assigners.
func (d *Directory) ListAssigners(ctx context.Context) ([]models.Contact, error) {
	return d.contacts(ctx, models.AssignerExclusions)
}

// ListReceivers returns the users that may be offered as task receivers.
func (d *Directory) ListReceivers(ctx context.Context) ([]models.Contact, error) {
	return d.contacts(ctx, models.ReceiverExclusions)
}

func (d *Directory) contacts(ctx context.Context, exclude []string) ([]models.Contact, error) {
	contacts, err := d.store.ListContacts(ctx, exclude)
	if err != nil {
		return nil, apperr.Persistence(dbUnavailable, err)
	}
	return nonNilSlice(contacts), nil
}

// DeleteUser removes the user with the given id and then, step by step,
// the groups it manages, its memberships and the tasks of those groups.
// Cascade failures are logged; the call succeeds once the user is gone.
func (d *Directory) DeleteUser(ctx context.Context, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return apperr.BadRequest("Invalid ID format")
	}

	user, err := d.store.GetUserByID(ctx, id)
	if err != nil {
		return apperr.Persistence(dbUnavailable, err)
	}
	if user == nil {
		return apperr.NotFound("User not found")
	}

	n, err := d.store.DeleteUser(ctx, id)
	if err != nil {
		return apperr.Persistence(dbUnavailable, err)
	}
	if n == 0 {
		return apperr.NotFound("User not found")
	}

	d.cascadeUser(ctx, user.Phone)
	d.log.Infow("user deleted", "id", id, "phone", user.Phone)
	return nil
}

func (d *Directory) cascadeUser(ctx context.Context, phone string) {
	if _, err := d.store.RemoveMember(ctx, phone); err != nil {
		d.log.Errorw("cascade: remove membership", "phone", phone, "error", err)
	}

	managed, err := d.store.ListGroupsByManager(ctx, phone)
	if err != nil {
		// Managed groups stay put so their tasks are never orphaned.
		d.log.Errorw("cascade: list managed groups", "phone", phone, "error", err)
		return
	}
	names := groupNames(managed)

	if len(names) > 0 {
		if _, err := d.store.DeleteTasksByGroups(ctx, names); err != nil {
			d.log.Errorw("cascade: delete tasks", "phone", phone, "groups", names, "error", err)
		}
	}
	if _, err := d.store.DeleteGroupsByManager(ctx, phone); err != nil {
		d.log.Errorw("cascade: delete managed groups", "phone", phone, "error", err)
	}
}

// DeleteGroup removes a group and then its tasks.
func (d *Directory) DeleteGroup(ctx context.Context, name string) error {
	n, err := d.store.DeleteGroup(ctx, name)
	if err != nil {
		return apperr.Persistence(dbUnavailable, err)
	}
	if n == 0 {
		return apperr.NotFound("Group not found")
	}
	if _, err := d.store.DeleteTasksByGroups(ctx, []string{name}); err != nil {
		d.log.Errorw("cascade: delete group tasks", "group", name, "error", err)
	}
	d.log.Infow("group deleted", "group", name)
	return nil
}

// CreateGroup creates an active group.
func (d *Directory) CreateGroup(ctx context.Context, name, managerPhone string, userPhones []string) error {
	existing, err := d.store.GetGroup(ctx, name)
	if err != nil {
		return apperr.Persistence(dbUnavailable, err)
	}
	if existing != nil {
		return apperr.Conflict("The group with this name already exists")
	}

	group := &models.Group{
		ID:           uuid.New(),
		Name:         name,
		ManagerPhone: managerPhone,
		UserPhones:   nonNilSlice(userPhones),
		Active:       1,
		CreatedAt:    time.Now().UTC(),
	}
	err = d.store.CreateGroup(ctx, group)
	if errors.Is(err, models.ErrDuplicate) {
		return apperr.Conflict("The group with this name already exists")
	}
	if err != nil {
		return apperr.Persistence(dbUnavailable, err)
	}
	d.log.Infow("group created", "group", name, "manager", managerPhone, "members", len(group.UserPhones))
	return nil
}

func (d *Directory) ListGroups(ctx context.Context) ([]models.Group, error) {
	groups, err := d.store.ListGroups(ctx)
	if err != nil {
		return nil, apperr.Persistence(dbUnavailable, err)
	}
	return nonNilSlice(groups), nil
}

// EditUser applies a partial edit. The password is hashed before it is stored.
func (d *Directory) EditUser(ctx context.Context, e UserEdit) error {
	var upd models.UserUpdate
	if e.Name != nil && *e.Name != "" {
		upd.Name = e.Name
	}
	if e.Password != nil && *e.Password != "" {
		if err := validatePassword(*e.Password); err != nil {
			return err
		}
		hash, err := d.hasher.Hash(*e.Password)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "Could not hash password", err)
		}
		upd.PasswordHash = &hash
	}
	if e.Status != nil && *e.Status != "" {
		role, err := models.ParseRole(*e.Status)
		if err != nil {
			return apperr.Wrap(apperr.KindBadRequest, "Unknown status", err)
		}
		upd.Role = &role
	}
	if upd.Empty() {
		return apperr.BadRequest("No valid fields to update")
	}

	id, err := uuid.Parse(e.ID)
	if err != nil {
		return apperr.BadRequest("Invalid ID format")
	}
	n, err := d.store.UpdateUser(ctx, id, upd)
	if err != nil {
		return apperr.Persistence(dbUnavailable, err)
	}
	if n == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}

// EditGroup applies a partial edit. The active flag is always written.
func (d *Directory) EditGroup(ctx context.Context, name string, upd models.GroupUpdate) error {
	if upd.ManagerPhone != nil && *upd.ManagerPhone == "" {
		upd.ManagerPhone = nil
	}
	n, err := d.store.UpdateGroup(ctx, name, upd)
	if err != nil {
		return apperr.Persistence(dbUnavailable, err)
	}
	if n == 0 {
		return apperr.NotFound("Group not found")
	}
	return nil
}

// MyGroups returns the names of the groups managed by phone.
func (d *Directory) MyGroups(ctx context.Context, phone string) ([]string, error) {
	groups, err := d.store.ListGroupsByManager(ctx, phone)
	if err != nil {
		return nil, apperr.Persistence(dbUnavailable, err)
	}
	return groupNames(groups), nil
}

func (d *Directory) MyInfo(ctx context.Context, phone string) (*models.User, error) {
	user, err := d.store.GetUserByPhone(ctx, phone)
	if err != nil {
		return nil, apperr.Persistence(dbUnavailable, err)
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}

// EnsureAdmin creates an admin account for phone unless a user with that
// phone already exists. It reports whether an account was created.
func (d *Directory) EnsureAdmin(ctx context.Context, name, phone, password string) (bool, error) {
	err := d.Register(ctx, Registration{
		Name:     name,
		Phone:    phone,
		Password: password,
		Status:   models.RoleAdmin.String(),
	})
	if apperr.Is(err, apperr.KindConflict) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func groupNames(groups []models.Group) []string {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
