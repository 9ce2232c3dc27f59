package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"taskhub/internal/apperr"
	"taskhub/internal/auth"
	"taskhub/internal/db/models"
	"taskhub/internal/db/sqlite"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminPhone   = "+380000000000"
	managerPhone = "+380000000001"
	memberPhone  = "+380000000002"
	otherPhone   = "+380000000003"
)

type fixture struct {
	store       *sqlite.Store
	tokens      *auth.Tokens
	dir         *Directory
	tasks       *Tasks
	completions *Completions
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	log := zap.NewNop().Sugar()
	tokens := auth.NewTokens("test-secret", time.Hour)
	return &fixture{
		store:       store,
		tokens:      tokens,
		dir:         NewDirectory(store, auth.NewHasher(bcrypt.MinCost), tokens, log),
		tasks:       NewTasks(store, log),
		completions: NewCompletions(store, log),
	}
}

func (f *fixture) register(t *testing.T, name, phone string, role models.Role) {
	t.Helper()
	err := f.dir.Register(context.Background(), Registration{Name: name, Phone: phone, Password: "secret123", Status: role.String()})
	if err != nil {
		t.Fatalf("register %s: %v", phone, err)
	}
}

func (f *fixture) group(t *testing.T, name, manager string, members ...string) {
	t.Helper()
	if err := f.dir.CreateGroup(context.Background(), name, manager, members); err != nil {
		t.Fatalf("create group %s: %v", name, err)
	}
}

func (f *fixture) task(t *testing.T, title, group, phone string, importance int) *models.Task {
	t.Helper()
	task, err := f.tasks.CreateTask(context.Background(), models.TaskFields{
		Title:      title,
		Group:      group,
		Importance: importance,
		RepeatDays: []string{"Monday"},
	}, phone)
	if err != nil {
		t.Fatalf("create task %s: %v", title, err)
	}
	return task
}

func wantKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if !apperr.Is(err, kind) {
		t.Fatalf("err = %v, want %s", err, kind)
	}
}

func titles(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func hasMember(g *models.Group, phone string) bool {
	for _, p := range g.UserPhones {
		if p == phone {
			return true
		}
	}
	return false
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ============================================================
// Directory
// ============================================================

func TestLoginAfterRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Alice", managerPhone, models.RoleMember)

	token, err := f.dir.Login(ctx, managerPhone, "secret123")
	if err != nil {
		t.Fatal(err)
	}
	phone, err := f.tokens.Phone(token)
	if err != nil || phone != managerPhone {
		t.Fatalf("sub = %q, err = %v", phone, err)
	}
	status, err := f.dir.Status(token)
	if err != nil || status != "user" {
		t.Fatalf("status = %q, err = %v", status, err)
	}
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Alice", managerPhone, models.RoleMember)

	_, err := f.dir.Login(ctx, otherPhone, "secret123")
	wantKind(t, err, apperr.KindInvalidCredentials)

	_, err = f.dir.Login(ctx, managerPhone, "wrongpass")
	wantKind(t, err, apperr.KindInvalidCredentials)
}

func TestRegisterRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Alice", managerPhone, models.RoleMember)

	err := f.dir.Register(ctx, Registration{Name: "Again", Phone: managerPhone, Password: "secret123", Status: "user"})
	wantKind(t, err, apperr.KindConflict)

	err = f.dir.Register(ctx, Registration{Name: "Bob", Phone: otherPhone, Password: "secret123", Status: "root"})
	wantKind(t, err, apperr.KindBadRequest)

	for _, pw := range []string{"", "abc", "abcdefghijklmnopqrstu"} {
		err = f.dir.Register(ctx, Registration{Name: "Bob", Phone: otherPhone, Password: pw, Status: "user"})
		wantKind(t, err, apperr.KindBadRequest)
	}
	if u, _ := f.store.GetUserByPhone(ctx, otherPhone); u != nil {
		t.Errorf("user stored with invalid password: %+v", u)
	}
}

func TestUserListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Admin", adminPhone, models.RoleAdmin)
	f.register(t, "Adder", managerPhone, models.RoleAddOnly)
	f.register(t, "Receiver", memberPhone, models.RoleReceiveOnly)
	f.register(t, "Plain", otherPhone, models.RoleMember)

	users, err := f.dir.ListUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 3 {
		t.Errorf("ListUsers = %d users, want 3", len(users))
	}
	for _, u := range users {
		if u.Role == models.RoleAdmin {
			t.Error("admin listed")
		}
	}

	assigners, _ := f.dir.ListAssigners(ctx)
	receivers, _ := f.dir.ListReceivers(ctx)
	if got := contactPhones(assigners); !equal(got, []string{managerPhone, otherPhone}) {
		t.Errorf("assigners = %v", got)
	}
	if got := contactPhones(receivers); !equal(got, []string{memberPhone, otherPhone}) {
		t.Errorf("receivers = %v", got)
	}
}

func contactPhones(contacts []models.Contact) []string {
	out := make([]string, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, c.Phone)
	}
	return out
}

func TestDeleteUserCascadesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Manager", managerPhone, models.RoleManager)
	f.register(t, "Member", memberPhone, models.RoleMember)
	f.register(t, "Other", otherPhone, models.RoleManager)
	f.group(t, "G1", managerPhone, memberPhone)
	f.group(t, "G2", otherPhone, managerPhone, memberPhone)
	f.task(t, "in G1", "G1", managerPhone, 1)
	f.task(t, "in G2", "G2", otherPhone, 1)

	manager, _ := f.store.GetUserByPhone(ctx, managerPhone)
	if err := f.dir.DeleteUser(ctx, manager.ID.String()); err != nil {
		t.Fatal(err)
	}

	if g, _ := f.store.GetGroup(ctx, "G1"); g != nil {
		t.Error("managed group G1 survived")
	}
	g2, _ := f.store.GetGroup(ctx, "G2")
	if g2 == nil || hasMember(g2, managerPhone) || !hasMember(g2, memberPhone) {
		t.Errorf("G2 membership = %v", g2)
	}
	list, err := f.tasks.ListMyTasks(ctx, memberPhone)
	if err != nil {
		t.Fatal(err)
	}
	if got := titles(list.Tasks); !equal(got, []string{"in G2"}) {
		t.Errorf("member tasks = %v", got)
	}

	err = f.dir.DeleteUser(ctx, manager.ID.String())
	wantKind(t, err, apperr.KindNotFound)
	if g2, _ := f.store.GetGroup(ctx, "G2"); g2 == nil || len(g2.UserPhones) != 1 {
		t.Errorf("second delete touched G2: %v", g2)
	}

	err = f.dir.DeleteUser(ctx, "not-an-id")
	wantKind(t, err, apperr.KindBadRequest)
}

// managerListFails is a store whose managed-group lookup always fails.
type managerListFails struct {
	*sqlite.Store
}

func (managerListFails) ListGroupsByManager(context.Context, string) ([]models.Group, error) {
	return nil, errors.New("connection reset")
}

func TestDeleteUserKeepsGroupsWhenLookupFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Manager", managerPhone, models.RoleManager)
	f.register(t, "Other", otherPhone, models.RoleManager)
	f.group(t, "G1", managerPhone, memberPhone)
	f.group(t, "G2", otherPhone, managerPhone)
	f.task(t, "in G1", "G1", managerPhone, 1)

	dir := NewDirectory(managerListFails{f.store}, auth.NewHasher(bcrypt.MinCost), f.tokens, zap.NewNop().Sugar())
	manager, _ := f.store.GetUserByPhone(ctx, managerPhone)
	if err := dir.DeleteUser(ctx, manager.ID.String()); err != nil {
		t.Fatal(err)
	}

	if u, _ := f.store.GetUserByPhone(ctx, managerPhone); u != nil {
		t.Error("user survived delete")
	}
	if g, _ := f.store.GetGroup(ctx, "G1"); g == nil {
		t.Error("managed group deleted without its task list")
	}
	list, _ := f.tasks.ListMyTasks(ctx, memberPhone)
	if got := titles(list.Tasks); !equal(got, []string{"in G1"}) {
		t.Errorf("member tasks = %v", got)
	}
	if g2, _ := f.store.GetGroup(ctx, "G2"); g2 == nil || hasMember(g2, managerPhone) {
		t.Errorf("G2 membership = %v", g2)
	}
}

func TestDeleteGroupRemovesTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Manager", managerPhone, models.RoleManager)
	f.group(t, "G1", managerPhone, memberPhone)
	f.group(t, "G2", managerPhone, memberPhone)
	f.task(t, "a", "G1", managerPhone, 1)
	f.task(t, "b", "G1", managerPhone, 2)
	f.task(t, "c", "G2", managerPhone, 1)

	if err := f.dir.DeleteGroup(ctx, "G1"); err != nil {
		t.Fatal(err)
	}
	list, _ := f.tasks.ListMyTasks(ctx, memberPhone)
	if got := titles(list.Tasks); !equal(got, []string{"c"}) {
		t.Errorf("member tasks = %v", got)
	}
	created, _ := f.tasks.ListMyCreatedTasks(ctx, managerPhone)
	if got := titles(created); !equal(got, []string{"c"}) {
		t.Errorf("created tasks = %v", got)
	}

	wantKind(t, f.dir.DeleteGroup(ctx, "G1"), apperr.KindNotFound)
}

func TestCreateGroupDuplicate(t *testing.T) {
	f := newFixture(t)
	f.group(t, "G1", managerPhone)
	err := f.dir.CreateGroup(context.Background(), "G1", otherPhone, nil)
	wantKind(t, err, apperr.KindConflict)

	groups, _ := f.dir.ListGroups(context.Background())
	if len(groups) != 1 || groups[0].Active != 1 || groups[0].UserPhones == nil {
		t.Errorf("groups = %+v", groups)
	}
}

func TestEditUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Alice", managerPhone, models.RoleMember)
	user, _ := f.store.GetUserByPhone(ctx, managerPhone)

	empty := ""
	wantKind(t, f.dir.EditUser(ctx, UserEdit{ID: user.ID.String(), Name: &empty}), apperr.KindBadRequest)

	name := "Alice B"
	wantKind(t, f.dir.EditUser(ctx, UserEdit{ID: "00000000-0000-0000-0000-000000000000", Name: &name}), apperr.KindNotFound)

	bad := "root"
	wantKind(t, f.dir.EditUser(ctx, UserEdit{ID: user.ID.String(), Status: &bad}), apperr.KindBadRequest)

	short := "abc"
	wantKind(t, f.dir.EditUser(ctx, UserEdit{ID: user.ID.String(), Password: &short}), apperr.KindBadRequest)
	if _, err := f.dir.Login(ctx, managerPhone, "secret123"); err != nil {
		t.Fatalf("rejected password edit changed credentials: %v", err)
	}

	password := "newsecret"
	status := "manager"
	if err := f.dir.EditUser(ctx, UserEdit{ID: user.ID.String(), Name: &name, Password: &password, Status: &status}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.dir.Login(ctx, managerPhone, "secret123"); !apperr.Is(err, apperr.KindInvalidCredentials) {
		t.Errorf("old password still accepted: %v", err)
	}
	token, err := f.dir.Login(ctx, managerPhone, password)
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := f.tokens.Status(token); s != "manager" {
		t.Errorf("status = %q", s)
	}
	info, _ := f.dir.MyInfo(ctx, managerPhone)
	if info.Name != name {
		t.Errorf("name = %q", info.Name)
	}
}

func TestEditGroupDeactivateHidesTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Manager", managerPhone, models.RoleManager)
	f.group(t, "G1", managerPhone, memberPhone)
	f.task(t, "a", "G1", managerPhone, 1)

	if err := f.dir.EditGroup(ctx, "G1", models.GroupUpdate{Active: 0}); err != nil {
		t.Fatal(err)
	}
	list, _ := f.tasks.ListMyTasks(ctx, memberPhone)
	if len(list.Tasks) != 0 {
		t.Errorf("inactive group tasks visible: %v", titles(list.Tasks))
	}
	g, _ := f.store.GetGroup(ctx, "G1")
	if g.ManagerPhone != managerPhone || !hasMember(g, memberPhone) {
		t.Errorf("unset fields changed: %+v", g)
	}

	wantKind(t, f.dir.EditGroup(ctx, "nope", models.GroupUpdate{Active: 1}), apperr.KindNotFound)
}

func TestMyGroupsAndInfo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Manager", managerPhone, models.RoleManager)
	f.group(t, "G1", managerPhone)
	f.group(t, "G2", otherPhone)
	f.group(t, "G3", managerPhone)

	names, err := f.dir.MyGroups(ctx, managerPhone)
	if err != nil || !equal(names, []string{"G1", "G3"}) {
		t.Errorf("MyGroups = %v, %v", names, err)
	}
	_, err = f.dir.MyInfo(ctx, otherPhone)
	wantKind(t, err, apperr.KindNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.dir.EnsureAdmin(ctx, "Admin", adminPhone, "adminpass")
	if err != nil || !created {
		t.Fatalf("created = %v, err = %v", created, err)
	}
	created, err = f.dir.EnsureAdmin(ctx, "Admin", adminPhone, "adminpass")
	if err != nil || created {
		t.Fatalf("second call: created = %v, err = %v", created, err)
	}

	created, err = f.dir.EnsureAdmin(ctx, "Root", otherPhone, "")
	wantKind(t, err, apperr.KindBadRequest)
	if created {
		t.Error("admin created with empty password")
	}
}

// ============================================================
// Tasks
// ============================================================

func TestManagerCreatesTaskScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "A", managerPhone, models.RoleMember)
	f.register(t, "B", otherPhone, models.RoleMember)
	f.group(t, "G1", managerPhone)

	task := f.task(t, "sweep", "G1", managerPhone, 1)
	if task.CreatedName != "A" || task.CreatedBy != managerPhone {
		t.Errorf("task = %+v", task)
	}

	mine, _ := f.tasks.ListMyCreatedTasks(ctx, managerPhone)
	if got := titles(mine); !equal(got, []string{"sweep"}) {
		t.Errorf("A created = %v", got)
	}
	theirs, _ := f.tasks.ListMyCreatedTasks(ctx, otherPhone)
	if len(theirs) != 0 {
		t.Errorf("B created = %v", titles(theirs))
	}
}

func TestCreateTaskForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "A", managerPhone, models.RoleManager)
	f.register(t, "B", otherPhone, models.RoleManager)
	f.group(t, "G1", managerPhone)

	_, err := f.tasks.CreateTask(ctx, models.TaskFields{Title: "x", Group: "G1"}, otherPhone)
	wantKind(t, err, apperr.KindForbidden)
	_, err = f.tasks.CreateTask(ctx, models.TaskFields{Title: "x", Group: "missing"}, managerPhone)
	wantKind(t, err, apperr.KindForbidden)

	for _, phone := range []string{managerPhone, otherPhone} {
		if created, _ := f.tasks.ListMyCreatedTasks(ctx, phone); len(created) != 0 {
			t.Errorf("%s has persisted tasks: %v", phone, titles(created))
		}
	}
}

func TestListMyTasksOrderAndKeys(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Manager", managerPhone, models.RoleManager)
	f.group(t, "G1", managerPhone, memberPhone)
	f.group(t, "G2", managerPhone, memberPhone)
	f.group(t, "G3", managerPhone, otherPhone)
	f.task(t, "low", "G1", managerPhone, 1)
	f.task(t, "high-first", "G1", managerPhone, 5)
	f.task(t, "mid", "G2", managerPhone, 3)
	f.task(t, "high-second", "G2", managerPhone, 5)
	f.task(t, "elsewhere", "G3", managerPhone, 9)

	if err := f.completions.RecordCompletion(ctx, memberPhone, CompletionReport{TaskID: "t", KeyTime: "k1"}); err != nil {
		t.Fatal(err)
	}
	if err := f.completions.RecordCompletion(ctx, otherPhone, CompletionReport{TaskID: "t", KeyTime: "k2"}); err != nil {
		t.Fatal(err)
	}

	list, err := f.tasks.ListMyTasks(ctx, memberPhone)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"high-first", "high-second", "mid", "low"}
	if got := titles(list.Tasks); !equal(got, want) {
		t.Errorf("tasks = %v, want %v", got, want)
	}
	if !equal(list.CompletedKeys, []string{"k1"}) {
		t.Errorf("keys = %v", list.CompletedKeys)
	}

	legacy := list.Legacy()
	if len(legacy) != 5 {
		t.Fatalf("legacy len = %d", len(legacy))
	}
	if keys, ok := legacy[4].([]string); !ok || !equal(keys, []string{"k1"}) {
		t.Errorf("legacy tail = %#v", legacy[4])
	}

	empty, _ := f.tasks.ListMyTasks(ctx, "+380999999999")
	if empty.Tasks == nil || empty.CompletedKeys == nil {
		t.Error("empty lists must not be nil")
	}
}

func TestDeleteAndUpdateTaskOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Manager", managerPhone, models.RoleManager)
	f.group(t, "G1", managerPhone, memberPhone)
	task := f.task(t, "a", "G1", managerPhone, 1)

	edit := models.TaskFields{Title: "renamed", Group: "G1", Importance: 7}
	wantKind(t, f.tasks.UpdateTask(ctx, task.ID.String(), edit, otherPhone), apperr.KindForbidden)
	f.group(t, "G9", otherPhone)
	foreign := edit
	foreign.Group = "G9"
	wantKind(t, f.tasks.UpdateTask(ctx, task.ID.String(), foreign, otherPhone), apperr.KindNotFound)
	wantKind(t, f.tasks.UpdateTask(ctx, "bogus", edit, managerPhone), apperr.KindNotFound)
	if err := f.tasks.UpdateTask(ctx, task.ID.String(), edit, managerPhone); err != nil {
		t.Fatal(err)
	}
	mine, _ := f.tasks.ListMyCreatedTasks(ctx, managerPhone)
	if len(mine) != 1 || mine[0].Title != "renamed" || mine[0].Importance != 7 || len(mine[0].RepeatDays) != 0 {
		t.Errorf("after update = %+v", mine)
	}

	wantKind(t, f.tasks.DeleteTask(ctx, task.ID.String(), otherPhone), apperr.KindNotFound)
	wantKind(t, f.tasks.DeleteTask(ctx, "bogus", managerPhone), apperr.KindNotFound)
	if err := f.tasks.DeleteTask(ctx, task.ID.String(), managerPhone); err != nil {
		t.Fatal(err)
	}
	wantKind(t, f.tasks.DeleteTask(ctx, task.ID.String(), managerPhone), apperr.KindNotFound)
}

func TestUpdateTaskCannotMoveIntoForeignGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Manager", managerPhone, models.RoleManager)
	f.register(t, "Other", otherPhone, models.RoleManager)
	f.group(t, "G1", managerPhone)
	f.group(t, "Foreign", otherPhone, memberPhone)
	task := f.task(t, "a", "G1", managerPhone, 1)

	move := models.TaskFields{Title: "moved", Group: "Foreign", Importance: 1}
	wantKind(t, f.tasks.UpdateTask(ctx, task.ID.String(), move, managerPhone), apperr.KindForbidden)
	move.Group = "missing"
	wantKind(t, f.tasks.UpdateTask(ctx, task.ID.String(), move, managerPhone), apperr.KindForbidden)

	list, err := f.tasks.ListMyTasks(ctx, memberPhone)
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Tasks) != 0 {
		t.Errorf("foreign member sees %v", titles(list.Tasks))
	}
	mine, _ := f.tasks.ListMyCreatedTasks(ctx, managerPhone)
	if len(mine) != 1 || mine[0].Group != "G1" || mine[0].Title != "a" {
		t.Errorf("task changed: %+v", mine)
	}
}

func TestCompletionPercentage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.group(t, "G4", managerPhone, "+380000000011", "+380000000012", "+380000000013", "+380000000014")
	f.group(t, "Empty", managerPhone)

	if err := f.completions.RecordCompletion(ctx, "+380000000011", CompletionReport{TaskID: "t1", KeyTime: "2025-04-01T09:00"}); err != nil {
		t.Fatal(err)
	}
	if err := f.completions.RecordCompletion(ctx, "+380000000012", CompletionReport{TaskID: "t1", KeyTime: "2025-04-02T09:00"}); err != nil {
		t.Fatal(err)
	}

	pct, err := f.tasks.CompletionPercentage(ctx, "G4", "2025-04-01T09:00")
	if err != nil {
		t.Fatal(err)
	}
	if pct != 25.0 {
		t.Errorf("percentage = %v, want 25", pct)
	}

	_, err = f.tasks.CompletionPercentage(ctx, "Empty", "2025-04-01T09:00")
	wantKind(t, err, apperr.KindNotFound)
	_, err = f.tasks.CompletionPercentage(ctx, "missing", "2025-04-01T09:00")
	wantKind(t, err, apperr.KindNotFound)
}

// ============================================================
// Completions
// ============================================================

func TestCancellationRequiresComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.completions.RecordCancellation(ctx, memberPhone, CancellationReport{TaskID: "t", KeyTime: "k", Comment: "  "})
	wantKind(t, err, apperr.KindBadRequest)

	if err := f.completions.RecordCancellation(ctx, memberPhone, CancellationReport{TaskID: "t", KeyTime: "k", Comment: "sick"}); err != nil {
		t.Fatal(err)
	}
	if err := f.completions.RecordCompletion(ctx, memberPhone, CompletionReport{TaskID: "t", KeyTime: "k"}); err != nil {
		t.Fatal(err)
	}
	n, _ := f.store.CountCompletions(ctx, "k")
	if n != 2 {
		t.Errorf("events = %d, want 2", n)
	}
}

func TestGroupReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Manager", managerPhone, models.RoleManager)
	f.group(t, "G1", managerPhone, memberPhone, otherPhone)
	task := f.task(t, "sweep", "G1", managerPhone, 1)
	f.task(t, "idle", "G1", managerPhone, 1)
	id := task.ID.String()

	f.completions.RecordCompletion(ctx, memberPhone, CompletionReport{TaskID: id, KeyTime: "k1"})
	f.completions.RecordCompletion(ctx, memberPhone, CompletionReport{TaskID: id, KeyTime: "k1"})
	f.completions.RecordCancellation(ctx, otherPhone, CancellationReport{TaskID: id, KeyTime: "k1", Comment: "rain"})

	var buf bytes.Buffer
	if err := f.completions.GroupReport(ctx, "G1", &buf); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		reportHeader,
		{id, "sweep", "k1", memberPhone, "2", "0"},
		{id, "sweep", "k1", otherPhone, "0", "1"},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %v", rows)
	}
	for i := range want {
		if !equal(rows[i], want[i]) {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}

	wantKind(t, f.completions.GroupReport(ctx, "missing", &buf), apperr.KindNotFound)
}
