package authz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/school"
	notifysvc "github.com/trezcool/darasa/services/notify"
)

var allResources = []Resource{
	ResourceDashboard, ResourceSchools, ResourceSchoolSettings, ResourceClasses, ResourceStudents, ResourceStaff,
	ResourceSubjects, ResourceFees, ResourceBills, ResourceExams, ResourceMessages, ResourceProfile,
}

func TestAuthorize_total(t *testing.T) {
	for _, res := range allResources {
		if _, ok := viewRoles[res]; !ok {
			t.Errorf("viewRoles has no entry for %q", res)
		}
		for _, role := range AllRoles {
			d := Authorize(role, res)
			if !d.Allowed && d.Reason == "" {
				t.Errorf("Authorize(%s, %s) denied without a reason", role, res)
			}
		}
	}
	for g := range actionRoles {
		if _, ok := viewRoles[g.resource]; !ok {
			t.Errorf("action grant on unknown resource %q", g.resource)
		}
	}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		role     Role
		resource Resource
		want     bool
	}{
		{RoleSuperAdmin, ResourceSchools, true},
		{RoleSuperAdmin, ResourceStudents, false},
		{RoleSchoolAdmin, ResourceSchools, false},
		{RoleSchoolAdmin, ResourceStudents, true},
		{RoleSchoolAdmin, ResourceFees, true},
		{RoleStaff, ResourceClasses, true},
		{RoleStaff, ResourceFees, false},
		{RoleStudent, ResourceStudents, false},
		{RoleStudent, ResourceBills, true},
		{RoleParent, ResourceExams, true},
		{RoleParent, ResourceStaff, false},
		{RoleUnknown, ResourceDashboard, false},
		{RoleSchoolAdmin, Resource("nope"), false},
	}
	for _, tt := range tests {
		t.Run(tt.role.String()+"/"+string(tt.resource), func(t *testing.T) {
			if got := Authorize(tt.role, tt.resource).Allowed; got != tt.want {
				t.Errorf("Authorize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCan(t *testing.T) {
	tests := []struct {
		role     Role
		resource Resource
		action   Action
		want     bool
	}{
		{RoleSchoolAdmin, ResourceStaff, ActionToggleStatus, true},
		{RoleStaff, ResourceStaff, ActionToggleStatus, false},
		{RoleStaff, ResourceStudents, ActionToggleStatus, true},
		{RoleStaff, ResourceStudents, ActionDelete, false},
		{RoleStaff, ResourceClasses, ActionAssignClassTeacher, false},
		{RoleStaff, ResourceClasses, ActionView, true},
		{RoleStudent, ResourceStudents, ActionView, false},
		{RoleStudent, ResourceMessages, ActionCreate, true},
		// action grants never bypass the view table
		{RoleSuperAdmin, ResourceStudents, ActionCreate, false},
		{RoleSchoolAdmin, ResourceDashboard, ActionDelete, false},
	}
	for _, tt := range tests {
		t.Run(tt.role.String()+"/"+string(tt.resource)+"/"+string(tt.action), func(t *testing.T) {
			if got := Can(tt.role, tt.resource, tt.action); got != tt.want {
				t.Errorf("Can() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRole_JSON(t *testing.T) {
	for _, role := range AllRoles {
		b, err := json.Marshal(role)
		if err != nil {
			t.Fatalf("Marshal(%s) error = %v", role, err)
		}
		var got Role
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", b, err)
		}
		assert.Equal(t, role, got)
	}

	var r Role
	assert.Error(t, json.Unmarshal([]byte(`"janitor"`), &r))
	_, err := json.Marshal(RoleUnknown)
	assert.Error(t, err)
}

func TestDefaultRoute(t *testing.T) {
	seen := make(map[string]bool)
	for _, role := range AllRoles {
		route := DefaultRoute(role)
		assert.NotEqual(t, "/login", route, role.String())
		assert.False(t, seen[route], "duplicate route %s", route)
		seen[route] = true
	}
	assert.Equal(t, "/login", DefaultRoute(RoleUnknown))
}

type navigatorStub struct {
	routes []string
}

func (n *navigatorStub) Redirect(route string) { n.routes = append(n.routes, route) }

func TestGate_Guard(t *testing.T) {
	rec := new(notifysvc.Recorder)
	nav := new(navigatorStub)
	gate := NewGate(rec, nav)

	var rendered int
	render := func() { rendered++ }

	if err := gate.Guard(RoleSchoolAdmin, ResourceStudents, render); err != nil {
		t.Fatalf("Guard() error = %v", err)
	}
	assert.Equal(t, 1, rendered)
	assert.Empty(t, rec.All())
	assert.Empty(t, nav.routes)

	err := gate.Guard(RoleStudent, ResourceStudents, render)
	denied, ok := err.(*DenyError)
	if !ok {
		t.Fatalf("Guard() error = %v, want *DenyError", err)
	}
	assert.Equal(t, 1, rendered, "denied viewers are never rendered")
	assert.Equal(t, "/student/dashboard", denied.Redirect)
	assert.Equal(t, []string{"/student/dashboard"}, nav.routes)

	last, _ := rec.Last()
	assert.Equal(t, notifysvc.KindFailure, last.Kind)
	assert.Equal(t, "Access denied", last.Title)
	assert.Equal(t, "You do not have permission to view students.", last.Message)
}

func scopeSnapshot() school.Snapshot {
	return school.Snapshot{
		Classes: []school.ClassItem{
			{ID: 1, ClassTeacherID: null.IntFrom(10), Subjects: []school.ClassSubject{
				{ID: 1, SubjectID: 100, TeacherID: null.IntFrom(11)},
				{ID: 2, SubjectID: 101},
			}},
			{ID: 2, ClassTeacherID: null.IntFrom(11), Subjects: []school.ClassSubject{
				{ID: 3, SubjectID: 102, TeacherID: null.IntFrom(10)},
				{ID: 4, SubjectID: 103, TeacherID: null.IntFrom(11)},
			}},
			{ID: 3, Subjects: []school.ClassSubject{{ID: 5, SubjectID: 104}}},
		},
		Students: []school.StudentItem{{ID: 1, ClassID: 1}, {ID: 2, ClassID: 2}, {ID: 3, ClassID: 3}},
		Subjects: []school.SubjectItem{{ID: 100}, {ID: 101}, {ID: 102}, {ID: 103}, {ID: 104}},
	}
}

func TestScope_staff(t *testing.T) {
	snap := scopeSnapshot()
	sc := NewScope(RoleStaff, 10, snap)

	assert.True(t, sc.Narrowed())
	// class teacher of 1, teaches subject 102 in class 2
	assert.Equal(t, []int{1, 2}, classIDs(sc.Classes(snap.Classes)))
	assert.Len(t, sc.Students(snap.Students), 2)
	// all subjects of the class they lead plus the ones they teach
	var subjects []int
	for _, s := range sc.Subjects(snap.Subjects) {
		subjects = append(subjects, s.ID)
	}
	assert.Equal(t, []int{100, 101, 102}, subjects)

	assert.True(t, sc.CanManageStudent(ActionToggleStatus, snap.Students[0]))
	assert.False(t, sc.CanManageStudent(ActionToggleStatus, snap.Students[2]))
	assert.False(t, sc.CanManageStudent(ActionDelete, snap.Students[0]))
	assert.True(t, sc.CanManageClass(ActionUpdate, 2))
	assert.False(t, sc.CanManageClass(ActionUpdate, 3))
}

func TestScope_staffWithoutTeacherRecord(t *testing.T) {
	snap := scopeSnapshot()
	sc := NewScope(RoleStaff, 0, snap)

	assert.Empty(t, sc.Classes(snap.Classes))
	assert.Empty(t, sc.Students(snap.Students))
	assert.Empty(t, sc.Subjects(snap.Subjects))
}

func TestScope_admin(t *testing.T) {
	snap := scopeSnapshot()
	sc := NewScope(RoleSchoolAdmin, 0, snap)

	assert.False(t, sc.Narrowed())
	assert.Len(t, sc.Classes(snap.Classes), 3)
	assert.Len(t, sc.Students(snap.Students), 3)
	assert.Len(t, sc.Subjects(snap.Subjects), 5)
	assert.True(t, sc.CanManageStudent(ActionDelete, snap.Students[2]))
}

func classIDs(classes []school.ClassItem) []int {
	ids := make([]int, 0, len(classes))
	for _, c := range classes {
		ids = append(ids, c.ID)
	}
	return ids
}
