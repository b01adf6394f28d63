package authz

import "fmt"

// Resource tags a page or a family of pages.
type Resource string

const (
	ResourceDashboard      Resource = "dashboard"
	ResourceSchools        Resource = "schools"
	ResourceSchoolSettings Resource = "school_settings"
	ResourceClasses        Resource = "classes"
	ResourceStudents       Resource = "students"
	ResourceStaff          Resource = "staff"
	ResourceSubjects       Resource = "subjects"
	ResourceFees           Resource = "fees"
	ResourceBills          Resource = "bills"
	ResourceExams          Resource = "exams"
	ResourceMessages       Resource = "messages"
	ResourceProfile        Resource = "profile"
)

// Action is a per-resource operation gated on top of the view permission.
type Action string

const (
	ActionView                 Action = "view"
	ActionCreate               Action = "create"
	ActionUpdate               Action = "update"
	ActionDelete               Action = "delete"
	ActionToggleStatus         Action = "toggle_status"
	ActionAssignClassTeacher   Action = "assign_class_teacher"
	ActionAssignSubjectTeacher Action = "assign_subject_teacher"
)

type roleSet []Role

func (rs roleSet) has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// viewRoles maps each resource to the roles allowed to view it.
var viewRoles = map[Resource]roleSet{
	ResourceDashboard:      {RoleSuperAdmin, RoleSchoolAdmin, RoleStaff, RoleStudent, RoleParent},
	ResourceSchools:        {RoleSuperAdmin},
	ResourceSchoolSettings: {RoleSchoolAdmin},
	ResourceClasses:        {RoleSchoolAdmin, RoleStaff},
	ResourceStudents:       {RoleSchoolAdmin, RoleStaff},
	ResourceStaff:          {RoleSchoolAdmin, RoleStaff},
	ResourceSubjects:       {RoleSchoolAdmin, RoleStaff},
	ResourceFees:           {RoleSchoolAdmin},
	ResourceBills:          {RoleSchoolAdmin, RoleStudent, RoleParent},
	ResourceExams:          {RoleSchoolAdmin, RoleStaff, RoleStudent, RoleParent},
	ResourceMessages:       {RoleSchoolAdmin, RoleStaff, RoleStudent, RoleParent},
	ResourceProfile:        {RoleSchoolAdmin, RoleStaff, RoleStudent, RoleParent},
}

type grant struct {
	resource Resource
	action   Action
}

// actionRoles lists the roles allowed to run non-view actions.
// Staff grants are further narrowed to their Scope by CanManageStudent & CanManageClass.
var actionRoles = map[grant]roleSet{
	{ResourceStudents, ActionCreate}:       {RoleSchoolAdmin, RoleStaff},
	{ResourceStudents, ActionUpdate}:       {RoleSchoolAdmin, RoleStaff},
	{ResourceStudents, ActionDelete}:       {RoleSchoolAdmin},
	{ResourceStudents, ActionToggleStatus}: {RoleSchoolAdmin, RoleStaff},

	{ResourceStaff, ActionCreate}:       {RoleSchoolAdmin},
	{ResourceStaff, ActionUpdate}:       {RoleSchoolAdmin},
	{ResourceStaff, ActionDelete}:       {RoleSchoolAdmin},
	{ResourceStaff, ActionToggleStatus}: {RoleSchoolAdmin},

	{ResourceClasses, ActionCreate}:               {RoleSchoolAdmin},
	{ResourceClasses, ActionUpdate}:               {RoleSchoolAdmin, RoleStaff},
	{ResourceClasses, ActionDelete}:               {RoleSchoolAdmin},
	{ResourceClasses, ActionAssignClassTeacher}:   {RoleSchoolAdmin},
	{ResourceClasses, ActionAssignSubjectTeacher}: {RoleSchoolAdmin},

	{ResourceSubjects, ActionCreate}: {RoleSchoolAdmin},
	{ResourceSubjects, ActionUpdate}: {RoleSchoolAdmin},
	{ResourceSubjects, ActionDelete}: {RoleSchoolAdmin},

	{ResourceFees, ActionCreate}:  {RoleSchoolAdmin},
	{ResourceFees, ActionUpdate}:  {RoleSchoolAdmin},
	{ResourceFees, ActionDelete}:  {RoleSchoolAdmin},
	{ResourceBills, ActionCreate}: {RoleSchoolAdmin},
	{ResourceBills, ActionUpdate}: {RoleSchoolAdmin},
	{ResourceBills, ActionDelete}: {RoleSchoolAdmin},

	{ResourceExams, ActionCreate}: {RoleSchoolAdmin},
	{ResourceExams, ActionUpdate}: {RoleSchoolAdmin},
	{ResourceExams, ActionDelete}: {RoleSchoolAdmin},

	{ResourceMessages, ActionCreate}: {RoleSchoolAdmin, RoleStaff, RoleStudent, RoleParent},

	{ResourceSchools, ActionCreate}:        {RoleSuperAdmin},
	{ResourceSchools, ActionUpdate}:        {RoleSuperAdmin},
	{ResourceSchools, ActionDelete}:        {RoleSuperAdmin},
	{ResourceSchoolSettings, ActionUpdate}: {RoleSchoolAdmin},
	{ResourceProfile, ActionUpdate}:        {RoleSchoolAdmin, RoleStaff, RoleStudent, RoleParent},
}

// Decision is the outcome of Authorize. The zero value denies.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(reason string) Decision { return Decision{Reason: reason} }

// DenyError carries a Deny decision through error returns.
type DenyError struct {
	Resource Resource
	Reason   string
	Redirect string
}

func (err *DenyError) Error() string {
	return fmt.Sprintf("access to %s denied: %s", err.Resource, err.Reason)
}

// Authorize decides whether role may view resource.
func Authorize(role Role, resource Resource) Decision {
	if !role.Valid() {
		return Deny("You must be signed in to view this page.")
	}
	roles, ok := viewRoles[resource]
	if !ok {
		return Deny("This page does not exist.")
	}
	if !roles.has(role) {
		return Deny(fmt.Sprintf("You do not have permission to view %s.", humanize(resource)))
	}
	return Allow()
}

// Can decides whether role may run action on resource. ActionView is Authorize.
func Can(role Role, resource Resource, action Action) bool {
	if !Authorize(role, resource).Allowed {
		return false
	}
	if action == ActionView {
		return true
	}
	return actionRoles[grant{resource, action}].has(role)
}

func humanize(r Resource) string {
	switch r {
	case ResourceSchoolSettings:
		return "school settings"
	case ResourceStaff:
		return "staff"
	default:
		return string(r)
	}
}
