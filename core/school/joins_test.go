package school

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Classes: []ClassItem{
			{ID: 1, Grade: "5", Section: "A", ClassTeacherID: null.IntFrom(10), Subjects: []ClassSubject{
				{ID: 100, SubjectID: 20, TeacherID: null.IntFrom(10)},
				{ID: 101, SubjectID: 99, TeacherID: null.IntFrom(77)}, // dangling subject & teacher
				{ID: 102, SubjectID: 21},
			}},
			{ID: 2, Grade: "6", Section: "B", ClassTeacherID: null.IntFrom(77)},
			{ID: 3, Grade: "7", Section: "C"},
		},
		Students: []StudentItem{
			{ID: 1, ClassID: 1}, {ID: 2, ClassID: 1}, {ID: 3, ClassID: 2}, {ID: 4, ClassID: 42},
		},
		Teachers: []StaffItem{{ID: 10, FullName: "Jane Doe"}},
		Subjects: []SubjectItem{{ID: 20, SubjectName: "Math"}, {ID: 21, SubjectName: "English"}},
	}
}

func TestSnapshot_names(t *testing.T) {
	snap := testSnapshot()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "teacher", got: snap.TeacherName(null.IntFrom(10)), want: "Jane Doe"},
		{name: "null teacher", got: snap.TeacherName(null.Int{}), want: Unassigned},
		{name: "dangling teacher", got: snap.TeacherName(null.IntFrom(77)), want: Unassigned},
		{name: "subject", got: snap.SubjectName(21), want: "English"},
		{name: "dangling subject", got: snap.SubjectName(99), want: UnknownSubject},
		{name: "class", got: snap.ClassLabel(2), want: "Grade 6 - B"},
		{name: "dangling class", got: snap.ClassLabel(42), want: UnknownClass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestSnapshot_SubjectsForClass(t *testing.T) {
	snap := testSnapshot()

	want := []SubjectAssignment{
		{MappingID: 100, SubjectID: 20, SubjectName: "Math", TeacherID: null.IntFrom(10), TeacherName: "Jane Doe"},
		{MappingID: 101, SubjectID: 99, SubjectName: UnknownSubject, TeacherID: null.IntFrom(77), TeacherName: Unassigned},
		{MappingID: 102, SubjectID: 21, SubjectName: "English", TeacherName: Unassigned},
	}
	assert.Equal(t, want, snap.SubjectsForClass(1))
	assert.Empty(t, snap.SubjectsForClass(3))
	assert.NotNil(t, snap.SubjectsForClass(42))
	assert.Empty(t, snap.SubjectsForClass(42))
}

func TestSnapshot_TeacherForClass(t *testing.T) {
	snap := testSnapshot()

	teacher, ok := snap.TeacherForClass(1)
	assert.True(t, ok)
	assert.Equal(t, 10, teacher.ID)

	for _, classID := range []int{2, 3, 42} {
		_, ok := snap.TeacherForClass(classID)
		assert.False(t, ok, "class %d", classID)
	}
}

func TestSnapshot_StudentsInClass(t *testing.T) {
	snap := testSnapshot()

	assert.Len(t, snap.StudentsInClass(1), 2)
	assert.Len(t, snap.StudentsInClass(2), 1)
	assert.Empty(t, snap.StudentsInClass(3))
}

func TestSnapshot_Mappings(t *testing.T) {
	rows := testSnapshot().Mappings()
	if len(rows) != 3 {
		t.Fatalf("Mappings() len = %d, want 3", len(rows))
	}
	for _, m := range rows {
		assert.Equal(t, 1, m.ClassID)
	}
}

func TestStatus_Toggle(t *testing.T) {
	assert.Equal(t, StatusInactive, StatusActive.Toggle())
	assert.Equal(t, StatusActive, StatusInactive.Toggle())
	assert.Equal(t, StatusActive, Status("").Toggle())
}

func TestSortClasses(t *testing.T) {
	tests := []struct {
		name    string
		classes []ClassItem
		want    []string
	}{
		{
			name:    "numeric grades",
			classes: []ClassItem{{Grade: "10", Section: "A"}, {Grade: "5", Section: "B"}, {Grade: "5", Section: "A"}, {Grade: "9", Section: "A"}},
			want:    []string{"Grade 5 - A", "Grade 5 - B", "Grade 9 - A", "Grade 10 - A"},
		},
		{
			name:    "free-form grades last",
			classes: []ClassItem{{Grade: "KG", Section: "A"}, {Grade: "12", Section: "A"}, {Grade: "Form 1", Section: "A"}},
			want:    []string{"Grade 12 - A", "Grade Form 1 - A", "Grade KG - A"},
		},
		{name: "empty", classes: nil, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SortClasses(tt.classes)
			got := make([]string, 0, len(tt.classes))
			for _, c := range tt.classes {
				got = append(got, ClassName(c))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
