package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/accomnote/internal/store"
)

func TestStudentKeyFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Jo-Ann", "Jo_Ann"},
		{"  Jo-Ann  ", "Jo_Ann"},
		{"Mary Jane O'Hara", "Mary_Jane_O_Hara"},
		{"René", "René"},
		{"third grader 3", "third_grader_3"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, store.StudentKeyFromName(tt.name))
	}
}

// Names that differ only in punctuation collapse to the same key. That is the
// deployed behavior: the records share one path and overwrite each other.
func TestStudentKeyCollision(t *testing.T) {
	variants := []string{"Jo-Ann", "Jo Ann", "Jo.Ann", "Jo/Ann", "Jo#Ann"}
	for _, variant := range variants {
		require.Equal(t, "Jo_Ann", store.StudentKeyFromName(variant))
	}
}

func TestStudentPath(t *testing.T) {
	path, err := store.StudentPath("5", "A", "Jo_Ann")
	require.NoError(t, err)
	require.Equal(t, "Classes/5/A/Jo_Ann", path.String())
}

func TestUserPath(t *testing.T) {
	path, err := store.UserPath("uid-123")
	require.NoError(t, err)
	require.Equal(t, "users/uid-123", path.String())
}

func TestPathRejectsEmptySegments(t *testing.T) {
	_, err := store.StudentPath("", "A", "Jo_Ann")
	require.Error(t, err)

	_, err = store.SectionPath("5", "")
	require.Error(t, err)

	_, err = store.UserPath("")
	require.Error(t, err)
}

func TestPathRejectsForbiddenCharacters(t *testing.T) {
	for _, segment := range []string{"a.b", "a$b", "a#b", "a[b", "a]b", "a/b"} {
		_, err := store.SectionPath(segment, "A")
		require.Error(t, err, segment)
	}
}

func TestClassesPath(t *testing.T) {
	require.Equal(t, "Classes", store.ClassesPath().String())
}
