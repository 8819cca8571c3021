package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationOptions_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   PaginationOptions
		want PaginationOptions
	}{
		{"zero values", PaginationOptions{}, PaginationOptions{Page: 1, PageSize: 20}},
		{"too large", PaginationOptions{Page: 3, PageSize: 500}, PaginationOptions{Page: 3, PageSize: 20}},
		{"valid", PaginationOptions{Page: 2, PageSize: 50}, PaginationOptions{Page: 2, PageSize: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]string{"a", "b"}, PaginationOptions{Page: 1, PageSize: 2}, 5)
	assert.Equal(t, 3, p.Page.Pages)
	assert.False(t, p.Empty)

	empty := NewPaginated[string](nil, PaginationOptions{Page: 1, PageSize: 20}, 0)
	assert.True(t, empty.Empty)
	assert.NotNil(t, empty.Items)
}

func TestPhoneAndEmail(t *testing.T) {
	assert.True(t, Phone("+51 987-654-321").IsValid())
	assert.False(t, Phone("12ab").IsValid())
	assert.True(t, Email("ana@example.com").IsValid())
	assert.False(t, Email("not-an-email").IsValid())
}

func TestRole_CanManageApplications(t *testing.T) {
	assert.True(t, RoleAdmin.CanManageApplications())
	assert.True(t, RoleRecruiter.CanManageApplications())
	assert.False(t, RoleCandidate.CanManageApplications())
}
