package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		wantErr bool
	}{
		{name: "both set", query: Query{Designation: "Data Analyst", City: "Austin"}},
		{name: "empty designation", query: Query{City: "Austin"}, wantErr: true},
		{name: "empty city", query: Query{Designation: "Data Analyst"}, wantErr: true},
		{name: "whitespace only", query: Query{Designation: "  ", City: "\t"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrEmptyQuery)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestQueryNormalize(t *testing.T) {
	q := Query{Designation: "  Go Developer ", City: " Remote\n"}.Normalize()
	assert.Equal(t, "Go Developer", q.Designation)
	assert.Equal(t, "Remote", q.City)
}
